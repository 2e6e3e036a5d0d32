// mysql.go
//
// MealBridge donation-matching data service.
//
// Readiness probe for MariaDB/MySQL testcontainers. The container logs
// "ready for connections" before the server actually accepts TCP clients, so
// tests poll with a raw driver connection instead of sleeping a fixed amount.

package helpers

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/go-sql-driver/mysql"
)

// WaitForMySQL polls the database until it answers a ping or the attempts
// run out.
func WaitForMySQL(t *testing.T, user, password, host string, port nat.Port, database string) {
	t.Helper()

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", user, password, host, port.Port(), database)
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("Failed to open MySQL connection: %v", err)
	}
	defer db.Close()

	for i := 0; i < 30; i++ {
		if err = db.Ping(); err == nil {
			return
		}
		time.Sleep(1 * time.Second)
	}
	t.Fatalf("MySQL not ready after 30 seconds: %v", err)
}
