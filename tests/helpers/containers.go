// containers.go
//
// MealBridge donation-matching data service.
//
// Provisions the backing containers for local development and container
// tests: a MariaDB instance and, when AUTHZ_IMAGE is set, an Authorizer
// instance wired to it. Used by the devstack command in a standalone
// executable (t == nil) and by test files in this package.
// Expects environment variables to be loaded from .env files.

package helpers

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"
)

type DevContainers struct {
	Network             *testcontainers.DockerNetwork
	DBContainer         testcontainers.Container
	AuthorizerContainer testcontainers.Container
}

func (dc *DevContainers) Terminate(t *testing.T) {
	ctx := context.Background()
	if dc.AuthorizerContainer != nil {
		if err := dc.AuthorizerContainer.Terminate(ctx); err != nil {
			logMessage(t, "Failed to terminate Authorizer: %v", err)
		}
	}
	if dc.DBContainer != nil {
		if err := dc.DBContainer.Terminate(ctx); err != nil {
			logMessage(t, "Failed to terminate MariaDB: %v", err)
		}
	}
	if dc.Network != nil {
		if err := dc.Network.Remove(ctx); err != nil {
			logMessage(t, "Failed to remove network: %v", err)
		}
	}
}

// CreateDevContainers starts the database and, optionally, an Authorizer
// instance on a shared network. It logs the mapped host/port pairs so a
// locally running server can be pointed at them.
func CreateDevContainers(t *testing.T) (*DevContainers, error) {
	ctx := context.Background()
	devContainers := &DevContainers{}

	nw, err := network.New(ctx)
	if err != nil {
		exitWithError(t, err, "Failed to create network")
	}
	devContainers.Network = nw
	networkName := nw.Name

	dbNetworkName := envOr("DB_HOST", "mariadb")
	tcpDbPort, err := nat.NewPort("tcp", envOr("DB_PORT", "3306"))
	if err != nil {
		devContainers.Terminate(t)
		exitWithError(t, err, "Failed to create DB port")
	}

	dbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        envOr("DB_IMAGE", "mariadb:11"),
			ExposedPorts: []string{string(tcpDbPort)},
			Env: map[string]string{
				"MYSQL_ROOT_PASSWORD": envOr("DB_ROOT_PASSWORD", "rootpass"),
				"MYSQL_DATABASE":      envOr("DB_DATABASE", "mealbridge"),
				"MYSQL_USER":          envOr("DB_USER", "mealbridge"),
				"MYSQL_PASSWORD":      envOr("DB_PASSWORD", "mealbridge"),
			},
			WaitingFor: wait.ForListeningPort(tcpDbPort).WithStartupTimeout(60 * time.Second),
			Networks:   []string{networkName},
			NetworkAliases: map[string][]string{
				networkName: {dbNetworkName},
			},
		},
		Started: true,
	})
	if err != nil {
		devContainers.Terminate(t)
		exitWithError(t, err, "Failed to start MariaDB")
	}
	devContainers.DBContainer = dbContainer

	dbHost, _ := dbContainer.Host(ctx)
	dbPort, _ := dbContainer.MappedPort(ctx, tcpDbPort)
	logMessage(t, "DB_HOST=%s DB_PORT=%s", dbHost, dbPort.Port())

	// The Authorizer instance is optional; without AUTHZ_IMAGE the stack
	// serves the mock-session configuration.
	authzImage := os.Getenv("AUTHZ_IMAGE")
	if authzImage == "" {
		logMessage(t, "AUTHZ_IMAGE not set, skipping Authorizer")
		return devContainers, nil
	}

	authzNetworkName := "authorizer"
	tcpAuthzPort, err := nat.NewPort("tcp", envOr("AUTHZ_PORT", "8080"))
	if err != nil {
		devContainers.Terminate(t)
		exitWithError(t, err, "Failed to create Authorizer port")
	}
	authzDbConnection := fmt.Sprintf("root:%s@tcp(%s:%s)/%s",
		envOr("DB_ROOT_PASSWORD", "rootpass"), dbNetworkName, envOr("DB_PORT", "3306"), envOr("AUTHZ_DATABASE", "authorizer"))

	authorizerContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        authzImage,
			ExposedPorts: []string{string(tcpAuthzPort)},
			Env: map[string]string{
				"ENV":           "production",
				"CLIENT_ID":     os.Getenv("AUTHZ_CLIENT_ID"),
				"PORT":          envOr("AUTHZ_PORT", "8080"),
				"DATABASE_TYPE": "mariadb",
				"DATABASE_NAME": envOr("AUTHZ_DATABASE", "authorizer"),
				"DATABASE_URL":  authzDbConnection,
				"ADMIN_SECRET":  os.Getenv("AUTHZ_ADMIN_SECRET"),
				"ROLES":         "donor,ngo",
				"DEFAULT_ROLES": "donor",
				"LOG_LEVEL":     "info",
			},
			WaitingFor: wait.ForLog("Authorizer running at PORT:").WithStartupTimeout(30 * time.Second),
			Networks:   []string{networkName},
			NetworkAliases: map[string][]string{
				networkName: {authzNetworkName},
			},
		},
		Started: true,
	})
	if err != nil {
		devContainers.Terminate(t)
		exitWithError(t, err, "Failed to start Authorizer")
	}
	devContainers.AuthorizerContainer = authorizerContainer

	authzHost, _ := authorizerContainer.Host(ctx)
	authzPort, _ := authorizerContainer.MappedPort(ctx, tcpAuthzPort)
	logMessage(t, "AUTHZ_URL=http://%s:%s", authzHost, authzPort.Port())

	return devContainers, nil
}

func envOr(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func exitWithError(t *testing.T, err error, msg string) {
	if t != nil {
		t.Fatalf(msg+": %v", err)
	} else {
		fmt.Printf(msg+": %v\n", err)
		os.Exit(1)
	}
}

func logMessage(t *testing.T, format string, args ...any) {
	if t != nil {
		t.Logf(format, args...)
	} else {
		fmt.Printf(format+"\n", args...)
	}
}
