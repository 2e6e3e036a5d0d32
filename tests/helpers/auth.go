// auth.go
//
// MealBridge donation-matching data service.

package helpers

import (
	"bytes"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/mealbridge/mealbridge/internal/middleware"
)

// LoginAs performs a mock login against the app and returns the session
// cookie value. The account is created on first use.
func LoginAs(t *testing.T, app *fiber.App, username, role string) string {
	t.Helper()

	body := fmt.Sprintf(`{"username":%q,"role":%q}`, username, role)
	req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Login request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected login to succeed, got status %d", resp.StatusCode)
	}

	for _, cookie := range resp.Cookies() {
		if cookie.Name == middleware.SessionCookie {
			return cookie.Value
		}
	}
	t.Fatal("Login response carried no session cookie")
	return ""
}
