package integration_test

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mealbridge/mealbridge/internal/config"
	"github.com/mealbridge/mealbridge/internal/contracts"
	"github.com/mealbridge/mealbridge/internal/database"
	"github.com/mealbridge/mealbridge/internal/handlers"
	"github.com/mealbridge/mealbridge/internal/middleware"
	"github.com/mealbridge/mealbridge/internal/models"
	"github.com/mealbridge/mealbridge/internal/services"
	"github.com/mealbridge/mealbridge/internal/types"
	"github.com/mealbridge/mealbridge/internal/utils"
	"github.com/mealbridge/mealbridge/tests/helpers"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

func dbImage() string {
	if img := os.Getenv("DB_IMAGE"); img != "" {
		return img
	}
	return "mariadb:11"
}

// TestWithMariaDB exercises the service against a real MariaDB container
func TestWithMariaDB(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	mariadbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        dbImage(),
			ExposedPorts: []string{"3306/tcp"},
			Env: map[string]string{
				"MYSQL_ROOT_PASSWORD": "rootpass",
				"MYSQL_DATABASE":      "mealbridge_test",
				"MYSQL_USER":          "testuser",
				"MYSQL_PASSWORD":      "testpass",
			},
			WaitingFor: wait.ForLog("ready for connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start MariaDB container: %v", err)
	}
	defer func() {
		if err := mariadbContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate MariaDB container: %v", err)
		}
	}()

	host, err := mariadbContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	port, err := mariadbContainer.MappedPort(ctx, "3306")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	cfg := &config.Config{
		DBType:            "mysql",
		DBHost:            host,
		DBPort:            port.Port(),
		DBDatabase:        "mealbridge_test",
		DBUser:            "testuser",
		DBPassword:        "testpass",
		DBConnectionLimit: 5,
	}

	helpers.WaitForMySQL(t, cfg.DBUser, cfg.DBPassword, cfg.DBHost, port, cfg.DBDatabase)

	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	t.Run("DonationLifecycle", func(t *testing.T) {
		testDonationLifecycle(t, db)
	})

	t.Run("ListOrdering", func(t *testing.T) {
		testListOrdering(t, db)
	})

	t.Run("DemoSeed", func(t *testing.T) {
		testDemoSeed(t, db)
	})

	t.Run("HTTPFlow", func(t *testing.T) {
		testHTTPFlow(t, cfg, db)
	})
}

// testDonationLifecycle walks a listing through claim and collection
func testDonationLifecycle(t *testing.T, db *gorm.DB) {
	store := services.NewStore(db)

	helpers.CreateTestUser(t, db, "int-donor-1", "int_donor", models.RoleDonor)
	ngo := helpers.CreateTestUser(t, db, "int-ngo-1", "int_ngo", models.RoleNgo)

	donation, err := store.CreateDonation(contracts.CreateDonationRequest{
		FoodType:   "Soup",
		Quantity:   "20 liters",
		Location:   "Central Kitchen",
		ExpiryTime: types.FlexTime(time.Now().UTC().Add(6 * time.Hour)),
		DonorID:    "int-donor-1",
	})
	if err != nil {
		t.Fatalf("Failed to create donation: %v", err)
	}
	if donation.Status != models.StatusAvailable {
		t.Errorf("Expected status available, got %s", donation.Status)
	}
	if donation.NgoID != nil {
		t.Errorf("Expected null ngoId on a new listing, got %v", *donation.NgoID)
	}

	ngoID := contracts.UserID(ngo)
	claimed, err := store.UpdateDonationStatus(donation.ID, contracts.UpdateDonationStatusRequest{
		Status: models.StatusRequested,
		NgoID:  &ngoID,
	})
	if err != nil {
		t.Fatalf("Failed to claim donation: %v", err)
	}
	if claimed.Status != models.StatusRequested || claimed.NgoID == nil || *claimed.NgoID != ngo.ID {
		t.Errorf("Unexpected claimed record: %+v", claimed)
	}

	collected, err := store.UpdateDonationStatus(donation.ID, contracts.UpdateDonationStatusRequest{
		Status: models.StatusCollected,
	})
	if err != nil {
		t.Fatalf("Failed to collect donation: %v", err)
	}
	if collected.Status != models.StatusCollected {
		t.Errorf("Expected status collected, got %s", collected.Status)
	}
	// Omitted ngoId must survive the merge
	if collected.NgoID == nil || *collected.NgoID != ngo.ID {
		t.Errorf("Expected ngoId to persist through collection, got %v", collected.NgoID)
	}
}

// testListOrdering verifies newest-first ordering against real DB timestamps
func testListOrdering(t *testing.T, db *gorm.DB) {
	store := services.NewStore(db)

	helpers.CreateTestUser(t, db, "int-donor-2", "int_donor_2", models.RoleDonor)

	first := helpers.CreateTestDonation(t, db, "Ordering A", "int-donor-2")
	second := helpers.CreateTestDonation(t, db, "Ordering B", "int-donor-2")

	// Same created_at second is possible; the id tie-breaker keeps the order
	// deterministic either way.
	donations, err := store.ListDonations()
	if err != nil {
		t.Fatalf("Failed to list donations: %v", err)
	}

	posFirst, posSecond := -1, -1
	for i, d := range donations {
		switch d.ID {
		case first.ID:
			posFirst = i
		case second.ID:
			posSecond = i
		}
	}
	if posFirst < 0 || posSecond < 0 {
		t.Fatalf("Created listings missing from list result")
	}
	if posSecond > posFirst {
		t.Errorf("Expected the newer listing first, got positions %d and %d", posSecond, posFirst)
	}
}

// testDemoSeed verifies the embedded dataset loads and is idempotent
func testDemoSeed(t *testing.T, db *gorm.DB) {
	store := services.NewStore(db)

	if err := store.SeedDemo(); err != nil {
		t.Fatalf("Failed to seed demo data: %v", err)
	}
	if err := store.SeedDemo(); err != nil {
		t.Fatalf("Failed to re-run demo seed: %v", err)
	}

	var count int64
	if err := db.Model(&models.Donation{}).Where("food_type = ?", "Fresh Sandwiches & Wraps").Count(&count).Error; err != nil {
		t.Fatalf("Failed to count seeded donations: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected exactly 1 seeded sandwich listing, got %d", count)
	}

	if _, err := store.GetUserByUsername("city_shelter"); err != nil {
		t.Errorf("Expected seeded NGO account to exist: %v", err)
	}
}

// testHTTPFlow runs the full login + create + claim flow over the wire
func testHTTPFlow(t *testing.T, cfg *config.Config, db *gorm.DB) {
	store := services.NewStore(db)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return utils.ErrorResponse(c, err)
		},
	})
	api := app.Group("/api", middleware.Session(cfg, store))

	authHandler := &handlers.AuthHandler{Store: store}
	api.Post("/auth/login", authHandler.Login)
	api.Get("/auth/user", authHandler.CurrentUser)
	api.Post("/auth/logout", authHandler.Logout)

	donationHandler := &handlers.DonationHandler{Store: store}
	api.Get("/donations", donationHandler.ListDonations)
	api.Post("/donations", donationHandler.CreateDonation)
	api.Patch("/donations/:id/status", donationHandler.UpdateDonationStatus)

	donorSession := helpers.LoginAs(t, app, "http_donor", models.RoleDonor)
	ngoSession := helpers.LoginAs(t, app, "http_ngo", models.RoleNgo)

	// Donor posts a listing; donorId comes from the session
	createBody := `{"foodType":"Rice","quantity":"10kg","location":"Depot 4","expiryTime":"2027-01-02T10:00:00Z"}`
	req := httptest.NewRequest("POST", "/api/donations", bytes.NewReader([]byte(createBody)))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: donorSession})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute create request: %v", err)
	}
	helpers.AssertStatus(t, resp, fiber.StatusCreated)

	var created models.Donation
	helpers.ParseJSON(t, resp, &created)
	if created.DonorID != donorSession {
		t.Errorf("Expected donorId from the session, got %s", created.DonorID)
	}

	// NGO claims it; the ngo id rides in the request body
	claimBody := fmt.Sprintf(`{"status":"requested","ngoId":%q}`, ngoSession)
	req = httptest.NewRequest("PATCH", "/api/donations/"+strconv.Itoa(created.ID)+"/status", bytes.NewReader([]byte(claimBody)))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: ngoSession})
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute claim request: %v", err)
	}
	helpers.AssertStatus(t, resp, fiber.StatusOK)

	var claimed models.Donation
	helpers.ParseJSON(t, resp, &claimed)
	if claimed.Status != models.StatusRequested {
		t.Errorf("Expected status requested, got %s", claimed.Status)
	}
	if claimed.NgoID == nil || *claimed.NgoID != ngoSession {
		t.Errorf("Expected ngoId %s, got %v", ngoSession, claimed.NgoID)
	}

	// Logout clears the session and returns 204
	req = httptest.NewRequest("POST", "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: donorSession})
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute logout request: %v", err)
	}
	helpers.AssertStatus(t, resp, fiber.StatusNoContent)
	helpers.AssertNoContent(t, resp)
}
