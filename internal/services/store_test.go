package services_test

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mealbridge/mealbridge/internal/contracts"
	"github.com/mealbridge/mealbridge/internal/models"
	"github.com/mealbridge/mealbridge/internal/services"
	"github.com/mealbridge/mealbridge/internal/types"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Donation{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func createDonationInput(donorID string) contracts.CreateDonationRequest {
	notes := "Pickup before 9 PM"
	return contracts.CreateDonationRequest{
		FoodType:   "Bread",
		Quantity:   "5kg",
		Location:   "X",
		ExpiryTime: types.FlexTime(time.Now().UTC().Add(12 * time.Hour)),
		Notes:      &notes,
		DonorID:    types.FlexID(donorID),
	}
}

func TestCreateDonationDefaults(t *testing.T) {
	store := services.NewStore(setupTestDB(t))

	donation, err := store.CreateDonation(createDonationInput("D1"))
	if err != nil {
		t.Fatalf("Failed to create donation: %v", err)
	}

	if donation.ID == 0 {
		t.Error("Expected an assigned id")
	}
	if donation.Status != models.StatusAvailable {
		t.Errorf("Expected status available, got %s", donation.Status)
	}
	if donation.NgoID != nil {
		t.Errorf("Expected nil ngoId, got %v", *donation.NgoID)
	}
	if donation.DonorID != "D1" {
		t.Errorf("Expected donorId D1, got %s", donation.DonorID)
	}
	if donation.CreatedAt.IsZero() {
		t.Error("Expected createdAt to be stamped")
	}

	// Round-trip: the fetched record matches the one creation returned.
	fetched, err := store.GetDonation(donation.ID)
	if err != nil {
		t.Fatalf("Failed to fetch donation: %v", err)
	}
	if fetched.ID != donation.ID || fetched.FoodType != donation.FoodType ||
		fetched.Status != donation.Status || fetched.DonorID != donation.DonorID {
		t.Errorf("Fetched donation differs from created one: %+v vs %+v", fetched, donation)
	}
}

func TestCreateDonationIdsIncrease(t *testing.T) {
	store := services.NewStore(setupTestDB(t))

	prev := 0
	for i := 0; i < 5; i++ {
		donation, err := store.CreateDonation(createDonationInput("D1"))
		if err != nil {
			t.Fatalf("Failed to create donation: %v", err)
		}
		if donation.ID <= prev {
			t.Errorf("Expected strictly increasing ids, got %d after %d", donation.ID, prev)
		}
		prev = donation.ID
	}
}

func TestListDonationsNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	store := services.NewStore(db)

	var ids []int
	for i := 0; i < 4; i++ {
		donation, err := store.CreateDonation(createDonationInput("D1"))
		if err != nil {
			t.Fatalf("Failed to create donation: %v", err)
		}
		ids = append(ids, donation.ID)
	}

	// Spread creation times out so the sort key is exercised, not just the
	// id tie-breaker.
	base := time.Now().UTC().Add(-1 * time.Hour)
	for i, id := range ids {
		if err := db.Model(&models.Donation{}).Where("id = ?", id).
			Update("created_at", base.Add(time.Duration(i)*time.Minute)).Error; err != nil {
			t.Fatalf("Failed to adjust created_at: %v", err)
		}
	}

	donations, err := store.ListDonations()
	if err != nil {
		t.Fatalf("Failed to list donations: %v", err)
	}
	if len(donations) != len(ids) {
		t.Fatalf("Expected %d donations, got %d", len(ids), len(donations))
	}
	for i := 1; i < len(donations); i++ {
		if donations[i].CreatedAt.After(donations[i-1].CreatedAt) {
			t.Errorf("Expected non-increasing createdAt order at index %d", i)
		}
	}
	if donations[0].ID != ids[len(ids)-1] {
		t.Errorf("Expected newest donation first, got id %d", donations[0].ID)
	}
}

func TestNgoIDNullIffAvailable(t *testing.T) {
	store := services.NewStore(setupTestDB(t))

	donation, err := store.CreateDonation(createDonationInput("D1"))
	if err != nil {
		t.Fatalf("Failed to create donation: %v", err)
	}

	assertInvariant := func(id int) {
		t.Helper()
		d, err := store.GetDonation(id)
		if err != nil {
			t.Fatalf("Failed to fetch donation: %v", err)
		}
		if (d.NgoID == nil) != (d.Status == models.StatusAvailable) {
			t.Errorf("ngoId null iff available violated: status=%s ngoId=%v", d.Status, d.NgoID)
		}
	}

	assertInvariant(donation.ID)

	ngo := types.FlexID("N1")
	if _, err := store.UpdateDonationStatus(donation.ID, contracts.UpdateDonationStatusRequest{
		Status: models.StatusRequested,
		NgoID:  &ngo,
	}); err != nil {
		t.Fatalf("Failed to claim donation: %v", err)
	}
	assertInvariant(donation.ID)

	if _, err := store.UpdateDonationStatus(donation.ID, contracts.UpdateDonationStatusRequest{
		Status: models.StatusCollected,
	}); err != nil {
		t.Fatalf("Failed to collect donation: %v", err)
	}
	assertInvariant(donation.ID)
}

func TestUpdateStatusNotFound(t *testing.T) {
	db := setupTestDB(t)
	store := services.NewStore(db)

	_, err := store.UpdateDonationStatus(999, contracts.UpdateDonationStatusRequest{
		Status: models.StatusRequested,
	})
	if err == nil {
		t.Fatal("Expected an error for a missing donation")
	}
	ce, ok := err.(*types.CustomError)
	if !ok || ce.Code != 404 {
		t.Errorf("Expected a 404 CustomError, got %v", err)
	}

	// The store is unchanged.
	var count int64
	db.Model(&models.Donation{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected empty store, found %d records", count)
	}
}

func TestLifecycleScenario(t *testing.T) {
	store := services.NewStore(setupTestDB(t))

	donation, err := store.CreateDonation(createDonationInput("D1"))
	if err != nil {
		t.Fatalf("Failed to create donation: %v", err)
	}
	if donation.Status != models.StatusAvailable || donation.DonorID != "D1" || donation.NgoID != nil {
		t.Fatalf("Unexpected created state: %+v", donation)
	}

	ngo := types.FlexID("N1")
	requested, err := store.UpdateDonationStatus(donation.ID, contracts.UpdateDonationStatusRequest{
		Status: models.StatusRequested,
		NgoID:  &ngo,
	})
	if err != nil {
		t.Fatalf("Failed to request donation: %v", err)
	}
	if requested.Status != models.StatusRequested {
		t.Errorf("Expected status requested, got %s", requested.Status)
	}
	if requested.NgoID == nil || *requested.NgoID != "N1" {
		t.Errorf("Expected ngoId N1, got %v", requested.NgoID)
	}
	if requested.DonorID != "D1" {
		t.Errorf("Expected donorId unchanged, got %s", requested.DonorID)
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
	if collected.NgoID == nil || *collected.NgoID != "N1" {
		t.Errorf("Expected ngoId to remain N1, got %v", collected.NgoID)
	}
}

// The permissive store resolves competing claims last-write-wins: no version
// check, the second update simply overwrites the first. Accepted behavior,
// matching the original deployment.
func TestDoubleClaimLastWriteWins(t *testing.T) {
	store := services.NewStore(setupTestDB(t))

	donation, err := store.CreateDonation(createDonationInput("D1"))
	if err != nil {
		t.Fatalf("Failed to create donation: %v", err)
	}

	first := types.FlexID("N1")
	second := types.FlexID("N2")
	for _, ngo := range []*types.FlexID{&first, &second} {
		if _, err := store.UpdateDonationStatus(donation.ID, contracts.UpdateDonationStatusRequest{
			Status: models.StatusRequested,
			NgoID:  ngo,
		}); err != nil {
			t.Fatalf("Failed to claim donation: %v", err)
		}
	}

	final, err := store.GetDonation(donation.ID)
	if err != nil {
		t.Fatalf("Failed to fetch donation: %v", err)
	}
	if final.NgoID == nil || *final.NgoID != "N2" {
		t.Errorf("Expected the last claim to win, got ngoId %v", final.NgoID)
	}
}

func TestStrictLifecycle(t *testing.T) {
	store := services.NewStore(setupTestDB(t), services.WithStrictLifecycle())

	donation, err := store.CreateDonation(createDonationInput("D1"))
	if err != nil {
		t.Fatalf("Failed to create donation: %v", err)
	}

	// Skipping straight to collected is rejected.
	_, err = store.UpdateDonationStatus(donation.ID, contracts.UpdateDonationStatusRequest{
		Status: models.StatusCollected,
	})
	if ce, ok := err.(*types.CustomError); !ok || ce.Code != 409 {
		t.Errorf("Expected a 409 for available -> collected, got %v", err)
	}

	// A claim must name the claiming NGO.
	_, err = store.UpdateDonationStatus(donation.ID, contracts.UpdateDonationStatusRequest{
		Status: models.StatusRequested,
	})
	if ce, ok := err.(*types.CustomError); !ok || ce.Code != 400 || ce.Field != "ngoId" {
		t.Errorf("Expected a 400 naming ngoId, got %v", err)
	}

	ngo := types.FlexID("N1")
	if _, err := store.UpdateDonationStatus(donation.ID, contracts.UpdateDonationStatusRequest{
		Status: models.StatusRequested,
		NgoID:  &ngo,
	}); err != nil {
		t.Fatalf("Failed to claim donation: %v", err)
	}

	// Regressing to available is rejected.
	_, err = store.UpdateDonationStatus(donation.ID, contracts.UpdateDonationStatusRequest{
		Status: models.StatusAvailable,
	})
	if ce, ok := err.(*types.CustomError); !ok || ce.Code != 409 {
		t.Errorf("Expected a 409 for requested -> available, got %v", err)
	}

	// A different NGO cannot collect.
	other := types.FlexID("N2")
	_, err = store.UpdateDonationStatus(donation.ID, contracts.UpdateDonationStatusRequest{
		Status: models.StatusCollected,
		NgoID:  &other,
	})
	if ce, ok := err.(*types.CustomError); !ok || ce.Code != 409 {
		t.Errorf("Expected a 409 for a different collector, got %v", err)
	}

	// The claiming NGO can.
	collected, err := store.UpdateDonationStatus(donation.ID, contracts.UpdateDonationStatusRequest{
		Status: models.StatusCollected,
		NgoID:  &ngo,
	})
	if err != nil {
		t.Fatalf("Failed to collect donation: %v", err)
	}
	if collected.Status != models.StatusCollected {
		t.Errorf("Expected status collected, got %s", collected.Status)
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to models.DonationStatus
		want     bool
	}{
		{models.StatusAvailable, models.StatusRequested, true},
		{models.StatusRequested, models.StatusCollected, true},
		{models.StatusAvailable, models.StatusCollected, false},
		{models.StatusRequested, models.StatusAvailable, false},
		{models.StatusCollected, models.StatusRequested, false},
		{models.StatusCollected, models.StatusAvailable, false},
	}
	for _, tc := range cases {
		if got := services.CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestUpsertUser(t *testing.T) {
	store := services.NewStore(setupTestDB(t))

	username, role, name := "bistro_cafe", "donor", "Bistro Cafe"
	user, err := store.UpsertUser(contracts.UpsertUserRequest{
		Username: &username,
		Role:     &role,
		Name:     &name,
	})
	if err != nil {
		t.Fatalf("Failed to upsert user: %v", err)
	}
	if user.ID == "" {
		t.Error("Expected a generated id")
	}

	// Re-upsert of the same id preserves createdAt.
	newName := "Bistro Cafe Downtown"
	updated, err := store.UpsertUser(contracts.UpsertUserRequest{
		ID:       user.ID,
		Username: &username,
		Role:     &role,
		Name:     &newName,
	})
	if err != nil {
		t.Fatalf("Failed to re-upsert user: %v", err)
	}
	if !updated.CreatedAt.Equal(user.CreatedAt) {
		t.Errorf("Expected createdAt preserved, got %v vs %v", updated.CreatedAt, user.CreatedAt)
	}
	if updated.Name == nil || *updated.Name != newName {
		t.Errorf("Expected name updated, got %v", updated.Name)
	}

	found, err := store.GetUserByUsername("bistro_cafe")
	if err != nil {
		t.Fatalf("Failed to look user up by username: %v", err)
	}
	if found.ID != user.ID {
		t.Errorf("Expected user %s, got %s", user.ID, found.ID)
	}

	if _, err := store.GetUserByUsername("nobody"); err == nil {
		t.Error("Expected an error for an unknown username")
	}
}

func TestSeedDemoIdempotent(t *testing.T) {
	db := setupTestDB(t)
	store := services.NewStore(db)

	for i := 0; i < 2; i++ {
		if err := store.SeedDemo(); err != nil {
			t.Fatalf("Seed pass %d failed: %v", i+1, err)
		}
	}

	donations, err := store.ListDonations()
	if err != nil {
		t.Fatalf("Failed to list donations: %v", err)
	}
	if len(donations) != 3 {
		t.Fatalf("Expected 3 seeded donations, got %d", len(donations))
	}

	requested := 0
	for _, d := range donations {
		if d.Status == models.StatusRequested {
			requested++
			if d.NgoID == nil {
				t.Error("Expected the claimed seed donation to carry an ngoId")
			}
		}
	}
	if requested != 1 {
		t.Errorf("Expected exactly one pre-claimed donation, got %d", requested)
	}
}

func TestGetDonationNotFound(t *testing.T) {
	store := services.NewStore(setupTestDB(t))

	_, err := store.GetDonation(42)
	if err == nil {
		t.Fatal("Expected an error for a missing donation")
	}
	ce, ok := err.(*types.CustomError)
	if !ok || ce.Code != 404 {
		t.Errorf("Expected a 404 CustomError, got %v", err)
	}
	if ce.Message != "Donation not found" {
		t.Errorf("Unexpected message: %s", ce.Message)
	}
}
