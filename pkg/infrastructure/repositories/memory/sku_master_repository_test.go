package memory

import (
	"strings"
	"testing"

	"github.com/arash-simuland/cedars-sub000/pkg/domain/entities"
)

func TestSKUMasterRepository_LoadAndGet(t *testing.T) {
	repo := NewSKUMasterRepository(10)

	skus := []*entities.SKUMasterRecord{
		{
			SKUID:         "SKU_001",
			LocationID:    "ED",
			Description:   "Exam Gloves",
			UnitOfMeasure: "BX",
			TargetLevel:   40,
			LeadTimeDays:  10,
			DemandRate:    18,
		},
		{
			SKUID:       "SKU_001",
			LocationID:  "PERPETUAL",
			TargetLevel: 200,
		},
	}

	err := repo.LoadSKUs(skus)
	if err != nil {
		t.Fatalf("Failed to load SKUs: %v", err)
	}

	retrieved, err := repo.GetSKU("SKU_001", "ED")
	if err != nil {
		t.Fatalf("Failed to get SKU instance: %v", err)
	}

	if retrieved.Description != "Exam Gloves" {
		t.Errorf("Expected description 'Exam Gloves', got %s", retrieved.Description)
	}

	if retrieved.TargetLevel != 40 {
		t.Errorf("Expected target level 40, got %g", retrieved.TargetLevel)
	}

	all, err := repo.GetSKUs()
	if err != nil {
		t.Fatalf("Failed to get all SKUs: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected 2 SKU records, got %d", len(all))
	}
}

func TestSKUMasterRepository_DuplicateInstance(t *testing.T) {
	repo := NewSKUMasterRepository(10)

	skus := []*entities.SKUMasterRecord{
		{SKUID: "SKU_001", LocationID: "ED", TargetLevel: 40},
		{SKUID: "SKU_001", LocationID: "ED", TargetLevel: 50},
	}

	err := repo.LoadSKUs(skus)
	if err == nil {
		t.Error("Expected error for duplicate SKU instance, got none")
	}

	if !strings.Contains(err.Error(), "duplicate SKU instance") {
		t.Errorf("Expected error message to contain 'duplicate SKU instance', got: %v", err)
	}
}

func TestSKUMasterRepository_SameSKUDifferentLocations(t *testing.T) {
	repo := NewSKUMasterRepository(10)

	skus := []*entities.SKUMasterRecord{
		{SKUID: "SKU_001", LocationID: "ED", TargetLevel: 40},
		{SKUID: "SKU_001", LocationID: "ICU", TargetLevel: 25},
	}

	err := repo.LoadSKUs(skus)
	if err != nil {
		t.Fatalf("Failed to load SKUs at distinct locations: %v", err)
	}
}

func TestSKUMasterRepository_GetSKU_NotFound(t *testing.T) {
	repo := NewSKUMasterRepository(10)

	_, err := repo.GetSKU("NONEXISTENT", "ED")
	if err == nil {
		t.Error("Expected error for nonexistent SKU instance, got none")
	}

	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("Expected error message to contain 'not found', got: %v", err)
	}
}
