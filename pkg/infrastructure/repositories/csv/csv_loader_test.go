package csv

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write temp CSV: %v", err)
	}
	return path
}

func TestLoader_LoadLocations(t *testing.T) {
	path := writeTempCSV(t, "locations.csv",
		"location_id,type,capacity\n"+
			"PERPETUAL,Perpetual,\n"+
			"ED,PAR,500\n"+
			"ICU,par,250\n")

	loader := NewLoader()
	locations, err := loader.LoadLocations(path)
	if err != nil {
		t.Fatalf("Failed to load locations: %v", err)
	}

	if len(locations) != 3 {
		t.Fatalf("Expected 3 locations, got %d", len(locations))
	}

	if locations[0].LocationID != "PERPETUAL" {
		t.Errorf("Expected location PERPETUAL, got %s", locations[0].LocationID)
	}
	if locations[0].Capacity != 0 {
		t.Errorf("Expected uncapped perpetual, got capacity %g", locations[0].Capacity)
	}
	if locations[1].Capacity != 500 {
		t.Errorf("Expected ED capacity 500, got %g", locations[1].Capacity)
	}
}

func TestLoader_LoadLocations_BadType(t *testing.T) {
	path := writeTempCSV(t, "locations.csv",
		"location_id,type,capacity\n"+
			"ED,warehouse,500\n")

	loader := NewLoader()
	_, err := loader.LoadLocations(path)
	if err == nil {
		t.Fatal("Expected error for invalid location type, got none")
	}
	if !strings.Contains(err.Error(), "row 2") {
		t.Errorf("Expected error to name the row, got: %v", err)
	}
	if !strings.Contains(err.Error(), "invalid location type") {
		t.Errorf("Expected error to name the defect, got: %v", err)
	}
}

func TestLoader_LoadLocations_HeaderMismatch(t *testing.T) {
	path := writeTempCSV(t, "locations.csv",
		"id,kind,cap\n"+
			"ED,PAR,500\n")

	loader := NewLoader()
	_, err := loader.LoadLocations(path)
	if err == nil {
		t.Fatal("Expected error for header mismatch, got none")
	}
	if !strings.Contains(err.Error(), "header mismatch") {
		t.Errorf("Expected header mismatch error, got: %v", err)
	}
}

func TestLoader_LoadSKUMaster(t *testing.T) {
	path := writeTempCSV(t, "sku_master.csv",
		"sku_id,location_id,description,unit_of_measure,target_level,lead_time_days,demand_rate,unit_cost\n"+
			"SKU_001,ED,Exam Gloves,BX,40,10,18,12.35\n"+
			`SKU_002,ED,IV Sets,EA,"1,200",21,12,`+"\n")

	loader := NewLoader()
	skus, err := loader.LoadSKUMaster(path)
	if err != nil {
		t.Fatalf("Failed to load SKU master: %v", err)
	}

	if len(skus) != 2 {
		t.Fatalf("Expected 2 SKU records, got %d", len(skus))
	}

	if skus[0].UnitCost.String() != "12.35" {
		t.Errorf("Expected unit cost 12.35, got %s", skus[0].UnitCost)
	}

	// Thousands separator in the quantity cell
	if skus[1].TargetLevel != 1200 {
		t.Errorf("Expected target level 1200, got %g", skus[1].TargetLevel)
	}

	// Blank unit cost defaults to zero
	if !skus[1].UnitCost.IsZero() {
		t.Errorf("Expected zero unit cost, got %s", skus[1].UnitCost)
	}
}

func TestLoader_LoadSKUMaster_NegativeLeadTime(t *testing.T) {
	path := writeTempCSV(t, "sku_master.csv",
		"sku_id,location_id,description,unit_of_measure,target_level,lead_time_days,demand_rate,unit_cost\n"+
			"SKU_001,ED,Exam Gloves,BX,40,-3,18,\n")

	loader := NewLoader()
	_, err := loader.LoadSKUMaster(path)
	if err == nil {
		t.Fatal("Expected error for negative lead time, got none")
	}
	if !strings.Contains(err.Error(), "row 2") {
		t.Errorf("Expected error to name the row, got: %v", err)
	}
}

func TestLoader_LoadDemandHistory(t *testing.T) {
	path := writeTempCSV(t, "demand.csv",
		"date,sku_id,location_id,quantity\n"+
			"2024-03-03,SKU_001,ED,10\n"+
			"2024-03-10,SKU_001,ED,0\n")

	loader := NewLoader()
	history, err := loader.LoadDemandHistory(path)
	if err != nil {
		t.Fatalf("Failed to load demand history: %v", err)
	}

	if len(history) != 2 {
		t.Fatalf("Expected 2 observations, got %d", len(history))
	}
	if history[0].Quantity != 10 {
		t.Errorf("Expected quantity 10, got %g", history[0].Quantity)
	}
}

func TestLoader_LoadDemandHistory_BadDate(t *testing.T) {
	path := writeTempCSV(t, "demand.csv",
		"date,sku_id,location_id,quantity\n"+
			"03/03/2024,SKU_001,ED,10\n")

	loader := NewLoader()
	_, err := loader.LoadDemandHistory(path)
	if err == nil {
		t.Fatal("Expected error for bad date format, got none")
	}
	if !strings.Contains(err.Error(), "expected YYYY-MM-DD") {
		t.Errorf("Expected date format error, got: %v", err)
	}
}

func TestLoader_LoadSafetyStock(t *testing.T) {
	path := writeTempCSV(t, "safety_stock.csv",
		"sku_id,location_id,units,z_score\n"+
			"SKU_001,ED,17.2,2.05\n")

	loader := NewLoader()
	refs, err := loader.LoadSafetyStock(path)
	if err != nil {
		t.Fatalf("Failed to load safety stock references: %v", err)
	}

	if len(refs) != 1 {
		t.Fatalf("Expected 1 reference, got %d", len(refs))
	}
	if refs[0].Units != 17.2 || refs[0].ZScore != 2.05 {
		t.Errorf("Unexpected reference values: %+v", refs[0])
	}
}

func TestLoader_MissingFile(t *testing.T) {
	loader := NewLoader()
	_, err := loader.LoadLocations(filepath.Join(t.TempDir(), "nope.csv"))
	if err == nil {
		t.Fatal("Expected error for missing file, got none")
	}
}
