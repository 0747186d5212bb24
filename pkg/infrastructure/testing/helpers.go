package testing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/arash-simuland/cedars-sub000/pkg/domain/entities"
	"github.com/arash-simuland/cedars-sub000/pkg/infrastructure/repositories/memory"
)

// BuildHospitalTestData builds a small two-tier hospital scenario: a central
// perpetual reserve feeding an emergency department and an intensive care
// unit, with a year of weekly demand history for the fast mover.
func BuildHospitalTestData() (*memory.LocationRepository, *memory.SKUMasterRepository, *memory.DemandHistoryRepository, *memory.SafetyStockRepository) {
	locationRepo := memory.NewLocationRepository(4)
	skuRepo := memory.NewSKUMasterRepository(16)
	historyRepo := memory.NewDemandHistoryRepository()
	safetyRepo := memory.NewSafetyStockRepository()

	locations := []*entities.LocationRecord{
		{LocationID: "PERPETUAL", Type: entities.Perpetual},
		{LocationID: "ED", Type: entities.PAR, Capacity: 800},
		{LocationID: "ICU", Type: entities.PAR, Capacity: 400},
	}
	if err := locationRepo.LoadLocations(locations); err != nil {
		panic(err)
	}

	skus := []*entities.SKUMasterRecord{
		{
			SKUID:         "GLOVES_M",
			LocationID:    "PERPETUAL",
			Description:   "Exam Gloves Medium",
			UnitOfMeasure: "BX",
			TargetLevel:   400,
			LeadTimeDays:  2,
			UnitCost:      decimal.RequireFromString("6.20"),
		},
		{
			SKUID:         "GLOVES_M",
			LocationID:    "ED",
			Description:   "Exam Gloves Medium",
			UnitOfMeasure: "BX",
			TargetLevel:   60,
			LeadTimeDays:  10,
			DemandRate:    24,
			UnitCost:      decimal.RequireFromString("6.20"),
		},
		{
			SKUID:         "GLOVES_M",
			LocationID:    "ICU",
			Description:   "Exam Gloves Medium",
			UnitOfMeasure: "BX",
			TargetLevel:   30,
			LeadTimeDays:  10,
			DemandRate:    10,
			UnitCost:      decimal.RequireFromString("6.20"),
		},
		{
			SKUID:         "IV_SET",
			LocationID:    "PERPETUAL",
			Description:   "IV Administration Set",
			UnitOfMeasure: "EA",
			TargetLevel:   150,
			LeadTimeDays:  5,
			UnitCost:      decimal.RequireFromString("14.75"),
		},
		{
			SKUID:         "IV_SET",
			LocationID:    "ED",
			Description:   "IV Administration Set",
			UnitOfMeasure: "EA",
			TargetLevel:   40,
			LeadTimeDays:  21,
			DemandRate:    12,
			UnitCost:      decimal.RequireFromString("14.75"),
		},
		{
			// No perpetual instance: shortfalls at this PAR escalate to
			// hospital-level stockouts.
			SKUID:         "TRACH_KIT",
			LocationID:    "ICU",
			Description:   "Tracheostomy Kit",
			UnitOfMeasure: "EA",
			TargetLevel:   8,
			LeadTimeDays:  30,
			DemandRate:    1,
			UnitCost:      decimal.RequireFromString("92.00"),
		},
	}
	if err := skuRepo.LoadSKUs(skus); err != nil {
		panic(err)
	}

	// Weekly consumption for the fast mover, including zero-demand weeks
	// that per-occurrence safety stock must ignore.
	start := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)
	weekly := []float64{22, 26, 0, 24, 30, 18, 25, 0, 27, 21, 23, 28}
	var history []*entities.DemandRecord
	for i, q := range weekly {
		history = append(history, &entities.DemandRecord{
			Date:       start.AddDate(0, 0, 7*i),
			SKUID:      "GLOVES_M",
			LocationID: "ED",
			Quantity:   q,
		})
	}
	if err := historyRepo.LoadRecords(history); err != nil {
		panic(err)
	}

	if err := safetyRepo.LoadRecords([]*entities.SafetyStockRecord{
		{SKUID: "GLOVES_M", LocationID: "ED", Units: 23.1, ZScore: 2.05},
	}); err != nil {
		panic(err)
	}

	return locationRepo, skuRepo, historyRepo, safetyRepo
}
