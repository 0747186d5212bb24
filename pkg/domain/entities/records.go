package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// The record types below are the cleaned tabular inputs handed to the core
// by the data-loading collaborator. Validation tags are enforced at the
// loading boundary; the network builder re-checks the invariants that are
// fatal configuration defects.

// LocationRecord declares an inventory point.
type LocationRecord struct {
	LocationID LocationID `validate:"required"`
	Type       LocationType
	Capacity   float64 `validate:"gte=0"`
}

// SKUMasterRecord declares one SKU instance: an item stocked at a location
// with its target level, lead time and demand rate.
type SKUMasterRecord struct {
	SKUID         SKUID      `validate:"required"`
	LocationID    LocationID `validate:"required"`
	Description   string
	UnitOfMeasure string
	TargetLevel   float64 `validate:"gte=0"`
	LeadTimeDays  float64 `validate:"gte=0"`
	DemandRate    float64 `validate:"gte=0"`
	UnitCost      decimal.Decimal
}

// DemandRecord is one historical consumption observation.
type DemandRecord struct {
	Date       time.Time  `validate:"required"`
	SKUID      SKUID      `validate:"required"`
	LocationID LocationID `validate:"required"`
	Quantity   float64    `validate:"gte=0"`
}

// SafetyStockRecord is a pre-computed analytical safety-stock value used as
// an external validation reference. It is not required for a run.
type SafetyStockRecord struct {
	SKUID      SKUID      `validate:"required"`
	LocationID LocationID `validate:"required"`
	Units      float64    `validate:"gte=0"`
	ZScore     float64
}
