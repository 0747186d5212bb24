package entities

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// PendingDelivery is an outstanding order: quantity en route and the week it
// arrives. OrderID ties the entry to the delivery event that clears it.
type PendingDelivery struct {
	OrderID     int64
	Quantity    Quantity
	ArrivalWeek int
	Source      DeliverySource
}

// InstanceStats accumulates per-instance outcomes over a run. Stockouts are
// first-class modeled outcomes, recorded as data rather than raised as
// errors.
type InstanceStats struct {
	DemandUnits           Quantity
	DeliveredUnits        Quantity
	OrdersPlaced          int
	StockoutEvents        int
	StockoutUnits         Quantity
	EmergencyTransfers    int
	EmergencyUnits        Quantity
	HospitalStockoutUnits Quantity
}

// SKU is one item type stocked at one location. PAR instances hold a
// back-reference key to the Perpetual instance of the same item; Perpetual
// instances hold the reverse list. Both sides are wired once by the network
// builder and are read-only afterwards.
type SKU struct {
	SKUID         SKUID
	LocationID    LocationID
	LocationType  LocationType
	Description   string
	UnitOfMeasure string
	TargetLevel   Quantity
	LeadTimeDays  float64
	DemandRate    Quantity // units per week
	UnitCost      decimal.Decimal

	// Level is signed: PAR instances are clamped at zero by the engine,
	// Perpetual instances may go negative depending on the run policy.
	Level   Quantity
	Pending []PendingDelivery

	// PerpetualKey is set on PAR instances with an emergency connection.
	PerpetualKey *InstanceKey
	// PARKeys is the reverse list, set on Perpetual instances.
	PARKeys []InstanceKey

	Stats InstanceStats
}

// NewSKU creates a validated SKU instance. A zero or negative target with a
// nonzero demand rate is a configuration defect, never silently repaired.
func NewSKU(skuID SKUID, locID LocationID, locType LocationType, targetLevel Quantity, leadTimeDays float64, demandRate Quantity) (*SKU, error) {
	if skuID == "" {
		return nil, fmt.Errorf("SKU id cannot be empty")
	}
	if locID == "" {
		return nil, fmt.Errorf("location id cannot be empty for SKU %s", skuID)
	}
	if leadTimeDays < 0 {
		return nil, fmt.Errorf("SKU %s at %s: lead time cannot be negative, got %g days", skuID, locID, leadTimeDays)
	}
	if demandRate < 0 {
		return nil, fmt.Errorf("SKU %s at %s: demand rate cannot be negative, got %g", skuID, locID, demandRate)
	}
	if targetLevel <= 0 && demandRate > 0 {
		return nil, fmt.Errorf("SKU %s at %s: target level must be positive when demand rate is %g", skuID, locID, demandRate)
	}
	if targetLevel < 0 {
		return nil, fmt.Errorf("SKU %s at %s: target level cannot be negative, got %g", skuID, locID, targetLevel)
	}
	return &SKU{
		SKUID:        skuID,
		LocationID:   locID,
		LocationType: locType,
		TargetLevel:  targetLevel,
		LeadTimeDays: leadTimeDays,
		DemandRate:   demandRate,
		Level:        targetLevel,
	}, nil
}

// Key returns the instance's arena key.
func (s *SKU) Key() InstanceKey {
	return InstanceKey{LocationID: s.LocationID, SKUID: s.SKUID}
}

// LeadTimeWeeks converts the lead time to fractional simulated weeks.
func (s *SKU) LeadTimeWeeks() float64 {
	return s.LeadTimeDays / 7.0
}

// LeadTimeWeeksCeil is the whole number of weekly steps an order is in
// transit. Orders placed in week w arrive in week w + LeadTimeWeeksCeil.
func (s *SKU) LeadTimeWeeksCeil() int {
	return int(math.Ceil(s.LeadTimeDays / 7.0))
}

// PendingTotal sums all quantities currently en route to this instance.
func (s *SKU) PendingTotal() Quantity {
	var total Quantity
	for _, p := range s.Pending {
		total += p.Quantity
	}
	return total
}

// InventoryGap is the order-up-to shortfall at this instant: how far the
// live position (on hand plus en route) sits below the target level.
func (s *SKU) InventoryGap() Quantity {
	gap := s.TargetLevel - (s.Level + s.PendingTotal())
	if gap < 0 {
		return 0
	}
	return gap
}

// Connected reports whether this PAR instance has an emergency connection.
func (s *SKU) Connected() bool {
	return s.PerpetualKey != nil
}
