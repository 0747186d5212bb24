package entities

import (
	"fmt"
)

// LocationID uniquely identifies an inventory point.
type LocationID string

// SKUID uniquely identifies an item type.
type SKUID string

// Quantity represents a unit count. Demand rates in hospital supply data
// are fractional (average daily burn rates), so quantities are real-valued.
type Quantity float64

// LocationType distinguishes department-level consumption points from the
// central safety-stock reserve.
type LocationType int

const (
	// PAR is a department-level consumption point with bounded inventory.
	PAR LocationType = iota
	// Perpetual is the central, effectively unbounded safety-stock reserve.
	Perpetual
)

// String method for LocationType enum
func (t LocationType) String() string {
	switch t {
	case PAR:
		return "PAR"
	case Perpetual:
		return "Perpetual"
	default:
		return "Unknown"
	}
}

// InstanceKey addresses one SKU instance inside a network: one item type at
// one location. Emergency-supply edges are stored as keys rather than live
// pointers so the network owns every instance exactly once.
type InstanceKey struct {
	LocationID LocationID
	SKUID      SKUID
}

// String method for InstanceKey, used in diagnostics and logs
func (k InstanceKey) String() string {
	return fmt.Sprintf("%s/%s", k.LocationID, k.SKUID)
}

// Less orders keys by location then SKU, the priority order used for
// emergency allocation and for deterministic iteration.
func (k InstanceKey) Less(other InstanceKey) bool {
	if k.LocationID != other.LocationID {
		return k.LocationID < other.LocationID
	}
	return k.SKUID < other.SKUID
}

// Location is a named inventory point holding SKU instances. Locations are
// created once during network construction and never destroyed during a run;
// capacity is immutable for the run's duration.
type Location struct {
	ID       LocationID
	Type     LocationType
	Capacity Quantity // total target capacity; <= 0 means uncapped
	SKUs     map[SKUID]*SKU
}

// NewLocation creates a validated Location. Perpetual locations are uncapped
// regardless of the capacity argument.
func NewLocation(id LocationID, locType LocationType, capacity Quantity) (*Location, error) {
	if id == "" {
		return nil, fmt.Errorf("location id cannot be empty")
	}
	if locType == Perpetual {
		capacity = 0
	}
	return &Location{
		ID:       id,
		Type:     locType,
		Capacity: capacity,
		SKUs:     make(map[SKUID]*SKU),
	}, nil
}

// AddSKU registers a SKU instance with this location.
func (l *Location) AddSKU(sku *SKU) error {
	if sku.LocationID != l.ID {
		return fmt.Errorf("SKU %s belongs to location %s, not %s", sku.SKUID, sku.LocationID, l.ID)
	}
	if _, exists := l.SKUs[sku.SKUID]; exists {
		return fmt.Errorf("location %s already stocks SKU %s", l.ID, sku.SKUID)
	}
	l.SKUs[sku.SKUID] = sku
	return nil
}

// TotalTarget returns the sum of target levels across the location's SKUs.
func (l *Location) TotalTarget() Quantity {
	var total Quantity
	for _, sku := range l.SKUs {
		total += sku.TargetLevel
	}
	return total
}

// TotalLevel returns the sum of current levels across the location's SKUs.
func (l *Location) TotalLevel() Quantity {
	var total Quantity
	for _, sku := range l.SKUs {
		total += sku.Level
	}
	return total
}
