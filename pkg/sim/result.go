package sim

import (
	"github.com/arash-simuland/cedars-sub000/pkg/domain/entities"
)

// PerpetualPolicy controls how the perpetual reserve accounts for emergency
// draws it cannot fully cover.
type PerpetualPolicy int

const (
	// Overdraw debits the perpetual instance by the full requested amount,
	// letting its level go negative. The negative balance measures how much
	// more reserve would have been needed, which the post-run validation
	// pass reads directly.
	Overdraw PerpetualPolicy = iota
	// ZeroFloor keeps the perpetual level non-negative; the unmet remainder
	// is tallied as hospital-level stockout instead.
	ZeroFloor
)

// String method for PerpetualPolicy enum
func (p PerpetualPolicy) String() string {
	switch p {
	case Overdraw:
		return "overdraw"
	case ZeroFloor:
		return "zero-floor"
	default:
		return "unknown"
	}
}

// ProcessedEvent is one completed event in chronological processing order.
// Two runs built from identical inputs produce identical slices.
type ProcessedEvent struct {
	Seq      int64
	Week     int
	Kind     entities.EventKind
	Key      entities.InstanceKey
	Quantity entities.Quantity
	Source   entities.DeliverySource
}

// TransferRecord is one emergency-allocation resolution. HospitalLevel marks
// shortfall that no emergency transfer could absorb, either because the PAR
// has no connection or because the reserve could not cover it.
type TransferRecord struct {
	Week          int
	SKUID         entities.SKUID
	From          entities.InstanceKey // zero value when unconnected
	To            entities.InstanceKey
	Requested     entities.Quantity
	Transferred   entities.Quantity
	Unmet         entities.Quantity
	HospitalLevel bool
}

// LocationStats aggregates outcomes for one location.
type LocationStats struct {
	SKUCount              int
	DemandUnits           entities.Quantity
	StockoutEvents        int
	StockoutUnits         entities.Quantity
	EmergencyTransfers    int
	EmergencyUnits        entities.Quantity
	HospitalStockoutUnits entities.Quantity
	EndingLevel           entities.Quantity
}

// SystemStats aggregates outcomes across the whole network.
type SystemStats struct {
	DemandUnits           entities.Quantity
	DeliveredUnits        entities.Quantity
	OrdersPlaced          int
	StockoutEvents        int
	StockoutUnits         entities.Quantity
	EmergencyTransfers    int
	EmergencyUnits        entities.Quantity
	HospitalStockoutUnits entities.Quantity
}

// ServiceLevel is the fraction of demand met without a stockout.
func (s SystemStats) ServiceLevel() float64 {
	if s.DemandUnits <= 0 {
		return 1
	}
	return float64((s.DemandUnits - s.StockoutUnits) / s.DemandUnits)
}

// RunResult is the complete output of one simulation run: per-instance
// weekly time series, per-location and system-wide statistics, and the
// ordered event and transfer logs.
type RunResult struct {
	Horizon   int
	WeeksRun  int
	Policy    PerpetualPolicy
	Series    map[entities.InstanceKey][]entities.Quantity
	Events    []ProcessedEvent
	Transfers []TransferRecord
	Instances map[entities.InstanceKey]entities.InstanceStats
	Locations map[entities.LocationID]LocationStats
	System    SystemStats
}

func newRunResult(horizon int, policy PerpetualPolicy, keys []entities.InstanceKey) *RunResult {
	series := make(map[entities.InstanceKey][]entities.Quantity, len(keys))
	for _, key := range keys {
		series[key] = make([]entities.Quantity, 0, horizon)
	}
	return &RunResult{
		Horizon:   horizon,
		Policy:    policy,
		Series:    series,
		Instances: make(map[entities.InstanceKey]entities.InstanceStats, len(keys)),
		Locations: make(map[entities.LocationID]LocationStats),
	}
}
