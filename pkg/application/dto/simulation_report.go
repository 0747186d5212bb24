package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/arash-simuland/cedars-sub000/pkg/domain/entities"
	"github.com/arash-simuland/cedars-sub000/pkg/domain/services/safetystock"
	"github.com/arash-simuland/cedars-sub000/pkg/sim"
)

// SimulationReport contains the complete output of a simulation run
type SimulationReport struct {
	RunID       string
	StartedAt   time.Time
	CompletedAt time.Time
	Horizon     int
	Seed        int64
	Policy      sim.PerpetualPolicy

	Result      *sim.RunResult
	Validations []ValidationEntry
	HoldingCost HoldingCostSummary

	// Warnings lists data gaps and degraded conditions encountered while
	// preparing the run. They never abort a run.
	Warnings []string
}

// ValidationEntry compares a recomputed safety stock against an external
// analytical reference for one SKU instance
type ValidationEntry struct {
	Key          entities.InstanceKey
	Comparison   safetystock.Comparison
	HasReference bool
}

// HoldingCostSummary values average on-hand inventory at unit cost
type HoldingCostSummary struct {
	PerInstance map[entities.InstanceKey]decimal.Decimal
	PerLocation map[entities.LocationID]decimal.Decimal
	Total       decimal.Decimal
}
