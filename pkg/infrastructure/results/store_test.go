package results

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arash-simuland/cedars-sub000/pkg/application/dto"
	"github.com/arash-simuland/cedars-sub000/pkg/domain/entities"
	"github.com/arash-simuland/cedars-sub000/pkg/domain/services/safetystock"
	"github.com/arash-simuland/cedars-sub000/pkg/sim"
)

func sampleReport() *dto.SimulationReport {
	edKey := entities.InstanceKey{LocationID: "ED", SKUID: "SKU_001"}
	perpKey := entities.InstanceKey{LocationID: "PERPETUAL", SKUID: "SKU_001"}

	return &dto.SimulationReport{
		RunID:       "run-0001",
		StartedAt:   time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		CompletedAt: time.Date(2026, 8, 1, 10, 0, 3, 0, time.UTC),
		Horizon:     3,
		Seed:        42,
		Policy:      sim.Overdraw,
		Result: &sim.RunResult{
			Horizon:  3,
			WeeksRun: 3,
			Policy:   sim.Overdraw,
			Series: map[entities.InstanceKey][]entities.Quantity{
				edKey:   {80, 80, 77},
				perpKey: {200, 200, 197},
			},
			Events: []sim.ProcessedEvent{
				{Seq: 0, Week: 0, Kind: entities.KindDemand, Key: edKey, Quantity: 20},
				{Seq: 1, Week: 0, Kind: entities.KindReplenishment, Key: edKey},
				{Seq: 2, Week: 1, Kind: entities.KindDelivery, Key: edKey, Quantity: 20, Source: entities.SourceSupplier},
			},
			Transfers: []sim.TransferRecord{
				{Week: 2, SKUID: "SKU_001", From: perpKey, To: edKey, Requested: 3, Transferred: 3},
			},
			System: sim.SystemStats{
				DemandUnits:        63,
				DeliveredUnits:     43,
				StockoutEvents:     1,
				StockoutUnits:      3,
				EmergencyTransfers: 1,
				EmergencyUnits:     3,
			},
		},
		Validations: []dto.ValidationEntry{
			{
				Key:          edKey,
				HasReference: true,
				Comparison: safetystock.Comparison{
					Calculated: 17.15, Reference: 17.15, WithinTol: true,
				},
			},
		},
		HoldingCost: dto.HoldingCostSummary{Total: decimal.RequireFromString("158.50")},
		Warnings:    []string{"no usable demand history for SKU_002@ICU, keeping configured target 30"},
	}
}

func TestStore_SaveAndReadBack(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer store.Close()

	report := sampleReport()
	require.NoError(t, store.SaveReport(report))

	run, err := store.GetRun("run-0001")
	require.NoError(t, err)

	assert.Equal(t, 3, run.Horizon)
	assert.Equal(t, 3, run.WeeksRun)
	assert.Equal(t, int64(42), run.Seed)
	assert.Equal(t, "overdraw", run.Policy)
	assert.InDelta(t, float64(60)/63, run.ServiceLevel, 1e-9)
	assert.Equal(t, "158.5", run.HoldingCost)

	series, err := store.GetSeries("run-0001", entities.InstanceKey{LocationID: "ED", SKUID: "SKU_001"})
	require.NoError(t, err)
	assert.Equal(t, []float64{80, 80, 77}, series)

	count, err := store.CountEvents("run-0001")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	transfers, err := store.GetTransfers("run-0001")
	require.NoError(t, err)
	require.Len(t, transfers, 1)
	assert.Equal(t, "PERPETUAL", transfers[0].FromLocation)
	assert.Equal(t, "ED", transfers[0].ToLocation)
	assert.Equal(t, 3.0, transfers[0].Transferred)
	assert.False(t, transfers[0].HospitalLevel)
}

func TestStore_RecentRuns(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer store.Close()

	first := sampleReport()
	require.NoError(t, store.SaveReport(first))

	second := sampleReport()
	second.RunID = "run-0002"
	second.StartedAt = first.StartedAt.Add(time.Hour)
	require.NoError(t, store.SaveReport(second))

	runs, err := store.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-0002", runs[0].ID)
	assert.Equal(t, "run-0001", runs[1].ID)
}

func TestStore_DuplicateRunID(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer store.Close()

	report := sampleReport()
	require.NoError(t, store.SaveReport(report))
	require.Error(t, store.SaveReport(report))
}

func TestStore_MissingResult(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer store.Close()

	err = store.SaveReport(&dto.SimulationReport{RunID: "empty"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no run result")
}

func TestStore_GetRun_NotFound(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer store.Close()

	_, err = store.GetRun("nope")
	require.Error(t, err)
}
