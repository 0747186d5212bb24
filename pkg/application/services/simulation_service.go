package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/arash-simuland/cedars-sub000/pkg/application/dto"
	"github.com/arash-simuland/cedars-sub000/pkg/domain/entities"
	"github.com/arash-simuland/cedars-sub000/pkg/domain/repositories"
	"github.com/arash-simuland/cedars-sub000/pkg/domain/services/safetystock"
	"github.com/arash-simuland/cedars-sub000/pkg/sim"
)

// DefaultTolerancePct is the default validation tolerance when comparing
// recomputed safety stock against analytical references.
const DefaultTolerancePct = 5.0

// SimulationConfig holds configuration for one simulation run
type SimulationConfig struct {
	Horizon int
	Policy  sim.PerpetualPolicy
	Demand  sim.DemandConfig

	// SeedTargets recomputes each PAR target level from demand history as
	// expected lead-time demand plus recommended safety stock. Instances
	// without usable history keep their configured target and produce a
	// warning.
	SeedTargets bool
	// ZScore used when SeedTargets or the validation pass recomputes
	// safety stock; 0 selects safetystock.DefaultZScore.
	ZScore float64
	// TolerancePct for the validation pass; 0 selects DefaultTolerancePct.
	TolerancePct float64
}

// SimulationService orchestrates a complete simulation run: target seeding,
// network construction, the weekly run loop and the post-run validation
// pass against analytical references.
type SimulationService struct {
	logger logrus.FieldLogger
}

// NewSimulationService creates a new simulation service
func NewSimulationService(logger logrus.FieldLogger) *SimulationService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &SimulationService{logger: logger}
}

// Run executes one simulation run against the given repositories and
// returns the full report. Configuration defects abort before simulated
// time advances; stockouts during the run are outcomes, not errors.
func (s *SimulationService) Run(
	ctx context.Context,
	cfg SimulationConfig,
	locationRepo repositories.LocationRepository,
	skuRepo repositories.SKUMasterRepository,
	historyRepo repositories.DemandHistoryRepository,
	safetyRepo repositories.SafetyStockRepository,
) (*dto.SimulationReport, error) {
	report := &dto.SimulationReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		Seed:      cfg.Demand.Seed,
		Policy:    cfg.Policy,
	}

	log := s.logger.WithFields(logrus.Fields{
		"run_id": report.RunID,
		"policy": cfg.Policy.String(),
	})

	locations, err := locationRepo.GetLocations()
	if err != nil {
		return nil, fmt.Errorf("failed to load locations: %w", err)
	}

	skus, err := skuRepo.GetSKUs()
	if err != nil {
		return nil, fmt.Errorf("failed to load SKU master: %w", err)
	}

	if cfg.SeedTargets {
		if err := s.seedTargets(cfg, skus, historyRepo, report); err != nil {
			return nil, err
		}
	}

	network, err := sim.BuildNetwork(locations, skus)
	if err != nil {
		return nil, fmt.Errorf("failed to build network: %w", err)
	}

	manager, err := sim.NewManager(network, sim.Options{
		Horizon: cfg.Horizon,
		Policy:  cfg.Policy,
		Demand:  cfg.Demand,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create run manager: %w", err)
	}

	horizon := manager.Result().Horizon
	log.WithFields(logrus.Fields{
		"locations": len(locations),
		"instances": network.Size(),
		"horizon":   horizon,
	}).Info("starting simulation run")

	for manager.Week() < horizon {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run cancelled at week %d: %w", manager.Week(), err)
		}
		manager.RunWeek()
	}

	result := manager.Result()
	report.Result = result
	report.Horizon = result.Horizon

	if err := s.validate(cfg, network, historyRepo, safetyRepo, report); err != nil {
		return nil, err
	}

	report.HoldingCost = holdingCost(network, result)
	report.CompletedAt = time.Now()

	log.WithFields(logrus.Fields{
		"weeks_run":           result.WeeksRun,
		"service_level":       result.System.ServiceLevel(),
		"stockout_events":     result.System.StockoutEvents,
		"emergency_transfers": result.System.EmergencyTransfers,
		"duration":            report.CompletedAt.Sub(report.StartedAt),
	}).Info("simulation run complete")

	return report, nil
}

// seedTargets rewrites PAR target levels as expected lead-time demand plus
// the safety stock recommended from demand history.
func (s *SimulationService) seedTargets(
	cfg SimulationConfig,
	skus []*entities.SKUMasterRecord,
	historyRepo repositories.DemandHistoryRepository,
	report *dto.SimulationReport,
) error {
	for _, sku := range skus {
		if sku.DemandRate <= 0 {
			continue
		}

		observations, err := demandObservations(historyRepo, sku.SKUID, sku.LocationID)
		if err != nil {
			return fmt.Errorf("failed to load demand history for %s@%s: %w", sku.SKUID, sku.LocationID, err)
		}

		safety, err := safetystock.Recommend(sku.LeadTimeDays, observations, cfg.ZScore)
		if err != nil {
			if errors.Is(err, safetystock.ErrInsufficientHistory) {
				warning := fmt.Sprintf("no usable demand history for %s@%s, keeping configured target %g",
					sku.SKUID, sku.LocationID, sku.TargetLevel)
				report.Warnings = append(report.Warnings, warning)
				s.logger.Warn(warning)
				continue
			}
			return fmt.Errorf("failed to recommend safety stock for %s@%s: %w", sku.SKUID, sku.LocationID, err)
		}

		leadTimeWeeks := sku.LeadTimeDays / 7
		sku.TargetLevel = math.Ceil(sku.DemandRate*leadTimeWeeks + safety)
	}
	return nil
}

// validate recomputes safety stock from history for every instance with a
// demand rate and compares it against the analytical reference, when one
// exists.
func (s *SimulationService) validate(
	cfg SimulationConfig,
	network *sim.Network,
	historyRepo repositories.DemandHistoryRepository,
	safetyRepo repositories.SafetyStockRepository,
	report *dto.SimulationReport,
) error {
	tolerance := cfg.TolerancePct
	if tolerance == 0 {
		tolerance = DefaultTolerancePct
	}

	for _, key := range network.Keys() {
		sku, _ := network.Get(key)
		if sku.DemandRate <= 0 {
			continue
		}

		observations, err := demandObservations(historyRepo, key.SKUID, key.LocationID)
		if err != nil {
			return fmt.Errorf("failed to load demand history for %s: %w", key, err)
		}

		calculated, err := safetystock.Recommend(sku.LeadTimeDays, observations, cfg.ZScore)
		if err != nil {
			if errors.Is(err, safetystock.ErrInsufficientHistory) {
				continue
			}
			return fmt.Errorf("failed to recompute safety stock for %s: %w", key, err)
		}

		reference, found, err := safetyRepo.GetSafetyStock(key.SKUID, key.LocationID)
		if err != nil {
			return fmt.Errorf("failed to load safety stock reference for %s: %w", key, err)
		}

		entry := dto.ValidationEntry{Key: key, HasReference: found}
		if found {
			entry.Comparison = safetystock.Compare(calculated, reference.Units, tolerance)
			if !entry.Comparison.WithinTol {
				s.logger.WithFields(logrus.Fields{
					"instance":   key.String(),
					"calculated": calculated,
					"reference":  reference.Units,
					"error_pct":  entry.Comparison.ErrorPct,
				}).Warn("safety stock outside validation tolerance")
			}
		} else {
			entry.Comparison = safetystock.Comparison{Calculated: calculated}
		}

		report.Validations = append(report.Validations, entry)
	}

	return nil
}

func demandObservations(
	historyRepo repositories.DemandHistoryRepository,
	skuID entities.SKUID,
	locationID entities.LocationID,
) ([]float64, error) {
	history, err := historyRepo.GetHistory(skuID, locationID)
	if err != nil {
		return nil, err
	}

	observations := make([]float64, 0, len(history))
	for _, rec := range history {
		observations = append(observations, rec.Quantity)
	}
	return observations, nil
}

// holdingCost values average on-hand inventory at unit cost, per instance
// and per location.
func holdingCost(network *sim.Network, result *sim.RunResult) dto.HoldingCostSummary {
	summary := dto.HoldingCostSummary{
		PerInstance: make(map[entities.InstanceKey]decimal.Decimal),
		PerLocation: make(map[entities.LocationID]decimal.Decimal),
		Total:       decimal.Zero,
	}

	for _, key := range network.Keys() {
		sku, _ := network.Get(key)
		series := result.Series[key]
		if len(series) == 0 || sku.UnitCost.IsZero() {
			continue
		}

		sum := decimal.Zero
		for _, level := range series {
			sum = sum.Add(decimal.NewFromFloat(float64(level)))
		}
		avgValue := sum.Div(decimal.NewFromInt(int64(len(series)))).Mul(sku.UnitCost)

		summary.PerInstance[key] = avgValue
		summary.PerLocation[key.LocationID] = summary.PerLocation[key.LocationID].Add(avgValue)
		summary.Total = summary.Total.Add(avgValue)
	}

	return summary
}
