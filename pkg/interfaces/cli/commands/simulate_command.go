package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/arash-simuland/cedars-sub000/pkg/application/services"
	"github.com/arash-simuland/cedars-sub000/pkg/infrastructure/repositories/csv"
	"github.com/arash-simuland/cedars-sub000/pkg/infrastructure/repositories/memory"
	"github.com/arash-simuland/cedars-sub000/pkg/infrastructure/results"
	"github.com/arash-simuland/cedars-sub000/pkg/interfaces/cli/output"
	"github.com/arash-simuland/cedars-sub000/pkg/sim"
)

// Config holds configuration for the simulate command
type Config struct {
	ScenarioDir     string
	LocationsFile   string
	SKUFile         string
	DemandFile      string
	SafetyStockFile string

	Horizon     int
	Seed        int64
	DemandMode  string
	CV          float64
	Policy      string
	SeedTargets bool

	OutputDir string
	Format    string
	ResultsDB string
	Verbose   bool
	LogJSON   bool
	Help      bool
}

// SimulateCommand handles the main simulation execution logic
type SimulateCommand struct {
	config Config
}

// NewSimulateCommand creates a new simulate command with the given configuration
func NewSimulateCommand(config Config) *SimulateCommand {
	return &SimulateCommand{
		config: config,
	}
}

// Execute runs the simulate command
func (c *SimulateCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if err := c.validateInputs(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	policy, err := parsePolicy(c.config.Policy)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	demandMode, err := parseDemandMode(c.config.DemandMode)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	files, err := c.resolveInputFiles()
	if err != nil {
		return fmt.Errorf("failed to resolve input files: %w", err)
	}

	logger := c.buildLogger()

	loader := csv.NewLoader()

	locations, err := loader.LoadLocations(files["Locations"])
	if err != nil {
		return fmt.Errorf("error loading locations: %w", err)
	}

	skus, err := loader.LoadSKUMaster(files["SKUs"])
	if err != nil {
		return fmt.Errorf("error loading SKU master: %w", err)
	}

	locationRepo := memory.NewLocationRepository(len(locations))
	if err := locationRepo.LoadLocations(locations); err != nil {
		return fmt.Errorf("failed to load locations into repository: %w", err)
	}

	skuRepo := memory.NewSKUMasterRepository(len(skus))
	if err := skuRepo.LoadSKUs(skus); err != nil {
		return fmt.Errorf("failed to load SKU master into repository: %w", err)
	}

	historyRepo := memory.NewDemandHistoryRepository()
	if path, ok := files["DemandHistory"]; ok {
		history, err := loader.LoadDemandHistory(path)
		if err != nil {
			return fmt.Errorf("error loading demand history: %w", err)
		}
		if err := historyRepo.LoadRecords(history); err != nil {
			return fmt.Errorf("failed to load demand history into repository: %w", err)
		}
	}

	safetyRepo := memory.NewSafetyStockRepository()
	if path, ok := files["SafetyStock"]; ok {
		refs, err := loader.LoadSafetyStock(path)
		if err != nil {
			return fmt.Errorf("error loading safety stock references: %w", err)
		}
		if err := safetyRepo.LoadRecords(refs); err != nil {
			return fmt.Errorf("failed to load safety stock references into repository: %w", err)
		}
	}

	svc := services.NewSimulationService(logger)
	startTime := time.Now()
	report, err := svc.Run(ctx, services.SimulationConfig{
		Horizon:     c.config.Horizon,
		Policy:      policy,
		Demand:      sim.DemandConfig{Mode: demandMode, Seed: c.config.Seed, CV: c.config.CV},
		SeedTargets: c.config.SeedTargets,
	}, locationRepo, skuRepo, historyRepo, safetyRepo)
	if err != nil {
		return fmt.Errorf("error running simulation: %w", err)
	}
	runTime := time.Since(startTime)

	if c.config.ResultsDB != "" {
		store, err := results.New(c.config.ResultsDB)
		if err != nil {
			return fmt.Errorf("error opening results database: %w", err)
		}
		defer store.Close()

		if err := store.SaveReport(report); err != nil {
			return fmt.Errorf("error persisting run: %w", err)
		}
		if c.config.Verbose {
			fmt.Printf("Run %s saved to %s\n", report.RunID, c.config.ResultsDB)
		}
	}

	outputConfig := output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
		RunTime:   runTime,
	}

	if err := output.Generate(report, outputConfig); err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	return nil
}

// validateInputs validates the command configuration
func (c *SimulateCommand) validateInputs() error {
	if c.config.ScenarioDir == "" &&
		(c.config.LocationsFile == "" || c.config.SKUFile == "") {
		return fmt.Errorf("must specify either -scenario directory or -locations and -skus files")
	}
	if c.config.Horizon < 0 {
		return fmt.Errorf("horizon cannot be negative")
	}
	return nil
}

// resolveInputFiles determines the actual file paths to use. Demand history
// and safety stock files are optional.
func (c *SimulateCommand) resolveInputFiles() (map[string]string, error) {
	var locationsPath, skuPath, demandPath, safetyPath string

	if c.config.ScenarioDir != "" {
		locationsPath = filepath.Join(c.config.ScenarioDir, "locations.csv")
		skuPath = filepath.Join(c.config.ScenarioDir, "sku_master.csv")
		demandPath = filepath.Join(c.config.ScenarioDir, "demand_history.csv")
		safetyPath = filepath.Join(c.config.ScenarioDir, "safety_stock.csv")
	} else {
		locationsPath = c.config.LocationsFile
		skuPath = c.config.SKUFile
		demandPath = c.config.DemandFile
		safetyPath = c.config.SafetyStockFile
	}

	files := map[string]string{
		"Locations": locationsPath,
		"SKUs":      skuPath,
	}
	for name, path := range files {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("%s file not found: %s", name, path)
		}
	}

	if demandPath != "" {
		if _, err := os.Stat(demandPath); err == nil {
			files["DemandHistory"] = demandPath
		} else if c.config.ScenarioDir == "" {
			return nil, fmt.Errorf("demand history file not found: %s", demandPath)
		}
	}
	if safetyPath != "" {
		if _, err := os.Stat(safetyPath); err == nil {
			files["SafetyStock"] = safetyPath
		} else if c.config.ScenarioDir == "" {
			return nil, fmt.Errorf("safety stock file not found: %s", safetyPath)
		}
	}

	return files, nil
}

func (c *SimulateCommand) buildLogger() *logrus.Logger {
	logger := logrus.New()
	if c.config.LogJSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if c.config.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.WarnLevel)
	}
	return logger
}

func parsePolicy(s string) (sim.PerpetualPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "overdraw":
		return sim.Overdraw, nil
	case "zero-floor", "zerofloor":
		return sim.ZeroFloor, nil
	default:
		return sim.Overdraw, fmt.Errorf("invalid policy: %s (expected: overdraw or zero-floor)", s)
	}
}

func parseDemandMode(s string) (sim.DemandMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "constant":
		return sim.DemandConstant, nil
	case "normal":
		return sim.DemandNormal, nil
	default:
		return sim.DemandConstant, fmt.Errorf("invalid demand mode: %s (expected: constant or normal)", s)
	}
}

// showHelp displays the help message
func (c *SimulateCommand) showHelp() {
	fmt.Printf(`CedarSim - Hospital Supply Inventory Simulator

USAGE:
    cedarsim -scenario <directory>             # Use scenario directory with CSV files
    cedarsim -locations <file> -skus <file>    # Use individual CSV files

OPTIONS:
    -scenario <dir>       Path to scenario directory containing CSV files
    -locations <file>     Path to locations CSV file
    -skus <file>          Path to SKU master CSV file
    -demand <file>        Path to demand history CSV file (optional)
    -safety-stock <file>  Path to analytical safety stock CSV file (optional)
    -horizon <n>          Weeks to simulate (default: 52)
    -seed <n>             Random seed for stochastic demand
    -demand-mode <mode>   Demand generation: constant, normal (default: constant)
    -cv <x>               Coefficient of variation for normal demand (default: 0.25)
    -policy <p>           Perpetual accounting: overdraw, zero-floor (default: overdraw)
    -seed-targets         Recompute PAR targets from demand history
    -output <dir>         Output directory for results (optional)
    -format <fmt>         Output format: text, json, csv (default: text)
    -results-db <file>    SQLite database to persist the run (optional)
    -verbose              Enable verbose output
    -log-json             Emit structured logs as JSON
    -help                 Show this help message

SCENARIO DIRECTORY STRUCTURE:
    scenario_name/
    ├── locations.csv       # Inventory points (one Perpetual, many PARs)
    ├── sku_master.csv      # SKU instances with targets, lead times, demand rates
    ├── demand_history.csv  # Historical consumption (optional)
    └── safety_stock.csv    # Analytical reference values (optional)

CSV FILE FORMATS:

locations.csv:
    location_id,type,capacity
    PERPETUAL,Perpetual,
    ED,PAR,800

sku_master.csv:
    sku_id,location_id,description,unit_of_measure,target_level,lead_time_days,demand_rate,unit_cost
    GLOVES_M,ED,Exam Gloves Medium,BX,60,10,24,6.20

demand_history.csv:
    date,sku_id,location_id,quantity
    2024-01-07,GLOVES_M,ED,22

safety_stock.csv:
    sku_id,location_id,units,z_score
    GLOVES_M,ED,23.1,2.05

EXAMPLES:
    # Run a scenario for a year with deterministic demand
    cedarsim -scenario scenarios/hospital_small -verbose

    # Stochastic demand with a fixed seed, persisted to SQLite
    cedarsim -scenario scenarios/hospital_small -demand-mode normal -seed 42 -results-db runs.db

    # Recompute PAR targets from history and export CSV results
    cedarsim -scenario scenarios/hospital_small -seed-targets -format csv -output results/
`)
}
