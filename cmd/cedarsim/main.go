package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"

	"github.com/arash-simuland/cedars-sub000/pkg/interfaces/cli/commands"
)

// envDefaults are flag defaults overridable via CEDARSIM_* environment
// variables, e.g. CEDARSIM_RESULTS_DB or CEDARSIM_HORIZON.
type envDefaults struct {
	ScenarioDir string  `envconfig:"SCENARIO_DIR"`
	Horizon     int     `envconfig:"HORIZON" default:"52"`
	Seed        int64   `envconfig:"SEED"`
	DemandMode  string  `envconfig:"DEMAND_MODE" default:"constant"`
	CV          float64 `envconfig:"CV" default:"0.25"`
	Policy      string  `envconfig:"POLICY" default:"overdraw"`
	Format      string  `envconfig:"FORMAT" default:"text"`
	OutputDir   string  `envconfig:"OUTPUT_DIR"`
	ResultsDB   string  `envconfig:"RESULTS_DB"`
	Verbose     bool    `envconfig:"VERBOSE"`
	LogJSON     bool    `envconfig:"LOG_JSON"`
}

func main() {
	var env envDefaults
	if err := envconfig.Process("cedarsim", &env); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading environment: %v\n", err)
		os.Exit(1)
	}

	var (
		scenarioDir = flag.String(
			"scenario",
			env.ScenarioDir,
			"Path to scenario directory containing CSV files",
		)
		locationsFile   = flag.String("locations", "", "Path to locations CSV file")
		skusFile        = flag.String("skus", "", "Path to SKU master CSV file")
		demandFile      = flag.String("demand", "", "Path to demand history CSV file")
		safetyStockFile = flag.String("safety-stock", "", "Path to analytical safety stock CSV file")
		horizon         = flag.Int("horizon", env.Horizon, "Weeks to simulate")
		seed            = flag.Int64("seed", env.Seed, "Random seed for stochastic demand")
		demandMode      = flag.String("demand-mode", env.DemandMode, "Demand generation: constant, normal")
		cv              = flag.Float64("cv", env.CV, "Coefficient of variation for normal demand")
		policy          = flag.String("policy", env.Policy, "Perpetual accounting: overdraw, zero-floor")
		seedTargets     = flag.Bool("seed-targets", false, "Recompute PAR targets from demand history")
		outputDir       = flag.String("output", env.OutputDir, "Output directory for results (optional)")
		format          = flag.String("format", env.Format, "Output format: text, json, csv")
		resultsDB       = flag.String("results-db", env.ResultsDB, "SQLite database to persist the run (optional)")
		verbose         = flag.Bool("verbose", env.Verbose, "Enable verbose output")
		logJSON         = flag.Bool("log-json", env.LogJSON, "Emit structured logs as JSON")
		help            = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	config := commands.Config{
		ScenarioDir:     *scenarioDir,
		LocationsFile:   *locationsFile,
		SKUFile:         *skusFile,
		DemandFile:      *demandFile,
		SafetyStockFile: *safetyStockFile,
		Horizon:         *horizon,
		Seed:            *seed,
		DemandMode:      *demandMode,
		CV:              *cv,
		Policy:          *policy,
		SeedTargets:     *seedTargets,
		OutputDir:       *outputDir,
		Format:          *format,
		ResultsDB:       *resultsDB,
		Verbose:         *verbose,
		LogJSON:         *logJSON,
		Help:            *help,
	}

	cmd := commands.NewSimulateCommand(config)
	ctx := context.Background()

	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
