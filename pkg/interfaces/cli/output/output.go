package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/arash-simuland/cedars-sub000/pkg/application/dto"
	"github.com/arash-simuland/cedars-sub000/pkg/domain/entities"
	"github.com/arash-simuland/cedars-sub000/pkg/sim"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	RunTime   time.Duration
}

// Generate creates output in the specified format
func Generate(report *dto.SimulationReport, config Config) error {
	switch config.Format {
	case "", "text":
		return generateTextOutput(report, config)
	case "json":
		return generateJSONOutput(report, config)
	case "csv":
		return generateCSVOutput(report, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateTextOutput creates human-readable text output
func generateTextOutput(report *dto.SimulationReport, config Config) error {
	result := report.Result

	fmt.Printf("Simulation Results Summary\n")
	fmt.Printf("==========================\n\n")

	fmt.Printf("Run ID: %s\n", report.RunID)
	fmt.Printf("Horizon: %d weeks (%d simulated)\n", result.Horizon, result.WeeksRun)
	fmt.Printf("Policy: %s\n", result.Policy)
	fmt.Printf("Run Time: %v\n\n", config.RunTime)

	fmt.Printf("Demand Units: %.1f\n", float64(result.System.DemandUnits))
	fmt.Printf("Delivered Units: %.1f\n", float64(result.System.DeliveredUnits))
	fmt.Printf("Service Level: %.2f%%\n", result.System.ServiceLevel()*100)
	fmt.Printf("Stockout Events: %d (%.1f units)\n",
		result.System.StockoutEvents, float64(result.System.StockoutUnits))
	fmt.Printf("Emergency Transfers: %d (%.1f units)\n",
		result.System.EmergencyTransfers, float64(result.System.EmergencyUnits))
	fmt.Printf("Hospital-Level Stockouts: %.1f units\n\n",
		float64(result.System.HospitalStockoutUnits))

	if !report.HoldingCost.Total.IsZero() {
		fmt.Printf("Average Holding Cost: %s\n\n", report.HoldingCost.Total.StringFixed(2))
	}

	fmt.Printf("Locations:\n")
	fmt.Printf("%-15s %-6s %-12s %-12s %-12s %-12s\n",
		"Location", "SKUs", "Demand", "Stockouts", "Emergency", "End Level")
	fmt.Printf("%-15s %-6s %-12s %-12s %-12s %-12s\n",
		"---------------", "------", "------------", "------------", "------------", "------------")

	for _, id := range sortedLocationIDs(result.Locations) {
		stats := result.Locations[id]
		fmt.Printf("%-15s %-6d %-12.1f %-12.1f %-12.1f %-12.1f\n",
			id, stats.SKUCount, float64(stats.DemandUnits), float64(stats.StockoutUnits),
			float64(stats.EmergencyUnits), float64(stats.EndingLevel))
	}
	fmt.Println()

	if len(result.Transfers) > 0 && config.Verbose {
		fmt.Printf("Emergency Transfers:\n")
		fmt.Printf("%-6s %-12s %-15s %-15s %-10s %-12s %-8s\n",
			"Week", "SKU", "From", "To", "Requested", "Transferred", "Unmet")
		fmt.Printf("%-6s %-12s %-15s %-15s %-10s %-12s %-8s\n",
			"------", "------------", "---------------", "---------------", "----------", "------------", "--------")

		for _, tr := range result.Transfers {
			fmt.Printf("%-6d %-12s %-15s %-15s %-10.1f %-12.1f %-8.1f\n",
				tr.Week, tr.SKUID, tr.From.LocationID, tr.To.LocationID,
				float64(tr.Requested), float64(tr.Transferred), float64(tr.Unmet))
		}
		fmt.Println()
	}

	if len(report.Validations) > 0 {
		fmt.Printf("Safety Stock Validation:\n")
		fmt.Printf("%-25s %-12s %-12s %-10s %-8s\n",
			"Instance", "Calculated", "Reference", "Error %", "Within")
		fmt.Printf("%-25s %-12s %-12s %-10s %-8s\n",
			"-------------------------", "------------", "------------", "----------", "--------")

		for _, v := range report.Validations {
			reference := "-"
			errorPct := "-"
			within := "-"
			if v.HasReference {
				reference = fmt.Sprintf("%.2f", v.Comparison.Reference)
				errorPct = fmt.Sprintf("%.2f", v.Comparison.ErrorPct)
				within = fmt.Sprintf("%t", v.Comparison.WithinTol)
			}
			fmt.Printf("%-25s %-12.2f %-12s %-10s %-8s\n",
				v.Key, v.Comparison.Calculated, reference, errorPct, within)
		}
		fmt.Println()
	}

	for _, warning := range report.Warnings {
		fmt.Printf("Warning: %s\n", warning)
	}

	return nil
}

// jsonReport is the serializable view of a report. Instance-keyed maps are
// flattened to string keys.
type jsonReport struct {
	RunID       string                 `json:"run_id"`
	StartedAt   time.Time              `json:"started_at"`
	CompletedAt time.Time              `json:"completed_at"`
	Horizon     int                    `json:"horizon"`
	WeeksRun    int                    `json:"weeks_run"`
	Seed        int64                  `json:"seed"`
	Policy      string                 `json:"policy"`
	System      jsonSystem             `json:"system"`
	Series      map[string][]float64   `json:"series"`
	Locations   map[string]jsonStats   `json:"locations"`
	Transfers   []jsonTransfer         `json:"transfers"`
	Validations []jsonValidation       `json:"validations"`
	HoldingCost map[string]string      `json:"holding_cost"`
	Warnings    []string               `json:"warnings,omitempty"`
}

type jsonSystem struct {
	DemandUnits           float64 `json:"demand_units"`
	DeliveredUnits        float64 `json:"delivered_units"`
	ServiceLevel          float64 `json:"service_level"`
	StockoutEvents        int     `json:"stockout_events"`
	StockoutUnits         float64 `json:"stockout_units"`
	EmergencyTransfers    int     `json:"emergency_transfers"`
	EmergencyUnits        float64 `json:"emergency_units"`
	HospitalStockoutUnits float64 `json:"hospital_stockout_units"`
}

type jsonStats struct {
	SKUCount              int     `json:"sku_count"`
	DemandUnits           float64 `json:"demand_units"`
	StockoutUnits         float64 `json:"stockout_units"`
	EmergencyUnits        float64 `json:"emergency_units"`
	HospitalStockoutUnits float64 `json:"hospital_stockout_units"`
	EndingLevel           float64 `json:"ending_level"`
}

type jsonTransfer struct {
	Week          int     `json:"week"`
	SKUID         string  `json:"sku_id"`
	From          string  `json:"from"`
	To            string  `json:"to"`
	Requested     float64 `json:"requested"`
	Transferred   float64 `json:"transferred"`
	Unmet         float64 `json:"unmet"`
	HospitalLevel bool    `json:"hospital_level"`
}

type jsonValidation struct {
	Instance     string  `json:"instance"`
	Calculated   float64 `json:"calculated"`
	Reference    float64 `json:"reference"`
	ErrorPct     float64 `json:"error_pct"`
	WithinTol    bool    `json:"within_tolerance"`
	HasReference bool    `json:"has_reference"`
}

func buildJSONReport(report *dto.SimulationReport) jsonReport {
	result := report.Result

	out := jsonReport{
		RunID:       report.RunID,
		StartedAt:   report.StartedAt,
		CompletedAt: report.CompletedAt,
		Horizon:     result.Horizon,
		WeeksRun:    result.WeeksRun,
		Seed:        report.Seed,
		Policy:      result.Policy.String(),
		System: jsonSystem{
			DemandUnits:           float64(result.System.DemandUnits),
			DeliveredUnits:        float64(result.System.DeliveredUnits),
			ServiceLevel:          result.System.ServiceLevel(),
			StockoutEvents:        result.System.StockoutEvents,
			StockoutUnits:         float64(result.System.StockoutUnits),
			EmergencyTransfers:    result.System.EmergencyTransfers,
			EmergencyUnits:        float64(result.System.EmergencyUnits),
			HospitalStockoutUnits: float64(result.System.HospitalStockoutUnits),
		},
		Series:      make(map[string][]float64, len(result.Series)),
		Locations:   make(map[string]jsonStats, len(result.Locations)),
		HoldingCost: make(map[string]string, len(report.HoldingCost.PerLocation)+1),
		Warnings:    report.Warnings,
	}

	for key, series := range result.Series {
		levels := make([]float64, len(series))
		for i, level := range series {
			levels[i] = float64(level)
		}
		out.Series[key.String()] = levels
	}

	for id, stats := range result.Locations {
		out.Locations[string(id)] = jsonStats{
			SKUCount:              stats.SKUCount,
			DemandUnits:           float64(stats.DemandUnits),
			StockoutUnits:         float64(stats.StockoutUnits),
			EmergencyUnits:        float64(stats.EmergencyUnits),
			HospitalStockoutUnits: float64(stats.HospitalStockoutUnits),
			EndingLevel:           float64(stats.EndingLevel),
		}
	}

	for _, tr := range result.Transfers {
		out.Transfers = append(out.Transfers, jsonTransfer{
			Week:          tr.Week,
			SKUID:         string(tr.SKUID),
			From:          string(tr.From.LocationID),
			To:            string(tr.To.LocationID),
			Requested:     float64(tr.Requested),
			Transferred:   float64(tr.Transferred),
			Unmet:         float64(tr.Unmet),
			HospitalLevel: tr.HospitalLevel,
		})
	}

	for _, v := range report.Validations {
		out.Validations = append(out.Validations, jsonValidation{
			Instance:     v.Key.String(),
			Calculated:   v.Comparison.Calculated,
			Reference:    v.Comparison.Reference,
			ErrorPct:     v.Comparison.ErrorPct,
			WithinTol:    v.Comparison.WithinTol,
			HasReference: v.HasReference,
		})
	}

	for id, cost := range report.HoldingCost.PerLocation {
		out.HoldingCost[string(id)] = cost.StringFixed(2)
	}
	if !report.HoldingCost.Total.IsZero() {
		out.HoldingCost["total"] = report.HoldingCost.Total.StringFixed(2)
	}

	return out
}

// generateJSONOutput creates JSON output
func generateJSONOutput(report *dto.SimulationReport, config Config) error {
	jsonData, err := json.MarshalIndent(buildJSONReport(report), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Println(string(jsonData))
		return nil
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, "simulation_results.json")
	if err := os.WriteFile(filename, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	if config.Verbose {
		fmt.Printf("JSON results saved to: %s\n", filename)
	}

	return nil
}

// generateCSVOutput creates CSV output files
func generateCSVOutput(report *dto.SimulationReport, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for CSV format")
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	levelsFile := filepath.Join(config.OutputDir, "levels.csv")
	if err := writeLevelsCSV(report, levelsFile); err != nil {
		return fmt.Errorf("failed to write levels CSV: %w", err)
	}

	transfersFile := filepath.Join(config.OutputDir, "transfers.csv")
	if err := writeTransfersCSV(report, transfersFile); err != nil {
		return fmt.Errorf("failed to write transfers CSV: %w", err)
	}

	validationsFile := filepath.Join(config.OutputDir, "validations.csv")
	if err := writeValidationsCSV(report, validationsFile); err != nil {
		return fmt.Errorf("failed to write validations CSV: %w", err)
	}

	if config.Verbose {
		fmt.Printf("CSV results saved to:\n")
		fmt.Printf("  Levels: %s\n", levelsFile)
		fmt.Printf("  Transfers: %s\n", transfersFile)
		fmt.Printf("  Validations: %s\n", validationsFile)
	}

	return nil
}

func sortedLocationIDs(locations map[entities.LocationID]sim.LocationStats) []entities.LocationID {
	ids := make([]entities.LocationID, 0, len(locations))
	for id := range locations {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
