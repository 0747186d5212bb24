package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/arash-simuland/cedars-sub000/pkg/domain/entities"
)

// Loader handles loading simulation input data from CSV files
type Loader struct {
	validate *validator.Validate
}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{
		validate: validator.New(),
	}
}

// LoadLocations loads location definitions from a CSV file
func (l *Loader) LoadLocations(filename string) ([]*entities.LocationRecord, error) {
	records, err := readAll(filename, "locations")
	if err != nil {
		return nil, err
	}

	expectedHeader := []string{"location_id", "type", "capacity"}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("locations CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}

	var locations []*entities.LocationRecord
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("locations CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}

		loc, err := l.parseLocation(record)
		if err != nil {
			return nil, fmt.Errorf("locations CSV row %d: %w", i+2, err)
		}

		locations = append(locations, &loc)
	}

	return locations, nil
}

// LoadSKUMaster loads the SKU master list from a CSV file
func (l *Loader) LoadSKUMaster(filename string) ([]*entities.SKUMasterRecord, error) {
	records, err := readAll(filename, "SKU master")
	if err != nil {
		return nil, err
	}

	expectedHeader := []string{"sku_id", "location_id", "description", "unit_of_measure", "target_level", "lead_time_days", "demand_rate", "unit_cost"}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("SKU master CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}

	var skus []*entities.SKUMasterRecord
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("SKU master CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}

		sku, err := l.parseSKUMaster(record)
		if err != nil {
			return nil, fmt.Errorf("SKU master CSV row %d: %w", i+2, err)
		}

		skus = append(skus, &sku)
	}

	return skus, nil
}

// LoadDemandHistory loads historical demand observations from a CSV file
func (l *Loader) LoadDemandHistory(filename string) ([]*entities.DemandRecord, error) {
	records, err := readAll(filename, "demand history")
	if err != nil {
		return nil, err
	}

	expectedHeader := []string{"date", "sku_id", "location_id", "quantity"}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("demand history CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}

	var history []*entities.DemandRecord
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("demand history CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}

		rec, err := l.parseDemandRecord(record)
		if err != nil {
			return nil, fmt.Errorf("demand history CSV row %d: %w", i+2, err)
		}

		history = append(history, &rec)
	}

	return history, nil
}

// LoadSafetyStock loads analytical safety-stock reference values from a CSV file
func (l *Loader) LoadSafetyStock(filename string) ([]*entities.SafetyStockRecord, error) {
	records, err := readAll(filename, "safety stock")
	if err != nil {
		return nil, err
	}

	expectedHeader := []string{"sku_id", "location_id", "units", "z_score"}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("safety stock CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}

	var refs []*entities.SafetyStockRecord
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("safety stock CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}

		rec, err := l.parseSafetyStock(record)
		if err != nil {
			return nil, fmt.Errorf("safety stock CSV row %d: %w", i+2, err)
		}

		refs = append(refs, &rec)
	}

	return refs, nil
}

// Helper functions for parsing CSV records

func readAll(filename, kind string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", kind, filename, err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("%s CSV must have header and at least one data row", kind)
	}

	return records, nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

func (l *Loader) parseLocation(record []string) (entities.LocationRecord, error) {
	locType, err := parseLocationType(record[1])
	if err != nil {
		return entities.LocationRecord{}, err
	}

	// A blank capacity cell means uncapped
	capacity := 0.0
	if strings.TrimSpace(record[2]) != "" {
		capacity, err = strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if err != nil {
			return entities.LocationRecord{}, fmt.Errorf("invalid capacity: %s", record[2])
		}
	}

	loc := entities.LocationRecord{
		LocationID: entities.LocationID(record[0]),
		Type:       locType,
		Capacity:   capacity,
	}

	if err := l.validate.Struct(loc); err != nil {
		return entities.LocationRecord{}, fmt.Errorf("invalid location record: %w", err)
	}

	return loc, nil
}

func (l *Loader) parseSKUMaster(record []string) (entities.SKUMasterRecord, error) {
	targetLevel, err := parseQuantityCell(record[4], "target_level")
	if err != nil {
		return entities.SKUMasterRecord{}, err
	}

	leadTimeDays, err := parseQuantityCell(record[5], "lead_time_days")
	if err != nil {
		return entities.SKUMasterRecord{}, err
	}

	demandRate, err := parseQuantityCell(record[6], "demand_rate")
	if err != nil {
		return entities.SKUMasterRecord{}, err
	}

	unitCost := decimal.Zero
	if strings.TrimSpace(record[7]) != "" {
		unitCost, err = decimal.NewFromString(strings.TrimSpace(record[7]))
		if err != nil {
			return entities.SKUMasterRecord{}, fmt.Errorf("invalid unit_cost: %s", record[7])
		}
	}

	sku := entities.SKUMasterRecord{
		SKUID:         entities.SKUID(record[0]),
		LocationID:    entities.LocationID(record[1]),
		Description:   record[2],
		UnitOfMeasure: record[3],
		TargetLevel:   targetLevel,
		LeadTimeDays:  leadTimeDays,
		DemandRate:    demandRate,
		UnitCost:      unitCost,
	}

	if err := l.validate.Struct(sku); err != nil {
		return entities.SKUMasterRecord{}, fmt.Errorf("invalid SKU master record: %w", err)
	}

	return sku, nil
}

func (l *Loader) parseDemandRecord(record []string) (entities.DemandRecord, error) {
	date, err := time.Parse("2006-01-02", record[0])
	if err != nil {
		return entities.DemandRecord{}, fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", record[0])
	}

	quantity, err := parseQuantityCell(record[3], "quantity")
	if err != nil {
		return entities.DemandRecord{}, err
	}

	rec := entities.DemandRecord{
		Date:       date,
		SKUID:      entities.SKUID(record[1]),
		LocationID: entities.LocationID(record[2]),
		Quantity:   quantity,
	}

	if err := l.validate.Struct(rec); err != nil {
		return entities.DemandRecord{}, fmt.Errorf("invalid demand record: %w", err)
	}

	return rec, nil
}

func (l *Loader) parseSafetyStock(record []string) (entities.SafetyStockRecord, error) {
	units, err := parseQuantityCell(record[2], "units")
	if err != nil {
		return entities.SafetyStockRecord{}, err
	}

	zScore := 0.0
	if strings.TrimSpace(record[3]) != "" {
		zScore, err = strconv.ParseFloat(strings.TrimSpace(record[3]), 64)
		if err != nil {
			return entities.SafetyStockRecord{}, fmt.Errorf("invalid z_score: %s", record[3])
		}
	}

	rec := entities.SafetyStockRecord{
		SKUID:      entities.SKUID(record[0]),
		LocationID: entities.LocationID(record[1]),
		Units:      units,
		ZScore:     zScore,
	}

	if err := l.validate.Struct(rec); err != nil {
		return entities.SafetyStockRecord{}, fmt.Errorf("invalid safety stock record: %w", err)
	}

	return rec, nil
}

func parseLocationType(s string) (entities.LocationType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "par":
		return entities.PAR, nil
	case "perpetual":
		return entities.Perpetual, nil
	default:
		return entities.PAR, fmt.Errorf("invalid location type: %s (expected: PAR or Perpetual)", s)
	}
}

// parseQuantityCell parses a numeric cell, tolerating the thousands
// separators and surrounding whitespace that exported spreadsheets carry.
func parseQuantityCell(cell, column string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(cell), ",", "")
	if cleaned == "" {
		return 0, nil
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", column, cell)
	}

	return d.InexactFloat64(), nil
}
