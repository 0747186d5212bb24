package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/arash-simuland/cedars-sub000/pkg/application/dto"
	"github.com/arash-simuland/cedars-sub000/pkg/domain/entities"
)

func writeLevelsCSV(report *dto.SimulationReport, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"week", "location_id", "sku_id", "level"}); err != nil {
		return err
	}

	keys := make([]entities.InstanceKey, 0, len(report.Result.Series))
	for key := range report.Result.Series {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	for _, key := range keys {
		for week, level := range report.Result.Series[key] {
			row := []string{
				strconv.Itoa(week),
				string(key.LocationID),
				string(key.SKUID),
				formatQuantity(float64(level)),
			}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

func writeTransfersCSV(report *dto.SimulationReport, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"week", "sku_id", "from_location", "to_location", "requested", "transferred", "unmet", "hospital_level"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, tr := range report.Result.Transfers {
		row := []string{
			strconv.Itoa(tr.Week),
			string(tr.SKUID),
			string(tr.From.LocationID),
			string(tr.To.LocationID),
			formatQuantity(float64(tr.Requested)),
			formatQuantity(float64(tr.Transferred)),
			formatQuantity(float64(tr.Unmet)),
			strconv.FormatBool(tr.HospitalLevel),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func writeValidationsCSV(report *dto.SimulationReport, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"location_id", "sku_id", "calculated", "reference", "error_pct", "within_tolerance", "has_reference"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, v := range report.Validations {
		row := []string{
			string(v.Key.LocationID),
			string(v.Key.SKUID),
			formatQuantity(v.Comparison.Calculated),
			formatQuantity(v.Comparison.Reference),
			fmt.Sprintf("%.2f", v.Comparison.ErrorPct),
			strconv.FormatBool(v.Comparison.WithinTol),
			strconv.FormatBool(v.HasReference),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}
