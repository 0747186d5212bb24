// Package results provides SQLite-based persistence for simulation runs.
package results

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/arash-simuland/cedars-sub000/pkg/application/dto"
	"github.com/arash-simuland/cedars-sub000/pkg/domain/entities"
)

// Store handles SQLite database operations for run persistence.
type Store struct {
	db *sql.DB
}

// RunSummary is the persisted header of one simulation run.
type RunSummary struct {
	ID                    string
	StartedAt             time.Time
	CompletedAt           time.Time
	Horizon               int
	WeeksRun              int
	Seed                  int64
	Policy                string
	ServiceLevel          float64
	DemandUnits           float64
	StockoutUnits         float64
	EmergencyUnits        float64
	HospitalStockoutUnits float64
	HoldingCost           string
}

// New creates a new Store with the given database path.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at DATETIME NOT NULL,
		completed_at DATETIME NOT NULL,
		horizon INTEGER NOT NULL,
		weeks_run INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		policy TEXT NOT NULL,
		service_level REAL NOT NULL,
		demand_units REAL NOT NULL,
		stockout_units REAL NOT NULL,
		emergency_units REAL NOT NULL,
		hospital_stockout_units REAL NOT NULL,
		holding_cost TEXT NOT NULL DEFAULT '0'
	);

	CREATE TABLE IF NOT EXISTS levels (
		run_id TEXT NOT NULL,
		week INTEGER NOT NULL,
		location_id TEXT NOT NULL,
		sku_id TEXT NOT NULL,
		level REAL NOT NULL,
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE TABLE IF NOT EXISTS events (
		run_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		week INTEGER NOT NULL,
		kind TEXT NOT NULL,
		location_id TEXT NOT NULL,
		sku_id TEXT NOT NULL,
		quantity REAL NOT NULL,
		source TEXT NOT NULL,
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE TABLE IF NOT EXISTS transfers (
		run_id TEXT NOT NULL,
		week INTEGER NOT NULL,
		sku_id TEXT NOT NULL,
		from_location TEXT NOT NULL,
		to_location TEXT NOT NULL,
		requested REAL NOT NULL,
		transferred REAL NOT NULL,
		unmet REAL NOT NULL,
		hospital_level INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE TABLE IF NOT EXISTS validations (
		run_id TEXT NOT NULL,
		location_id TEXT NOT NULL,
		sku_id TEXT NOT NULL,
		calculated REAL NOT NULL,
		reference REAL NOT NULL,
		error_pct REAL NOT NULL,
		within_tol INTEGER NOT NULL,
		has_reference INTEGER NOT NULL,
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE TABLE IF NOT EXISTS warnings (
		run_id TEXT NOT NULL,
		message TEXT NOT NULL,
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_levels_run ON levels(run_id, location_id, sku_id, week);
	CREATE INDEX IF NOT EXISTS idx_events_run ON events(run_id, seq);
	CREATE INDEX IF NOT EXISTS idx_transfers_run ON transfers(run_id, week);
	CREATE INDEX IF NOT EXISTS idx_validations_run ON validations(run_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection for custom queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// SaveReport persists a complete simulation report in one transaction.
func (s *Store) SaveReport(report *dto.SimulationReport) error {
	if report.Result == nil {
		return fmt.Errorf("report %s has no run result", report.RunID)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	result := report.Result
	_, err = tx.Exec(
		`INSERT INTO runs (id, started_at, completed_at, horizon, weeks_run, seed,
		 policy, service_level, demand_units, stockout_units, emergency_units,
		 hospital_stockout_units, holding_cost)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.RunID, report.StartedAt.UTC(), report.CompletedAt.UTC(),
		result.Horizon, result.WeeksRun, report.Seed, report.Policy.String(),
		result.System.ServiceLevel(), float64(result.System.DemandUnits),
		float64(result.System.StockoutUnits), float64(result.System.EmergencyUnits),
		float64(result.System.HospitalStockoutUnits), report.HoldingCost.Total.String(),
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", report.RunID, err)
	}

	levelStmt, err := tx.Prepare(
		`INSERT INTO levels (run_id, week, location_id, sku_id, level) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare level insert: %w", err)
	}
	defer levelStmt.Close()

	for key, series := range result.Series {
		for week, level := range series {
			if _, err := levelStmt.Exec(report.RunID, week, string(key.LocationID), string(key.SKUID), float64(level)); err != nil {
				return fmt.Errorf("insert level for %s week %d: %w", key, week, err)
			}
		}
	}

	eventStmt, err := tx.Prepare(
		`INSERT INTO events (run_id, seq, week, kind, location_id, sku_id, quantity, source)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare event insert: %w", err)
	}
	defer eventStmt.Close()

	for _, ev := range result.Events {
		_, err := eventStmt.Exec(report.RunID, ev.Seq, ev.Week, ev.Kind.String(),
			string(ev.Key.LocationID), string(ev.Key.SKUID), float64(ev.Quantity), ev.Source.String())
		if err != nil {
			return fmt.Errorf("insert event %d: %w", ev.Seq, err)
		}
	}

	transferStmt, err := tx.Prepare(
		`INSERT INTO transfers (run_id, week, sku_id, from_location, to_location,
		 requested, transferred, unmet, hospital_level)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare transfer insert: %w", err)
	}
	defer transferStmt.Close()

	for _, tr := range result.Transfers {
		_, err := transferStmt.Exec(report.RunID, tr.Week, string(tr.SKUID),
			string(tr.From.LocationID), string(tr.To.LocationID),
			float64(tr.Requested), float64(tr.Transferred), float64(tr.Unmet), tr.HospitalLevel)
		if err != nil {
			return fmt.Errorf("insert transfer week %d: %w", tr.Week, err)
		}
	}

	for _, v := range report.Validations {
		_, err := tx.Exec(
			`INSERT INTO validations (run_id, location_id, sku_id, calculated,
			 reference, error_pct, within_tol, has_reference)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			report.RunID, string(v.Key.LocationID), string(v.Key.SKUID),
			v.Comparison.Calculated, v.Comparison.Reference, v.Comparison.ErrorPct,
			v.Comparison.WithinTol, v.HasReference,
		)
		if err != nil {
			return fmt.Errorf("insert validation for %s: %w", v.Key, err)
		}
	}

	for _, w := range report.Warnings {
		if _, err := tx.Exec(`INSERT INTO warnings (run_id, message) VALUES (?, ?)`, report.RunID, w); err != nil {
			return fmt.Errorf("insert warning: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run %s: %w", report.RunID, err)
	}
	return nil
}

// GetRun retrieves a run header by ID.
func (s *Store) GetRun(id string) (*RunSummary, error) {
	row := s.db.QueryRow(
		`SELECT id, started_at, completed_at, horizon, weeks_run, seed, policy,
		 service_level, demand_units, stockout_units, emergency_units,
		 hospital_stockout_units, holding_cost
		 FROM runs WHERE id = ?`, id,
	)

	var run RunSummary
	err := row.Scan(&run.ID, &run.StartedAt, &run.CompletedAt, &run.Horizon,
		&run.WeeksRun, &run.Seed, &run.Policy, &run.ServiceLevel, &run.DemandUnits,
		&run.StockoutUnits, &run.EmergencyUnits, &run.HospitalStockoutUnits, &run.HoldingCost)
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	return &run, nil
}

// GetSeries retrieves the weekly level series for one SKU instance.
func (s *Store) GetSeries(runID string, key entities.InstanceKey) ([]float64, error) {
	rows, err := s.db.Query(
		`SELECT level FROM levels
		 WHERE run_id = ? AND location_id = ? AND sku_id = ?
		 ORDER BY week`, runID, string(key.LocationID), string(key.SKUID),
	)
	if err != nil {
		return nil, fmt.Errorf("get series for %s: %w", key, err)
	}
	defer rows.Close()

	var series []float64
	for rows.Next() {
		var level float64
		if err := rows.Scan(&level); err != nil {
			return nil, err
		}
		series = append(series, level)
	}
	return series, rows.Err()
}

// CountEvents returns the number of persisted events for a run.
func (s *Store) CountEvents(runID string) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM events WHERE run_id = ?`, runID).Scan(&count)
	return count, err
}

// GetTransfers retrieves all transfer records for a run in week order.
func (s *Store) GetTransfers(runID string) ([]TransferRow, error) {
	rows, err := s.db.Query(
		`SELECT week, sku_id, from_location, to_location, requested, transferred,
		 unmet, hospital_level
		 FROM transfers WHERE run_id = ? ORDER BY week, rowid`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("get transfers for run %s: %w", runID, err)
	}
	defer rows.Close()

	var transfers []TransferRow
	for rows.Next() {
		var tr TransferRow
		err := rows.Scan(&tr.Week, &tr.SKUID, &tr.FromLocation, &tr.ToLocation,
			&tr.Requested, &tr.Transferred, &tr.Unmet, &tr.HospitalLevel)
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, tr)
	}
	return transfers, rows.Err()
}

// TransferRow is one persisted emergency transfer.
type TransferRow struct {
	Week          int
	SKUID         string
	FromLocation  string
	ToLocation    string
	Requested     float64
	Transferred   float64
	Unmet         float64
	HospitalLevel bool
}

// RecentRuns returns the most recent run headers.
func (s *Store) RecentRuns(limit int) ([]*RunSummary, error) {
	rows, err := s.db.Query(
		`SELECT id, started_at, completed_at, horizon, weeks_run, seed, policy,
		 service_level, demand_units, stockout_units, emergency_units,
		 hospital_stockout_units, holding_cost
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*RunSummary
	for rows.Next() {
		var run RunSummary
		err := rows.Scan(&run.ID, &run.StartedAt, &run.CompletedAt, &run.Horizon,
			&run.WeeksRun, &run.Seed, &run.Policy, &run.ServiceLevel, &run.DemandUnits,
			&run.StockoutUnits, &run.EmergencyUnits, &run.HospitalStockoutUnits, &run.HoldingCost)
		if err != nil {
			return nil, err
		}
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}
