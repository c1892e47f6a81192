package runstore

import (
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a run ID does not exist.
var ErrNotFound = errors.New("runstore: run not found")

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id          TEXT PRIMARY KEY,
	parent_id       TEXT,
	model_name      TEXT NOT NULL,
	model_path      TEXT,
	target_variable TEXT NOT NULL,
	shock_prefix    TEXT NOT NULL,
	horizon         INTEGER NOT NULL,
	irf_periods     INTEGER NOT NULL,
	target_path     BLOB NOT NULL,
	shock_sequence  BLOB NOT NULL,
	max_residual    REAL NOT NULL,
	passed          INTEGER NOT NULL,
	chart_path      TEXT,
	created_at      TEXT NOT NULL,
	FOREIGN KEY (parent_id) REFERENCES runs(run_id)
);

CREATE TABLE IF NOT EXISTS provenance_log (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id          TEXT NOT NULL,
	model_name      TEXT,
	target_variable TEXT,
	request_json    TEXT,
	decision        TEXT NOT NULL,
	reason          TEXT,
	created_at      TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
`

// #endregion schema

// #region store-struct
// Store keeps solved runs in SQLite.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by other packages (e.g. logging).
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion constructor

// #region save
// Save inserts rec, assigning a run ID and timestamp when missing.
func (s *Store) Save(rec RunRecord) (RunRecord, error) {
	if rec.RunID == "" {
		rec.RunID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	var parentPtr interface{}
	if rec.ParentID != "" {
		parentPtr = rec.ParentID
	}
	passed := 0
	if rec.Passed {
		passed = 1
	}

	_, err := s.db.Exec(
		`INSERT INTO runs (run_id, parent_id, model_name, model_path, target_variable, shock_prefix,
		                   horizon, irf_periods, target_path, shock_sequence, max_residual, passed,
		                   chart_path, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, parentPtr, rec.ModelName, nullIfEmpty(rec.ModelPath), rec.TargetVariable, rec.ShockPrefix,
		rec.Horizon(), rec.IRFPeriods, encodeVector(rec.TargetPath), encodeVector(rec.Shocks),
		rec.MaxResidual, passed, nullIfEmpty(rec.ChartPath), rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return RunRecord{}, fmt.Errorf("insert run: %w", err)
	}
	return rec, nil
}

// #endregion save

// #region get
const runColumns = `run_id, parent_id, model_name, model_path, target_variable, shock_prefix,
	irf_periods, target_path, shock_sequence, max_residual, passed, chart_path, created_at`

const joinedRunColumns = `r.run_id, r.parent_id, r.model_name, r.model_path, r.target_variable, r.shock_prefix,
	r.irf_periods, r.target_path, r.shock_sequence, r.max_residual, r.passed, r.chart_path, r.created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner, extra ...any) (RunRecord, error) {
	var rec RunRecord
	var parentID, modelPath, chartPath sql.NullString
	var pathBlob, shockBlob []byte
	var passed int
	var createdStr string

	dest := []any{
		&rec.RunID, &parentID, &rec.ModelName, &modelPath, &rec.TargetVariable, &rec.ShockPrefix,
		&rec.IRFPeriods, &pathBlob, &shockBlob, &rec.MaxResidual, &passed, &chartPath, &createdStr,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return RunRecord{}, err
	}
	rec.ParentID = parentID.String
	rec.ModelPath = modelPath.String
	rec.ChartPath = chartPath.String
	rec.TargetPath = decodeVector(pathBlob)
	rec.Shocks = decodeVector(shockBlob)
	rec.Passed = passed != 0
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	return rec, nil
}

// Get retrieves a run by ID.
func (s *Store) Get(id string) (RunRecord, error) {
	rec, err := scanRun(s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE run_id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, fmt.Errorf("get run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return RunRecord{}, fmt.Errorf("get run %s: %w", id, err)
	}
	return rec, nil
}

// #endregion get

// #region list
// List returns the most recent runs, newest first.
func (s *Store) List(limit int) ([]RunRecord, error) {
	rows, err := s.db.Query(`SELECT `+runColumns+` FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ListWithProvenance returns recent runs joined with their latest provenance decision.
func (s *Store) ListWithProvenance(limit int) ([]RunWithProvenance, error) {
	rows, err := s.db.Query(
		`SELECT `+joinedRunColumns+`,
		        COALESCE(p.decision, ''), COALESCE(p.reason, '')
		 FROM runs r
		 LEFT JOIN provenance_log p ON p.id = (
		     SELECT MAX(id) FROM provenance_log WHERE run_id = r.run_id
		 )
		 ORDER BY r.created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs with provenance: %w", err)
	}
	defer rows.Close()

	var out []RunWithProvenance
	for rows.Next() {
		var rp RunWithProvenance
		rec, err := scanRun(rows, &rp.Decision, &rp.Reason)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		rp.RunRecord = rec
		out = append(out, rp)
	}
	return out, rows.Err()
}

// ListAttempts returns the most recent provenance rows, failed attempts included.
func (s *Store) ListAttempts(limit int) ([]Attempt, error) {
	rows, err := s.db.Query(
		`SELECT id, run_id, COALESCE(model_name, ''), COALESCE(target_variable, ''),
		        COALESCE(request_json, ''), decision, COALESCE(reason, ''), created_at
		 FROM provenance_log ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()

	var out []Attempt
	for rows.Next() {
		var a Attempt
		var createdAt string
		if err := rows.Scan(&a.ID, &a.RunID, &a.ModelName, &a.TargetVariable,
			&a.RequestJSON, &a.Decision, &a.Reason, &createdAt); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		a.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// #endregion list

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func encodeVector(v []float64) []byte {
	buf := make([]byte, len(v)*8)
	for i, f := range v {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(f))
	}
	return buf
}

func decodeVector(b []byte) []float64 {
	v := make([]float64, len(b)/8)
	for i := range v {
		v[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[i*8:]))
	}
	return v
}

// #endregion helpers
