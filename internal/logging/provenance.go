package logging

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielpatrickdp/fgshocks/internal/statespace"
)

// #region log-outcome
// LogOutcome writes a provenance entry to the provenance_log table.
func LogOutcome(db *sql.DB, entry ProvenanceEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO provenance_log (run_id, model_name, target_variable, request_json, decision, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.RunID,
		nullIfEmpty(entry.ModelName),
		nullIfEmpty(entry.TargetVariable),
		nullIfEmpty(entry.RequestJSON),
		entry.Decision,
		nullIfEmpty(entry.Reason),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log outcome: %w", err)
	}
	return nil
}

// #endregion log-outcome

// #region classify
// DecisionFor maps a solve error onto a provenance decision.
func DecisionFor(err error) string {
	switch {
	case err == nil:
		return DecisionSolved
	case errors.Is(err, statespace.ErrSingularSystem):
		return DecisionSingular
	case errors.Is(err, statespace.ErrUnknownVariable):
		return DecisionUnknownVariable
	case errors.Is(err, statespace.ErrDimensionMismatch):
		return DecisionDimensionMismatch
	default:
		return DecisionError
	}
}

// #endregion classify

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
