package logging

import "time"

// #region decisions
// Decision values recorded for every solve attempt.
const (
	DecisionSolved            = "solved"
	DecisionRejected          = "rejected" // solved but the round trip missed the path
	DecisionSingular          = "singular"
	DecisionUnknownVariable   = "unknown_variable"
	DecisionDimensionMismatch = "dimension_mismatch"
	DecisionError             = "error"
)

// #endregion decisions

// #region provenance-entry
// ProvenanceEntry is a single row in the provenance_log table.
type ProvenanceEntry struct {
	RunID          string
	ModelName      string
	TargetVariable string
	RequestJSON    string
	Decision       string
	Reason         string
	CreatedAt      time.Time
}

// #endregion provenance-entry

// #region request-record
// RequestRecord captures the inputs of an attempt.
// Serialized as JSON into provenance_log.request_json so failed attempts can be replayed.
type RequestRecord struct {
	ModelPath      string    `json:"model_path,omitempty"`
	TargetVariable string    `json:"target_variable"`
	ShockPrefix    string    `json:"shock_prefix"`
	TargetPath     []float64 `json:"target_path"`
	IRFPeriods     int       `json:"irf_periods"`
	Scenario       string    `json:"scenario,omitempty"`
}

// #endregion request-record
