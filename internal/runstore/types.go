package runstore

import "time"

// #region run-record
// RunRecord is one solved forward-guidance path.
type RunRecord struct {
	RunID          string
	ParentID       string // run this one re-solved, if any
	ModelName      string
	ModelPath      string
	TargetVariable string
	ShockPrefix    string
	IRFPeriods     int
	TargetPath     []float64
	Shocks         []float64
	MaxResidual    float64
	Passed         bool
	ChartPath      string
	CreatedAt      time.Time
}

// Horizon is the number of fitted periods.
func (r RunRecord) Horizon() int {
	return len(r.TargetPath)
}

// #endregion run-record

// #region run-with-provenance
// RunWithProvenance pairs a run with its latest provenance row.
type RunWithProvenance struct {
	RunRecord
	Decision string
	Reason   string
}

// #endregion run-with-provenance

// #region attempt
// Attempt is one provenance_log row. RunID only resolves in runs when
// Decision is solved or rejected.
type Attempt struct {
	ID             int64
	RunID          string
	ModelName      string
	TargetVariable string
	RequestJSON    string
	Decision       string
	Reason         string
	CreatedAt      time.Time
}

// #endregion attempt
