package model

import "time"

// Survey run status values used by the HTTP API.
const (
	SurveyStatusRunning  = "running"
	SurveyStatusFinished = "finished"
	SurveyStatusFailed   = "failed"
)

// SurveyParams are the recognized knobs of one survey run.
type SurveyParams struct {
	GridCols       int    `json:"grid_cols"`
	GridRows       int    `json:"grid_rows"`
	SamplesPerCell int    `json:"samples_per_cell"`
	RadiusMeters   int    `json:"radius_meters"`
	Keyword        string `json:"keyword"`
	Seed           int64  `json:"seed"`
	Parallel       bool   `json:"parallel"`
}

// SampleFailure records a sample point whose query could not be completed.
// Failed samples are distinct from legitimate "no result" samples and never
// abort the run.
type SampleFailure struct {
	SampleIndex int     `json:"sample_index"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Reason      string  `json:"reason"`
}

// SurveyRun is one complete execution of the survey pipeline: the
// parameters it ran with, the deduplicated record table, the failure
// accounting and the resulting density estimate.
type SurveyRun struct {
	ID             string           `json:"id"`
	RegionName     string           `json:"region_name"`
	Keyword        string           `json:"keyword"`
	GridCols       int              `json:"grid_cols"`
	GridRows       int              `json:"grid_rows"`
	SamplesPerCell int              `json:"samples_per_cell"`
	RadiusMeters   int              `json:"radius_meters"`
	Seed           int64            `json:"seed"`
	AreaSqKm       float64          `json:"area_sq_km"`
	SampleCount    int              `json:"sample_count"`
	UniqueCount    int              `json:"unique_count"`
	NoResultCount  int              `json:"no_result_count"`
	EmptyCells     int              `json:"empty_cells"`
	Records        []WarkopRecord   `json:"records,omitempty"`
	Failures       []SampleFailure  `json:"failures,omitempty"`
	Estimate       *DensityEstimate `json:"estimate,omitempty"`
	Status         string           `json:"status"`
	Error          string           `json:"error,omitempty"`
	StartedAt      time.Time        `json:"started_at"`
	FinishedAt     *time.Time       `json:"finished_at,omitempty"`
}
