package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"warkop-survey/internal/domain/model"
	"warkop-survey/internal/domain/repository"
	"warkop-survey/internal/infrastructure/database"
)

// SupabaseSurveyRepository writes survey runs through PostgREST, for
// deployments without direct database access.
type SupabaseSurveyRepository struct {
	client *database.SupabaseClient
}

func NewSupabaseSurveyRepository(client *database.SupabaseClient) *SupabaseSurveyRepository {
	return &SupabaseSurveyRepository{
		client: client,
	}
}

var _ repository.SurveyResultsRepository = (*SupabaseSurveyRepository)(nil)

// surveyRunDB is the survey_runs row shape.
type surveyRunDB struct {
	ID                string   `json:"id"`
	RegionName        string   `json:"region_name"`
	Keyword           string   `json:"keyword"`
	GridCols          int      `json:"grid_cols"`
	GridRows          int      `json:"grid_rows"`
	SamplesPerCell    int      `json:"samples_per_cell"`
	RadiusMeters      int      `json:"radius_meters"`
	Seed              int64    `json:"seed"`
	AreaSqKm          float64  `json:"area_sq_km"`
	SampleCount       int      `json:"sample_count"`
	UniqueCount       int      `json:"unique_count"`
	NoResultCount     int      `json:"no_result_count"`
	FailureCount      int      `json:"failure_count"`
	EmptyCells        int      `json:"empty_cells"`
	AvgPerSample      *float64 `json:"avg_per_sample"`
	CatchmentAreaSqKm *float64 `json:"catchment_area_sq_km"`
	DensityPerSqKm    *float64 `json:"density_per_sq_km"`
	EstimatedTotal    *int     `json:"estimated_total"`
	Status            string   `json:"status"`
	StartedAt         string   `json:"started_at"`
	FinishedAt        *string  `json:"finished_at"`
}

// warkopRecordDB is the warkop_records row shape.
type warkopRecordDB struct {
	RunID string `json:"run_id"`
	model.WarkopRecord
}

// SaveRun stores the run summary and its records via the REST interface.
func (r *SupabaseSurveyRepository) SaveRun(ctx context.Context, run *model.SurveyRun) error {
	runDB := surveyRunDB{
		ID:             run.ID,
		RegionName:     run.RegionName,
		Keyword:        run.Keyword,
		GridCols:       run.GridCols,
		GridRows:       run.GridRows,
		SamplesPerCell: run.SamplesPerCell,
		RadiusMeters:   run.RadiusMeters,
		Seed:           run.Seed,
		AreaSqKm:       run.AreaSqKm,
		SampleCount:    run.SampleCount,
		UniqueCount:    run.UniqueCount,
		NoResultCount:  run.NoResultCount,
		FailureCount:   len(run.Failures),
		EmptyCells:     run.EmptyCells,
		Status:         run.Status,
		StartedAt:      run.StartedAt.Format(time.RFC3339),
	}
	if run.FinishedAt != nil {
		finished := run.FinishedAt.Format(time.RFC3339)
		runDB.FinishedAt = &finished
	}
	if run.Estimate != nil {
		runDB.AvgPerSample = &run.Estimate.AvgPerSample
		runDB.CatchmentAreaSqKm = &run.Estimate.CatchmentAreaSqKm
		runDB.DensityPerSqKm = &run.Estimate.DensityPerSqKm
		runDB.EstimatedTotal = &run.Estimate.EstimatedTotal
	}

	runData, err := json.Marshal(runDB)
	if err != nil {
		return fmt.Errorf("failed to marshal survey run: %w", err)
	}
	_, _, err = r.client.GetClient().From("survey_runs").Insert(string(runData), false, "", "", "").Execute()
	if err != nil {
		return fmt.Errorf("failed to insert survey run %s: %w", run.ID, err)
	}

	if len(run.Records) == 0 {
		return nil
	}

	rows := make([]warkopRecordDB, 0, len(run.Records))
	for _, rec := range run.Records {
		rows = append(rows, warkopRecordDB{RunID: run.ID, WarkopRecord: rec})
	}
	recordData, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal survey records: %w", err)
	}
	_, _, err = r.client.GetClient().From("warkop_records").Insert(string(recordData), false, "", "", "").Execute()
	if err != nil {
		return fmt.Errorf("failed to insert survey records for run %s: %w", run.ID, err)
	}

	return nil
}
