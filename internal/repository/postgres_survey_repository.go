package repository

import (
	"context"
	"fmt"

	"warkop-survey/internal/domain/model"
	"warkop-survey/internal/domain/repository"
	"warkop-survey/internal/infrastructure/database"
)

type PostgresSurveyRepository struct {
	client *database.PostgreSQLClient
}

func NewPostgresSurveyRepository(client *database.PostgreSQLClient) *PostgresSurveyRepository {
	return &PostgresSurveyRepository{
		client: client,
	}
}

var _ repository.SurveyResultsRepository = (*PostgresSurveyRepository)(nil)

// EnsureSchema creates the survey tables when they do not exist yet.
func (r *PostgresSurveyRepository) EnsureSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS survey_runs (
			id                   TEXT PRIMARY KEY,
			region_name          TEXT NOT NULL,
			keyword              TEXT NOT NULL,
			grid_cols            INTEGER NOT NULL,
			grid_rows            INTEGER NOT NULL,
			samples_per_cell     INTEGER NOT NULL,
			radius_meters        INTEGER NOT NULL,
			seed                 BIGINT NOT NULL,
			area_sq_km           DOUBLE PRECISION NOT NULL,
			sample_count         INTEGER NOT NULL,
			unique_count         INTEGER NOT NULL,
			no_result_count      INTEGER NOT NULL,
			failure_count        INTEGER NOT NULL,
			empty_cells          INTEGER NOT NULL,
			avg_per_sample       DOUBLE PRECISION,
			catchment_area_sq_km DOUBLE PRECISION,
			density_per_sq_km    DOUBLE PRECISION,
			estimated_total      INTEGER,
			status               TEXT NOT NULL,
			started_at           TIMESTAMPTZ NOT NULL,
			finished_at          TIMESTAMPTZ
		);
		CREATE TABLE IF NOT EXISTS warkop_records (
			run_id           TEXT NOT NULL REFERENCES survey_runs(id),
			key              TEXT NOT NULL,
			sample_latitude  DOUBLE PRECISION NOT NULL,
			sample_longitude DOUBLE PRECISION NOT NULL,
			business_name    TEXT NOT NULL,
			place_id         TEXT NOT NULL,
			latitude         DOUBLE PRECISION NOT NULL,
			longitude        DOUBLE PRECISION NOT NULL,
			google_maps_url  TEXT NOT NULL,
			no_result        BOOLEAN NOT NULL,
			PRIMARY KEY (run_id, key)
		);`

	if _, err := r.client.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create survey schema: %w", err)
	}
	return nil
}

// SaveRun stores the run summary and its record table in one transaction.
func (r *PostgresSurveyRepository) SaveRun(ctx context.Context, run *model.SurveyRun) error {
	tx, err := r.client.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var avgPerSample, catchmentArea, density, estimatedTotal interface{}
	if run.Estimate != nil {
		avgPerSample = run.Estimate.AvgPerSample
		catchmentArea = run.Estimate.CatchmentAreaSqKm
		density = run.Estimate.DensityPerSqKm
		estimatedTotal = run.Estimate.EstimatedTotal
	}

	runQuery := `INSERT INTO survey_runs (
			id, region_name, keyword, grid_cols, grid_rows, samples_per_cell,
			radius_meters, seed, area_sq_km, sample_count, unique_count,
			no_result_count, failure_count, empty_cells, avg_per_sample,
			catchment_area_sq_km, density_per_sq_km, estimated_total, status,
			started_at, finished_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)`

	_, err = tx.ExecContext(ctx, runQuery,
		run.ID, run.RegionName, run.Keyword, run.GridCols, run.GridRows,
		run.SamplesPerCell, run.RadiusMeters, run.Seed, run.AreaSqKm,
		run.SampleCount, run.UniqueCount, run.NoResultCount, len(run.Failures),
		run.EmptyCells, avgPerSample, catchmentArea, density, estimatedTotal,
		run.Status, run.StartedAt, run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert survey run %s: %w", run.ID, err)
	}

	recordQuery := `INSERT INTO warkop_records (
			run_id, key, sample_latitude, sample_longitude, business_name,
			place_id, latitude, longitude, google_maps_url, no_result
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`

	for _, rec := range run.Records {
		_, err = tx.ExecContext(ctx, recordQuery,
			run.ID, rec.Key, rec.SampleLatitude, rec.SampleLongitude,
			rec.BusinessName, rec.PlaceID, rec.Latitude, rec.Longitude,
			rec.GoogleMapsURL, rec.NoResult,
		)
		if err != nil {
			return fmt.Errorf("failed to insert record %s: %w", rec.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit survey run %s: %w", run.ID, err)
	}
	return nil
}
