package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warkop-survey/internal/domain/model"
	"warkop-survey/internal/domain/service"
	"warkop-survey/internal/infrastructure/geo"
	repoimpl "warkop-survey/internal/repository"
)

// unitSquareRegion is a region identical to its bounding box, so every
// sampler draw is accepted and the sample count is exact.
func unitSquareRegion() *model.Region {
	ring := orb.Ring{{112.6, -7.4}, {112.8, -7.4}, {112.8, -7.2}, {112.6, -7.2}, {112.6, -7.4}}
	mp := orb.MultiPolygon{orb.Polygon{ring}}
	return model.NewRegion("Surabaya box", mp, geo.AreaSqKm(mp), "EPSG:4326 (WGS84)")
}

// singlePlaceProvider answers every query with the same place.
type singlePlaceProvider struct{}

func (singlePlaceProvider) NearbySearch(ctx context.Context, lat, lng float64, radiusMeters int, keyword string) ([]model.Place, error) {
	return []model.Place{
		{ID: "warkop-1", Name: "Warkop Pak Adi", Location: model.Location{Latitude: lat, Longitude: lng}},
	}, nil
}

func defaultParams() model.SurveyParams {
	return model.SurveyParams{
		GridCols:       3,
		GridRows:       3,
		SamplesPerCell: 2,
		RadiusMeters:   350,
		Keyword:        "warkop",
		Seed:           42,
	}
}

func TestRunSurvey_EndToEnd(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "out.csv")
	u := NewSurveyUseCase(unitSquareRegion(), singlePlaceProvider{}, repoimpl.NewCSVExporter(csvPath), nil)

	run, err := u.RunSurvey(context.Background(), defaultParams())
	require.NoError(t, err)

	assert.Equal(t, model.SurveyStatusFinished, run.Status)
	assert.Equal(t, 18, run.SampleCount, "the full-box region accepts every draw")
	assert.Equal(t, 1, run.UniqueCount, "one distinct place across all samples")
	assert.Equal(t, 0, run.NoResultCount)
	assert.Empty(t, run.Failures)
	require.NotNil(t, run.FinishedAt)

	require.NotNil(t, run.Estimate)
	assert.InDelta(t, 1.0/18.0, run.Estimate.AvgPerSample, 1e-9)
	assert.Equal(t, run.Estimate.SampleCount, run.SampleCount)

	if _, err := os.Stat(csvPath); err != nil {
		t.Fatalf("CSV export missing: %v", err)
	}

	// The run must be retrievable afterwards.
	stored, ok := u.GetSurvey(run.ID)
	require.True(t, ok)
	assert.Equal(t, run.ID, stored.ID)
	assert.Equal(t, model.SurveyStatusFinished, stored.Status)
}

func TestRunSurvey_ZeroSamplesFailsEstimationOnly(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "out.csv")
	u := NewSurveyUseCase(unitSquareRegion(), singlePlaceProvider{}, repoimpl.NewCSVExporter(csvPath), nil)

	params := defaultParams()
	params.SamplesPerCell = 0

	run, err := u.RunSurvey(context.Background(), params)
	require.ErrorIs(t, err, service.ErrNoSamples)

	assert.Equal(t, model.SurveyStatusFailed, run.Status)
	assert.Nil(t, run.Estimate, "no numeric estimate may be fabricated for zero samples")
	assert.Equal(t, 0, run.SampleCount)

	// The (empty) table is still exported.
	if _, err := os.Stat(csvPath); err != nil {
		t.Fatalf("CSV export missing: %v", err)
	}
}

func TestRunSurvey_ParallelProducesSameTable(t *testing.T) {
	u := NewSurveyUseCase(unitSquareRegion(), singlePlaceProvider{}, nil, nil)

	sequentialParams := defaultParams()
	parallelParams := defaultParams()
	parallelParams.Parallel = true

	sequential, err := u.RunSurvey(context.Background(), sequentialParams)
	require.NoError(t, err)
	parallel, err := u.RunSurvey(context.Background(), parallelParams)
	require.NoError(t, err)

	assert.Equal(t, sequential.SampleCount, parallel.SampleCount)
	assert.Equal(t, sequential.UniqueCount, parallel.UniqueCount)
	assert.Equal(t, sequential.Estimate.EstimatedTotal, parallel.Estimate.EstimatedTotal)
}

// failingProvider always reports a transport error.
type failingProvider struct{}

func (failingProvider) NearbySearch(ctx context.Context, lat, lng float64, radiusMeters int, keyword string) ([]model.Place, error) {
	return nil, errors.New("connection refused")
}

func TestRunSurvey_AllQueriesFailingStillFinishes(t *testing.T) {
	u := NewSurveyUseCase(unitSquareRegion(), failingProvider{}, nil, nil)

	run, err := u.RunSurvey(context.Background(), defaultParams())
	require.NoError(t, err, "per-sample failures never abort the run")

	assert.Equal(t, model.SurveyStatusFinished, run.Status)
	assert.Equal(t, 18, run.SampleCount)
	assert.Len(t, run.Failures, 18)
	assert.Equal(t, 0, run.UniqueCount)
	require.NotNil(t, run.Estimate)
	assert.Equal(t, 0, run.Estimate.EstimatedTotal)
}

func TestStartSurvey_RunsInBackground(t *testing.T) {
	u := NewSurveyUseCase(unitSquareRegion(), singlePlaceProvider{}, nil, nil)

	run := u.StartSurvey(defaultParams())
	require.NotEmpty(t, run.ID)

	deadline := time.Now().Add(5 * time.Second)
	for {
		stored, ok := u.GetSurvey(run.ID)
		require.True(t, ok)
		if stored.Status == model.SurveyStatusFinished {
			assert.NotNil(t, stored.Estimate)
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("survey %s did not finish in time (status %s)", run.ID, stored.Status)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
