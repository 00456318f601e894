package usecase

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"warkop-survey/internal/domain/model"
	"warkop-survey/internal/domain/repository"
	"warkop-survey/internal/domain/service"
)

// SurveyUseCase runs the sampling pipeline and keeps runs available for
// the HTTP API.
type SurveyUseCase interface {
	// RunSurvey executes the full pipeline synchronously: sample, query,
	// deduplicate, estimate, export, persist. On cancellation the partial
	// run is still exported and returned.
	RunSurvey(ctx context.Context, params model.SurveyParams) (*model.SurveyRun, error)

	// StartSurvey launches RunSurvey in the background and returns the run
	// skeleton immediately.
	StartSurvey(params model.SurveyParams) *model.SurveyRun

	// GetSurvey returns a snapshot of a known run.
	GetSurvey(id string) (*model.SurveyRun, bool)
}

type surveyUseCaseImpl struct {
	region   *model.Region
	provider repository.PlacesProvider
	exporter repository.SurveyExporter          // optional
	store    repository.SurveyResultsRepository // optional

	mu   sync.RWMutex
	runs map[string]*model.SurveyRun
}

// NewSurveyUseCase creates the pipeline orchestrator. exporter and store
// may be nil; the run result is then only held in memory.
func NewSurveyUseCase(region *model.Region, provider repository.PlacesProvider, exporter repository.SurveyExporter, store repository.SurveyResultsRepository) SurveyUseCase {
	return &surveyUseCaseImpl{
		region:   region,
		provider: provider,
		exporter: exporter,
		store:    store,
		runs:     make(map[string]*model.SurveyRun),
	}
}

func (u *surveyUseCaseImpl) newRun(params model.SurveyParams) *model.SurveyRun {
	return &model.SurveyRun{
		ID:             uuid.NewString(),
		RegionName:     u.region.Name(),
		Keyword:        params.Keyword,
		GridCols:       params.GridCols,
		GridRows:       params.GridRows,
		SamplesPerCell: params.SamplesPerCell,
		RadiusMeters:   params.RadiusMeters,
		Seed:           params.Seed,
		AreaSqKm:       u.region.AreaSqKm(),
		Status:         model.SurveyStatusRunning,
		StartedAt:      time.Now(),
	}
}

// put stores a snapshot of the run, so readers never see a run that is
// still being mutated by the pipeline goroutine.
func (u *surveyUseCaseImpl) put(run *model.SurveyRun) {
	snapshot := *run
	u.mu.Lock()
	u.runs[run.ID] = &snapshot
	u.mu.Unlock()
}

func (u *surveyUseCaseImpl) GetSurvey(id string) (*model.SurveyRun, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	run, ok := u.runs[id]
	if !ok {
		return nil, false
	}
	snapshot := *run
	return &snapshot, true
}

func (u *surveyUseCaseImpl) RunSurvey(ctx context.Context, params model.SurveyParams) (*model.SurveyRun, error) {
	run := u.newRun(params)
	u.put(run)
	return u.execute(ctx, run, params)
}

func (u *surveyUseCaseImpl) StartSurvey(params model.SurveyParams) *model.SurveyRun {
	run := u.newRun(params)
	u.put(run)
	snapshot := *run

	go func() {
		if _, err := u.execute(context.Background(), run, params); err != nil {
			log.Printf("⚠️  Survey %s finished with error: %v", run.ID, err)
		}
	}()
	return &snapshot
}

func (u *surveyUseCaseImpl) execute(ctx context.Context, run *model.SurveyRun, params model.SurveyParams) (*model.SurveyRun, error) {
	log.Printf("🚀 Survey %s: %s, %dx%d grid, %d samples/cell, radius %dm, keyword %q",
		run.ID, run.RegionName, params.GridCols, params.GridRows,
		params.SamplesPerCell, params.RadiusMeters, params.Keyword)
	log.Printf("🗺  Region area: %.2f km² (source CRS: %s)", u.region.AreaSqKm(), u.region.SourceCRS())

	// Step 1: stratified sampling over the bounding box grid
	sampler := service.NewGridSampler(params.GridCols, params.GridRows, params.SamplesPerCell, params.Seed)
	samples, stats := sampler.Sample(u.region)
	if stats.EmptyCells > 0 {
		log.Printf("⚠️  %d grid cells yielded no accepted point", stats.EmptyCells)
	}
	log.Printf("📍 Accepted %d of %d draws (%d fell outside the region)", len(samples), stats.Attempted, stats.Rejected)

	// Step 2: query and deduplicate
	aggregator := service.NewWarkopAggregator(u.provider, params.RadiusMeters, params.Keyword)
	aggregator.OnProgress(logSampleProgress)

	var result *service.AggregateResult
	var runErr error
	if params.Parallel {
		result, runErr = aggregator.AggregateParallel(ctx, samples)
	} else {
		result, runErr = aggregator.Aggregate(ctx, samples)
	}

	run.SampleCount = result.SampleCount
	run.UniqueCount = result.UniqueWarkopCount()
	run.NoResultCount = result.NoResultCount
	run.EmptyCells = stats.EmptyCells
	run.Records = result.Records()
	run.Failures = result.Failures
	if len(result.Failures) > 0 {
		log.Printf("⚠️  %d sample points failed and were skipped", len(result.Failures))
	}

	// Step 3: density extrapolation
	estimate, estErr := service.EstimateDensity(run.UniqueCount, run.SampleCount, params.RadiusMeters, u.region.AreaSqKm())
	if estErr != nil {
		log.Printf("⚠️  Density estimation skipped: %v", estErr)
	} else {
		run.Estimate = estimate
		log.Printf("📊 Unique warkop found: %d over %d samples", estimate.UniqueCount, estimate.SampleCount)
		log.Printf("📊 Average per sample: %.3f, catchment area: %.5f km²", estimate.AvgPerSample, estimate.CatchmentAreaSqKm)
		log.Printf("📊 Density: %.2f /km² → estimated total in %s: %d", estimate.DensityPerSqKm, run.RegionName, estimate.EstimatedTotal)
	}

	// Step 4: export and persist whatever was collected, even on a
	// cancelled or estimate-less run
	if u.exporter != nil {
		if err := u.exporter.Export(run.Records); err != nil {
			log.Printf("⚠️  Export failed: %v", err)
		}
	}
	if u.store != nil {
		// The run's own context may already be cancelled; saving the
		// partial table must still go through.
		if err := u.store.SaveRun(context.Background(), run); err != nil {
			log.Printf("⚠️  Persisting survey %s failed: %v", run.ID, err)
		}
	}

	finished := time.Now()
	run.FinishedAt = &finished

	switch {
	case runErr != nil:
		run.Status = model.SurveyStatusFailed
		run.Error = runErr.Error()
	case estErr != nil:
		run.Status = model.SurveyStatusFailed
		run.Error = estErr.Error()
		runErr = estErr
	default:
		run.Status = model.SurveyStatusFinished
		log.Printf("🎉 Survey %s complete", run.ID)
	}
	u.put(run)
	return run, runErr
}

func logSampleProgress(ev service.ProgressEvent) {
	if ev.Err != nil {
		log.Printf("⚠️  Sample %d/%d (%.5f, %.5f): query failed: %v",
			ev.SampleIndex+1, ev.SampleCount, ev.Point.Latitude, ev.Point.Longitude, ev.Err)
		return
	}
	log.Printf("🔍 Sample %d/%d (%.5f, %.5f): %d results, %d new",
		ev.SampleIndex+1, ev.SampleCount, ev.Point.Latitude, ev.Point.Longitude, ev.Found, ev.NewRecords)
}
