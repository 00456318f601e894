package service

import (
	"context"
	"errors"
	"sync"

	"warkop-survey/internal/domain/model"
	"warkop-survey/internal/domain/repository"
)

// ProgressEvent reports the outcome of one processed sample point.
type ProgressEvent struct {
	SampleIndex int
	SampleCount int
	Point       model.SamplePoint
	Found       int
	NewRecords  int
	Err         error
}

// ProgressFunc receives one event per processed sample point. Subscribing
// is optional; the aggregator itself never logs.
type ProgressFunc func(ProgressEvent)

// AggregateResult owns the deduplicated record table for the lifetime of a
// run. Insertion order is preserved so exports are deterministic.
type AggregateResult struct {
	records map[string]model.WarkopRecord
	order   []string

	SampleCount   int
	NoResultCount int
	Failures      []model.SampleFailure
}

func newAggregateResult(sampleCount int) *AggregateResult {
	return &AggregateResult{
		records:     make(map[string]model.WarkopRecord),
		SampleCount: sampleCount,
	}
}

// Records returns the table rows in insertion order, placeholder rows
// included.
func (r *AggregateResult) Records() []model.WarkopRecord {
	records := make([]model.WarkopRecord, 0, len(r.order))
	for _, key := range r.order {
		records = append(records, r.records[key])
	}
	return records
}

// Get returns the record stored under the given key.
func (r *AggregateResult) Get(key string) (model.WarkopRecord, bool) {
	rec, ok := r.records[key]
	return rec, ok
}

// Len returns the total number of table rows, placeholders included.
func (r *AggregateResult) Len() int {
	return len(r.order)
}

// UniqueWarkopCount returns the number of distinct places found, which
// excludes no-result placeholder rows. This is the numerator of the
// density estimate.
func (r *AggregateResult) UniqueWarkopCount() int {
	return len(r.order) - r.NoResultCount
}

// merge folds one sample's places into the table. The first sighting of a
// place ID wins; later sightings of the same ID are discarded without
// touching the stored row. Returns the number of rows added.
func (r *AggregateResult) merge(sampleIndex int, sample model.SamplePoint, places []model.Place) int {
	if len(places) == 0 {
		rec := model.NewNoResultRecord(sampleIndex, sample)
		r.records[rec.Key] = rec
		r.order = append(r.order, rec.Key)
		r.NoResultCount++
		return 1
	}

	added := 0
	for _, place := range places {
		if _, seen := r.records[place.ID]; seen {
			continue
		}
		rec := model.NewWarkopRecord(sample, place)
		r.records[rec.Key] = rec
		r.order = append(r.order, rec.Key)
		added++
	}
	return added
}

// WarkopAggregator queries the places provider around every sample point
// and merges the results into a first-sighting-wins table keyed by place
// ID. The table and configuration live on this struct; there is no
// package-level state.
type WarkopAggregator struct {
	provider      repository.PlacesProvider
	radiusMeters  int
	keyword       string
	maxGoroutines int
	progress      ProgressFunc
}

// NewWarkopAggregator creates an aggregator for the given provider, search
// radius and category keyword.
func NewWarkopAggregator(provider repository.PlacesProvider, radiusMeters int, keyword string) *WarkopAggregator {
	return &WarkopAggregator{
		provider:      provider,
		radiusMeters:  radiusMeters,
		keyword:       keyword,
		maxGoroutines: 5, // bounded to respect provider rate limits
	}
}

// OnProgress subscribes a progress callback. Pass nil to unsubscribe.
func (a *WarkopAggregator) OnProgress(fn ProgressFunc) {
	a.progress = fn
}

func (a *WarkopAggregator) emit(ev ProgressEvent) {
	if a.progress != nil {
		a.progress(ev)
	}
}

// Aggregate processes the sample points sequentially in input order. A
// provider failure for one point is recorded in the result's failure list
// and processing continues with the next point. On cancellation the table
// accumulated so far is returned together with the context error.
func (a *WarkopAggregator) Aggregate(ctx context.Context, samples []model.SamplePoint) (*AggregateResult, error) {
	result := newAggregateResult(len(samples))

	for idx, sample := range samples {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		places, err := a.provider.NearbySearch(ctx, sample.Latitude, sample.Longitude, a.radiusMeters, a.keyword)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return result, ctxErr
			}
			result.Failures = append(result.Failures, model.SampleFailure{
				SampleIndex: idx,
				Latitude:    sample.Latitude,
				Longitude:   sample.Longitude,
				Reason:      err.Error(),
			})
			a.emit(ProgressEvent{SampleIndex: idx, SampleCount: len(samples), Point: sample, Err: err})
			continue
		}

		added := result.merge(idx, sample, places)
		a.emit(ProgressEvent{
			SampleIndex: idx,
			SampleCount: len(samples),
			Point:       sample,
			Found:       len(places),
			NewRecords:  added,
		})
	}
	return result, nil
}

// sampleOutcome carries one sample's provider response out of its worker.
type sampleOutcome struct {
	places []model.Place
	err    error
}

// AggregateParallel queries the sample points concurrently with a bounded
// number of workers, then merges the per-point results in input order.
// Because the merge happens after collection, deduplication stays
// first-write-wins by sample order and needs no locking, and the table is
// identical to the sequential one for the same provider responses.
func (a *WarkopAggregator) AggregateParallel(ctx context.Context, samples []model.SamplePoint) (*AggregateResult, error) {
	result := newAggregateResult(len(samples))
	if len(samples) == 0 {
		return result, nil
	}

	semaphore := make(chan struct{}, a.maxGoroutines)
	outcomes := make([]sampleOutcome, len(samples))
	var wg sync.WaitGroup

	for i, sample := range samples {
		wg.Add(1)
		go func(idx int, pt model.SamplePoint) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if err := ctx.Err(); err != nil {
				outcomes[idx] = sampleOutcome{err: err}
				return
			}
			places, err := a.provider.NearbySearch(ctx, pt.Latitude, pt.Longitude, a.radiusMeters, a.keyword)
			outcomes[idx] = sampleOutcome{places: places, err: err}
		}(i, sample)
	}
	wg.Wait()

	for idx, outcome := range outcomes {
		sample := samples[idx]
		if outcome.err != nil {
			// Samples cut short by cancellation are not query failures.
			if errors.Is(outcome.err, context.Canceled) || errors.Is(outcome.err, context.DeadlineExceeded) {
				continue
			}
			result.Failures = append(result.Failures, model.SampleFailure{
				SampleIndex: idx,
				Latitude:    sample.Latitude,
				Longitude:   sample.Longitude,
				Reason:      outcome.err.Error(),
			})
			a.emit(ProgressEvent{SampleIndex: idx, SampleCount: len(samples), Point: sample, Err: outcome.err})
			continue
		}
		added := result.merge(idx, sample, outcome.places)
		a.emit(ProgressEvent{
			SampleIndex: idx,
			SampleCount: len(samples),
			Point:       sample,
			Found:       len(outcome.places),
			NewRecords:  added,
		})
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}
