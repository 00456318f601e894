package service

import (
	"errors"
	"math"

	"warkop-survey/internal/domain/model"
)

// ErrNoSamples is returned when estimation is attempted over an empty
// sample set. The caller may still export the raw record table.
var ErrNoSamples = errors.New("density estimation requires at least one sample point")

// EstimateDensity extrapolates a region-wide total from the unique place
// count, the sample count, the per-query search radius and the region
// area. Each sample is modeled as a non-overlapping disc of the query
// radius; overlap between nearby samples is not corrected for, which is a
// known bias of the design.
//
// The function is pure: identical inputs always produce identical output.
func EstimateDensity(uniqueCount, sampleCount, radiusMeters int, areaSqKm float64) (*model.DensityEstimate, error) {
	if sampleCount == 0 {
		return nil, ErrNoSamples
	}

	radiusKm := float64(radiusMeters) / 1000.0
	avgPerSample := float64(uniqueCount) / float64(sampleCount)
	catchmentAreaSqKm := math.Pi * radiusKm * radiusKm
	densityPerSqKm := avgPerSample / catchmentAreaSqKm

	return &model.DensityEstimate{
		UniqueCount:       uniqueCount,
		SampleCount:       sampleCount,
		AvgPerSample:      avgPerSample,
		CatchmentAreaSqKm: catchmentAreaSqKm,
		DensityPerSqKm:    densityPerSqKm,
		EstimatedTotal:    int(math.Round(densityPerSqKm * areaSqKm)),
	}, nil
}
