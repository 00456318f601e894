package model

import "fmt"

// NoResultName is the business name recorded for a sample that found nothing.
const NoResultName = "No warkop"

// NotAvailable fills the ID and URL columns of no-result rows.
const NotAvailable = "N/A"

// Place is one POI returned by the places-search provider.
type Place struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Location Location `json:"location"`
}

// WarkopRecord is one row of the deduplicated survey table: either the
// first sighting of a distinct place ID, or a placeholder for a sample
// that returned no results. Records are created once and never mutated;
// rediscovering the same place from a later sample does not overwrite the
// originating sample coordinate.
type WarkopRecord struct {
	Key             string  `json:"key"`
	SampleLatitude  float64 `json:"sample_latitude"`
	SampleLongitude float64 `json:"sample_longitude"`
	BusinessName    string  `json:"business_name"`
	PlaceID         string  `json:"place_id"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	GoogleMapsURL   string  `json:"google_maps_url"`
	NoResult        bool    `json:"no_result"`
}

// NewWarkopRecord builds the row for the first sighting of a place from
// the given sample point.
func NewWarkopRecord(sample SamplePoint, place Place) WarkopRecord {
	return WarkopRecord{
		Key:             place.ID,
		SampleLatitude:  sample.Latitude,
		SampleLongitude: sample.Longitude,
		BusinessName:    place.Name,
		PlaceID:         place.ID,
		Latitude:        place.Location.Latitude,
		Longitude:       place.Location.Longitude,
		GoogleMapsURL:   PlaceURL(place.ID),
		NoResult:        false,
	}
}

// NewNoResultRecord builds the placeholder row for a sample that found
// nothing. The key embeds the sample's position in the run, so two
// numerically equal sample points still get distinct keys.
func NewNoResultRecord(sampleIndex int, sample SamplePoint) WarkopRecord {
	return WarkopRecord{
		Key:             fmt.Sprintf("%d_%f_%f_no_warkop", sampleIndex, sample.Latitude, sample.Longitude),
		SampleLatitude:  sample.Latitude,
		SampleLongitude: sample.Longitude,
		BusinessName:    NoResultName,
		PlaceID:         NotAvailable,
		Latitude:        sample.Latitude,
		Longitude:       sample.Longitude,
		GoogleMapsURL:   NotAvailable,
		NoResult:        true,
	}
}

// PlaceURL derives the Google Maps link for a place ID.
func PlaceURL(placeID string) string {
	return fmt.Sprintf("https://www.google.com/maps/place/?q=place_id:%s", placeID)
}

// DensityEstimate bundles the derived quantities of the extrapolation.
// It is recomputed from its inputs and never stored as mutable state; the
// intermediates are exposed individually because each one is useful for
// sensitivity checks on its own.
type DensityEstimate struct {
	UniqueCount       int     `json:"unique_count"`
	SampleCount       int     `json:"sample_count"`
	AvgPerSample      float64 `json:"avg_per_sample"`
	CatchmentAreaSqKm float64 `json:"catchment_area_sq_km"`
	DensityPerSqKm    float64 `json:"density_per_sq_km"`
	EstimatedTotal    int     `json:"estimated_total"`
}
