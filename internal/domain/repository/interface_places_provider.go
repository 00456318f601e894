package repository

import (
	"context"

	"warkop-survey/internal/domain/model"
)

// PlacesProvider is the external places-search collaborator. NearbySearch
// returns every place matching the keyword around the coordinate within
// radiusMeters, paging internally (with the provider-mandated delay
// between pages) until no continuation token remains. An empty slice is a
// valid answer and not an error.
type PlacesProvider interface {
	NearbySearch(ctx context.Context, lat, lng float64, radiusMeters int, keyword string) ([]model.Place, error)
}
