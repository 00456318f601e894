package model

// LatLng is the basic latitude/longitude pair used across the pipeline.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Location is a validated geographic coordinate.
type Location struct {
	Latitude  float64 `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"required,min=-180,max=180"`
}

// ToLatLng converts a Location to the plain LatLng pair.
func (l Location) ToLatLng() LatLng {
	return LatLng{Lat: l.Latitude, Lng: l.Longitude}
}

// SamplePoint is one accepted random draw inside the survey region.
// A point only becomes a SamplePoint after the containment check passed,
// so every SamplePoint lies inside the region by construction.
type SamplePoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
