package model

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Region wraps the survey area's polygon set together with its derived
// scalar area and geographic bounding box. The geometry is fixed at
// construction time; the area is computed once by the loader in a projected
// coordinate system (raw degree² is not a physical area) and carried here
// in km².
type Region struct {
	name      string
	geometry  orb.MultiPolygon
	bound     orb.Bound
	areaSqKm  float64
	sourceCRS string
}

// NewRegion builds a Region from its constituent polygons. areaSqKm must
// already be computed in a projected system by the caller.
func NewRegion(name string, geometry orb.MultiPolygon, areaSqKm float64, sourceCRS string) *Region {
	return &Region{
		name:      name,
		geometry:  geometry,
		bound:     geometry.Bound(),
		areaSqKm:  areaSqKm,
		sourceCRS: sourceCRS,
	}
}

// Name returns the region's display name.
func (r *Region) Name() string { return r.name }

// SourceCRS returns the coordinate system identifier of the input file.
func (r *Region) SourceCRS() string { return r.sourceCRS }

// AreaSqKm returns the region area in square kilometers.
func (r *Region) AreaSqKm() float64 { return r.areaSqKm }

// Geometry returns a copy of the region's polygon set.
func (r *Region) Geometry() orb.MultiPolygon {
	return r.geometry.Clone()
}

// Contains reports whether the coordinate lies inside any constituent
// polygon. Sampling happens in geographic coordinates, so the test runs
// directly on the WGS84 geometry.
func (r *Region) Contains(lat, lng float64) bool {
	return planar.MultiPolygonContains(r.geometry, orb.Point{lng, lat})
}

// Bound returns the axis-aligned bounding box over all polygons.
func (r *Region) Bound() orb.Bound {
	return r.bound
}

// Bounds returns the bounding box as (minLng, minLat, maxLng, maxLat),
// the order the sampler consumes.
func (r *Region) Bounds() (minLng, minLat, maxLng, maxLat float64) {
	return r.bound.Min.Lon(), r.bound.Min.Lat(), r.bound.Max.Lon(), r.bound.Max.Lat()
}

// GridCell is one rectangle of the N×M partition of a region's bounding
// box. Cells are derived on demand from the overall bounds and the grid
// dimensions; they carry no state of their own.
type GridCell struct {
	Col    int     `json:"col"`
	Row    int     `json:"row"`
	MinLng float64 `json:"min_lng"`
	MinLat float64 `json:"min_lat"`
	MaxLng float64 `json:"max_lng"`
	MaxLat float64 `json:"max_lat"`
}

// Bound returns the cell's sub-bounds as an orb.Bound.
func (c GridCell) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{c.MinLng, c.MinLat},
		Max: orb.Point{c.MaxLng, c.MaxLat},
	}
}
