package service

import (
	"testing"

	"github.com/paulmach/orb"

	"warkop-survey/internal/domain/model"
)

// rectRegion builds a rectangular test region equal to its own bounding box.
func rectRegion(minLng, minLat, maxLng, maxLat float64) *model.Region {
	ring := orb.Ring{
		{minLng, minLat}, {maxLng, minLat}, {maxLng, maxLat}, {minLng, maxLat}, {minLng, minLat},
	}
	return model.NewRegion("test", orb.MultiPolygon{orb.Polygon{ring}}, 100.0, "EPSG:4326 (WGS84)")
}

// triangleRegion covers the lower-left half of the unit square, so roughly
// half of all bounding-box draws fall outside it.
func triangleRegion() *model.Region {
	ring := orb.Ring{{0, 0}, {1, 0}, {0, 1}, {0, 0}}
	return model.NewRegion("triangle", orb.MultiPolygon{orb.Polygon{ring}}, 50.0, "EPSG:4326 (WGS84)")
}

func TestGridSampler_FullBoundingBoxAcceptsEveryDraw(t *testing.T) {
	region := rectRegion(112.6, -7.4, 112.8, -7.2)

	for _, seed := range []int64{1, 7, 42, 1234} {
		sampler := NewGridSampler(10, 10, 5, seed)
		points, stats := sampler.Sample(region)

		if len(points) != 10*10*5 {
			t.Fatalf("seed %d: expected %d accepted points, got %d", seed, 500, len(points))
		}
		if stats.Rejected != 0 {
			t.Fatalf("seed %d: expected no rejected draws, got %d", seed, stats.Rejected)
		}
		if stats.EmptyCells != 0 {
			t.Fatalf("seed %d: expected no empty cells, got %d", seed, stats.EmptyCells)
		}
	}
}

func TestGridSampler_AcceptedPointsAreInsideRegion(t *testing.T) {
	region := triangleRegion()
	sampler := NewGridSampler(4, 4, 10, 99)

	points, stats := sampler.Sample(region)
	if len(points) == 0 {
		t.Fatal("expected at least some accepted points in the triangle")
	}
	for i, p := range points {
		if !region.Contains(p.Latitude, p.Longitude) {
			t.Fatalf("point %d (%f, %f) is outside the region", i, p.Latitude, p.Longitude)
		}
	}
	if stats.Rejected == 0 {
		t.Fatal("expected some draws to be rejected outside the triangle")
	}
	if stats.Attempted != len(points)+stats.Rejected {
		t.Fatalf("accounting mismatch: attempted %d != accepted %d + rejected %d",
			stats.Attempted, len(points), stats.Rejected)
	}
}

func TestGridSampler_ZeroSamplesPerCell(t *testing.T) {
	region := rectRegion(0, 0, 1, 1)
	sampler := NewGridSampler(10, 10, 0, 1)

	points, stats := sampler.Sample(region)
	if len(points) != 0 {
		t.Fatalf("expected empty sample set, got %d points", len(points))
	}
	if stats.Attempted != 0 || stats.EmptyCells != 0 {
		t.Fatalf("expected no draws and no empty-cell warnings, got %+v", stats)
	}
}

func TestGridSampler_SameSeedSameSequence(t *testing.T) {
	region := triangleRegion()

	first, _ := NewGridSampler(5, 5, 3, 2024).Sample(region)
	second, _ := NewGridSampler(5, 5, 3, 2024).Sample(region)

	if len(first) != len(second) {
		t.Fatalf("runs differ in length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("point %d differs between seeded runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestGridSampler_CellsAreDeterministicAndCoverTheBox(t *testing.T) {
	region := rectRegion(100, -8, 102, -6)
	sampler := NewGridSampler(4, 2, 1, 1)

	cells := sampler.Cells(region)
	if len(cells) != 8 {
		t.Fatalf("expected 8 cells, got %d", len(cells))
	}

	// Column-outer, row-inner order.
	if cells[0].Col != 0 || cells[0].Row != 0 {
		t.Fatalf("unexpected first cell: %+v", cells[0])
	}
	if cells[1].Col != 0 || cells[1].Row != 1 {
		t.Fatalf("unexpected second cell: %+v", cells[1])
	}
	if cells[2].Col != 1 || cells[2].Row != 0 {
		t.Fatalf("unexpected third cell: %+v", cells[2])
	}

	first := cells[0]
	if first.MinLng != 100 || first.MinLat != -8 || first.MaxLng != 100.5 || first.MaxLat != -7 {
		t.Fatalf("unexpected first cell bounds: %+v", first)
	}
	last := cells[len(cells)-1]
	if last.MaxLng != 102 || last.MaxLat != -6 {
		t.Fatalf("grid does not reach the bounding box max corner: %+v", last)
	}
}

func TestGridSampler_EmptyCellsAreCounted(t *testing.T) {
	// The region's polygons cover the first grid column completely and a
	// tiny patch at the far right that stretches the bounding box, so the
	// middle cells cannot accept a single draw.
	wide := model.NewRegion("wide", orb.MultiPolygon{
		orb.Polygon{orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}},
		orb.Polygon{orb.Ring{{9.99, 0.499}, {10, 0.499}, {10, 0.501}, {9.99, 0.501}, {9.99, 0.499}}},
	}, 1.0, "EPSG:4326 (WGS84)")

	sampler := NewGridSampler(10, 1, 3, 5)
	points, stats := sampler.Sample(wide)

	if stats.EmptyCells == 0 {
		t.Fatal("expected empty-cell warnings for cells outside the sliver")
	}
	if stats.EmptyCells >= 10 {
		t.Fatalf("expected at least one productive cell, got %d empty of 10", stats.EmptyCells)
	}
	for _, p := range points {
		if !wide.Contains(p.Latitude, p.Longitude) {
			t.Fatalf("accepted point (%f, %f) outside region", p.Latitude, p.Longitude)
		}
	}
}
