package geo

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/project"

	"warkop-survey/internal/domain/model"
)

// ErrGeometryLoad marks fatal region-loading failures: unreadable file,
// unparseable geometry, no polygon parts, or a coordinate system this
// loader cannot handle. These abort the run before sampling starts.
var ErrGeometryLoad = errors.New("geometry load failed")

// defaultCRS is what RFC 7946 mandates for GeoJSON without a crs member.
const defaultCRS = "EPSG:4326 (WGS84)"

// LoadRegionFile reads a GeoJSON boundary file and builds the Region with
// its projected area precomputed.
func LoadRegionFile(path, name string) (*model.Region, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrGeometryLoad, path, err)
	}
	return LoadRegion(data, name)
}

// LoadRegion parses GeoJSON polygon geometry into a Region. All polygonal
// parts of the input (across features, Polygon or MultiPolygon alike) are
// collected into one multipolygon; the containment test later answers true
// for a point inside any one part.
//
// The file's coordinates stay geographic for sampling and containment, and
// the area is computed separately in a UTM zone derived from the region's
// own center, because degree-based area is not physically meaningful.
func LoadRegion(data []byte, name string) (*model.Region, error) {
	crs, err := sourceCRS(data)
	if err != nil {
		return nil, err
	}

	geometry, err := collectPolygons(data)
	if err != nil {
		return nil, err
	}
	if len(geometry) == 0 {
		return nil, fmt.Errorf("%w: no polygon geometry in input", ErrGeometryLoad)
	}

	return model.NewRegion(name, geometry, AreaSqKm(geometry), crs), nil
}

// sourceCRS inspects the legacy GeoJSON "crs" member. A missing member
// means WGS84 by definition; a named geographic CRS is accepted as-is;
// anything else (a projected system) is rejected because sampling assumes
// geographic coordinates.
func sourceCRS(data []byte) (string, error) {
	var header struct {
		CRS *struct {
			Properties struct {
				Name string `json:"name"`
			} `json:"properties"`
		} `json:"crs"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeometryLoad, err)
	}
	if header.CRS == nil {
		return defaultCRS, nil
	}

	crsName := header.CRS.Properties.Name
	upper := strings.ToUpper(crsName)
	if strings.Contains(upper, "CRS84") || strings.Contains(upper, "4326") {
		return crsName, nil
	}
	return "", fmt.Errorf("%w: unsupported coordinate system %q (expected geographic WGS84)", ErrGeometryLoad, crsName)
}

// collectPolygons gathers every polygonal part of the input, whether the
// document is a FeatureCollection, a single Feature or a bare geometry.
func collectPolygons(data []byte) (orb.MultiPolygon, error) {
	var geometry orb.MultiPolygon

	appendGeometry := func(g orb.Geometry) {
		switch geom := g.(type) {
		case orb.Polygon:
			geometry = append(geometry, geom)
		case orb.MultiPolygon:
			geometry = append(geometry, geom...)
		}
	}

	if fc, err := geojson.UnmarshalFeatureCollection(data); err == nil {
		for _, feature := range fc.Features {
			appendGeometry(feature.Geometry)
		}
		return geometry, nil
	}
	if feature, err := geojson.UnmarshalFeature(data); err == nil {
		appendGeometry(feature.Geometry)
		return geometry, nil
	}
	if g, err := geojson.UnmarshalGeometry(data); err == nil {
		appendGeometry(g.Geometry())
		return geometry, nil
	}
	return nil, fmt.Errorf("%w: input is not valid GeoJSON", ErrGeometryLoad)
}

// AreaSqKm computes the multipolygon's area in km². The geometry is
// projected into the UTM zone of its bound center (southern false northing
// applied below the equator), the planar area is taken in m² and converted
// with the fixed 1e6 m²-per-km² factor.
func AreaSqKm(geometry orb.MultiPolygon) float64 {
	center := geometry.Bound().Center()
	projection := UTMProjection(UTMZone(center.Lon()), center.Lat() < 0)
	projected := project.MultiPolygon(geometry.Clone(), projection)
	return math.Abs(planar.Area(projected)) / 1e6
}
