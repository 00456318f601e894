package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// WGS84 ellipsoid and UTM constants.
const (
	wgs84SemiMajor  = 6378137.0
	wgs84Flattening = 1 / 298.257223563

	utmScaleFactor   = 0.9996
	utmFalseEasting  = 500000.0
	utmFalseNorthing = 10000000.0 // southern hemisphere only
)

// UTMZone returns the UTM longitude zone (1..60) containing lng.
func UTMZone(lng float64) int {
	zone := int(math.Floor((lng+180)/6)) + 1
	if zone < 1 {
		zone = 1
	}
	if zone > 60 {
		zone = 60
	}
	return zone
}

// UTMProjection returns the forward WGS84→UTM transform for the given zone
// as an orb.Projection, so it can be applied through orb/project. Output
// coordinates are meters (easting, northing). The series expansion is the
// standard USGS transverse Mercator formulation, accurate to well under a
// meter inside the zone.
func UTMProjection(zone int, southern bool) orb.Projection {
	centralMeridian := float64((zone-1)*6-180+3) * math.Pi / 180
	e2 := wgs84Flattening * (2 - wgs84Flattening)
	ep2 := e2 / (1 - e2)

	return func(p orb.Point) orb.Point {
		phi := p.Lat() * math.Pi / 180
		lambda := p.Lon() * math.Pi / 180

		sinPhi := math.Sin(phi)
		cosPhi := math.Cos(phi)
		tanPhi := math.Tan(phi)

		n := wgs84SemiMajor / math.Sqrt(1-e2*sinPhi*sinPhi)
		t := tanPhi * tanPhi
		c := ep2 * cosPhi * cosPhi
		a := (lambda - centralMeridian) * cosPhi

		// Meridional arc length from the equator.
		m := wgs84SemiMajor * ((1-e2/4-3*e2*e2/64-5*e2*e2*e2/256)*phi -
			(3*e2/8+3*e2*e2/32+45*e2*e2*e2/1024)*math.Sin(2*phi) +
			(15*e2*e2/256+45*e2*e2*e2/1024)*math.Sin(4*phi) -
			(35*e2*e2*e2/3072)*math.Sin(6*phi))

		easting := utmScaleFactor*n*(a+
			(1-t+c)*a*a*a/6+
			(5-18*t+t*t+72*c-58*ep2)*math.Pow(a, 5)/120) + utmFalseEasting

		northing := utmScaleFactor * (m + n*tanPhi*(a*a/2+
			(5-t+9*c+4*c*c)*math.Pow(a, 4)/24+
			(61-58*t+t*t+600*c-330*ep2)*math.Pow(a, 6)/720))
		if southern {
			northing += utmFalseNorthing
		}

		return orb.Point{easting, northing}
	}
}
