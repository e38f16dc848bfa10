// Package ecef converts between WGS84 geodetic coordinates and
// Earth-Centered-Earth-Fixed cartesian coordinates.
//
// All functions are pure and safe for concurrent use.
package ecef

import (
	"math"

	"github.com/kass/go-geo-ecef/pkg/models"
)

const (
	deg2rad = math.Pi / 180
	rad2deg = 180 / math.Pi

	maxIterations = 5
	convergence   = 1e-6 // meters
)

// Ellipsoid holds the parameters of a reference ellipsoid
type Ellipsoid struct {
	a  float64 // semi-major axis, meters
	f  float64 // flattening
	e2 float64 // eccentricity squared
}

// WGS84 is the only ellipsoid this package supports.
var WGS84 = newEllipsoid(6378137.0, 1/298.257223563)

func newEllipsoid(a, f float64) Ellipsoid {
	return Ellipsoid{a: a, f: f, e2: 2*f - f*f}
}

// SemiMajorAxis returns the equatorial radius in meters
func (e Ellipsoid) SemiMajorAxis() float64 { return e.a }

// Flattening returns the ellipsoid flattening
func (e Ellipsoid) Flattening() float64 { return e.f }

// EccentricitySquared returns the first eccentricity squared
func (e Ellipsoid) EccentricitySquared() float64 { return e.e2 }

// SemiMinorAxis returns the polar radius in meters
func (e Ellipsoid) SemiMinorAxis() float64 { return e.a * (1 - e.f) }

// primeVertical returns the prime-vertical radius of curvature for sin(lat)
func (e Ellipsoid) primeVertical(sinLat float64) float64 {
	return e.a / math.Sqrt(1-e.e2*sinLat*sinLat)
}

// ToECEF converts a geodetic position to ECEF
func (e Ellipsoid) ToECEF(g models.Geodetic) models.ECEF {
	lat := g.Lat * deg2rad
	lon := g.Lon * deg2rad

	sinLat, cosLat := math.Sin(lat), math.Cos(lat)
	sinLon, cosLon := math.Sin(lon), math.Cos(lon)
	n := e.primeVertical(sinLat)

	return models.ECEF{
		X: (n + g.Alt) * cosLat * cosLon,
		Y: (n + g.Alt) * cosLat * sinLon,
		Z: (n*(1-e.e2) + g.Alt) * sinLat,
	}
}

// ToGeodetic converts an ECEF position to geodetic coordinates.
// Points on the polar axis resolve to a pole without iterating.
func (e Ellipsoid) ToGeodetic(c models.ECEF) models.Geodetic {
	g, _ := e.toGeodetic(c, maxIterations)
	return g
}

// toGeodetic runs at most limit refinement rounds and reports how many ran.
func (e Ellipsoid) toGeodetic(c models.ECEF, limit int) (models.Geodetic, int) {
	lon := math.Atan2(c.Y, c.X)
	p := math.Sqrt(c.X*c.X + c.Y*c.Y)

	if p == 0 {
		lat := -90.0
		if c.Z > 0 {
			lat = 90
		}
		return models.Geodetic{
			Lat: lat,
			Lon: lon * rad2deg,
			Alt: math.Abs(c.Z) - e.SemiMinorAxis(),
		}, 0
	}

	// seed assumes zero altitude
	lat := math.Atan2(c.Z, p*(1-e.e2))

	var alt, prevAlt float64
	rounds := 0
	for rounds < limit {
		rounds++
		n := e.primeVertical(math.Sin(lat))
		alt = p/math.Cos(lat) - n
		lat = math.Atan2(c.Z, p*(1-e.e2*n/(n+alt)))

		if math.Abs(alt-prevAlt) < convergence {
			break
		}
		prevAlt = alt
	}

	return models.Geodetic{
		Lat: lat * rad2deg,
		Lon: lon * rad2deg,
		Alt: alt,
	}, rounds
}

// GeodeticToECEF converts WGS84 latitude/longitude in degrees and altitude
// in meters to ECEF meters.
func GeodeticToECEF(latDeg, lonDeg, altM float64) (x, y, z float64) {
	c := WGS84.ToECEF(models.Geodetic{Lat: latDeg, Lon: lonDeg, Alt: altM})
	return c.X, c.Y, c.Z
}

// ECEFToGeodetic converts ECEF meters to WGS84 latitude/longitude in degrees
// and altitude in meters.
func ECEFToGeodetic(x, y, z float64) (latDeg, lonDeg, altM float64) {
	g := WGS84.ToGeodetic(models.ECEF{X: x, Y: y, Z: z})
	return g.Lat, g.Lon, g.Alt
}
