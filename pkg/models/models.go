package models

// Geodetic is a position relative to the WGS84 ellipsoid.
// Lat and Lon are in degrees, Alt is meters above the ellipsoid.
type Geodetic struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
	Alt float64 `json:"alt"`
}

// ECEF is an Earth-Centered-Earth-Fixed position in meters
type ECEF struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}
