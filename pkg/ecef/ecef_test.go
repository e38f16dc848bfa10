package ecef

import (
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/kass/go-geo-ecef/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	degTolerance = 1e-5
	altTolerance = 1e-3
)

func TestWGS84Constants(t *testing.T) {
	assert.Equal(t, 6378137.0, WGS84.SemiMajorAxis())
	assert.Equal(t, 1/298.257223563, WGS84.Flattening())

	f := WGS84.Flattening()
	assert.InDelta(t, 2*f-f*f, WGS84.EccentricitySquared(), 1e-18)
	assert.InDelta(t, 6356752.314245, WGS84.SemiMinorAxis(), 1e-6)
}

func TestGeodeticToECEFOrigin(t *testing.T) {
	x, y, z := GeodeticToECEF(0, 0, 0)
	assert.InDelta(t, 6378137.0, x, altTolerance)
	assert.InDelta(t, 0, y, altTolerance)
	assert.InDelta(t, 0, z, altTolerance)
}

func TestGeodeticToECEFKnownPoints(t *testing.T) {
	tests := []struct {
		name     string
		geodetic models.Geodetic
		want     models.ECEF
	}{
		{"Pacific Northwest", models.Geodetic{Lat: 45, Lon: -120, Alt: 1000}, models.ECEF{X: -2259148.9928, Y: -3912960.8374, Z: 4488055.5156}},
		{"Greenwich", models.Geodetic{Lat: 51.4778, Lon: -0.0014, Alt: 45}, models.ECEF{X: 3980609.2373, Y: -97.2646, Z: 4966859.7285}},
		{"Sydney", models.Geodetic{Lat: -33.8688, Lon: 151.2093, Alt: 58}, models.ECEF{X: -4646093.4773, Y: 2553229.5358, Z: -3534404.7109}},
		{"Everest", models.Geodetic{Lat: 27.9881, Lon: 86.925, Alt: 8848.86}, models.ECEF{X: 302769.9343, Y: 5636026.2255, Z: 2979493.4909}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WGS84.ToECEF(tt.geodetic)
			assert.InDelta(t, tt.want.X, got.X, altTolerance)
			assert.InDelta(t, tt.want.Y, got.Y, altTolerance)
			assert.InDelta(t, tt.want.Z, got.Z, altTolerance)
		})
	}
}

func TestECEFToGeodeticOrigin(t *testing.T) {
	lat, lon, alt := ECEFToGeodetic(6378137.0, 0, 0)
	assert.InDelta(t, 0, lat, degTolerance)
	assert.InDelta(t, 0, lon, degTolerance)
	assert.InDelta(t, 0, alt, altTolerance)

	lat, lon, alt = ECEFToGeodetic(0, 6378137.0, 0)
	assert.InDelta(t, 0, lat, degTolerance)
	assert.InDelta(t, 90, lon, degTolerance)
	assert.InDelta(t, 0, alt, altTolerance)
}

func TestRoundTripArbitraryPoint(t *testing.T) {
	x, y, z := GeodeticToECEF(45.0, -120.0, 1000.0)
	lat, lon, alt := ECEFToGeodetic(x, y, z)

	assert.InDelta(t, 45.0, lat, degTolerance)
	assert.InDelta(t, -120.0, lon, degTolerance)
	assert.InDelta(t, 1000.0, alt, altTolerance)
}

func TestRoundTripRandom(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for i := 0; i < 10000; i++ {
		in := models.Geodetic{
			Lat: r.Float64()*178 - 89,
			Lon: r.Float64()*360 - 180,
			Alt: r.Float64()*101000 - 1000,
		}
		out := WGS84.ToGeodetic(WGS84.ToECEF(in))

		require.InDelta(t, in.Lat, out.Lat, degTolerance, "lat for %+v", in)
		require.InDelta(t, in.Lon, out.Lon, degTolerance, "lon for %+v", in)
		require.InDelta(t, in.Alt, out.Alt, altTolerance, "alt for %+v", in)
	}
}

func TestECEFRoundTrip(t *testing.T) {
	in := models.ECEF{X: 1113194.9, Y: -4842853.2, Z: 3985519.6}
	out := WGS84.ToECEF(WGS84.ToGeodetic(in))

	assert.InDelta(t, in.X, out.X, altTolerance)
	assert.InDelta(t, in.Y, out.Y, altTolerance)
	assert.InDelta(t, in.Z, out.Z, altTolerance)
}

func TestLongitudeWraps(t *testing.T) {
	x, y, z := GeodeticToECEF(10, 190, 0)
	lat, lon, alt := ECEFToGeodetic(x, y, z)

	assert.InDelta(t, 10, lat, degTolerance)
	assert.InDelta(t, -170, lon, degTolerance)
	assert.InDelta(t, 0, alt, altTolerance)
}

func TestPolarAxis(t *testing.T) {
	b := WGS84.SemiMinorAxis()

	tests := []struct {
		name    string
		z       float64
		wantLat float64
		wantAlt float64
	}{
		{"north pole surface", b, 90, 0},
		{"above north pole", b + 1500, 90, 1500},
		{"south pole surface", -b, -90, 0},
		{"below south pole", -b + 250, -90, -250},
		{"earth center", 0, -90, -b},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lat, lon, alt := ECEFToGeodetic(0, 0, tt.z)
			assert.Equal(t, tt.wantLat, lat)
			assert.InDelta(t, tt.wantAlt, alt, altTolerance)
			assert.False(t, math.IsNaN(lon) || math.IsInf(lon, 0), "lon %v", lon)
			assert.False(t, math.IsNaN(alt) || math.IsInf(alt, 0), "alt %v", alt)
		})
	}
}

func TestNearPoleStaysFinite(t *testing.T) {
	for _, lat := range []float64{90, -90, 89.9999, -89.9999} {
		x, y, z := GeodeticToECEF(lat, 45, 100)
		gotLat, gotLon, gotAlt := ECEFToGeodetic(x, y, z)

		assert.InDelta(t, lat, gotLat, degTolerance)
		for _, v := range []float64{gotLat, gotLon, gotAlt} {
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "lat %v produced %v", lat, v)
		}
	}
}

func TestConvergenceBound(t *testing.T) {
	r := rand.New(rand.NewSource(7))

	for i := 0; i < 2000; i++ {
		c := WGS84.ToECEF(models.Geodetic{
			Lat: r.Float64()*178 - 89,
			Lon: r.Float64()*360 - 180,
			Alt: r.Float64()*500000 - 1000,
		})

		capped, rounds := WGS84.toGeodetic(c, maxIterations)
		extended, _ := WGS84.toGeodetic(c, 50)

		require.LessOrEqual(t, rounds, maxIterations)
		require.InDelta(t, extended.Alt, capped.Alt, altTolerance, "point %+v", c)
		require.InDelta(t, extended.Lat, capped.Lat, degTolerance, "point %+v", c)
	}
}

func TestEquatorConvergesImmediately(t *testing.T) {
	_, rounds := WGS84.toGeodetic(models.ECEF{X: 6378137.0}, maxIterations)
	assert.Equal(t, 1, rounds)
}

func TestConcurrentUse(t *testing.T) {
	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan string, workers)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			r := rand.New(rand.NewSource(seed))
			for i := 0; i < 1000; i++ {
				lat := r.Float64()*170 - 85
				lon := r.Float64()*360 - 180
				x, y, z := GeodeticToECEF(lat, lon, 0)
				gotLat, gotLon, _ := ECEFToGeodetic(x, y, z)
				if math.Abs(gotLat-lat) > degTolerance || math.Abs(gotLon-lon) > degTolerance {
					errs <- "round trip drifted"
					return
				}
			}
		}(int64(w))
	}

	wg.Wait()
	close(errs)
	for e := range errs {
		t.Error(e)
	}
}

func BenchmarkECEFToGeodetic(b *testing.B) {
	x, y, z := GeodeticToECEF(45, -120, 1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ECEFToGeodetic(x, y, z)
	}
}
