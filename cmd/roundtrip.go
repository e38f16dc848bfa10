package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/kass/go-geo-ecef/pkg/ecef"
	"github.com/kass/go-geo-ecef/pkg/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	degTolerance = 1e-5
	altTolerance = 1e-3 // meters

	// poles are excluded from the round-trip property
	maxRandomLat = 89.9
)

var errTolerance = errors.New("round trip exceeded tolerance")

type roundTripConfig struct {
	Points  int
	Workers int
	Seed    int64
	MinAlt  float64
	MaxAlt  float64
}

type roundTripResult struct {
	Points    int           `json:"points"`
	Workers   int           `json:"workers"`
	Elapsed   time.Duration `json:"elapsed_ns"`
	MaxLatErr float64       `json:"max_lat_err_deg"`
	MaxLonErr float64       `json:"max_lon_err_deg"`
	MaxAltErr float64       `json:"max_alt_err_m"`
}

func (r roundTripResult) rows() []row {
	perSec := 0.0
	if r.Elapsed > 0 {
		perSec = float64(r.Points) / r.Elapsed.Seconds()
	}
	return []row{
		{"Points", strconv.Itoa(r.Points)},
		{"Workers", strconv.Itoa(r.Workers)},
		{"Total time", r.Elapsed.String()},
		{"Points per second", strconv.FormatFloat(perSec, 'f', 0, 64)},
		{"Max lat error", strconv.FormatFloat(r.MaxLatErr, 'e', 3, 64) + " deg"},
		{"Max lon error", strconv.FormatFloat(r.MaxLonErr, 'e', 3, 64) + " deg"},
		{"Max alt error", strconv.FormatFloat(r.MaxAltErr, 'e', 3, 64) + " m"},
	}
}

func (r *roundTripResult) merge(o roundTripResult) {
	r.MaxLatErr = math.Max(r.MaxLatErr, o.MaxLatErr)
	r.MaxLonErr = math.Max(r.MaxLonErr, o.MaxLonErr)
	r.MaxAltErr = math.Max(r.MaxAltErr, o.MaxAltErr)
}

// roundTrip converts random points to ECEF and back across a worker pool
// and returns the worst error seen. The first point out of tolerance stops all workers.
func roundTrip(ctx context.Context, cfg roundTripConfig) (roundTripResult, error) {
	if cfg.Points <= 0 {
		return roundTripResult{}, fmt.Errorf("points must be positive, got %d", cfg.Points)
	}
	if cfg.MinAlt > cfg.MaxAlt {
		return roundTripResult{}, fmt.Errorf("min altitude %v exceeds max altitude %v", cfg.MinAlt, cfg.MaxAlt)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}

	batchSize := cfg.Points / cfg.Workers
	if batchSize < 1 {
		batchSize = 1
	}

	var (
		mu    sync.Mutex
		total = roundTripResult{Points: cfg.Points, Workers: cfg.Workers}
	)

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	for lo := 0; lo < cfg.Points; lo += batchSize {
		lo := lo // per-iteration copy; go.mod targets go1.21 loop semantics
		hi := min(lo+batchSize, cfg.Points)
		g.Go(func() error {
			local, err := roundTripBatch(ctx, cfg, lo, hi)
			if err != nil {
				return err
			}
			log.Debug().Int("from", lo).Int("to", hi).Float64("max_alt_err", local.MaxAltErr).Msg("Batch done")

			mu.Lock()
			total.merge(local)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return roundTripResult{}, err
	}
	total.Elapsed = time.Since(start)
	return total, nil
}

func roundTripBatch(ctx context.Context, cfg roundTripConfig, lo, hi int) (roundTripResult, error) {
	var res roundTripResult
	r := rand.New(rand.NewSource(cfg.Seed + int64(lo)))

	for i := lo; i < hi; i++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		in := models.Geodetic{
			Lat: (r.Float64()*2 - 1) * maxRandomLat,
			Lon: r.Float64()*360 - 180,
			Alt: cfg.MinAlt + r.Float64()*(cfg.MaxAlt-cfg.MinAlt),
		}
		out := ecef.WGS84.ToGeodetic(ecef.WGS84.ToECEF(in))

		latErr := math.Abs(out.Lat - in.Lat)
		lonErr := math.Abs(lonDiff(out.Lon, in.Lon))
		altErr := math.Abs(out.Alt - in.Alt)
		if latErr > degTolerance || lonErr > degTolerance || altErr > altTolerance {
			return res, fmt.Errorf("%w: point %d %+v came back as %+v", errTolerance, i, in, out)
		}

		res.merge(roundTripResult{MaxLatErr: latErr, MaxLonErr: lonErr, MaxAltErr: altErr})
	}
	return res, nil
}

// lonDiff returns a-b wrapped to [-180, 180)
func lonDiff(a, b float64) float64 {
	d := math.Mod(a-b+540, 360)
	if d < 0 {
		d += 360
	}
	return d - 180
}
