package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/kass/go-geo-ecef/pkg/ecef"
	"github.com/kass/go-geo-ecef/pkg/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:           "go-geo-ecef",
	Short:         "WGS84 geodetic <-> ECEF coordinate converter",
	Long:          `Convert between geodetic latitude/longitude/altitude on the WGS84 ellipsoid and Earth-Centered-Earth-Fixed cartesian coordinates.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger(verbose)
	},
}

var toECEFCmd = &cobra.Command{
	Use:     "to-ecef LAT LON ALT",
	Short:   "Convert geodetic coordinates to ECEF",
	Long:    `Convert latitude and longitude in degrees and altitude in meters to ECEF X, Y, Z in meters.`,
	Example: "  go-geo-ecef to-ecef -- 45 -120 1000",
	Args:    cobra.ExactArgs(3),
	RunE:    runToECEF,
}

var toGeodeticCmd = &cobra.Command{
	Use:     "to-geodetic X Y Z",
	Short:   "Convert ECEF coordinates to geodetic",
	Long:    `Convert ECEF X, Y, Z in meters to latitude and longitude in degrees and altitude in meters.`,
	Example: "  go-geo-ecef to-geodetic -- -2259148.9928 -3912960.8374 4488055.5156",
	Args:    cobra.ExactArgs(3),
	RunE:    runToGeodetic,
}

var roundTripCmd = &cobra.Command{
	Use:   "roundtrip",
	Short: "Round-trip random points and report the worst error",
	Long:  `Generate random geodetic points, convert them to ECEF and back using a pool of workers, and fail if any point drifts beyond tolerance.`,
	Args:  cobra.NoArgs,
	RunE:  runRoundTrip,
}

var rtConfig roundTripConfig

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")

	roundTripCmd.Flags().IntVarP(&rtConfig.Points, "points", "p", 100000, "Number of points to generate")
	roundTripCmd.Flags().IntVarP(&rtConfig.Workers, "workers", "w", runtime.NumCPU(), "Number of worker goroutines")
	roundTripCmd.Flags().Int64Var(&rtConfig.Seed, "seed", time.Now().UnixNano(), "Random seed")
	roundTripCmd.Flags().Float64Var(&rtConfig.MinAlt, "min-alt", -1000, "Minimum altitude in meters")
	roundTripCmd.Flags().Float64Var(&rtConfig.MaxAlt, "max-alt", 100000, "Maximum altitude in meters")

	rootCmd.AddCommand(toECEFCmd, toGeodeticCmd, roundTripCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

func setupLogger(verbose bool) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()
}

func runToECEF(cmd *cobra.Command, args []string) error {
	v, err := parseTriple(args, "latitude", "longitude", "altitude")
	if err != nil {
		return err
	}

	g := models.Geodetic{Lat: v[0], Lon: v[1], Alt: v[2]}
	c := ecef.WGS84.ToECEF(g)
	log.Debug().Interface("geodetic", g).Interface("ecef", c).Msg("Converted to ECEF")

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), c)
	}
	return writeRows(cmd.OutOrStdout(), "ECEF (Cartesian)", ecefRows(c))
}

func runToGeodetic(cmd *cobra.Command, args []string) error {
	v, err := parseTriple(args, "x", "y", "z")
	if err != nil {
		return err
	}

	c := models.ECEF{X: v[0], Y: v[1], Z: v[2]}
	g := ecef.WGS84.ToGeodetic(c)
	log.Debug().Interface("ecef", c).Interface("geodetic", g).Msg("Converted to geodetic")

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), g)
	}
	return writeRows(cmd.OutOrStdout(), "LLA (Geodetic)", geodeticRows(g))
}

func runRoundTrip(cmd *cobra.Command, args []string) error {
	log.Info().
		Int("points", rtConfig.Points).
		Int("workers", rtConfig.Workers).
		Int64("seed", rtConfig.Seed).
		Msg("Running round trip")

	res, err := roundTrip(cmd.Context(), rtConfig)
	if err != nil {
		return fmt.Errorf("round trip failed: %w", err)
	}

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), res)
	}
	return writeRows(cmd.OutOrStdout(), "Round Trip Results", res.rows())
}
