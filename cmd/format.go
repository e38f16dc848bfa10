package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/kass/go-geo-ecef/pkg/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF79C6"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6272A4")).
			Width(18)

	valueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#50FA7B"))
)

// row is one labelled line of text output
type row struct {
	label string
	value string
}

// parseTriple parses three numeric arguments, naming the offending field on failure
func parseTriple(args []string, names ...string) ([3]float64, error) {
	var out [3]float64
	if len(args) != len(out) || len(names) != len(out) {
		return out, fmt.Errorf("expected %d values, got %d", len(out), len(args))
	}

	for i, arg := range args {
		v, err := strconv.ParseFloat(strings.TrimSpace(arg), 64)
		if err != nil {
			return out, fmt.Errorf("invalid %s %q: %w", names[i], arg, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return out, fmt.Errorf("invalid %s %q: must be a finite number", names[i], arg)
		}
		out[i] = v
	}
	return out, nil
}

func ecefRows(c models.ECEF) []row {
	return []row{
		{"X (m)", formatMeters(c.X)},
		{"Y (m)", formatMeters(c.Y)},
		{"Z (m)", formatMeters(c.Z)},
	}
}

func geodeticRows(g models.Geodetic) []row {
	return []row{
		{"Latitude (deg)", formatDegrees(g.Lat)},
		{"Longitude (deg)", formatDegrees(g.Lon)},
		{"Altitude (m)", formatMeters(g.Alt)},
	}
}

func formatMeters(v float64) string  { return strconv.FormatFloat(v, 'f', 4, 64) }
func formatDegrees(v float64) string { return strconv.FormatFloat(v, 'f', 8, 64) }

func writeRows(w io.Writer, title string, rows []row) error {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	for _, r := range rows {
		b.WriteString(labelStyle.Render(r.label))
		b.WriteString(valueStyle.Render(r.value))
		b.WriteString("\n")
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
