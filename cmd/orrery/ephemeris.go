package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"text/tabwriter"
	"time"

	"github.com/Carmen-Shannon/oxy-orrery/engine/clock"
	"github.com/Carmen-Shannon/oxy-orrery/engine/config"
	"github.com/Carmen-Shannon/oxy-orrery/engine/scene"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r3"
)

type ephemerisOptions struct {
	days   float64
	date   string
	format string
}

// ephemerisRow is one body's state at the requested instant.
type ephemerisRow struct {
	Name     string     `json:"name"`
	Kind     string     `json:"kind"`
	Position [3]float64 `json:"position"`
	Distance float64    `json:"distance"`
	Rotation float64    `json:"rotation_deg"`
	Error    string     `json:"error,omitempty"`
}

type ephemeris struct {
	SimDays float64        `json:"sim_days"`
	Date    time.Time      `json:"date"`
	Bodies  []ephemerisRow `json:"bodies"`
}

func newEphemerisCmd(root *rootOptions) *cobra.Command {
	opts := &ephemerisOptions{}

	cmd := &cobra.Command{
		Use:   "ephemeris",
		Short: "Print every body's position at a simulation time",
		Long: `Propagate the configured bodies to one instant without opening a window.

The instant is --time days after the configured epoch, or the calendar
instant given by --date. Without either, the configured start time is used.

Examples:
  orrery ephemeris --time 365.25
  orrery ephemeris --date 2024-04-08T18:00:00Z --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := root.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("time") && cmd.Flags().Changed("date") {
				return fmt.Errorf("--time and --date are mutually exclusive")
			}
			eph, err := computeEphemeris(cfg, logger, opts, cmd.Flags().Changed("time"))
			if err != nil {
				return err
			}
			return writeEphemeris(cmd.OutOrStdout(), eph, opts.format)
		},
	}
	cmd.Flags().Float64Var(&opts.days, "time", 0, "simulation days after the epoch")
	cmd.Flags().StringVar(&opts.date, "date", "", "RFC 3339 calendar instant")
	cmd.Flags().StringVar(&opts.format, "format", "table", "output format: table or json")
	return cmd
}

func computeEphemeris(cfg *config.Config, logger *slog.Logger, opts *ephemerisOptions, timeSet bool) (*ephemeris, error) {
	clk := clock.NewClock(cfg.ClockOptions()...)
	switch {
	case opts.date != "":
		t, err := time.Parse(time.RFC3339, opts.date)
		if err != nil {
			return nil, fmt.Errorf("--date: %w", err)
		}
		clk.SetTime(clk.DaysSince(t))
	case timeSet:
		if math.IsNaN(opts.days) || math.IsInf(opts.days, 0) {
			return nil, fmt.Errorf("--time must be finite")
		}
		clk.SetTime(opts.days)
	}

	sc := scene.NewScene("ephemeris",
		scene.WithClock(clk),
		scene.WithLogger(logger),
		scene.WithBodies(cfg.BuildBodies()...),
	)
	if failed := sc.Propagate(clk.Time()); failed > 0 {
		logger.Warn("bodies with invalid elements", "count", failed)
	}

	eph := &ephemeris{SimDays: clk.Time(), Date: clk.Date()}
	for _, b := range sc.Bodies() {
		if !b.Enabled() {
			continue
		}
		p := b.Position()
		row := ephemerisRow{
			Name:     b.Name(),
			Kind:     b.Kind().String(),
			Position: [3]float64{p.X, p.Y, p.Z},
			Distance: r3.Norm(p),
			Rotation: b.RotationAngle() * 180 / math.Pi,
		}
		if err := b.Err(); err != nil {
			row.Error = err.Error()
		}
		eph.Bodies = append(eph.Bodies, row)
	}
	return eph, nil
}

func writeEphemeris(w io.Writer, eph *ephemeris, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(eph)
	case "table":
		fmt.Fprintf(w, "t = %.4f days (%s)\n", eph.SimDays, eph.Date.Format(time.RFC3339))
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "NAME\tKIND\tX\tY\tZ\tDIST\tROT(deg)\tSTATUS\t")
		for _, r := range eph.Bodies {
			status := "ok"
			if r.Error != "" {
				status = r.Error
			}
			fmt.Fprintf(tw, "%s\t%s\t%.3f\t%.3f\t%.3f\t%.3f\t%.1f\t%s\t\n",
				r.Name, r.Kind, r.Position[0], r.Position[1], r.Position[2], r.Distance, r.Rotation, status)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown --format %q (want table or json)", format)
	}
}
