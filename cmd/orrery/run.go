package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Carmen-Shannon/oxy-orrery/engine"
	"github.com/Carmen-Shannon/oxy-orrery/engine/camera"
	"github.com/Carmen-Shannon/oxy-orrery/engine/clock"
	"github.com/Carmen-Shannon/oxy-orrery/engine/metrics"
	"github.com/Carmen-Shannon/oxy-orrery/engine/orbit"
	"github.com/Carmen-Shannon/oxy-orrery/engine/renderer"
	"github.com/Carmen-Shannon/oxy-orrery/engine/scene"
	"github.com/Carmen-Shannon/oxy-orrery/engine/window"
	"github.com/spf13/cobra"
)

type runOptions struct {
	metricsAddr string
	profile     bool
	vsync       bool
	frameLimit  float64
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the interactive viewer",
		Long: `Open a window and animate the configured bodies.

Controls:
  left drag            rotate around the target
  right drag           pan (or left drag with ctrl/shift)
  middle drag, wheel   dolly
  arrow keys           pan (rotate with ctrl/shift)
  1..9                 follow the Nth body, 0 stops following
  space                pause or resume
  + / -                double or halve the time scale
  r                    reset the camera`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := root.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if opts.metricsAddr != "" {
				srv := serveMetrics(opts.metricsAddr, logger)
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
					defer cancel()
					_ = srv.Shutdown(shutdownCtx)
				}()
			}

			win := window.NewWindow(
				window.WithTitle(cfg.Window.Title),
				window.WithSize(cfg.Window.Width, cfg.Window.Height),
			)

			presentMode := renderer.PresentModeUncapped
			if opts.vsync {
				presentMode = renderer.PresentModeVSync
			}
			r, err := renderer.NewRenderer(win,
				renderer.WithPresentMode(presentMode),
				renderer.WithLogger(logger),
			)
			if err != nil {
				_ = win.Close()
				return fmt.Errorf("failed to create renderer: %w", err)
			}

			sc := scene.NewScene("solar-system",
				scene.WithClock(clock.NewClock(cfg.ClockOptions()...)),
				scene.WithPropagator(orbit.NewPropagator(orbit.WithLogger(logger))),
				scene.WithLogger(logger),
				scene.WithBodies(cfg.BuildBodies()...),
			)

			aspect := float64(win.Width()) / float64(max(win.Height(), 1))
			cam := camera.NewCamera(cfg.CameraOptions(aspect)...)
			ctrl := camera.NewOrbitController(cam, append(cfg.ControllerOptions(), camera.WithLogger(logger))...)

			eng := engine.NewEngine(sc, ctrl,
				engine.WithWindow(win),
				engine.WithRenderer(r),
				engine.WithLogger(logger),
				engine.WithTitle(cfg.Window.Title),
				engine.WithOrbitSamples(cfg.Simulation.OrbitSamples),
				engine.WithProfiling(opts.profile),
				engine.WithRenderFrameLimit(opts.frameLimit),
			)
			if cfg.Camera.Focus != "" {
				if err := eng.Focus(cfg.Camera.Focus); err != nil {
					logger.Warn("startup focus ignored", "error", err)
				}
			}

			go func() {
				<-ctx.Done()
				eng.Quit()
			}()

			logger.Info("orrery started", "bodies", sc.Count(), "time_scale", sc.Clock().TimeScale())
			eng.Run()
			logger.Info("orrery stopped", "sim_days", sc.Clock().Time())
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")
	cmd.Flags().BoolVar(&opts.profile, "profile", false, "log frame rate and memory statistics")
	cmd.Flags().BoolVar(&opts.vsync, "vsync", true, "synchronize presentation with the display")
	cmd.Flags().Float64Var(&opts.frameLimit, "fps", 0, "frame rate cap (0 = uncapped)")
	return cmd
}

func serveMetrics(addr string, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Info("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()
	return srv
}
