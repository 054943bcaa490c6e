package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/Carmen-Shannon/oxy-orrery/engine/body"
	"github.com/Carmen-Shannon/oxy-orrery/engine/camera"
	"github.com/Carmen-Shannon/oxy-orrery/engine/clock"
	"github.com/Carmen-Shannon/oxy-orrery/engine/orbit"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when a loaded configuration cannot be used.
var ErrInvalidConfig = errors.New("invalid configuration")

// EnvPrefix is prepended to every environment override, e.g. ORRERY_SIMULATION_TIME_SCALE.
const EnvPrefix = "ORRERY"

// Config is the resolved viewer configuration. Angles are in degrees.
type Config struct {
	Window     WindowConfig     `mapstructure:"window" yaml:"window"`
	Simulation SimulationConfig `mapstructure:"simulation" yaml:"simulation"`
	Camera     CameraConfig     `mapstructure:"camera" yaml:"camera"`
	Controls   ControlsConfig   `mapstructure:"controls" yaml:"controls"`
	Log        LogConfig        `mapstructure:"log" yaml:"log"`
	Bodies     []BodyConfig     `mapstructure:"bodies" yaml:"bodies"`
}

type WindowConfig struct {
	Title  string `mapstructure:"title" yaml:"title"`
	Width  int    `mapstructure:"width" yaml:"width"`
	Height int    `mapstructure:"height" yaml:"height"`
}

type SimulationConfig struct {
	// TimeScale is simulation days per real second.
	TimeScale float64 `mapstructure:"time_scale" yaml:"time_scale"`
	// StartTime is the initial simulation time in days since Epoch.
	StartTime float64 `mapstructure:"start_time" yaml:"start_time"`
	// Epoch is the RFC 3339 instant of simulation time zero. Empty means J2000.
	Epoch        string        `mapstructure:"epoch" yaml:"epoch"`
	Paused       bool          `mapstructure:"paused" yaml:"paused"`
	MaxTimeStep  time.Duration `mapstructure:"max_time_step" yaml:"max_time_step"`
	OrbitSamples int           `mapstructure:"orbit_samples" yaml:"orbit_samples"`
}

type CameraConfig struct {
	// Projection is "perspective" or "orthographic".
	Projection      string     `mapstructure:"projection" yaml:"projection"`
	Fov             float64    `mapstructure:"fov" yaml:"fov"`
	Near            float64    `mapstructure:"near" yaml:"near"`
	Far             float64    `mapstructure:"far" yaml:"far"`
	OrthoHalfHeight float64    `mapstructure:"ortho_half_height" yaml:"ortho_half_height"`
	Position        [3]float64 `mapstructure:"position" yaml:"position"`
	Target          [3]float64 `mapstructure:"target" yaml:"target"`
	// Focus names a body to follow at startup.
	Focus string `mapstructure:"focus" yaml:"focus"`
}

type ControlsConfig struct {
	EnableDamping      bool    `mapstructure:"enable_damping" yaml:"enable_damping"`
	DampingFactor      float64 `mapstructure:"damping_factor" yaml:"damping_factor"`
	EnableRotate       bool    `mapstructure:"enable_rotate" yaml:"enable_rotate"`
	RotateSpeed        float64 `mapstructure:"rotate_speed" yaml:"rotate_speed"`
	EnableZoom         bool    `mapstructure:"enable_zoom" yaml:"enable_zoom"`
	ZoomSpeed          float64 `mapstructure:"zoom_speed" yaml:"zoom_speed"`
	EnablePan          bool    `mapstructure:"enable_pan" yaml:"enable_pan"`
	PanSpeed           float64 `mapstructure:"pan_speed" yaml:"pan_speed"`
	ScreenSpacePanning bool    `mapstructure:"screen_space_panning" yaml:"screen_space_panning"`
	EnableKeys         bool    `mapstructure:"enable_keys" yaml:"enable_keys"`
	KeyPanSpeed        float64 `mapstructure:"key_pan_speed" yaml:"key_pan_speed"`
	MinDistance        float64 `mapstructure:"min_distance" yaml:"min_distance"`
	// MaxDistance of 0 means unbounded.
	MaxDistance   float64 `mapstructure:"max_distance" yaml:"max_distance"`
	MinZoom       float64 `mapstructure:"min_zoom" yaml:"min_zoom"`
	MaxZoom       float64 `mapstructure:"max_zoom" yaml:"max_zoom"`
	MinPolarAngle float64 `mapstructure:"min_polar_angle" yaml:"min_polar_angle"`
	MaxPolarAngle float64 `mapstructure:"max_polar_angle" yaml:"max_polar_angle"`
	// Azimuth bounds apply only when LimitAzimuth is set.
	LimitAzimuth    bool    `mapstructure:"limit_azimuth" yaml:"limit_azimuth"`
	MinAzimuthAngle float64 `mapstructure:"min_azimuth_angle" yaml:"min_azimuth_angle"`
	MaxAzimuthAngle float64 `mapstructure:"max_azimuth_angle" yaml:"max_azimuth_angle"`
	AutoRotate      bool    `mapstructure:"auto_rotate" yaml:"auto_rotate"`
	AutoRotateSpeed float64 `mapstructure:"auto_rotate_speed" yaml:"auto_rotate_speed"`
}

type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level" yaml:"level"`
}

// BodyConfig is one row of the body table. A body with a zero orbital period is
// pinned at Position and only spins.
type BodyConfig struct {
	Name                string     `mapstructure:"name" yaml:"name"`
	Kind                string     `mapstructure:"kind" yaml:"kind"`
	SemiMajorAxis       float64    `mapstructure:"semi_major_axis" yaml:"semi_major_axis"`
	Eccentricity        float64    `mapstructure:"eccentricity" yaml:"eccentricity"`
	Inclination         float64    `mapstructure:"inclination" yaml:"inclination"`
	AscendingNode       float64    `mapstructure:"ascending_node" yaml:"ascending_node"`
	ArgumentOfPeriapsis float64    `mapstructure:"argument_of_periapsis" yaml:"argument_of_periapsis"`
	MeanAnomalyAtEpoch  float64    `mapstructure:"mean_anomaly_at_epoch" yaml:"mean_anomaly_at_epoch"`
	OrbitalPeriod       float64    `mapstructure:"orbital_period" yaml:"orbital_period"`
	RotationPeriod      float64    `mapstructure:"rotation_period" yaml:"rotation_period"`
	Radius              float64    `mapstructure:"radius" yaml:"radius"`
	Color               [4]float32 `mapstructure:"color" yaml:"color"`
	Position            [3]float64 `mapstructure:"position" yaml:"position"`
	Disabled            bool       `mapstructure:"disabled" yaml:"disabled"`
}

// Load reads the configuration from path, or searches . and $HOME/.orrery for an
// orrery.{toml,yaml,json} file when path is empty. A missing file in search mode is
// not an error; every key falls back to Default and may be overridden from the
// environment.
//
// Parameters:
//   - path: explicit config file, or empty to search
//
// Returns:
//   - *Config: the resolved and validated configuration
//   - error: read, decode or validation failure (validation wraps ErrInvalidConfig)
func Load(path string) (*Config, error) {
	v := viper.New()
	def := Default()
	setDefaults(v, def)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("orrery")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.orrery")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := def
	if v.IsSet("bodies") {
		// mapstructure reuses existing slice storage, which would merge file rows into the defaults.
		cfg.Bodies = nil
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("window.title", c.Window.Title)
	v.SetDefault("window.width", c.Window.Width)
	v.SetDefault("window.height", c.Window.Height)

	v.SetDefault("simulation.time_scale", c.Simulation.TimeScale)
	v.SetDefault("simulation.start_time", c.Simulation.StartTime)
	v.SetDefault("simulation.epoch", c.Simulation.Epoch)
	v.SetDefault("simulation.paused", c.Simulation.Paused)
	v.SetDefault("simulation.max_time_step", c.Simulation.MaxTimeStep)
	v.SetDefault("simulation.orbit_samples", c.Simulation.OrbitSamples)

	v.SetDefault("camera.projection", c.Camera.Projection)
	v.SetDefault("camera.fov", c.Camera.Fov)
	v.SetDefault("camera.near", c.Camera.Near)
	v.SetDefault("camera.far", c.Camera.Far)
	v.SetDefault("camera.ortho_half_height", c.Camera.OrthoHalfHeight)
	v.SetDefault("camera.position", c.Camera.Position)
	v.SetDefault("camera.target", c.Camera.Target)
	v.SetDefault("camera.focus", c.Camera.Focus)

	ctl := c.Controls
	v.SetDefault("controls.enable_damping", ctl.EnableDamping)
	v.SetDefault("controls.damping_factor", ctl.DampingFactor)
	v.SetDefault("controls.enable_rotate", ctl.EnableRotate)
	v.SetDefault("controls.rotate_speed", ctl.RotateSpeed)
	v.SetDefault("controls.enable_zoom", ctl.EnableZoom)
	v.SetDefault("controls.zoom_speed", ctl.ZoomSpeed)
	v.SetDefault("controls.enable_pan", ctl.EnablePan)
	v.SetDefault("controls.pan_speed", ctl.PanSpeed)
	v.SetDefault("controls.screen_space_panning", ctl.ScreenSpacePanning)
	v.SetDefault("controls.enable_keys", ctl.EnableKeys)
	v.SetDefault("controls.key_pan_speed", ctl.KeyPanSpeed)
	v.SetDefault("controls.min_distance", ctl.MinDistance)
	v.SetDefault("controls.max_distance", ctl.MaxDistance)
	v.SetDefault("controls.min_zoom", ctl.MinZoom)
	v.SetDefault("controls.max_zoom", ctl.MaxZoom)
	v.SetDefault("controls.min_polar_angle", ctl.MinPolarAngle)
	v.SetDefault("controls.max_polar_angle", ctl.MaxPolarAngle)
	v.SetDefault("controls.limit_azimuth", ctl.LimitAzimuth)
	v.SetDefault("controls.min_azimuth_angle", ctl.MinAzimuthAngle)
	v.SetDefault("controls.max_azimuth_angle", ctl.MaxAzimuthAngle)
	v.SetDefault("controls.auto_rotate", ctl.AutoRotate)
	v.SetDefault("controls.auto_rotate_speed", ctl.AutoRotateSpeed)

	v.SetDefault("log.level", c.Log.Level)
}

// Validate checks the values the viewer cannot run with. Body elements are not
// checked here: an invalid body is isolated at propagation time.
//
// Returns:
//   - error: a description wrapping ErrInvalidConfig, or nil
func (c *Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		add("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Simulation.Epoch != "" {
		if _, err := time.Parse(time.RFC3339, c.Simulation.Epoch); err != nil {
			add("simulation.epoch %q is not RFC 3339", c.Simulation.Epoch)
		}
	}
	if c.Simulation.OrbitSamples < 3 {
		add("simulation.orbit_samples %d must be at least 3", c.Simulation.OrbitSamples)
	}

	switch c.Camera.Projection {
	case "perspective", "orthographic":
	default:
		add("camera.projection %q must be perspective or orthographic", c.Camera.Projection)
	}
	if c.Camera.Fov <= 0 || c.Camera.Fov >= 180 {
		add("camera.fov %g must be in (0, 180)", c.Camera.Fov)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		add("camera clip range [%g, %g] is empty", c.Camera.Near, c.Camera.Far)
	}
	if c.Camera.Projection == "orthographic" && c.Camera.OrthoHalfHeight <= 0 {
		add("camera.ortho_half_height %g must be positive", c.Camera.OrthoHalfHeight)
	}

	ctl := c.Controls
	if ctl.DampingFactor <= 0 || ctl.DampingFactor >= 1 {
		add("controls.damping_factor %g must be in (0, 1)", ctl.DampingFactor)
	}
	if ctl.MinDistance < 0 || (ctl.MaxDistance != 0 && ctl.MaxDistance < ctl.MinDistance) {
		add("controls distance bounds [%g, %g] are invalid", ctl.MinDistance, ctl.MaxDistance)
	}
	if ctl.MinZoom <= 0 || ctl.MaxZoom < ctl.MinZoom {
		add("controls zoom bounds [%g, %g] are invalid", ctl.MinZoom, ctl.MaxZoom)
	}
	if ctl.MinPolarAngle < 0 || ctl.MaxPolarAngle > 180 || ctl.MaxPolarAngle < ctl.MinPolarAngle {
		add("controls polar bounds [%g, %g] must lie within [0, 180]", ctl.MinPolarAngle, ctl.MaxPolarAngle)
	}
	if ctl.LimitAzimuth && ctl.MaxAzimuthAngle < ctl.MinAzimuthAngle {
		add("controls azimuth bounds [%g, %g] are reversed", ctl.MinAzimuthAngle, ctl.MaxAzimuthAngle)
	}

	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		add("%v", err)
	}

	seen := make(map[string]bool, len(c.Bodies))
	for i, b := range c.Bodies {
		if b.Name == "" {
			add("bodies[%d] has no name", i)
			continue
		}
		if seen[b.Name] {
			add("body %q is listed twice", b.Name)
		}
		seen[b.Name] = true
		if _, err := parseKind(b.Kind); err != nil {
			add("body %q: %v", b.Name, err)
		}
	}
	if c.Camera.Focus != "" && !seen[c.Camera.Focus] {
		add("camera.focus %q is not a listed body", c.Camera.Focus)
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// ParseLogLevel maps a level name to its slog level.
func ParseLogLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
	return l, nil
}

func parseKind(kind string) (body.Kind, error) {
	switch kind {
	case "", "planet":
		return body.KindPlanet, nil
	case "star":
		return body.KindStar, nil
	case "dwarf_planet":
		return body.KindDwarfPlanet, nil
	default:
		return body.KindPlanet, fmt.Errorf("unknown body kind %q", kind)
	}
}

func rad(deg float64) float64 {
	return deg * math.Pi / 180
}

func vec(a [3]float64) r3.Vec {
	return r3.Vec{X: a[0], Y: a[1], Z: a[2]}
}

// Elements converts the row's degree angles into orbital elements.
func (b BodyConfig) Elements() orbit.Elements {
	return orbit.Elements{
		SemiMajorAxis:       b.SemiMajorAxis,
		Eccentricity:        b.Eccentricity,
		Inclination:         rad(b.Inclination),
		AscendingNode:       rad(b.AscendingNode),
		ArgumentOfPeriapsis: rad(b.ArgumentOfPeriapsis),
		MeanAnomalyAtEpoch:  rad(b.MeanAnomalyAtEpoch),
		OrbitalPeriod:       b.OrbitalPeriod,
		RotationPeriod:      b.RotationPeriod,
	}
}

// BuildBodies creates one body per row, in table order.
//
// Returns:
//   - []body.Body: the bodies, not yet registered with any scene
func (c *Config) BuildBodies() []body.Body {
	out := make([]body.Body, 0, len(c.Bodies))
	for _, b := range c.Bodies {
		kind, _ := parseKind(b.Kind)
		opts := []body.BodyBuilderOption{
			body.WithKind(kind),
			body.WithEnabled(!b.Disabled),
			body.WithRadius(b.Radius),
			body.WithColor(b.Color),
		}
		if b.OrbitalPeriod == 0 {
			opts = append(opts, body.WithPosition(vec(b.Position)), body.WithSpin(b.RotationPeriod))
		} else {
			opts = append(opts, body.WithElements(b.Elements()))
		}
		out = append(out, body.NewBody(b.Name, opts...))
	}
	return out
}

// ClockOptions translates the simulation section into clock options.
func (c *Config) ClockOptions() []clock.ClockOption {
	opts := []clock.ClockOption{
		clock.WithTimeScale(c.Simulation.TimeScale),
		clock.WithStartTime(c.Simulation.StartTime),
		clock.WithPaused(c.Simulation.Paused),
		clock.WithMaxTimeStep(c.Simulation.MaxTimeStep),
	}
	if epoch, err := time.Parse(time.RFC3339, c.Simulation.Epoch); err == nil {
		opts = append(opts, clock.WithEpoch(epoch))
	}
	return opts
}

// CameraOptions translates the camera section into camera options.
//
// Parameters:
//   - aspect: the initial viewport aspect ratio
//
// Returns:
//   - []camera.CameraBuilderOption: options for camera.NewCamera
func (c *Config) CameraOptions(aspect float64) []camera.CameraBuilderOption {
	opts := []camera.CameraBuilderOption{
		camera.WithPosition(vec(c.Camera.Position)),
		camera.WithFov(rad(c.Camera.Fov)),
		camera.WithAspect(aspect),
		camera.WithClip(c.Camera.Near, c.Camera.Far),
	}
	if c.Camera.Projection == "orthographic" {
		opts = append(opts, camera.WithOrthographic(c.Camera.OrthoHalfHeight))
	}
	return opts
}

// ControllerOptions translates the controls section into orbit controller options.
//
// Returns:
//   - []camera.OrbitControllerOption: options for camera.NewOrbitController
func (c *Config) ControllerOptions() []camera.OrbitControllerOption {
	ctl := c.Controls
	maxDistance := ctl.MaxDistance
	if maxDistance == 0 {
		maxDistance = math.Inf(1)
	}
	minAzimuth, maxAzimuth := math.Inf(-1), math.Inf(1)
	if ctl.LimitAzimuth {
		minAzimuth, maxAzimuth = rad(ctl.MinAzimuthAngle), rad(ctl.MaxAzimuthAngle)
	}
	return []camera.OrbitControllerOption{
		camera.WithTarget(vec(c.Camera.Target)),
		camera.WithDamping(ctl.EnableDamping, ctl.DampingFactor),
		camera.WithRotate(ctl.EnableRotate, ctl.RotateSpeed),
		camera.WithDolly(ctl.EnableZoom, ctl.ZoomSpeed),
		camera.WithPan(ctl.EnablePan, ctl.PanSpeed, ctl.ScreenSpacePanning),
		camera.WithKeys(ctl.EnableKeys, ctl.KeyPanSpeed),
		camera.WithDistanceBounds(ctl.MinDistance, maxDistance),
		camera.WithZoomBounds(ctl.MinZoom, ctl.MaxZoom),
		camera.WithPolarBounds(rad(ctl.MinPolarAngle), rad(ctl.MaxPolarAngle)),
		camera.WithAzimuthBounds(minAzimuth, maxAzimuth),
		camera.WithAutoRotate(ctl.AutoRotate, ctl.AutoRotateSpeed),
	}
}

// YAML renders the resolved configuration.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
