package config

import "time"

// auScale is the number of scene units per astronomical unit in the default system.
const auScale = 20

// Default returns the built-in configuration: a stylized solar system with J2000
// mean elements, distances compressed to auScale scene units per AU and display
// radii exaggerated so every planet is visible.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "Orrery",
			Width:  1280,
			Height: 720,
		},
		Simulation: SimulationConfig{
			TimeScale:    10,
			MaxTimeStep:  time.Second,
			OrbitSamples: 256,
		},
		Camera: CameraConfig{
			Projection:      "perspective",
			Fov:             45,
			Near:            0.1,
			Far:             10000,
			OrthoHalfHeight: 200,
			Position:        [3]float64{0, 250, 500},
		},
		Controls: ControlsConfig{
			EnableDamping:      true,
			DampingFactor:      0.05,
			EnableRotate:       true,
			RotateSpeed:        1,
			EnableZoom:         true,
			ZoomSpeed:          1,
			EnablePan:          true,
			PanSpeed:           1,
			ScreenSpacePanning: true,
			EnableKeys:         true,
			KeyPanSpeed:        7,
			MinDistance:        5,
			MaxDistance:        5000,
			MinZoom:            0.05,
			MaxZoom:            50,
			MinPolarAngle:      0,
			MaxPolarAngle:      180,
			AutoRotateSpeed:    2,
		},
		Log: LogConfig{Level: "info"},
		Bodies: []BodyConfig{
			{Name: "Sun", Kind: "star", RotationPeriod: 25.38, Radius: 8, Color: [4]float32{1, 0.85, 0.4, 1}},
			planet("Mercury", 0.387098, 0.205630, 7.005, 48.331, 29.124, 174.796, 87.9691, 58.646, 1, [4]float32{0.6, 0.6, 0.6, 1}),
			planet("Venus", 0.723332, 0.006772, 3.39458, 76.680, 54.884, 50.115, 224.701, -243.025, 1.6, [4]float32{0.9, 0.8, 0.55, 1}),
			planet("Earth", 1.000001, 0.016709, 0.00005, -11.26064, 114.20783, 358.617, 365.256, 0.99727, 1.7, [4]float32{0.25, 0.45, 0.95, 1}),
			planet("Mars", 1.523679, 0.0934, 1.850, 49.558, 286.502, 19.373, 686.980, 1.02596, 1.3, [4]float32{0.85, 0.4, 0.25, 1}),
			planet("Jupiter", 5.2044, 0.0489, 1.303, 100.464, 273.867, 20.020, 4332.59, 0.41354, 4.5, [4]float32{0.85, 0.7, 0.55, 1}),
			planet("Saturn", 9.5826, 0.0565, 2.485, 113.665, 339.392, 317.020, 10759.22, 0.44401, 4, [4]float32{0.9, 0.8, 0.6, 1}),
			planet("Uranus", 19.2184, 0.046381, 0.773, 74.006, 96.998857, 142.238600, 30688.5, -0.71833, 3, [4]float32{0.6, 0.85, 0.9, 1}),
			planet("Neptune", 30.11, 0.009456, 1.767975, 131.784, 276.336, 256.228, 60195, 0.6713, 3, [4]float32{0.3, 0.45, 0.95, 1}),
			{
				Name: "Pluto", Kind: "dwarf_planet",
				SemiMajorAxis: 39.482 * auScale, Eccentricity: 0.2488, Inclination: 17.16,
				AscendingNode: 110.299, ArgumentOfPeriapsis: 113.834, MeanAnomalyAtEpoch: 14.53,
				OrbitalPeriod: 90560, RotationPeriod: -6.387230, Radius: 0.8,
				Color: [4]float32{0.8, 0.75, 0.7, 1},
			},
		},
	}
}

func planet(name string, au, e, i, node, peri, m0, period, rotation, radius float64, color [4]float32) BodyConfig {
	return BodyConfig{
		Name:                name,
		Kind:                "planet",
		SemiMajorAxis:       au * auScale,
		Eccentricity:        e,
		Inclination:         i,
		AscendingNode:       node,
		ArgumentOfPeriapsis: peri,
		MeanAnomalyAtEpoch:  m0,
		OrbitalPeriod:       period,
		RotationPeriod:      rotation,
		Radius:              radius,
		Color:               color,
	}
}
