package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	keplerNonConvergentTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "orrery_kepler_nonconvergent_total",
			Help: "Kepler equation solves that hit the iteration budget before converging.",
		},
	)

	invalidElementsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orrery_invalid_elements_total",
			Help: "Body updates skipped because the orbital elements were invalid.",
		},
		[]string{"body"},
	)

	frameUpdateSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "orrery_frame_update_seconds",
			Help:    "Time spent updating simulation and camera state per frame.",
			Buckets: []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025},
		},
	)

	cameraChangeTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "orrery_camera_change_total",
			Help: "Camera change notifications emitted by the orbit controller.",
		},
	)

	degenerateCameraTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "orrery_camera_degenerate_total",
			Help: "Controller updates skipped because the camera coincided with its target.",
		},
	)
)

func init() {
	prometheus.MustRegister(keplerNonConvergentTotal)
	prometheus.MustRegister(invalidElementsTotal)
	prometheus.MustRegister(frameUpdateSeconds)
	prometheus.MustRegister(cameraChangeTotal)
	prometheus.MustRegister(degenerateCameraTotal)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordNonConvergentSolve counts a Kepler solve that ran out of iterations.
func RecordNonConvergentSolve() {
	keplerNonConvergentTotal.Inc()
}

// RecordInvalidElements counts a skipped body update.
func RecordInvalidElements(body string) {
	invalidElementsTotal.WithLabelValues(body).Inc()
}

// RecordFrameUpdate observes the duration of one frame's state update.
func RecordFrameUpdate(d time.Duration) {
	frameUpdateSeconds.Observe(d.Seconds())
}

// RecordCameraChange counts an emitted camera change notification.
func RecordCameraChange() {
	cameraChangeTotal.Inc()
}

// RecordDegenerateCamera counts a controller update held at the previous pose.
func RecordDegenerateCamera() {
	degenerateCameraTotal.Inc()
}
