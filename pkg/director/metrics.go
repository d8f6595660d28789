package director

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	oneShotOK      = "ok"
	oneShotFailed  = "failed"
	oneShotUnknown = "unknown_sound"
)

type metrics struct {
	sceneChanges *prometheus.CounterVec
	oneShots     *prometheus.CounterVec
	musicVolume  prometheus.Gauge
	sfxVolume    prometheus.Gauge
}

// newMetrics registers the director metrics on reg. A nil reg creates
// unregistered collectors.
func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		sceneChanges: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scenekitt_scene_changes_total",
				Help: "Scene change requests, partitioned by outcome.",
			},
			[]string{"outcome"},
		),
		oneShots: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scenekitt_oneshots_total",
				Help: "One-shot sound requests, partitioned by result.",
			},
			[]string{"result"},
		),
		musicVolume: factory.NewGauge(prometheus.GaugeOpts{
			Name: "scenekitt_music_volume",
			Help: "Current music volume in [0,1].",
		}),
		sfxVolume: factory.NewGauge(prometheus.GaugeOpts{
			Name: "scenekitt_sfx_volume",
			Help: "Current sound effect volume in [0,1].",
		}),
	}
}
