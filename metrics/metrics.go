package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Message fetch attempts by result (changed, unchanged, error)
	FetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lovebox_message_fetch_total",
		Help: "Remote message fetch attempts by result",
	}, []string{"result"})

	LightLevel = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lovebox_light_level",
		Help: "Last ambient light value read with the screen switched off",
	})

	ScreenOn = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lovebox_screen_on",
		Help: "1 if the screen is switched on",
	})

	ServoPosition = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lovebox_servo_position_degrees",
		Help: "Last position the servo was moved to",
	})

	Reloads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lovebox_config_reloads_total",
		Help: "Number of times the device was rebuilt from a new configuration",
	})
)

const (
	ResultChanged   = "changed"
	ResultUnchanged = "unchanged"
	ResultError     = "error"
)

func SetScreen(on bool) {
	if on {
		ScreenOn.Set(1)
	} else {
		ScreenOn.Set(0)
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
