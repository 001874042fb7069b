package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"lautenbacher.net/lovebox/collaborator"
	"lautenbacher.net/lovebox/config"
	"lautenbacher.net/lovebox/metrics"
)

// Status is the answer of GET /api/status.
type Status struct {
	Message       string               `json:"message"`
	// Number of new messages fetched since the last (re)start
	Received      uint64               `json:"received"`
	ScreenOn      bool                 `json:"screenOn"`
	ServoPosition int                  `json:"servoPosition"`
	Light         int                  `json:"light"`
	LightAt       time.Time            `json:"lightAt"`
	LightStats    collaborator.Stats   `json:"lightStats"`
	FetchEnabled  bool                 `json:"fetchEnabled"`
	Settings      config.LoveboxConfig `json:"settings"`
}

// NewRouter serves the config API for cfile, the status reported by
// status and the prometheus metrics.
func NewRouter(cfile string, status func() Status) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/api/status", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(status()); err != nil {
			slog.Error("Failed to encode status", "error", err)
		}
	})
	r.HandleFunc("/api/config", config.ConfigHandler(cfile))
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	return r
}

func NewServer(listen string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              listen,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
