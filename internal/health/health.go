package health

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/clambin/battery-exporter/internal/tracker"
)

type Tracker interface {
	Snapshot(time.Time) tracker.Snapshot
	Refresh()
}

// Health reports whether the exporter has received data from the battery.
//
// An offline battery is reported in the body, but doesn't make the exporter unhealthy.
type Health struct {
	Tracker
	logger *slog.Logger
}

func New(t Tracker, logger *slog.Logger) *Health {
	return &Health{
		Tracker: t,
		logger:  logger,
	}
}

func (h *Health) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	snapshot := h.Tracker.Snapshot(time.Now())
	if !snapshot.Updated {
		h.logger.Debug("no update yet. requesting refresh")
		http.Error(w, "no update yet", http.StatusServiceUnavailable)
		h.Tracker.Refresh()
		return
	}

	w.Header().Set("Content-Type", "application/json")

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(snapshot); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
