package view

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/clambin/battery-exporter/internal/tracker"
)

type Snapshotter interface {
	Snapshot(time.Time) tracker.Snapshot
}

// Handler serves the current view of the battery as JSON.
type Handler struct {
	Snapshotter
	Location *time.Location
}

func (h Handler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	v := New(h.Snapshotter.Snapshot(time.Now()), h.Location)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
