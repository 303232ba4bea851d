package notifier

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/clambin/battery-exporter/internal/status"
	"github.com/clambin/battery-exporter/internal/tracker"
)

// Watcher follows the snapshots published by Source and sends a notification when the battery goes offline,
// comes back online or, while online, changes mode.
type Watcher struct {
	Source   tracker.Subscriber
	Notifier Notifier
	Logger   *slog.Logger

	initialized bool
	online      bool
	mode        status.Mode
}

func (w *Watcher) Run(ctx context.Context) error {
	w.Logger.Debug("started")
	defer w.Logger.Debug("stopped")

	ch := w.Source.Subscribe()
	defer w.Source.Unsubscribe(ch)

	for {
		select {
		case <-ctx.Done():
			return nil
		case snapshot := <-ch:
			if msg, ok := w.process(snapshot); ok {
				w.Notifier.Notify(msg)
			}
		}
	}
}

func (w *Watcher) process(snapshot tracker.Snapshot) (Message, bool) {
	if !snapshot.Updated {
		return Message{}, false
	}

	online := !snapshot.Status.Stale
	mode := snapshot.Status.Mode
	wasOnline, oldMode, initialized := w.online, w.mode, w.initialized
	w.initialized, w.online, w.mode = true, online, mode

	switch {
	case !initialized:
		w.Logger.Debug("baseline set", "online", online, "mode", mode)
		return Message{}, false
	case wasOnline && !online:
		return Message{Title: "battery offline", Text: lastSeen(snapshot), Color: "danger"}, true
	case !wasOnline && online:
		return Message{Title: "battery back online", Text: stateOfCharge(snapshot), Color: "good"}, true
	case online && mode != oldMode:
		return Message{Title: "battery " + mode.String(), Text: stateOfCharge(snapshot), Color: "good"}, true
	default:
		return Message{}, false
	}
}

func lastSeen(snapshot tracker.Snapshot) string {
	if snapshot.Reading == nil || snapshot.Reading.Timestamp == "" {
		return "no reading available"
	}
	return "last reading: " + snapshot.Reading.Timestamp
}

func stateOfCharge(snapshot tracker.Snapshot) string {
	if snapshot.Reading == nil {
		return ""
	}
	text := fmt.Sprintf("state of charge: %g%%", snapshot.Reading.SOC)
	if m := snapshot.Status.RemainingMinutes; m != nil {
		text += fmt.Sprintf(", %.0f min remaining", *m)
	}
	return text
}
