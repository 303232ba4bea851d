// Package tracker keeps the most recent battery reading and publishes the status derived from it.
//
// The latest reading is only written by the poller. A separate, one-second ticker re-derives the status,
// so that ageing, staleness and the countdown to the next poll progress between polls.
package tracker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/clambin/battery-exporter/internal/poller"
	"github.com/clambin/battery-exporter/internal/reading"
	"github.com/clambin/battery-exporter/internal/status"
	"github.com/clambin/battery-exporter/pkg/pubsub"
)

// Snapshot is the state of the battery at a point in time.
type Snapshot struct {
	Reading *reading.Reading `json:"reading,omitempty"`
	Status  status.Status    `json:"status"`
	// Updated is false until the first poll has completed.
	Updated bool `json:"updated"`
	// Countdown is the time until the next scheduled poll.
	Countdown time.Duration `json:"-"`
	Time      time.Time     `json:"time"`
}

type Subscriber interface {
	Subscribe() <-chan Snapshot
	Unsubscribe(<-chan Snapshot)
}

type Tracker struct {
	Poller poller.Poller
	*pubsub.Publisher[Snapshot]
	Interval     time.Duration
	TickInterval time.Duration
	Config       status.Config
	logger       *slog.Logger
	lock         sync.RWMutex
	latest       *reading.Reading
	polledAt     time.Time
	updated      bool
}

func New(p poller.Poller, interval time.Duration, cfg status.Config, logger *slog.Logger) *Tracker {
	return &Tracker{
		Poller:       p,
		Publisher:    pubsub.New[Snapshot](logger.With(slog.String("component", "tracker.publisher"))),
		Interval:     interval,
		TickInterval: time.Second,
		Config:       cfg,
		logger:       logger,
	}
}

func (t *Tracker) Run(ctx context.Context) error {
	t.logger.Debug("started")
	defer t.logger.Debug("stopped")

	ch := t.Poller.Subscribe()
	defer t.Poller.Unsubscribe(ch)

	ticker := time.NewTicker(t.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update := <-ch:
			if t.store(update) {
				t.Publish(t.Snapshot(time.Now()))
			}
		case now := <-ticker.C:
			t.Publish(t.Snapshot(now))
		}
	}
}

// store records the update as the latest reading. Updates older than the current one are discarded.
func (t *Tracker) store(update poller.Update) bool {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.updated && update.PolledAt.Before(t.polledAt) {
		t.logger.Debug("discarding superseded update", slog.Any("update", update))
		return false
	}
	t.latest = update.Reading
	t.polledAt = update.PolledAt
	t.updated = true
	return true
}

// Snapshot derives the status of the battery at time now.
func (t *Tracker) Snapshot(now time.Time) Snapshot {
	t.lock.RLock()
	defer t.lock.RUnlock()

	s := Snapshot{
		Reading: t.latest,
		Status:  status.Derive(t.latest, now, t.Config),
		Updated: t.updated,
		Time:    now,
	}
	if t.updated {
		s.Countdown = min(max(t.polledAt.Add(t.Interval).Sub(now), 0), t.Interval)
	}
	return s
}

// Refresh asks the poller to fetch a new reading.
func (t *Tracker) Refresh() {
	t.Poller.Refresh()
}
