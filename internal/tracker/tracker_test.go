package tracker_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/clambin/battery-exporter/internal/poller"
	"github.com/clambin/battery-exporter/internal/poller/mocks"
	"github.com/clambin/battery-exporter/internal/poller/testutils"
	"github.com/clambin/battery-exporter/internal/status"
	"github.com/clambin/battery-exporter/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestTracker_Run(t *testing.T) {
	ch := make(chan poller.Update)
	p := mocks.NewPoller(t)
	p.EXPECT().Subscribe().Return(ch).Once()
	p.EXPECT().Unsubscribe((<-chan poller.Update)(ch)).Once()
	p.EXPECT().Refresh().Once()

	tr := tracker.New(p, 30*time.Second, status.DefaultConfig, discard)
	tr.TickInterval = 10 * time.Millisecond
	snapshots := tr.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error)
	go func() { errCh <- tr.Run(ctx) }()

	// ticker publishes before any poll completed
	s := <-snapshots
	assert.False(t, s.Updated)
	assert.Nil(t, s.Reading)
	assert.Equal(t, status.Unknown, s.Status.Mode)
	assert.True(t, s.Status.Stale)

	now := time.Now()
	ch <- testutils.Update(testutils.WithPolledAt(now), testutils.WithReading(50, 52.1, -5, -1150, now))

	assert.Eventually(t, func() bool {
		select {
		case s = <-snapshots:
			return s.Updated
		default:
			return false
		}
	}, time.Second, time.Millisecond)
	require.NotNil(t, s.Reading)
	assert.Equal(t, 50.0, s.Reading.SOC)
	assert.Equal(t, status.Discharging, s.Status.Mode)
	assert.False(t, s.Status.Stale)
	assert.NotNil(t, s.Status.RemainingMinutes)

	tr.Refresh()

	cancel()
	assert.NoError(t, <-errCh)
	tr.Unsubscribe(snapshots)
}

func TestTracker_Snapshot(t *testing.T) {
	ch := make(chan poller.Update)
	p := mocks.NewPoller(t)
	p.EXPECT().Subscribe().Return(ch).Once()
	p.EXPECT().Unsubscribe((<-chan poller.Update)(ch)).Once()

	tr := tracker.New(p, 30*time.Second, status.DefaultConfig, discard)
	tr.TickInterval = time.Hour
	snapshots := tr.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error)
	go func() { errCh <- tr.Run(ctx) }()

	t0 := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)
	ch <- testutils.Update(testutils.WithPolledAt(t0), testutils.WithReading(50, 52.1, 5, 1150, t0))
	<-snapshots

	s := tr.Snapshot(t0.Add(10 * time.Second))
	assert.Equal(t, status.Charging, s.Status.Mode)
	assert.Equal(t, 20*time.Second, s.Countdown)
	assert.Equal(t, 30*time.Second, tr.Snapshot(t0.Add(-time.Minute)).Countdown)
	assert.Zero(t, tr.Snapshot(t0.Add(time.Hour)).Countdown)
	assert.True(t, tr.Snapshot(t0.Add(time.Hour)).Status.Stale)

	// superseded updates are discarded
	ch <- testutils.Update(testutils.WithPolledAt(t0.Add(-time.Minute)), testutils.WithReading(20, 50, -5, -1150, t0.Add(-time.Minute)))
	assert.Never(t, func() bool {
		select {
		case <-snapshots:
			return true
		default:
			return false
		}
	}, 100*time.Millisecond, 10*time.Millisecond)
	s = tr.Snapshot(t0.Add(10 * time.Second))
	require.NotNil(t, s.Reading)
	assert.Equal(t, 50.0, s.Reading.SOC)
	assert.Equal(t, status.Charging, s.Status.Mode)
	// a failed poll replaces the reading
	ch <- testutils.Update(testutils.WithPolledAt(t0.Add(time.Minute)), testutils.WithError(errors.New("failed")))
	s = <-snapshots

	assert.True(t, s.Updated)
	assert.Nil(t, s.Reading)
	assert.Equal(t, status.Unknown, s.Status.Mode)
	assert.True(t, s.Status.Stale)

	cancel()
	assert.NoError(t, <-errCh)
}

func TestTracker_PublisherLogger(t *testing.T) {
	var out bytes.Buffer
	tr := tracker.New(mocks.NewPoller(t), 30*time.Second, status.DefaultConfig, slog.New(slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug})))
	tr.Unsubscribe(tr.Subscribe())
	assert.Contains(t, out.String(), "component=tracker.publisher")
}
