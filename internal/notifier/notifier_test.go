package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/clambin/battery-exporter/internal/reading"
	"github.com/clambin/battery-exporter/internal/status"
	"github.com/clambin/battery-exporter/internal/tracker"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)

func TestWatcher_process(t *testing.T) {
	charging := &reading.Reading{SOC: 40, Curr: 10, Power: 520, Timestamp: "2024-05-01T11:59:50Z"}
	discharging := &reading.Reading{SOC: 40, Volt: 52, Curr: -10, Power: -568, Timestamp: "2024-05-01T11:59:50Z"}

	w := Watcher{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	steps := []struct {
		name     string
		snapshot tracker.Snapshot
		want     Message
		wantOK   bool
	}{
		{name: "not updated", snapshot: tracker.Snapshot{Status: status.Status{Stale: true}}},
		{name: "baseline", snapshot: snapshot(charging, now)},
		{name: "no change", snapshot: snapshot(charging, now.Add(time.Second))},
		{
			name:     "mode change",
			snapshot: snapshot(discharging, now),
			want:     Message{Title: "battery discharging", Text: "state of charge: 40%, 264 min remaining", Color: "good"},
			wantOK:   true,
		},
		{
			name:     "offline",
			snapshot: snapshot(discharging, now.Add(time.Hour)),
			want:     Message{Title: "battery offline", Text: "last reading: 2024-05-01T11:59:50Z", Color: "danger"},
			wantOK:   true,
		},
		{name: "mode change while offline", snapshot: snapshot(nil, now.Add(time.Hour))},
		{
			name:     "back online",
			snapshot: snapshot(charging, now),
			want:     Message{Title: "battery back online", Text: "state of charge: 40%", Color: "good"},
			wantOK:   true,
		},
		{
			name:     "failed poll",
			snapshot: snapshot(nil, now),
			want:     Message{Title: "battery offline", Text: "no reading available", Color: "danger"},
			wantOK:   true,
		},
	}

	for _, step := range steps {
		msg, ok := w.process(step.snapshot)
		assert.Equal(t, step.wantOK, ok, step.name)
		assert.Equal(t, step.want, msg, step.name)
	}
}

func TestWatcher_Run(t *testing.T) {
	source := fakeSource{ch: make(chan tracker.Snapshot)}
	var n fakeNotifier
	w := Watcher{Source: source, Notifier: &n, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error)
	go func() { errCh <- w.Run(ctx) }()

	r := &reading.Reading{SOC: 40, Curr: 10, Power: 520, Timestamp: "2024-05-01T11:59:50Z"}
	source.ch <- snapshot(r, now)
	source.ch <- snapshot(r, now.Add(time.Hour))
	assert.Eventually(t, func() bool { return len(n.get()) == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, "battery offline", n.get()[0].Title)

	cancel()
	assert.NoError(t, <-errCh)
}

func TestNotifiers_Notify(t *testing.T) {
	var out bytes.Buffer
	var received []slack.WebhookMessage
	var lock sync.Mutex
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var msg slack.WebhookMessage
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		lock.Lock()
		received = append(received, msg)
		lock.Unlock()
		_, _ = w.Write([]byte("ok"))
	}))
	defer s.Close()

	n := Notifiers{
		SLogNotifier{Logger: slog.New(slog.NewTextHandler(&out, &slog.HandlerOptions{ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		}}))},
		SlackNotifier{WebhookURL: s.URL, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))},
	}

	n.Notify(Message{Title: "battery offline", Text: "no reading available", Color: "danger"})

	assert.Equal(t, `level=INFO msg="battery offline" text="no reading available"`+"\n", out.String())
	lock.Lock()
	defer lock.Unlock()
	require.Len(t, received, 1)
	require.Len(t, received[0].Attachments, 1)
	assert.Equal(t, "battery offline", received[0].Attachments[0].Title)
	assert.Equal(t, "no reading available", received[0].Attachments[0].Text)
	assert.Equal(t, "danger", received[0].Attachments[0].Color)
}

func TestSlackNotifier_Failure(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "invalid_token", http.StatusForbidden)
	}))
	defer s.Close()

	var out bytes.Buffer
	n := SlackNotifier{WebhookURL: s.URL, Logger: slog.New(slog.NewTextHandler(&out, nil))}
	n.Notify(Message{Title: "battery offline"})
	assert.Contains(t, out.String(), "notifier failed to post message")
}

func snapshot(r *reading.Reading, now time.Time) tracker.Snapshot {
	return tracker.Snapshot{
		Reading: r,
		Status:  status.Derive(r, now, status.Config{StaleAfter: 3 * time.Minute, CapacityKWh: 10, MinSOC: 15}),
		Updated: true,
		Time:    now,
	}
}

var _ tracker.Subscriber = fakeSource{}

type fakeSource struct {
	ch chan tracker.Snapshot
}

func (f fakeSource) Subscribe() <-chan tracker.Snapshot { return f.ch }
func (f fakeSource) Unsubscribe(<-chan tracker.Snapshot) {}

var _ Notifier = &fakeNotifier{}

type fakeNotifier struct {
	lock     sync.Mutex
	messages []Message
}

func (f *fakeNotifier) Notify(msg Message) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.messages = append(f.messages, msg)
}

func (f *fakeNotifier) get() []Message {
	f.lock.Lock()
	defer f.lock.Unlock()
	return append([]Message(nil), f.messages...)
}
