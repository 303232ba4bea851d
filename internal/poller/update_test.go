package poller_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/clambin/battery-exporter/internal/poller"
	"github.com/clambin/battery-exporter/internal/poller/testutils"
	"github.com/stretchr/testify/assert"
)

func TestUpdate_LogValue(t *testing.T) {
	polledAt := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		update poller.Update
		want   string
	}{
		{
			name:   "reading",
			update: testutils.Update(testutils.WithPolledAt(polledAt), testutils.WithReading(50, 52.1, -5, -1150, polledAt)),
			want:   `level=INFO msg=update update.polledAt=2024-05-01T12:00:00.000Z update.reading.soc=50 update.reading.volt=52.1 update.reading.curr=-5 update.reading.power=-1150 update.reading.timestamp=2024-05-01T12:00:00Z` + "\n",
		},
		{
			name:   "error",
			update: testutils.Update(testutils.WithPolledAt(polledAt), testutils.WithError(errors.New("failed"))),
			want:   `level=INFO msg=update update.polledAt=2024-05-01T12:00:00.000Z update.err=failed` + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var out bytes.Buffer
			l := slog.New(slog.NewTextHandler(&out, &slog.HandlerOptions{ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey {
					return slog.Attr{}
				}
				return a
			}}))
			l.Info("update", "update", tt.update)
			assert.Equal(t, tt.want, out.String())
		})
	}
}
