package poller

import (
	"log/slog"
	"time"

	"github.com/clambin/battery-exporter/internal/reading"
)

// Update is the outcome of a single poll. Reading is nil if the poll failed.
type Update struct {
	Reading  *reading.Reading
	PolledAt time.Time
	Err      error
}

func (u Update) LogValue() slog.Value {
	attrs := []slog.Attr{slog.Time("polledAt", u.PolledAt)}
	if u.Reading != nil {
		attrs = append(attrs, slog.Any("reading", *u.Reading))
	}
	if u.Err != nil {
		attrs = append(attrs, slog.String("err", u.Err.Error()))
	}
	return slog.GroupValue(attrs...)
}
