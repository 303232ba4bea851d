package testutils

import (
	"time"

	"github.com/clambin/battery-exporter/internal/poller"
	"github.com/clambin/battery-exporter/internal/reading"
)

func Update(options ...UpdateOption) poller.Update {
	var u poller.Update
	for _, option := range options {
		option(&u)
	}
	return u
}

type UpdateOption func(*poller.Update)

func WithReading(soc, volt, curr, power float64, timestamp time.Time) UpdateOption {
	return func(u *poller.Update) {
		u.Reading = &reading.Reading{
			SOC:       soc,
			Volt:      volt,
			Curr:      curr,
			Power:     power,
			Timestamp: timestamp.UTC().Format(time.RFC3339),
		}
	}
}

func WithPolledAt(polledAt time.Time) UpdateOption {
	return func(u *poller.Update) {
		u.PolledAt = polledAt
	}
}

func WithError(err error) UpdateOption {
	return func(u *poller.Update) {
		u.Reading = nil
		u.Err = err
	}
}
