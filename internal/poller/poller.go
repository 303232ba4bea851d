package poller

import (
	"context"
	"log/slog"
	"time"

	"github.com/clambin/battery-exporter/internal/reading"
	"github.com/clambin/battery-exporter/pkg/pubsub"
)

type Poller interface {
	Subscribe() <-chan Update
	Unsubscribe(ch <-chan Update)
	Refresh()
}

type ReadingGetter interface {
	GetReading(ctx context.Context) (reading.Reading, error)
}

var _ Poller = &BatteryPoller{}

// BatteryPoller retrieves the battery's status at a fixed interval and publishes it to all subscribers.
type BatteryPoller struct {
	Client ReadingGetter
	*pubsub.Publisher[Update]
	interval time.Duration
	logger   *slog.Logger
	refresh  chan struct{}
}

func New(client ReadingGetter, interval time.Duration, logger *slog.Logger) *BatteryPoller {
	return &BatteryPoller{
		Client:    client,
		Publisher: pubsub.New[Update](logger.With(slog.String("component", "poller.publisher"))),
		interval:  interval,
		logger:    logger,
		refresh:   make(chan struct{}, 1),
	}
}

func (p *BatteryPoller) Interval() time.Duration {
	return p.interval
}

func (p *BatteryPoller) Run(ctx context.Context) error {
	p.logger.Debug("started", slog.Duration("interval", p.interval))
	defer p.logger.Debug("stopped")

	timer := time.NewTicker(p.interval)
	defer timer.Stop()

	for {
		p.poll(ctx)

		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		case <-p.refresh:
			timer.Reset(p.interval)
		}
	}
}

// Refresh requests an immediate poll. If a refresh is already pending, the request is ignored.
func (p *BatteryPoller) Refresh() {
	select {
	case p.refresh <- struct{}{}:
	default:
	}
}

func (p *BatteryPoller) poll(ctx context.Context) {
	start := time.Now()
	r, err := p.Client.GetReading(ctx)
	update := Update{PolledAt: start, Err: err}
	if err == nil {
		update.Reading = &r
		p.logger.Debug("poll completed", slog.Duration("duration", time.Since(start)), slog.Any("reading", r))
	} else if ctx.Err() == nil {
		p.logger.Error("failed to get battery status", slog.Any("err", err))
	}
	if ctx.Err() == nil {
		p.Publisher.Publish(update)
	}
}
