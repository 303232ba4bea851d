// Package mqtt publishes the state of the battery to an MQTT broker.
package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/clambin/battery-exporter/internal/reading"
	"github.com/clambin/battery-exporter/internal/status"
	"github.com/clambin/battery-exporter/internal/tracker"
	paho "github.com/eclipse/paho.mqtt.golang"
)

const (
	qos            = byte(1)
	online         = "online"
	offline        = "offline"
	publishTimeout = 5 * time.Second
)

type Client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

// State is the payload published to the state topic.
type State struct {
	Reading *reading.Reading `json:"reading,omitempty"`
	Status  status.Status    `json:"status"`
}

// Publisher publishes a retained State message whenever the reading, or its staleness, changes.
// The availability topic reflects whether the battery is online, i.e. its status is not stale.
type Publisher struct {
	Client Client
	Topic  string
	Source tracker.Subscriber
	Logger *slog.Logger

	published   bool
	lastReading *reading.Reading
	lastStale   bool
}

func (p *Publisher) Run(ctx context.Context) error {
	p.Logger.Debug("started")
	defer p.Logger.Debug("stopped")

	ch := p.Source.Subscribe()
	defer p.Source.Unsubscribe(ch)

	for {
		select {
		case <-ctx.Done():
			return nil
		case snapshot := <-ch:
			if err := p.process(snapshot); err != nil {
				p.Logger.Warn("failed to publish", slog.Any("err", err))
			}
		}
	}
}

func (p *Publisher) process(snapshot tracker.Snapshot) error {
	if !snapshot.Updated || !p.changed(snapshot) {
		return nil
	}

	payload, err := json.Marshal(State{Reading: snapshot.Reading, Status: snapshot.Status})
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if err = p.publish(stateTopic(p.Topic), payload); err != nil {
		return err
	}

	if !p.published || p.lastStale != snapshot.Status.Stale {
		availability := online
		if snapshot.Status.Stale {
			availability = offline
		}
		if err = p.publish(availabilityTopic(p.Topic), []byte(availability)); err != nil {
			return err
		}
		p.Logger.Info("availability changed", slog.String("availability", availability))
	}

	p.published = true
	p.lastReading = snapshot.Reading
	p.lastStale = snapshot.Status.Stale
	return nil
}

func (p *Publisher) changed(snapshot tracker.Snapshot) bool {
	if !p.published || p.lastStale != snapshot.Status.Stale {
		return true
	}
	if p.lastReading == nil || snapshot.Reading == nil {
		return p.lastReading != snapshot.Reading
	}
	return *p.lastReading != *snapshot.Reading
}

func (p *Publisher) publish(topic string, payload []byte) error {
	token := p.Client.Publish(topic, qos, true, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish %s: timed out after %s", topic, publishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	p.Logger.Debug("published", slog.String("topic", topic), slog.Int("size", len(payload)))
	return nil
}

func stateTopic(topic string) string {
	return topic + "/state"
}

func availabilityTopic(topic string) string {
	return topic + "/availability"
}
