package collector

import (
	"log/slog"
	"time"

	"github.com/clambin/battery-exporter/internal/status"
	"github.com/clambin/battery-exporter/internal/tracker"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	batteryStateOfCharge = prometheus.NewDesc(
		prometheus.BuildFQName("battery", "", "state_of_charge_percent"),
		"State of charge of the battery in percentage (0-100)",
		nil,
		nil,
	)
	batteryVoltage = prometheus.NewDesc(
		prometheus.BuildFQName("battery", "", "voltage_volts"),
		"Pack voltage",
		nil,
		nil,
	)
	batteryCurrent = prometheus.NewDesc(
		prometheus.BuildFQName("battery", "", "current_amperes"),
		"Pack current. Positive while charging, negative while discharging",
		nil,
		nil,
	)
	batteryPower = prometheus.NewDesc(
		prometheus.BuildFQName("battery", "", "power_watts"),
		"Pack power. Positive while charging, negative while discharging",
		nil,
		nil,
	)
	batteryMode = prometheus.NewDesc(
		prometheus.BuildFQName("battery", "", "mode"),
		"Operating mode of the battery. Always 1. Label mode specifies the mode",
		[]string{"mode"},
		nil,
	)
	batteryStale = prometheus.NewDesc(
		prometheus.BuildFQName("battery", "", "stale"),
		"1 if the last reading is missing or too old to be representative",
		nil,
		nil,
	)
	batteryReadingAge = prometheus.NewDesc(
		prometheus.BuildFQName("battery", "reading", "age_seconds"),
		"Age of the last reading in seconds",
		nil,
		nil,
	)
	batteryRemaining = prometheus.NewDesc(
		prometheus.BuildFQName("battery", "", "remaining_minutes"),
		"Estimated time until the battery reaches its minimum state of charge, in minutes",
		nil,
		nil,
	)
	batteryETA = prometheus.NewDesc(
		prometheus.BuildFQName("battery", "", "eta_timestamp_seconds"),
		"Estimated time when the battery reaches its minimum state of charge, as a unix timestamp",
		nil,
		nil,
	)
)

type Snapshotter interface {
	Snapshot(time.Time) tracker.Snapshot
}

// Collector derives the status of the battery each time it's scraped.
type Collector struct {
	Tracker Snapshotter
	Logger  *slog.Logger
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

var _ prometheus.Collector = &Collector{}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- batteryStateOfCharge
	ch <- batteryVoltage
	ch <- batteryCurrent
	ch <- batteryPower
	ch <- batteryMode
	ch <- batteryStale
	ch <- batteryReadingAge
	ch <- batteryRemaining
	ch <- batteryETA
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	s := c.Tracker.Snapshot(now())
	if !s.Updated {
		c.Logger.Debug("no reading yet. skipping collection")
		return
	}

	if r := s.Reading; r != nil {
		ch <- prometheus.MustNewConstMetric(batteryStateOfCharge, prometheus.GaugeValue, r.SOC)
		ch <- prometheus.MustNewConstMetric(batteryVoltage, prometheus.GaugeValue, r.Volt)
		ch <- prometheus.MustNewConstMetric(batteryCurrent, prometheus.GaugeValue, r.Curr)
		ch <- prometheus.MustNewConstMetric(batteryPower, prometheus.GaugeValue, r.Power)
	}
	c.collectStatus(ch, s.Status)
}

func (c *Collector) collectStatus(ch chan<- prometheus.Metric, s status.Status) {
	ch <- prometheus.MustNewConstMetric(batteryMode, prometheus.GaugeValue, 1, s.Mode.String())

	var value float64
	if s.Stale {
		value = 1
	}
	ch <- prometheus.MustNewConstMetric(batteryStale, prometheus.GaugeValue, value)

	if s.AgeSeconds != nil {
		ch <- prometheus.MustNewConstMetric(batteryReadingAge, prometheus.GaugeValue, *s.AgeSeconds)
	}
	if s.RemainingMinutes != nil {
		ch <- prometheus.MustNewConstMetric(batteryRemaining, prometheus.GaugeValue, *s.RemainingMinutes)
	}
	if s.ETA != nil {
		ch <- prometheus.MustNewConstMetric(batteryETA, prometheus.GaugeValue, float64(s.ETA.Unix()))
	}
}
