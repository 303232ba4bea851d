// Package reading retrieves the status document published by the battery system.
package reading

import (
	"log/slog"
	"time"
)

// Reading is a single point-in-time status of the battery, as published upstream.
//
// Current and Power are signed: positive while charging, negative while discharging.
type Reading struct {
	SOC       float64 `json:"SOC" yaml:"soc"`
	Volt      float64 `json:"Volt" yaml:"volt"`
	Curr      float64 `json:"Curr" yaml:"curr"`
	Power     float64 `json:"Power" yaml:"power"`
	Timestamp string  `json:"Timestamp,omitempty" yaml:"timestamp,omitempty"`
}

// Time returns the time the reading was produced. ok is false if the reading has no (valid) timestamp.
func (r Reading) Time() (t time.Time, ok bool) {
	if r.Timestamp == "" {
		return time.Time{}, false
	}
	var err error
	for _, layout := range timestampLayouts {
		if t, err = time.Parse(layout, r.Timestamp); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// upstream publishes RFC3339, but some firmware versions drop the zone offset.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func (r Reading) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("soc", r.SOC),
		slog.Float64("volt", r.Volt),
		slog.Float64("curr", r.Curr),
		slog.Float64("power", r.Power),
		slog.String("timestamp", r.Timestamp),
	)
}
