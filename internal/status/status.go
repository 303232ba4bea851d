// Package status derives the operating status of the battery from a single reading.
//
// Derive is a pure function: it holds no state and performs no I/O. Every undefined arithmetic case
// (no power, SOC at or below the usable floor, missing timestamp) results in absent fields, never in NaN or Inf.
package status

import (
	"math"
	"time"

	"github.com/clambin/battery-exporter/internal/reading"
)

// Config parameterizes Derive.
type Config struct {
	// StaleAfter is the maximum age of a reading before it is considered stale. Zero disables the age check.
	StaleAfter time.Duration
	// CapacityKWh is the nominal capacity of the battery.
	CapacityKWh float64
	// MinSOC is the state of charge (in percent) at which the battery stops discharging.
	MinSOC float64
}

// DefaultConfig matches a 14.2 kWh installation that stops discharging at 15%.
var DefaultConfig = Config{
	StaleAfter:  3 * time.Minute,
	CapacityKWh: 14.2,
	MinSOC:      15,
}

// Status is the status derived from a reading.
type Status struct {
	Mode             Mode       `json:"mode" yaml:"mode"`
	Stale            bool       `json:"stale" yaml:"stale"`
	AgeSeconds       *float64   `json:"ageSeconds,omitempty" yaml:"ageSeconds,omitempty"`
	RemainingMinutes *float64   `json:"remainingMinutes,omitempty" yaml:"remainingMinutes,omitempty"`
	ETA              *time.Time `json:"eta,omitempty" yaml:"eta,omitempty"`
}

// Derive returns the Status of the battery at time now, given the (possibly absent) reading r.
func Derive(r *reading.Reading, now time.Time, cfg Config) Status {
	if r == nil {
		return Status{Mode: Unknown, Stale: true}
	}
	produced, ok := r.Time()
	if !ok {
		return Status{Mode: Unknown, Stale: true}
	}

	age := max(now.Sub(produced), 0)
	s := Status{
		Mode:       modeOf(r.Curr),
		Stale:      cfg.StaleAfter > 0 && age > cfg.StaleAfter,
		AgeSeconds: ptr(age.Seconds()),
	}

	if s.Stale || s.Mode != Discharging {
		return s
	}

	remaining, ok := remainingMinutes(*r, cfg)
	if !ok {
		return s
	}
	s.RemainingMinutes = &remaining
	if remaining > 0 {
		s.ETA = ptr(now.Add(time.Duration(remaining * float64(time.Minute))))
	}
	return s
}

func modeOf(current float64) Mode {
	switch {
	case current > 0:
		return Charging
	case current < 0:
		return Discharging
	case current == 0:
		return Idle
	default:
		// NaN
		return Unknown
	}
}

// remainingMinutes returns the time until the usable energy is depleted at the current power draw.
// ok is false if that time is undefined.
func remainingMinutes(r reading.Reading, cfg Config) (float64, bool) {
	usableKWh := cfg.CapacityKWh * (r.SOC - cfg.MinSOC) / 100
	if !isFinite(usableKWh) {
		return 0, false
	}
	if usableKWh <= 0 {
		return 0, true
	}
	powerKW := math.Abs(r.Power) / 1000
	if powerKW == 0 || !isFinite(powerKW) {
		return 0, false
	}
	minutes := usableKWh / powerKW * 60
	if !isFinite(minutes) || minutes > maxRemainingMinutes {
		return 0, false
	}
	return minutes, true
}

// beyond this, now + remaining overflows time.Duration
const maxRemainingMinutes = float64(math.MaxInt64 / int64(time.Minute))

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func ptr[T any](v T) *T {
	return &v
}
