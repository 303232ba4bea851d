// Package view renders a battery snapshot as text, for display in a dashboard or on a terminal.
package view

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/clambin/battery-exporter/internal/status"
	"github.com/clambin/battery-exporter/internal/tracker"
)

type View struct {
	StateOfCharge string `json:"soc" yaml:"soc"`
	Mode          string `json:"mode" yaml:"mode"`
	Offline       bool   `json:"offline" yaml:"offline"`
	Voltage       string `json:"voltage" yaml:"voltage"`
	Current       string `json:"current" yaml:"current"`
	Power         string `json:"power" yaml:"power"`
	Remaining     string `json:"remaining,omitempty" yaml:"remaining,omitempty"`
	ETA           string `json:"eta,omitempty" yaml:"eta,omitempty"`
	LastUpdated   string `json:"lastUpdated,omitempty" yaml:"lastUpdated,omitempty"`
	Countdown     string `json:"countdown,omitempty" yaml:"countdown,omitempty"`
}

// New renders the snapshot. Clock times are shown in location loc.
func New(s tracker.Snapshot, loc *time.Location) View {
	v := View{
		StateOfCharge: "0%",
		Offline:       s.Status.Stale,
		Voltage:       formatVoltage(0),
		Current:       formatCurrent(0),
		Power:         formatPower(0),
		Remaining:     formatRemaining(s.Status.RemainingMinutes),
		ETA:           formatETA(s.Status.ETA, loc),
		LastUpdated:   formatAge(s.Status.AgeSeconds),
	}
	if s.Status.Mode != status.Unknown {
		v.Mode = s.Status.Mode.String()
	}
	if r := s.Reading; r != nil {
		v.StateOfCharge = strconv.FormatFloat(r.SOC, 'f', -1, 64) + "%"
		v.Voltage = formatVoltage(r.Volt)
		v.Current = formatCurrent(r.Curr)
		v.Power = formatPower(r.Power)
	}
	if s.Updated {
		v.Countdown = strconv.Itoa(int(s.Countdown.Seconds())) + "s"
	}
	return v
}

func formatVoltage(v float64) string {
	return fmt.Sprintf("%.1f V", v)
}

func formatCurrent(c float64) string {
	return fmt.Sprintf("%.1f A", c)
}

func formatPower(p float64) string {
	if math.Abs(p) >= 1000 {
		return fmt.Sprintf("%.2f kW", p/1000)
	}
	return strconv.FormatFloat(p, 'f', -1, 64) + " W"
}

func formatRemaining(minutes *float64) string {
	switch {
	case minutes == nil:
		return ""
	case *minutes > 120:
		return fmt.Sprintf("%.1f h remaining", *minutes/60)
	default:
		return fmt.Sprintf("%.0f min remaining", *minutes)
	}
}

func formatETA(eta *time.Time, loc *time.Location) string {
	if eta == nil {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}
	return "ETA: " + eta.In(loc).Format("15:04")
}

func formatAge(seconds *float64) string {
	if seconds == nil {
		return ""
	}
	age := int(*seconds)
	switch {
	case age < 60:
		return fmt.Sprintf("Last updated: %d sec ago", age)
	case age < 3600:
		return fmt.Sprintf("Last updated: %d min ago", age/60)
	case age < 86400:
		return fmt.Sprintf("Last updated: %d h ago", age/3600)
	default:
		return fmt.Sprintf("Last updated: %d days ago", age/86400)
	}
}
