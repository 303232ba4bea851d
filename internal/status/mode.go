package status

import (
	"fmt"
)

// Mode is the operating mode of the battery, derived from the sign of its current.
type Mode int

const (
	Unknown Mode = iota
	Charging
	Idle
	Discharging
)

var modeNames = map[Mode]string{
	Unknown:     "unknown",
	Charging:    "charging",
	Idle:        "idle",
	Discharging: "discharging",
}

// Modes lists all modes, in order.
var Modes = []Mode{Unknown, Charging, Idle, Discharging}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	for mode, name := range modeNames {
		if name == string(text) {
			*m = mode
			return nil
		}
	}
	return fmt.Errorf("invalid mode: %q", string(text))
}
