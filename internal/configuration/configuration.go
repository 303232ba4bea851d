// Package configuration holds the configuration keys of battery-exporter and their defaults.
package configuration

import (
	"fmt"
	"time"

	"github.com/clambin/battery-exporter/internal/reading"
	"github.com/clambin/battery-exporter/internal/status"
	"github.com/clambin/go-common/charmer"
	"github.com/spf13/viper"
)

var (
	// Args are the arguments shared by all commands.
	Args = charmer.Arguments{
		"debug":             {Default: false, Help: "Log debug messages"},
		"source.url":        {Default: reading.DefaultURL, Help: "URL of the battery's status document"},
		"source.timeout":    {Default: 10 * time.Second, Help: "Timeout when fetching a reading"},
		"status.staleAfter": {Default: status.DefaultConfig.StaleAfter, Help: "Age after which a reading is stale. 0 disables the check"},
		"status.capacity":   {Default: status.DefaultConfig.CapacityKWh, Help: "Usable capacity of the battery in kWh"},
		"status.minSOC":     {Default: status.DefaultConfig.MinSOC, Help: "Minimum state of charge (percentage) the battery discharges to"},
		"view.timezone":     {Default: "", Help: "Timezone used to show the ETA. Defaults to local time"},
	}
	// MonitorArgs are the arguments of the monitor command.
	MonitorArgs = charmer.Arguments{
		"poller.interval": {Default: 30 * time.Second, Help: "Poller interval"},
		"exporter.addr":   {Default: ":9090", Help: "Address of Prometheus exporter"},
		"health.addr":     {Default: ":8080", Help: "Address of /health, /status and /stream endpoints"},
		"mqtt.url":        {Default: "", Help: "MQTT broker URL (mqtt, mqtts, ws or wss). Empty disables MQTT"},
		"mqtt.topic":      {Default: "battery", Help: "MQTT base topic"},
		"mqtt.clientID":   {Default: "battery-exporter", Help: "MQTT client ID"},
		"slack.webhook":   {Default: "", Help: "Slack incoming webhook URL. Empty disables Slack notifications"},
	}
)

// SetDefaults sets the default value of all arguments in v.
func SetDefaults(v *viper.Viper) error {
	for _, args := range []charmer.Arguments{Args, MonitorArgs} {
		if err := charmer.SetDefaults(v, args); err != nil {
			return err
		}
	}
	return nil
}

// Status returns the configuration of the status derivation.
func Status(v *viper.Viper) status.Config {
	return status.Config{
		StaleAfter:  v.GetDuration("status.staleAfter"),
		CapacityKWh: v.GetFloat64("status.capacity"),
		MinSOC:      v.GetFloat64("status.minSOC"),
	}
}

// Location returns the timezone used to present times. An empty timezone means local time.
func Location(v *viper.Viper) (*time.Location, error) {
	tz := v.GetString("view.timezone")
	if tz == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("view.timezone: %w", err)
	}
	return loc, nil
}
