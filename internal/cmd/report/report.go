package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/clambin/battery-exporter/internal/configuration"
	"github.com/clambin/battery-exporter/internal/poller"
	"github.com/clambin/battery-exporter/internal/reading"
	"github.com/clambin/battery-exporter/internal/status"
	"github.com/clambin/battery-exporter/internal/tracker"
	"github.com/clambin/battery-exporter/internal/view"
	"github.com/clambin/go-common/charmer"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var Cmd = cobra.Command{
	Use:   "status",
	Short: "Show the current status of the battery",
	RunE: func(cmd *cobra.Command, _ []string) error {
		v := viper.GetViper()
		loc, err := configuration.Location(v)
		if err != nil {
			return err
		}
		e, err := newEncoder(cmd.OutOrStdout(), v.GetString("output"))
		if err != nil {
			return err
		}
		client := reading.Client{
			HTTPClient: &http.Client{Timeout: v.GetDuration("source.timeout")},
			URL:        v.GetString("source.url"),
		}
		if err = ShowStatus(cmd.Context(), client, configuration.Status(v), time.Now(), loc, e, slog.Default()); err != nil {
			return err
		}
		return e.Close()
	},
}

var args = charmer.Arguments{
	"output": {Default: "yaml", Help: "Output format (yaml|json)"},
}

func init() {
	if err := charmer.SetPersistentFlags(&Cmd, viper.GetViper(), args); err != nil {
		panic("failed to set flags: " + err.Error())
	}
}

type Encoder interface {
	Encode(any) error
}

type encoder interface {
	Encoder
	Close() error
}

func newEncoder(w io.Writer, format string) (encoder, error) {
	switch format {
	case "yaml":
		e := yaml.NewEncoder(w)
		e.SetIndent(2)
		return e, nil
	case "json":
		e := json.NewEncoder(w)
		e.SetIndent("", "  ")
		return jsonEncoder{Encoder: e}, nil
	default:
		return nil, fmt.Errorf("invalid output format %q", format)
	}
}

type jsonEncoder struct {
	*json.Encoder
}

func (jsonEncoder) Close() error { return nil }

type report struct {
	Reading *reading.Reading `json:"reading,omitempty" yaml:"reading,omitempty"`
	Status  status.Status    `json:"status" yaml:"status"`
	View    view.View        `json:"view" yaml:"view"`
}

// ShowStatus fetches a single reading and encodes it, together with the derived status and its presentation.
// If the reading can't be fetched, the status of an absent reading is shown.
func ShowStatus(ctx context.Context, c poller.ReadingGetter, cfg status.Config, now time.Time, loc *time.Location, e Encoder, logger *slog.Logger) error {
	var r *reading.Reading
	if current, err := c.GetReading(ctx); err == nil {
		r = &current
	} else {
		logger.Error("failed to get reading", "err", err)
	}

	s := status.Derive(r, now, cfg)
	return e.Encode(report{
		Reading: r,
		Status:  s,
		View:    view.New(tracker.Snapshot{Reading: r, Status: s, Time: now}, loc),
	})
}
