package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clambin/battery-exporter/internal/collector"
	"github.com/clambin/battery-exporter/internal/configuration"
	"github.com/clambin/battery-exporter/internal/health"
	"github.com/clambin/battery-exporter/internal/mqtt"
	"github.com/clambin/battery-exporter/internal/notifier"
	"github.com/clambin/battery-exporter/internal/poller"
	"github.com/clambin/battery-exporter/internal/stream"
	"github.com/clambin/battery-exporter/internal/tracker"
	"github.com/clambin/battery-exporter/internal/view"
	"github.com/clambin/go-common/charmer"
	"github.com/clambin/go-common/taskmanager/httpserver"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

var Cmd = cobra.Command{
	Use:   "monitor",
	Short: "Monitor the battery and export its status",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return Run(ctx, viper.GetViper(), cmd.Root().Version, slog.Default())
	},
}

func init() {
	if err := charmer.SetPersistentFlags(&Cmd, viper.GetViper(), configuration.MonitorArgs); err != nil {
		panic("failed to set flags: " + err.Error())
	}
}

type Task interface {
	Run(context.Context) error
}

// Run starts all tasks and waits for them to complete. Canceling the context stops all tasks.
func Run(ctx context.Context, cfg *viper.Viper, version string, logger *slog.Logger) error {
	logger.Info("battery-exporter starting", "version", version)
	defer logger.Info("battery-exporter stopped")

	loc, err := configuration.Location(cfg)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		requestCounter,
		requestDuration,
	)

	client := instrumentedReadingClient(cfg.GetString("source.url"), cfg.GetDuration("source.timeout"), requestCounter, requestDuration)

	var mqttClient mqtt.Client
	if url := cfg.GetString("mqtt.url"); url != "" {
		c, err := mqtt.Connect(url, cfg.GetString("mqtt.clientID"), cfg.GetString("mqtt.topic"), logger.With("component", "mqtt"))
		if err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
		defer c.Disconnect(250)
		mqttClient = c
	}

	return runTasks(ctx, makeTasks(cfg, client, mqttClient, loc, registry, logger)...)
}

func runTasks(ctx context.Context, tasks ...Task) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, task := range tasks {
		g.Go(func() error { return task.Run(ctx) })
	}
	return g.Wait()
}

func makeTasks(cfg *viper.Viper, client poller.ReadingGetter, mqttClient mqtt.Client, loc *time.Location, registry *prometheus.Registry, l *slog.Logger) []Task {
	var tasks []Task

	// Poller
	interval := cfg.GetDuration("poller.interval")
	p := poller.New(client, interval, l.With("component", "poller"))
	tasks = append(tasks, p)

	// Tracker
	t := tracker.New(p, interval, configuration.Status(cfg), l.With("component", "tracker"))
	tasks = append(tasks, t)

	// Collector
	coll := &collector.Collector{Tracker: t, Logger: l.With("component", "collector")}
	registry.MustRegister(coll)

	// Prometheus Server
	m := http.NewServeMux()
	m.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	tasks = append(tasks, httpserver.New(cfg.GetString("exporter.addr"), m))

	// Health, status & stream endpoints
	r := http.NewServeMux()
	r.Handle("/health", health.New(t, l.With("component", "health")))
	r.Handle("/status", view.Handler{Snapshotter: t, Location: loc})
	r.Handle("/stream", stream.Handler{Source: t, Location: loc, Logger: l.With("component", "stream")})
	tasks = append(tasks, httpserver.New(cfg.GetString("health.addr"), r))

	// MQTT
	if mqttClient != nil {
		tasks = append(tasks, &mqtt.Publisher{
			Client: mqttClient,
			Topic:  cfg.GetString("mqtt.topic"),
			Source: t,
			Logger: l.With("component", "mqtt"),
		})
	}

	// Notifications
	n := notifier.Notifiers{notifier.SLogNotifier{Logger: l.With("component", "notifier")}}
	if webhook := cfg.GetString("slack.webhook"); webhook != "" {
		n = append(n, notifier.SlackNotifier{WebhookURL: webhook, Logger: l.With("component", "slack")})
	}
	tasks = append(tasks, &notifier.Watcher{Source: t, Notifier: n, Logger: l.With("component", "watcher")})

	return tasks
}
