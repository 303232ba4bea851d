package monitor

import (
	"net/http"
	"time"

	"github.com/clambin/battery-exporter/internal/reading"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "battery",
		Subsystem: "exporter",
		Name:      "http_requests_total",
		Help:      "total number of http requests",
	},
		[]string{"code", "method"},
	)

	requestDuration = prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Namespace: "battery",
		Subsystem: "exporter",
		Name:      "http_request_duration_seconds",
		Help:      "duration of http requests",
	},
		[]string{"code", "method"},
	)
)

func instrumentedReadingClient(url string, timeout time.Duration, counter *prometheus.CounterVec, obs prometheus.ObserverVec) *reading.Client {
	rt := promhttp.InstrumentRoundTripperCounter(counter,
		promhttp.InstrumentRoundTripperDuration(obs,
			http.DefaultTransport,
		),
	)
	return &reading.Client{
		HTTPClient: &http.Client{Transport: rt, Timeout: timeout},
		URL:        url,
	}
}
