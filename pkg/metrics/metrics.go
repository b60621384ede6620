package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "iot_dashboard"

const (
	KindTelemetry = "telemetry"
	KindSensor    = "sensor"

	TransportHTTP = "http"
	TransportGRPC = "grpc"
	TransportMQTT = "mqtt"
)

var (
	ReadingsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "readings_ingested_total",
		Help:      "Readings written, by kind.",
	}, []string{"kind"})

	AlertsFired = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alerts_fired_total",
		Help:      "Alerts persisted, by type and severity.",
	}, []string{"type", "severity"})

	AlertPersistFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alert_persist_failures_total",
		Help:      "Alert inserts that failed and were skipped.",
	})

	RateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Requests rejected by the per-device limiter, by transport.",
	}, []string{"transport"})

	DevicesMarkedOffline = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "devices_marked_offline_total",
		Help:      "Devices moved to offline by the staleness sweep.",
	})
)

func Handler() http.Handler {
	return promhttp.Handler()
}
