package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"net/http"
	"sync"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_errors_total",
			Help: "Total number of logged errors by error type and level.",
		},
		[]string{"type", "level"},
	)
	APIRequestsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_api_requests_total",
			Help: "Total number of job board API requests by endpoint and status code.",
		},
		[]string{"endpoint", "status"},
	)
	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jobboard_api_request_duration_seconds",
			Help:    "Duration of job board API requests in seconds.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)
	FilterCommitsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_filter_commits_total",
			Help: "Total number of committed filter changes by trigger.",
		},
		[]string{"trigger"},
	)
	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "jobboard_active_sessions",
			Help: "Number of chat sessions currently held in memory.",
		},
	)
)

var registerOnce sync.Once

func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(ErrorsCounter)
		prometheus.MustRegister(APIRequestsCounter)
		prometheus.MustRegister(APIRequestDuration)
		prometheus.MustRegister(FilterCommitsCounter)
		prometheus.MustRegister(ActiveSessions)
	})
}

func Handler() http.Handler {
	Register()
	return promhttp.Handler()
}

func StartMetricsServer(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	go func() {
		log.Fatal(http.ListenAndServe(addr, mux))
	}()
}
