// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricsNamespace = "epic_updater"
	githubNamespace  = "github"
	epicsNamespace   = "epics"

	defaultPrometheusTimeoutSeconds = 60
)

type Provider interface {
	ObserveGithubRequestDuration(handler, method, statusCode string, elapsed float64)
	IncreaseGithubCacheHits(method, handler string)
	IncreaseGithubCacheMisses(method, handler string)

	IncreaseEpicsFound(count int)
	IncreaseEpicUpdates(state string)
	IncreaseEpicUpdateErrors()
	ObserveRunDuration(elapsed float64)
}

type PrometheusProvider struct {
	Registry *prometheus.Registry

	githubRequests    *prometheus.HistogramVec
	githubCacheHits   *prometheus.CounterVec
	githubCacheMisses *prometheus.CounterVec

	epicsFound       prometheus.Counter
	epicUpdates      *prometheus.CounterVec
	epicUpdateErrors prometheus.Counter
	runDuration      prometheus.Histogram
}

func NewPrometheusProvider() *PrometheusProvider {
	provider := &PrometheusProvider{}
	provider.Registry = prometheus.NewRegistry()
	options := prometheus.ProcessCollectorOpts{
		Namespace: metricsNamespace,
	}
	provider.Registry.MustRegister(prometheus.NewProcessCollector(options))
	provider.Registry.MustRegister(prometheus.NewGoCollector())

	provider.githubRequests = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: githubNamespace,
			Name:      "requests",
			Help:      "Duration of the performed github http requests.",
		},
		[]string{"method", "handler", "status_code"},
	)
	provider.Registry.MustRegister(provider.githubRequests)

	provider.githubCacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: githubNamespace,
			Name:      "cache_hits",
			Help:      "Number of cache hits for requested method and handler.",
		},
		[]string{"method", "handler"},
	)
	provider.Registry.MustRegister(provider.githubCacheHits)

	provider.githubCacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: githubNamespace,
			Name:      "cache_miss",
			Help:      "Number of cache misses for requested method and handler.",
		},
		[]string{"method", "handler"},
	)
	provider.Registry.MustRegister(provider.githubCacheMisses)

	provider.epicsFound = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: epicsNamespace,
			Name:      "found",
			Help:      "Number of epics referencing the triggering issue.",
		},
	)
	provider.Registry.MustRegister(provider.epicsFound)

	provider.epicUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: epicsNamespace,
			Name:      "updates",
			Help:      "Number of epic updates by target state.",
		},
		[]string{"state"},
	)
	provider.Registry.MustRegister(provider.epicUpdates)

	provider.epicUpdateErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: epicsNamespace,
			Name:      "update_errors",
			Help:      "Number of failed epic updates.",
		},
	)
	provider.Registry.MustRegister(provider.epicUpdateErrors)

	provider.runDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "run_duration",
			Help:      "Duration of a whole epic update run.",
		},
	)
	provider.Registry.MustRegister(provider.runDuration)

	return provider
}

func (p *PrometheusProvider) ObserveGithubRequestDuration(handler, method, statusCode string, elapsed float64) {
	p.githubRequests.With(
		prometheus.Labels{"method": method, "handler": handler, "status_code": statusCode},
	).Observe(elapsed)
}

func (p *PrometheusProvider) IncreaseGithubCacheHits(method, handler string) {
	p.githubCacheHits.WithLabelValues(method, handler).Add(1)
}

func (p *PrometheusProvider) IncreaseGithubCacheMisses(method, handler string) {
	p.githubCacheMisses.WithLabelValues(method, handler).Add(1)
}

func (p *PrometheusProvider) IncreaseEpicsFound(count int) {
	p.epicsFound.Add(float64(count))
}

func (p *PrometheusProvider) IncreaseEpicUpdates(state string) {
	p.epicUpdates.WithLabelValues(state).Add(1)
}

func (p *PrometheusProvider) IncreaseEpicUpdateErrors() {
	p.epicUpdateErrors.Add(1)
}

func (p *PrometheusProvider) ObserveRunDuration(elapsed float64) {
	p.runDuration.Observe(elapsed)
}

func (p *PrometheusProvider) Handler() Handler {
	handler := promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{
		Timeout:           time.Duration(defaultPrometheusTimeoutSeconds) * time.Second,
		EnableOpenMetrics: true,
	})
	return Handler{
		Path:        "/metrics",
		Description: "Prometheus Metrics",
		Handler:     handler,
	}
}
