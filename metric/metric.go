// Package metric owns the prometheus registry and the engine's counters.
// Hosts that want to expose the registry can mount it on their own HTTP
// handler; the engine itself opens no listener.
package metric

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/maplink/map-sync/app"
	"github.com/maplink/map-sync/connection"
)

const CName = "layersync.metric"

type Metric interface {
	app.ComponentRunnable
	Registry() *prometheus.Registry
	// RecordSync counts a finished synchronization action.
	RecordSync(direction connection.Direction, styleOnly bool, err error)
	// RecordStatus counts a classification outcome.
	RecordStatus(status connection.SyncStatus)
}

func New() Metric {
	return new(metric)
}

type metric struct {
	registry    *prometheus.Registry
	syncsTotal  *prometheus.CounterVec
	checksTotal *prometheus.CounterVec
}

func (m *metric) Init(a *app.App) (err error) {
	m.registry = prometheus.NewRegistry()
	m.syncsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "layersync",
		Name:      "syncs_total",
		Help:      "finished synchronization actions",
	}, []string{"direction", "scope", "result"})
	m.checksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "layersync",
		Name:      "status_checks_total",
		Help:      "status classification outcomes",
	}, []string{"status"})
	if err = m.registry.Register(m.syncsTotal); err != nil {
		return
	}
	return m.registry.Register(m.checksTotal)
}

func (m *metric) Name() (name string) {
	return CName
}

func (m *metric) Run(ctx context.Context) (err error) {
	return m.registry.Register(collectors.NewGoCollector())
}

func (m *metric) Close(ctx context.Context) (err error) {
	return nil
}

func (m *metric) Registry() *prometheus.Registry {
	return m.registry
}

func (m *metric) RecordSync(direction connection.Direction, styleOnly bool, err error) {
	scope := "full"
	if styleOnly {
		scope = "style"
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.syncsTotal.WithLabelValues(string(direction), scope, result).Inc()
}

func (m *metric) RecordStatus(status connection.SyncStatus) {
	m.checksTotal.WithLabelValues(string(status)).Inc()
}
