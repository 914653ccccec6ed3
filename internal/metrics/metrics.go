// Package metrics defines the Prometheus collectors shared by the actor runtime and the
// backoff supervisors. Collectors are registered on the default registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProcessesSpawned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "actor_processes_spawned_total",
			Help: "Total number of spawned actor processes",
		},
	)

	ProcessExits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "actor_process_exits_total",
			Help: "Total number of actor process terminations by reason",
		},
		[]string{"reason"},
	)

	DeadLetters = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "actor_dead_letters_total",
			Help: "Total number of messages routed to the dead letters process",
		},
	)

	SupervisorRestarts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backoff_supervisor_restarts_total",
			Help: "Total number of scheduled child restarts",
		},
		[]string{"child"},
	)

	SupervisorRestartDelay = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backoff_supervisor_restart_delay_seconds",
			Help:    "Computed backoff delay before a child restart",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 14), // 10ms .. ~82s
		},
		[]string{"child"},
	)

	SupervisorRestartCount = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "backoff_supervisor_restart_count",
			Help: "Current restart counter of a backoff supervisor",
		},
		[]string{"child"},
	)

	SupervisorResets = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backoff_supervisor_resets_total",
			Help: "Total number of restart counter resets",
		},
		[]string{"child", "policy"},
	)
)
