package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LinesRead tracks lines read per watched file
	LinesRead = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logship_lines_read_total",
			Help: "Total number of log lines read",
		},
		[]string{"file"},
	)

	// EventsShipped tracks events delivered per transport
	EventsShipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logship_events_shipped_total",
			Help: "Total number of events shipped downstream",
		},
		[]string{"transport"},
	)

	// TransportErrors tracks transport publish failures
	TransportErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logship_transport_errors_total",
			Help: "Total number of transport failures",
		},
		[]string{"transport"},
	)

	// WorkerRespawns tracks supervisor respawn decisions
	WorkerRespawns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "logship_worker_respawns_total",
			Help: "Total number of worker respawns after transport faults",
		},
	)

	// FilesWatched tracks the number of files currently tailed
	FilesWatched = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "logship_files_watched",
			Help: "Number of files currently being tailed",
		},
	)
)
