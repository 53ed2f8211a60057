// Package metrics exposes analysis counters to Prometheus.
package metrics

import (
	"github.com/dhamidi/themis/project"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PhaseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "themis_phase_seconds",
		Help:    "Time spent in one analysis phase.",
		Buckets: prometheus.DefBuckets,
	}, []string{"phase"})

	AnalysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "themis_analyses_total",
		Help: "Total number of analysis runs by outcome.",
	}, []string{"outcome"})

	Files = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "themis_files",
		Help: "Source files analysed in the last run.",
	})

	Classes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "themis_classes",
		Help: "Types declared in the files of the last run.",
	})

	Lines = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "themis_lines",
		Help: "Source lines read in the last run.",
	})

	Unresolved = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "themis_unresolved_names",
		Help: "Distinct type names left unresolved by the last run.",
	})

	Diagnostics = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "themis_diagnostics",
		Help: "Diagnostics of the last run by severity.",
	}, []string{"severity"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "themis_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})
)

// Observe records the outcome of an analysis run.
func Observe(r *project.Report) {
	outcome := "ok"
	if r.Failed() {
		outcome = "failed"
	}
	AnalysesTotal.WithLabelValues(outcome).Inc()

	for _, p := range r.Phases {
		PhaseDuration.WithLabelValues(p.Name).Observe(p.Duration.Seconds())
	}
	Files.Set(float64(r.Files))
	Classes.Set(float64(r.Classes))
	Lines.Set(float64(r.Lines))
	Unresolved.Set(float64(len(r.Unresolved)))

	fatal, warnings := 0, 0
	for _, d := range r.Diagnostics {
		if d.Fatal {
			fatal++
		} else {
			warnings++
		}
	}
	Diagnostics.WithLabelValues("fatal").Set(float64(fatal))
	Diagnostics.WithLabelValues("warning").Set(float64(warnings))
}
