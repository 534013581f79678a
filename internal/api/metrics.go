package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	commandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "splitbill_commands_total",
		Help: "Session commands applied, by command kind.",
	}, []string{"kind"})

	summariesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitbill_summaries_total",
		Help: "Summary requests served.",
	})

	exportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "splitbill_exports_total",
		Help: "Exports produced, by format.",
	}, []string{"format"})
)
