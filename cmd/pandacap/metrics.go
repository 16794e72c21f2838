package main

import "github.com/prometheus/client_golang/prometheus"

// stopCodeTotal counts every walk outcome by stopcode.StopCode.String(),
// the observability surface a capture driver needs on top of the pure
// engine.Parse call: one counter per taxonomy member (spec.md §7), so an
// operator can see "this interface is mostly LENGTH" without packet
// captures.
var stopCodeTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "pandacap",
		Name:      "stopcode_total",
		Help:      "Count of walk engine terminations by stop code.",
	},
	[]string{"stopcode"},
)

func init() {
	prometheus.MustRegister(stopCodeTotal)
}
