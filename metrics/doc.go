// Package metrics defines the injected metrics collector consumed by the
// steady solver and the transient engine.
//
// The collector is an explicit dependency passed through options rather
// than a process-wide singleton, so that batch runs on separate engines can
// report into separate registries (or into none, via Nop).
//
// NewPrometheus registers counters for solve outcomes and cache events
// plus histograms for iteration counts and solve duration on a caller
// supplied prometheus.Registerer.
package metrics
