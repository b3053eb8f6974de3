// Package timeseries records transient simulation output and renders it.
//
// A Recording is a time axis plus one column per state entry, filled
// row-by-row as a run progresses. PlotPNG renders selected columns as a
// line chart for quick inspection of a run.
package timeseries
