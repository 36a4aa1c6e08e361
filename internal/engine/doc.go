// Package engine runs the analysis: the scheduler fans (module, checker)
// units out over bounded worker pools with per-unit timeouts, and the
// aggregator folds the resulting fragments into a single ordered report with
// an issue count.
package engine
