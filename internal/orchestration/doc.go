// Package orchestration runs kernel requests through one or more evaluators
// and aggregates the results. Verify mode runs the core kernels and the
// reference oracles side by side and compares them; batch mode fans a list of
// requests out over a bounded worker pool.
//
// Presentation is kept out of this package through the ProgressReporter,
// ResultPresenter and ErrorHandler interfaces.
package orchestration
