// Package orchestration runs the selected matrix multiplications, feeds
// their progress to a reporter and compares their products. Presentation is
// kept behind the ProgressReporter and ResultPresenter interfaces.
package orchestration
