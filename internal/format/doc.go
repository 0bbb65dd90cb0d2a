// Package format holds the text formatting shared by the CLI and the TUI:
// durations, byte counts, progress bars and ETA estimates.
package format
