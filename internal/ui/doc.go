// Package ui holds the color themes shared by the CLI output and the TUI
// dashboard of matcalc.
package ui
