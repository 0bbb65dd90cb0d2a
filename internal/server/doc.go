// Package server exposes the Prometheus registry of a running matcalc
// process over HTTP. It serves /metrics and /healthz for the duration of a
// run and shuts down with it.
package server
