// Package logging gives matcalc components a small structured logging
// interface backed by zerolog, so packages log through one API regardless of
// where the output ends up.
package logging
