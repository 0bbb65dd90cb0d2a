package app

import (
	"github.com/agbru/matcalc/internal/matrix"
)

// randomBound keeps random operands small enough to read when printed.
const randomBound = 100

// NewInputs builds the two n×n operands for an --input kind:
//
//   - "pattern" seeds both with (i*n + j) % 10 + 1.
//   - "random" seeds them from seed and seed+1 with values in [-100, 100].
//   - "identity" pairs a pattern A with the identity, so the product is A.
func NewInputs(kind string, n int, seed uint64) (a, b *matrix.Matrix) {
	a, b = matrix.New(n), matrix.New(n)
	switch kind {
	case "random":
		a.FillRandom(seed, randomBound)
		b.FillRandom(seed+1, randomBound)
	case "identity":
		a.FillPattern()
		b.FillIdentity()
	default:
		a.FillPattern()
		b.FillPattern()
	}
	return a, b
}
