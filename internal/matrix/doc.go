// Package matrix provides the square int64 matrices multiplied by matcalc,
// non-owning sub-block views over them, a size-bucketed pool that recycles
// scratch matrices, and the elementwise arithmetic used by the Strassen
// recombination.
//
// Elements wrap modulo 2^64 on overflow. Every algorithm in matcalc uses the
// same wrapping arithmetic, so products computed by different algorithms
// agree bit-for-bit.
package matrix
