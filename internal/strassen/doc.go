// Package strassen multiplies square int64 matrices with Strassen's
// divide-and-conquer algorithm and with a row-parallel naive baseline.
//
// An Engine owns a matrix.Pool and its own counters, so independent engines
// can run side by side. Above the leaf size, each recursive call splits its
// operands into quadrants, builds the seven Strassen products and recombines
// them. The products of the shallowest SpawnDepth levels run on their own
// goroutines; deeper levels recurse on the calling goroutine. Below the leaf
// size the engine falls back to the naive single-goroutine product.
//
// Both algorithms use wrapping int64 arithmetic, so their results agree
// bit-for-bit for every input, including overflowing ones.
package strassen
