package strassen

import (
	"context"
	"fmt"

	"github.com/agbru/matcalc/internal/matrix"
)

// ExampleEngine_FastMultiply multiplies two 2x2 matrices with a leaf size of
// one, so the product goes through a full Strassen split.
func ExampleEngine_FastMultiply() {
	e := NewEngine(Options{LeafSize: 1, SpawnDepth: 0})
	a := matrix.FromRows([][]int64{{1, 2}, {3, 4}})
	b := matrix.FromRows([][]int64{{5, 6}, {7, 8}})

	c, err := e.FastMultiply(context.Background(), a, b)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Print(c)
	fmt.Println("recursions:", e.Stats().Recursions)
	// Output:
	// 19 22
	// 43 50
	// recursions: 1
}

// ExampleEngine_Multiply runs the naive baseline on a size that is not a
// power of two.
func ExampleEngine_Multiply() {
	e := NewEngine(Options{Threads: 2})
	a := matrix.FromRows([][]int64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}})

	c, err := e.Multiply(context.Background(), a, a)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Print(c)
	// Output:
	// 30 36 42
	// 66 81 96
	// 102 126 150
}
