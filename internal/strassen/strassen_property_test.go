package strassen

import (
	"context"
	"testing"

	"github.com/agbru/matcalc/internal/matrix"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// propertyEngine returns an engine with leaves small enough that property inputs
// of a few dozen elements still recurse several levels.
func propertyEngine(spawnDepth int) *Engine {
	return NewEngine(Options{LeafSize: 2, SpawnDepth: spawnDepth, Threads: 3})
}

// propertyBounds are the element ranges tried; zero means the full int64
// range.
var propertyBounds = []int64{0, 1, 9, 1 << 20}

// TestStrassenMatchesNaive_PropertyBased checks FastMultiply against the
// naive product for random power-of-two sizes, seeds, value ranges and spawn
// depths, including unbounded values that overflow.
func TestStrassenMatchesNaive_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 60
	properties := gopter.NewProperties(parameters)

	properties.Property("FastMultiply equals Multiply", prop.ForAll(
		func(exp int, seed uint64, boundIdx int, spawnDepth int) bool {
			n := 1 << exp
			bound := propertyBounds[boundIdx]
			a, b := matrix.New(n), matrix.New(n)
			a.FillRandom(seed, bound)
			b.FillRandom(seed+1, bound)

			e := propertyEngine(spawnDepth)
			fast, err := e.FastMultiply(context.Background(), a, b)
			if err != nil {
				t.Logf("FastMultiply(n=%d): %v", n, err)
				return false
			}
			naive, err := e.Multiply(context.Background(), a, b)
			if err != nil {
				t.Logf("Multiply(n=%d): %v", n, err)
				return false
			}
			return fast.Equal(naive) && e.Stats().Depth == 0
		},
		gen.IntRange(0, 5),
		gen.UInt64(),
		gen.IntRange(0, len(propertyBounds)-1),
		gen.IntRange(0, 3),
	))

	properties.TestingRun(t)
}

// TestIdentityAndZero_PropertyBased checks A*I == A and A*0 == 0.
func TestIdentityAndZero_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 40
	properties := gopter.NewProperties(parameters)

	properties.Property("A times identity is A", prop.ForAll(
		func(exp int, seed uint64) bool {
			n := 1 << exp
			a, id := matrix.New(n), matrix.New(n)
			a.FillRandom(seed, 0)
			id.FillIdentity()
			got, err := propertyEngine(1).FastMultiply(context.Background(), a, id)
			return err == nil && got.Equal(a)
		},
		gen.IntRange(0, 5),
		gen.UInt64(),
	))

	properties.Property("A times zero is zero", prop.ForAll(
		func(exp int, seed uint64) bool {
			n := 1 << exp
			a, zero := matrix.New(n), matrix.New(n)
			a.FillRandom(seed, 0)
			got, err := propertyEngine(2).FastMultiply(context.Background(), a, zero)
			return err == nil && got.Equal(zero)
		},
		gen.IntRange(0, 5),
		gen.UInt64(),
	))

	properties.TestingRun(t)
}

// TestPoolOutstanding_PropertyBased checks that for any interleaving of
// acquires and releases of one size the outstanding count is
// acquires - releases, and that Clear forces the next Acquire to miss.
func TestPoolOutstanding_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("outstanding equals acquires minus releases", prop.ForAll(
		func(ops []bool) bool {
			p := matrix.NewPool(0)
			var held []*matrix.Matrix
			acquires, releases := 0, 0
			for _, acquire := range ops {
				if acquire || len(held) == 0 {
					m, err := p.Acquire(4)
					if err != nil {
						return false
					}
					held = append(held, m)
					acquires++
					continue
				}
				p.Release(held[len(held)-1])
				held = held[:len(held)-1]
				releases++
			}
			if p.Stats().Outstanding[4] != acquires-releases {
				return false
			}
			for _, m := range held {
				p.Release(m)
			}
			p.Clear()
			before := p.Stats().Misses
			if _, err := p.Acquire(4); err != nil {
				return false
			}
			return p.Stats().Misses == before+1
		},
		gen.SliceOf(gen.Bool()),
	))

	properties.TestingRun(t)
}
