package matrix

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewSubAddressesBlocks(t *testing.T) {
	t.Parallel()
	m := New(4)
	m.FillPattern()
	v := m.View()

	q11, q12, q21, q22 := v.Quadrants()
	assert.Equal(t, m.At(0, 0), q11.At(0, 0))
	assert.Equal(t, m.At(1, 3), q12.At(1, 1))
	assert.Equal(t, m.At(3, 0), q21.At(1, 0))
	assert.Equal(t, m.At(2, 2), q22.At(0, 0))

	inner := q22.Sub(1, 1, 1)
	inner.Set(0, 0, -7)
	assert.Equal(t, int64(-7), m.At(3, 3), "views write through to the owner")
	assert.Equal(t, []int64{m.At(2, 2), m.At(2, 3)}, q22.Row(0))
}

func TestFillPatternMatchesFormula(t *testing.T) {
	t.Parallel()
	m := New(5)
	m.FillPattern()
	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			require.Equal(t, int64((i*5+j)%10+1), m.At(i, j))
		}
	}
}

func TestFillRandomIsDeterministicAndBounded(t *testing.T) {
	t.Parallel()
	a, b := New(8), New(8)
	a.FillRandom(42, 100)
	b.FillRandom(42, 100)
	assert.True(t, a.Equal(b))
	for _, v := range a.Data {
		assert.LessOrEqual(t, v, int64(100))
		assert.GreaterOrEqual(t, v, int64(-100))
	}
	b.FillRandom(43, 100)
	assert.False(t, a.Equal(b))
}

func TestFirstDifference(t *testing.T) {
	t.Parallel()
	a := FromRows([][]int64{{1, 2}, {3, 4}})
	b := FromRows([][]int64{{1, 2}, {3, 5}})
	row, col, found := FirstDifference(a, b)
	require.True(t, found)
	assert.Equal(t, 1, row)
	assert.Equal(t, 1, col)

	_, _, found = FirstDifference(a, a)
	assert.False(t, found)
	_, _, found = FirstDifference(a, New(3))
	assert.True(t, found)
}

func TestFromRowsPanicsOnRaggedInput(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { FromRows([][]int64{{1, 2}, {3}}) })
}

func TestStringRendersRows(t *testing.T) {
	t.Parallel()
	m := FromRows([][]int64{{1, -2}, {30, 4}})
	assert.Equal(t, "1 -2\n30 4\n", m.String())
}

func TestPlusMinusAllocateFromPool(t *testing.T) {
	t.Parallel()
	p := NewPool(0)
	a := FromRows([][]int64{{1, 2}, {3, 4}})
	b := FromRows([][]int64{{10, 20}, {30, 40}})

	sum, err := Plus(p, a.View(), b.View())
	require.NoError(t, err)
	assert.Equal(t, []int64{11, 22, 33, 44}, sum.Data)

	diff, err := Minus(p, a.View(), b.View())
	require.NoError(t, err)
	assert.Equal(t, []int64{-9, -18, -27, -36}, diff.Data)
	assert.Equal(t, 2, p.Stats().TotalOutstanding())
}

func TestIntoOperationsAllowAliasing(t *testing.T) {
	t.Parallel()
	m := FromRows([][]int64{
		{1, 2, 3, 4},
		{5, 6, 7, 8},
		{9, 10, 11, 12},
		{13, 14, 15, 16},
	})
	q11, q12, _, q22 := m.View().Quadrants()

	PlusInto(q11, q11, q22)
	assert.Equal(t, []int64{12, 14}, q11.Row(0))
	assert.Equal(t, []int64{20, 22}, q11.Row(1))

	MinusInto(q12, q11, q12)
	assert.Equal(t, []int64{9, 10}, q12.Row(0))
	assert.Equal(t, []int64{13, 14}, q12.Row(1))
}

func TestArithmeticWrapsOnOverflow(t *testing.T) {
	t.Parallel()
	a := FromRows([][]int64{{math.MaxInt64}})
	b := FromRows([][]int64{{1}})
	dst := New(1)
	PlusInto(dst.View(), a.View(), b.View())
	assert.Equal(t, int64(math.MinInt64), dst.At(0, 0))
	MinusInto(dst.View(), dst.View(), b.View())
	assert.Equal(t, int64(math.MaxInt64), dst.At(0, 0))
}

func TestCopyTo(t *testing.T) {
	t.Parallel()
	m := New(4)
	m.FillPattern()
	dst := New(2)
	_, _, _, q22 := m.View().Quadrants()
	q22.CopyTo(dst)
	assert.Equal(t, []int64{m.At(2, 2), m.At(2, 3), m.At(3, 2), m.At(3, 3)}, dst.Data)
}
