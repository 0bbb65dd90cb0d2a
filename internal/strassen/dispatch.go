package strassen

import (
	"context"

	"github.com/agbru/matcalc/internal/matrix"
	"github.com/agbru/matcalc/internal/progress"
	"golang.org/x/sync/errgroup"
)

type opKind uint8

const (
	opView opKind = iota
	opPlus
	opMinus
)

// operand is one factor of a Strassen product: a quadrant used as is, or the
// sum or difference of two quadrants.
type operand struct {
	kind opKind
	x, y matrix.View
}

func view(x matrix.View) operand { return operand{kind: opView, x: x} }

func plus(x, y matrix.View) operand { return operand{kind: opPlus, x: x, y: y} }

func minus(x, y matrix.View) operand { return operand{kind: opMinus, x: x, y: y} }

func (o operand) owned() bool { return o.kind != opView }

// branch is one of the seven products p1..p7.
type branch struct {
	left, right operand
}

func (b branch) operands() [2]operand { return [2]operand{b.left, b.right} }

// branchesOf returns Strassen's seven products of a and b:
//
//	p1 = (A11+A22)(B11+B22)   p5 = (A11+A12)B22
//	p2 = (A21+A22)B11         p6 = (A21-A11)(B11+B12)
//	p3 = A11(B12-B22)         p7 = (A12-A22)(B21+B22)
//	p4 = A22(B21-B11)
func branchesOf(a, b matrix.View) [7]branch {
	a11, a12, a21, a22 := a.Quadrants()
	b11, b12, b21, b22 := b.Quadrants()
	return [7]branch{
		{plus(a11, a22), plus(b11, b22)},
		{plus(a21, a22), view(b11)},
		{view(a11), minus(b12, b22)},
		{view(a22), minus(b21, b11)},
		{plus(a11, a12), view(b22)},
		{minus(a21, a11), plus(b11, b12)},
		{minus(a12, a22), plus(b21, b22)},
	}
}

// recombine fills the quadrants of c from the seven products:
//
//	C11 = p1 + p4 - p5 + p7
//	C12 = p3 + p5
//	C21 = p2 + p4
//	C22 = p1 + p3 - p2 + p6
func recombine(c matrix.View, p *[7]*matrix.Matrix) {
	p1, p2, p3, p4 := p[0].View(), p[1].View(), p[2].View(), p[3].View()
	p5, p6, p7 := p[4].View(), p[5].View(), p[6].View()
	c11, c12, c21, c22 := c.Quadrants()

	matrix.PlusInto(c11, p1, p4)
	matrix.MinusInto(c11, c11, p5)
	matrix.PlusInto(c11, c11, p7)

	matrix.PlusInto(c12, p3, p5)

	matrix.PlusInto(c21, p2, p4)

	matrix.PlusInto(c22, p1, p3)
	matrix.MinusInto(c22, c22, p2)
	matrix.PlusInto(c22, c22, p6)
}

// dispatch computes the seven products into products. Beyond SpawnDepth the
// products run one after the other on the calling goroutine. Otherwise each
// runs on its own goroutine of an errgroup; with MaxWorkers set, a product
// that cannot take a worker slot runs inline. Slots are only ever tried, never
// waited for, so nested levels cannot deadlock on them.
//
// On error, products already computed are left in products for the caller
// to release.
func (e *Engine) dispatch(ctx context.Context, tracker *progress.Tracker, branches [7]branch, products *[7]*matrix.Matrix, level int) error {
	if level > e.opts.SpawnDepth {
		branchesTotal.WithLabelValues(modeSequential).Add(7)
		for i, br := range branches {
			p, err := e.product(ctx, tracker, br, level)
			if err != nil {
				return err
			}
			products[i] = p
		}
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	var inlineErr error
	for i, br := range branches {
		if e.workers != nil && !e.workers.TryAcquire(1) {
			e.inlined.Add(1)
			branchesTotal.WithLabelValues(modeInline).Inc()
			p, err := e.product(gctx, tracker, br, level)
			if err != nil {
				inlineErr = err
				cancel()
				break
			}
			products[i] = p
			continue
		}

		e.spawned.Add(1)
		branchesTotal.WithLabelValues(modeSpawned).Inc()
		g.Go(func() error {
			if e.workers != nil {
				defer e.workers.Release(1)
			}
			p, err := e.product(gctx, tracker, br, level)
			products[i] = p
			return err
		})
	}

	err := g.Wait()
	if inlineErr != nil {
		return inlineErr
	}
	return err
}

// product builds the two operands of br, multiplies them one level deeper
// and releases the operands.
func (e *Engine) product(ctx context.Context, tracker *progress.Tracker, br branch, level int) (*matrix.Matrix, error) {
	var views [2]matrix.View
	var scratch [2]*matrix.Matrix
	defer releaseAll(e.pool, scratch[:])

	for k, op := range br.operands() {
		v, m, err := e.build(op)
		if err != nil {
			return nil, err
		}
		views[k], scratch[k] = v, m
	}
	return e.segment(ctx, tracker, views[0], views[1], level)
}

// build materializes a sum or difference operand in a pooled matrix, or
// returns a plain quadrant unchanged.
func (e *Engine) build(op operand) (matrix.View, *matrix.Matrix, error) {
	if !op.owned() {
		return op.x, nil, nil
	}
	var (
		m   *matrix.Matrix
		err error
	)
	if op.kind == opPlus {
		m, err = matrix.Plus(e.pool, op.x, op.y)
	} else {
		m, err = matrix.Minus(e.pool, op.x, op.y)
	}
	if err != nil {
		return matrix.View{}, nil, err
	}
	return m.View(), m, nil
}
