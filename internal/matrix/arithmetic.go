package matrix

// Plus acquires a matrix of a's size from p and fills it with a + b.
func Plus(p *Pool, a, b View) (*Matrix, error) {
	m, err := p.Acquire(a.Size())
	if err != nil {
		return nil, err
	}
	PlusInto(m.View(), a, b)
	return m, nil
}

// Minus acquires a matrix of a's size from p and fills it with a - b.
func Minus(p *Pool, a, b View) (*Matrix, error) {
	m, err := p.Acquire(a.Size())
	if err != nil {
		return nil, err
	}
	MinusInto(m.View(), a, b)
	return m, nil
}

// PlusInto writes a + b into dst. dst may be a or b.
func PlusInto(dst, a, b View) {
	for i := 0; i < dst.Size(); i++ {
		d, x, y := dst.Row(i), a.Row(i), b.Row(i)
		for j := range d {
			d[j] = x[j] + y[j]
		}
	}
}

// MinusInto writes a - b into dst. dst may be a or b.
func MinusInto(dst, a, b View) {
	for i := 0; i < dst.Size(); i++ {
		d, x, y := dst.Row(i), a.Row(i), b.Row(i)
		for j := range d {
			d[j] = x[j] - y[j]
		}
	}
}
