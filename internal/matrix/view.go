package matrix

// View is a non-owning square window over a matrix's storage: the element
// (i, j) of the view lives at data[(row+i)*stride + col + j]. Views are
// small values and are passed by value.
type View struct {
	data     []int64
	stride   int
	row, col int
	size     int
}

// Size returns the view's dimension.
func (v View) Size() int { return v.size }

// At returns the element at row i, column j of the view.
func (v View) At(i, j int) int64 {
	return v.data[(v.row+i)*v.stride+v.col+j]
}

// Set stores x at row i, column j of the view.
func (v View) Set(i, j int, x int64) {
	v.data[(v.row+i)*v.stride+v.col+j] = x
}

// Row returns row i of the view as a slice aliasing the backing storage.
func (v View) Row(i int) []int64 {
	start := (v.row+i)*v.stride + v.col
	return v.data[start : start+v.size : start+v.size]
}

// Sub returns the size x size block whose top-left corner is at (row, col)
// of v. Nothing is copied. The block must lie inside v.
func (v View) Sub(row, col, size int) View {
	return View{
		data:   v.data,
		stride: v.stride,
		row:    v.row + row,
		col:    v.col + col,
		size:   size,
	}
}

// Quadrants splits an even-sized view into its four halves.
func (v View) Quadrants() (q11, q12, q21, q22 View) {
	h := v.size / 2
	return v.Sub(0, 0, h), v.Sub(0, h, h), v.Sub(h, 0, h), v.Sub(h, h, h)
}

// CopyTo copies the view into the top-left corner of dst.
func (v View) CopyTo(dst *Matrix) {
	for i := 0; i < v.size; i++ {
		copy(dst.Data[i*dst.Size:i*dst.Size+v.size], v.Row(i))
	}
}
