// Package grid converts between linear cell indices and column/row
// coordinates of row-major grids.
package grid

// GetGridCoords returns the column and row of the cell at index in a grid
// that is cols cells wide.
func GetGridCoords(index, cols int) (x, y int) {
	return index % cols, index / cols
}

// GetGridIndex returns the linear index of the cell at column x, row y.
func GetGridIndex(x, y, cols int) int {
	return y*cols + x
}

// Wrap reduces v into [0,size), also for negative values.
func Wrap(v, size int) int {
	v %= size
	if v < 0 {
		v += size
	}
	return v
}
