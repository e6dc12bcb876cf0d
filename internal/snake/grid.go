package snake

// Cells are addressed by a single linear index: row*size + col.

// Row returns the row of cell on a grid of the given size.
func Row(cell, size int) int {
	return cell / size
}

// Col returns the column of cell on a grid of the given size.
func Col(cell, size int) int {
	return cell % size
}

// Index returns the linear index of (row, col).
func Index(row, col, size int) int {
	return row*size + col
}

// Step returns the cell next to cell in direction d.
// ok is false when the move would leave the grid; edges are walls and never wrap.
func Step(cell int, d Direction, size int) (next int, ok bool) {
	row, col := Row(cell, size), Col(cell, size)
	switch d {
	case DirUp:
		row--
	case DirDown:
		row++
	case DirLeft:
		col--
	case DirRight:
		col++
	default:
		return -1, false
	}
	if row < 0 || row >= size || col < 0 || col >= size {
		return -1, false
	}
	return Index(row, col, size), true
}

// startingSnake places a two-cell snake heading right, head two columns right
// of the board centre (clamped so the head stays on the grid).
func startingSnake(size int) []int {
	row := size / 2
	headCol := min(size/2+2, size-1)
	head := Index(row, headCol, size)
	return []int{head, head - 1}
}
