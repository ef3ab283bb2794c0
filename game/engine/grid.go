package engine

// Grid is the fixed-size map, indexed [y][x]
type Grid [GridSize][GridSize]Cell

// neighbourOffsets lists the 8 Chebyshev neighbours, clockwise from north
var neighbourOffsets = []struct{ dx, dy int }{
	{0, -1},  // North
	{1, -1},  // North-East
	{1, 0},   // East
	{1, 1},   // South-East
	{0, 1},   // South
	{-1, 1},  // South-West
	{-1, 0},  // West
	{-1, -1}, // North-West
}

// NewGrid returns a grid where every cell is Empty and undiscovered
func NewGrid() Grid {
	var g Grid
	for y := 0; y < GridSize; y++ {
		for x := 0; x < GridSize; x++ {
			g[y][x] = Cell{Kind: Empty}
		}
	}
	return g
}

// InBounds reports whether pos lies on the grid
func InBounds(pos Position) bool {
	return pos.X >= 0 && pos.X < GridSize && pos.Y >= 0 && pos.Y < GridSize
}

// Neighbors returns the on-grid positions adjacent to pos, diagonals included.
// Corner positions have 3 neighbours, edge positions 5, everything else 8.
func Neighbors(pos Position) []Position {
	result := make([]Position, 0, len(neighbourOffsets))
	for _, off := range neighbourOffsets {
		p := Position{X: pos.X + off.dx, Y: pos.Y + off.dy}
		if InBounds(p) {
			result = append(result, p)
		}
	}
	return result
}

// IsAdjacent reports whether b is one of a's neighbours
func IsAdjacent(a, b Position) bool {
	for _, p := range Neighbors(a) {
		if p == b {
			return true
		}
	}
	return false
}

// At returns the cell at pos. Callers must check bounds.
func (g *Grid) At(pos Position) Cell {
	return g[pos.Y][pos.X]
}

// Set places cell at pos
func (g *Grid) Set(pos Position, cell Cell) {
	g[pos.Y][pos.X] = cell
}

// Clear replaces whatever is at pos with a discovered Empty cell
func (g *Grid) Clear(pos Position) {
	g[pos.Y][pos.X] = Cell{Kind: Empty, Found: true}
}

// Count returns how many cells hold the given kind
func (g *Grid) Count(kind CellKind) int {
	count := 0
	for _, row := range g {
		for _, cell := range row {
			if cell.Kind == kind {
				count++
			}
		}
	}
	return count
}

// PositionsOf returns every position holding the given kind, in row-major order
func (g *Grid) PositionsOf(kind CellKind) []Position {
	var result []Position
	for y, row := range g {
		for x, cell := range row {
			if cell.Kind == kind {
				result = append(result, Position{X: x, Y: y})
			}
		}
	}
	return result
}

// ChebyshevDistance is the number of king moves between two positions
func ChebyshevDistance(from, to Position) int {
	dx := abs(from.X - to.X)
	dy := abs(from.Y - to.Y)
	if dx > dy {
		return dx
	}
	return dy
}

// abs returns the absolute value of x
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
