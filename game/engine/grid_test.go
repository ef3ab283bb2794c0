package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGrid_AllEmpty(t *testing.T) {
	grid := NewGrid()

	assert.Equal(t, GridSize*GridSize, grid.Count(Empty))
	assert.Equal(t, 0, grid.Count(Player))
}

func TestNeighbors_Counts(t *testing.T) {
	tests := []struct {
		name     string
		pos      Position
		expected int
	}{
		{"top-left corner", Position{X: 0, Y: 0}, 3},
		{"top-right corner", Position{X: 9, Y: 0}, 3},
		{"bottom-left corner", Position{X: 0, Y: 9}, 3},
		{"bottom-right corner", Position{X: 9, Y: 9}, 3},
		{"top edge", Position{X: 4, Y: 0}, 5},
		{"left edge", Position{X: 0, Y: 5}, 5},
		{"interior", Position{X: 5, Y: 5}, 8},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			neighbours := Neighbors(test.pos)
			assert.Len(t, neighbours, test.expected)
			for _, n := range neighbours {
				assert.True(t, InBounds(n), "neighbour %v out of bounds", n)
				assert.Equal(t, 1, ChebyshevDistance(test.pos, n))
			}
		})
	}
}

func TestNeighbors_Origin(t *testing.T) {
	neighbours := Neighbors(Position{X: 0, Y: 0})

	assert.ElementsMatch(t, []Position{{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}, neighbours)
}

func TestIsAdjacent(t *testing.T) {
	center := Position{X: 4, Y: 4}

	assert.True(t, IsAdjacent(center, Position{X: 5, Y: 5}), "diagonal")
	assert.True(t, IsAdjacent(center, Position{X: 4, Y: 3}), "straight")
	assert.False(t, IsAdjacent(center, center), "self")
	assert.False(t, IsAdjacent(center, Position{X: 6, Y: 4}), "two away")
	assert.False(t, IsAdjacent(Position{X: 0, Y: 0}, Position{X: 9, Y: 0}), "no wraparound")
}

func TestGrid_SetAtClear(t *testing.T) {
	grid := NewGrid()
	pos := Position{X: 3, Y: 7}

	grid.Set(pos, Cell{Kind: Hint, Hint: &HintEntity{Position: pos, Text: "hello"}})
	require.Equal(t, Hint, grid.At(pos).Kind)
	assert.Equal(t, "hello", grid.At(pos).Hint.Text)
	assert.Equal(t, HintLetter, grid.At(pos).Letter())

	grid.Clear(pos)
	assert.Equal(t, Empty, grid.At(pos).Kind)
	assert.True(t, grid.At(pos).Found)
	assert.Nil(t, grid.At(pos).Hint)
}

func TestGrid_PositionsOf(t *testing.T) {
	grid := NewGrid()
	grid.Set(Position{X: 2, Y: 1}, Cell{Kind: Crate, Crate: &CrateEntity{}})
	grid.Set(Position{X: 0, Y: 3}, Cell{Kind: Crate, Crate: &CrateEntity{}})

	assert.Equal(t, []Position{{X: 2, Y: 1}, {X: 0, Y: 3}}, grid.PositionsOf(Crate))
	assert.Equal(t, 2, grid.Count(Crate))
}

func TestCellLetter(t *testing.T) {
	tests := []struct {
		name     string
		cell     Cell
		expected string
	}{
		{"empty", Cell{Kind: Empty}, "-"},
		{"player", Cell{Kind: Player}, "!"},
		{"unpowered generator", Cell{Kind: Generator, Generator: &GeneratorEntity{}}, "g"},
		{"powered generator", Cell{Kind: Generator, Generator: &GeneratorEntity{Powered: true}}, "G"},
		{"crate", Cell{Kind: Crate, Crate: &CrateEntity{}}, "c"},
		{"hint", Cell{Kind: Hint, Hint: &HintEntity{}}, "h"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, test.cell.Letter())
		})
	}
}
