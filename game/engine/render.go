package engine

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// WriteMap prints every cell's letter row by row, each row suffixed with its
// index and the column indexes underneath.
func (gs *GameState) WriteMap(w io.Writer) error {
	for y := 0; y < GridSize; y++ {
		var row strings.Builder
		row.WriteString("[ ")
		for x := 0; x < GridSize; x++ {
			row.WriteString(gs.Grid[y][x].Letter())
			if x == GridSize-1 {
				row.WriteString(" ")
			} else {
				row.WriteString("  ")
			}
		}
		if _, err := fmt.Fprintf(w, "%s] %d\n", row.String(), y); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w, columnFooter())
	return err
}

// Render returns the map as WriteMap would print it
func (gs *GameState) Render() string {
	var sb strings.Builder
	gs.WriteMap(&sb)
	return sb.String()
}

// DescribeSituation tells the player where they stand and what is within reach
func (gs *GameState) DescribeSituation() string {
	pos := gs.Player.Position
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are at (%d,%d).\n", pos.X, pos.Y)

	nearby := gs.Interactables()
	if len(nearby) == 0 {
		sb.WriteString("Nothing to see here...")
		return sb.String()
	}

	letters := make([]string, 0, len(nearby))
	for letter := range nearby {
		letters = append(letters, letter)
	}
	sort.Strings(letters)

	sb.WriteString("Within reach:")
	for _, letter := range letters {
		p := nearby[letter]
		fmt.Fprintf(&sb, " %s (%d,%d)", letter, p.X, p.Y)
	}
	return sb.String()
}

func columnFooter() string {
	var sb strings.Builder
	for x := 0; x < GridSize; x++ {
		fmt.Fprintf(&sb, "  %d", x)
	}
	return sb.String()
}
