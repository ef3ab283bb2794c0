package engine

import (
	"fmt"
	"strings"
	"time"
)

// Directions accepted by MoveDirection, in the order GetPossibleMoves reports them
var Directions = []string{"up", "down", "left", "right", "up-left", "up-right", "down-left", "down-right"}

// DirectionDelta maps a direction name to its x,y offset
func DirectionDelta(direction string) (int, int, bool) {
	switch strings.ToLower(direction) {
	case "up":
		return 0, -1, true
	case "down":
		return 0, 1, true
	case "left":
		return -1, 0, true
	case "right":
		return 1, 0, true
	case "up-left":
		return -1, -1, true
	case "up-right":
		return 1, -1, true
	case "down-left":
		return -1, 1, true
	case "down-right":
		return 1, 1, true
	default:
		return 0, 0, false
	}
}

// Target returns the position one step from pos in direction
func Target(pos Position, direction string) (Position, bool) {
	dx, dy, ok := DirectionDelta(direction)
	if !ok {
		return pos, false
	}
	return Position{X: pos.X + dx, Y: pos.Y + dy}, true
}

// CanMoveTo checks if the player can step onto target: it must be adjacent and Empty
func (gs *GameState) CanMoveTo(target Position) bool {
	if !IsAdjacent(gs.Player.Position, target) {
		return false
	}
	return gs.Grid.At(target).Kind == Empty
}

// MovePlayer moves the player to target if the move is legal. On failure
// nothing but the message changes.
func (gs *GameState) MovePlayer(target Position) bool {
	from := gs.Player.Position

	if !InBounds(target) {
		gs.Message = fmt.Sprintf("Can't move to (%d,%d): outside the map", target.X, target.Y)
		return false
	}
	if !IsAdjacent(from, target) {
		gs.Message = fmt.Sprintf("Can't move to (%d,%d): not next to (%d,%d)", target.X, target.Y, from.X, from.Y)
		return false
	}
	if occupant := gs.Grid.At(target); occupant.Kind != Empty {
		gs.Message = fmt.Sprintf("Can't move to (%d,%d): blocked by %s", target.X, target.Y, occupant.Kind)
		return false
	}

	gs.Grid.Set(target, Cell{Kind: Player})
	gs.Grid.Clear(from)
	gs.Player.Position = target
	gs.Message = fmt.Sprintf("You are at (%d,%d).", target.X, target.Y)

	return true
}

// GenerateLocalView creates list of 8 surrounding cells around the player
func (gs *GameState) GenerateLocalView() []SurroundingCell {
	px, py := gs.Player.Position.X, gs.Player.Position.Y

	surroundings := make([]SurroundingCell, len(neighbourOffsets))
	for i, off := range neighbourOffsets {
		pos := Position{X: px + off.dx, Y: py + off.dy}
		sc := SurroundingCell{X: pos.X, Y: pos.Y, Kind: Wall, Letter: WallLetter}
		if InBounds(pos) {
			cell := gs.Grid.At(pos)
			sc.Kind = cell.Kind
			sc.Letter = cell.Letter()
		}
		surroundings[i] = sc
	}

	return surroundings
}

// BuildLocal3x3 renders the 3x3 block centred on the player, walls as #
func (gs *GameState) BuildLocal3x3() []string {
	px, py := gs.Player.Position.X, gs.Player.Position.Y
	lines := make([]string, 0, 3)
	for dy := -1; dy <= 1; dy++ {
		var row strings.Builder
		for dx := -1; dx <= 1; dx++ {
			pos := Position{X: px + dx, Y: py + dy}
			if !InBounds(pos) {
				row.WriteString(WallLetter)
				continue
			}
			row.WriteString(gs.Grid.At(pos).Letter())
		}
		lines = append(lines, row.String())
	}
	return lines
}

// AddMoveToHistory adds a move to the game's move history
func (gs *GameState) AddMoveToHistory(action string, fromPos, toPos Position, success bool) {
	entry := MoveHistoryEntry{
		Action:       action,
		FromPosition: fromPos,
		ToPosition:   toPos,
		Timestamp:    time.Now().Unix(),
		Success:      success,
		MoveNumber:   gs.TotalMoves + 1,
	}
	// Append to cumulative history (never cleared by reset) and increment total
	gs.MoveHistory = append(gs.MoveHistory, entry)
	gs.TotalMoves++

	// Append to current segment history and increment its counter
	gs.CurrentMoves = append(gs.CurrentMoves, entry)
	gs.CurrentMovesCount++
}
