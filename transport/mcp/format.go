package mcp

import (
	"fmt"
	"strings"

	"github.com/wricardo/rustark/game/engine"
	"github.com/wricardo/rustark/game/service"
)

// Formatting helpers turn API responses into the plain text agents read

func formatSessionInfo(session *service.SessionInfo) string {
	result := fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\nLast accessed: %s\n",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		session.LastAccessedAt.Format("2006-01-02 15:04:05"))
	if session.GameState != nil {
		result += "\n" + formatGameState(session.GameState)
	}
	return result
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state"
	}

	var sb strings.Builder
	pos := state.Player.Position
	fmt.Fprintf(&sb, "Position: (%d,%d)\n", pos.X, pos.Y)
	fmt.Fprintf(&sb, "Inventory: %s\n", formatInventory(state.Player.Inventory))
	fmt.Fprintf(&sb, "Moves: %d (this segment: %d)\n", state.TotalMoves, state.CurrentMovesCount)
	if state.Message != "" {
		fmt.Fprintf(&sb, "Message: %s\n", state.Message)
	}

	if local := formatLocal3x3(state); local != "" {
		sb.WriteString("\nAround you:\n")
		sb.WriteString(local)
	}

	sb.WriteString("\n")
	sb.WriteString(state.DescribeSituation())
	sb.WriteString("\n")

	if len(state.Player.Achievements) > 0 {
		sb.WriteString("\nAchievements:\n")
		for _, a := range state.Player.Achievements {
			mark := " "
			if a.Achieved {
				mark = "x"
			}
			fmt.Fprintf(&sb, "[%s] %s - %s\n", mark, a.Title, a.Description)
		}
	}

	return sb.String()
}

func formatInventory(items []string) string {
	if len(items) == 0 {
		return "(empty)"
	}
	return strings.Join(items, ", ")
}

func formatMoveResult(result *service.MoveResult) string {
	var sb strings.Builder

	if result.Success {
		sb.WriteString("✓ Move successful\n")
		if s := result.Step; s != nil {
			fmt.Fprintf(&sb, "Step: %s (%d,%d) → (%d,%d)\n", s.Dir, s.From.X, s.From.Y, s.To.X, s.To.Y)
		}
	} else {
		sb.WriteString("✗ Move failed\n")
		if a := result.AttemptedTo; a != nil {
			fmt.Fprintf(&sb, "Blocked at (%d,%d): '%s' %s\n", a.X, a.Y, a.Letter, a.Kind)
		}
	}
	if result.Message != "" {
		fmt.Fprintf(&sb, "Message: %s\n", result.Message)
	}

	if result.GameState != nil {
		pos := result.GameState.Player.Position
		fmt.Fprintf(&sb, "Position: (%d,%d)\n", pos.X, pos.Y)
	}
	sb.WriteString(formatWithinReach(result.WithinReach))

	return sb.String()
}

func formatWithinReach(reach []service.ReachableObject) string {
	if len(reach) == 0 {
		return "Within reach: nothing\n"
	}
	parts := make([]string, 0, len(reach))
	for _, r := range reach {
		parts = append(parts, fmt.Sprintf("%s (%d,%d)", r.Letter, r.Position.X, r.Position.Y))
	}
	return "Within reach: " + strings.Join(parts, ", ") + "\n"
}

func formatBulkMoveResult(sessionID string, result *service.BulkMoveResult) string {
	var sb strings.Builder

	status := "✓ All moves executed"
	if !result.Success {
		status = "✗ Stopped early"
	}
	fmt.Fprintf(&sb, "%s [session %s]\n", status, sessionID)
	fmt.Fprintf(&sb, "Executed %d/%d moves: (%d,%d) → (%d,%d)\n",
		result.MovesExecuted, result.RequestedMoves,
		result.StartPos.X, result.StartPos.Y, result.EndPos.X, result.EndPos.Y)

	if result.Truncated {
		fmt.Fprintf(&sb, "Note: only the first %d moves were considered\n", result.Limit)
	}

	for _, step := range result.Steps {
		fmt.Fprintf(&sb, "  %d. %s (%d,%d) → (%d,%d)\n", step.Idx, step.Dir, step.From.X, step.From.Y, step.To.X, step.To.Y)
	}

	if !result.Success {
		fmt.Fprintf(&sb, "Stopped on move %d: %s [%s]\n", result.StoppedOnMove, result.StoppedReason, result.StopReasonCode)
		if a := result.AttemptedTo; a != nil {
			fmt.Fprintf(&sb, "Blocked at (%d,%d): '%s' %s\n", a.X, a.Y, a.Letter, a.Kind)
		}
	}

	if len(result.LocalView3x3) > 0 {
		sb.WriteString("\nAround you:\n")
		for _, row := range result.LocalView3x3 {
			sb.WriteString("  " + row + "\n")
		}
	}
	if len(result.PossibleMoves) > 0 {
		fmt.Fprintf(&sb, "Possible moves: %s\n", strings.Join(result.PossibleMoves, ", "))
	} else {
		sb.WriteString("Possible moves: none\n")
	}
	sb.WriteString(formatWithinReach(result.WithinReach))

	return sb.String()
}

func formatInteractResult(result *service.InteractResult) string {
	if !result.Success || result.Interaction == nil {
		return fmt.Sprintf("✗ %s\n", result.Message)
	}
	i := result.Interaction
	return fmt.Sprintf("✓ '%s' at (%d,%d) [%s]\n%s\n", i.Letter, i.Position.X, i.Position.Y, i.Kind, i.Description)
}

func formatTakeResult(result *service.TakeResult) string {
	if !result.Success {
		return fmt.Sprintf("✗ %s\n", result.Message)
	}
	if len(result.Items) == 0 {
		return fmt.Sprintf("The crate is empty\nInventory: %s\n", formatInventory(result.Inventory))
	}
	return fmt.Sprintf("✓ Took: %s\nInventory: %s\n", strings.Join(result.Items, ", "), formatInventory(result.Inventory))
}

// formatLocal3x3 prints the 3x3 window around the player
func formatLocal3x3(state *engine.GameState) string {
	rows := state.LocalView3x3
	if len(rows) == 0 {
		rows = state.BuildLocal3x3()
	}
	var sb strings.Builder
	for _, row := range rows {
		sb.WriteString("  " + row + "\n")
	}
	return sb.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Move History (page %d/%d, %d total):\n", history.Page, history.TotalPages, history.TotalMoves)
	for _, m := range history.Moves {
		status := "✓"
		if !m.Success {
			status = "✗"
		}
		fmt.Fprintf(&sb, "  #%d %s %s (%d,%d) → (%d,%d)\n", m.MoveNumber, status, m.Action,
			m.FromPosition.X, m.FromPosition.Y, m.ToPosition.X, m.ToPosition.Y)
	}
	return sb.String()
}

func formatCurrentSegment(state *engine.GameState) string {
	if state == nil {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Since last reset: %d moves\n", state.CurrentMovesCount)
	for _, m := range state.CurrentMoves {
		if m.Success {
			fmt.Fprintf(&sb, "  %s → (%d,%d)\n", m.Action, m.ToPosition.X, m.ToPosition.Y)
		}
	}
	return sb.String()
}

var cellDescriptions = map[engine.CellKind]string{
	engine.Empty:     "Empty floor - you can step here",
	engine.Player:    "You are here",
	engine.Generator: "A generator",
	engine.Crate:     "A crate - take_from_crate when next to it",
	engine.Hint:      "A hint - interact with 'h' when next to it",
}

func describeCell(state *engine.GameState, pos engine.Position) string {
	if !engine.InBounds(pos) {
		return fmt.Sprintf("(%d,%d) is outside the map ('%s'). Coordinates run 0-%d for both x and y.",
			pos.X, pos.Y, engine.WallLetter, engine.GridSize-1)
	}

	cell := state.Grid.At(pos)
	description := cellDescriptions[cell.Kind]
	if cell.Kind == engine.Generator {
		if cell.Letter() == engine.PoweredGeneratorLetter {
			description = "A generator, powered"
		} else {
			description = "A generator, unpowered"
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Cell (%d,%d): '%s'\n", pos.X, pos.Y, cell.Letter())
	fmt.Fprintf(&sb, "Kind: %s\n", cell.Kind)
	fmt.Fprintf(&sb, "Passable: %v\n", cell.Kind == engine.Empty)
	fmt.Fprintf(&sb, "Within reach: %v\n", engine.IsAdjacent(state.Player.Position, pos))
	fmt.Fprintf(&sb, "%s\n", description)
	return sb.String()
}
