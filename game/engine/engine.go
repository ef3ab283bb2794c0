package engine

import (
	"fmt"
	"strings"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	SetState(state *GameState) error
	Reset() *GameState
	GetPlayer() PlayerState
	GetPlayerPosition() Position

	// Movement operations
	Move(target Position) bool
	MoveDirection(direction string) bool
	CanMove(direction string) bool
	GetPossibleMoves() []string

	// Interaction
	Interact(letter string) (*Interaction, bool)
	TakeFromCrate() ([]string, bool)

	// Display
	Render() string
	DescribeSituation() string
	GetLocalView() []SurroundingCell

	// Configuration
	GetConfig() *GameConfig
	SetConfig(config *GameConfig) error

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry
}

// GameEngine implements the Engine interface
type GameEngine struct {
	state  *GameState
	config *GameConfig
}

// NewEngine creates a new game engine with the provided configuration
func NewEngine(config *GameConfig) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	engine := &GameEngine{
		config: config,
		state:  InitGameStateFromConfig(config),
	}

	return engine, nil
}

// NewEngineWithDefaults creates a new game engine on the original map
func NewEngineWithDefaults() *GameEngine {
	config := DefaultConfig()
	return &GameEngine{
		config: config,
		state:  InitGameStateFromConfig(config),
	}
}

// GetState returns the current game state
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// SetState sets the game state (used for persistence loading)
func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if !InBounds(state.Player.Position) {
		return fmt.Errorf("player position (%d,%d) is outside the map", state.Player.Position.X, state.Player.Position.Y)
	}
	if state.Grid.At(state.Player.Position).Kind != Player {
		return fmt.Errorf("player position (%d,%d) does not hold the player", state.Player.Position.X, state.Player.Position.Y)
	}
	if n := state.Grid.Count(Player); n != 1 {
		return fmt.Errorf("grid holds %d player cells, want exactly 1", n)
	}
	e.state = state
	return nil
}

// Reset rebuilds the map from the config
func (e *GameEngine) Reset() *GameState {
	// Preserve cumulative history and totals across resets
	prevHistory := e.state.MoveHistory
	prevTotal := e.state.TotalMoves

	e.state = InitGameStateFromConfig(e.config)

	e.state.MoveHistory = prevHistory
	e.state.TotalMoves = prevTotal
	e.state.CurrentMoves = []MoveHistoryEntry{}
	e.state.CurrentMovesCount = 0

	return e.state
}

// GetPlayer returns a copy of the player
func (e *GameEngine) GetPlayer() PlayerState {
	return e.state.Player
}

// GetPlayerPosition returns the current player position
func (e *GameEngine) GetPlayerPosition() Position {
	return e.state.Player.Position
}

// Move attempts to move the player onto target
func (e *GameEngine) Move(target Position) bool {
	prevPos := e.state.Player.Position
	success := e.state.MovePlayer(target)

	e.state.AddMoveToHistory(fmt.Sprintf("to(%d,%d)", target.X, target.Y), prevPos, target, success)

	return success
}

// MoveDirection attempts to move the player one step in direction
func (e *GameEngine) MoveDirection(direction string) bool {
	prevPos := e.state.Player.Position
	action := strings.ToLower(direction)

	target, ok := Target(prevPos, direction)
	if !ok {
		e.state.Message = fmt.Sprintf("Unknown direction %q", direction)
		e.state.AddMoveToHistory(action, prevPos, prevPos, false)
		return false
	}

	success := e.state.MovePlayer(target)
	e.state.AddMoveToHistory(action, prevPos, target, success)

	return success
}

// CanMove checks if the player can move in the specified direction
func (e *GameEngine) CanMove(direction string) bool {
	target, ok := Target(e.state.Player.Position, direction)
	if !ok {
		return false
	}
	return e.state.CanMoveTo(target)
}

// GetPossibleMoves returns all valid directions the player can move
func (e *GameEngine) GetPossibleMoves() []string {
	var possible []string
	for _, dir := range Directions {
		if e.CanMove(dir) {
			possible = append(possible, dir)
		}
	}
	return possible
}

// BulkMove executes moves in sequence, stopping at the first blocked one
func (e *GameEngine) BulkMove(moves []string) []bool {
	results := make([]bool, 0, len(moves))

	for _, direction := range moves {
		success := e.MoveDirection(direction)
		results = append(results, success)
		if !success {
			break
		}
	}

	return results
}

// Interact describes the neighbouring object shown as letter
func (e *GameEngine) Interact(letter string) (*Interaction, bool) {
	return e.state.Interact(letter)
}

// TakeFromCrate moves a neighbouring crate's contents into the inventory
func (e *GameEngine) TakeFromCrate() ([]string, bool) {
	return e.state.TakeFromCrate()
}

// Render returns the printable map
func (e *GameEngine) Render() string {
	return e.state.Render()
}

// DescribeSituation returns a short description of the player's surroundings
func (e *GameEngine) DescribeSituation() string {
	return e.state.DescribeSituation()
}

// GetLocalView returns the local view around the player
func (e *GameEngine) GetLocalView() []SurroundingCell {
	return e.state.GenerateLocalView()
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// SetConfig sets a new game configuration and resets the game
func (e *GameEngine) SetConfig(config *GameConfig) error {
	if err := ValidateGameConfig(config); err != nil {
		return err
	}

	e.config = config
	e.state = InitGameStateFromConfig(config)
	return nil
}

// GetMoveHistory returns the complete move history
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	return e.state.MoveHistory
}

// GetLastMove returns the last move made, or nil if no moves
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.state.MoveHistory) == 0 {
		return nil
	}
	return &e.state.MoveHistory[len(e.state.MoveHistory)-1]
}
