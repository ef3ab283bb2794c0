package service

import (
	"time"

	"github.com/wricardo/rustark/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// MoveResult contains the result of a move operation
type MoveResult struct {
	Success     bool              `json:"success"`
	GameState   *engine.GameState `json:"game_state"`
	Message     string            `json:"message"`
	Events      []GameEvent       `json:"events,omitempty"`
	Step        *StepInfo         `json:"step,omitempty"`
	AttemptedTo *AttemptInfo      `json:"attempted_to,omitempty"`
	WithinReach []ReachableObject `json:"within_reach,omitempty"`
}

// BulkMoveResult contains the result of multiple moves
type BulkMoveResult struct {
	MovesExecuted  int               `json:"moves_executed"`
	RequestedMoves int               `json:"requested_moves"`
	Success        bool              `json:"success"`
	GameState      *engine.GameState `json:"game_state"`
	Events         []GameEvent       `json:"events"`
	StoppedReason  string            `json:"stopped_reason,omitempty"`
	StopReasonCode string            `json:"stop_reason_code,omitempty"` // blocked_boundary|blocked_occupied|invalid_direction
	StoppedOnMove  int               `json:"stopped_on_move,omitempty"`  // 1-based
	Truncated      bool              `json:"truncated,omitempty"`
	Limit          int               `json:"limit,omitempty"`

	StartPos engine.Position `json:"start_pos"`
	EndPos   engine.Position `json:"end_pos"`

	// Per-step trace for this call only
	Steps []StepInfo `json:"steps,omitempty"`

	AttemptedTo *AttemptInfo `json:"attempted_to,omitempty"`

	Message       string            `json:"message,omitempty"`
	PossibleMoves []string          `json:"possible_moves,omitempty"`
	LocalView3x3  []string          `json:"local_view_3x3,omitempty"`
	WithinReach   []ReachableObject `json:"within_reach,omitempty"`
}

// StepInfo is a compact record for each executed move
type StepInfo struct {
	Idx     int             `json:"idx"`
	Dir     string          `json:"dir"`
	From    engine.Position `json:"from"`
	To      engine.Position `json:"to"`
	Success bool            `json:"success"`
}

// AttemptInfo details the first failed target cell attempted
type AttemptInfo struct {
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Letter   string `json:"letter"`
	Kind     string `json:"kind"`
	Passable bool   `json:"passable"`
}

// ReachableObject is a non-empty neighbour the player can interact with
type ReachableObject struct {
	Letter   string          `json:"letter"`
	Position engine.Position `json:"position"`
}

// InteractResult contains the outcome of interacting with a neighbour
type InteractResult struct {
	Success     bool                `json:"success"`
	Letter      string              `json:"letter"`
	Interaction *engine.Interaction `json:"interaction,omitempty"`
	Message     string              `json:"message"`
	GameState   *engine.GameState   `json:"game_state"`
}

// TakeResult contains the items moved from a crate into the inventory
type TakeResult struct {
	Success   bool              `json:"success"`
	Items     []string          `json:"items"`
	Inventory []string          `json:"inventory"`
	Message   string            `json:"message"`
	GameState *engine.GameState `json:"game_state"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string          `json:"type"` // "move", "interact", "take", "reset"
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
	Position  engine.Position `json:"position,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// ConfigInfo provides information about a game layout
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // identifier to use for session creation
	Name        string `json:"name"`
	Description string `json:"description"`
	Generators  int    `json:"generators"`
	Crates      int    `json:"crates"`
	Hints       int    `json:"hints"`
}
