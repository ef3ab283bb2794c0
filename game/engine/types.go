package engine

// CellKind identifies what occupies a grid cell
type CellKind string

const (
	Empty     CellKind = "empty"
	Player    CellKind = "player"
	Generator CellKind = "generator"
	Crate     CellKind = "crate"
	Hint      CellKind = "hint"

	// Wall is never stored in the grid; it marks out-of-bounds cells in local views
	Wall CellKind = "wall"
)

// Letters shown on the map for each kind of occupant
const (
	EmptyLetter              = "-"
	PlayerLetter             = "!"
	UnpoweredGeneratorLetter = "g"
	PoweredGeneratorLetter   = "G"
	CrateLetter              = "c"
	HintLetter               = "h"
	WallLetter               = "#"
)

const (
	// GridSize is the fixed width and height of the map
	GridSize = 10

	// Validation constants
	MaxBulkMoves        = 50
	MaxHintLength       = 500
	MaxCrateItems       = 20
	WebSocketBufferSize = 256
)

// Position represents x,y coordinates (column, row)
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// GeneratorEntity is a generator placed on the map
type GeneratorEntity struct {
	Position Position `json:"position"`
	Powered  bool     `json:"powered"`
	Found    bool     `json:"found"`
}

// Letter returns g or G depending on power
func (g *GeneratorEntity) Letter() string {
	if g.Powered {
		return PoweredGeneratorLetter
	}
	return UnpoweredGeneratorLetter
}

// CrateEntity holds items the player can take
type CrateEntity struct {
	Position Position `json:"position"`
	Contents []string `json:"contents"`
	Found    bool     `json:"found"`
}

// HintEntity is a note left somewhere on the map
type HintEntity struct {
	Position Position `json:"position"`
	Text     string   `json:"text"`
	Found    bool     `json:"found"`
}

// Achievement is a goal the player can reach
type Achievement struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Achieved    bool   `json:"achieved"`
}

// PlayerState is the player: where they stand and what they carry
type PlayerState struct {
	Position     Position      `json:"position"`
	Inventory    []string      `json:"inventory"`
	Achievements []Achievement `json:"achievements"`
}

// Letter returns the player's map letter
func (p *PlayerState) Letter() string {
	return PlayerLetter
}

// Cell is a single grid cell. Kind selects which of the entity pointers is set;
// Empty and Player cells carry none.
type Cell struct {
	Kind      CellKind         `json:"kind"`
	Found     bool             `json:"found,omitempty"`
	Generator *GeneratorEntity `json:"generator,omitempty"`
	Crate     *CrateEntity     `json:"crate,omitempty"`
	Hint      *HintEntity      `json:"hint,omitempty"`
}

// Letter returns the one-character map representation of the cell
func (c Cell) Letter() string {
	switch c.Kind {
	case Player:
		return PlayerLetter
	case Generator:
		if c.Generator != nil {
			return c.Generator.Letter()
		}
		return UnpoweredGeneratorLetter
	case Crate:
		return CrateLetter
	case Hint:
		return HintLetter
	default:
		return EmptyLetter
	}
}

// IsFound reports the discovery flag of whatever occupies the cell
func (c Cell) IsFound() bool {
	switch c.Kind {
	case Generator:
		return c.Generator != nil && c.Generator.Found
	case Crate:
		return c.Crate != nil && c.Crate.Found
	case Hint:
		return c.Hint != nil && c.Hint.Found
	case Player:
		return true
	default:
		return c.Found
	}
}

// SurroundingCell represents a neighbouring cell with its absolute position
type SurroundingCell struct {
	X      int      `json:"x"`
	Y      int      `json:"y"`
	Kind   CellKind `json:"kind"`
	Letter string   `json:"letter"`
}

// Interaction describes the result of interacting with a neighbouring object
type Interaction struct {
	Letter      string   `json:"letter"`
	Kind        CellKind `json:"kind"`
	Position    Position `json:"position"`
	Description string   `json:"description"`
}

// GameState represents the complete game state
type GameState struct {
	Grid        Grid               `json:"grid"`
	Player      PlayerState        `json:"player"`
	Message     string             `json:"message"`
	ConfigName  string             `json:"config_name"`
	MoveHistory []MoveHistoryEntry `json:"move_history"`
	TotalMoves  int                `json:"total_moves"`
	LocalView   []SurroundingCell  `json:"local_view,omitempty"`

	// CurrentMoves tracks only the moves since the last reset. It mirrors MoveHistory entries
	// but gets cleared on reset while MoveHistory remains cumulative.
	CurrentMoves      []MoveHistoryEntry `json:"current_moves"`
	CurrentMovesCount int                `json:"current_moves_count"`

	// Computed helper view (not required for core game logic)
	LocalView3x3 []string `json:"local_view_3x3,omitempty"`
}

// Clone returns a deep copy that shares no memory with gs
func (gs *GameState) Clone() *GameState {
	if gs == nil {
		return nil
	}
	c := *gs
	for y := range c.Grid {
		for x := range c.Grid[y] {
			c.Grid[y][x] = gs.Grid[y][x].clone()
		}
	}
	c.Player.Inventory = cloneSlice(gs.Player.Inventory)
	c.Player.Achievements = cloneSlice(gs.Player.Achievements)
	c.MoveHistory = cloneSlice(gs.MoveHistory)
	c.CurrentMoves = cloneSlice(gs.CurrentMoves)
	c.LocalView = cloneSlice(gs.LocalView)
	c.LocalView3x3 = cloneSlice(gs.LocalView3x3)
	return &c
}

func (c Cell) clone() Cell {
	if c.Generator != nil {
		g := *c.Generator
		c.Generator = &g
	}
	if c.Crate != nil {
		cr := *c.Crate
		cr.Contents = cloneSlice(c.Crate.Contents)
		c.Crate = &cr
	}
	if c.Hint != nil {
		h := *c.Hint
		c.Hint = &h
	}
	return c
}

// cloneSlice keeps nil as nil so JSON output does not change
func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}

// MoveHistoryEntry represents a single move in the game history
type MoveHistoryEntry struct {
	Action       string   `json:"action"`
	FromPosition Position `json:"from_position"`
	ToPosition   Position `json:"to_position"`
	Timestamp    int64    `json:"timestamp"`
	Success      bool     `json:"success"`
	MoveNumber   int      `json:"move_number"`
}
