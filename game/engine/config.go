package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// HintPlacement attaches text to an 'h' in the layout
type HintPlacement struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Text  string `json:"text"`
	Found bool   `json:"found"`
}

// CratePlacement fills a 'c' in the layout
type CratePlacement struct {
	X        int      `json:"x"`
	Y        int      `json:"y"`
	Contents []string `json:"contents"`
	Found    bool     `json:"found"`
}

// AchievementConfig describes an achievement handed to the player at start
type AchievementConfig struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// GameConfig represents the game configuration from JSON.
//
// Layout holds GridSize rows of GridSize characters:
//
//	'-' empty
//	'!' player start (exactly one)
//	'g' unpowered generator
//	'G' powered generator
//	'c' crate (contents from Crates)
//	'h' hint (text from Hints)
type GameConfig struct {
	Name            string              `json:"name"`
	Description     string              `json:"description"`
	Layout          []string            `json:"layout"`
	Hints           []HintPlacement     `json:"hints"`
	Crates          []CratePlacement    `json:"crates"`
	FoundGenerators []Position          `json:"found_generators,omitempty"`
	Achievements    []AchievementConfig `json:"achievements,omitempty"`
	Messages        struct {
		Welcome string `json:"welcome"`
	} `json:"messages"`
}

// DefaultConfig returns the original fixed placement: player in the bottom-left
// corner, a hint and a crate holding a wire beside it, three dead generators.
func DefaultConfig() *GameConfig {
	config := &GameConfig{
		Name:        "Rustark",
		Description: "The original map: three dead generators, one hint and a crate",
		Layout: []string{
			"----------",
			"-g--------",
			"----------",
			"----------",
			"----------",
			"--------g-",
			"----------",
			"g---------",
			"hc--------",
			"!---------",
		},
		Hints: []HintPlacement{
			{X: 0, Y: 8, Text: "oh no! one of the wires for the generator ahead is broken. I wonder which one...", Found: true},
		},
		Crates: []CratePlacement{
			{X: 1, Y: 8, Contents: []string{"wire"}, Found: true},
		},
	}
	config.Messages.Welcome = "It is dark without the power. Find the generators."
	return config
}

// ValidateGameConfig validates a game configuration for correctness
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	if len(config.Layout) != GridSize {
		return fmt.Errorf("config validation: layout must have %d rows, got %d", GridSize, len(config.Layout))
	}

	playerCount := 0
	for y, row := range config.Layout {
		if len(row) != GridSize {
			return fmt.Errorf("config validation: row %d must have %d characters, got %d", y, GridSize, len(row))
		}
		for x, char := range row {
			switch char {
			case '-', 'g', 'G', 'c', 'h':
			case '!':
				playerCount++
			default:
				return fmt.Errorf("config validation: invalid character '%c' at (%d,%d)", char, x, y)
			}
		}
	}
	if playerCount != 1 {
		return fmt.Errorf("config validation: layout must contain exactly one player (!), got %d", playerCount)
	}

	hinted := make(map[Position]bool)
	for _, h := range config.Hints {
		pos := Position{X: h.X, Y: h.Y}
		if layoutAt(config.Layout, pos) != 'h' {
			return fmt.Errorf("config validation: hint at (%d,%d) does not match an 'h' in the layout", h.X, h.Y)
		}
		if strings.TrimSpace(h.Text) == "" {
			return fmt.Errorf("config validation: hint at (%d,%d) has no text", h.X, h.Y)
		}
		if len(h.Text) > MaxHintLength {
			return fmt.Errorf("config validation: hint at (%d,%d) exceeds %d characters", h.X, h.Y, MaxHintLength)
		}
		if hinted[pos] {
			return fmt.Errorf("config validation: duplicate hint at (%d,%d)", h.X, h.Y)
		}
		hinted[pos] = true
	}

	crated := make(map[Position]bool)
	for _, c := range config.Crates {
		pos := Position{X: c.X, Y: c.Y}
		if layoutAt(config.Layout, pos) != 'c' {
			return fmt.Errorf("config validation: crate at (%d,%d) does not match a 'c' in the layout", c.X, c.Y)
		}
		if len(c.Contents) > MaxCrateItems {
			return fmt.Errorf("config validation: crate at (%d,%d) holds more than %d items", c.X, c.Y, MaxCrateItems)
		}
		if crated[pos] {
			return fmt.Errorf("config validation: duplicate crate at (%d,%d)", c.X, c.Y)
		}
		crated[pos] = true
	}

	for _, pos := range config.FoundGenerators {
		if ch := layoutAt(config.Layout, pos); ch != 'g' && ch != 'G' {
			return fmt.Errorf("config validation: found generator at (%d,%d) does not match a generator in the layout", pos.X, pos.Y)
		}
	}

	// Every hint cell needs text
	for y, row := range config.Layout {
		for x, char := range row {
			if char == 'h' && !hinted[Position{X: x, Y: y}] {
				return fmt.Errorf("config validation: hint at (%d,%d) has no entry in hints", x, y)
			}
		}
	}

	for i, a := range config.Achievements {
		if a.Title == "" {
			return fmt.Errorf("config validation: achievement %d has no title", i)
		}
	}

	return nil
}

// LoadGameConfig loads a game configuration from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	// Support CONFIG_DIR environment variable for alternative config directory
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// InitGameStateFromConfig creates a new game state using the provided configuration.
// A nil config means DefaultConfig.
func InitGameStateFromConfig(config *GameConfig) *GameState {
	if config == nil {
		config = DefaultConfig()
	}

	hints := make(map[Position]HintPlacement, len(config.Hints))
	for _, h := range config.Hints {
		hints[Position{X: h.X, Y: h.Y}] = h
	}
	crates := make(map[Position]CratePlacement, len(config.Crates))
	for _, c := range config.Crates {
		crates[Position{X: c.X, Y: c.Y}] = c
	}
	foundGenerators := make(map[Position]bool, len(config.FoundGenerators))
	for _, pos := range config.FoundGenerators {
		foundGenerators[pos] = true
	}

	grid := NewGrid()
	var playerPos Position

	for y := 0; y < GridSize && y < len(config.Layout); y++ {
		row := config.Layout[y]
		for x := 0; x < GridSize && x < len(row); x++ {
			pos := Position{X: x, Y: y}
			switch row[x] {
			case '!':
				grid.Set(pos, Cell{Kind: Player})
				playerPos = pos
			case 'g', 'G':
				grid.Set(pos, Cell{Kind: Generator, Generator: &GeneratorEntity{
					Position: pos,
					Powered:  row[x] == 'G',
					Found:    foundGenerators[pos],
				}})
			case 'c':
				placement := crates[pos]
				contents := make([]string, len(placement.Contents))
				copy(contents, placement.Contents)
				grid.Set(pos, Cell{Kind: Crate, Crate: &CrateEntity{
					Position: pos,
					Contents: contents,
					Found:    placement.Found,
				}})
			case 'h':
				placement := hints[pos]
				grid.Set(pos, Cell{Kind: Hint, Hint: &HintEntity{
					Position: pos,
					Text:     placement.Text,
					Found:    placement.Found,
				}})
			}
		}
	}

	achievements := make([]Achievement, 0, len(config.Achievements))
	for _, a := range config.Achievements {
		achievements = append(achievements, Achievement{Title: a.Title, Description: a.Description})
	}

	return &GameState{
		Grid: grid,
		Player: PlayerState{
			Position:     playerPos,
			Inventory:    []string{},
			Achievements: achievements,
		},
		Message:           config.Messages.Welcome,
		ConfigName:        config.Name,
		MoveHistory:       []MoveHistoryEntry{},
		TotalMoves:        0,
		CurrentMoves:      []MoveHistoryEntry{},
		CurrentMovesCount: 0,
	}
}

// layoutAt returns the layout character at pos, or 0 when pos is outside it
func layoutAt(layout []string, pos Position) byte {
	if pos.Y < 0 || pos.Y >= len(layout) {
		return 0
	}
	row := layout[pos.Y]
	if pos.X < 0 || pos.X >= len(row) {
		return 0
	}
	return row[pos.X]
}
