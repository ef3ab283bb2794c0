// Package engine provides the core game logic for Rustark.
//
// The engine package implements the game mechanics including:
//   - A fixed 10x10 grid where every cell holds exactly one occupant
//   - King-move movement onto empty neighbouring cells
//   - Letter-based interaction with generators, crates and hints
//   - Text rendering of the map
//   - Configuration loading and validation
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. GameState represents the current game state,
// while GameConfig defines the placement of objects loaded from JSON files.
// Cell is a tagged union over Empty, Player, Generator, Crate and Hint.
//
// Usage:
//
//	gameEngine := engine.NewEngineWithDefaults()
//
//	// Step from the start corner onto the empty cell to its right
//	ok := gameEngine.Move(engine.Position{X: 1, Y: 9})
//
//	// Read the hint that is now within reach
//	if hint, ok := gameEngine.Interact("h"); ok {
//		fmt.Println(hint.Description)
//	}
//
//	fmt.Print(gameEngine.Render())
//
// Game Rules:
//
// The player may step onto any of the up to eight cells around them as long
// as that cell is empty. Objects within one step can be interacted with by
// their map letter: h (hint), c (crate), g (unpowered generator) and
// G (powered generator). Crates can be emptied into the player's inventory.
// Discovery ("found") flags are carried on every object but nothing in the
// engine changes them after the map is built.
package engine
