// Command analyze prints quick, human-readable facts about the layout files
// in a configs directory: entity counts, where the player starts, what is
// within reach of the start, and which generators can be reached by walking
// over empty floor.
//
// Usage:
//
//	go run ./cmd/analyze [configs-dir]
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wricardo/rustark/game/engine"
)

// Analysis summarises one layout
type Analysis struct {
	Name        string
	Start       engine.Position
	Generators  int
	Crates      int
	Hints       int
	StartReach  map[string]engine.Position
	FirstMoves  []string
	Reachable   int // cells the player can stand on, start included
	Unreachable []engine.Position
	Nearest     int // Chebyshev distance to the closest generator, -1 without generators
}

func main() {
	dir := "configs"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil || len(files) == 0 {
		fmt.Printf("No layouts found in %s\n", dir)
		os.Exit(1)
	}
	sort.Strings(files)

	for _, path := range files {
		fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(path))
		config, err := engine.LoadGameConfig(path)
		if err != nil {
			fmt.Printf("Error loading layout: %v\n", err)
			continue
		}
		printAnalysis(os.Stdout, Analyze(config))
	}
}

// Analyze walks the layout from the player's start over empty cells
func Analyze(config *engine.GameConfig) Analysis {
	state := engine.InitGameStateFromConfig(config)
	start := state.Player.Position

	a := Analysis{
		Name:       config.Name,
		Start:      start,
		Generators: state.Grid.Count(engine.Generator),
		Crates:     state.Grid.Count(engine.Crate),
		Hints:      state.Grid.Count(engine.Hint),
		StartReach: state.Interactables(),
		Nearest:    -1,
	}

	for _, dir := range engine.Directions {
		if target, ok := engine.Target(start, dir); ok && state.CanMoveTo(target) {
			a.FirstMoves = append(a.FirstMoves, dir)
		}
	}

	// breadth-first over floor cells
	visited := map[engine.Position]bool{start: true}
	queue := []engine.Position{start}
	for len(queue) > 0 {
		pos := queue[0]
		queue = queue[1:]
		for _, next := range engine.Neighbors(pos) {
			if visited[next] || state.Grid.At(next).Kind != engine.Empty {
				continue
			}
			visited[next] = true
			queue = append(queue, next)
		}
	}
	a.Reachable = len(visited)

	for _, gen := range state.Grid.PositionsOf(engine.Generator) {
		if d := engine.ChebyshevDistance(start, gen); a.Nearest < 0 || d < a.Nearest {
			a.Nearest = d
		}
		reachable := false
		for _, n := range engine.Neighbors(gen) {
			if visited[n] {
				reachable = true
				break
			}
		}
		if !reachable {
			a.Unreachable = append(a.Unreachable, gen)
		}
	}

	return a
}

func printAnalysis(w io.Writer, a Analysis) {
	fmt.Fprintf(w, "Name: %s\n", a.Name)
	fmt.Fprintf(w, "Start Position: (%d, %d)\n", a.Start.X, a.Start.Y)
	fmt.Fprintf(w, "Generators: %d, Crates: %d, Hints: %d\n", a.Generators, a.Crates, a.Hints)

	if len(a.StartReach) == 0 {
		fmt.Fprintln(w, "Within reach of start: nothing")
	} else {
		letters := make([]string, 0, len(a.StartReach))
		for letter, p := range a.StartReach {
			letters = append(letters, fmt.Sprintf("%s (%d, %d)", letter, p.X, p.Y))
		}
		sort.Strings(letters)
		fmt.Fprintf(w, "Within reach of start: %s\n", strings.Join(letters, ", "))
	}

	if len(a.FirstMoves) == 0 {
		fmt.Fprintln(w, "⚠️  WARNING: the player cannot move from the start")
	} else {
		fmt.Fprintf(w, "First moves: %s\n", strings.Join(a.FirstMoves, ", "))
	}
	fmt.Fprintf(w, "Walkable cells from start: %d\n", a.Reachable)

	if a.Nearest >= 0 {
		fmt.Fprintf(w, "Nearest generator: %d steps away\n", a.Nearest)
	}

	if len(a.Unreachable) > 0 {
		fmt.Fprintf(w, "⚠️  CRITICAL: %d generators cannot be reached!\n", len(a.Unreachable))
		for _, p := range a.Unreachable {
			fmt.Fprintf(w, "   Unreachable Generator: (%d, %d)\n", p.X, p.Y)
		}
	} else if a.Generators > 0 {
		fmt.Fprintln(w, "✅ Every generator can be reached")
	}
}
