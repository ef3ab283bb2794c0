package engine

import "fmt"

// Fixed descriptions returned for non-hint interactions
const (
	CrateDescription              = "crate"
	UnpoweredGeneratorDescription = "generator, unpowered"
	PoweredGeneratorDescription   = "generator, powered"
)

// Interactables maps each letter visible next to the player to its cell.
// When two neighbours share a letter the one later in scan order wins.
func (gs *GameState) Interactables() map[string]Position {
	found := make(map[string]Position)
	for _, pos := range Neighbors(gs.Player.Position) {
		cell := gs.Grid.At(pos)
		if cell.Kind == Empty {
			continue
		}
		found[cell.Letter()] = pos
	}
	return found
}

// Interact looks for a neighbouring object shown as letter and describes it
func (gs *GameState) Interact(letter string) (*Interaction, bool) {
	pos, ok := gs.Interactables()[letter]
	if !ok {
		gs.Message = fmt.Sprintf("Nothing marked '%s' within reach", letter)
		return nil, false
	}

	cell := gs.Grid.At(pos)
	interaction := &Interaction{
		Letter:   letter,
		Kind:     cell.Kind,
		Position: pos,
	}

	switch letter {
	case HintLetter:
		if cell.Hint != nil {
			interaction.Description = cell.Hint.Text
		}
	case CrateLetter:
		interaction.Description = CrateDescription
	case UnpoweredGeneratorLetter:
		interaction.Description = UnpoweredGeneratorDescription
	case PoweredGeneratorLetter:
		interaction.Description = PoweredGeneratorDescription
	default:
		gs.Message = fmt.Sprintf("Nothing marked '%s' within reach", letter)
		return nil, false
	}

	gs.Message = interaction.Description
	return interaction, true
}

// TakeFromCrate empties a neighbouring crate into the player's inventory.
// It fails when no crate is within reach; an already empty crate yields no items.
func (gs *GameState) TakeFromCrate() ([]string, bool) {
	pos, ok := gs.Interactables()[CrateLetter]
	if !ok {
		gs.Message = "No crate within reach"
		return nil, false
	}

	crate := gs.Grid[pos.Y][pos.X].Crate
	if crate == nil {
		crate = &CrateEntity{Position: pos}
		gs.Grid[pos.Y][pos.X].Crate = crate
	}
	items := crate.Contents
	crate.Contents = []string{}
	gs.Player.Inventory = append(gs.Player.Inventory, items...)

	if len(items) == 0 {
		gs.Message = "The crate is empty"
	} else {
		gs.Message = fmt.Sprintf("Took %d item(s) from the crate", len(items))
	}
	return items, true
}
