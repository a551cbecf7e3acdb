package game

import "fmt"

// Coordinate identifies a location on the world grid
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Key returns the stable map key for the coordinate
func (c Coordinate) Key() string {
	return fmt.Sprintf("%d,%d", c.X, c.Y)
}

// Place is a named location, created once per coordinate on first visit
// and immutable afterward
type Place struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// EncounterKind discriminates the encounter variants
type EncounterKind string

// Encounter variants
const (
	EncounterNone  EncounterKind = "none"
	EncounterEnemy EncounterKind = "enemy"
)

// Encounter is the hostile-NPC state bound to a coordinate. Rolled once
// per coordinate; once resolved or rolled none it never regenerates.
type Encounter struct {
	Kind EncounterKind `json:"kind"`
	Name string        `json:"name,omitempty"`
}

// Direction deltas for movement commands
var Directions = map[string]Coordinate{
	"north": {X: 0, Y: 1},
	"south": {X: 0, Y: -1},
	"east":  {X: 1, Y: 0},
	"west":  {X: -1, Y: 0},
}

// TechTiers are the civilization ages a save can progress through
var TechTiers = []string{
	"Stone Age",
	"Bronze Age",
	"Iron Age",
	"Industrial Age",
	"Modern Age",
	"Futuristic Age",
}

// TierName returns the display name for a 1-based tech tier
func TierName(tier int) string {
	if tier >= 1 && tier <= len(TechTiers) {
		return TechTiers[tier-1]
	}
	return fmt.Sprintf("Tier %d", tier)
}
