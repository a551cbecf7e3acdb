// Package worldgen provides the offline location generator and the
// per-coordinate encounter table. The generator is the degradation path
// used whenever remote generation fails or is disabled.
package worldgen

import (
	"fmt"
	"strings"

	"github.com/Alily223/red-knight/internal/entities/game"
)

var (
	adjectives = []string{"Misty", "Ancient", "Quiet", "Lonely", "Frozen", "Green", "Dark", "Sunny"}
	nouns      = []string{"Forest", "Desert", "Field", "Mountain", "Lake", "Valley", "Cavern", "Village"}
)

// LocationFor names a coordinate deterministically: the same (x, y)
// always yields the same place, so offline worlds stay stable across
// visits and sessions.
func LocationFor(x, y int) game.Place {
	seed := x*31 + y*17
	if seed < 0 {
		seed = -seed
	}
	name := fmt.Sprintf("%s %s", adjectives[seed%len(adjectives)], nouns[seed%len(nouns)])
	return game.Place{
		Name:        name,
		Description: fmt.Sprintf("You arrive at the %s.", strings.ToLower(name)),
	}
}
