package testutils

import (
	"github.com/Alily223/red-knight/internal/entities/game"
)

// Well-known ids for test fixtures
const (
	TestSaveID = "save-test-001"
	TestUserID = "user-test-001"
)

// CreateTestUser creates a login record with sensible defaults
func CreateTestUser(id string) *game.User {
	return &game.User{
		ID:      id,
		Name:    "Test Player",
		Email:   "player@example.com",
		Picture: "https://example.com/avatar.png",
	}
}

// CreateTestStats creates fresh default stats with a few fields bumped
// so zero-value bugs show up
func CreateTestStats() *game.PlayerStats {
	stats := game.NewDefaultStats()
	stats.Coins = 25
	stats.AddResource("wood", 3)
	stats.AddResource("stone", 2)
	stats.AddItem(game.Item{Name: "Lantern", Description: "A sturdy brass lantern.", Weight: 2})
	return stats
}

// CreateTestBundle creates a save bundle a few moves into a game
func CreateTestBundle() *game.SaveBundle {
	return &game.SaveBundle{
		Position: game.Coordinate{X: 1, Y: 2},
		Log:      []string{"You discover Misty Forest.", "You head north."},
		Places: map[string]game.Place{
			"0,0": {Name: "Misty Forest", Description: "You arrive at the misty forest."},
			"1,2": {Name: "Quiet Lake", Description: "You arrive at the quiet lake."},
		},
		Stats: CreateTestStats(),
		Encounters: map[string]game.Encounter{
			"0,0": {Kind: game.EncounterNone},
			"1,2": {Kind: game.EncounterEnemy, Name: "Goblin Scout"},
		},
	}
}
