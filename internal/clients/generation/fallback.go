package generation

import (
	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/Alily223/red-knight/internal/entities/game"
)

// Local fallback tables, used whenever the remote call fails, times
// out, or returns text that does not match the expected grammar.

var fallbackCharacterNames = []string{"Arin", "Belra", "Coryn", "Dorin", "Ela"}

var fallbackAppearances = []string{
	"tall knight",
	"mysterious rogue",
	"wise mage",
	"dwarven miner",
	"elf ranger",
}

var fallbackLocationNames = []string{"Crystal Lake", "Thornwood", "Iron Hills", "Shadow Valley"}

var fallbackLocationDescs = []string{
	"A serene lake shimmering with magical energy.",
	"A dense forest full of twisted thorns.",
	"Rolling hills rich with ore deposits.",
	"A valley perpetually cloaked in darkness.",
}

var fallbackClassNames = []string{"Warrior", "Mage", "Rogue", "Cleric"}

var fallbackClassDescs = []string{
	"A master of melee combat.",
	"A wielder of arcane magic.",
	"A stealthy trickster.",
	"A holy healer.",
}

var fallbackItemNames = []string{"Ancient Sword", "Mystic Amulet", "Healing Herb", "Golden Coin"}

var fallbackItemDescs = []string{
	"A rusty sword emanating a faint aura.",
	"An amulet engraved with swirling runes.",
	"A herb said to cure any wound.",
	"A coin gleaming with ancient markings.",
}

var fallbackResourceNames = []string{"Mythril", "Adamant", "Soulstone", "Starshard"}

var fallbackPerks = []game.Perk{
	{Name: "Tough Skin", Description: "Increase health by 5", Stat: game.StatHealth, Type: "number", Value: 5, Level: 1},
	{Name: "Swift", Description: "Increase speed by 10%", Stat: game.StatSpeed, Type: "percentage", Value: 10, Level: 1},
	{Name: "Shadow Walker", Description: "Increase stealth by 1", Stat: game.StatStealth, Type: "number", Value: 1, Level: 1},
}

// FallbackCharacter returns a roller-chosen canned character
func FallbackCharacter(r dice.Roller) *CharacterData {
	return &CharacterData{
		Name:       fallbackCharacterNames[rollIndex(r, len(fallbackCharacterNames))],
		Appearance: fallbackAppearances[rollIndex(r, len(fallbackAppearances))],
	}
}

// FallbackLocation returns a roller-chosen canned place
func FallbackLocation(r dice.Roller) game.Place {
	i := rollIndex(r, len(fallbackLocationNames))
	return game.Place{Name: fallbackLocationNames[i], Description: fallbackLocationDescs[i]}
}

// FallbackClass returns a roller-chosen canned class
func FallbackClass(r dice.Roller) *ClassData {
	i := rollIndex(r, len(fallbackClassNames))
	return &ClassData{Name: fallbackClassNames[i], Description: fallbackClassDescs[i]}
}

// FallbackItem returns a roller-chosen canned item with a rolled weight
func FallbackItem(r dice.Roller) game.Item {
	i := rollIndex(r, len(fallbackItemNames))
	return game.Item{
		Name:        fallbackItemNames[i],
		Description: fallbackItemDescs[i],
		Weight:      rollIndex(r, 5) + 1,
	}
}

// FallbackResource returns a roller-chosen canned resource name
func FallbackResource(r dice.Roller) string {
	return fallbackResourceNames[rollIndex(r, len(fallbackResourceNames))]
}

// FallbackCraft returns the canned crafting result
func FallbackCraft() game.CraftedItem {
	return game.CraftedItem{
		Name:        "Crafted Item",
		Description: "An improvised creation.",
		Weight:      1,
	}
}

// FallbackPerk returns a roller-chosen canned perk
func FallbackPerk(r dice.Roller) game.Perk {
	return fallbackPerks[rollIndex(r, len(fallbackPerks))]
}

// rollIndex rolls a zero-based index in [0, n). A broken roller
// degrades to the first entry rather than failing the fallback path.
func rollIndex(r dice.Roller, n int) int {
	roll, err := r.Roll(n)
	if err != nil {
		return 0
	}
	return roll - 1
}
