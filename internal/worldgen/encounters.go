package worldgen

import (
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/Alily223/red-knight/internal/entities/game"
	"github.com/Alily223/red-knight/internal/errors"
)

// Foes that can spawn at a coordinate
var foeNames = []string{"Goblin Scout", "Highway Bandit", "Dire Wolf", "Restless Skeleton", "Cave Troll"}

// Enemy spawn chance: 3 in 10
const enemyChanceInTen = 3

// EncounterTable rolls an encounter at most once per coordinate and
// remembers the result for the life of the session. A resolved or empty
// coordinate never re-rolls.
type EncounterTable struct {
	mu         sync.Mutex
	roller     dice.Roller
	encounters map[string]game.Encounter
}

// TableConfig configures an encounter table
type TableConfig struct {
	Roller dice.Roller
	// Encounters seeds the memo from a loaded save; may be nil
	Encounters map[string]game.Encounter
}

// Validate checks the config
func (cfg *TableConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Roller == nil {
		return errors.InvalidArgument("roller cannot be nil")
	}
	return nil
}

// NewEncounterTable creates an encounter table
func NewEncounterTable(cfg *TableConfig) (*EncounterTable, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	encounters := cfg.Encounters
	if encounters == nil {
		encounters = map[string]game.Encounter{}
	}

	return &EncounterTable{
		roller:     cfg.Roller,
		encounters: encounters,
	}, nil
}

// EncounterFor returns the encounter for a coordinate, rolling it on
// the first visit and returning the memoized result afterward
func (t *EncounterTable) EncounterFor(coord game.Coordinate) (game.Encounter, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := coord.Key()
	if enc, ok := t.encounters[key]; ok {
		return enc, nil
	}

	chance, err := t.roller.Roll(10)
	if err != nil {
		return game.Encounter{}, errors.Wrap(err, "failed to roll encounter chance")
	}

	enc := game.Encounter{Kind: game.EncounterNone}
	if chance <= enemyChanceInTen {
		pick, err := t.roller.Roll(len(foeNames))
		if err != nil {
			return game.Encounter{}, errors.Wrap(err, "failed to roll foe")
		}
		enc = game.Encounter{Kind: game.EncounterEnemy, Name: foeNames[pick-1]}
	}

	t.encounters[key] = enc
	return enc, nil
}

// Existing returns the memoized encounter for a coordinate without
// rolling one. The second return is false when the coordinate has never
// been visited.
func (t *EncounterTable) Existing(coord game.Coordinate) (game.Encounter, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	enc, ok := t.encounters[coord.Key()]
	return enc, ok
}

// Resolve marks a coordinate's encounter as defeated. The coordinate
// stays empty forever after.
func (t *EncounterTable) Resolve(coord game.Coordinate) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.encounters[coord.Key()] = game.Encounter{Kind: game.EncounterNone}
}

// Snapshot copies the memoized encounter map for persistence
func (t *EncounterTable) Snapshot() map[string]game.Encounter {
	t.mu.Lock()
	defer t.mu.Unlock()

	snapshot := make(map[string]game.Encounter, len(t.encounters))
	for key, enc := range t.encounters {
		snapshot[key] = enc
	}
	return snapshot
}
