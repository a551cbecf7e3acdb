package worldgen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alily223/red-knight/internal/entities/game"
	"github.com/Alily223/red-knight/internal/errors"
	"github.com/Alily223/red-knight/internal/worldgen"
)

// scriptedRoller returns a fixed sequence of rolls
type scriptedRoller struct {
	rolls []int
	calls int
}

func (r *scriptedRoller) Roll(_ int) (int, error) {
	if r.calls >= len(r.rolls) {
		return 0, errors.Internal("roll script exhausted")
	}
	roll := r.rolls[r.calls]
	r.calls++
	return roll, nil
}

func (r *scriptedRoller) RollN(_, _ int) ([]int, error) {
	return nil, errors.Internal("not scripted")
}

func newTable(t *testing.T, roller *scriptedRoller, seed map[string]game.Encounter) *worldgen.EncounterTable {
	t.Helper()
	table, err := worldgen.NewEncounterTable(&worldgen.TableConfig{
		Roller:     roller,
		Encounters: seed,
	})
	require.NoError(t, err)
	return table
}

func TestEncounterFor(t *testing.T) {
	t.Run("low chance roll spawns a foe", func(t *testing.T) {
		roller := &scriptedRoller{rolls: []int{2, 3}}
		table := newTable(t, roller, nil)

		enc, err := table.EncounterFor(game.Coordinate{X: 1, Y: 1})
		require.NoError(t, err)
		assert.Equal(t, game.EncounterEnemy, enc.Kind)
		assert.Equal(t, "Dire Wolf", enc.Name)
	})

	t.Run("high chance roll spawns nothing", func(t *testing.T) {
		roller := &scriptedRoller{rolls: []int{9}}
		table := newTable(t, roller, nil)

		enc, err := table.EncounterFor(game.Coordinate{X: 2, Y: 0})
		require.NoError(t, err)
		assert.Equal(t, game.EncounterNone, enc.Kind)
	})

	t.Run("result is memoized and never re-rolled", func(t *testing.T) {
		roller := &scriptedRoller{rolls: []int{2, 1}}
		table := newTable(t, roller, nil)
		coord := game.Coordinate{X: 0, Y: 0}

		first, err := table.EncounterFor(coord)
		require.NoError(t, err)
		rollsUsed := roller.calls

		second, err := table.EncounterFor(coord)
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, rollsUsed, roller.calls, "revisit must not roll")
	})

	t.Run("resolved coordinate stays empty", func(t *testing.T) {
		roller := &scriptedRoller{rolls: []int{1, 1}}
		table := newTable(t, roller, nil)
		coord := game.Coordinate{X: 5, Y: 5}

		enc, err := table.EncounterFor(coord)
		require.NoError(t, err)
		require.Equal(t, game.EncounterEnemy, enc.Kind)

		table.Resolve(coord)
		after, err := table.EncounterFor(coord)
		require.NoError(t, err)
		assert.Equal(t, game.EncounterNone, after.Kind)
	})

	t.Run("seeded table honors the loaded memo", func(t *testing.T) {
		roller := &scriptedRoller{}
		table := newTable(t, roller, map[string]game.Encounter{
			"4,4": {Kind: game.EncounterEnemy, Name: "Cave Troll"},
		})

		enc, err := table.EncounterFor(game.Coordinate{X: 4, Y: 4})
		require.NoError(t, err)
		assert.Equal(t, "Cave Troll", enc.Name)
		assert.Zero(t, roller.calls)
	})
}

func TestExisting(t *testing.T) {
	roller := &scriptedRoller{rolls: []int{9}}
	table := newTable(t, roller, nil)
	coord := game.Coordinate{X: 1, Y: 0}

	_, found := table.Existing(coord)
	assert.False(t, found)

	_, err := table.EncounterFor(coord)
	require.NoError(t, err)

	enc, found := table.Existing(coord)
	assert.True(t, found)
	assert.Equal(t, game.EncounterNone, enc.Kind)
}

func TestSnapshot(t *testing.T) {
	roller := &scriptedRoller{rolls: []int{9, 9}}
	table := newTable(t, roller, nil)

	_, err := table.EncounterFor(game.Coordinate{X: 0, Y: 0})
	require.NoError(t, err)

	snapshot := table.Snapshot()
	assert.Len(t, snapshot, 1)

	// Mutating the snapshot must not touch the table
	snapshot["9,9"] = game.Encounter{Kind: game.EncounterEnemy, Name: "Ghost"}
	_, found := table.Existing(game.Coordinate{X: 9, Y: 9})
	assert.False(t, found)
}
