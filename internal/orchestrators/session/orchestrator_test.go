package session_test

import (
	"context"
	"testing"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alily223/red-knight/internal/clients/generation"
	"github.com/Alily223/red-knight/internal/engine"
	"github.com/Alily223/red-knight/internal/entities/game"
	"github.com/Alily223/red-knight/internal/errors"
	"github.com/Alily223/red-knight/internal/orchestrators/session"
	"github.com/Alily223/red-knight/internal/pkg/clock"
	"github.com/Alily223/red-knight/internal/repositories/gamestate"
	"github.com/Alily223/red-knight/internal/repositories/recipes"
	"github.com/Alily223/red-knight/internal/testutils"
)

// stubGameStateRepo keeps bundles in memory and counts saves
type stubGameStateRepo struct {
	bundles   map[string]*game.SaveBundle
	saveCalls int
}

func newStubGameStateRepo() *stubGameStateRepo {
	return &stubGameStateRepo{bundles: map[string]*game.SaveBundle{}}
}

func (r *stubGameStateRepo) Save(_ context.Context, input gamestate.SaveInput) (*gamestate.SaveOutput, error) {
	r.saveCalls++
	r.bundles[input.ID] = input.Bundle
	return &gamestate.SaveOutput{Bundle: input.Bundle}, nil
}

func (r *stubGameStateRepo) Load(_ context.Context, input gamestate.LoadInput) (*gamestate.LoadOutput, error) {
	bundle, ok := r.bundles[input.ID]
	if !ok {
		return nil, errors.NotFoundf("save %q not found", input.ID)
	}
	return &gamestate.LoadOutput{Bundle: bundle}, nil
}

func (r *stubGameStateRepo) Delete(_ context.Context, input gamestate.DeleteInput) (*gamestate.DeleteOutput, error) {
	delete(r.bundles, input.ID)
	return &gamestate.DeleteOutput{}, nil
}

// stubRecipeRepo is an in-memory recipe cache
type stubRecipeRepo struct {
	recipes map[string]*game.CraftedItem
}

func newStubRecipeRepo() *stubRecipeRepo {
	return &stubRecipeRepo{recipes: map[string]*game.CraftedItem{}}
}

func (r *stubRecipeRepo) Get(_ context.Context, input recipes.GetInput) (*recipes.GetOutput, error) {
	item, ok := r.recipes[input.Combo]
	if !ok {
		return nil, errors.NotFoundf("recipe %q not found", input.Combo)
	}
	return &recipes.GetOutput{Item: item}, nil
}

func (r *stubRecipeRepo) Put(_ context.Context, input recipes.PutInput) (*recipes.PutOutput, error) {
	r.recipes[input.Combo] = input.Item
	return &recipes.PutOutput{}, nil
}

// stubGenerator fails everything unless a field is configured
type stubGenerator struct {
	generateResponses []string
	generateCalls     int
	item              *game.Item
	resource          string
	craftItem         *game.CraftedItem
	craftCalls        int
	perk              *game.Perk
}

func (g *stubGenerator) Generate(_ context.Context, _ string) (string, error) {
	if g.generateCalls < len(g.generateResponses) {
		response := g.generateResponses[g.generateCalls]
		g.generateCalls++
		return response, nil
	}
	return "", errors.Unavailable("generation disabled")
}

func (g *stubGenerator) Character(_ context.Context, _ string) (*generation.CharacterData, error) {
	return nil, errors.Unavailable("generation disabled")
}

func (g *stubGenerator) Location(_ context.Context, _ string) (game.Place, error) {
	return game.Place{}, errors.Unavailable("generation disabled")
}

func (g *stubGenerator) Class(_ context.Context, _ string) (*generation.ClassData, error) {
	return nil, errors.Unavailable("generation disabled")
}

func (g *stubGenerator) Item(_ context.Context, _ string) (game.Item, error) {
	if g.item == nil {
		return game.Item{}, errors.Unavailable("generation disabled")
	}
	return *g.item, nil
}

func (g *stubGenerator) Resource(_ context.Context, _ string) (string, error) {
	if g.resource == "" {
		return "", errors.Unavailable("generation disabled")
	}
	return g.resource, nil
}

func (g *stubGenerator) Craft(_ context.Context, _ []generation.ResourceAmount) (game.CraftedItem, error) {
	g.craftCalls++
	if g.craftItem == nil {
		return game.CraftedItem{}, errors.Unavailable("generation disabled")
	}
	return *g.craftItem, nil
}

func (g *stubGenerator) Perk(_ context.Context, _ string) (game.Perk, error) {
	if g.perk == nil {
		return game.Perk{}, errors.Unavailable("generation disabled")
	}
	return *g.perk, nil
}

// fixedRoller always rolls the same value, capped at the die size
type fixedRoller struct {
	value int
}

func (r *fixedRoller) Roll(size int) (int, error) {
	if r.value > size {
		return size, nil
	}
	return r.value, nil
}

func (r *fixedRoller) RollN(count, size int) ([]int, error) {
	rolls := make([]int, count)
	for i := range rolls {
		rolls[i], _ = r.Roll(size)
	}
	return rolls, nil
}

type fixture struct {
	service   session.Service
	gameState *stubGameStateRepo
	recipe    *stubRecipeRepo
	generator *stubGenerator
	roller    *fixedRoller
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		gameState: newStubGameStateRepo(),
		recipe:    newStubRecipeRepo(),
		generator: &stubGenerator{},
		// 9 on a d10 means no encounters spawn
		roller: &fixedRoller{value: 9},
	}

	rulesEngine, err := engine.New(&engine.Config{})
	require.NoError(t, err)

	f.service, err = session.NewOrchestrator(&session.Config{
		GameStateRepo: f.gameState,
		RecipeRepo:    f.recipe,
		Generator:     f.generator,
		Engine:        rulesEngine,
		Roller:        f.roller,
		EventBus:      events.NewBus(),
		Clock:         clock.New(),
	})
	require.NoError(t, err)
	return f
}

func (f *fixture) execute(t *testing.T, line string) *session.ExecuteOutput {
	t.Helper()
	out, err := f.service.Execute(context.Background(), &session.ExecuteInput{
		SaveID: testutils.TestSaveID,
		Line:   line,
	})
	require.NoError(t, err)
	return out
}

func TestStart(t *testing.T) {
	t.Run("fresh game begins at the origin", func(t *testing.T) {
		f := newFixture(t)

		out, err := f.service.Start(context.Background(), &session.StartInput{SaveID: testutils.TestSaveID})
		require.NoError(t, err)

		assert.False(t, out.Restored)
		assert.Equal(t, game.Coordinate{}, out.Position)
		// Offline fallback names the origin deterministically
		assert.Contains(t, out.Log, "You discover Misty Forest.")
		assert.Equal(t, 1, f.gameState.saveCalls, "opening a save autosaves it")
	})

	t.Run("existing bundle restores", func(t *testing.T) {
		f := newFixture(t)
		f.gameState.bundles[testutils.TestSaveID] = testutils.CreateTestBundle()

		out, err := f.service.Start(context.Background(), &session.StartInput{SaveID: testutils.TestSaveID})
		require.NoError(t, err)

		assert.True(t, out.Restored)
		assert.Equal(t, game.Coordinate{X: 1, Y: 2}, out.Position)
		assert.Equal(t, 25, out.Stats.Coins)
	})

	t.Run("empty save id rejected", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.Start(context.Background(), &session.StartInput{})
		assert.True(t, errors.IsInvalidArgument(err))
	})
}

func TestExecuteTick(t *testing.T) {
	t.Run("every parsed command costs one hour", func(t *testing.T) {
		f := newFixture(t)

		out := f.execute(t, "look")
		assert.True(t, out.Ticked)
		assert.Equal(t, 1, out.Stats.Time.SurvivalHours)

		out = f.execute(t, "dance wildly")
		assert.True(t, out.Ticked)
		assert.Equal(t, []string{"Unknown command."}, out.Lines)
		assert.Equal(t, 2, out.Stats.Time.SurvivalHours)
	})

	t.Run("blank input costs nothing", func(t *testing.T) {
		f := newFixture(t)
		f.execute(t, "look")
		saves := f.gameState.saveCalls

		out := f.execute(t, "   ")
		assert.False(t, out.Ticked)
		assert.Equal(t, []string{"Please enter a command."}, out.Lines)
		assert.Equal(t, 1, out.Stats.Time.SurvivalHours)
		assert.Equal(t, saves, f.gameState.saveCalls, "blank input must not autosave")
	})

	t.Run("commands autosave through the event bus", func(t *testing.T) {
		f := newFixture(t)
		f.execute(t, "look")

		bundle := f.gameState.bundles[testutils.TestSaveID]
		require.NotNil(t, bundle)
		assert.Equal(t, 1, bundle.Stats.Time.SurvivalHours)
	})
}

func TestMovement(t *testing.T) {
	t.Run("walking moves one cell", func(t *testing.T) {
		f := newFixture(t)
		out := f.execute(t, "north")
		assert.Equal(t, game.Coordinate{X: 0, Y: 1}, out.Position)
	})

	t.Run("mounted movement doubles the stride", func(t *testing.T) {
		f := newFixture(t)
		f.execute(t, "acquire horse")
		f.execute(t, "mount horse")

		out := f.execute(t, "ride east")
		assert.Equal(t, game.Coordinate{X: 2, Y: 0}, out.Position)
	})

	t.Run("vehicle movement triples and dismounts", func(t *testing.T) {
		f := newFixture(t)
		f.execute(t, "acquire horse")
		f.execute(t, "mount horse")
		f.execute(t, "acquire cart")
		out := f.execute(t, "board cart")
		assert.Equal(t, "", out.Stats.ActiveMount, "boarding must clear the mount")

		out = f.execute(t, "drive west")
		assert.Equal(t, game.Coordinate{X: -3, Y: 0}, out.Position)
	})

	t.Run("mounting an unowned mount fails", func(t *testing.T) {
		f := newFixture(t)
		out := f.execute(t, "mount dragon")
		assert.Equal(t, []string{"You do not have a dragon."}, out.Lines)
	})

	t.Run("revisiting a place reuses it", func(t *testing.T) {
		f := newFixture(t)
		f.execute(t, "north")
		f.execute(t, "south")
		out := f.execute(t, "north")
		assert.Contains(t, out.Lines[1], "You return to ")
	})
}

func TestTeleport(t *testing.T) {
	f := newFixture(t)

	out := f.execute(t, "teleport 3 4")
	assert.Equal(t, []string{"You have no teleport scrolls."}, out.Lines)

	f.execute(t, "acquire scroll")
	out = f.execute(t, "teleport 3 4")
	assert.Equal(t, game.Coordinate{X: 3, Y: 4}, out.Position)
	assert.Equal(t, 0, out.Stats.TeleportScrolls)

	out = f.execute(t, "teleport bad args")
	assert.Equal(t, []string{"Usage: teleport <x> <y>"}, out.Lines)
}

func TestSpend(t *testing.T) {
	f := newFixture(t)

	out := f.execute(t, "spend 50")
	assert.Equal(t, []string{"Not enough coins."}, out.Lines)
	assert.Equal(t, 10, out.Stats.Coins)

	out = f.execute(t, "spend 4")
	assert.Equal(t, 6, out.Stats.Coins)
}

func TestReputation(t *testing.T) {
	f := newFixture(t)

	f.execute(t, "gainrep faction Thieves 5")
	out := f.execute(t, "gainrep guild Mages 3")

	assert.Equal(t, 5, out.Stats.Reputation.Factions["Thieves"])
	assert.Equal(t, 3, out.Stats.Reputation.Guilds["Mages"])

	out = f.execute(t, "loserep faction Thieves 2")
	assert.Equal(t, 3, out.Stats.Reputation.Factions["Thieves"])

	out = f.execute(t, "rep faction Thieves")
	assert.Equal(t, []string{"Thieves (faction): 3"}, out.Lines)

	out = f.execute(t, "reputation")
	assert.Len(t, out.Lines, 2)
}

func TestCraft(t *testing.T) {
	t.Run("memoizes by combination key", func(t *testing.T) {
		f := newFixture(t)
		f.generator.craftItem = &game.CraftedItem{Name: "Stone Axe", Description: "Crude but effective.", Weight: 3}

		sess, err := f.service.Start(context.Background(), &session.StartInput{SaveID: testutils.TestSaveID})
		require.NoError(t, err)
		sess.Stats.AddResource("wood", 10)
		sess.Stats.AddResource("stone", 10)

		first := f.execute(t, "craft wood:2 stone:1")
		second := f.execute(t, "craft stone:1 wood:2")

		assert.Contains(t, first.Lines[0], "Stone Axe")
		assert.Contains(t, second.Lines[0], "Stone Axe")
		assert.Equal(t, 1, f.generator.craftCalls, "reordered ingredients must hit the cache")
		assert.Equal(t, 4, second.Stats.Resources.Counts["wood"]+second.Stats.Resources.Counts["stone"]-10)
	})

	t.Run("missing resources refuse to craft", func(t *testing.T) {
		f := newFixture(t)
		out := f.execute(t, "craft wood:2")
		assert.Equal(t, []string{"You do not have enough wood."}, out.Lines)
	})

	t.Run("generation failure still crafts the fallback item", func(t *testing.T) {
		f := newFixture(t)
		start, err := f.service.Start(context.Background(), &session.StartInput{SaveID: testutils.TestSaveID})
		require.NoError(t, err)
		start.Stats.AddResource("wood", 2)

		out := f.execute(t, "craft wood:2")
		assert.Contains(t, out.Lines[0], "Crafted Item")
	})
}

func TestGather(t *testing.T) {
	t.Run("gorgonite pick that misses the strike yields nothing", func(t *testing.T) {
		f := newFixture(t)
		// 9 caps to 6 on the pool die, picking gorgonite; 9 on the d20
		// misses the 1-in-20 strike
		out := f.execute(t, "gather")
		assert.Equal(t, []string{"You find no useful materials."}, out.Lines)
		assert.Equal(t, 0, out.Stats.Resources.Counts[game.ResourceGorgonite])
	})

	t.Run("common resources yield rolled units", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.Start(context.Background(), &session.StartInput{SaveID: testutils.TestSaveID})
		require.NoError(t, err)
		f.roller.value = 1

		out := f.execute(t, "gather")
		assert.Contains(t, out.Lines, "You gather 1 wood.")
		assert.Equal(t, 1, out.Stats.Resources.Counts["wood"])
	})
}

func TestGorgonite(t *testing.T) {
	t.Run("consumes one shard and grants the generated ability", func(t *testing.T) {
		f := newFixture(t)
		f.generator.generateResponses = []string{"Ember Step", "A dash of living flame."}

		start, err := f.service.Start(context.Background(), &session.StartInput{SaveID: testutils.TestSaveID})
		require.NoError(t, err)
		start.Stats.AddResource(game.ResourceGorgonite, 2)

		out := f.execute(t, "use gorgonite")
		assert.Contains(t, out.Lines[0], "Ember Step")
		assert.Equal(t, 1, out.Stats.Resources.Counts[game.ResourceGorgonite])
		require.Len(t, out.Stats.Abilities, 1)
		assert.Equal(t, "A dash of living flame.", out.Stats.Abilities[0].Description)
	})

	t.Run("generation failure still consumes and grants a fallback", func(t *testing.T) {
		f := newFixture(t)

		start, err := f.service.Start(context.Background(), &session.StartInput{SaveID: testutils.TestSaveID})
		require.NoError(t, err)
		start.Stats.AddResource(game.ResourceGorgonite, 1)

		out := f.execute(t, "use gorgonite")
		assert.Equal(t, 0, out.Stats.Resources.Counts[game.ResourceGorgonite])
		require.Len(t, out.Stats.Abilities, 1)
		assert.Contains(t, out.Stats.Abilities[0].Name, "Gorgonite Surge")
	})

	t.Run("description failure discards the generated name", func(t *testing.T) {
		f := newFixture(t)
		f.generator.generateResponses = []string{"Ember Step"}

		start, err := f.service.Start(context.Background(), &session.StartInput{SaveID: testutils.TestSaveID})
		require.NoError(t, err)
		start.Stats.AddResource(game.ResourceGorgonite, 1)

		out := f.execute(t, "use gorgonite")
		require.Len(t, out.Stats.Abilities, 1)
		assert.Contains(t, out.Stats.Abilities[0].Name, "Gorgonite Surge")
		assert.NotContains(t, out.Stats.Abilities[0].Name, "Ember Step")
		assert.Equal(t, 0, out.Stats.Resources.Counts[game.ResourceGorgonite])
	})

	t.Run("without gorgonite nothing happens", func(t *testing.T) {
		f := newFixture(t)
		out := f.execute(t, "use gorgonite")
		assert.Equal(t, []string{"You have no gorgonite."}, out.Lines)
	})

	t.Run("other consumables are refused", func(t *testing.T) {
		f := newFixture(t)
		out := f.execute(t, "use sword")
		assert.Equal(t, []string{"You cannot use that."}, out.Lines)
	})
}

func TestAbility(t *testing.T) {
	f := newFixture(t)
	start, err := f.service.Start(context.Background(), &session.StartInput{SaveID: testutils.TestSaveID})
	require.NoError(t, err)
	start.Stats.Abilities = append(start.Stats.Abilities, game.Ability{Name: "Stone Gaze", Description: "Petrify a foe."})

	out := f.execute(t, "ability stone gaze")
	assert.Equal(t, []string{"You invoke Stone Gaze. Petrify a foe."}, out.Lines)

	out = f.execute(t, "ability fireball")
	assert.Equal(t, []string{"You do not possess that ability."}, out.Lines)
}

func TestFight(t *testing.T) {
	f := newFixture(t)
	f.gameState.bundles[testutils.TestSaveID] = testutils.CreateTestBundle()

	out := f.execute(t, "fight")
	assert.Contains(t, out.Lines[0], "Goblin Scout")
	assert.Equal(t, 10, out.Stats.XP)

	out = f.execute(t, "fight")
	assert.Equal(t, []string{"There is nothing to fight here."}, out.Lines)
}

func TestSearch(t *testing.T) {
	t.Run("found item lands in the inventory", func(t *testing.T) {
		f := newFixture(t)
		f.generator.item = &game.Item{Name: "Mystic Amulet", Description: "It hums quietly.", Weight: 1}

		out := f.execute(t, "search")
		assert.Contains(t, out.Lines[0], "Mystic Amulet")
		assert.Equal(t, 1, out.Stats.Weight)
	})

	t.Run("generation failure finds nothing and mutates nothing", func(t *testing.T) {
		f := newFixture(t)
		out := f.execute(t, "search")
		assert.Equal(t, []string{"You search the area but find nothing."}, out.Lines)
		assert.Empty(t, out.Stats.Items)
	})
}

func TestDiscover(t *testing.T) {
	f := newFixture(t)
	f.generator.resource = "Mythril"

	out := f.execute(t, "discover")
	assert.Equal(t, []string{"You have discovered Mythril!"}, out.Lines)
	assert.Equal(t, 0, out.Stats.Resources.Discovered["Mythril"])

	out = f.execute(t, "discover")
	assert.Equal(t, []string{"You already know of Mythril."}, out.Lines)
}

func TestBuffCommands(t *testing.T) {
	f := newFixture(t)

	out := f.execute(t, "buff strength 5 3")
	base := game.NewDefaultStats().Attributes[game.StatStrength]
	assert.Equal(t, base+5, out.Stats.Attributes[game.StatStrength])

	out = f.execute(t, "buff strength five 3")
	assert.Equal(t, []string{"Usage: buff <stat> <value> <hours>"}, out.Lines)

	out = f.execute(t, "debuff speed 2 4")
	baseSpeed := game.NewDefaultStats().Attributes[game.StatSpeed]
	assert.Equal(t, baseSpeed-2, out.Stats.Attributes[game.StatSpeed])

	out = f.execute(t, "status")
	assert.Contains(t, out.Lines[0], "Buffs:")
}

func TestPoisonCommand(t *testing.T) {
	f := newFixture(t)

	out := f.execute(t, "poison 4 2")
	// The same command's tick already applies the first hour
	assert.Equal(t, 96, out.Stats.Attributes[game.StatHealth])
	assert.Contains(t, out.Lines, "You take 4 poison damage.")

	out = f.execute(t, "look")
	assert.Equal(t, 92, out.Stats.Attributes[game.StatHealth])
	assert.NotContains(t, out.Stats.StatusEffects, game.EffectPoison)
}

func TestAICommand(t *testing.T) {
	t.Run("forwards the prompt", func(t *testing.T) {
		f := newFixture(t)
		f.generator.generateResponses = []string{"A dragon circles the spire."}

		out := f.execute(t, "ai describe a dragon")
		assert.Equal(t, []string{"A dragon circles the spire."}, out.Lines)
	})

	t.Run("reports failure without fallback", func(t *testing.T) {
		f := newFixture(t)

		out := f.execute(t, "ai describe a dragon")
		assert.Equal(t, []string{"AI request failed."}, out.Lines)
	})

	t.Run("requires a prompt", func(t *testing.T) {
		f := newFixture(t)

		out := f.execute(t, "ai")
		assert.Equal(t, []string{"Usage: ai <prompt>"}, out.Lines)
	})
}

func TestPerkCommand(t *testing.T) {
	f := newFixture(t)
	f.generator.perk = &game.Perk{
		Name: "Iron Hide", Description: "Increase defense by 3", Stat: game.StatDefense, Type: "number", Value: 3, Level: 1,
	}

	baseDefense := game.NewDefaultStats().Attributes[game.StatDefense]
	out := f.execute(t, "perk")
	assert.Equal(t, baseDefense+3, out.Stats.Attributes[game.StatDefense])
	assert.Equal(t, 0, out.Stats.PerkPoints)

	out = f.execute(t, "perk")
	assert.Equal(t, []string{"You have no perk points."}, out.Lines)
}

func TestSaveAndEnd(t *testing.T) {
	f := newFixture(t)
	f.execute(t, "north")

	saveOut, err := f.service.Save(context.Background(), &session.SaveInput{SaveID: testutils.TestSaveID})
	require.NoError(t, err)
	assert.Equal(t, game.Coordinate{X: 0, Y: 1}, saveOut.Bundle.Position)

	_, err = f.service.End(context.Background(), &session.EndInput{SaveID: testutils.TestSaveID})
	require.NoError(t, err)

	_, err = f.service.Save(context.Background(), &session.SaveInput{SaveID: testutils.TestSaveID})
	assert.True(t, errors.IsNotFound(err))
}
