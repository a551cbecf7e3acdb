// Package session runs live playthroughs. It opens saves, interprets
// player command lines, applies them through the rules engine, and
// autosaves after every command via the event bus.
package session

//go:generate mockgen -destination=mock/mock_service.go -package=sessionmock github.com/Alily223/red-knight/internal/orchestrators/session Service

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/Alily223/red-knight/internal/clients/generation"
	"github.com/Alily223/red-knight/internal/engine"
	"github.com/Alily223/red-knight/internal/entities/game"
	"github.com/Alily223/red-knight/internal/errors"
	"github.com/Alily223/red-knight/internal/pkg/clock"
	"github.com/Alily223/red-knight/internal/repositories/gamestate"
	"github.com/Alily223/red-knight/internal/repositories/recipes"
	"github.com/Alily223/red-knight/internal/worldgen"
)

// EventSessionUpdated fires after every executed command. The autosave
// subscriber persists the bundle; save failures are logged, never
// surfaced to the player.
const EventSessionUpdated = "session.updated"

// Service defines the interface for session operations
type Service interface {
	// Start opens a save, restoring the stored bundle when one exists
	// and starting a fresh game at the origin otherwise
	Start(ctx context.Context, input *StartInput) (*StartOutput, error)

	// Execute runs one raw player input line against an open session.
	// Every line that parses consumes exactly one game hour.
	Execute(ctx context.Context, input *ExecuteInput) (*ExecuteOutput, error)

	// Save persists an open session's bundle on demand
	Save(ctx context.Context, input *SaveInput) (*SaveOutput, error)

	// End writes a final save and drops the session from memory
	End(ctx context.Context, input *EndInput) (*EndOutput, error)
}

// Config holds the dependencies for the session orchestrator
type Config struct {
	GameStateRepo gamestate.Repository
	RecipeRepo    recipes.Repository
	Generator     generation.Client
	Engine        engine.Engine
	Roller        dice.Roller
	EventBus      events.EventBus
	Clock         clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.GameStateRepo == nil {
		vb.RequiredField("GameStateRepo")
	}
	if c.RecipeRepo == nil {
		vb.RequiredField("RecipeRepo")
	}
	if c.Generator == nil {
		vb.RequiredField("Generator")
	}
	if c.Engine == nil {
		vb.RequiredField("Engine")
	}
	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}

	return vb.Build()
}

type orchestrator struct {
	gameStateRepo gamestate.Repository
	recipeRepo    recipes.Repository
	generator     generation.Client
	engine        engine.Engine
	roller        dice.Roller
	eventBus      events.EventBus
	clock         clock.Clock

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewOrchestrator creates a session orchestrator and registers its
// autosave subscriber on the event bus
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	o := &orchestrator{
		gameStateRepo: cfg.GameStateRepo,
		recipeRepo:    cfg.RecipeRepo,
		generator:     cfg.Generator,
		engine:        cfg.Engine,
		roller:        cfg.Roller,
		eventBus:      cfg.EventBus,
		clock:         cfg.Clock,
		sessions:      make(map[string]*Session),
	}
	o.eventBus.SubscribeFunc(EventSessionUpdated, 0, o.autosave)

	return o, nil
}

// Start opens a save for play
func (o *orchestrator) Start(ctx context.Context, input *StartInput) (*StartOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.SaveID == "" {
		return nil, errors.InvalidArgument("save id is required")
	}

	sess, restored, err := o.open(ctx, input.SaveID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	out := &StartOutput{
		SaveID:   sess.id,
		Position: sess.position,
		Log:      append([]string(nil), sess.log...),
		Stats:    sess.stats,
		Restored: restored,
	}
	sess.mu.Unlock()

	o.publishUpdated(ctx, sess)
	return out, nil
}

// open returns the live session for a save id, creating it from the
// stored bundle or from scratch on first use
func (o *orchestrator) open(ctx context.Context, saveID string) (*Session, bool, error) {
	o.mu.RLock()
	sess, ok := o.sessions[saveID]
	o.mu.RUnlock()
	if ok {
		return sess, true, nil
	}

	restored := false
	loadOut, err := o.gameStateRepo.Load(ctx, gamestate.LoadInput{ID: saveID})
	switch {
	case err == nil:
		sess, err = o.restore(saveID, loadOut.Bundle)
		if err != nil {
			return nil, false, err
		}
		restored = true
	case errors.IsNotFound(err):
		sess, err = o.fresh(ctx, saveID)
		if err != nil {
			return nil, false, err
		}
	default:
		return nil, false, errors.Wrap(err, "failed to load save")
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	// Lost the race to another opener; keep theirs
	if existing, ok := o.sessions[saveID]; ok {
		return existing, true, nil
	}
	o.sessions[saveID] = sess
	return sess, restored, nil
}

// restore rebuilds a session from a stored bundle
func (o *orchestrator) restore(saveID string, bundle *game.SaveBundle) (*Session, error) {
	table, err := worldgen.NewEncounterTable(&worldgen.TableConfig{
		Roller:     o.roller,
		Encounters: bundle.Encounters,
	})
	if err != nil {
		return nil, err
	}

	stats := bundle.Stats
	if stats == nil {
		stats = game.NewDefaultStats()
	}
	stats.Normalize()
	places := bundle.Places
	if places == nil {
		places = map[string]game.Place{}
	}

	return &Session{
		id:       saveID,
		position: bundle.Position,
		log:      bundle.Log,
		places:   places,
		stats:    stats,
		table:    table,
	}, nil
}

// fresh starts a new game at the origin and plays out the first visit
func (o *orchestrator) fresh(ctx context.Context, saveID string) (*Session, error) {
	table, err := worldgen.NewEncounterTable(&worldgen.TableConfig{Roller: o.roller})
	if err != nil {
		return nil, err
	}

	sess := &Session{
		id:     saveID,
		places: map[string]game.Place{},
		stats:  game.NewDefaultStats(),
		table:  table,
	}
	sess.append(o.visit(ctx, sess, sess.position))
	return sess, nil
}

// Execute runs one player command
func (o *orchestrator) Execute(ctx context.Context, input *ExecuteInput) (*ExecuteOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.SaveID == "" {
		return nil, errors.InvalidArgument("save id is required")
	}

	sess, _, err := o.open(ctx, input.SaveID)
	if err != nil {
		return nil, err
	}

	cmd := Parse(input.Line)

	sess.mu.Lock()
	if cmd == nil {
		// Blank input is the one case that costs no game time
		out := &ExecuteOutput{
			Lines:    []string{"Please enter a command."},
			Position: sess.position,
			Stats:    sess.stats,
		}
		sess.mu.Unlock()
		return out, nil
	}

	lines := o.dispatch(ctx, sess, cmd)
	lines = append(lines, tickLines(o.engine.AdvanceTime(sess.stats, 1))...)
	sess.append(lines)

	out := &ExecuteOutput{
		Lines:    lines,
		Ticked:   true,
		Position: sess.position,
		Stats:    sess.stats,
	}
	sess.mu.Unlock()

	o.publishUpdated(ctx, sess)
	return out, nil
}

// tickLines renders what the hourly tick did to the player
func tickLines(out *engine.AdvanceTimeOutput) []string {
	var lines []string
	if out.PoisonDamage > 0 {
		lines = append(lines, "You take "+strconv.Itoa(out.PoisonDamage)+" poison damage.")
	}
	for _, name := range out.ExpiredBuffs {
		lines = append(lines, "Your "+name+" wears off.")
	}
	for _, name := range out.ExpiredEffects {
		lines = append(lines, "The "+name+" has run its course.")
	}
	return lines
}

// Save persists an open session's bundle on demand
func (o *orchestrator) Save(ctx context.Context, input *SaveInput) (*SaveOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.SaveID == "" {
		return nil, errors.InvalidArgument("save id is required")
	}

	o.mu.RLock()
	sess, ok := o.sessions[input.SaveID]
	o.mu.RUnlock()
	if !ok {
		return nil, errors.NotFoundf("no open session for save %q", input.SaveID)
	}

	sess.mu.Lock()
	bundle := sess.snapshot()
	sess.mu.Unlock()

	saveOut, err := o.gameStateRepo.Save(ctx, gamestate.SaveInput{ID: input.SaveID, Bundle: bundle})
	if err != nil {
		return nil, errors.Wrap(err, "failed to save session")
	}
	return &SaveOutput{Bundle: saveOut.Bundle}, nil
}

// End writes a final save and drops the session from memory. The
// session stays open if the final save fails.
func (o *orchestrator) End(ctx context.Context, input *EndInput) (*EndOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	if _, err := o.Save(ctx, &SaveInput{SaveID: input.SaveID}); err != nil {
		return nil, err
	}

	o.mu.Lock()
	delete(o.sessions, input.SaveID)
	o.mu.Unlock()

	return &EndOutput{}, nil
}

// publishUpdated fires the autosave event. Must not be called with the
// session mutex held; the subscriber takes it.
func (o *orchestrator) publishUpdated(ctx context.Context, sess *Session) {
	event := events.NewGameEvent(EventSessionUpdated, sess, nil)
	if err := o.eventBus.Publish(ctx, event); err != nil {
		slog.Warn("failed to publish session update",
			"save_id", sess.GetID(),
			"error", err)
	}
}

// autosave persists the bundle after every update event. Errors are
// logged and swallowed so a storage hiccup never blocks play.
func (o *orchestrator) autosave(ctx context.Context, event events.Event) error {
	source := event.Source()
	if source == nil {
		return nil
	}

	o.mu.RLock()
	sess, ok := o.sessions[source.GetID()]
	o.mu.RUnlock()
	if !ok {
		return nil
	}

	sess.mu.Lock()
	bundle := sess.snapshot()
	sess.mu.Unlock()

	if _, err := o.gameStateRepo.Save(ctx, gamestate.SaveInput{ID: sess.GetID(), Bundle: bundle}); err != nil {
		slog.Warn("autosave failed",
			"save_id", sess.GetID(),
			"error", err)
	}
	return nil
}
