// Package engine implements the buff, status-effect, and game-time
// rules that evolve player state.
package engine

import (
	"github.com/Alily223/red-knight/internal/entities/game"
)

// Engine applies timed modifiers and advances the world clock.
// AdvanceTime is deterministic given its inputs; there is no hidden
// randomness, so replaying a command sequence reproduces the same state.
type Engine interface {
	// ApplyBuff adds a buff or stacks/refreshes an existing one with the
	// same name, adjusting the affected stat by the incremental delta
	ApplyBuff(stats *game.PlayerStats, input *ApplyBuffInput) *ApplyBuffOutput

	// ApplyStatusEffect adds or refreshes a timed condition such as poison
	ApplyStatusEffect(stats *game.PlayerStats, input *ApplyStatusEffectInput) *ApplyStatusEffectOutput

	// AdvanceTime moves the clock forward, decaying buffs (reversing each
	// one's full contribution exactly once on expiry), applying per-hour
	// status damage, and rolling the calendar
	AdvanceTime(stats *game.PlayerStats, hours int) *AdvanceTimeOutput
}

// ApplyBuffInput describes the buff to apply
type ApplyBuffInput struct {
	Name      string
	Stat      string
	Value     int
	Hours     int
	Stackable bool
}

// ApplyBuffOutput reports the resulting buff state
type ApplyBuffOutput struct {
	Buff *game.Buff
	// StatDelta is the amount the affected stat changed by this application
	StatDelta int
}

// ApplyStatusEffectInput describes the condition to apply
type ApplyStatusEffectInput struct {
	Name          string
	DamagePerHour int
	Hours         int
}

// ApplyStatusEffectOutput reports the resulting effect state
type ApplyStatusEffectOutput struct {
	Effect *game.StatusEffect
}

// AdvanceTimeOutput summarizes what a tick did
type AdvanceTimeOutput struct {
	ExpiredBuffs   []string
	ExpiredEffects []string
	PoisonDamage   int
}
