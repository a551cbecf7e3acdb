package engine

import (
	"github.com/Alily223/red-knight/internal/entities/game"
)

type engine struct{}

// Config holds the dependencies for the engine. The rules are pure, so
// there are none yet; the config exists for parity with the rest of the
// constructors.
type Config struct{}

// Validate checks the config
func (cfg *Config) Validate() error {
	return nil
}

// New creates the rules engine
func New(cfg *Config) (Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &engine{}, nil
}

func (e *engine) ApplyBuff(stats *game.PlayerStats, input *ApplyBuffInput) *ApplyBuffOutput {
	if stats.Buffs == nil {
		stats.Buffs = map[string]*game.Buff{}
	}

	existing, ok := stats.Buffs[input.Name]
	if !ok {
		buff := &game.Buff{
			Name:           input.Name,
			Stat:           input.Stat,
			ValuePerStack:  input.Value,
			CurrentValue:   input.Value,
			RemainingHours: input.Hours,
			Stacks:         1,
			Stackable:      input.Stackable,
		}
		stats.Buffs[input.Name] = buff
		stats.Attributes[buff.Stat] += buff.CurrentValue
		return &ApplyBuffOutput{Buff: buff, StatDelta: buff.CurrentValue}
	}

	if !existing.Stackable {
		// Non-stackable buffs only refresh their duration
		if input.Hours > existing.RemainingHours {
			existing.RemainingHours = input.Hours
		}
		return &ApplyBuffOutput{Buff: existing}
	}

	existing.Stacks++
	newValue := existing.ValuePerStack * existing.Stacks
	delta := newValue - existing.CurrentValue
	existing.CurrentValue = newValue
	if input.Hours > existing.RemainingHours {
		existing.RemainingHours = input.Hours
	}
	stats.Attributes[existing.Stat] += delta
	return &ApplyBuffOutput{Buff: existing, StatDelta: delta}
}

func (e *engine) ApplyStatusEffect(
	stats *game.PlayerStats,
	input *ApplyStatusEffectInput,
) *ApplyStatusEffectOutput {
	if stats.StatusEffects == nil {
		stats.StatusEffects = map[string]*game.StatusEffect{}
	}

	effect, ok := stats.StatusEffects[input.Name]
	if !ok {
		effect = &game.StatusEffect{
			Name:           input.Name,
			DamagePerHour:  input.DamagePerHour,
			RemainingHours: input.Hours,
		}
		stats.StatusEffects[input.Name] = effect
		return &ApplyStatusEffectOutput{Effect: effect}
	}

	effect.DamagePerHour = input.DamagePerHour
	if input.Hours > effect.RemainingHours {
		effect.RemainingHours = input.Hours
	}
	return &ApplyStatusEffectOutput{Effect: effect}
}

func (e *engine) AdvanceTime(stats *game.PlayerStats, hours int) *AdvanceTimeOutput {
	out := &AdvanceTimeOutput{}
	if hours <= 0 {
		return out
	}

	for name, buff := range stats.Buffs {
		buff.RemainingHours -= hours
		if buff.RemainingHours <= 0 {
			// The full contribution comes off exactly once, at expiry
			stats.Attributes[buff.Stat] -= buff.CurrentValue
			delete(stats.Buffs, name)
			out.ExpiredBuffs = append(out.ExpiredBuffs, name)
		}
	}

	for name, effect := range stats.StatusEffects {
		if effect.Name == game.EffectPoison && effect.DamagePerHour > 0 {
			// Damage lands for every hour of the tick even if the effect
			// expires during it
			damage := effect.DamagePerHour * hours
			health := stats.Attributes[game.StatHealth] - damage
			if health < 0 {
				health = 0
			}
			stats.Attributes[game.StatHealth] = health
			out.PoisonDamage += damage
		}
		effect.RemainingHours -= hours
		if effect.RemainingHours <= 0 {
			delete(stats.StatusEffects, name)
			out.ExpiredEffects = append(out.ExpiredEffects, name)
		}
	}

	stats.Time = stats.Time.Advance(hours)
	return out
}
