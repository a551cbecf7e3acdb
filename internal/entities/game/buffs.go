package game

// Buff is a timed modifier to a named stat. CurrentValue is always
// ValuePerStack multiplied by Stacks, and is the exact amount removed
// from the stat when the buff expires.
type Buff struct {
	Name           string `json:"name"`
	Stat           string `json:"stat"`
	ValuePerStack  int    `json:"valuePerStack"`
	CurrentValue   int    `json:"currentValue"`
	RemainingHours int    `json:"remainingHours"`
	Stacks         int    `json:"stacks"`
	Stackable      bool   `json:"stackable"`
}

// StatusEffect is a timed condition with a per-hour side effect,
// distinct from stat buffs. Poison deals DamagePerHour to health for
// every hour advanced.
type StatusEffect struct {
	Name           string `json:"name"`
	DamagePerHour  int    `json:"damagePerHour,omitempty"`
	RemainingHours int    `json:"remainingHours"`
}

// EffectPoison is the only status effect with a damage component
const EffectPoison = "poison"
