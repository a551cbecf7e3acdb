package game

import "strings"

// Canonical attribute names. Buffs, perks, and commands address
// attributes by these names.
const (
	StatHealth       = "health"
	StatStamina      = "stamina"
	StatMana         = "mana"
	StatStrength     = "strength"
	StatSpeed        = "speed"
	StatStealth      = "stealth"
	StatAgility      = "agility"
	StatEndurance    = "endurance"
	StatPerception   = "perception"
	StatIntelligence = "intelligence"
	StatCharisma     = "charisma"
	StatLuck         = "luck"
	StatDefense      = "defense"
	StatAttack       = "attack"
	StatCrafting     = "crafting"
)

// ResourceGorgonite is the rare resource that converts into abilities
const ResourceGorgonite = "gorgonite"

// Reputation tracks standing with factions, guilds, and nations
// independently. Scores may go negative.
type Reputation struct {
	Factions map[string]int `json:"factions"`
	Guilds   map[string]int `json:"guilds"`
	Nations  map[string]int `json:"nations"`
}

// ReputationCategories in display order
var ReputationCategories = []string{"faction", "guild", "nation"}

// Category returns the score map for a category name, or nil if the
// category is unknown. Accepts both singular and plural spellings.
func (r *Reputation) Category(name string) map[string]int {
	switch name {
	case "faction", "factions":
		return r.Factions
	case "guild", "guilds":
		return r.Guilds
	case "nation", "nations":
		return r.Nations
	}
	return nil
}

// Resources holds countable crafting materials plus the sub-map of
// resources discovered through generation but not yet gathered
type Resources struct {
	Counts     map[string]int `json:"counts"`
	Discovered map[string]int `json:"discovered"`
}

// PlayerStats is the authoritative player-state record for one save
type PlayerStats struct {
	Attributes map[string]int `json:"attributes"`

	Level      int `json:"level"`
	XP         int `json:"xp"`
	PerkPoints int `json:"perkPoints"`
	Coins      int `json:"coins"`

	Items  []Item `json:"items"`
	Weight int    `json:"weight"`

	Resources Resources `json:"resources"`
	Abilities []Ability `json:"abilities"`
	Perks     []Perk    `json:"perks"`

	PlacesVisited map[string]bool `json:"placesVisited"`

	Mounts        map[string]bool `json:"mounts"`
	Vehicles      map[string]bool `json:"vehicles"`
	ActiveMount   string          `json:"activeMount,omitempty"`
	ActiveVehicle string          `json:"activeVehicle,omitempty"`

	TeleportScrolls int `json:"teleportScrolls"`

	Reputation Reputation `json:"reputation"`

	Buffs         map[string]*Buff         `json:"buffs"`
	StatusEffects map[string]*StatusEffect `json:"statusEffects"`

	Time WorldTime `json:"time"`

	TechTier int `json:"techTier"`
}

// NewDefaultStats returns the template stats for a fresh save
func NewDefaultStats() *PlayerStats {
	return &PlayerStats{
		Attributes: map[string]int{
			StatHealth:       100,
			StatStamina:      100,
			StatMana:         50,
			StatStrength:     10,
			StatSpeed:        10,
			StatStealth:      5,
			StatAgility:      10,
			StatEndurance:    10,
			StatPerception:   5,
			StatIntelligence: 10,
			StatCharisma:     5,
			StatLuck:         5,
			StatDefense:      5,
			StatAttack:       10,
			StatCrafting:     1,
		},
		Level:      1,
		Coins:      10,
		PerkPoints: 1,
		Items:      []Item{},
		Resources: Resources{
			Counts:     map[string]int{},
			Discovered: map[string]int{},
		},
		Abilities:     []Ability{},
		Perks:         []Perk{},
		PlacesVisited: map[string]bool{},
		Mounts:        map[string]bool{},
		Vehicles:      map[string]bool{},
		Reputation: Reputation{
			Factions: map[string]int{},
			Guilds:   map[string]int{},
			Nations:  map[string]int{},
		},
		Buffs:         map[string]*Buff{},
		StatusEffects: map[string]*StatusEffect{},
		Time:          NewWorldTime(),
		TechTier:      1,
	}
}

// Normalize initializes collections a legacy save row may have stored
// as null, so handlers can write into them without nil checks
func (s *PlayerStats) Normalize() {
	if s.Attributes == nil {
		s.Attributes = map[string]int{}
	}
	if s.Resources.Counts == nil {
		s.Resources.Counts = map[string]int{}
	}
	if s.Resources.Discovered == nil {
		s.Resources.Discovered = map[string]int{}
	}
	if s.PlacesVisited == nil {
		s.PlacesVisited = map[string]bool{}
	}
	if s.Mounts == nil {
		s.Mounts = map[string]bool{}
	}
	if s.Vehicles == nil {
		s.Vehicles = map[string]bool{}
	}
	if s.Reputation.Factions == nil {
		s.Reputation.Factions = map[string]int{}
	}
	if s.Reputation.Guilds == nil {
		s.Reputation.Guilds = map[string]int{}
	}
	if s.Reputation.Nations == nil {
		s.Reputation.Nations = map[string]int{}
	}
	if s.Buffs == nil {
		s.Buffs = map[string]*Buff{}
	}
	if s.StatusEffects == nil {
		s.StatusEffects = map[string]*StatusEffect{}
	}
}

// CarryCapacity is how much total item weight the player can haul
// before becoming encumbered
func (s *PlayerStats) CarryCapacity() int {
	return 50 + s.Attributes[StatStrength]*5
}

// Encumbered reports whether carried weight exceeds capacity
func (s *PlayerStats) Encumbered() bool {
	return s.Weight > s.CarryCapacity()
}

// AddItem appends an item and tracks its weight incrementally
func (s *PlayerStats) AddItem(item Item) {
	s.Items = append(s.Items, item)
	s.Weight += item.Weight
}

// TotalItemWeight recomputes the weight sum from scratch. The Weight
// field must always equal this value.
func (s *PlayerStats) TotalItemWeight() int {
	total := 0
	for _, item := range s.Items {
		total += item.Weight
	}
	return total
}

// SpendCoins removes coins if the balance allows it. Coins never go
// negative.
func (s *PlayerStats) SpendCoins(amount int) bool {
	if amount <= 0 || amount > s.Coins {
		return false
	}
	s.Coins -= amount
	return true
}

// AddResource increments a resource count
func (s *PlayerStats) AddResource(name string, amount int) {
	if s.Resources.Counts == nil {
		s.Resources.Counts = map[string]int{}
	}
	s.Resources.Counts[name] += amount
}

// ConsumeResource decrements a resource if enough is held. Resource
// counts never go negative.
func (s *PlayerStats) ConsumeResource(name string, amount int) bool {
	if amount <= 0 || s.Resources.Counts[name] < amount {
		return false
	}
	s.Resources.Counts[name] -= amount
	return true
}

// FindAbility does a case-insensitive lookup by name
func (s *PlayerStats) FindAbility(name string) *Ability {
	for i := range s.Abilities {
		if strings.EqualFold(s.Abilities[i].Name, name) {
			return &s.Abilities[i]
		}
	}
	return nil
}

// SpeedMultiplier is the movement multiplier in effect: 3 aboard a
// vehicle, 2 on a mount, 1 on foot. Mount and vehicle are mutually
// exclusive so the order here only guards inconsistent saves.
func (s *PlayerStats) SpeedMultiplier() int {
	if s.ActiveVehicle != "" {
		return 3
	}
	if s.ActiveMount != "" {
		return 2
	}
	return 1
}
