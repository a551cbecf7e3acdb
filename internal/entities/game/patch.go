package game

// StatsPatch is a partial update to PlayerStats. Scalar fields replace
// wholesale when set; Reputation and Time merge per sub-key so a patch
// touching one faction or one clock field leaves the rest intact.
type StatsPatch struct {
	Attributes map[string]int `json:"attributes,omitempty"`

	Level      *int `json:"level,omitempty"`
	XP         *int `json:"xp,omitempty"`
	PerkPoints *int `json:"perkPoints,omitempty"`
	Coins      *int `json:"coins,omitempty"`

	Items  []Item `json:"items,omitempty"`
	Weight *int   `json:"weight,omitempty"`

	TeleportScrolls *int `json:"teleportScrolls,omitempty"`

	Reputation *ReputationPatch `json:"reputation,omitempty"`
	Time       *WorldTimePatch  `json:"time,omitempty"`

	TechTier *int `json:"techTier,omitempty"`
}

// ReputationPatch sets individual reputation entries without clobbering
// the untouched ones
type ReputationPatch struct {
	Factions map[string]int `json:"factions,omitempty"`
	Guilds   map[string]int `json:"guilds,omitempty"`
	Nations  map[string]int `json:"nations,omitempty"`
}

// WorldTimePatch sets individual clock fields without resetting the rest
type WorldTimePatch struct {
	Year          *int `json:"year,omitempty"`
	Month         *int `json:"month,omitempty"`
	Day           *int `json:"day,omitempty"`
	Hour          *int `json:"hour,omitempty"`
	SurvivalHours *int `json:"survivalHours,omitempty"`
}

// Apply merges the patch into the stats. Attributes merge per key;
// setting Items replaces the inventory and recomputes Weight unless the
// patch carries an explicit Weight.
func (s *PlayerStats) Apply(p *StatsPatch) {
	if p == nil {
		return
	}

	if s.Attributes == nil {
		s.Attributes = map[string]int{}
	}
	for name, value := range p.Attributes {
		s.Attributes[name] = value
	}

	if p.Level != nil {
		s.Level = *p.Level
	}
	if p.XP != nil {
		s.XP = *p.XP
	}
	if p.PerkPoints != nil {
		s.PerkPoints = *p.PerkPoints
	}
	if p.Coins != nil {
		s.Coins = maxInt(*p.Coins, 0)
	}

	if p.Items != nil {
		s.Items = p.Items
		s.Weight = s.TotalItemWeight()
	}
	if p.Weight != nil {
		s.Weight = *p.Weight
	}

	if p.TeleportScrolls != nil {
		s.TeleportScrolls = maxInt(*p.TeleportScrolls, 0)
	}

	if p.Reputation != nil {
		mergeScores(&s.Reputation.Factions, p.Reputation.Factions)
		mergeScores(&s.Reputation.Guilds, p.Reputation.Guilds)
		mergeScores(&s.Reputation.Nations, p.Reputation.Nations)
	}

	if p.Time != nil {
		if p.Time.Year != nil {
			s.Time.Year = *p.Time.Year
		}
		if p.Time.Month != nil {
			s.Time.Month = *p.Time.Month
		}
		if p.Time.Day != nil {
			s.Time.Day = *p.Time.Day
		}
		if p.Time.Hour != nil {
			s.Time.Hour = *p.Time.Hour
		}
		if p.Time.SurvivalHours != nil {
			s.Time.SurvivalHours = *p.Time.SurvivalHours
		}
	}

	if p.TechTier != nil {
		s.TechTier = *p.TechTier
	}
}

func mergeScores(dst *map[string]int, src map[string]int) {
	if len(src) == 0 {
		return
	}
	if *dst == nil {
		*dst = map[string]int{}
	}
	for name, score := range src {
		(*dst)[name] = score
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
