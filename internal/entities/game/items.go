package game

import "encoding/json"

// Item is something carried in the inventory. Older saves stored items
// as bare name strings; those decode with zero weight and no description.
type Item struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Weight      int    `json:"weight"`
}

// UnmarshalJSON accepts both the structured form and the legacy bare
// string form, normalizing at the data-model boundary so nothing above
// it has to type-sniff.
func (i *Item) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*i = Item{Name: name}
		return nil
	}

	type itemAlias Item
	var a itemAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*i = Item(a)
	return nil
}

// Ability is a learned ability. Legacy saves stored bare names.
type Ability struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// UnmarshalJSON accepts both the structured and legacy bare string forms
func (a *Ability) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*a = Ability{Name: name}
		return nil
	}

	type abilityAlias Ability
	var al abilityAlias
	if err := json.Unmarshal(data, &al); err != nil {
		return err
	}
	*a = Ability(al)
	return nil
}

// Perk is a permanent stat bonus. Type is either "percentage" or "number".
type Perk struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Stat        string `json:"stat"`
	Type        string `json:"type"`
	Value       int    `json:"value"`
	Level       int    `json:"level"`
}

// CraftedItem is the result of combining resources, memoized by the
// combination key of its ingredients
type CraftedItem struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Weight      int    `json:"weight"`
}
