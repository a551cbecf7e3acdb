// Package game holds the player-state data model shared by the engine,
// the session orchestrator, and the persistence layer.
package game

// SaveBundle is everything persisted for one save id: where the player
// is, what they have seen, and the full stats record.
type SaveBundle struct {
	Position   Coordinate           `json:"position"`
	Log        []string             `json:"log"`
	Places     map[string]Place     `json:"places"`
	Stats      *PlayerStats         `json:"stats"`
	Encounters map[string]Encounter `json:"encounters"`
	Timestamp  int64                `json:"timestamp"`
}

// User is the identity record written at login. Authentication itself
// is delegated to the identity provider; this is only bookkeeping.
type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
	Created string `json:"created"`
}
