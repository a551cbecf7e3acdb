package session

import "github.com/Alily223/red-knight/internal/entities/game"

// StartInput identifies the save to open. Existing saves restore;
// missing ones start fresh at the origin.
type StartInput struct {
	SaveID string
}

// StartOutput reports the opened session state
type StartOutput struct {
	SaveID   string
	Position game.Coordinate
	Log      []string
	Stats    *game.PlayerStats
	// Restored is true when the session came from a stored bundle
	Restored bool
}

// ExecuteInput carries one raw player input line
type ExecuteInput struct {
	SaveID string
	Line   string
}

// ExecuteOutput reports what the command produced
type ExecuteOutput struct {
	// Lines are the log lines the command appended, in order
	Lines []string
	// Ticked is true when the input parsed and consumed a game hour
	Ticked   bool
	Position game.Coordinate
	Stats    *game.PlayerStats
}

// SaveInput identifies the session to persist
type SaveInput struct {
	SaveID string
}

// SaveOutput reports the persisted bundle
type SaveOutput struct {
	Bundle *game.SaveBundle
}

// EndInput identifies the session to close
type EndInput struct {
	SaveID string
}

// EndOutput is empty; a successful end means the final save was written
type EndOutput struct{}
