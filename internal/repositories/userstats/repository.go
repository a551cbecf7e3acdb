// Package userstats provides the legacy user+stats persistence path,
// keyed by user id and holding only the identity record and the stats
// snapshot without world state.
package userstats

//go:generate mockgen -destination=mock/mock_repository.go -package=userstatsmock github.com/Alily223/red-knight/internal/repositories/userstats Repository

import (
	"context"

	"github.com/Alily223/red-knight/internal/entities/game"
)

// Repository defines the interface for user-stats persistence
type Repository interface {
	// Save upserts the user+stats record
	Save(ctx context.Context, input SaveInput) (*SaveOutput, error)

	// Load retrieves the record; errors.NotFound when absent
	Load(ctx context.Context, input LoadInput) (*LoadOutput, error)
}

// SaveInput defines the input for saving a record
type SaveInput struct {
	ID    string
	User  *game.User
	Stats *game.PlayerStats
}

// SaveOutput defines the output for saving a record
type SaveOutput struct{}

// LoadInput defines the input for loading a record
type LoadInput struct {
	ID string
}

// LoadOutput defines the output for loading a record
type LoadOutput struct {
	User  *game.User
	Stats *game.PlayerStats
}
