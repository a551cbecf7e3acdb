package session

import (
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/core"

	"github.com/Alily223/red-knight/internal/entities/game"
	"github.com/Alily223/red-knight/internal/worldgen"
)

var _ core.Entity = (*Session)(nil)

// maxLogLines caps the retained adventure log so saves stay bounded
const maxLogLines = 500

// Session is one live playthrough. All mutation happens under mu, so
// concurrent commands against the same save serialize into a total
// order and every read-modify-write sees the previous command's result.
type Session struct {
	mu sync.Mutex

	id       string
	position game.Coordinate
	log      []string
	places   map[string]game.Place
	stats    *game.PlayerStats
	table    *worldgen.EncounterTable
}

// GetID implements core.Entity
func (s *Session) GetID() string { return s.id }

// GetType implements core.Entity
func (s *Session) GetType() string { return "session" }

// append adds lines to the adventure log, trimming from the front when
// the cap is exceeded. Callers must hold mu.
func (s *Session) append(lines []string) {
	s.log = append(s.log, lines...)
	if excess := len(s.log) - maxLogLines; excess > 0 {
		s.log = s.log[excess:]
	}
}

// snapshot builds the persistable bundle. Callers must hold mu.
func (s *Session) snapshot() *game.SaveBundle {
	logCopy := make([]string, len(s.log))
	copy(logCopy, s.log)

	places := make(map[string]game.Place, len(s.places))
	for key, place := range s.places {
		places[key] = place
	}

	return &game.SaveBundle{
		Position:   s.position,
		Log:        logCopy,
		Places:     places,
		Stats:      s.stats,
		Encounters: s.table.Snapshot(),
	}
}
