package session

import (
	"strings"

	"github.com/Alily223/red-knight/internal/entities/game"
)

// VerbMove is the canonical verb every movement form normalizes to
const VerbMove = "move"

// Movement verbs that take a direction argument
var movementVerbs = map[string]bool{
	"go":    true,
	"move":  true,
	"walk":  true,
	"ride":  true,
	"drive": true,
}

// Command is one parsed player input line
type Command struct {
	// Verb is the lowercased first token, or VerbMove for any of the
	// normalized movement forms
	Verb string
	// Args are the remaining tokens, verbatim
	Args []string
	// ArgText is the remaining tokens joined by single spaces
	ArgText string
}

// Parse tokenizes a raw input line. Blank or whitespace-only input
// returns nil; nil is the only input that does not consume a game hour.
//
// A bare direction ("north") and a movement verb plus direction
// ("walk north") both normalize to a move command. Every other line
// keeps its first token as the verb.
func Parse(input string) *Command {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return nil
	}

	verb := strings.ToLower(fields[0])

	if _, ok := game.Directions[verb]; ok {
		return &Command{Verb: VerbMove, Args: []string{verb}, ArgText: verb}
	}

	if movementVerbs[verb] && len(fields) > 1 {
		dir := strings.ToLower(fields[1])
		if _, ok := game.Directions[dir]; ok {
			return &Command{Verb: VerbMove, Args: []string{dir}, ArgText: dir}
		}
	}

	args := fields[1:]
	return &Command{Verb: verb, Args: args, ArgText: strings.Join(args, " ")}
}
