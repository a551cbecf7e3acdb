package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alily223/red-knight/internal/orchestrators/session"
)

func TestParse(t *testing.T) {
	t.Run("blank input returns nil", func(t *testing.T) {
		assert.Nil(t, session.Parse(""))
		assert.Nil(t, session.Parse("   \t  "))
	})

	t.Run("bare direction becomes a move", func(t *testing.T) {
		cmd := session.Parse("north")
		require.NotNil(t, cmd)
		assert.Equal(t, session.VerbMove, cmd.Verb)
		assert.Equal(t, []string{"north"}, cmd.Args)
	})

	t.Run("movement verbs normalize", func(t *testing.T) {
		for _, line := range []string{"go south", "move south", "walk south", "ride south", "drive south"} {
			cmd := session.Parse(line)
			require.NotNil(t, cmd, line)
			assert.Equal(t, session.VerbMove, cmd.Verb, line)
			assert.Equal(t, "south", cmd.ArgText, line)
		}
	})

	t.Run("verbs are case-insensitive", func(t *testing.T) {
		cmd := session.Parse("GO East")
		require.NotNil(t, cmd)
		assert.Equal(t, session.VerbMove, cmd.Verb)
		assert.Equal(t, "east", cmd.ArgText)
	})

	t.Run("movement verb without a direction stays verbatim", func(t *testing.T) {
		cmd := session.Parse("go fish")
		require.NotNil(t, cmd)
		assert.Equal(t, "go", cmd.Verb)
		assert.Equal(t, []string{"fish"}, cmd.Args)
	})

	t.Run("arguments keep their original case", func(t *testing.T) {
		cmd := session.Parse("ability Stone Gaze")
		require.NotNil(t, cmd)
		assert.Equal(t, "ability", cmd.Verb)
		assert.Equal(t, []string{"Stone", "Gaze"}, cmd.Args)
		assert.Equal(t, "Stone Gaze", cmd.ArgText)
	})

	t.Run("extra whitespace collapses", func(t *testing.T) {
		cmd := session.Parse("  spend   50  ")
		require.NotNil(t, cmd)
		assert.Equal(t, "spend", cmd.Verb)
		assert.Equal(t, "50", cmd.ArgText)
	})
}
