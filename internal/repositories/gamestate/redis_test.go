package gamestate_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/Alily223/red-knight/internal/errors"
	"github.com/Alily223/red-knight/internal/repositories/gamestate"
	"github.com/Alily223/red-knight/internal/testutils"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

type RedisRepositoryTestSuite struct {
	suite.Suite
	repo    gamestate.Repository
	clock   *fixedClock
	cleanup func()
	ctx     context.Context
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	client, cleanup := testutils.CreateTestRedisClient(s.T())
	s.cleanup = cleanup
	s.clock = &fixedClock{now: time.Unix(1700000000, 0)}
	s.ctx = context.Background()

	repo, err := gamestate.NewRedis(&gamestate.RedisConfig{Client: client, Clock: s.clock})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *RedisRepositoryTestSuite) TestSaveAndLoad() {
	bundle := testutils.CreateTestBundle()

	saveOut, err := s.repo.Save(s.ctx, gamestate.SaveInput{ID: testutils.TestSaveID, Bundle: bundle})
	s.Require().NoError(err)
	s.Equal(int64(1700000000), saveOut.Bundle.Timestamp)

	loadOut, err := s.repo.Load(s.ctx, gamestate.LoadInput{ID: testutils.TestSaveID})
	s.Require().NoError(err)

	loaded := loadOut.Bundle
	s.Equal(bundle.Position, loaded.Position)
	s.Equal(bundle.Log, loaded.Log)
	s.Equal(bundle.Places, loaded.Places)
	s.Equal(bundle.Encounters, loaded.Encounters)

	// The stats record must round-trip field for field, nested maps included
	s.Equal(bundle.Stats, loaded.Stats)
}

func (s *RedisRepositoryTestSuite) TestLoadMissing() {
	_, err := s.repo.Load(s.ctx, gamestate.LoadInput{ID: "missing"})
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestSaveValidation() {
	_, err := s.repo.Save(s.ctx, gamestate.SaveInput{ID: "", Bundle: testutils.CreateTestBundle()})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Save(s.ctx, gamestate.SaveInput{ID: testutils.TestSaveID, Bundle: nil})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RedisRepositoryTestSuite) TestDelete() {
	_, err := s.repo.Save(s.ctx, gamestate.SaveInput{ID: testutils.TestSaveID, Bundle: testutils.CreateTestBundle()})
	s.Require().NoError(err)

	_, err = s.repo.Delete(s.ctx, gamestate.DeleteInput{ID: testutils.TestSaveID})
	s.Require().NoError(err)

	_, err = s.repo.Load(s.ctx, gamestate.LoadInput{ID: testutils.TestSaveID})
	s.True(errors.IsNotFound(err))

	_, err = s.repo.Delete(s.ctx, gamestate.DeleteInput{ID: testutils.TestSaveID})
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestOverwrite() {
	bundle := testutils.CreateTestBundle()
	_, err := s.repo.Save(s.ctx, gamestate.SaveInput{ID: testutils.TestSaveID, Bundle: bundle})
	s.Require().NoError(err)

	bundle.Stats.Coins = 999
	_, err = s.repo.Save(s.ctx, gamestate.SaveInput{ID: testutils.TestSaveID, Bundle: bundle})
	s.Require().NoError(err)

	loadOut, err := s.repo.Load(s.ctx, gamestate.LoadInput{ID: testutils.TestSaveID})
	s.Require().NoError(err)
	s.Equal(999, loadOut.Bundle.Stats.Coins)
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

// Rows written by the previous backend stored items and abilities as bare
// name strings. Loading one must decode without error.
func TestLoadLegacyRow(t *testing.T) {
	legacy := `{
		"position": {"x": 2, "y": -4},
		"log": ["You discover Misty Forest."],
		"stats": {
			"coins": 40,
			"items": ["Rusty Sword", {"name": "Lantern", "weight": 2}],
			"abilities": ["Ember Step"],
			"mounts": null
		},
		"timestamp": 1600000000
	}`

	client, cleanup := testutils.CreateTestRedisClientWithContext(t, func(mr *miniredis.Miniredis) {
		require.NoError(t, mr.Set("game:"+testutils.TestSaveID, legacy))
	})
	defer cleanup()

	repo, err := gamestate.NewRedis(&gamestate.RedisConfig{Client: client, Clock: &fixedClock{now: time.Unix(1700000000, 0)}})
	require.NoError(t, err)

	out, err := repo.Load(context.Background(), gamestate.LoadInput{ID: testutils.TestSaveID})
	require.NoError(t, err)

	stats := out.Bundle.Stats
	require.NotNil(t, stats)
	require.Len(t, stats.Items, 2)
	assert.Equal(t, "Rusty Sword", stats.Items[0].Name)
	assert.Equal(t, 0, stats.Items[0].Weight)
	assert.Equal(t, "Lantern", stats.Items[1].Name)
	assert.Equal(t, 2, stats.Items[1].Weight)
	require.Len(t, stats.Abilities, 1)
	assert.Equal(t, "Ember Step", stats.Abilities[0].Name)
	assert.Equal(t, 40, stats.Coins)
	assert.Equal(t, -4, out.Bundle.Position.Y)
}
