package userstats_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/Alily223/red-knight/internal/errors"
	"github.com/Alily223/red-knight/internal/repositories/userstats"
	"github.com/Alily223/red-knight/internal/testutils"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	repo    userstats.Repository
	cleanup func()
	ctx     context.Context
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	client, cleanup := testutils.CreateTestRedisClient(s.T())
	s.cleanup = cleanup
	s.ctx = context.Background()

	repo, err := userstats.NewRedis(&userstats.RedisConfig{Client: client})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *RedisRepositoryTestSuite) TestSaveAndLoad() {
	user := testutils.CreateTestUser(testutils.TestUserID)
	stats := testutils.CreateTestStats()

	_, err := s.repo.Save(s.ctx, userstats.SaveInput{ID: testutils.TestUserID, User: user, Stats: stats})
	s.Require().NoError(err)

	out, err := s.repo.Load(s.ctx, userstats.LoadInput{ID: testutils.TestUserID})
	s.Require().NoError(err)
	s.Equal(user, out.User)
	s.Equal(stats, out.Stats)
}

func (s *RedisRepositoryTestSuite) TestLoadMissing() {
	_, err := s.repo.Load(s.ctx, userstats.LoadInput{ID: "missing"})
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestEmptyID() {
	_, err := s.repo.Save(s.ctx, userstats.SaveInput{ID: ""})
	s.True(errors.IsInvalidArgument(err))
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}
