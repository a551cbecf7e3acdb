package users_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/Alily223/red-knight/internal/errors"
	"github.com/Alily223/red-knight/internal/repositories/users"
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
	repo    users.Repository
	cleanup func()
	ctx     context.Context
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	client, cleanup := testutils.CreateTestRedisClient(s.T())
	s.cleanup = cleanup
	s.ctx = context.Background()

	repo, err := users.NewRedis(&users.RedisConfig{
		Client: client,
		Clock:  &fixedClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)},
	})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *RedisRepositoryTestSuite) TestCreateIfAbsent() {
	user := testutils.CreateTestUser(testutils.TestUserID)

	out, err := s.repo.CreateIfAbsent(s.ctx, users.CreateIfAbsentInput{User: user})
	s.Require().NoError(err)
	s.True(out.Created)
	s.Equal("2024-03-01T12:00:00Z", out.User.Created)

	// A second login must not overwrite the original record
	changed := testutils.CreateTestUser(testutils.TestUserID)
	changed.Name = "Impostor"
	again, err := s.repo.CreateIfAbsent(s.ctx, users.CreateIfAbsentInput{User: changed})
	s.Require().NoError(err)
	s.False(again.Created)
	s.Equal("Test Player", again.User.Name)
}

func (s *RedisRepositoryTestSuite) TestGetMissing() {
	_, err := s.repo.Get(s.ctx, users.GetInput{ID: "nobody"})
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestValidation() {
	_, err := s.repo.CreateIfAbsent(s.ctx, users.CreateIfAbsentInput{User: nil})
	s.True(errors.IsInvalidArgument(err))
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}
