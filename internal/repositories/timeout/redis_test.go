package timeout

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/scrimworks/scrimbot/internal/models"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr     *miniredis.Miniredis
	client *redis.Client
	repo   Repository
	ctx    context.Context
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	repo, err := NewRedis(&Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)
	s.repo = repo

	s.ctx = context.Background()
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) TestSaveListDelete() {
	expiry := time.Date(2025, 4, 5, 20, 0, 0, 0, time.UTC)

	err := s.repo.Save(s.ctx, &SaveInput{Timeout: &models.Timeout{
		UserID:  "user-1",
		GuildID: "guild-1",
		Expiry:  expiry,
		Reason:  "being a menace",
	}})
	s.Require().NoError(err)

	out, err := s.repo.ListByGuild(s.ctx, &ListByGuildInput{GuildID: "guild-1"})
	s.Require().NoError(err)
	s.Require().Len(out.Timeouts, 1)
	s.Equal("user-1", out.Timeouts[0].UserID)
	s.True(out.Timeouts[0].Expiry.Equal(expiry))

	err = s.repo.Delete(s.ctx, &DeleteInput{GuildID: "guild-1", UserID: "user-1"})
	s.Require().NoError(err)

	out, err = s.repo.ListByGuild(s.ctx, &ListByGuildInput{GuildID: "guild-1"})
	s.Require().NoError(err)
	s.Empty(out.Timeouts)
}

func (s *RedisRepositoryTestSuite) TestSaveOverwritesSameUser() {
	first := time.Date(2025, 4, 5, 20, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	for _, expiry := range []time.Time{first, second} {
		err := s.repo.Save(s.ctx, &SaveInput{Timeout: &models.Timeout{
			UserID:  "user-1",
			GuildID: "guild-1",
			Expiry:  expiry,
		}})
		s.Require().NoError(err)
	}

	out, err := s.repo.ListByGuild(s.ctx, &ListByGuildInput{GuildID: "guild-1"})
	s.Require().NoError(err)
	s.Require().Len(out.Timeouts, 1)
	s.True(out.Timeouts[0].Expiry.Equal(second))
}
