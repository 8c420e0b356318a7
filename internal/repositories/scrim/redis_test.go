package scrim

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

	testNow time.Time
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
	s.testNow = time.Date(2025, 4, 5, 20, 0, 0, 0, time.UTC)
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) testScrim(threadID string) *models.Scrim {
	return &models.Scrim{
		ThreadID:  threadID,
		GuildID:   "guild-1",
		ChannelID: "channel-1",
		Capacity:  8,
		Time:      s.testNow,
		Organizer: models.Organizer{UserID: "user-1", Name: "Organizer"},
		Players: []*models.Participant{
			{UserID: "user-1", Name: "Organizer", Mention: "<@user-1>"},
		},
		Reserve: []*models.Participant{
			{UserID: "user-2", Name: "Reserve", Mention: "<@user-2>", AutoPromote: true},
		},
	}
}

func (s *RedisRepositoryTestSuite) TestSaveAndGet() {
	scrim := s.testScrim("thread-1")

	err := s.repo.Save(s.ctx, &SaveInput{Scrim: scrim})
	s.Require().NoError(err)

	out, err := s.repo.Get(s.ctx, &GetInput{ThreadID: "thread-1"})
	s.Require().NoError(err)
	s.Equal("thread-1", out.Scrim.ThreadID)
	s.Equal(8, out.Scrim.Capacity)
	s.True(out.Scrim.Time.Equal(s.testNow))
	s.Require().Len(out.Scrim.Reserve, 1)
	s.True(out.Scrim.Reserve[0].AutoPromote)
}

func (s *RedisRepositoryTestSuite) TestGetNotFound() {
	_, err := s.repo.Get(s.ctx, &GetInput{ThreadID: "missing"})
	s.ErrorIs(err, ErrScrimNotFound)
}

func (s *RedisRepositoryTestSuite) TestListByGuild() {
	s.Require().NoError(s.repo.Save(s.ctx, &SaveInput{Scrim: s.testScrim("thread-1")}))
	s.Require().NoError(s.repo.Save(s.ctx, &SaveInput{Scrim: s.testScrim("thread-2")}))

	out, err := s.repo.ListByGuild(s.ctx, &ListByGuildInput{GuildID: "guild-1"})
	s.Require().NoError(err)
	s.Len(out.Scrims, 2)
}

func (s *RedisRepositoryTestSuite) TestDelete() {
	s.Require().NoError(s.repo.Save(s.ctx, &SaveInput{Scrim: s.testScrim("thread-1")}))

	err := s.repo.Delete(s.ctx, &DeleteInput{GuildID: "guild-1", ThreadID: "thread-1"})
	s.Require().NoError(err)

	_, err = s.repo.Get(s.ctx, &GetInput{ThreadID: "thread-1"})
	s.ErrorIs(err, ErrScrimNotFound)

	out, err := s.repo.ListByGuild(s.ctx, &ListByGuildInput{GuildID: "guild-1"})
	s.Require().NoError(err)
	s.Empty(out.Scrims)
}
