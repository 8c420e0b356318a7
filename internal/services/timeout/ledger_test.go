package timeout

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	chatmocks "github.com/scrimworks/scrimbot/internal/chat/mocks"
	clockmocks "github.com/scrimworks/scrimbot/internal/common/clock/mocks"
	"github.com/scrimworks/scrimbot/internal/models"
	timeoutRepo "github.com/scrimworks/scrimbot/internal/repositories/timeout"
)

type recordingEjector struct {
	mu    sync.Mutex
	users []string
	until time.Time
}

func (e *recordingEjector) EjectUser(_ context.Context, userID string, until time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.users = append(e.users, userID)
	e.until = until
}

func (e *recordingEjector) ejected() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.users...)
}

type LedgerTestSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	mr      *miniredis.Miniredis
	client  *redis.Client
	repo    timeoutRepo.Repository
	chat    *chatmocks.MockClient
	clock   *clockmocks.MockClock
	ejector *recordingEjector
	ctx     context.Context

	testNow time.Time
}

func (s *LedgerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{Addr: s.mr.Addr()})
	repo, err := timeoutRepo.NewRedis(&timeoutRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)
	s.repo = repo

	s.chat = chatmocks.NewMockClient(s.ctrl)
	s.clock = clockmocks.NewMockClock(s.ctrl)
	s.ejector = &recordingEjector{}
	s.ctx = context.Background()

	s.testNow = time.Date(2025, 4, 5, 20, 0, 0, 0, time.UTC)
	s.clock.EXPECT().Now().Return(s.testNow).AnyTimes()
}

func (s *LedgerTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
	s.ctrl.Finish()
}

func TestLedgerTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerTestSuite))
}

func (s *LedgerTestSuite) newLedger(roleID string) *Ledger {
	l, err := New(s.ctx, &Config{
		GuildID:     "guild-1",
		Client:      s.chat,
		Clock:       s.clock,
		Repo:        s.repo,
		TimeoutRole: func() string { return roleID },
		Ejector:     s.ejector,
	})
	s.Require().NoError(err)
	return l
}

func (s *LedgerTestSuite) TestAddUser() {
	s.chat.EXPECT().
		AddRole(gomock.Any(), "guild-1", "user-1", "role-1", "being a nuisance").
		Return(nil)

	l := s.newLedger("role-1")

	entry, err := l.AddUser(s.ctx, "user-1", time.Hour, "being a nuisance")
	s.Require().NoError(err)
	s.True(entry.Expiry.Equal(s.testNow.Add(time.Hour)))

	s.True(l.Contains("user-1"))
	remaining, ok := l.TimeRemaining("user-1")
	s.True(ok)
	s.Equal(time.Hour, remaining)

	// Affected scrims were asked to eject the user
	s.Equal([]string{"user-1"}, s.ejector.ejected())
	s.True(s.ejector.until.Equal(entry.Expiry))

	// Entry survives in the repository
	out, err := s.repo.ListByGuild(s.ctx, &timeoutRepo.ListByGuildInput{GuildID: "guild-1"})
	s.Require().NoError(err)
	s.Require().Len(out.Timeouts, 1)
	s.Equal("user-1", out.Timeouts[0].UserID)
}

func (s *LedgerTestSuite) TestAddUserTwice() {
	s.chat.EXPECT().AddRole(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	l := s.newLedger("role-1")

	_, err := l.AddUser(s.ctx, "user-1", time.Hour, "")
	s.Require().NoError(err)

	_, err = l.AddUser(s.ctx, "user-1", time.Hour, "")
	s.ErrorIs(err, ErrAlreadyOnTimeout)
}

func (s *LedgerTestSuite) TestAddUserRejectsNonPositiveDuration() {
	l := s.newLedger("")

	_, err := l.AddUser(s.ctx, "user-1", 0, "")
	s.ErrorIs(err, ErrNonPositiveDuration)
}

func (s *LedgerTestSuite) TestRemoveUser() {
	s.chat.EXPECT().AddRole(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	s.chat.EXPECT().
		RemoveRole(gomock.Any(), "guild-1", "user-1", "role-1", "cleared").
		Return(nil)

	l := s.newLedger("role-1")

	_, err := l.AddUser(s.ctx, "user-1", time.Hour, "")
	s.Require().NoError(err)

	s.Require().NoError(l.RemoveUser(s.ctx, "user-1", "cleared"))
	s.False(l.Contains("user-1"))

	out, err := s.repo.ListByGuild(s.ctx, &timeoutRepo.ListByGuildInput{GuildID: "guild-1"})
	s.Require().NoError(err)
	s.Empty(out.Timeouts)
}

func (s *LedgerTestSuite) TestRemoveUserNotOnTimeout() {
	l := s.newLedger("")
	s.ErrorIs(l.RemoveUser(s.ctx, "user-1", ""), ErrNotOnTimeout)
}

func (s *LedgerTestSuite) TestExpiryLiftsTimeout() {
	s.chat.EXPECT().AddRole(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	s.chat.EXPECT().
		RemoveRole(gomock.Any(), "guild-1", "user-1", "role-1", "timeout expired").
		Return(nil)

	l := s.newLedger("role-1")

	_, err := l.AddUser(s.ctx, "user-1", 10*time.Millisecond, "")
	s.Require().NoError(err)

	s.Eventually(func() bool {
		return !l.Contains("user-1")
	}, time.Second, 5*time.Millisecond)
}

func (s *LedgerTestSuite) TestRestartResumesCountdowns() {
	s.Require().NoError(s.repo.Save(s.ctx, &timeoutRepo.SaveInput{
		Timeout: &models.Timeout{
			UserID:  "user-1",
			GuildID: "guild-1",
			Expiry:  s.testNow.Add(time.Hour),
			Reason:  "persisted",
		},
	}))

	l := s.newLedger("")

	s.True(l.Contains("user-1"))
	remaining, ok := l.TimeRemaining("user-1")
	s.True(ok)
	s.Equal(time.Hour, remaining)
}

func (s *LedgerTestSuite) TestRestartLiftsLapsedEntries() {
	s.chat.EXPECT().
		MemberRoles(gomock.Any(), "guild-1", "user-1").
		Return([]string{"role-1"}, nil)
	s.chat.EXPECT().
		RemoveRole(gomock.Any(), "guild-1", "user-1", "role-1", "timeout expired").
		Return(nil)

	s.Require().NoError(s.repo.Save(s.ctx, &timeoutRepo.SaveInput{
		Timeout: &models.Timeout{
			UserID:  "user-1",
			GuildID: "guild-1",
			Expiry:  s.testNow.Add(-time.Minute),
		},
	}))

	l := s.newLedger("role-1")

	s.Eventually(func() bool {
		return !l.Contains("user-1")
	}, time.Second, 5*time.Millisecond)
}

func (s *LedgerTestSuite) TestRestartDropsEntriesWithoutRole() {
	s.chat.EXPECT().
		MemberRoles(gomock.Any(), "guild-1", "user-1").
		Return([]string{"other-role"}, nil)

	s.Require().NoError(s.repo.Save(s.ctx, &timeoutRepo.SaveInput{
		Timeout: &models.Timeout{
			UserID:  "user-1",
			GuildID: "guild-1",
			Expiry:  s.testNow.Add(time.Hour),
		},
	}))

	// The role was taken away while the process was down, so the entry
	// is dropped without role traffic
	l := s.newLedger("role-1")

	s.False(l.Contains("user-1"))
	out, err := s.repo.ListByGuild(s.ctx, &timeoutRepo.ListByGuildInput{GuildID: "guild-1"})
	s.Require().NoError(err)
	s.Empty(out.Timeouts)
}

func (s *LedgerTestSuite) TestDropSkipsRoleRemoval() {
	s.chat.EXPECT().AddRole(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	l := s.newLedger("role-1")

	_, err := l.AddUser(s.ctx, "user-1", time.Hour, "")
	s.Require().NoError(err)

	// No RemoveRole expectation: Drop must not touch roles
	l.Drop(s.ctx, "user-1")
	s.False(l.Contains("user-1"))

	out, err := s.repo.ListByGuild(s.ctx, &timeoutRepo.ListByGuildInput{GuildID: "guild-1"})
	s.Require().NoError(err)
	s.Empty(out.Timeouts)
}
