package scrim

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/scrimworks/scrimbot/internal/chat"
	chatmocks "github.com/scrimworks/scrimbot/internal/chat/mocks"
	clockmocks "github.com/scrimworks/scrimbot/internal/common/clock/mocks"
	uuidmocks "github.com/scrimworks/scrimbot/internal/common/uuid/mocks"
	"github.com/scrimworks/scrimbot/internal/models"
	participationRepo "github.com/scrimworks/scrimbot/internal/repositories/participation"
	scrimRepo "github.com/scrimworks/scrimbot/internal/repositories/scrim"
	settingsRepo "github.com/scrimworks/scrimbot/internal/repositories/settings"
	timeoutRepo "github.com/scrimworks/scrimbot/internal/repositories/timeout"
	"github.com/scrimworks/scrimbot/internal/services/settings"
)

type ManagerTestSuite struct {
	suite.Suite
	ctrl   *gomock.Controller
	mr     *miniredis.Miniredis
	client *redis.Client

	chat    *chatmocks.MockClient
	clock   *clockmocks.MockClock
	uuid    *uuidmocks.MockUUID
	scrims  scrimRepo.Repository
	ctx     context.Context
	testNow time.Time
	cfg     *Config
}

func (s *ManagerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr
	s.client = redis.NewClient(&redis.Options{Addr: s.mr.Addr()})

	scrims, err := scrimRepo.NewRedis(&scrimRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)
	s.scrims = scrims
	timeouts, err := timeoutRepo.NewRedis(&timeoutRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)
	participations, err := participationRepo.NewRedis(&participationRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)
	settingsStore, err := settingsRepo.NewRedis(&settingsRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)

	s.chat = chatmocks.NewMockClient(s.ctrl)
	s.clock = clockmocks.NewMockClock(s.ctrl)
	s.uuid = uuidmocks.NewMockUUID(s.ctrl)
	s.ctx = context.Background()
	s.testNow = time.Date(2025, 4, 5, 20, 0, 0, 0, time.UTC)
	s.clock.EXPECT().Now().Return(s.testNow).AnyTimes()
	uuidSeq := 0
	s.uuid.EXPECT().NewUUID().DoAndReturn(func() string {
		uuidSeq++
		return fmt.Sprintf("uuid-%d", uuidSeq)
	}).AnyTimes()

	svc, err := settings.New(s.ctx, &settings.Config{
		GuildID:  "guild-1",
		Repo:     settingsStore,
		Channels: func() map[string]struct{} { return map[string]struct{}{} },
		Roles:    func() map[string]struct{} { return map[string]struct{}{} },
	})
	s.Require().NoError(err)

	s.cfg = &Config{
		GuildID:           "guild-1",
		Client:            s.chat,
		Clock:             s.clock,
		UUID:              s.uuid,
		ScrimRepo:         scrims,
		TimeoutRepo:       timeouts,
		ParticipationRepo: participations,
		Settings:          svc,
	}
}

func (s *ManagerTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
	s.ctrl.Finish()
}

func TestManagerTestSuite(t *testing.T) {
	suite.Run(t, new(ManagerTestSuite))
}

// allowRendering makes the routine platform traffic of a live manager
// permissive so tests can assert on engine state instead.
func (s *ManagerTestSuite) allowRendering() {
	s.chat.EXPECT().
		EditMessage(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).AnyTimes()
	s.chat.EXPECT().
		AddThreadMember(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).AnyTimes()
	s.chat.EXPECT().
		SendMessage(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&chat.Message{ID: "sent", ChannelID: "thread-1"}, nil).AnyTimes()
	s.chat.EXPECT().
		ReplyMessage(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&chat.Message{ID: "reply", ChannelID: "channel-1"}, nil).AnyTimes()
}

func (s *ManagerTestSuite) newGuild() *Guild {
	g, err := NewGuild(s.ctx, s.cfg)
	s.Require().NoError(err)
	return g
}

func (s *ManagerTestSuite) storedScrim(startIn time.Duration, players ...string) *models.Scrim {
	sc := &models.Scrim{
		ThreadID:         "thread-1",
		GuildID:          "guild-1",
		ChannelID:        "channel-1",
		ContentMessageID: "content-1",
		Capacity:         8,
		Time:             s.testNow.Add(startIn),
		Organizer:        models.Organizer{UserID: "organizer"},
	}
	for _, p := range players {
		sc.AddPlayer(&models.Participant{UserID: p, Name: p, Mention: "<@" + p + ">"})
	}
	s.Require().NoError(s.scrims.Save(s.ctx, &scrimRepo.SaveInput{Scrim: sc}))
	return sc
}

// expectResolve wires the platform fetches of one stored scrim's manager.
func (s *ManagerTestSuite) expectResolve(archived bool) {
	s.chat.EXPECT().
		FetchThread(gomock.Any(), "thread-1").
		Return(&chat.Thread{ID: "thread-1", ParentID: "channel-1", Archived: archived}, nil).
		AnyTimes()
	s.chat.EXPECT().
		FetchMessage(gomock.Any(), "channel-1", "thread-1").
		Return(&chat.Message{ID: "thread-1", ChannelID: "channel-1"}, nil).
		AnyTimes()
	s.chat.EXPECT().
		FetchMessage(gomock.Any(), "thread-1", "content-1").
		Return(&chat.Message{ID: "content-1", ChannelID: "thread-1"}, nil).
		AnyTimes()
}

func (s *ManagerTestSuite) TestResyncBeforeStart() {
	s.storedScrim(2 * time.Hour)
	s.expectResolve(false)
	s.allowRendering()

	g := s.newGuild()
	g.Init(s.ctx)

	m, err := g.ManagerByThread("thread-1")
	s.Require().NoError(err)
	s.Equal(StateBefore, m.State())
	s.False(m.Scrim().Started)
}

func (s *ManagerTestSuite) TestResyncRunningFiresStart() {
	s.storedScrim(-time.Minute, "a", "b")
	s.expectResolve(false)
	s.allowRendering()

	g := s.newGuild()
	g.Init(s.ctx)

	m, err := g.ManagerByThread("thread-1")
	s.Require().NoError(err)

	// The start timer catches up asynchronously
	s.Eventually(func() bool {
		return m.Scrim().Started
	}, time.Second, 5*time.Millisecond)
	s.Equal(StateRunning, m.State())
}

func (s *ManagerTestSuite) TestResyncLongPastEnds() {
	s.storedScrim(-3*time.Hour, "a")
	s.expectResolve(false)
	s.allowRendering()
	s.chat.EXPECT().ArchiveThread(gomock.Any(), "thread-1").Return(nil)

	g := s.newGuild()
	g.Init(s.ctx)

	_, err := g.ManagerByThread("thread-1")
	s.ErrorIs(err, ErrScrimNotFound)

	out, err := s.scrims.ListByGuild(s.ctx, &scrimRepo.ListByGuildInput{GuildID: "guild-1"})
	s.Require().NoError(err)
	s.Empty(out.Scrims)
}

func (s *ManagerTestSuite) TestResyncArchivedThreadEnds() {
	s.storedScrim(time.Hour, "a")
	s.expectResolve(true)
	s.allowRendering()
	s.chat.EXPECT().ArchiveThread(gomock.Any(), "thread-1").Return(nil).AnyTimes()

	g := s.newGuild()
	g.Init(s.ctx)

	_, err := g.ManagerByThread("thread-1")
	s.ErrorIs(err, ErrScrimNotFound)
}

func (s *ManagerTestSuite) TestJoinLeaveRoundTrip() {
	s.storedScrim(2 * time.Hour)
	s.expectResolve(false)
	s.allowRendering()

	g := s.newGuild()
	g.Init(s.ctx)
	m, err := g.ManagerByThread("thread-1")
	s.Require().NoError(err)

	reply := m.Join(s.ctx, User{ID: "a", Name: "a", Mention: "<@a>"})
	s.Equal("Great, I added you to the scrim!", reply)
	s.True(m.ContainsPlayer("a"))

	reply = m.Join(s.ctx, User{ID: "a", Name: "a", Mention: "<@a>"})
	s.Equal("Whoops, you are already in there!", reply)

	reply = m.Leave(s.ctx, User{ID: "a"})
	s.Equal("Okay, removed you from the scrim.", reply)
	s.False(m.ContainsPlayer("a"))

	reply = m.Leave(s.ctx, User{ID: "a"})
	s.Equal("You are not in this scrim!", reply)

	// Roster changes survive in the repository
	out, err := s.scrims.Get(s.ctx, &scrimRepo.GetInput{ThreadID: "thread-1"})
	s.Require().NoError(err)
	s.Equal(0, out.Scrim.NumPlayers())
}

func (s *ManagerTestSuite) TestJoinWhenFullArmsAutoJoin() {
	sc := s.storedScrim(2*time.Hour, "a", "b")
	sc.Capacity = 2
	s.Require().NoError(s.scrims.Save(s.ctx, &scrimRepo.SaveInput{Scrim: sc}))
	s.expectResolve(false)
	s.allowRendering()

	g := s.newGuild()
	g.Init(s.ctx)
	m, err := g.ManagerByThread("thread-1")
	s.Require().NoError(err)

	reply := m.Join(s.ctx, User{ID: "c", Mention: "<@c>"})
	s.Contains(reply, "reserve list with auto-join")

	snapshot := m.Scrim()
	s.True(snapshot.ContainsReserve("c"))
	s.True(snapshot.Reserve[0].AutoPromote)

	// The armed reserve moves in as soon as a player leaves
	m.Leave(s.ctx, User{ID: "a"})
	s.True(m.ContainsPlayer("c"))
}

func (s *ManagerTestSuite) TestKick() {
	s.storedScrim(2*time.Hour, "a", "b")
	s.expectResolve(false)
	s.allowRendering()

	g := s.newGuild()
	g.Init(s.ctx)
	m, err := g.ManagerByThread("thread-1")
	s.Require().NoError(err)

	reply, private := m.Kick(s.ctx, "outsider")
	s.True(private)
	s.Equal("That user is not in this scrim.", reply)

	reply, private = m.Kick(s.ctx, "a")
	s.False(private)
	s.Contains(reply, "<@a>")
	s.False(m.ContainsPlayer("a"))

	// The removal survives in the repository
	out, err := s.scrims.Get(s.ctx, &scrimRepo.GetInput{ThreadID: "thread-1"})
	s.Require().NoError(err)
	s.Equal(1, out.Scrim.NumPlayers())
}

func (s *ManagerTestSuite) TestKickRefusedAfterStart() {
	s.storedScrim(-time.Minute, "a")
	s.expectResolve(false)
	s.allowRendering()

	g := s.newGuild()
	g.Init(s.ctx)
	m, err := g.ManagerByThread("thread-1")
	s.Require().NoError(err)
	s.Eventually(func() bool { return m.Scrim().Started }, time.Second, 5*time.Millisecond)

	reply, private := m.Kick(s.ctx, "a")
	s.True(private)
	s.Contains(reply, "already started")
	s.True(m.ContainsPlayer("a"))
}

func (s *ManagerTestSuite) TestReserveToggle() {
	s.storedScrim(2 * time.Hour)
	s.expectResolve(false)
	s.allowRendering()

	g := s.newGuild()
	g.Init(s.ctx)
	m, err := g.ManagerByThread("thread-1")
	s.Require().NoError(err)

	reply := m.Reserve(s.ctx, User{ID: "a", Mention: "<@a>"})
	s.Equal("Put you on the reserve list!", reply)

	reply = m.Reserve(s.ctx, User{ID: "a", Mention: "<@a>"})
	s.Contains(reply, "turned auto-join off")
}

func (s *ManagerTestSuite) TestReserveAfterStartKeepsPlayer() {
	s.storedScrim(-time.Minute, "a")
	s.expectResolve(false)
	s.allowRendering()

	g := s.newGuild()
	g.Init(s.ctx)
	m, err := g.ManagerByThread("thread-1")
	s.Require().NoError(err)
	s.Eventually(func() bool { return m.Scrim().Started }, time.Second, 5*time.Millisecond)

	reply := m.Reserve(s.ctx, User{ID: "a", Mention: "<@a>"})
	s.Equal("You can't switch to reserve after the scrim started!", reply)
	s.True(m.ContainsPlayer("a"))
}

func (s *ManagerTestSuite) TestCallReserve() {
	s.storedScrim(2*time.Hour, "a")
	s.expectResolve(false)
	s.allowRendering()

	g := s.newGuild()
	g.Init(s.ctx)
	m, err := g.ManagerByThread("thread-1")
	s.Require().NoError(err)

	reply, private := m.CallReserve(s.ctx, User{ID: "outsider"})
	s.True(private)
	s.Equal("You are not in this scrim!", reply)

	reply, private = m.CallReserve(s.ctx, User{ID: "a"})
	s.True(private)
	s.Equal("No reserve available", reply)

	m.Reserve(s.ctx, User{ID: "r", Mention: "<@r>"})
	reply, private = m.CallReserve(s.ctx, User{ID: "a"})
	s.False(private)
	s.Contains(reply, "<@r>")

	// Called is sticky: the queue does not re-page the same reserve
	reply, private = m.CallReserve(s.ctx, User{ID: "a"})
	s.True(private)
	s.Equal("No reserve available", reply)
}

func (s *ManagerTestSuite) TestPingCooldown() {
	s.storedScrim(2*time.Hour, "a", "b")
	s.expectResolve(false)
	s.allowRendering()

	g := s.newGuild()
	g.Init(s.ctx)
	m, err := g.ManagerByThread("thread-1")
	s.Require().NoError(err)

	reply, private := m.Ping("outsider", "hello")
	s.True(private)
	s.Equal("You are not in this scrim!", reply)

	reply, private = m.Ping("a", "get on")
	s.False(private)
	s.Contains(reply, "<@a>")
	s.Contains(reply, "<@b>")
	s.Contains(reply, "get on")

	reply, private = m.Ping("a", "again")
	s.True(private)
	s.Equal("Don't ping that often!", reply)
}

func (s *ManagerTestSuite) TestTimeoutBlocksJoin() {
	s.storedScrim(2 * time.Hour)
	s.expectResolve(false)
	s.allowRendering()
	s.chat.EXPECT().
		AddRole(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).AnyTimes()

	g := s.newGuild()
	g.Init(s.ctx)
	m, err := g.ManagerByThread("thread-1")
	s.Require().NoError(err)

	_, err = g.Ledger().AddUser(s.ctx, "a", time.Hour, "test")
	s.Require().NoError(err)

	reply := m.Join(s.ctx, User{ID: "a"})
	s.Equal("Sorry buddy, you are on a timeout!", reply)
	s.False(m.ContainsPlayer("a"))
}

func (s *ManagerTestSuite) TestTimeoutEjectsFromAffectedScrims() {
	s.storedScrim(30*time.Minute, "a", "b")
	s.expectResolve(false)
	s.allowRendering()
	s.chat.EXPECT().
		AddRole(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).AnyTimes()

	g := s.newGuild()
	g.Init(s.ctx)
	m, err := g.ManagerByThread("thread-1")
	s.Require().NoError(err)

	// The timeout covers the scrim's start, so a is removed
	_, err = g.Ledger().AddUser(s.ctx, "a", time.Hour, "test")
	s.Require().NoError(err)
	s.False(m.ContainsPlayer("a"))
	s.True(m.ContainsPlayer("b"))
}

func (s *ManagerTestSuite) TestTimeoutSparesLaterScrims() {
	s.storedScrim(2*time.Hour, "a")
	s.expectResolve(false)
	s.allowRendering()
	s.chat.EXPECT().
		AddRole(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).AnyTimes()

	g := s.newGuild()
	g.Init(s.ctx)
	m, err := g.ManagerByThread("thread-1")
	s.Require().NoError(err)

	// The timeout lapses before the scrim starts, so a stays
	_, err = g.Ledger().AddUser(s.ctx, "a", time.Hour, "test")
	s.Require().NoError(err)
	s.True(m.ContainsPlayer("a"))
}

func (s *ManagerTestSuite) TestTimeoutBlocksCreate() {
	s.allowRendering()
	s.chat.EXPECT().
		AddRole(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).AnyTimes()

	g := s.newGuild()
	g.Init(s.ctx)

	_, err := g.Ledger().AddUser(s.ctx, "organizer", time.Hour, "test")
	s.Require().NoError(err)

	_, err = g.CreateScrim(s.ctx, &CreateScrimInput{
		ChannelID: "channel-1",
		Time:      s.testNow.Add(2 * time.Hour),
		Organizer: OrganizerInput{UserID: "organizer", Name: "Org"},
	})
	s.Require().ErrorIs(err, ErrOrganizerOnTimeout)
	s.Empty(g.Managers())
}

func (s *ManagerTestSuite) TestHasOverlapping() {
	s.storedScrim(2 * time.Hour)
	s.expectResolve(false)
	s.allowRendering()

	g := s.newGuild()
	g.Init(s.ctx)

	s.True(g.HasOverlapping("channel-1", s.testNow.Add(2*time.Hour+45*time.Minute)))
	s.False(g.HasOverlapping("channel-1", s.testNow.Add(4*time.Hour)))
	s.False(g.HasOverlapping("channel-2", s.testNow.Add(2*time.Hour)))
}

func (s *ManagerTestSuite) TestUpcomingScrims() {
	s.storedScrim(2 * time.Hour)
	for threadID, startIn := range map[string]time.Duration{
		"thread-2": time.Hour,
		"thread-3": -30 * time.Minute,
	} {
		sc := &models.Scrim{
			ThreadID:         threadID,
			GuildID:          "guild-1",
			ChannelID:        "channel-1",
			ContentMessageID: "content-1",
			Capacity:         8,
			Time:             s.testNow.Add(startIn),
			Organizer:        models.Organizer{UserID: "organizer"},
		}
		s.Require().NoError(s.scrims.Save(s.ctx, &scrimRepo.SaveInput{Scrim: sc}))
	}
	s.chat.EXPECT().
		FetchThread(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, id string) (*chat.Thread, error) {
			return &chat.Thread{ID: id, ParentID: "channel-1"}, nil
		}).AnyTimes()
	s.chat.EXPECT().
		FetchMessage(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, channelID, id string) (*chat.Message, error) {
			return &chat.Message{ID: id, ChannelID: channelID}, nil
		}).AnyTimes()
	s.allowRendering()

	g := s.newGuild()
	g.Init(s.ctx)

	// The running scrim is filtered out, the rest sort soonest first
	upcoming := g.UpcomingScrims(10)
	s.Require().Len(upcoming, 2)
	s.Equal("thread-2", upcoming[0].ThreadID)
	s.Equal("thread-1", upcoming[1].ThreadID)

	capped := g.UpcomingScrims(1)
	s.Require().Len(capped, 1)
	s.Equal("thread-2", capped[0].ThreadID)
}

func (s *ManagerTestSuite) TestCreateScrim() {
	// Specific expectations first so the permissive rendering ones do
	// not swallow them
	s.chat.EXPECT().
		SendMessage(gomock.Any(), "channel-1", gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&chat.Message{ID: "announce-1", ChannelID: "channel-1"}, nil)
	s.chat.EXPECT().
		CreateThread(gomock.Any(), "channel-1", "announce-1", "22.00").
		Return(&chat.Thread{ID: "announce-1", ParentID: "channel-1"}, nil)
	s.chat.EXPECT().
		SendMessage(gomock.Any(), "announce-1", gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&chat.Message{ID: "content-1", ChannelID: "announce-1"}, nil)
	s.allowRendering()

	g := s.newGuild()
	g.Init(s.ctx)

	m, err := g.CreateScrim(s.ctx, &CreateScrimInput{
		ChannelID: "channel-1",
		Time:      s.testNow.Add(2 * time.Hour),
		Organizer: OrganizerInput{UserID: "organizer", Name: "Org"},
	})
	s.Require().NoError(err)

	snapshot := m.Scrim()
	s.Equal("announce-1", snapshot.ThreadID)
	s.Equal("content-1", snapshot.ContentMessageID)
	// Capacity falls back to the channel default
	s.Equal(8, snapshot.Capacity)

	out, err := s.scrims.Get(s.ctx, &scrimRepo.GetInput{ThreadID: "announce-1"})
	s.Require().NoError(err)
	s.Equal("announce-1", out.Scrim.ThreadID)
}

func (s *ManagerTestSuite) TestFullStartLogsParticipation() {
	sc := s.storedScrim(-time.Minute, "a", "b")
	sc.Capacity = 2
	s.Require().NoError(s.scrims.Save(s.ctx, &scrimRepo.SaveInput{Scrim: sc}))
	s.expectResolve(false)
	s.allowRendering()

	g := s.newGuild()
	g.Init(s.ctx)
	m, err := g.ManagerByThread("thread-1")
	s.Require().NoError(err)
	s.Eventually(func() bool { return m.Scrim().Started }, time.Second, 5*time.Millisecond)

	s.Eventually(func() bool {
		out, err := s.cfg.ParticipationRepo.ListByGuild(s.ctx, &participationRepo.ListByGuildInput{GuildID: "guild-1"})
		return err == nil && len(out.Participations) == 2
	}, time.Second, 5*time.Millisecond)
}
