package broadcast

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/scrimworks/scrimbot/internal/chat"
	chatmocks "github.com/scrimworks/scrimbot/internal/chat/mocks"
)

// fakeClock is a movable clock shared with the broadcaster under test.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// fakeSource serves whatever listings the test put in.
type fakeSource struct {
	mu       sync.Mutex
	listings []Listing
}

func (s *fakeSource) set(listings []Listing) {
	s.mu.Lock()
	s.listings = listings
	s.mu.Unlock()
}

func (s *fakeSource) Upcoming(string) []Listing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listings
}

type BroadcasterTestSuite struct {
	suite.Suite
	ctrl   *gomock.Controller
	client *chatmocks.MockClient
	clk    *fakeClock
	source *fakeSource
	ctx    context.Context
}

func (s *BroadcasterTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.client = chatmocks.NewMockClient(s.ctrl)
	s.clk = &fakeClock{now: time.Date(2025, 4, 5, 20, 0, 0, 0, time.UTC)}
	s.source = &fakeSource{}
	s.ctx = context.Background()
}

func (s *BroadcasterTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestBroadcasterTestSuite(t *testing.T) {
	suite.Run(t, new(BroadcasterTestSuite))
}

func (s *BroadcasterTestSuite) newBroadcaster() *Broadcaster {
	b, err := New(&Config{
		ChannelID:  "bchan",
		Client:     s.client,
		Clock:      s.clk,
		Source:     s.source,
		RetryDelay: 5 * time.Millisecond,
	})
	s.Require().NoError(err)
	return b
}

func listing(n int) []Listing {
	return []Listing{{
		ID:    fmt.Sprintf("thread-%d", n),
		Embed: chat.Embed{Description: fmt.Sprintf("scrim %d", n)},
	}}
}

func (s *BroadcasterTestSuite) TestFirstPostScansHistoryAndPublishes() {
	b := s.newBroadcaster()
	s.clk.advance(5 * time.Minute)

	s.source.set(nil)
	s.client.EXPECT().
		ChannelHistory(gomock.Any(), "bchan", 4).
		Return(nil, nil)
	s.client.EXPECT().
		SendMessage(gomock.Any(), "bchan", "No scrims planned at the moment.", gomock.Any(), gomock.Any()).
		Return(&chat.Message{ID: "msg-1", ChannelID: "bchan"}, nil)
	s.client.EXPECT().
		PublishMessage(gomock.Any(), "bchan", "msg-1").
		Return(nil)

	b.Update(s.ctx)

	// Same fingerprint: no further platform traffic
	b.Update(s.ctx)
}

func (s *BroadcasterTestSuite) TestEditsInPlaceThenReposts() {
	b := s.newBroadcaster()
	s.clk.advance(time.Hour)

	s.client.EXPECT().ChannelHistory(gomock.Any(), "bchan", 4).Return(nil, nil)
	s.client.EXPECT().
		SendMessage(gomock.Any(), "bchan", gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&chat.Message{ID: "msg-1", ChannelID: "bchan"}, nil)
	s.client.EXPECT().PublishMessage(gomock.Any(), "bchan", "msg-1").Return(nil)

	s.source.set(listing(0))
	b.Update(s.ctx)

	// Three changes edit the same message in place
	s.client.EXPECT().
		EditMessage(gomock.Any(), "bchan", "msg-1", gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).
		Times(3)
	for n := 1; n <= 3; n++ {
		s.clk.advance(5 * time.Minute)
		s.source.set(listing(n))
		b.Update(s.ctx)
	}

	// The fourth change deletes and reposts to resurface the listing
	s.client.EXPECT().DeleteMessage(gomock.Any(), "bchan", "msg-1").Return(nil)
	s.client.EXPECT().
		SendMessage(gomock.Any(), "bchan", gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&chat.Message{ID: "msg-2", ChannelID: "bchan"}, nil)
	s.client.EXPECT().PublishMessage(gomock.Any(), "bchan", "msg-2").Return(nil)

	s.clk.advance(5 * time.Minute)
	s.source.set(listing(4))
	b.Update(s.ctx)
}

func (s *BroadcasterTestSuite) TestRediscoversOwnMessageAfterRestart() {
	b := s.newBroadcaster()
	s.clk.advance(time.Hour)

	s.client.EXPECT().BotUserID().Return("bot-1").AnyTimes()
	s.client.EXPECT().
		ChannelHistory(gomock.Any(), "bchan", 4).
		Return([]*chat.Message{
			{ID: "other", ChannelID: "bchan", AuthorID: "someone-else"},
			{ID: "mine", ChannelID: "bchan", AuthorID: "bot-1"},
		}, nil)

	// A found message counts as fully edited, so the write replaces it
	s.client.EXPECT().DeleteMessage(gomock.Any(), "bchan", "mine").Return(nil)
	s.client.EXPECT().
		SendMessage(gomock.Any(), "bchan", gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&chat.Message{ID: "msg-1", ChannelID: "bchan"}, nil)
	s.client.EXPECT().PublishMessage(gomock.Any(), "bchan", "msg-1").Return(nil)

	s.source.set(listing(0))
	b.Update(s.ctx)
}

func (s *BroadcasterTestSuite) TestEditFailureClearsHandle() {
	b := s.newBroadcaster()
	s.clk.advance(time.Hour)

	s.client.EXPECT().ChannelHistory(gomock.Any(), "bchan", 4).Return(nil, nil)
	s.client.EXPECT().
		SendMessage(gomock.Any(), "bchan", gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&chat.Message{ID: "msg-1", ChannelID: "bchan"}, nil)
	s.client.EXPECT().PublishMessage(gomock.Any(), "bchan", "msg-1").Return(nil)

	s.source.set(listing(0))
	b.Update(s.ctx)

	// The edit fails: the handle is dropped, and the next cycle
	// rediscovers and reposts
	s.client.EXPECT().
		EditMessage(gomock.Any(), "bchan", "msg-1", gomock.Any(), gomock.Any(), gomock.Any()).
		Return(fmt.Errorf("message was deleted"))

	s.clk.advance(5 * time.Minute)
	s.source.set(listing(1))
	b.Update(s.ctx)

	s.client.EXPECT().ChannelHistory(gomock.Any(), "bchan", 4).Return(nil, nil)
	s.client.EXPECT().
		SendMessage(gomock.Any(), "bchan", gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&chat.Message{ID: "msg-2", ChannelID: "bchan"}, nil)
	s.client.EXPECT().PublishMessage(gomock.Any(), "bchan", "msg-2").Return(nil)

	s.clk.advance(5 * time.Minute)
	b.Update(s.ctx)
}

func (s *BroadcasterTestSuite) TestRateBudgetCapsWrites() {
	b := s.newBroadcaster()

	var mu sync.Mutex
	writes := 0
	countWrite := func() {
		mu.Lock()
		writes++
		mu.Unlock()
	}

	s.client.EXPECT().ChannelHistory(gomock.Any(), "bchan", 4).Return(nil, nil).AnyTimes()
	s.client.EXPECT().DeleteMessage(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	s.client.EXPECT().PublishMessage(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	s.client.EXPECT().
		SendMessage(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string, string, []chat.Embed, []chat.Control) (*chat.Message, error) {
			countWrite()
			return &chat.Message{ID: "msg", ChannelID: "bchan"}, nil
		}).AnyTimes()
	s.client.EXPECT().
		EditMessage(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string, string, string, []chat.Embed, []chat.Control) error {
			countWrite()
			return nil
		}).AnyTimes()

	// 40 distinct changes spread over one hour can cause at most 30
	// external writes
	for n := 0; n < 40; n++ {
		s.clk.advance(90 * time.Second)
		s.source.set(listing(n))
		b.Update(s.ctx)
	}

	mu.Lock()
	total := writes
	mu.Unlock()
	s.LessOrEqual(total, 30)
	s.Greater(total, 0)

	// The last suppressed change still lands once the deferred retry
	// finds budget again
	s.clk.advance(time.Hour)
	s.Eventually(func() bool {
		b.mu.Lock()
		defer b.mu.Unlock()
		return !b.retryPending && equalFingerprint(fingerprintOf(listing(39)), b.fingerprint)
	}, 2*time.Second, 10*time.Millisecond)
}
