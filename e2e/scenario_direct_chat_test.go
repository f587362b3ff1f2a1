package e2e

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gookit/color"
	"github.com/stretchr/testify/suite"

	"github.com/adrian-25/talk-glide/domain"
	"github.com/adrian-25/talk-glide/repositories"
	"github.com/adrian-25/talk-glide/services"
)

type directChatSuite struct {
	suite.Suite
	Config        Config
	ctx           context.Context
	cancel        context.CancelFunc
	conversations *services.ConversationService
	feed          *services.FeedService
	profiles      *repositories.ProfileRepository
}

func TestDirectChatSuite(t *testing.T) {
	suite.Run(t, &directChatSuite{})
}

func (s *directChatSuite) SetupSuite() {
	cfg, err := LoadConfig()
	s.Require().NoError(err)
	if cfg.DatabaseURL == "" {
		s.T().Skip("E2E_DATABASE_URL not set, skipping backend scenarios")
	}
	s.Config = cfg

	s.ctx, s.cancel = context.WithTimeout(context.Background(), 30*time.Second)

	pool, err := repositories.Connect(s.ctx, cfg.DatabaseURL)
	s.Require().NoError(err)
	s.T().Cleanup(pool.Close)

	convRepo := repositories.NewConversationRepository(pool)
	s.conversations = services.NewConversationService(convRepo, slog.Default())
	s.feed = services.NewFeedService(convRepo, repositories.NewMessageRepository(pool), nil)
	s.profiles = repositories.NewProfileRepository(pool)
}

func (s *directChatSuite) TearDownSuite() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *directChatSuite) step(msg string) {
	if s.Config.Colours {
		color.Info.Println(msg)
		return
	}
	fmt.Println(msg)
}

// Two fresh identities converge on a single direct conversation and both
// see the same history.
func (s *directChatSuite) TestFullDirectChatFlow() {
	suffix := uuid.NewString()[:8]
	alice := domain.Profile{ID: uuid.New(), Username: "e2e_alice_" + suffix}
	bob := domain.Profile{ID: uuid.New(), Username: "e2e_bob_" + suffix}

	s.step("Step 1: provision profiles")
	s.Require().NoError(s.profiles.Upsert(s.ctx, alice))
	s.Require().NoError(s.profiles.Upsert(s.ctx, bob))

	s.step("Step 2: both sides find-or-create the direct conversation")
	fromAlice, err := s.conversations.FindOrCreateDirect(s.ctx, alice.ID, bob.ID)
	s.Require().NoError(err)
	fromBob, err := s.conversations.FindOrCreateDirect(s.ctx, bob.ID, alice.ID)
	s.Require().NoError(err)
	s.Require().Equal(fromAlice, fromBob, "both identities must resolve the same conversation")

	s.step("Step 3: exchange messages")
	s.Require().NoError(s.feed.Send(s.ctx, fromAlice, alice.ID, "hello from alice"))
	s.Require().NoError(s.feed.Send(s.ctx, fromAlice, bob.ID, "hello from bob"))

	s.step("Step 4: history is ordered and complete")
	messages, err := s.feed.LoadMessages(s.ctx, fromAlice)
	s.Require().NoError(err)
	s.Require().Len(messages, 2)
	s.Require().Equal("hello from alice", messages[0].Content)
	s.Require().Equal("hello from bob", messages[1].Content)
	s.Require().False(messages[1].CreatedAt.Before(messages[0].CreatedAt))

	s.step("Step 5: the conversation lists for both members")
	summaries, err := s.conversations.ListConversations(s.ctx, bob.ID)
	s.Require().NoError(err)
	s.Require().NotEmpty(summaries)
	s.Require().Equal(fromAlice, summaries[0].ID, "freshly active conversation must lead the list")
}
