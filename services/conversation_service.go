package services

import (
	"context"
	stderrors "errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/adrian-25/talk-glide/domain"
	"github.com/adrian-25/talk-glide/errors"
	"github.com/adrian-25/talk-glide/repositories"
)

type IConversationService interface {
	ListConversations(ctx context.Context, userID uuid.UUID) ([]domain.ConversationSummary, error)
	FindOrCreateDirect(ctx context.Context, userID, otherUserID uuid.UUID) (uuid.UUID, error)
	CreateGroup(ctx context.Context, userID uuid.UUID, name string, memberIDs []uuid.UUID) (uuid.UUID, error)
}

// ConversationService resolves, lists, and creates conversations and their
// membership for the current identity.
type ConversationService struct {
	conversations repositories.IConversationRepository
	log           *slog.Logger
}

func NewConversationService(conversations repositories.IConversationRepository, log *slog.Logger) *ConversationService {
	return &ConversationService{conversations: conversations, log: log}
}

// ListConversations returns the identity's conversations, most recently
// active first, with the counterpart profile resolved for each direct
// conversation.
func (s *ConversationService) ListConversations(ctx context.Context, userID uuid.UUID) ([]domain.ConversationSummary, error) {
	convs, err := s.conversations.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.ConversationSummary, 0, len(convs))
	for _, conv := range convs {
		members, err := s.conversations.Members(ctx, conv.ID)
		if err != nil {
			return nil, err
		}

		summary := domain.ConversationSummary{Conversation: conv, MemberCount: len(members)}
		if !conv.IsGroup {
			if other, found := lo.Find(members, func(m domain.Member) bool {
				return m.UserID != userID
			}); found {
				profile := other.Profile
				summary.Counterpart = &profile
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// FindOrCreateDirect resolves the canonical direct conversation for the
// unordered pair (userID, otherUserID), creating it with both membership
// rows when none exists. Calling it with the pair in either order yields the
// same conversation id.
func (s *ConversationService) FindOrCreateDirect(ctx context.Context, userID, otherUserID uuid.UUID) (uuid.UUID, error) {
	if userID == otherUserID {
		return uuid.Nil, errors.ErrSelfConversation
	}

	id, err := s.conversations.FindDirect(ctx, userID, otherUserID)
	if err == nil {
		return id, nil
	}
	if !stderrors.Is(err, errors.ErrNotFound) {
		return uuid.Nil, err
	}

	conv := domain.Conversation{IsGroup: false, CreatedBy: userID}
	return s.conversations.CreateWithMembers(ctx, conv, []uuid.UUID{userID, otherUserID})
}

// CreateGroup validates locally before any backend write: the trimmed name
// must be non-empty and at least one other member must be selected.
func (s *ConversationService) CreateGroup(ctx context.Context, userID uuid.UUID, name string, memberIDs []uuid.UUID) (uuid.UUID, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return uuid.Nil, errors.ErrEmptyGroupName
	}

	others := lo.Uniq(lo.Filter(memberIDs, func(id uuid.UUID, _ int) bool {
		return id != userID && id != uuid.Nil
	}))
	if len(others) == 0 {
		return uuid.Nil, errors.ErrNoMembers
	}

	conv := domain.Conversation{Name: name, IsGroup: true, CreatedBy: userID}
	return s.conversations.CreateWithMembers(ctx, conv, append([]uuid.UUID{userID}, others...))
}
