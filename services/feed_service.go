package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/adrian-25/talk-glide/domain"
	"github.com/adrian-25/talk-glide/errors"
	"github.com/adrian-25/talk-glide/realtime"
	"github.com/adrian-25/talk-glide/repositories"
)

// Header is what the active-conversation pane shows above the messages.
type Header struct {
	Conversation domain.Conversation
	Counterpart  *domain.Profile // other member of a direct conversation
}

// Title derives the pane title: group name, or the counterpart's label.
func (h Header) Title() string {
	if h.Conversation.IsGroup {
		return h.Conversation.Name
	}
	if h.Counterpart != nil {
		return h.Counterpart.Label()
	}
	return "(unknown)"
}

type IFeedService interface {
	LoadHeader(ctx context.Context, conversationID, userID uuid.UUID) (Header, error)
	LoadMessages(ctx context.Context, conversationID uuid.UUID) ([]domain.Message, error)
	Send(ctx context.Context, conversationID, senderID uuid.UUID, content string) error
	Watch(conversationID uuid.UUID) *realtime.Subscription
}

// FeedService loads and appends messages for a selected conversation and
// hands out the notification subscription that drives live reloads.
type FeedService struct {
	conversations repositories.IConversationRepository
	messages      repositories.IMessageRepository
	hub           *realtime.Hub
}

func NewFeedService(
	conversations repositories.IConversationRepository,
	messages repositories.IMessageRepository,
	hub *realtime.Hub,
) *FeedService {
	return &FeedService{conversations: conversations, messages: messages, hub: hub}
}

func (s *FeedService) LoadHeader(ctx context.Context, conversationID, userID uuid.UUID) (Header, error) {
	conv, err := s.conversations.Get(ctx, conversationID)
	if err != nil {
		return Header{}, err
	}

	header := Header{Conversation: conv}
	if !conv.IsGroup {
		members, err := s.conversations.Members(ctx, conversationID)
		if err != nil {
			return Header{}, err
		}
		if other, found := lo.Find(members, func(m domain.Member) bool {
			return m.UserID != userID
		}); found {
			profile := other.Profile
			header.Counterpart = &profile
		}
	}
	return header, nil
}

// LoadMessages fetches the whole history in the backend's authoritative
// order. Consumers replace their displayed list with the result rather than
// merging, so racing notifications cannot duplicate or drop rows.
func (s *FeedService) LoadMessages(ctx context.Context, conversationID uuid.UUID) ([]domain.Message, error) {
	return s.messages.ListByConversation(ctx, conversationID)
}

// Send rejects empty content locally, then writes the message. The repository
// bumps the conversation's recency in the same transaction.
func (s *FeedService) Send(ctx context.Context, conversationID, senderID uuid.UUID, content string) error {
	if !domain.ValidContent(content) {
		return errors.ErrEmptyMessage
	}

	_, err := s.messages.Insert(ctx, domain.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        strings.TrimSpace(content),
	})
	return err
}

// Watch subscribes to message inserts scoped to one conversation. The caller
// owns the subscription and must Close it when the selection changes or the
// view unmounts.
func (s *FeedService) Watch(conversationID uuid.UUID) *realtime.Subscription {
	return s.hub.Subscribe(realtime.Scope{
		Table:          realtime.TableMessages,
		ConversationID: conversationID,
	})
}
