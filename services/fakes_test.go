package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/adrian-25/talk-glide/domain"
	"github.com/adrian-25/talk-glide/errors"
	"github.com/adrian-25/talk-glide/repositories"
)

// In-memory repository fakes mirroring the backend's constraints:
// unique (conversation, user) membership and creation-time message order.

type fakeConversationRepository struct {
	mu            sync.Mutex
	conversations map[uuid.UUID]domain.Conversation
	members       map[uuid.UUID][]domain.Member
	profiles      map[uuid.UUID]domain.Profile
	clock         time.Time
	createCalls   int
	listErr       error
}

func newFakeConversationRepository() *fakeConversationRepository {
	return &fakeConversationRepository{
		conversations: make(map[uuid.UUID]domain.Conversation),
		members:       make(map[uuid.UUID][]domain.Member),
		profiles:      make(map[uuid.UUID]domain.Profile),
		clock:         time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakeConversationRepository) addProfile(p domain.Profile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles[p.ID] = p
}

func (f *fakeConversationRepository) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *fakeConversationRepository) ListForUser(_ context.Context, userID uuid.UUID) ([]domain.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}

	var convs []domain.Conversation
	for id, members := range f.members {
		for _, m := range members {
			if m.UserID == userID {
				convs = append(convs, f.conversations[id])
				break
			}
		}
	}
	sort.Slice(convs, func(i, j int) bool {
		return convs[i].UpdatedAt.After(convs[j].UpdatedAt)
	})
	return convs, nil
}

func (f *fakeConversationRepository) Get(_ context.Context, id uuid.UUID) (domain.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	conv, ok := f.conversations[id]
	if !ok {
		return domain.Conversation{}, errors.ErrNotFound
	}
	return conv, nil
}

func (f *fakeConversationRepository) Members(_ context.Context, conversationID uuid.UUID) ([]domain.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Member(nil), f.members[conversationID]...), nil
}

func (f *fakeConversationRepository) FindDirect(_ context.Context, a, b uuid.UUID) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, members := range f.members {
		if f.conversations[id].IsGroup || len(members) != 2 {
			continue
		}
		hasA, hasB := false, false
		for _, m := range members {
			hasA = hasA || m.UserID == a
			hasB = hasB || m.UserID == b
		}
		if hasA && hasB {
			return id, nil
		}
	}
	return uuid.Nil, errors.ErrNotFound
}

func (f *fakeConversationRepository) CreateWithMembers(_ context.Context, conv domain.Conversation, memberIDs []uuid.UUID) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++

	seen := make(map[uuid.UUID]struct{})
	for _, id := range memberIDs {
		if _, dup := seen[id]; dup {
			return uuid.Nil, errors.ErrUserAlreadyExists
		}
		seen[id] = struct{}{}
	}

	conv.ID = uuid.New()
	now := f.tick()
	conv.CreatedAt = now
	conv.UpdatedAt = now
	f.conversations[conv.ID] = conv

	for _, userID := range memberIDs {
		f.members[conv.ID] = append(f.members[conv.ID], domain.Member{
			Membership: domain.Membership{
				ID:             uuid.New(),
				ConversationID: conv.ID,
				UserID:         userID,
				JoinedAt:       now,
			},
			Profile: f.profiles[userID],
		})
	}
	return conv.ID, nil
}

func (f *fakeConversationRepository) Touch(_ context.Context, id uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	conv, ok := f.conversations[id]
	if !ok {
		return errors.ErrNotFound
	}
	conv.UpdatedAt = at
	f.conversations[id] = conv
	return nil
}

type fakeMessageRepository struct {
	mu          sync.Mutex
	byConv      map[uuid.UUID][]domain.Message
	convs       *fakeConversationRepository
	insertCalls int
}

func newFakeMessageRepository(convs *fakeConversationRepository) *fakeMessageRepository {
	return &fakeMessageRepository{byConv: make(map[uuid.UUID][]domain.Message), convs: convs}
}

func (f *fakeMessageRepository) ListByConversation(_ context.Context, conversationID uuid.UUID) ([]domain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	messages := append([]domain.Message(nil), f.byConv[conversationID]...)
	sort.Slice(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
	return messages, nil
}

func (f *fakeMessageRepository) Insert(ctx context.Context, msg domain.Message) (uuid.UUID, error) {
	f.mu.Lock()
	f.insertCalls++
	msg.ID = uuid.New()
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = f.convs.tick()
	}
	if profile, ok := f.convs.profiles[msg.SenderID]; ok {
		msg.SenderUsername = profile.Username
		msg.SenderDisplayName = profile.DisplayName
	}
	f.byConv[msg.ConversationID] = append(f.byConv[msg.ConversationID], msg)
	f.mu.Unlock()

	return msg.ID, f.convs.Touch(ctx, msg.ConversationID, msg.CreatedAt)
}

type fakeCredentialRepository struct {
	mu          sync.Mutex
	byUsername  map[string]repositories.Credential
	registerErr error
}

func newFakeCredentialRepository() *fakeCredentialRepository {
	return &fakeCredentialRepository{byUsername: make(map[string]repositories.Credential)}
}

func (f *fakeCredentialRepository) Register(_ context.Context, profile domain.Profile, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.registerErr != nil {
		return f.registerErr
	}
	if _, exists := f.byUsername[profile.Username]; exists {
		return errors.ErrUserAlreadyExists
	}
	f.byUsername[profile.Username] = repositories.Credential{
		UserID:       profile.ID,
		Username:     profile.Username,
		PasswordHash: passwordHash,
	}
	return nil
}

func (f *fakeCredentialRepository) Lookup(_ context.Context, username string) (repositories.Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	credential, ok := f.byUsername[username]
	if !ok {
		return repositories.Credential{}, errors.ErrNotFound
	}
	return credential, nil
}
