package search

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/adrian-25/talk-glide/domain"
)

func message(conv uuid.UUID, sender, content string, at time.Time) domain.Message {
	return domain.Message{
		ID:             uuid.New(),
		ConversationID: conv,
		SenderID:       uuid.New(),
		SenderUsername: sender,
		Content:        content,
		CreatedAt:      at,
	}
}

func Test_Index_And_Search_Messages(t *testing.T) {
	req := require.New(t)
	index, err := Open("", slog.Default())
	req.NoError(err)
	defer index.Close()

	conv := uuid.New()
	base := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	req.NoError(index.IndexMessages([]domain.Message{
		message(conv, "alice", "the project deadline moved", base),
		message(conv, "bob", "lunch tomorrow?", base.Add(time.Minute)),
		message(conv, "alice", "deadline is final now", base.Add(2*time.Minute)),
	}))

	hits, err := index.Search(context.Background(), ParseQuery("/find deadline"))
	req.NoError(err)
	req.Len(hits, 2)

	// Newest first
	req.Equal("deadline is final now", hits[0].Content)
	req.Equal("the project deadline moved", hits[1].Content)
}

func Test_Search_Filters_By_Conversation(t *testing.T) {
	req := require.New(t)
	index, err := Open("", slog.Default())
	req.NoError(err)
	defer index.Close()

	convA, convB := uuid.New(), uuid.New()
	at := time.Now().UTC()
	req.NoError(index.IndexMessages([]domain.Message{
		message(convA, "alice", "budget review", at),
		message(convB, "bob", "budget draft", at.Add(time.Second)),
	}))

	hits, err := index.Search(context.Background(), ParseQuery("/find budget --conv "+convA.String()))
	req.NoError(err)
	req.Len(hits, 1)
	req.Equal(convA, hits[0].ConversationID)
}

func Test_Reindexing_Same_Message_Does_Not_Duplicate(t *testing.T) {
	req := require.New(t)
	index, err := Open("", slog.Default())
	req.NoError(err)
	defer index.Close()

	msg := message(uuid.New(), "alice", "standup notes", time.Now().UTC())
	req.NoError(index.IndexMessages([]domain.Message{msg}))
	req.NoError(index.IndexMessages([]domain.Message{msg}))

	hits, err := index.Search(context.Background(), ParseQuery("/find standup"))
	req.NoError(err)
	req.Len(hits, 1)
}

func Test_Empty_Terms_Return_Nothing(t *testing.T) {
	req := require.New(t)
	index, err := Open("", slog.Default())
	req.NoError(err)
	defer index.Close()

	hits, err := index.Search(context.Background(), ParseQuery("/find --limit 5"))
	req.NoError(err)
	req.Empty(hits)
}
