//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adrian-25/talk-glide/domain"
)

type IMessageRepository interface {
	ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]domain.Message, error)
	Insert(ctx context.Context, msg domain.Message) (uuid.UUID, error)
}

type MessageRepository struct {
	pool *pgxpool.Pool
}

func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{pool: pool}
}

// ListByConversation fetches the full history joined with sender display
// fields, ordered by creation time ascending. The backend's ordering is
// authoritative; callers replace their whole list with the result.
func (r *MessageRepository) ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]domain.Message, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT msg.id, msg.conversation_id, msg.sender_id, msg.content, msg.created_at,
		       p.username, COALESCE(p.display_name, '')
		FROM messages msg
		JOIN profiles p ON p.id = msg.sender_id
		WHERE msg.conversation_id = $1
		ORDER BY msg.created_at ASC
	`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(
			&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &m.CreatedAt,
			&m.SenderUsername, &m.SenderDisplayName,
		); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// Insert writes the message and bumps the parent conversation's updated_at
// in a single transaction, keeping recency ordering of the conversation list
// consistent with message arrival.
func (r *MessageRepository) Insert(ctx context.Context, msg domain.Message) (uuid.UUID, error) {
	var id uuid.UUID
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO messages (conversation_id, sender_id, content)
			VALUES ($1, $2, $3)
			RETURNING id
		`, msg.ConversationID, msg.SenderID, msg.Content).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert message: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`UPDATE conversations SET updated_at = now() WHERE id = $1`,
			msg.ConversationID,
		); err != nil {
			return fmt.Errorf("touch conversation: %w", err)
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}
