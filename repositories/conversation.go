//go:generate go run go.uber.org/mock/mockgen -source=conversation.go -destination=../mocks/mock_conversation_repository.go -package=mocks
package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adrian-25/talk-glide/domain"
	apperrors "github.com/adrian-25/talk-glide/errors"
)

type IConversationRepository interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Conversation, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Conversation, error)
	Members(ctx context.Context, conversationID uuid.UUID) ([]domain.Member, error)
	FindDirect(ctx context.Context, a, b uuid.UUID) (uuid.UUID, error)
	CreateWithMembers(ctx context.Context, conv domain.Conversation, memberIDs []uuid.UUID) (uuid.UUID, error)
	Touch(ctx context.Context, id uuid.UUID, at time.Time) error
}

type ConversationRepository struct {
	pool *pgxpool.Pool
}

func NewConversationRepository(pool *pgxpool.Pool) *ConversationRepository {
	return &ConversationRepository{pool: pool}
}

const conversationColumns = `id, COALESCE(name, ''), is_group, created_by, created_at, updated_at`

// ListForUser returns every conversation the user holds a membership row in,
// most recently active first.
func (r *ConversationRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Conversation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id, COALESCE(c.name, ''), c.is_group, c.created_by, c.created_at, c.updated_at
		FROM conversations c
		JOIN conversation_members m ON m.conversation_id = c.id
		WHERE m.user_id = $1
		ORDER BY c.updated_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convs []domain.Conversation
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		convs = append(convs, c)
	}
	return convs, rows.Err()
}

func (r *ConversationRepository) Get(ctx context.Context, id uuid.UUID) (domain.Conversation, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+conversationColumns+` FROM conversations WHERE id = $1`, id)
	return scanConversation(row)
}

// Members returns the membership rows of a conversation joined with the
// member profiles, in join order.
func (r *ConversationRepository) Members(ctx context.Context, conversationID uuid.UUID) ([]domain.Member, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT m.id, m.conversation_id, m.user_id, m.joined_at,
		       p.id, p.username, COALESCE(p.display_name, ''), COALESCE(p.avatar_url, ''), COALESCE(p.status, ''), p.created_at, p.updated_at
		FROM conversation_members m
		JOIN profiles p ON p.id = m.user_id
		WHERE m.conversation_id = $1
		ORDER BY m.joined_at
	`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		var m domain.Member
		if err := rows.Scan(
			&m.ID, &m.ConversationID, &m.UserID, &m.JoinedAt,
			&m.Profile.ID, &m.Profile.Username, &m.Profile.DisplayName, &m.Profile.AvatarURL,
			&m.Profile.Status, &m.Profile.CreatedAt, &m.Profile.UpdatedAt,
		); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// FindDirect resolves the canonical direct conversation for the unordered
// pair (a, b): the non-group conversation whose member set is exactly those
// two users. A single indexed query, not a per-conversation membership scan.
func (r *ConversationRepository) FindDirect(ctx context.Context, a, b uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, `
		SELECT c.id
		FROM conversations c
		JOIN conversation_members ma ON ma.conversation_id = c.id AND ma.user_id = $1
		JOIN conversation_members mb ON mb.conversation_id = c.id AND mb.user_id = $2
		WHERE c.is_group = false
		  AND (SELECT count(*) FROM conversation_members m WHERE m.conversation_id = c.id) = 2
		LIMIT 1
	`, a, b).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, apperrors.ErrNotFound
	}
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// CreateWithMembers inserts the conversation and its membership rows in one
// transaction, so a failed membership batch cannot leave an orphaned
// conversation behind.
func (r *ConversationRepository) CreateWithMembers(ctx context.Context, conv domain.Conversation, memberIDs []uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO conversations (name, is_group, created_by)
			VALUES (NULLIF($1, ''), $2, $3)
			RETURNING id
		`, conv.Name, conv.IsGroup, conv.CreatedBy).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert conversation: %w", err)
		}

		batch := &pgx.Batch{}
		for _, userID := range memberIDs {
			batch.Queue(`
				INSERT INTO conversation_members (conversation_id, user_id)
				VALUES ($1, $2)
			`, id, userID)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert memberships: %w", err)
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// Touch bumps updated_at so the conversation surfaces at the top of the list.
func (r *ConversationRepository) Touch(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE conversations SET updated_at = $2 WHERE id = $1`, id, at)
	return err
}

func scanConversation(row pgx.Row) (domain.Conversation, error) {
	var c domain.Conversation
	err := row.Scan(&c.ID, &c.Name, &c.IsGroup, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Conversation{}, apperrors.ErrNotFound
	}
	if err != nil {
		return domain.Conversation{}, err
	}
	return c, nil
}
