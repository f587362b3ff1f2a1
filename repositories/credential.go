//go:generate go run go.uber.org/mock/mockgen -source=credential.go -destination=../mocks/mock_credential_repository.go -package=mocks
package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adrian-25/talk-glide/domain"
	apperrors "github.com/adrian-25/talk-glide/errors"
)

type Credential struct {
	UserID       uuid.UUID
	Username     string
	PasswordHash string
}

type ICredentialRepository interface {
	Register(ctx context.Context, profile domain.Profile, passwordHash string) error
	Lookup(ctx context.Context, username string) (Credential, error)
}

type CredentialRepository struct {
	pool *pgxpool.Pool
}

func NewCredentialRepository(pool *pgxpool.Pool) *CredentialRepository {
	return &CredentialRepository{pool: pool}
}

// Register creates the profile and its credential row in one transaction.
// A username collision surfaces as ErrUserAlreadyExists.
func (r *CredentialRepository) Register(ctx context.Context, profile domain.Profile, passwordHash string) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO profiles (id, username, display_name)
			VALUES ($1, $2, NULLIF($3, ''))
		`, profile.ID, profile.Username, profile.DisplayName); err != nil {
			return fmt.Errorf("insert profile: %w", err)
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO credentials (user_id, password_hash)
			VALUES ($1, $2)
		`, profile.ID, passwordHash); err != nil {
			return fmt.Errorf("insert credential: %w", err)
		}
		return nil
	})
	if isUniqueViolation(err) {
		return apperrors.ErrUserAlreadyExists
	}
	return err
}

func (r *CredentialRepository) Lookup(ctx context.Context, username string) (Credential, error) {
	var c Credential
	err := r.pool.QueryRow(ctx, `
		SELECT p.id, p.username, cr.password_hash
		FROM profiles p
		JOIN credentials cr ON cr.user_id = p.id
		WHERE p.username = $1
	`, username).Scan(&c.UserID, &c.Username, &c.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return Credential{}, apperrors.ErrNotFound
	}
	if err != nil {
		return Credential{}, err
	}
	return c, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
