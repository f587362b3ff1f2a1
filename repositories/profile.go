//go:generate go run go.uber.org/mock/mockgen -source=profile.go -destination=../mocks/mock_profile_repository.go -package=mocks
package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adrian-25/talk-glide/domain"
	apperrors "github.com/adrian-25/talk-glide/errors"
)

type IProfileRepository interface {
	Get(ctx context.Context, id uuid.UUID) (domain.Profile, error)
	GetByUsername(ctx context.Context, username string) (domain.Profile, error)
	Upsert(ctx context.Context, profile domain.Profile) error
	Search(ctx context.Context, query string, excludeID uuid.UUID, limit int) ([]domain.Profile, error)
}

type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

const profileColumns = `id, username, COALESCE(display_name, ''), COALESCE(avatar_url, ''), COALESCE(status, ''), created_at, updated_at`

func (r *ProfileRepository) Get(ctx context.Context, id uuid.UUID) (domain.Profile, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	return scanProfile(row)
}

func (r *ProfileRepository) GetByUsername(ctx context.Context, username string) (domain.Profile, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE username = $1`, username)
	return scanProfile(row)
}

// Upsert creates the profile on first sign-in, or refreshes the mutable
// fields on subsequent ones. Row-level policy restricts the write to the
// profile's owner; a policy rejection surfaces as an ordinary query error.
func (r *ProfileRepository) Upsert(ctx context.Context, profile domain.Profile) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO profiles (id, username, display_name, avatar_url, status)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5)
		ON CONFLICT (id)
		DO UPDATE SET display_name = EXCLUDED.display_name,
		              avatar_url = EXCLUDED.avatar_url,
		              status = EXCLUDED.status,
		              updated_at = now()
	`, profile.ID, profile.Username, profile.DisplayName, profile.AvatarURL, profile.Status)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

// Search lists directory entries matching the query on username or display
// name, excluding the caller. An empty query lists everyone but the caller.
func (r *ProfileRepository) Search(ctx context.Context, query string, excludeID uuid.UUID, limit int) ([]domain.Profile, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+profileColumns+`
		FROM profiles
		WHERE id <> $1
		  AND ($2 = '' OR username ILIKE '%' || $2 || '%' OR display_name ILIKE '%' || $2 || '%')
		ORDER BY username
		LIMIT $3
	`, excludeID, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []domain.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func scanProfile(row pgx.Row) (domain.Profile, error) {
	var p domain.Profile
	err := row.Scan(&p.ID, &p.Username, &p.DisplayName, &p.AvatarURL, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Profile{}, apperrors.ErrNotFound
	}
	if err != nil {
		return domain.Profile{}, err
	}
	return p, nil
}
