package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/adrian-25/talk-glide/auth"
	"github.com/adrian-25/talk-glide/domain"
	"github.com/adrian-25/talk-glide/errors"
	"github.com/adrian-25/talk-glide/repositories"
	"github.com/adrian-25/talk-glide/session"
)

type IAuthService interface {
	Register(ctx context.Context, username, password, displayName string) (session.Identity, error)
	Login(ctx context.Context, username, password string) (session.Identity, error)
	Resume(ctx context.Context) (session.Identity, error)
	Logout() error
}

// AuthService gates everything else: it issues and resumes sessions and
// keeps the process-wide session store up to date.
type AuthService struct {
	credentials repositories.ICredentialRepository
	tokens      *auth.TokenManager
	vault       *session.Vault
	store       *session.Store
	log         *slog.Logger
}

func NewAuthService(
	credentials repositories.ICredentialRepository,
	tokens *auth.TokenManager,
	vault *session.Vault,
	store *session.Store,
	log *slog.Logger,
) *AuthService {
	return &AuthService{
		credentials: credentials,
		tokens:      tokens,
		vault:       vault,
		store:       store,
		log:         log,
	}
}

func (s *AuthService) Register(ctx context.Context, username, password, displayName string) (session.Identity, error) {
	// Validate before any expensive cryptographic operation.
	if err := auth.ValidateRegister(auth.RegisterRequest{Username: username, Password: password}); err != nil {
		return session.Identity{}, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return session.Identity{}, fmt.Errorf("hashing failed: %w", err)
	}

	profile := domain.Profile{
		ID:          uuid.New(),
		Username:    username,
		DisplayName: displayName,
	}
	if err := s.credentials.Register(ctx, profile, hash); err != nil {
		return session.Identity{}, err
	}

	return s.open(profile.ID, username)
}

func (s *AuthService) Login(ctx context.Context, username, password string) (session.Identity, error) {
	credential, err := s.credentials.Lookup(ctx, username)
	if err != nil {
		// Generic error to prevent user enumeration.
		return session.Identity{}, errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, credential.PasswordHash)
	if err != nil || !match {
		return session.Identity{}, errors.ErrInvalidCredentials
	}

	return s.open(credential.UserID, credential.Username)
}

// Resume restores a previous session from the vault. An absent, expired, or
// tampered token leaves the process unauthenticated.
func (s *AuthService) Resume(ctx context.Context) (session.Identity, error) {
	token, err := s.vault.Load()
	if err != nil {
		return session.Identity{}, err
	}

	claims, userID, err := s.tokens.Validate(token)
	if err != nil {
		s.log.Debug("persisted session rejected", "error", err)
		_ = s.vault.Delete()
		return session.Identity{}, errors.ErrNoSession
	}

	identity := session.Identity{UserID: userID, Username: claims.Username, Token: token}
	s.store.Set(identity)
	return identity, nil
}

func (s *AuthService) Logout() error {
	s.store.Clear()
	return s.vault.Delete()
}

func (s *AuthService) open(userID uuid.UUID, username string) (session.Identity, error) {
	token, err := s.tokens.Generate(userID, username)
	if err != nil {
		return session.Identity{}, errors.ErrTokenGeneration
	}
	if err := s.vault.Save(token); err != nil {
		s.log.Warn("session not persisted, restart will require sign-in", "error", err)
	}

	identity := session.Identity{UserID: userID, Username: username, Token: token}
	s.store.Set(identity)
	return identity, nil
}
