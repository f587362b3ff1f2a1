package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/adrian-25/talk-glide/domain"
	"github.com/adrian-25/talk-glide/repositories"
)

type IDirectoryService interface {
	Search(ctx context.Context, query string, selfID uuid.UUID) ([]domain.Profile, error)
	ByUsername(ctx context.Context, username string) (domain.Profile, error)
}

// DirectoryService exposes the queryable user directory used by the chat
// and group creation dialogs.
type DirectoryService struct {
	profiles repositories.IProfileRepository
}

func NewDirectoryService(profiles repositories.IProfileRepository) *DirectoryService {
	return &DirectoryService{profiles: profiles}
}

func (s *DirectoryService) Search(ctx context.Context, query string, selfID uuid.UUID) ([]domain.Profile, error) {
	return s.profiles.Search(ctx, query, selfID, 50)
}

func (s *DirectoryService) ByUsername(ctx context.Context, username string) (domain.Profile, error) {
	return s.profiles.GetByUsername(ctx, username)
}
