package service

import (
	"context"

	"yatube/internal/models"
	"yatube/internal/repository"
)

// FollowService manages the follow graph.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

// NewFollowService returns a new FollowService.
func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
	}
}

// Follow subscribes the viewer to an author. Following yourself is rejected;
// following someone twice is a no-op.
func (s *FollowService) Follow(ctx context.Context, viewer models.Viewer, username string) error {
	if !viewer.Authenticated {
		return models.NewUnauthorizedError("Authentication required")
	}

	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	if author.ID == viewer.ID {
		return models.NewValidationError("You cannot follow yourself")
	}

	exists, err := s.followRepo.Exists(ctx, viewer.ID, author.ID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	return s.followRepo.Create(ctx, &models.Follow{
		FollowerID: viewer.ID,
		AuthorID:   author.ID,
	})
}

// Unfollow removes the subscription. Unfollowing someone you do not follow
// is a no-op.
func (s *FollowService) Unfollow(ctx context.Context, viewer models.Viewer, username string) error {
	if !viewer.Authenticated {
		return models.NewUnauthorizedError("Authentication required")
	}

	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	return s.followRepo.Delete(ctx, viewer.ID, author.ID)
}

// Following lists the authors the viewer follows, by username.
func (s *FollowService) Following(ctx context.Context, viewer models.Viewer) ([]models.User, error) {
	if !viewer.Authenticated {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	return s.followRepo.ListAuthors(ctx, viewer.ID)
}
