package service

import (
	"context"
	"strings"

	"yatube/internal/models"
	"yatube/internal/repository"
	"yatube/internal/validation"
)

// GroupService manages the group catalog. Creation and deletion are admin
// operations; the route layer enforces that.
type GroupService struct {
	groupRepo repository.GroupRepository
}

// CreateGroupInput carries a group creation request.
type CreateGroupInput struct {
	Title       string
	Slug        string
	Description string
}

// NewGroupService returns a new GroupService.
func NewGroupService(groupRepo repository.GroupRepository) *GroupService {
	return &GroupService{groupRepo: groupRepo}
}

// CreateGroup validates and persists a new group.
func (s *GroupService) CreateGroup(ctx context.Context, in CreateGroupInput) (*models.Group, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("Group title is required")
	}
	if len(title) > 200 {
		return nil, models.NewValidationError("Group title too long (max 200 characters)")
	}

	if err := validation.ValidateGroupSlug(in.Slug); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	if existing, err := s.groupRepo.GetBySlug(ctx, in.Slug); err == nil && existing != nil {
		return nil, models.NewValidationError("A group with this slug already exists")
	}

	group := &models.Group{
		Title:       title,
		Slug:        in.Slug,
		Description: strings.TrimSpace(in.Description),
	}
	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// ListGroups returns the full group catalog.
func (s *GroupService) ListGroups(ctx context.Context) ([]*models.Group, error) {
	return s.groupRepo.List(ctx)
}

// GetGroup returns a group by slug.
func (s *GroupService) GetGroup(ctx context.Context, slug string) (*models.Group, error) {
	return s.groupRepo.GetBySlug(ctx, slug)
}

// DeleteGroup removes a group. Its posts survive and are detached from the
// group in the same transaction.
func (s *GroupService) DeleteGroup(ctx context.Context, slug string) error {
	return s.groupRepo.DeleteBySlug(ctx, slug)
}
