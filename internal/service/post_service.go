// Package service implements the business rules on top of the repositories.
package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/repository"
)

// Text minimums mirror the platform's publishing rules: a post must say
// something, a comment may be short but not empty noise.
const (
	minPostTextLen    = 20
	maxPostTextLen    = 50000
	minCommentTextLen = 5
	maxCommentTextLen = 10000
)

// PostService handles post creation, editing and deletion.
type PostService struct {
	postRepo  repository.PostRepository
	groupRepo repository.GroupRepository
	isAdmin   func(ctx context.Context, userID uint) (bool, error)
}

// CreatePostInput carries a post creation request.
type CreatePostInput struct {
	Viewer    models.Viewer
	Text      string
	GroupSlug string
	ImageURL  string
}

// UpdatePostInput carries a post edit. Text and group are replaced wholesale,
// matching the edit form: an empty GroupSlug detaches the post from its group.
type UpdatePostInput struct {
	Viewer    models.Viewer
	PostID    uint
	Text      string
	GroupSlug string
	ImageURL  string
}

// NewPostService returns a new PostService.
func NewPostService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *PostService {
	return &PostService{
		postRepo:  postRepo,
		groupRepo: groupRepo,
		isAdmin:   isAdmin,
	}
}

func validatePostText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < minPostTextLen {
		return "", models.NewValidationError("Post text must be at least 20 characters")
	}
	if utf8.RuneCountInString(text) > maxPostTextLen {
		return "", models.NewValidationError("Post text too long (max 50000 characters)")
	}
	return text, nil
}

// resolveGroup maps a slug to a group ID. Empty slug means no group.
func (s *PostService) resolveGroup(ctx context.Context, slug string) (*uint, error) {
	if slug == "" {
		return nil, nil
	}
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return &group.ID, nil
}

// CreatePost validates and persists a new post authored by the viewer.
// The creation timestamp is set by the database and fixes the post's feed
// position for good.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if !in.Viewer.Authenticated {
		return nil, models.NewUnauthorizedError("Authentication required")
	}

	text, err := validatePostText(in.Text)
	if err != nil {
		return nil, err
	}

	groupID, err := s.resolveGroup(ctx, in.GroupSlug)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Text:     text,
		ImageURL: in.ImageURL,
		AuthorID: in.Viewer.ID,
		GroupID:  groupID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	observability.PostsCreated.Inc()

	return s.postRepo.GetByID(ctx, post.ID)
}

// GetPost returns a post with its comments.
func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByIDWithComments(ctx, id)
}

// UpdatePost edits a post in place. Only the author may edit; anyone else
// gets an explicit Forbidden. CreatedAt is never touched, so the post keeps
// its feed position.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	if !in.Viewer.Authenticated {
		return nil, models.NewUnauthorizedError("Authentication required")
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}

	if post.AuthorID != in.Viewer.ID {
		return nil, models.NewForbiddenError("You can only edit your own posts")
	}

	text, err := validatePostText(in.Text)
	if err != nil {
		return nil, err
	}

	groupID, err := s.resolveGroup(ctx, in.GroupSlug)
	if err != nil {
		return nil, err
	}

	post.Text = text
	post.GroupID = groupID
	post.Group = nil
	post.ImageURL = in.ImageURL

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// DeletePost removes a post and, transactionally, its comments. Allowed for
// the author and for admins.
func (s *PostService) DeletePost(ctx context.Context, viewer models.Viewer, postID uint) error {
	if !viewer.Authenticated {
		return models.NewUnauthorizedError("Authentication required")
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	if post.AuthorID != viewer.ID {
		if s.isAdmin == nil {
			return models.NewForbiddenError("You can only delete your own posts")
		}
		admin, err := s.isAdmin(ctx, viewer.ID)
		if err != nil {
			return err
		}
		if !admin {
			return models.NewForbiddenError("You can only delete your own posts")
		}
	}

	return s.postRepo.Delete(ctx, postID)
}
