package service

import (
	"context"

	"yatube/internal/cache"
	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/repository"
)

// FeedService assembles the paginated post listings. The global feed is the
// only cached one: pages are served from Redis for up to 20 seconds, and
// writes never invalidate them, so a just-published post may take that long
// to appear.
type FeedService struct {
	postRepo   repository.PostRepository
	groupRepo  repository.GroupRepository
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
	store      *cache.Store
}

// NewFeedService returns a new FeedService.
func NewFeedService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	store *cache.Store,
) *FeedService {
	return &FeedService{
		postRepo:   postRepo,
		groupRepo:  groupRepo,
		userRepo:   userRepo,
		followRepo: followRepo,
		store:      store,
	}
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func pageOffset(page int) int {
	return (page - 1) * models.FeedPageSize
}

// GlobalFeed returns one page of the site-wide feed, newest first. Pages are
// cached per page number.
func (s *FeedService) GlobalFeed(ctx context.Context, page int) (*models.FeedPage, error) {
	page = normalizePage(page)
	key := cache.FeedKey(page)

	var cached models.FeedPage
	found, err := s.store.GetJSON(ctx, key, &cached)
	if err == nil && found {
		observability.FeedCacheHits.WithLabelValues(cache.FeedKeyPrefix).Inc()
		return &cached, nil
	}
	observability.FeedCacheMisses.WithLabelValues(cache.FeedKeyPrefix).Inc()

	posts, total, err := s.postRepo.List(ctx, models.FeedPageSize, pageOffset(page))
	if err != nil {
		return nil, err
	}
	feed := models.NewFeedPage(posts, page, total)

	// Best effort: a cache write failure never fails the request.
	_ = s.store.SetJSON(ctx, key, feed, cache.FeedTTL)

	return feed, nil
}

// GroupFeed returns one page of a group's posts. Unknown slugs are an error,
// a group with no posts is just an empty page.
func (s *FeedService) GroupFeed(ctx context.Context, slug string, page int) (*models.Group, *models.FeedPage, error) {
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}

	page = normalizePage(page)
	posts, total, err := s.postRepo.ListByGroup(ctx, group.ID, models.FeedPageSize, pageOffset(page))
	if err != nil {
		return nil, nil, err
	}
	return group, models.NewFeedPage(posts, page, total), nil
}

// Profile returns a user's page: the user, their post count, one page of
// their posts, and whether the viewer follows them. Anonymous viewers are
// never following anyone.
func (s *FeedService) Profile(ctx context.Context, username string, viewer models.Viewer, page int) (*models.Profile, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	page = normalizePage(page)
	posts, total, err := s.postRepo.ListByAuthor(ctx, user.ID, models.FeedPageSize, pageOffset(page))
	if err != nil {
		return nil, err
	}

	isFollowing := false
	if viewer.Authenticated && viewer.ID != user.ID {
		isFollowing, err = s.followRepo.Exists(ctx, viewer.ID, user.ID)
		if err != nil {
			return nil, err
		}
	}

	return &models.Profile{
		User:        user,
		PostCount:   total,
		IsFollowing: isFollowing,
		Posts:       models.NewFeedPage(posts, page, total),
	}, nil
}

// FollowerFeed returns one page of posts by authors the viewer follows.
func (s *FeedService) FollowerFeed(ctx context.Context, viewer models.Viewer, page int) (*models.FeedPage, error) {
	if !viewer.Authenticated {
		return nil, models.NewUnauthorizedError("Authentication required")
	}

	page = normalizePage(page)
	posts, total, err := s.postRepo.ListFollowed(ctx, viewer.ID, models.FeedPageSize, pageOffset(page))
	if err != nil {
		return nil, err
	}
	return models.NewFeedPage(posts, page, total), nil
}

// ClearFeedCache drops every cached global feed page so the next reads hit
// the database.
func (s *FeedService) ClearFeedCache(ctx context.Context) error {
	return s.store.ClearPrefix(ctx, cache.FeedKeyPrefix)
}
