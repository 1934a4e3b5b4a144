package service

import (
	"context"
	"testing"

	"yatube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// followRepoStub is a stub for repository.FollowRepository.
type followRepoStub struct {
	createFn      func(context.Context, *models.Follow) error
	existsFn      func(context.Context, uint, uint) (bool, error)
	deleteFn      func(context.Context, uint, uint) error
	listAuthorsFn func(context.Context, uint) ([]models.User, error)
}

func (s *followRepoStub) Create(ctx context.Context, follow *models.Follow) error {
	return s.createFn(ctx, follow)
}
func (s *followRepoStub) Exists(ctx context.Context, followerID, authorID uint) (bool, error) {
	return s.existsFn(ctx, followerID, authorID)
}
func (s *followRepoStub) Delete(ctx context.Context, followerID, authorID uint) error {
	return s.deleteFn(ctx, followerID, authorID)
}
func (s *followRepoStub) ListAuthors(ctx context.Context, followerID uint) ([]models.User, error) {
	return s.listAuthorsFn(ctx, followerID)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		createFn:      func(_ context.Context, _ *models.Follow) error { return nil },
		existsFn:      func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		deleteFn:      func(_ context.Context, _, _ uint) error { return nil },
		listAuthorsFn: func(_ context.Context, _ uint) ([]models.User, error) { return nil, nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn        func(context.Context, *models.User) error
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	updateFn        func(context.Context, *models.User) error
	listFn          func(context.Context, int, int) ([]models.User, error)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:     func(_ context.Context, _ *models.User) error { return nil },
		getByIDFn:    func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(_ context.Context, username string) (*models.User, error) {
			return &models.User{ID: 2, Username: username}, nil
		},
		updateFn: func(_ context.Context, _ *models.User) error { return nil },
		listFn:   func(_ context.Context, _, _ int) ([]models.User, error) { return nil, nil },
	}
}

func TestFollowService_Follow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("anonymous viewer", func(t *testing.T) {
		t.Parallel()
		svc := NewFollowService(noopFollowRepo(), noopUserRepo())
		err := svc.Follow(ctx, models.Anonymous(), "leo")
		assertAppErrorCode(t, err, models.CodeUnauthorized)
	})

	t.Run("unknown author", func(t *testing.T) {
		t.Parallel()
		userRepo := noopUserRepo()
		userRepo.getByUsernameFn = func(_ context.Context, username string) (*models.User, error) {
			return nil, models.NewNotFoundError("User", username)
		}
		svc := NewFollowService(noopFollowRepo(), userRepo)
		err := svc.Follow(ctx, models.Authenticated(1), "ghost")
		assertAppErrorCode(t, err, models.CodeNotFound)
	})

	t.Run("self follow rejected", func(t *testing.T) {
		t.Parallel()
		userRepo := noopUserRepo()
		userRepo.getByUsernameFn = func(_ context.Context, username string) (*models.User, error) {
			return &models.User{ID: 1, Username: username}, nil
		}
		followRepo := noopFollowRepo()
		created := false
		followRepo.createFn = func(_ context.Context, _ *models.Follow) error {
			created = true
			return nil
		}
		svc := NewFollowService(followRepo, userRepo)
		err := svc.Follow(ctx, models.Authenticated(1), "me")
		assertAppErrorCode(t, err, models.CodeValidation)
		assert.False(t, created)
	})

	t.Run("duplicate follow is a no-op", func(t *testing.T) {
		t.Parallel()
		followRepo := noopFollowRepo()
		followRepo.existsFn = func(_ context.Context, _, _ uint) (bool, error) { return true, nil }
		created := false
		followRepo.createFn = func(_ context.Context, _ *models.Follow) error {
			created = true
			return nil
		}
		svc := NewFollowService(followRepo, noopUserRepo())
		require.NoError(t, svc.Follow(ctx, models.Authenticated(1), "leo"))
		assert.False(t, created)
	})

	t.Run("creates the edge", func(t *testing.T) {
		t.Parallel()
		followRepo := noopFollowRepo()
		var got *models.Follow
		followRepo.createFn = func(_ context.Context, f *models.Follow) error {
			got = f
			return nil
		}
		svc := NewFollowService(followRepo, noopUserRepo())
		require.NoError(t, svc.Follow(ctx, models.Authenticated(1), "leo"))
		require.NotNil(t, got)
		assert.Equal(t, uint(1), got.FollowerID)
		assert.Equal(t, uint(2), got.AuthorID)
	})
}

func TestFollowService_Unfollow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("absent pair is a no-op", func(t *testing.T) {
		t.Parallel()
		svc := NewFollowService(noopFollowRepo(), noopUserRepo())
		assert.NoError(t, svc.Unfollow(ctx, models.Authenticated(1), "leo"))
	})

	t.Run("unknown author", func(t *testing.T) {
		t.Parallel()
		userRepo := noopUserRepo()
		userRepo.getByUsernameFn = func(_ context.Context, username string) (*models.User, error) {
			return nil, models.NewNotFoundError("User", username)
		}
		svc := NewFollowService(noopFollowRepo(), userRepo)
		err := svc.Unfollow(ctx, models.Authenticated(1), "ghost")
		assertAppErrorCode(t, err, models.CodeNotFound)
	})

	t.Run("deletes the pair", func(t *testing.T) {
		t.Parallel()
		followRepo := noopFollowRepo()
		var gotFollower, gotAuthor uint
		followRepo.deleteFn = func(_ context.Context, followerID, authorID uint) error {
			gotFollower, gotAuthor = followerID, authorID
			return nil
		}
		svc := NewFollowService(followRepo, noopUserRepo())
		require.NoError(t, svc.Unfollow(ctx, models.Authenticated(1), "leo"))
		assert.Equal(t, uint(1), gotFollower)
		assert.Equal(t, uint(2), gotAuthor)
	})
}
