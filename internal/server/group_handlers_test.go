package server

import (
	"net/http"
	"testing"

	"yatube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminGroupManagement(t *testing.T) {
	t.Parallel()

	s, app, db, _ := setupTestServer(t)
	admin := createTestUser(t, db, "group_admin", true)
	user := createTestUser(t, db, "plain_user", false)

	t.Run("non-admin cannot create", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/admin/groups", map[string]string{
			"title": "Rock", "slug": "rock",
		}, tokenFor(t, s, user))
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("admin creates a group", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/admin/groups", map[string]string{
			"title":       "Rock Music",
			"slug":        "rock",
			"description": "All things rock",
		}, tokenFor(t, s, admin))
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var group models.Group
		decodeBody(t, resp, &group)
		assert.Equal(t, "rock", group.Slug)
		assert.NotZero(t, group.ID)
	})

	t.Run("duplicate slug rejected", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/admin/groups", map[string]string{
			"title": "Rock Again", "slug": "rock",
		}, tokenFor(t, s, admin))
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("reserved slug rejected", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/admin/groups", map[string]string{
			"title": "Sneaky", "slug": "admin",
		}, tokenFor(t, s, admin))
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestGroupFeedAndCatalog(t *testing.T) {
	t.Parallel()

	s, app, db, _ := setupTestServer(t)
	author := createTestUser(t, db, "group_author", false)

	group := &models.Group{Title: "Jazz", Slug: "jazz", Description: "Smooth"}
	require.NoError(t, db.Create(group).Error)
	empty := &models.Group{Title: "Silence", Slug: "silence"}
	require.NoError(t, db.Create(empty).Error)

	post := &models.Post{
		Text:     longText("a jazz post"),
		AuthorID: author.ID,
		GroupID:  &group.ID,
	}
	require.NoError(t, s.db.Create(post).Error)

	t.Run("catalog lists groups", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/groups", nil, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Groups []models.Group `json:"groups"`
			Count  int            `json:"count"`
		}
		decodeBody(t, resp, &body)
		assert.Equal(t, 2, body.Count)
	})

	t.Run("group feed contains only its posts", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/groups/jazz/posts", nil, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Group models.Group    `json:"group"`
			Posts models.FeedPage `json:"posts"`
		}
		decodeBody(t, resp, &body)
		assert.Equal(t, "jazz", body.Group.Slug)
		require.Len(t, body.Posts.Posts, 1)
		assert.Equal(t, post.ID, body.Posts.Posts[0].ID)
	})

	t.Run("empty group is an empty page", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/groups/silence/posts", nil, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Posts models.FeedPage `json:"posts"`
		}
		decodeBody(t, resp, &body)
		assert.Empty(t, body.Posts.Posts)
	})

	t.Run("unknown slug is not found", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/groups/no-such/posts", nil, "")
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestDeleteGroupDetachesPosts(t *testing.T) {
	t.Parallel()

	s, app, db, _ := setupTestServer(t)
	admin := createTestUser(t, db, "detach_admin", true)
	author := createTestUser(t, db, "detach_author", false)

	group := &models.Group{Title: "Doomed", Slug: "doomed"}
	require.NoError(t, db.Create(group).Error)

	post := &models.Post{
		Text:     longText("survives its group"),
		AuthorID: author.ID,
		GroupID:  &group.ID,
	}
	require.NoError(t, db.Create(post).Error)

	resp := doJSON(t, app, http.MethodDelete, "/api/admin/groups/doomed", nil, tokenFor(t, s, admin))
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var survivor models.Post
	require.NoError(t, db.First(&survivor, post.ID).Error)
	assert.Nil(t, survivor.GroupID)

	var groupCount int64
	db.Model(&models.Group{}).Count(&groupCount)
	assert.Equal(t, int64(0), groupCount)

	t.Run("deleting an unknown group is not found", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodDelete, "/api/admin/groups/ghost", nil, tokenFor(t, s, admin))
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
