package cache

import (
	"fmt"
	"time"
)

const (
	// FeedKeyPrefix keys rendered global feed pages.
	FeedKeyPrefix = "feed:global"
	// UserKeyPrefix keys individual user records.
	UserKeyPrefix = "user:%d"
)

const (
	// FeedTTL bounds how stale a cached global feed page may be. Writes do
	// not invalidate feed pages; only expiry or an explicit clear does.
	FeedTTL = 20 * time.Second
	// UserTTL bounds cached user lookups.
	UserTTL = 5 * time.Minute
)

// FeedKey returns the cache key for one page of the global feed.
func FeedKey(page int) string {
	return fmt.Sprintf("%s:%d", FeedKeyPrefix, page)
}

// UserKey returns the cache key for a user record.
func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}
