// Package observability provides metrics and tracing for the application.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// FeedCacheHits counts page-cache hits by feed key prefix.
	FeedCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_feed_cache_hits_total",
		Help: "Total number of feed page cache hits",
	}, []string{"prefix"})

	// FeedCacheMisses counts page-cache misses by feed key prefix.
	FeedCacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_feed_cache_misses_total",
		Help: "Total number of feed page cache misses",
	}, []string{"prefix"})

	// PostsCreated counts posts persisted through the write path.
	PostsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yatube_posts_created_total",
		Help: "Total number of posts created",
	})

	// CommentsCreated counts comments persisted through the write path.
	CommentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yatube_comments_created_total",
		Help: "Total number of comments created",
	})
)
