package models

// FeedPageSize is the fixed number of posts per feed page.
const FeedPageSize = 10

// FeedPage is one page of an ordered post listing. Page is 1-based; a page
// past the end is returned empty rather than failing.
type FeedPage struct {
	Posts      []*Post `json:"posts"`
	Page       int     `json:"page"`
	PageSize   int     `json:"page_size"`
	TotalCount int64   `json:"total_count"`
	TotalPages int     `json:"total_pages"`
}

// NewFeedPage assembles a FeedPage, deriving TotalPages from the count.
func NewFeedPage(posts []*Post, page int, total int64) *FeedPage {
	if posts == nil {
		posts = []*Post{}
	}
	totalPages := int((total + FeedPageSize - 1) / FeedPageSize)
	return &FeedPage{
		Posts:      posts,
		Page:       page,
		PageSize:   FeedPageSize,
		TotalCount: total,
		TotalPages: totalPages,
	}
}

// Profile is the author page payload: the user, how much they have written
// and whether the current viewer follows them.
type Profile struct {
	User        *User     `json:"user"`
	PostCount   int64     `json:"post_count"`
	IsFollowing bool      `json:"is_following"`
	Posts       *FeedPage `json:"posts"`
}
