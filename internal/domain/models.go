package domain

import "context"

// Post is a single Reddit submission as returned by a fetch
type Post struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	SelfText      string  `json:"selftext"`
	URL           string  `json:"url"`
	Author        string  `json:"author"`
	CreatedUTC    int64   `json:"created_utc"`
	Subreddit     string  `json:"subreddit"`
	Score         int     `json:"score"`
	UpvoteRatio   float64 `json:"upvote_ratio"`
	NumComments   int     `json:"num_comments"`
	LinkFlairText string  `json:"link_flair_text,omitempty"`
	Thumbnail     string  `json:"thumbnail,omitempty"`
	Permalink     string  `json:"permalink"`

	Ups                  int    `json:"ups,omitempty"`
	Downs                int    `json:"downs,omitempty"`
	SubredditSubscribers int    `json:"subreddit_subscribers,omitempty"`
	IsVideo              bool   `json:"is_video,omitempty"`
	ThumbnailWidth       int    `json:"thumbnail_width,omitempty"`
	ThumbnailHeight      int    `json:"thumbnail_height,omitempty"`
	AuthorFlairText      string `json:"author_flair_text,omitempty"`
	EditedUTC            int64  `json:"edited_utc,omitempty"`
	Stickied             bool   `json:"stickied,omitempty"`
	Locked               bool   `json:"locked,omitempty"`
	CrosspostParent      string `json:"crosspost_parent,omitempty"`
}

// Collector defines the interface for fetching a single post.
// Implementations return a *FetchError on failure.
type Collector interface {
	FetchPost(ctx context.Context, url string) (Post, error)
}
