package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/qepting91/reddit-viewer/internal/domain"
)

const (
	// UserAgent identifies this client to Reddit, which rejects anonymous agents.
	UserAgent = "RedditViewer/1.0 (+https://github.com/qepting91/reddit-viewer)"

	// RequestTimeout bounds every feed request.
	RequestTimeout = 10 * time.Second

	postKind     = "t3"
	maxBodyBytes = 8 << 20
)

// PublicClient fetches posts through Reddit's unauthenticated .json feeds.
// It holds no per-request state and is safe for concurrent use.
type PublicClient struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a PublicClient.
type Option func(*PublicClient)

// WithTransport replaces the HTTP transport. The timeout and headers stay fixed.
func WithTransport(rt http.RoundTripper) Option {
	return func(pc *PublicClient) { pc.httpClient.Transport = rt }
}

func WithLogger(l *slog.Logger) Option {
	return func(pc *PublicClient) { pc.logger = l }
}

func NewPublicClient(opts ...Option) *PublicClient {
	pc := &PublicClient{
		httpClient: &http.Client{Timeout: RequestTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(pc)
	}
	return pc
}

// listingChild is one entry of a listing's children array.
type listingChild struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

type listing struct {
	Data struct {
		Children []listingChild `json:"children"`
	} `json:"data"`
}

// postData mirrors the fields of a t3 object. Required fields are pointers so
// that a missing key can be told apart from a zero value.
type postData struct {
	ID          *string  `json:"id"`
	Title       *string  `json:"title"`
	SelfText    *string  `json:"selftext"`
	Author      *string  `json:"author"`
	CreatedUTC  *float64 `json:"created_utc"`
	URL         *string  `json:"url"`
	Permalink   *string  `json:"permalink"`
	Score       *int     `json:"score"`
	UpvoteRatio *float64 `json:"upvote_ratio"`
	NumComments *int     `json:"num_comments"`
	Subreddit   *string  `json:"subreddit"`

	Ups                  int         `json:"ups"`
	Downs                int         `json:"downs"`
	SubredditSubscribers int         `json:"subreddit_subscribers"`
	IsVideo              bool        `json:"is_video"`
	Thumbnail            string      `json:"thumbnail"`
	ThumbnailWidth       *int        `json:"thumbnail_width"`
	ThumbnailHeight      *int        `json:"thumbnail_height"`
	LinkFlairText        *string     `json:"link_flair_text"`
	AuthorFlairText      *string     `json:"author_flair_text"`
	Edited               editedField `json:"edited"`
	Stickied             bool        `json:"stickied"`
	Locked               bool        `json:"locked"`
	CrosspostParent      *string     `json:"crosspost_parent"`
}

// editedField accepts Reddit's "edited" value, which is false or an epoch.
type editedField int64

func (e *editedField) UnmarshalJSON(b []byte) error {
	switch string(bytes.TrimSpace(b)) {
	case "false", "true", "null":
		*e = 0
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*e = editedField(f)
	return nil
}

// FetchPost validates url, requests its JSON feed and returns the post.
// Every failure is a *domain.FetchError.
func (pc *PublicClient) FetchPost(ctx context.Context, url string) (domain.Post, error) {
	if !IsPostURL(url) {
		return domain.Post{}, domain.ErrInvalidURL()
	}

	feed := FeedURL(url)
	pc.logger.Debug("Fetching feed", "url", feed)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feed, nil)
	if err != nil {
		return domain.Post{}, domain.ErrUnknown(err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := pc.httpClient.Do(req)
	if err != nil {
		pc.logger.Warn("Feed request failed", "url", feed, "err", err)
		return domain.Post{}, domain.ErrNetwork(err)
	}
	defer resp.Body.Close()

	// A non-2xx status decides the outcome even if the body is cut short.
	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))

	if fe := Classify(resp.StatusCode, body); fe != nil {
		pc.logger.Warn("Feed request rejected", "url", feed, "status", resp.StatusCode, "kind", fe.Kind)
		return domain.Post{}, fe
	}

	if readErr != nil {
		pc.logger.Warn("Feed body read failed", "url", feed, "err", readErr)
		if isTimeout(readErr) {
			return domain.Post{}, domain.ErrNetwork(readErr)
		}
		return domain.Post{}, domain.ErrUnknown(fmt.Errorf("reading response: %w", readErr))
	}

	return decodePost(body)
}

// isTimeout reports whether err is a client timeout or an expired deadline.
func isTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// decodePost unwraps the [post listing, comment listing] envelope.
func decodePost(body []byte) (domain.Post, error) {
	var listings []listing
	if err := json.Unmarshal(body, &listings); err != nil {
		return domain.Post{}, domain.ErrMalformed("Unexpected response format from Reddit", err)
	}
	if len(listings) == 0 || len(listings[0].Data.Children) == 0 {
		return domain.Post{}, domain.ErrMalformed("No post data found in response", nil)
	}

	child := listings[0].Data.Children[0]
	if child.Kind != postKind {
		return domain.Post{}, domain.ErrMalformed("Unexpected response format from Reddit",
			fmt.Errorf("child kind %q", child.Kind))
	}

	var d postData
	if err := json.Unmarshal(child.Data, &d); err != nil {
		return domain.Post{}, domain.ErrMalformed("Unexpected response format from Reddit", err)
	}
	return d.toPost()
}

func (d postData) toPost() (domain.Post, error) {
	required := []struct {
		field   string
		present bool
	}{
		{"id", d.ID != nil},
		{"title", d.Title != nil},
		{"selftext", d.SelfText != nil},
		{"author", d.Author != nil},
		{"created_utc", d.CreatedUTC != nil},
		{"url", d.URL != nil},
		{"permalink", d.Permalink != nil},
		{"score", d.Score != nil},
		{"upvote_ratio", d.UpvoteRatio != nil},
		{"num_comments", d.NumComments != nil},
		{"subreddit", d.Subreddit != nil},
	}
	for _, r := range required {
		if !r.present {
			return domain.Post{}, domain.ErrMalformed("Unexpected response format from Reddit",
				fmt.Errorf("missing field %q", r.field))
		}
	}

	return domain.Post{
		ID:                   *d.ID,
		Title:                *d.Title,
		SelfText:             *d.SelfText,
		URL:                  *d.URL,
		Author:               *d.Author,
		CreatedUTC:           int64(*d.CreatedUTC),
		Subreddit:            *d.Subreddit,
		Score:                *d.Score,
		UpvoteRatio:          *d.UpvoteRatio,
		NumComments:          *d.NumComments,
		LinkFlairText:        deref(d.LinkFlairText),
		Thumbnail:            d.Thumbnail,
		Permalink:            *d.Permalink,
		Ups:                  d.Ups,
		Downs:                d.Downs,
		SubredditSubscribers: d.SubredditSubscribers,
		IsVideo:              d.IsVideo,
		ThumbnailWidth:       derefInt(d.ThumbnailWidth),
		ThumbnailHeight:      derefInt(d.ThumbnailHeight),
		AuthorFlairText:      deref(d.AuthorFlairText),
		EditedUTC:            int64(d.Edited),
		Stickied:             d.Stickied,
		Locked:               d.Locked,
		CrosspostParent:      deref(d.CrosspostParent),
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}
