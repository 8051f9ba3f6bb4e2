package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/loganintech/go-reddit/v2/reddit"
	"github.com/qepting91/reddit-viewer/internal/domain"
	"golang.org/x/time/rate"
)

// APIClient fetches posts through the authenticated OAuth API.
type APIClient struct {
	client  *reddit.Client
	limiter *rate.Limiter
}

// errEmptyListing reports a post listing without a post in it.
var errEmptyListing = errors.New("empty post listing")

// NewAPIClient logs in with script-app credentials. Extra options are passed
// to the underlying reddit client (base and token URLs in tests).
func NewAPIClient(id, secret, user, pass, userAgent string, opts ...reddit.Opt) (*APIClient, error) {
	creds := reddit.Credentials{ID: id, Secret: secret, Username: user, Password: pass}

	opts = append([]reddit.Opt{reddit.WithUserAgent(userAgent)}, opts...)
	client, err := reddit.NewClient(creds, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating reddit client: %w", err)
	}

	// API Rate Limit: ~60 reqs/min (safe buffer)
	limiter := rate.NewLimiter(rate.Every(1*time.Second), 1)

	return &APIClient{client: client, limiter: limiter}, nil
}

func (ac *APIClient) FetchPost(ctx context.Context, url string) (domain.Post, error) {
	id, ok := PostID(url)
	if !ok {
		return domain.Post{}, domain.ErrInvalidURL()
	}

	if err := ac.limiter.Wait(ctx); err != nil {
		return domain.Post{}, domain.ErrUnknown(err)
	}

	pc, resp, err := ac.getPost(ctx, id)
	if err != nil {
		return domain.Post{}, classifyAPIError(resp, err)
	}
	if pc == nil || pc.Post == nil {
		return domain.Post{}, domain.ErrMalformed("No post data found in response", nil)
	}

	p := pc.Post
	post := domain.Post{
		ID:                   p.ID,
		Title:                p.Title,
		SelfText:             p.Body,
		URL:                  p.URL,
		Author:               p.Author,
		Subreddit:            p.SubredditName,
		Score:                p.Score,
		UpvoteRatio:          float64(p.UpvoteRatio),
		NumComments:          p.NumberOfComments,
		LinkFlairText:        p.LinkFlairText,
		Thumbnail:            p.Thumbnail,
		Permalink:            p.Permalink,
		SubredditSubscribers: p.SubredditSubscribers,
		IsVideo:              p.IsVideo,
		ThumbnailWidth:       p.ThumbnailWidth,
		ThumbnailHeight:      p.ThumbnailHeight,
		Stickied:             p.Stickied,
		Locked:               p.Locked,
	}
	if p.Created != nil {
		post.CreatedUTC = p.Created.Time.Unix()
	}
	if p.Edited != nil && !p.Edited.Time.IsZero() {
		post.EditedUTC = p.Edited.Time.Unix()
	}
	return post, nil
}

// getPost calls Post.Get. The reddit client indexes the first listing
// without a length check, so an empty listing panics inside it.
func (ac *APIClient) getPost(ctx context.Context, id string) (pc *reddit.PostAndComments, resp *reddit.Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			pc, resp, err = nil, nil, fmt.Errorf("%w: %v", errEmptyListing, r)
		}
	}()
	return ac.client.Post.Get(ctx, id)
}

// classifyAPIError maps a reddit client failure onto a FetchError.
func classifyAPIError(resp *reddit.Response, err error) *domain.FetchError {
	var rle *reddit.RateLimitError
	switch {
	case errors.As(err, &rle):
		// Reddit flags an exhausted budget with a header, even on a 200.
		fe := Classify(http.StatusTooManyRequests, nil)
		fe.Err = err
		return fe
	case errors.Is(err, errEmptyListing):
		return domain.ErrMalformed("No post data found in response", err)
	case resp != nil && resp.Response != nil:
		if fe := Classify(resp.StatusCode, nil); fe != nil {
			fe.Err = err
			return fe
		}
		return domain.ErrMalformed("Unexpected response format from Reddit", err)
	default:
		return domain.ErrNetwork(err)
	}
}
