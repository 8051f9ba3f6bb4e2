package collector

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"testing/iotest"

	"github.com/qepting91/reddit-viewer/internal/domain"
)

// postJSON is a trimmed but real-shaped response for a self post.
const postJSON = `[
  {"kind": "Listing", "data": {"after": null, "children": [
    {"kind": "t3", "data": {
      "id": "1bshvi6",
      "title": "TypeScript 5 announcement",
      "selftext": "Release notes inside.",
      "selftext_html": "<p>Release notes inside.</p>",
      "author": "drosenwasser",
      "created_utc": 1711900800.0,
      "url": "https://www.reddit.com/r/typescript/comments/1bshvi6/typescript_5_announcement/",
      "permalink": "/r/typescript/comments/1bshvi6/typescript_5_announcement/",
      "score": -12,
      "ups": 40,
      "downs": 0,
      "upvote_ratio": 0.87,
      "num_comments": 321,
      "subreddit": "typescript",
      "subreddit_subscribers": 150000,
      "is_video": false,
      "thumbnail": "https://b.thumbs.redditmedia.com/abc.jpg",
      "thumbnail_width": 140,
      "thumbnail_height": 78,
      "media": null,
      "secure_media": null,
      "link_flair_text": "Announcement",
      "author_flair_text": null,
      "edited": 1711904400.0,
      "stickied": true,
      "locked": false,
      "crosspost_parent": null,
      "some_new_field": {"nested": true}
    }}
  ]}},
  {"kind": "Listing", "data": {"children": []}}
]`

// redirect sends every request to target while keeping path and headers.
type redirect struct {
	target *url.URL
}

func (rt redirect) RoundTrip(r *http.Request) (*http.Response, error) {
	r2 := r.Clone(r.Context())
	r2.URL.Scheme = rt.target.Scheme
	r2.URL.Host = rt.target.Host
	r2.Host = ""
	return http.DefaultTransport.RoundTrip(r2)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// newTestClient returns a client whose requests land on an httptest server
// answering with status and body.
func newTestClient(t *testing.T, status int, body string) (*PublicClient, chan *http.Request) {
	t.Helper()
	seen := make(chan *http.Request, 10)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen <- r.Clone(context.Background())
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	u, _ := url.Parse(srv.URL)
	return NewPublicClient(WithTransport(redirect{target: u})), seen
}

func wantKind(t *testing.T, err error, kind domain.ErrorKind) *domain.FetchError {
	t.Helper()
	if err == nil {
		t.Fatalf("err = nil, want kind %v", kind)
	}
	var fe *domain.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("err = %T (%v), want *domain.FetchError", err, err)
	}
	if fe.Kind != kind {
		t.Fatalf("kind = %v, want %v (message %q)", fe.Kind, kind, fe.Message)
	}
	return fe
}

func TestFetchPost_Success(t *testing.T) {
	c, seen := newTestClient(t, http.StatusOK, postJSON)

	p, err := c.FetchPost(context.Background(), examplePostURL)
	if err != nil {
		t.Fatalf("FetchPost: %v", err)
	}

	want := domain.Post{
		ID:                   "1bshvi6",
		Title:                "TypeScript 5 announcement",
		SelfText:             "Release notes inside.",
		URL:                  "https://www.reddit.com/r/typescript/comments/1bshvi6/typescript_5_announcement/",
		Author:               "drosenwasser",
		CreatedUTC:           1711900800,
		Subreddit:            "typescript",
		Score:                -12,
		UpvoteRatio:          0.87,
		NumComments:          321,
		LinkFlairText:        "Announcement",
		Thumbnail:            "https://b.thumbs.redditmedia.com/abc.jpg",
		Permalink:            "/r/typescript/comments/1bshvi6/typescript_5_announcement/",
		Ups:                  40,
		SubredditSubscribers: 150000,
		ThumbnailWidth:       140,
		ThumbnailHeight:      78,
		EditedUTC:            1711904400,
		Stickied:             true,
	}
	if p != want {
		t.Errorf("post mismatch\n got: %+v\nwant: %+v", p, want)
	}

	if len(seen) != 1 {
		t.Fatalf("got %d requests, want 1", len(seen))
	}
	req := <-seen
	if req.Method != http.MethodGet {
		t.Errorf("method = %s, want GET", req.Method)
	}
	if req.URL.Path != "/r/typescript/comments/1bshvi6/typescript_5_announcement.json" {
		t.Errorf("path = %q", req.URL.Path)
	}
	if got := req.Header.Get("User-Agent"); got != UserAgent {
		t.Errorf("User-Agent = %q, want %q", got, UserAgent)
	}
	if got := req.Header.Get("Accept"); got != "application/json" {
		t.Errorf("Accept = %q, want application/json", got)
	}
}

func TestFetchPost_EditedFalse(t *testing.T) {
	body := strings.Replace(postJSON, `"edited": 1711904400.0`, `"edited": false`, 1)
	c, _ := newTestClient(t, http.StatusOK, body)

	p, err := c.FetchPost(context.Background(), examplePostURL)
	if err != nil {
		t.Fatalf("FetchPost: %v", err)
	}
	if p.EditedUTC != 0 {
		t.Errorf("EditedUTC = %d, want 0", p.EditedUTC)
	}
}

func TestFetchPost_InvalidURLMakesNoRequest(t *testing.T) {
	var calls atomic.Int32
	c := NewPublicClient(WithTransport(roundTripFunc(func(r *http.Request) (*http.Response, error) {
		calls.Add(1)
		return nil, errors.New("unexpected request")
	})))

	for _, u := range []string{"", "not a url", "https://www.reddit.com/r/golang/", "reddit.com/r/a/comments/b/c/"} {
		_, err := c.FetchPost(context.Background(), u)
		wantKind(t, err, domain.KindInvalidURL)
	}
	if n := calls.Load(); n != 0 {
		t.Errorf("made %d requests, want 0", n)
	}
}

func TestFetchPost_StatusMapping(t *testing.T) {
	cases := []struct {
		status int
		kind   domain.ErrorKind
	}{
		{http.StatusNotFound, domain.KindNotFound},
		{http.StatusForbidden, domain.KindForbidden},
		{http.StatusTooManyRequests, domain.KindRateLimited},
		{http.StatusInternalServerError, domain.KindUpstreamError},
	}
	for _, tc := range cases {
		c, _ := newTestClient(t, tc.status, `{"message": "nope"}`)
		_, err := c.FetchPost(context.Background(), examplePostURL)
		fe := wantKind(t, err, tc.kind)
		if fe.StatusCode != tc.status {
			t.Errorf("StatusCode = %d, want %d", fe.StatusCode, tc.status)
		}
	}
}

func TestFetchPost_NotFoundMessage(t *testing.T) {
	c, _ := newTestClient(t, http.StatusNotFound, `{"message": "Not Found", "error": 404}`)
	_, err := c.FetchPost(context.Background(), examplePostURL)
	wantKind(t, err, domain.KindNotFound)
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("message %q should contain %q", err.Error(), "not found")
	}
}

func TestFetchPost_UpstreamErrorKeepsBody(t *testing.T) {
	c, _ := newTestClient(t, http.StatusBadGateway, "upstream exploded")
	_, err := c.FetchPost(context.Background(), examplePostURL)
	fe := wantKind(t, err, domain.KindUpstreamError)
	if string(fe.Body) != "upstream exploded" {
		t.Errorf("Body = %q", fe.Body)
	}
}

func TestFetchPost_NetworkUnavailable(t *testing.T) {
	c := NewPublicClient(WithTransport(roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return nil, errors.New("dial tcp: connection refused")
	})))

	_, err := c.FetchPost(context.Background(), examplePostURL)
	wantKind(t, err, domain.KindNetworkUnavailable)
}

func TestFetchPost_ClosedServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	u, _ := url.Parse(srv.URL)
	srv.Close()

	c := NewPublicClient(WithTransport(redirect{target: u}))
	_, err := c.FetchPost(context.Background(), examplePostURL)
	wantKind(t, err, domain.KindNetworkUnavailable)
}

func TestFetchPost_Malformed(t *testing.T) {
	cases := map[string]string{
		"empty children":   `[{"kind": "Listing", "data": {"children": []}}, {}]`,
		"missing children": `[{"kind": "Listing", "data": {}}]`,
		"empty array":      `[]`,
		"object not array": `{"kind": "Listing", "data": {"children": []}}`,
		"not json":         `<html>blocked</html>`,
		"wrong kind":       strings.Replace(postJSON, `"kind": "t3"`, `"kind": "t1"`, 1),
		"missing title":    strings.Replace(postJSON, `"title": "TypeScript 5 announcement",`, ``, 1),
		"missing score":    strings.Replace(postJSON, `"score": -12,`, ``, 1),
		"wrong type":       strings.Replace(postJSON, `"num_comments": 321`, `"num_comments": "many"`, 1),
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			c, _ := newTestClient(t, http.StatusOK, body)
			_, err := c.FetchPost(context.Background(), examplePostURL)
			wantKind(t, err, domain.KindMalformedResponse)
		})
	}
}

func TestFetchPost_TruncatedErrorBodyKeepsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "100")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"me`))
	}))
	t.Cleanup(srv.Close)
	u, _ := url.Parse(srv.URL)

	c := NewPublicClient(WithTransport(redirect{target: u}))
	_, err := c.FetchPost(context.Background(), examplePostURL)
	fe := wantKind(t, err, domain.KindNotFound)
	if fe.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", fe.StatusCode)
	}
}

// failingBody yields prefix and then err.
func failingBody(prefix string, err error) io.ReadCloser {
	return io.NopCloser(io.MultiReader(strings.NewReader(prefix), iotest.ErrReader(err)))
}

func TestFetchPost_BodyReadFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want domain.ErrorKind
	}{
		{"deadline", os.ErrDeadlineExceeded, domain.KindNetworkUnavailable},
		{"context deadline", context.DeadlineExceeded, domain.KindNetworkUnavailable},
		{"reset", errors.New("connection reset by peer"), domain.KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewPublicClient(WithTransport(roundTripFunc(func(r *http.Request) (*http.Response, error) {
				return &http.Response{
					StatusCode: http.StatusOK,
					Header:     make(http.Header),
					Body:       failingBody(`[{"kind"`, tt.err),
					Request:    r,
				}, nil
			})))

			_, err := c.FetchPost(context.Background(), examplePostURL)
			wantKind(t, err, tt.want)
		})
	}
}

func TestFetchPost_RateLimitedWithBrokenBody(t *testing.T) {
	c := NewPublicClient(WithTransport(roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusTooManyRequests,
			Header:     make(http.Header),
			Body:       failingBody("", io.ErrUnexpectedEOF),
			Request:    r,
		}, nil
	})))

	_, err := c.FetchPost(context.Background(), examplePostURL)
	wantKind(t, err, domain.KindRateLimited)
}
