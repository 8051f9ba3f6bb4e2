package collector

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/qepting91/reddit-viewer/internal/domain"
)

// MockClient implements domain.Collector but returns fake data
type MockClient struct {
	Latency time.Duration
}

func NewMockClient() *MockClient {
	return &MockClient{Latency: 500 * time.Millisecond}
}

func (mc *MockClient) FetchPost(ctx context.Context, url string) (domain.Post, error) {
	id, ok := PostID(url)
	if !ok {
		return domain.Post{}, domain.ErrInvalidURL()
	}

	// Simulate network latency
	select {
	case <-time.After(mc.Latency):
	case <-ctx.Done():
		return domain.Post{}, domain.ErrNetwork(ctx.Err())
	}

	// Same URL, same post
	h := fnv.New32a()
	h.Write([]byte(id))
	seed := int(h.Sum32())

	sub := "mock"
	if m := postURLRegex.FindStringSubmatch(url); m != nil {
		sub = m[2]
	}

	return domain.Post{
		ID:          id,
		Title:       fmt.Sprintf("[%s] Simulated post %s", sub, id),
		SelfText:    "This post was generated by the mock collector.",
		URL:         url,
		Author:      "simulated_user",
		CreatedUTC:  time.Now().Add(-time.Duration(seed%86400) * time.Second).Unix(),
		Subreddit:   sub,
		Score:       seed % 5000,
		UpvoteRatio: float64(50+seed%50) / 100,
		NumComments: seed % 300,
		Permalink:   fmt.Sprintf("/r/%s/comments/%s/", sub, id),
	}, nil
}
