// Package session holds the viewer's shared state: the outcome of the most
// recent fetch and the list of recently fetched URLs.
//
// All mutation goes through a single mutex. Each fetch is tagged with a
// sequence number when it starts; a resolution that arrives after a newer
// fetch has started is discarded, so the most recently started fetch always
// owns the outcome.
package session

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/qepting91/reddit-viewer/internal/domain"
)

// HistoryLimit caps the number of remembered URLs.
const HistoryLimit = 10

// State is the tag of an Outcome.
type State int

const (
	Idle State = iota
	Loading
	Success
	Failure
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Failure:
		return "failure"
	}
	return "invalid"
}

// Outcome is exactly one of idle, loading, success (Post set) or failure
// (Kind, Message and StatusCode set).
type Outcome struct {
	State      State
	Post       domain.Post
	Kind       domain.ErrorKind
	Message    string
	StatusCode int
}

// Snapshot is a copy of the session state handed to the view layer.
type Snapshot struct {
	Outcome Outcome
	History []string
	LastURL string
}

// Ticket identifies one started fetch.
type Ticket struct {
	Seq       uint64
	URL       string
	RequestID string
}

// HistoryStore persists the history list between runs.
type HistoryStore interface {
	LoadHistory() ([]string, error)
	SaveHistory(urls []string) error
}

type Session struct {
	collector domain.Collector
	store     HistoryStore
	archive   chan<- domain.Post
	logger    *slog.Logger

	mu      sync.Mutex
	closed  bool
	sends   sync.WaitGroup
	seq     uint64
	outcome Outcome
	history []string
	lastURL string
}

type Option func(*Session)

// WithHistoryStore loads history from st and saves every change back to it.
func WithHistoryStore(st HistoryStore) Option {
	return func(s *Session) { s.store = st }
}

// WithArchive sends every successfully fetched post to ch.
func WithArchive(ch chan<- domain.Post) Option {
	return func(s *Session) { s.archive = ch }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

func New(c domain.Collector, opts ...Option) *Session {
	s := &Session{collector: c, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}

	if s.store != nil {
		h, err := s.store.LoadHistory()
		if err != nil {
			s.logger.Error("Failed to load history", "err", err)
		} else {
			if len(h) > HistoryLimit {
				h = h[:HistoryLimit]
			}
			s.history = h
		}
	}
	return s
}

// Begin moves the session to Loading and returns the ticket for the fetch.
func (s *Session) Begin(url string) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	s.outcome = Outcome{State: Loading}
	s.lastURL = url
	return Ticket{Seq: s.seq, URL: url, RequestID: uuid.NewString()}
}

// Resolve performs the fetch for t and returns its own result. The result is
// recorded in the session unless a newer fetch was started in the meantime.
func (s *Session) Resolve(ctx context.Context, t Ticket) (domain.Post, error) {
	log := s.logger.With("request_id", t.RequestID, "url", t.URL)
	log.Info("Fetching post")

	post, err := s.collector.FetchPost(ctx, t.URL)
	if err != nil {
		log.Warn("Fetch failed", "kind", domain.KindOf(err), "err", err)
	} else {
		log.Info("Fetched post", "id", post.ID, "subreddit", post.Subreddit)
	}

	applied := s.complete(t, post, err)
	if !applied {
		log.Debug("Discarded stale result", "seq", t.Seq)
	}

	if applied && err == nil {
		s.sendArchive(ctx, post)
	}
	return post, err
}

func (s *Session) sendArchive(ctx context.Context, post domain.Post) {
	s.mu.Lock()
	if s.archive == nil || s.closed {
		s.mu.Unlock()
		return
	}
	s.sends.Add(1)
	s.mu.Unlock()
	defer s.sends.Done()

	select {
	case s.archive <- post:
	case <-ctx.Done():
	}
}

// Close stops archiving and waits for pending archive sends. After Close
// returns the archive channel may be closed; fetches still in flight are
// recorded in the session but no longer archived.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.sends.Wait()
}

// Fetch is Begin followed by Resolve.
func (s *Session) Fetch(ctx context.Context, url string) (domain.Post, error) {
	return s.Resolve(ctx, s.Begin(url))
}

// ErrNothingToRetry is returned by Retry before any fetch was attempted.
var ErrNothingToRetry = errors.New("session: nothing to retry")

// Retry re-submits the last attempted URL.
func (s *Session) Retry(ctx context.Context) (domain.Post, error) {
	s.mu.Lock()
	url := s.lastURL
	s.mu.Unlock()

	if url == "" {
		return domain.Post{}, ErrNothingToRetry
	}
	return s.Fetch(ctx, url)
}

func (s *Session) complete(t Ticket, post domain.Post, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.Seq != s.seq {
		return false
	}

	if err != nil {
		s.outcome = failureOutcome(err)
		return true
	}

	s.outcome = Outcome{State: Success, Post: post}
	s.history = PushHistory(s.history, t.URL)
	s.persistLocked()
	return true
}

// Clear drops the current post or error and returns to Idle.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcome = Outcome{State: Idle}
}

func (s *Session) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
	s.persistLocked()
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Outcome: s.outcome,
		History: slices.Clone(s.history),
		LastURL: s.lastURL,
	}
}

func (s *Session) persistLocked() {
	if s.store == nil {
		return
	}
	if err := s.store.SaveHistory(slices.Clone(s.history)); err != nil {
		s.logger.Error("Failed to save history", "err", err)
	}
}

func failureOutcome(err error) Outcome {
	o := Outcome{State: Failure, Kind: domain.KindOf(err), Message: err.Error()}
	var fe *domain.FetchError
	if errors.As(err, &fe) {
		o.StatusCode = fe.StatusCode
	} else {
		o.Message = "An unexpected error occurred"
	}
	return o
}

// PushHistory returns h with url moved (or added) to the front, capped at
// HistoryLimit entries. h is not modified.
func PushHistory(h []string, url string) []string {
	out := make([]string, 0, HistoryLimit)
	out = append(out, url)
	for _, u := range h {
		if u == url {
			continue
		}
		if len(out) == HistoryLimit {
			break
		}
		out = append(out, u)
	}
	return out
}
