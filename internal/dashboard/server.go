package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/qepting91/reddit-viewer/internal/domain"
	"github.com/qepting91/reddit-viewer/internal/present"
	"github.com/qepting91/reddit-viewer/internal/session"
	"github.com/qepting91/reddit-viewer/internal/storage"
)

// Server exposes the session over HTTP and charts the post archive.
type Server struct {
	session     *session.Session
	archivePath string
	logger      *slog.Logger
}

func New(sess *session.Session, archivePath string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{session: sess, archivePath: archivePath, logger: logger}
}

// Handler returns the router for the dashboard and its JSON API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/", s.handleCharts)
	r.Get("/api/post", s.handlePost)
	r.Get("/api/history", s.handleHistory)
	r.Delete("/api/history", s.handleClearHistory)
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting Dashboard", "port", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down dashboard")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	posts, err := storage.ReadArchive(s.archivePath)
	if err != nil {
		s.logger.Error("Failed to read archive", "path", s.archivePath, "err", err)
	}
	posts = latestByID(posts)

	// 1. Subreddit share
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Subreddit Share"}),
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
	)

	subCounts := make(map[string]int)
	for _, p := range posts {
		subCounts["r/"+p.Subreddit]++
	}
	subs := make([]string, 0, len(subCounts))
	for k := range subCounts {
		subs = append(subs, k)
	}
	slices.Sort(subs)

	var pieItems []opts.PieData
	for _, k := range subs {
		pieItems = append(pieItems, opts.PieData{Name: k, Value: subCounts[k]})
	}
	pie.AddSeries("Posts", pieItems)

	// 2. Engagement per post
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Engagement"}))

	var barX []string
	var scores, comments []opts.BarData
	for _, p := range posts {
		barX = append(barX, shorten(p.Title, 30))
		scores = append(scores, opts.BarData{Value: p.Score})
		comments = append(comments, opts.BarData{Value: p.NumComments})
	}
	bar.SetXAxis(barX).
		AddSeries("Score", scores).
		AddSeries("Comments", comments)

	page := components.NewPage()
	page.AddCharts(pie, bar)
	if err := page.Render(w); err != nil {
		s.logger.Error("Failed to render dashboard", "err", err)
	}
}

// postResponse is the JSON body of /api/post.
type postResponse struct {
	Post         *domain.Post `json:"post,omitempty"`
	CanonicalURL string       `json:"canonical_url,omitempty"`
	Error        *errorBody   `json:"error,omitempty"`
}

type errorBody struct {
	Kind       string `json:"kind"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code,omitempty"`
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")

	post, err := s.session.Fetch(r.Context(), url)
	if err != nil {
		body := &errorBody{Kind: domain.KindOf(err).String(), Message: err.Error()}
		var fe *domain.FetchError
		if errors.As(err, &fe) {
			body.StatusCode = fe.StatusCode
		}
		writeJSON(w, StatusFor(domain.KindOf(err)), postResponse{Error: body})
		return
	}

	writeJSON(w, http.StatusOK, postResponse{Post: &post, CanonicalURL: present.CanonicalURL(post.Permalink)})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	h := s.session.Snapshot().History
	if h == nil {
		h = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"history": h})
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	s.session.ClearHistory()
	w.WriteHeader(http.StatusNoContent)
}

// StatusFor maps a fetch failure to the status this server answers with.
func StatusFor(k domain.ErrorKind) int {
	switch k {
	case domain.KindInvalidURL:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindRateLimited:
		return http.StatusTooManyRequests
	case domain.KindNetworkUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// latestByID keeps the last archived copy of each post, in first-seen order.
func latestByID(posts []domain.Post) []domain.Post {
	idx := make(map[string]int)
	var out []domain.Post
	for _, p := range posts {
		if i, ok := idx[p.ID]; ok {
			out[i] = p
			continue
		}
		idx[p.ID] = len(out)
		out = append(out, p)
	}
	return out
}

func shorten(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "…"
}
