package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/qepting91/reddit-viewer/internal/collector"
	"github.com/qepting91/reddit-viewer/internal/dashboard"
	"github.com/qepting91/reddit-viewer/internal/domain"
	"github.com/qepting91/reddit-viewer/internal/ingest"
	"github.com/qepting91/reddit-viewer/internal/present"
)

// --- tui ---

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive viewer (default)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd.Context())
	},
}

// --- fetch ---

var fetchCmd = &cobra.Command{
	Use:   "fetch URL [URL...]",
	Short: "Fetch one or more posts and print them",
	Long: `Fetch one or more posts and print them.

A single URL goes through the viewer session and is added to the recent
searches. Several URLs are fetched concurrently; the first failure aborts.
Every fetched post is appended to the archive; only a single-URL fetch is
recorded in the recent searches.

Examples:
  viewer fetch https://www.reddit.com/r/golang/comments/abc123/some_title/
  viewer fetch --json URL1 URL2`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		var posts []domain.Post
		if len(args) == 1 {
			p, err := a.session().Fetch(cmd.Context(), args[0])
			if err != nil {
				return describe(err)
			}
			posts = []domain.Post{p}
		} else {
			posts, err = collector.FetchPosts(cmd.Context(), a.collector, args)
			if err != nil {
				return describe(err)
			}
			archivePosts(a.archive, posts)
		}

		return printPosts(cmd.OutOrStdout(), posts, asJSON, time.Now())
	},
}

func init() {
	fetchCmd.Flags().Bool("json", false, "print posts as JSON")
}

func printPosts(w io.Writer, posts []domain.Post, asJSON bool, now time.Time) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if len(posts) == 1 {
			return enc.Encode(posts[0])
		}
		return enc.Encode(posts)
	}

	for i, p := range posts {
		if i > 0 {
			fmt.Fprintln(w, "────────")
		}
		fmt.Fprint(w, present.Text(p, now))
	}
	return nil
}

// archivePosts hands bulk results to the archive writer. The session archives
// its own fetches.
func archivePosts(archive chan<- domain.Post, posts []domain.Post) {
	for _, p := range posts {
		archive <- p
	}
}

// describe adds the failure kind to the message printed on exit.
func describe(err error) error {
	return fmt.Errorf("%s (%s)", err.Error(), domain.KindOf(err))
}

// --- batch ---

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Fetch every post URL listed in a CSV file into the archive",
	Long: `Fetch every post URL listed in a CSV file into the archive.

The first column of each row is read as a post URL; the header row, invalid
URLs and duplicates are skipped. Failed fetches are logged and skipped.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		workers, _ := cmd.Flags().GetInt("workers")

		urls, err := ingest.LoadURLs(file)
		if err != nil {
			return fmt.Errorf("loading %s: %w", file, err)
		}

		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		ok, failed := runBatch(cmd.Context(), a, urls, workers)
		printSuccess("Archived %d posts", ok)
		if failed > 0 {
			printWarning("%d URLs failed, see log", failed)
		}
		printStatus("Archive", "%s", a.cfg.ArchiveFile)
		return nil
	},
}

func init() {
	batchCmd.Flags().String("file", "input/urls.csv", "CSV file with post URLs in the first column")
	batchCmd.Flags().Int("workers", 2, "number of concurrent fetches")
}

// runBatch fans urls out to workers and sends each fetched post to the
// archive writer. It returns the number of successes and failures.
func runBatch(ctx context.Context, a *app, urls []string, workers int) (ok, failed int) {
	if workers < 1 {
		workers = 1
	}

	jobQueue := make(chan string, len(urls))
	var mu sync.Mutex
	var wg sync.WaitGroup

	a.logger.Info("Starting batch", "urls", len(urls), "workers", workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for u := range jobQueue {
				if ctx.Err() != nil {
					return
				}
				p, err := a.collector.FetchPost(ctx, u)
				mu.Lock()
				if err != nil {
					failed++
				} else {
					ok++
				}
				mu.Unlock()
				if err != nil {
					a.logger.Error("Fetch failed", "worker", id, "url", u, "kind", domain.KindOf(err), "err", err)
					continue
				}
				a.archive <- p
			}
		}(i)
	}

	for _, u := range urls {
		jobQueue <- u
	}
	close(jobQueue)
	wg.Wait()

	a.logger.Info("Batch complete", "ok", ok, "failed", failed)
	return ok, failed
}

// --- serve ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the archive dashboard and the JSON fetch API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		port, _ := cmd.Flags().GetString("port")
		if port == "" {
			port = a.cfg.Port
		}

		srv := dashboard.New(a.session(), a.cfg.ArchiveFile, a.logger)
		return srv.ListenAndServe(cmd.Context(), port)
	},
}

func init() {
	serveCmd.Flags().String("port", "", "listen port (defaults to PORT)")
}

// --- history ---

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List or clear recent searches",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		clearAll, _ := cmd.Flags().GetBool("clear")

		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		if a.history == nil {
			printWarning("History persistence is disabled (HISTORY_DB is empty)")
			return nil
		}

		sess := a.session()
		if clearAll {
			sess.ClearHistory()
			printSuccess("Recent searches cleared")
			return nil
		}

		h := sess.Snapshot().History
		if len(h) == 0 {
			fmt.Fprintln(os.Stderr, "No recent searches")
			return nil
		}
		for i, u := range h {
			fmt.Fprintf(cmd.OutOrStdout(), "%2d. %s\n", i+1, u)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Bool("clear", false, "remove all recent searches")
}
