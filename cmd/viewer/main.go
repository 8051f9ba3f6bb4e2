package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/qepting91/reddit-viewer/internal/collector"
	"github.com/qepting91/reddit-viewer/internal/config"
	"github.com/qepting91/reddit-viewer/internal/domain"
	"github.com/qepting91/reddit-viewer/internal/session"
	"github.com/qepting91/reddit-viewer/internal/storage"
	"github.com/qepting91/reddit-viewer/internal/tui"
)

var version = "dev"

var noColor bool

var rootCmd = &cobra.Command{
	Use:           "viewer",
	Short:         "View Reddit posts from the terminal",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.AddCommand(tuiCmd, fetchCmd, batchCmd, serveCmd, historyCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		printError("%v", err)
		os.Exit(1)
	}
}

// app holds what every command shares: config, logger, collector, the
// archive writer and the optional history store.
type app struct {
	cfg       config.Config
	logger    *slog.Logger
	collector domain.Collector
	history   *storage.HistoryStore
	archive   chan domain.Post
	sessions  []*session.Session

	writerWg sync.WaitGroup
	closers  []func()
}

// newApp loads config and wires dependencies. When logToFile is set, logs go
// to the configured log file because the terminal belongs to the UI.
func newApp(logToFile bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}

	var w io.Writer = os.Stderr
	if logToFile {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		w = f
		a.closers = append(a.closers, func() { f.Close() })
	}
	a.logger = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(a.logger)

	a.collector, err = collector.NewCollector(cfg, a.logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("initializing collector: %w", err)
	}
	a.logger.Info("Collector initialized", "mode", cfg.Mode)

	if cfg.HistoryDB != "" {
		h, err := storage.OpenHistory(cfg.HistoryDB)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("opening history: %w", err)
		}
		a.history = h
		a.closers = append(a.closers, func() { h.Close() })
	}

	a.archive = make(chan domain.Post, 100)
	writer := &storage.WriterService{FilePath: cfg.ArchiveFile, Logger: a.logger}
	a.writerWg.Add(1)
	go writer.Start(&a.writerWg, a.archive)

	return a, nil
}

func (a *app) session() *session.Session {
	opts := []session.Option{
		session.WithArchive(a.archive),
		session.WithLogger(a.logger),
	}
	if a.history != nil {
		opts = append(opts, session.WithHistoryStore(a.history))
	}
	sess := session.New(a.collector, opts...)
	a.sessions = append(a.sessions, sess)
	return sess
}

// Close flushes the archive and releases resources, last opened first.
func (a *app) Close() {
	for _, sess := range a.sessions {
		sess.Close()
	}
	if a.archive != nil {
		close(a.archive)
		a.writerWg.Wait()
		a.archive = nil
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func runTUI(ctx context.Context) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	return tui.Run(ctx, a.session())
}
