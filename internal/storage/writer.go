package storage

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/qepting91/reddit-viewer/internal/domain"
)

// WriterService is the single owner of the archive file. Producers only
// send on the channel, so appends never interleave.
type WriterService struct {
	FilePath string
	Logger   *slog.Logger
}

// Start drains input into the archive as NDJSON until input is closed.
func (w *WriterService) Start(wg *sync.WaitGroup, input <-chan domain.Post) {
	defer wg.Done()

	logger := w.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(filepath.Dir(w.FilePath), 0o755); err != nil {
		logger.Error("Archive directory unavailable", "path", w.FilePath, "err", err)
		drain(input)
		return
	}

	f, err := os.OpenFile(w.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		logger.Error("Archive unavailable", "path", w.FilePath, "err", err)
		drain(input)
		return
	}
	defer f.Close()

	enc := json.NewEncoder(f)

	for post := range input {
		if err := enc.Encode(post); err != nil {
			logger.Error("Archive write failed", "id", post.ID, "err", err)
		}
	}
}

// drain keeps producers from blocking when the archive cannot be written.
func drain(input <-chan domain.Post) {
	for range input {
	}
}

// ReadArchive loads every post in an NDJSON archive. A missing file is an
// empty archive; malformed lines are skipped.
func ReadArchive(path string) ([]domain.Post, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	var posts []domain.Post
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4<<20)
	for scanner.Scan() {
		var p domain.Post
		if err := json.Unmarshal(scanner.Bytes(), &p); err == nil {
			posts = append(posts, p)
		}
	}
	if err := scanner.Err(); err != nil {
		return posts, fmt.Errorf("reading archive: %w", err)
	}
	return posts, nil
}
