package storage

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/qepting91/reddit-viewer/internal/domain"
)

func TestWriter_AppendsNDJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "posts.json")

	for round := 0; round < 2; round++ {
		ch := make(chan domain.Post, 2)
		var wg sync.WaitGroup
		w := &WriterService{FilePath: path}
		wg.Add(1)
		go w.Start(&wg, ch)

		ch <- domain.Post{ID: "a", Title: "first", Score: 3}
		ch <- domain.Post{ID: "b", Title: "second", Score: -1}
		close(ch)
		wg.Wait()
	}

	posts, err := ReadArchive(path)
	if err != nil {
		t.Fatalf("ReadArchive: %v", err)
	}
	if len(posts) != 4 {
		t.Fatalf("got %d posts, want 4", len(posts))
	}
	if posts[1].ID != "b" || posts[1].Score != -1 {
		t.Errorf("posts[1] = %+v", posts[1])
	}
}

func TestReadArchive_Missing(t *testing.T) {
	posts, err := ReadArchive(filepath.Join(t.TempDir(), "none.json"))
	if err != nil {
		t.Fatalf("ReadArchive: %v", err)
	}
	if posts != nil {
		t.Errorf("got %v, want nil", posts)
	}
}

func TestReadArchive_SkipsBadLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posts.json")
	data := `{"id":"a","title":"ok"}
not json
{"id":"b","title":"also ok"}
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	posts, err := ReadArchive(path)
	if err != nil {
		t.Fatalf("ReadArchive: %v", err)
	}
	if len(posts) != 2 || posts[0].ID != "a" || posts[1].ID != "b" {
		t.Errorf("posts = %+v", posts)
	}
}
