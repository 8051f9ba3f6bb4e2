package ingest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/qepting91/reddit-viewer/internal/collector"
)

// LoadURLs reads post URLs from the first column of a CSV file.
func LoadURLs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadURLs(f)
}

// ReadURLs skips the header row, rows that are not post URLs and duplicates.
func ReadURLs(src io.Reader) ([]string, error) {
	// Wrap in BOM stripper
	r := csv.NewReader(stripBOM(src))
	r.FieldsPerRecord = -1

	var urls []string
	seen := make(map[string]bool)
	line := 0
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				line++ // a broken header still counts as the header
				continue
			}
			return urls, err
		}
		line++
		if line == 1 {
			continue // Skip header
		}

		// Validation (Fail-Soft)
		if len(record) == 0 {
			continue
		}
		u := strings.TrimSpace(record[0])
		if !collector.IsPostURL(u) || seen[u] {
			continue
		}
		seen[u] = true
		urls = append(urls, u)
	}
	return urls, nil
}

func stripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	rdr, _, err := br.ReadRune()
	if err != nil {
		return br
	}
	if rdr != '\uFEFF' {
		br.UnreadRune()
	}
	return br
}
