// Package folder discovers MDA files in a directory, summarizes them
// cheaply (header-only parsing), caches the summaries, and watches for
// changes. Per-file decode failures never abort a scan; they are logged
// and counted so one corrupt file cannot hide a folder of good ones.
package folder

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mdakit/go-mda/mda"
)

// Summary is the header-level description of one MDA file.
type Summary struct {
	Path       string
	Size       int64
	ModTime    time.Time
	Version    float32
	ScanNumber int32
	Rank       int32
	Dimensions []int32
}

// Result is the outcome of scanning one directory.
type Result struct {
	Summaries []Summary
	// Skipped counts files that looked like MDA files but failed to stat
	// or decode.
	Skipped int
}

// ScannerConfig configures a Scanner. The zero value is usable: logging is
// discarded and nothing is cached.
type ScannerConfig struct {
	Logger *slog.Logger
	Cache  *Cache
	// Progress, when set, is called after each file with the number of
	// files handled so far and the total.
	Progress func(done, total int)
}

// Scanner produces folder summaries.
type Scanner struct {
	log      *slog.Logger
	cache    *Cache
	progress func(done, total int)
}

// NewScanner returns a Scanner for the given configuration.
func NewScanner(cfg ScannerConfig) *Scanner {
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Scanner{log: log, cache: cfg.Cache, progress: cfg.Progress}
}

// IsMDAFile reports whether path has the .mda extension.
func IsMDAFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".mda")
}

// Scan summarizes every MDA file directly inside dir, in name order.
// Unreadable or malformed files are skipped and counted. The context is
// checked between files so a long scan can be abandoned.
func (s *Scanner) Scan(ctx context.Context, dir string) (*Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		if !e.IsDir() && IsMDAFile(e.Name()) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}

	res := &Result{}
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sum, err := s.summarize(path)
		if err != nil {
			s.log.Warn("skipping mda file", "path", path, "error", err)
			res.Skipped++
		} else {
			res.Summaries = append(res.Summaries, sum)
		}
		if s.progress != nil {
			s.progress(i+1, len(paths))
		}
	}
	s.log.Debug("folder scan complete", "dir", dir,
		"files", len(res.Summaries), "skipped", res.Skipped)
	return res, nil
}

func (s *Scanner) summarize(path string) (Summary, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return Summary{}, err
	}
	if s.cache != nil {
		if sum, ok := s.cache.Lookup(path, fi); ok {
			return sum, nil
		}
	}

	h, err := mda.OpenHeader(path)
	if err != nil {
		return Summary{}, err
	}
	sum := Summary{
		Path:       path,
		Size:       fi.Size(),
		ModTime:    fi.ModTime(),
		Version:    h.Version,
		ScanNumber: h.ScanNumber,
		Rank:       h.Rank,
		Dimensions: h.Dimensions,
	}
	if s.cache != nil {
		s.cache.Store(path, fi, sum)
	}
	return sum, nil
}
