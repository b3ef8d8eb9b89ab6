package folder

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdakit/go-mda/mda"
)

// writeSample writes a minimal valid MDA file and returns its path.
func writeSample(t *testing.T, dir, name string, scanNumber int32) string {
	t.Helper()
	f := &mda.File{
		Header: mda.Header{Version: 1.3, ScanNumber: scanNumber, Rank: 1, Dimensions: []int32{2}},
		Scan: &mda.Scan{
			Rank:         1,
			NPoints:      2,
			CurrentPoint: 2,
			Name:         "demo:scan1",
			Detectors:    []mda.Detector{{Name: "demo:det1", Data: []float32{1, 2}}},
		},
	}
	data, err := f.MarshalBinary()
	require.NoError(t, err)

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestScanSkipsBadFiles(t *testing.T) {
	dir := t.TempDir()
	writeSample(t, dir, "good_0001.mda", 1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.mda"), []byte{1, 2, 3}, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a scan"), 0o644))

	var calls int
	s := NewScanner(ScannerConfig{
		Progress: func(done, total int) {
			calls++
			assert.Equal(t, 2, total)
		},
	})

	res, err := s.Scan(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 2, calls)
	require.Len(t, res.Summaries, 1)

	sum := res.Summaries[0]
	assert.Equal(t, filepath.Join(dir, "good_0001.mda"), sum.Path)
	assert.EqualValues(t, 1, sum.ScanNumber)
	assert.EqualValues(t, 1, sum.Rank)
	assert.Equal(t, []int32{2}, sum.Dimensions)
}

func TestScanUsesCache(t *testing.T) {
	dir := t.TempDir()
	path := writeSample(t, dir, "scan_0001.mda", 7)

	cache := NewCache()
	s := NewScanner(ScannerConfig{Cache: cache})

	res, err := s.Scan(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, res.Summaries, 1)
	assert.Equal(t, 1, cache.Len())

	// A second scan of an unchanged folder serves from cache and agrees.
	res2, err := s.Scan(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, res.Summaries, res2.Summaries)

	// Rewriting the file with a new scan number and mtime must invalidate.
	writeSample(t, dir, "scan_0001.mda", 8)
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))

	res3, err := s.Scan(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, res3.Summaries, 1)
	assert.EqualValues(t, 8, res3.Summaries[0].ScanNumber)
}

func TestScanHonorsContext(t *testing.T) {
	dir := t.TempDir()
	writeSample(t, dir, "scan_0001.mda", 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewScanner(ScannerConfig{}).Scan(ctx, dir)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScanMissingDir(t *testing.T) {
	_, err := NewScanner(ScannerConfig{}).Scan(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestWatcherInvalidatesCache(t *testing.T) {
	dir := t.TempDir()
	path := writeSample(t, dir, "scan_0001.mda", 1)

	cache := NewCache()
	s := NewScanner(ScannerConfig{Cache: cache})
	_, err := s.Scan(context.Background(), dir)
	require.NoError(t, err)
	require.Equal(t, 1, cache.Len())

	w, err := NewWatcher(dir, cache, nil)
	require.NoError(t, err)
	defer w.Close()

	writeSample(t, dir, "scan_0001.mda", 2)

	select {
	case got := <-w.Changes():
		assert.Equal(t, path, got)
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}
	assert.Zero(t, cache.Len())
}

func TestWatcherCloseEndsChanges(t *testing.T) {
	w, err := NewWatcher(t.TempDir(), nil, nil)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	select {
	case _, ok := <-w.Changes():
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("changes channel not closed")
	}
}
