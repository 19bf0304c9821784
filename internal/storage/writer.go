package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/cabz1691/reddit-media-viewer/internal/domain"
)

// WriterService writes the run's queue manifest as NDJSON, consuming items
// from a channel so the caller controls buffering.
type WriterService struct {
	FilePath string
}

func (w *WriterService) Start(wg *sync.WaitGroup, input <-chan domain.MediaItem) {
	defer wg.Done()

	if err := os.MkdirAll(filepath.Dir(w.FilePath), 0o755); err != nil {
		return
	}
	// The manifest describes the current run only, so truncate.
	f, err := os.OpenFile(w.FilePath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for item := range input {
		enc.Encode(item)
	}
}
