// Package barcodemap loads the static productCode -> barcode override table
// from YAML and keeps it current while the file changes on disk.
//
// File format:
//
//	barcodes:
//	  PANEL-9: "8690000000123"
//	  DESK-01: "DSK01"
package barcodemap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/ghuser/shopfloor/pkg/logger"
)

type file struct {
	Barcodes map[string]string `yaml:"barcodes"`
}

// Map is a concurrency-safe override table. The zero value is an empty table.
type Map struct {
	mu      sync.RWMutex
	path    string
	entries map[string]string
}

// New returns a table holding entries, detached from any file.
func New(entries map[string]string) *Map {
	m := &Map{entries: make(map[string]string, len(entries))}
	for k, v := range entries {
		m.entries[k] = v
	}
	return m
}

// Load reads path. An empty path yields an empty table.
func Load(path string) (*Map, error) {
	m := &Map{path: path, entries: map[string]string{}}
	if path == "" {
		return m, nil
	}
	if err := m.Reload(); err != nil {
		return nil, err
	}
	return m, nil
}

// Expected returns the barcode configured for productCode.
func (m *Map) Expected(productCode string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.entries[productCode]
	return b, ok
}

// Len reports the number of entries.
func (m *Map) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Reload re-reads the backing file. On error the current table is kept.
func (m *Map) Reload() error {
	raw, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("barcodemap: read %s: %w", m.path, err)
	}
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("barcodemap: parse %s: %w", m.path, err)
	}
	entries := make(map[string]string, len(f.Barcodes))
	for code, barcode := range f.Barcodes {
		code, barcode = strings.TrimSpace(code), strings.TrimSpace(barcode)
		if code == "" || barcode == "" {
			return fmt.Errorf("barcodemap: %s: empty code or barcode in entry %q", m.path, code)
		}
		entries[code] = barcode
	}

	m.mu.Lock()
	m.entries = entries
	m.mu.Unlock()
	return nil
}

// Watch reloads the table whenever the file is written, created or renamed
// into place, until ctx is cancelled. The parent directory is watched so
// editors that replace the file atomically are picked up. ready, if non-nil,
// is closed once the watcher is registered.
func (m *Map) Watch(ctx context.Context, log logger.Logger, ready chan<- struct{}) error {
	if m.path == "" {
		if ready != nil {
			close(ready)
		}
		<-ctx.Done()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("barcodemap: create watcher: %w", err)
	}
	defer watcher.Close() //nolint:errcheck

	dir := filepath.Dir(m.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("barcodemap: watch %s: %w", dir, err)
	}
	if ready != nil {
		close(ready)
	}

	target := filepath.Clean(m.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if err := m.Reload(); err != nil {
				log.ErrorContext(ctx, "barcode map reload failed, keeping previous table", "path", m.path, "error", err)
				continue
			}
			log.InfoContext(ctx, "barcode map reloaded", "path", m.path, "entries", m.Len())
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.ErrorContext(ctx, "barcode map watcher error", "error", err)
		}
	}
}
