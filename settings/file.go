package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/sasha-s/go-deadlock"
	"gopkg.in/yaml.v3"
)

// FileStore persists settings as a flat yaml map. Writes are buffered in
// memory and written on Flush. Watch reloads the file on external edits.
type FileStore struct {
	path string

	mu     deadlock.RWMutex
	values map[string]float64
	dirty  bool
	// lastWrite suppresses the watcher event caused by our own Flush.
	lastWrite time.Time

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// OpenFileStore loads path if it exists. A missing file is an empty store.
func OpenFileStore(path string) (*FileStore, error) {
	fstore := &FileStore{path: path, values: make(map[string]float64)}
	if err := fstore.load(); err != nil {
		return nil, err
	}
	return fstore, nil
}

func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) Float(key string) (float64, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.values[key]
	return v, ok
}

func (f *FileStore) SetFloat(key string, value float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if old, ok := f.values[key]; ok && old == value {
		return nil
	}
	f.values[key] = value
	f.dirty = true
	return nil
}

// Flush writes buffered changes to disk.
func (f *FileStore) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.dirty {
		return nil
	}
	data, err := yaml.Marshal(f.values)
	if err != nil {
		return fmt.Errorf("settings: marshal %s: %w", f.path, err)
	}
	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("settings: create dir for %s: %w", f.path, err)
		}
	}
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("settings: write %s: %w", f.path, err)
	}
	f.dirty = false
	f.lastWrite = time.Now()
	return nil
}

// Watch starts reloading the file when it changes on disk. Reloads replace
// buffered values that were not flushed yet.
func (f *FileStore) Watch() error {
	if f.watcher != nil {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("settings: watch: %w", err)
	}
	dir := filepath.Dir(f.path)
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return fmt.Errorf("settings: watch %s: %w", dir, err)
	}
	f.watcher = w
	f.done = make(chan struct{})
	go f.run()
	return nil
}

func (f *FileStore) run() {
	for {
		select {
		case event, ok := <-f.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(f.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			f.mu.RLock()
			own := time.Since(f.lastWrite) < 200*time.Millisecond
			f.mu.RUnlock()
			if own {
				continue
			}
			if err := f.load(); err != nil {
				log.Warn().Err(err).Str("path", f.path).Msg("settings: reload failed")
				continue
			}
			log.Debug().Str("path", f.path).Msg("settings: reloaded")
		case err, ok := <-f.watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("settings: watcher error")
		case <-f.done:
			return
		}
	}
}

// Close flushes and stops the watcher.
func (f *FileStore) Close() error {
	err := f.Flush()
	if f.watcher != nil {
		close(f.done)
		if werr := f.watcher.Close(); werr != nil && err == nil {
			err = werr
		}
		f.watcher = nil
	}
	return err
}

func (f *FileStore) load() error {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("settings: read %s: %w", f.path, err)
	}
	values := make(map[string]float64)
	if err := yaml.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("settings: unmarshal %s: %w", f.path, err)
	}
	f.mu.Lock()
	f.values = values
	f.dirty = false
	f.mu.Unlock()
	return nil
}
