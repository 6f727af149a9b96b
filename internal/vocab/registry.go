package vocab

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"fxeval/internal/logger"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Snapshot is an immutable view of the vocabulary tables.
type Snapshot struct {
	Version  int64
	LoadedAt time.Time
	Tables   Tables
}

// ChangeListener fires after the registry reloads the override file.
type ChangeListener func(Snapshot)

// Registry serves vocabulary snapshots and watches the optional override file
// for edits. Without a file it serves the compiled-in defaults.
type Registry struct {
	path string
	v    *viper.Viper

	mu        sync.RWMutex
	snapshot  Snapshot
	listeners []ChangeListener
}

// NewRegistry loads the override file at path (optional) and starts watching
// it. An empty path yields a defaults-only registry.
func NewRegistry(path string) (*Registry, error) {
	r := &Registry{path: strings.TrimSpace(path)}
	if r.path == "" {
		r.snapshot = Snapshot{Version: 1, LoadedAt: time.Now(), Tables: Defaults()}
		return r, nil
	}
	v := viper.New()
	v.SetConfigFile(r.path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read vocab file failed: %w", err)
	}
	r.v = v
	if err := r.reload(); err != nil {
		return nil, err
	}
	v.OnConfigChange(func(evt fsnotify.Event) {
		if err := r.reload(); err != nil {
			logger.Errorf("vocab reload failed: %v", err)
			return
		}
		r.notifyListeners()
	})
	v.WatchConfig()
	return r, nil
}

func (r *Registry) reload() error {
	var override Tables
	if err := r.v.Unmarshal(&override); err != nil {
		return fmt.Errorf("parse vocab file failed: %w", err)
	}
	r.mu.Lock()
	r.snapshot = Snapshot{
		Version:  r.snapshot.Version + 1,
		LoadedAt: time.Now(),
		Tables:   merge(Defaults(), override),
	}
	r.mu.Unlock()
	logger.Infof("vocab tables loaded from %s (version=%d)", r.path, r.snapshot.Version)
	return nil
}

// Snapshot returns the current tables.
func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot
}

// Tables is a convenience accessor.
func (r *Registry) Tables() Tables {
	return r.Snapshot().Tables
}

// OnChange registers a reload listener.
func (r *Registry) OnChange(fn ChangeListener) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	r.listeners = append(r.listeners, fn)
	r.mu.Unlock()
}

func (r *Registry) notifyListeners() {
	r.mu.RLock()
	snap := r.snapshot
	fns := append([]ChangeListener(nil), r.listeners...)
	r.mu.RUnlock()
	for _, fn := range fns {
		fn(snap)
	}
}

// WriteDefaults renders the built-in tables as a starter override file.
func WriteDefaults(path string) error {
	data, err := yaml.Marshal(Defaults())
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
