package testutil

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"github.com/vk/kujuconsist/internal/object"
	"github.com/vk/kujuconsist/internal/registry"
)

// StubObject is the geometry RecordingLoader returns.
type StubObject struct {
	Path string
}

// SourcePath implements object.Unified.
func (o *StubObject) SourcePath() string { return o.Path }

// RecordingLoader accepts files by extension and records every load.
type RecordingLoader struct {
	Extension string

	mu     sync.Mutex
	loaded []string
}

// CanLoad implements object.Loader.
func (l *RecordingLoader) CanLoad(path string) bool {
	return strings.EqualFold(filepath.Ext(path), l.Extension)
}

// Load implements object.Loader.
func (l *RecordingLoader) Load(_ context.Context, path string) (object.Unified, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loaded = append(l.loaded, path)
	return &StubObject{Path: path}, nil
}

// Loaded lists the paths loaded so far.
func (l *RecordingLoader) Loaded() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.loaded...)
}

// SimpleModule is a test helper for easily creating a mock module that
// registers a single object loader.
type SimpleModule struct {
	Name   string
	Loader object.Loader
}

// Register implements the registry.Module interface.
func (m *SimpleModule) Register(r *registry.Registry) {
	if m.Name != "" && m.Loader != nil {
		r.RegisterObjectLoader(m.Name, m.Loader)
	}
}
