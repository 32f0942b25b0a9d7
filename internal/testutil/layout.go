package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Layout is a throwaway MSTS directory tree:
//
//	<root>/TRAINS/CONSISTS
//	<root>/TRAINS/trainset
type Layout struct {
	Root     string
	Trains   string
	Consists string
	Trainset string
}

// NewLayout creates an empty tree under a test temp dir.
func NewLayout(t *testing.T) *Layout {
	t.Helper()
	root := t.TempDir()
	l := &Layout{
		Root:     root,
		Trains:   filepath.Join(root, "TRAINS"),
		Consists: filepath.Join(root, "TRAINS", "CONSISTS"),
		Trainset: filepath.Join(root, "TRAINS", "trainset"),
	}
	require.NoError(t, os.MkdirAll(l.Consists, 0o755))
	require.NoError(t, os.MkdirAll(l.Trainset, 0o755))
	return l
}

// WriteTrainset writes a file below the trainset and returns its path.
// rel uses forward slashes.
func (l *Layout) WriteTrainset(t *testing.T, rel string, data []byte) string {
	t.Helper()
	return writeFile(t, filepath.Join(l.Trainset, filepath.FromSlash(rel)), data)
}

// WriteConsist writes a consist file and returns its path.
func (l *Layout) WriteConsist(t *testing.T, name string, data []byte) string {
	t.Helper()
	return writeFile(t, filepath.Join(l.Consists, name), data)
}

func writeFile(t *testing.T, path string, data []byte) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}
