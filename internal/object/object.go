// Package object defines the contract between vehicle resolution and the
// mesh loaders that turn a shape file into car body geometry.
package object

import "context"

// Unified is a loaded object of any format.
type Unified interface {
	// SourcePath is the file the object was loaded from.
	SourcePath() string
}

// Loader reads one family of object formats.
type Loader interface {
	// CanLoad reports whether the file looks like something Load accepts.
	// It may peek at the file but must not fail.
	CanLoad(path string) bool
	Load(ctx context.Context, path string) (Unified, error)
}
