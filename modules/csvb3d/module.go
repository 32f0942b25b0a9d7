// Package csvb3d reads the CSV and B3D object formats used for car bodies.
// It recognises the files and summarises their mesh structure; building
// renderable geometry is left to the host.
package csvb3d

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/kujuconsist/internal/ctxlog"
	"github.com/vk/kujuconsist/internal/object"
	"github.com/vk/kujuconsist/internal/registry"
)

// sniffLines is how far CanLoad looks for a MeshBuilder statement.
const sniffLines = 100

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the loader with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterObjectLoader("csvb3d", &Loader{})
}

// Mesh is one MeshBuilder section.
type Mesh struct {
	Vertices int
	Faces    int
}

// Object is a loaded CSV or B3D file.
type Object struct {
	Path   string
	Meshes []Mesh
}

// SourcePath implements object.Unified.
func (o *Object) SourcePath() string { return o.Path }

// Loader implements object.Loader for CSV and B3D files.
type Loader struct{}

// CanLoad accepts .csv and .b3d files that hold a MeshBuilder statement
// within their first lines. Route files share the extensions.
func (l *Loader) CanLoad(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".b3d":
	default:
		return false
	}

	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for i := 0; i < sniffLines && sc.Scan(); i++ {
		if strings.Contains(strings.ToLower(sc.Text()), "meshbuilder") {
			return true
		}
	}
	return false
}

// Load counts the meshes of the file and the vertices and faces of each.
func (l *Loader) Load(ctx context.Context, path string) (object.Unified, error) {
	logger := ctxlog.FromContext(ctx)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open object %s: %w", path, err)
	}
	defer f.Close()

	obj := &Object{Path: path}
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		cmd := command(sc.Text())
		switch cmd {
		case "":
		case "meshbuilder", "createmeshbuilder":
			obj.Meshes = append(obj.Meshes, Mesh{})
		case "addvertex", "vertex":
			if len(obj.Meshes) == 0 {
				logger.Debug("Vertex outside a mesh, ignored.", "path", path, "line", line)
				continue
			}
			obj.Meshes[len(obj.Meshes)-1].Vertices++
		case "addface", "addface2", "face", "face2":
			if len(obj.Meshes) == 0 {
				logger.Debug("Face outside a mesh, ignored.", "path", path, "line", line)
				continue
			}
			obj.Meshes[len(obj.Meshes)-1].Faces++
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read object %s: %w", path, err)
	}
	if len(obj.Meshes) == 0 {
		return nil, fmt.Errorf("object %s has no MeshBuilder", path)
	}
	logger.Debug("Object loaded.", "path", path, "meshes", len(obj.Meshes))
	return obj, nil
}

// command returns the lower-cased statement name of a CSV or B3D line.
// B3D writes section headers in brackets and separates arguments with a
// space; CSV uses commas. Text after ';' is a comment.
func command(line string) string {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	if i := strings.IndexAny(line, ", \t"); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
	return strings.ToLower(line)
}
