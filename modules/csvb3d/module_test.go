package csvb3d

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/kujuconsist/internal/registry"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const csvBody = `; car body
CreateMeshBuilder
AddVertex, 0, 0, 0
AddVertex, 1, 0, 0
AddVertex, 1, 1, 0
AddFace, 0, 1, 2
CreateMeshBuilder
AddVertex, 0, 0, 1
`

const b3dBody = `[MeshBuilder]
Vertex 0, 0, 0
Vertex 1, 0, 0
Vertex 1, 1, 0
Face2 0, 1, 2
`

func TestCanLoad(t *testing.T) {
	l := &Loader{}

	assert.True(t, l.CanLoad(write(t, "body.CSV", csvBody)))
	assert.True(t, l.CanLoad(write(t, "body.b3d", b3dBody)))
	assert.False(t, l.CanLoad(write(t, "route.csv", "With Route\n.Gauge 1435\n")))
	assert.False(t, l.CanLoad(write(t, "body.s", csvBody)))
	assert.False(t, l.CanLoad(filepath.Join(t.TempDir(), "missing.csv")))

	late := strings.Repeat("; padding\n", sniffLines) + "CreateMeshBuilder\n"
	assert.False(t, l.CanLoad(write(t, "late.csv", late)))
}

func TestLoad(t *testing.T) {
	l := &Loader{}

	u, err := l.Load(context.Background(), write(t, "body.csv", csvBody))
	require.NoError(t, err)
	obj := u.(*Object)
	assert.Equal(t, []Mesh{{Vertices: 3, Faces: 1}, {Vertices: 1}}, obj.Meshes)

	u, err = l.Load(context.Background(), write(t, "body.b3d", b3dBody))
	require.NoError(t, err)
	assert.Equal(t, []Mesh{{Vertices: 3, Faces: 1}}, u.(*Object).Meshes)

	_, err = l.Load(context.Background(), write(t, "empty.csv", "; nothing\n"))
	assert.Error(t, err)
}

func TestModuleRegisters(t *testing.T) {
	r := registry.New()
	(&Module{}).Register(r)

	name, _, ok := r.LoaderFor(write(t, "body.csv", csvBody))
	require.True(t, ok)
	assert.Equal(t, "csvb3d", name)
}
