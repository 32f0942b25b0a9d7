package hcl_adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/kujuconsist/internal/config"
)

func writeHCL(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MergesFilesAndEvaluatesEnv(t *testing.T) {
	dir := t.TempDir()
	writeHCL(t, dir, "a.hcl", `
trainset {
  dir = "${env.KUJU_ROOT}/TRAINS/trainset"
}
vehicle {
  known_types = ["wagon", "carriage", lower("TENDER")]
}
index {
  file = "first.idx"
}
log {
  level = "debug"
}
`)
	writeHCL(t, dir, "b.hcl", `
index {
  file = "second.idx"
}
`)

	l := NewLoader()
	l.Environ = func() []string { return []string{"KUJU_ROOT=/data", "MALFORMED"} }

	got, err := l.Load(context.Background(), dir)
	require.NoError(t, err)

	want := &config.Model{
		Trainset: config.Trainset{Dir: "/data/TRAINS/trainset"},
		Vehicle:  config.Vehicle{KnownTypes: []string{"wagon", "carriage", "tender"}},
		Index:    config.Index{File: "second.idx"},
		Log:      config.Log{Level: "debug", Format: "text"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("model mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_MissingPathYieldsDefaults(t *testing.T) {
	got, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "absent.hcl"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), got)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("syntax", func(t *testing.T) {
		path := writeHCL(t, t.TempDir(), "bad.hcl", `trainset {`)
		_, err := NewLoader().Load(context.Background(), path)
		assert.ErrorContains(t, err, "failed to parse HCL file")
	})

	t.Run("unknown env variable", func(t *testing.T) {
		path := writeHCL(t, t.TempDir(), "env.hcl", `index { file = env.NOPE }`)
		l := NewLoader()
		l.Environ = func() []string { return []string{"OTHER=1"} }
		_, err := l.Load(context.Background(), path)
		assert.ErrorContains(t, err, "failed to decode HCL file")
	})
}

func TestConverter_ToCtyValue(t *testing.T) {
	v, err := NewConverter().ToCtyValue(map[string]string{"A": "1"})
	require.NoError(t, err)
	assert.Equal(t, "1", v.Index(cty.StringVal("A")).AsString())

	nilVal, err := NewConverter().ToCtyValue(nil)
	require.NoError(t, err)
	assert.Equal(t, cty.NilVal, nilVal)
}

func TestConverter_EmptyEnvironmentIsStringMap(t *testing.T) {
	v, err := NewConverter().ToCtyValue(map[string]string{})
	require.NoError(t, err)
	assert.True(t, v.Type().Equals(cty.Map(cty.String)))
	assert.Zero(t, v.LengthInt())

	list, err := NewConverter().ToCtyValue([]string{"wagon"})
	require.NoError(t, err)
	assert.True(t, list.Type().IsListType())
}
