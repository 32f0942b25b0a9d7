package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg, exit, err := Parse([]string{
		"-config", "a.hcl", "-config", "conf.d",
		"-trainset", "/msts/TRAINS/trainset",
		"-index-file", "vehicles.idx",
		"-log-level", "DEBUG",
		"-workers", "2",
		"acela.con",
	}, out)
	require.NoError(t, err)
	require.False(t, exit)

	assert.Equal(t, "acela.con", cfg.ConsistPath)
	assert.Equal(t, []string{"a.hcl", "conf.d"}, cfg.ConfigPaths)
	assert.Equal(t, "/msts/TRAINS/trainset", cfg.TrainsetDir)
	assert.Equal(t, "vehicles.idx", cfg.IndexFile)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 2, cfg.WorkerCount)
}

func TestParse_Rejects(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		args    []string
		message string
	}{
		{name: "bad level", args: []string{"-log-level", "loud", "a.con"}, message: "invalid log-level"},
		{name: "bad format", args: []string{"-log-format", "xml", "a.con"}, message: "invalid log-format"},
		{name: "two paths", args: []string{"a.con", "b.con"}, message: "exactly one"},
		{name: "unknown flag", args: []string{"-grid", "x"}, message: "flag provided but not defined"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, exit, err := Parse(tc.args, &bytes.Buffer{})
			assert.False(t, exit)
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.message)
		})
	}
}

func TestParse_NoPathPrintsUsage(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg, exit, err := Parse(nil, out)
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "CONSIST_PATH")
}
