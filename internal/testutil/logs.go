package testutil

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/kujuconsist/internal/ctxlog"
)

// LogContext returns a context carrying a debug-level JSON logger and the
// buffer it writes to. Set KUJU_TEST_LOGS=true to print the log when the
// test ends.
func LogContext(t *testing.T) (context.Context, *SafeBuffer) {
	t.Helper()
	buf := &SafeBuffer{}
	logger := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	t.Cleanup(func() {
		if os.Getenv("KUJU_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), buf.String())
		}
	})
	return ctxlog.WithLogger(context.Background(), logger), buf
}

// Records decodes JSON log output, one record per line.
func Records(t *testing.T, output string) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &rec), "log line is not JSON: %s", line)
		out = append(out, rec)
	}
	return out
}

// Categories lists the category attribute of every record that has one,
// in log order.
func Categories(t *testing.T, output string) []string {
	t.Helper()
	var out []string
	for _, rec := range Records(t, output) {
		if c, ok := rec[ctxlog.CategoryKey].(string); ok {
			out = append(out, c)
		}
	}
	return out
}

// CountCategory is the number of records tagged with category.
func CountCategory(t *testing.T, output, category string) int {
	t.Helper()
	n := 0
	for _, c := range Categories(t, output) {
		if c == category {
			n++
		}
	}
	return n
}
