package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertCategoryLogged checks that at least one record carries category.
// Tests match categories rather than message text so wording can change.
func AssertCategoryLogged(t *testing.T, output, category string) {
	t.Helper()
	require.Contains(t, Categories(t, output), category,
		"expected a log record with category %q", category)
}

// AssertCategoryNotLogged checks that no record carries category.
func AssertCategoryNotLogged(t *testing.T, output, category string) {
	t.Helper()
	require.NotContains(t, Categories(t, output), category,
		"unexpected log record with category %q", category)
}
