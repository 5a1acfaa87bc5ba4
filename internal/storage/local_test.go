package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(filepath.Join(t.TempDir(), "reports"), "/static/reports/")
	require.NoError(t, err)
	return store
}

func TestLocalStore_SaveOpenDelete(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	location, err := store.Save(ctx, "report_a.csv", strings.NewReader("Date,Amount\n"))
	require.NoError(t, err)
	assert.Equal(t, "/static/reports/report_a.csv", location)

	rc, err := store.Open(ctx, "report_a.csv")
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "Date,Amount\n", string(body))

	require.NoError(t, store.Delete(ctx, "report_a.csv"))
	_, err = store.Open(ctx, "report_a.csv")
	assert.ErrorIs(t, err, ErrArtifactNotFound)

	// second delete is a no-op
	assert.NoError(t, store.Delete(ctx, "report_a.csv"))
}

func TestLocalStore_LeavesNoTempFiles(t *testing.T) {
	store := newStore(t)

	_, err := store.Save(context.Background(), "report_b.csv", strings.NewReader("x"))
	require.NoError(t, err)

	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "report_b.csv", entries[0].Name())
}

func TestLocalStore_RejectsPathNames(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	for _, name := range []string{"", "../escape.csv", "nested/report.csv", ".hidden"} {
		_, err := store.Save(ctx, name, strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}
}

func TestLocalStore_CancelledContext(t *testing.T) {
	store := newStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Save(ctx, "report_c.csv", strings.NewReader("x"))
	assert.ErrorIs(t, err, context.Canceled)
}
