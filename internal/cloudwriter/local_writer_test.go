package cloudwriter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFactoryWritesBackupObject(t *testing.T) {
	dir := t.TempDir()
	factory := NewLocalFactory(dir)
	ctx := context.Background()

	w, err := factory.NewWriter(ctx, "orders/2025-03-01.json")
	require.NoError(t, err)

	_, err = w.Write([]byte(`[{"id":"o1",`))
	require.NoError(t, err)
	_, err = w.Write([]byte(`"total":90000}]`))
	require.NoError(t, err)
	require.NoError(t, w.Close(ctx))

	data, err := os.ReadFile(filepath.Join(dir, "orders", "2025-03-01.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"o1","total":90000}]`, string(data))
}

func TestLocalFactoryCreatesNestedDirectories(t *testing.T) {
	dir := t.TempDir()
	factory := NewLocalFactory(dir)
	ctx := context.Background()

	w, err := factory.NewWriter(ctx, "backups/cn1/orders/latest.json")
	require.NoError(t, err)
	_, err = w.Write([]byte("[]"))
	require.NoError(t, err)
	require.NoError(t, w.Close(ctx))

	_, err = os.Stat(filepath.Join(dir, "backups", "cn1", "orders", "latest.json"))
	assert.NoError(t, err)
}
