package tools

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileOperationsRejectsTraversal(t *testing.T) {
	root := t.TempDir()
	fops := NewFileOperations(root)
	ctx := context.Background()

	// The sentinel must never be created: rejection happens before any
	// filesystem access.
	sentinel := filepath.Join(root, "..", "escape.txt")

	paths := []string{
		"../etc/passwd",
		"../../secret",
		"a/../../b",
		"nested/..",
		`..\windows`,
		"/etc/passwd",
	}
	operations := []string{"read", "write", "list", "info"}

	for _, path := range paths {
		for _, op := range operations {
			args := map[string]any{"operation": op, "path": path}
			if op == "write" {
				args["content"] = "x"
			}
			result, err := fops.Call(ctx, args)
			require.NoError(t, err)
			require.False(t, result.Success, "operation %s accepted path %q", op, path)
			assert.Contains(t, result.Error, "not allowed")
		}
	}

	_, err := os.Stat(sentinel)
	assert.True(t, os.IsNotExist(err))
}

func TestFileOperationsWriteThenRead(t *testing.T) {
	fops := NewFileOperations(t.TempDir())
	ctx := context.Background()

	result, err := fops.Call(ctx, map[string]any{
		"operation": "write",
		"path":      "notes/hello.txt",
		"content":   "hello world",
	})
	require.NoError(t, err)
	require.True(t, result.Success, result.Error)
	ack := result.Data.(writeAck)
	assert.Equal(t, len("hello world"), ack.BytesWritten)

	result, err = fops.Call(ctx, map[string]any{
		"operation": "read",
		"path":      "notes/hello.txt",
	})
	require.NoError(t, err)
	require.True(t, result.Success, result.Error)
	content := result.Data.(fileContent)
	assert.Equal(t, "hello world", content.Content)
	assert.Equal(t, len("hello world"), content.Size)
}

func TestFileOperationsWriteRequiresContent(t *testing.T) {
	fops := NewFileOperations(t.TempDir())

	result, err := fops.Call(context.Background(), map[string]any{
		"operation": "write",
		"path":      "empty.txt",
	})
	require.NoError(t, err)
	require.False(t, result.Success)
	assert.Contains(t, result.Error, "content is required")
}

func TestFileOperationsList(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("12345"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0o755))

	fops := NewFileOperations(root)
	result, err := fops.Call(context.Background(), map[string]any{
		"operation": "list",
		"path":      ".",
	})
	require.NoError(t, err)
	require.True(t, result.Success, result.Error)

	listing := result.Data.(dirListing)
	require.Len(t, listing.Entries, 2)

	byName := map[string]dirEntry{}
	for _, e := range listing.Entries {
		byName[e.Name] = e
	}
	assert.Equal(t, "file", byName["a.txt"].Type)
	assert.Equal(t, int64(5), byName["a.txt"].Size)
	assert.Equal(t, "directory", byName["sub"].Type)
}

func TestFileOperationsListOnFileFails(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "plain.txt"), []byte("x"), 0o644))

	fops := NewFileOperations(root)
	result, err := fops.Call(context.Background(), map[string]any{
		"operation": "list",
		"path":      "plain.txt",
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
}

func TestFileOperationsInfo(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "info.txt"), []byte("abcdef"), 0o644))

	fops := NewFileOperations(root)
	result, err := fops.Call(context.Background(), map[string]any{
		"operation": "info",
		"path":      "info.txt",
	})
	require.NoError(t, err)
	require.True(t, result.Success, result.Error)

	info := result.Data.(fileInfo)
	assert.Equal(t, "file", info.Type)
	assert.Equal(t, int64(6), info.Size)
	assert.False(t, info.Modified.IsZero())
	assert.False(t, info.Created.IsZero())

	result, err = fops.Call(context.Background(), map[string]any{
		"operation": "info",
		"path":      ".",
	})
	require.NoError(t, err)
	require.True(t, result.Success, result.Error)
	assert.Equal(t, "directory", result.Data.(fileInfo).Type)
}

func TestFileOperationsNotFound(t *testing.T) {
	fops := NewFileOperations(t.TempDir())

	result, err := fops.Call(context.Background(), map[string]any{
		"operation": "read",
		"path":      "missing/file.txt",
	})
	require.NoError(t, err)
	require.False(t, result.Success)
	assert.Contains(t, result.Error, "not found")
	assert.Contains(t, result.Error, "missing/file.txt")
}

func TestFileOperationsUnknownOperation(t *testing.T) {
	fops := NewFileOperations(t.TempDir())

	result, err := fops.Call(context.Background(), map[string]any{
		"operation": "delete",
		"path":      "x.txt",
	})
	require.NoError(t, err)
	require.False(t, result.Success)
	assert.Contains(t, result.Error, "unknown operation")
}
