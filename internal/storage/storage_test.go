package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"postboard/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"small.gif":            "small.gif",
		"../../etc/passwd":     "passwd",
		`C:\photos\my cat.png`: "my_cat.png",
		"  .hidden ":           "hidden",
		"":                     "upload",
		"кот.jpg":              "jpg",
	}
	for in, want := range tests {
		assert.Equal(t, want, CleanName(in), in)
	}
}

func TestLocalStore_SaveExistsDelete(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	s, err := NewLocalStore(root, "/media/")
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "posts/small.gif", strings.NewReader("GIF89a"), 6, "image/gif"))

	data, err := os.ReadFile(filepath.Join(root, "posts", "small.gif"))
	require.NoError(t, err)
	assert.Equal(t, "GIF89a", string(data))

	ok, err := s.Exists(ctx, "posts/small.gif")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/media/posts/small.gif", s.URL("posts/small.gif"))

	require.NoError(t, s.Delete(ctx, "posts/small.gif"))
	require.NoError(t, s.Delete(ctx, "posts/small.gif"))
	ok, err = s.Exists(ctx, "posts/small.gif")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalStore_RejectsTraversal(t *testing.T) {
	t.Parallel()

	s, err := NewLocalStore(t.TempDir(), "")
	require.NoError(t, err)

	err = s.Save(context.Background(), "../escape.txt", strings.NewReader("x"), 1, "text/plain")
	assert.Error(t, err)
}

func TestLocalStore_SaveNeverOverwrites(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	s, err := NewLocalStore(root, "/media/")
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "posts/cat.jpg", strings.NewReader("first"), 5, "image/jpeg"))
	err = s.Save(ctx, "posts/cat.jpg", strings.NewReader("second"), 6, "image/jpeg")
	assert.ErrorIs(t, err, ErrKeyExists)

	data, err := os.ReadFile(filepath.Join(root, "posts", "cat.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))

	leftovers, err := filepath.Glob(filepath.Join(root, "posts", ".upload-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestSaveUnique(t *testing.T) {
	t.Parallel()

	s, err := NewLocalStore(t.TempDir(), "/media/")
	require.NoError(t, err)
	ctx := context.Background()

	key, err := SaveUnique(ctx, s, "posts", "small.gif", []byte("x"), "image/gif")
	require.NoError(t, err)
	assert.Equal(t, "posts/small.gif", key)

	second, err := SaveUnique(ctx, s, "posts", "small.gif", []byte("y"), "image/gif")
	require.NoError(t, err)
	assert.NotEqual(t, key, second)
	assert.True(t, strings.HasPrefix(second, "posts/small_"))
	assert.True(t, strings.HasSuffix(second, ".gif"))
}

func TestSaveUnique_ConcurrentUploadsGetDistinctKeys(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	s, err := NewLocalStore(root, "/media/")
	require.NoError(t, err)
	ctx := context.Background()

	const uploads = 8
	keys := make([]string, uploads)
	var wg sync.WaitGroup
	for i := 0; i < uploads; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key, err := SaveUnique(ctx, s, "posts", "cat.jpg", []byte(fmt.Sprintf("upload-%d", i)), "image/jpeg")
			assert.NoError(t, err)
			keys[i] = key
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for i, key := range keys {
		require.NotEmpty(t, key)
		assert.False(t, seen[key], "key %s handed out twice", key)
		seen[key] = true

		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(key)))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("upload-%d", i), string(data))
	}
}

// takenStore reports every key as taken.
type takenStore struct{ *LocalStore }

func (takenStore) Save(context.Context, string, io.Reader, int64, string) error {
	return ErrKeyExists
}

func TestSaveUnique_GivesUp(t *testing.T) {
	t.Parallel()

	local, err := NewLocalStore(t.TempDir(), "")
	require.NoError(t, err)

	_, err = SaveUnique(context.Background(), takenStore{local}, "posts", "cat.jpg", []byte("x"), "image/jpeg")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrKeyExists)
}

func TestMinioStoreURL(t *testing.T) {
	t.Parallel()

	s, err := newMinioStore(MinioConfig{Endpoint: "127.0.0.1:9000", Bucket: "media", AccessKey: "a", SecretKey: "b"})
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:9000/media/posts/x.png", s.URL("posts/x.png"))
}

func TestNewSelectsBackend(t *testing.T) {
	t.Parallel()

	s, err := New(context.Background(), &config.Config{MediaBackend: "local", MediaRoot: t.TempDir(), MediaURL: "/m/"})
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, s)

	_, err = New(context.Background(), &config.Config{MediaBackend: "ftp"})
	assert.Error(t, err)
}
