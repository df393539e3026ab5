// Package storage persists uploaded media under stable keys such as "posts/cat.jpg".
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"

	"postboard/internal/config"

	"github.com/google/uuid"
)

// ErrKeyExists is returned by Store.Save when the key is already taken.
var ErrKeyExists = errors.New("storage: key already exists")

// maxKeyAttempts bounds how many suffixed keys SaveUnique tries.
const maxKeyAttempts = 5

// Store is a flat key/value blob store addressed by slash-separated keys.
type Store interface {
	// Save writes a new object. It never replaces one: a taken key yields ErrKeyExists.
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	// URL is the public address of key.
	URL(key string) string
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// CleanName reduces an uploaded filename to a safe base name.
func CleanName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.TrimSpace(name)
	name = unsafeChars.ReplaceAllString(strings.ReplaceAll(name, " ", "_"), "")
	name = strings.TrimLeft(name, ".")
	if name == "" {
		return "upload"
	}
	return name
}

// SaveUnique stores data as dir/name, or as dir/<stem>_<random>.<ext> when that
// key is taken, and returns the key it used. Keys are claimed by Save itself, so
// concurrent uploads of the same name never share a key.
func SaveUnique(ctx context.Context, s Store, dir, name string, data []byte, contentType string) (string, error) {
	name = CleanName(name)
	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	key := path.Join(dir, name)
	for attempt := 0; attempt < maxKeyAttempts; attempt++ {
		if attempt > 0 {
			key = path.Join(dir, fmt.Sprintf("%s_%s%s", stem, uuid.NewString()[:8], ext))
		}
		err := s.Save(ctx, key, bytes.NewReader(data), int64(len(data)), contentType)
		if err == nil {
			return key, nil
		}
		if !errors.Is(err, ErrKeyExists) {
			return "", err
		}
	}
	return "", fmt.Errorf("no free key for %s/%s after %d attempts", dir, name, maxKeyAttempts)
}

// New builds the store selected by MEDIA_BACKEND.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.MediaBackend {
	case "", "local":
		return NewLocalStore(cfg.MediaRoot, cfg.MediaURL)
	case "minio":
		return NewMinioStore(ctx, MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		})
	default:
		return nil, fmt.Errorf("unsupported media backend %q", cfg.MediaBackend)
	}
}
