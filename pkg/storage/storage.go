// Package storage stores uploaded files (photos, banners) and removes them again.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrEmptyPath is returned when asked to delete nothing.
var ErrEmptyPath = errors.New("storage path is required")

// Upload is a file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Storage persists uploads under a folder and returns the stored path.
type Storage interface {
	Put(ctx context.Context, folder string, u Upload) (string, error)
	Delete(ctx context.Context, storedPath string) error
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9.\-_]+`)

// ObjectKey builds a collision free key: folder/20240102-<uuid>-safe_name.ext
func ObjectKey(folder, filename string) string {
	safe := unsafeChars.ReplaceAllString(filepath.Base(filename), "_")
	return path.Join(folder, fmt.Sprintf("%s-%s-%s", time.Now().Format("20060102"), uuid.NewString(), safe))
}

// Local writes files below a directory on disk and serves them from PublicURL.
type Local struct {
	Dir       string
	PublicURL string
}

func NewLocal(dir, publicURL string) *Local {
	return &Local{Dir: dir, PublicURL: strings.TrimRight(publicURL, "/")}
}

func (l *Local) Put(_ context.Context, folder string, u Upload) (string, error) {
	key := ObjectKey(folder, u.Filename)
	full := filepath.Join(l.Dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, u.Body); err != nil {
		return "", fmt.Errorf("write upload file: %w", err)
	}
	return l.PublicURL + "/" + key, nil
}

func (l *Local) Delete(_ context.Context, storedPath string) error {
	if storedPath == "" {
		return ErrEmptyPath
	}
	key := strings.TrimPrefix(strings.TrimPrefix(storedPath, l.PublicURL), "/")
	err := os.Remove(filepath.Join(l.Dir, filepath.FromSlash(key)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove upload file: %w", err)
	}
	return nil
}
