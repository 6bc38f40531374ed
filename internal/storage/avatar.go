package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/sbilibin2017/gw-book-rental/internal/logger"
)

// AvatarStorage saves uploaded avatar images on a filesystem and exposes
// them under a public URL prefix.
type AvatarStorage struct {
	fs        afero.Fs
	dir       string // directory files are written to
	urlPrefix string // public prefix, e.g. /media
}

// NewAvatarStorage creates a storage rooted at dir. The directory is created
// if it does not exist.
func NewAvatarStorage(fs afero.Fs, dir, urlPrefix string) (*AvatarStorage, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &AvatarStorage{fs: fs, dir: dir, urlPrefix: urlPrefix}, nil
}

// Store writes the file under a random name, keeping the original extension,
// and returns the public URL.
func (s *AvatarStorage) Store(ctx context.Context, filename string, contents io.Reader) (string, error) {
	name := uuid.New().String() + filepath.Ext(filename)
	dest := filepath.Join(s.dir, name)

	f, err := s.fs.Create(dest)
	if err != nil {
		logger.Log.Errorw("failed to create avatar file", "path", dest, "error", err)
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, contents); err != nil {
		logger.Log.Errorw("failed to write avatar file", "path", dest, "error", err)
		return "", err
	}

	url := path.Join(s.urlPrefix, name)
	logger.Log.Infow("avatar stored", "path", dest, "url", url)
	return url, nil
}
