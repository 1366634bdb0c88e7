package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"team-chat/domain/mimetypes"
	"team-chat/errors"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

type IMediaStore interface {
	Save(data []byte) (string, error)
}

// DiskMediaStore writes image attachments to a local directory served under baseURL.
type DiskMediaStore struct {
	dir      string
	baseURL  string
	maxBytes int
}

func NewDiskMediaStore(dir, baseURL string, maxBytes int) (*DiskMediaStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("media directory: %w", err)
	}
	return &DiskMediaStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/"), maxBytes: maxBytes}, nil
}

// Save sniffs the content, accepts whitelisted images only and returns the public URL of the stored file.
func (s DiskMediaStore) Save(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty attachment", errors.ErrUnsupportedMedia)
	}
	if s.maxBytes > 0 && len(data) > s.maxBytes {
		return "", fmt.Errorf("%w: attachment exceeds %d bytes", errors.ErrUnsupportedMedia, s.maxBytes)
	}
	mime := mimetype.Detect(data)
	if _, ok := mimetypes.AllowedAttachment(mime.String()); !ok {
		return "", fmt.Errorf("%w: %s", errors.ErrUnsupportedMedia, mime.String())
	}
	name := uuid.NewString() + mime.Extension()
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", err
	}
	return s.baseURL + "/" + name, nil
}
