package storage

import (
	"os"
	"path/filepath"
	"strings"
	"team-chat/errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// smallest valid PNG: signature plus IHDR chunk
var pngHeader = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
	0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89,
}

func TestDiskMediaStore_AcceptsImagesOnly(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	store, err := NewDiskMediaStore(dir, "http://localhost:8080/media/", 1024)
	req.NoError(err)

	url, err := store.Save(pngHeader)
	req.NoError(err)
	req.True(strings.HasPrefix(url, "http://localhost:8080/media/"))
	req.True(strings.HasSuffix(url, ".png"))
	_, err = os.Stat(filepath.Join(dir, filepath.Base(url)))
	req.NoError(err)

	_, err = store.Save([]byte("just some text"))
	req.ErrorIs(err, errors.ErrUnsupportedMedia)

	_, err = store.Save(make([]byte, 2048))
	req.ErrorIs(err, errors.ErrUnsupportedMedia)
}
