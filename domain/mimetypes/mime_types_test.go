package mimetypes

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		name     string
		detected string
		expected MIME
		want     bool
	}{
		{"PNG", "image/png", ImagePNG, true},
		{"JPEG", "image/jpeg", ImageJPEG, true},
		{"GIF", "image/gif", ImageGIF, true},
		{"WEBP with parameter", "image/webp; q=1", ImageWEBP, true},
		{"Mismatch", "image/png", ImageGIF, false},
		{"Invalid MIME", "not a mime", ImagePNG, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Matches(tt.detected, tt.expected)
			require.Equal(t, tt.want, ok)
		})
	}
}

func TestAllowedAttachment(t *testing.T) {
	req := require.New(t)

	got, ok := AllowedAttachment("image/jpeg")
	req.True(ok)
	req.Equal(ImageJPEG, got)

	// SVG can carry scripts and stays out
	got, ok = AllowedAttachment("image/svg+xml")
	req.False(ok)
	req.Equal(Unknown, got)

	_, ok = AllowedAttachment("text/plain; charset=utf-8")
	req.False(ok)
}
