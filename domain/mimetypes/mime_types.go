package mimetypes

import "mime"

type MIME string

const (
	Unknown   MIME = "unknown"
	ImagePNG  MIME = "image/png"
	ImageJPEG MIME = "image/jpeg"
	ImageGIF  MIME = "image/gif"
	ImageWEBP MIME = "image/webp"
)

// Attachments lists the media types a message attachment may carry.
var Attachments = []MIME{ImagePNG, ImageJPEG, ImageGIF, ImageWEBP}

func Matches(detected string, expected MIME) (MIME, bool) {
	mt, _, err := mime.ParseMediaType(detected)
	if err != nil {
		return Unknown, false
	}
	return expected, mt == string(expected)
}

// AllowedAttachment returns the whitelisted type matching the sniffed one.
func AllowedAttachment(detected string) (MIME, bool) {
	for _, allowed := range Attachments {
		if m, ok := Matches(detected, allowed); ok {
			return m, true
		}
	}
	return Unknown, false
}
