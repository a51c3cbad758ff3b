package wizard

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"
)

// ErrInvalidSignature is returned for signature payloads that are not a
// decodable PNG or JPEG data URL.
var ErrInvalidSignature = errors.New("wizard: invalid signature image")

// signatureMaxBytes bounds the decoded snapshot. A canvas export at any sane
// resolution stays far below this.
const signatureMaxBytes = 1 << 20

// ValidateSignature checks that dataURL is a data:image/png or
// data:image/jpeg payload containing a decodable image.
func ValidateSignature(dataURL string) error {
	var b64 string
	switch {
	case strings.HasPrefix(dataURL, "data:image/png;base64,"):
		b64 = strings.TrimPrefix(dataURL, "data:image/png;base64,")
	case strings.HasPrefix(dataURL, "data:image/jpeg;base64,"):
		b64 = strings.TrimPrefix(dataURL, "data:image/jpeg;base64,")
	default:
		return ErrInvalidSignature
	}

	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil || len(raw) == 0 || len(raw) > signatureMaxBytes {
		return ErrInvalidSignature
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(raw)); err != nil {
		return ErrInvalidSignature
	}
	return nil
}
