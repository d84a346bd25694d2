package ai

import (
	"bytes"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
)

const (
	// Images above this size are recompressed before submission to stay
	// inside the hosted API's payload and latency limits.
	maxImageBytes = 1 << 20

	maxImageWidth = 1024
	jpegQuality   = 80
)

// compressImage downscales and JPEG-recompresses an oversized image.
// Failure is non-fatal: the original bytes and mime type are returned so
// the request can still be attempted.
func compressImage(log zerolog.Logger, data []byte, mimeType string) ([]byte, string) {
	if len(data) <= maxImageBytes {
		return data, mimeType
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		log.Warn().Err(err).Msg("image decode failed, submitting original")
		return data, mimeType
	}

	if img.Bounds().Dx() > maxImageWidth {
		img = imaging.Resize(img, maxImageWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		log.Warn().Err(err).Msg("image encode failed, submitting original")
		return data, mimeType
	}
	if buf.Len() >= len(data) {
		return data, mimeType
	}
	return buf.Bytes(), "image/jpeg"
}
