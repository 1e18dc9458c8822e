package utils

import (
	"bytes"
	"fmt"
	_ "image/gif" // Register GIF decoder
	"image/jpeg"
	_ "image/png" // Register PNG decoder
	"io"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"
)

// ImageKind selects the resize policy for an upload.
type ImageKind string

const (
	ImageKindProduct ImageKind = "product"
	ImageKindLogo    ImageKind = "logo" // carrier logos, boxed to a small square
)

const (
	maxProductWidth = 2000
	logoBox         = 256
)

// ProcessImage resizes the upload for its kind and re-encodes it as WebP,
// falling back to JPEG when WebP encoding fails.
func ProcessImage(r io.Reader, filename string, kind ImageKind) ([]byte, string, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", filename, err)
	}

	switch kind {
	case ImageKindLogo:
		if b := img.Bounds(); b.Dx() > logoBox || b.Dy() > logoBox {
			img = imaging.Fit(img, logoBox, logoBox, imaging.Lanczos)
		}
	default:
		if img.Bounds().Dx() > maxProductWidth {
			img = imaging.Resize(img, maxProductWidth, 0, imaging.Lanczos)
		}
	}

	var buf bytes.Buffer
	err = webp.Encode(&buf, img, &webp.Options{
		Lossless: kind == ImageKindLogo,
		Quality:  85,
	})
	if err != nil {
		log.Warn().Err(err).Str("file", filename).Msg("WebP encoding failed, falling back to JPEG")
		buf.Reset()
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "image/jpeg", nil
	}

	return buf.Bytes(), "image/webp", nil
}

// IsImage verifies simple content type
func IsImage(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/jpg", "image/png", "image/webp", "image/gif":
		return true
	}
	return false
}
