package status

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"strings"
)

const (
	FaviconSize   = 64
	faviconPrefix = "data:image/png;base64,"
)

func checkFaviconSize(img image.Image) error {
	size := img.Bounds().Size()
	if size.X != FaviconSize || size.Y != FaviconSize {
		return fmt.Errorf("%w (got %dx%d)", ErrFaviconSize, size.X, size.Y)
	}
	return nil
}

// EncodeFavicon returns img as a png data uri.
func EncodeFavicon(img image.Image) (string, error) {
	if err := checkFaviconSize(img); err != nil {
		return "", err
	}

	buf := bytes.Buffer{}
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("could not encode png: %w", err)
	}

	return faviconPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeFavicon accepts a png data uri, or bare base64 without the prefix.
func DecodeFavicon(s string) (image.Image, error) {
	if len(s) >= len(faviconPrefix) && strings.EqualFold(s[:len(faviconPrefix)], faviconPrefix) {
		s = s[len(faviconPrefix):]
	}

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: could not decode base64: %w", ErrInvalidFavicon, err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: could not decode png: %w", ErrInvalidFavicon, err)
	}

	if err := checkFaviconSize(img); err != nil {
		return nil, err
	}
	return img, nil
}
