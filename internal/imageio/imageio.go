// Package imageio converts between the engine's raster buffers and the
// image encodings exchanged with the frontend: PNG/JPEG files on the
// upload path and base64 data URLs on the save path.
package imageio

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	_ "image/gif"  // register GIF decoding
	_ "image/jpeg" // register JPEG decoding

	coloring "github.com/jaehwan-AI/coloring-web"
)

// I/O errors.
var (
	// ErrNotDataURL is returned when a string is not a data:image URL.
	ErrNotDataURL = errors.New("imageio: not an image data URL")

	// ErrEmptyImage is returned when a decoded image has no pixels.
	ErrEmptyImage = errors.New("imageio: empty image")
)

// Decode reads an encoded image (PNG, JPEG or GIF) and converts it to a
// raster buffer.
func Decode(r io.Reader) (*coloring.Raster, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("imageio: decode: %w", err)
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, ErrEmptyImage
	}
	return coloring.FromImage(img), nil
}

// DecodeDataURL decodes a "data:image/...;base64,..." URL into a raster
// buffer, returning the declared MIME type alongside. The frontend sends
// colored canvases in this form.
func DecodeDataURL(s string) (*coloring.Raster, string, error) {
	payload, mime, err := splitDataURL(s)
	if err != nil {
		return nil, "", err
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("imageio: base64: %w", err)
	}
	raster, err := Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, "", err
	}
	return raster, mime, nil
}

// splitDataURL validates the data URL shape and returns the base64 payload
// and MIME type. The MIME type defaults to image/png when the header does
// not carry one.
func splitDataURL(s string) (payload, mime string, err error) {
	if !strings.HasPrefix(s, "data:image") {
		return "", "", ErrNotDataURL
	}
	header, payload, ok := strings.Cut(s, ",")
	if !ok {
		return "", "", ErrNotDataURL
	}

	mime = "image/png"
	if rest, found := strings.CutPrefix(header, "data:"); found {
		if m, _, hasParams := strings.Cut(rest, ";"); hasParams && m != "" {
			mime = m
		} else if !hasParams && rest != "" {
			mime = rest
		}
	}
	return payload, mime, nil
}

// EncodePNG writes the raster as a PNG stream.
func EncodePNG(w io.Writer, r *coloring.Raster) error {
	if err := png.Encode(w, r.ToImage()); err != nil {
		return fmt.Errorf("imageio: encode png: %w", err)
	}
	return nil
}

// EncodeDataURL encodes the raster as a PNG data URL, the inverse of
// [DecodeDataURL] for PNG content.
func EncodeDataURL(r *coloring.Raster) (string, error) {
	var buf bytes.Buffer
	buf.WriteString("data:image/png;base64,")

	enc := base64.NewEncoder(base64.StdEncoding, &buf)
	if err := EncodePNG(enc, r); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("imageio: encode data url: %w", err)
	}
	return buf.String(), nil
}
