package assets

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/h2non/filetype"
	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

var (
	ErrNotImage    = errors.New("not an image")
	ErrUnsupported = errors.New("unsupported image format")
	ErrEmptyImage  = errors.New("image has zero size")
)

var decodable = map[string]bool{
	"jpg":  true,
	"png":  true,
	"gif":  true,
	"webp": true,
	"bmp":  true,
}

// DecodeFile reads and decodes an image from disk.
func DecodeFile(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	img, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

// Decode sniffs the content type before decoding so that a mislabelled or
// truncated file fails with a descriptive error.
func Decode(data []byte) (image.Image, error) {
	if !filetype.IsImage(data) {
		return nil, ErrNotImage
	}
	kind, err := filetype.Match(data)
	if err != nil {
		return nil, err
	}
	if !decodable[kind.Extension] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, kind.MIME.Value)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, ErrEmptyImage
	}
	return img, nil
}

// ComposeCubemapStrip stacks six faces (+X, -X, +Y, -Y, +Z, -Z) into a
// vertical strip, scaling every face to the first face's shorter side.
func ComposeCubemapStrip(faces []image.Image) (*image.RGBA, error) {
	if len(faces) != 6 {
		return nil, fmt.Errorf("cubemap needs 6 faces, got %d", len(faces))
	}
	b := faces[0].Bounds()
	size := min(b.Dx(), b.Dy())
	if size == 0 {
		return nil, ErrEmptyImage
	}

	strip := image.NewRGBA(image.Rect(0, 0, size, size*6))
	for i, face := range faces {
		dst := image.Rect(0, i*size, size, (i+1)*size)
		draw.CatmullRom.Scale(strip, dst, face, face.Bounds(), draw.Src, nil)
	}
	return strip, nil
}
