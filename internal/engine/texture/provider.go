package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedFormat is returned for data that is not a decodable image.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// LoaderFunc returns the raw bytes stored at path.
type LoaderFunc func(path string) ([]byte, error)

// Provider decodes image files fetched through a loader.
type Provider struct {
	load LoaderFunc
	// FlipVertical mirrors every decoded image so the first row is the bottom one.
	FlipVertical bool
}

// NewProvider creates a provider reading files through load.
func NewProvider(load LoaderFunc) *Provider {
	return &Provider{load: load}
}

// Load reads and decodes the image at path.
func (p *Provider) Load(path string) (*Image, error) {
	data, err := p.load(path)
	if err != nil {
		return nil, err
	}
	img, err := Decode(data, path)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	if p.FlipVertical {
		img = FlipVertical(img)
	}
	return FromImage(img), nil
}

// Decode sniffs the content type of data and decodes it. name is only
// consulted for formats without a signature (TGA).
func Decode(data []byte, name string) (image.Image, error) {
	kind, _ := filetype.Match(data)
	if kind == filetype.Unknown {
		if strings.EqualFold(filepath.Ext(name), ".tga") {
			return DecodeTGA(data)
		}
		return nil, ErrUnsupportedFormat
	}
	if !filetype.IsImage(data) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, kind.MIME.Value)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return img, nil
}
