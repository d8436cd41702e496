package texture

import (
	"errors"
	"fmt"
	"image"
)

// TGA image type constants.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

var errTGATruncated = errors.New("TGA data truncated")

// DecodeTGA decodes an uncompressed or RLE true-color TGA file (24 or 32 bpp).
// TGA has no magic number, so callers pick it by file extension.
func DecodeTGA(data []byte) (image.Image, error) {
	if len(data) < 18 {
		return nil, fmt.Errorf("TGA data too short")
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := int(data[2])
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	topToBottom := data[17]&0x20 != 0

	if colorMapType != 0 {
		return nil, fmt.Errorf("color-mapped TGA not supported")
	}
	if imageType != TGATypeUncompressed && imageType != TGATypeRLE {
		return nil, fmt.Errorf("unsupported TGA type %d", imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("unsupported TGA bit depth %d", bpp)
	}
	if 18+idLength > len(data) {
		return nil, errTGATruncated
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	r := &tgaReader{data: data[18+idLength:], bpp: bpp / 8}

	put := func(i int, px [4]byte) {
		x, y := i%width, i/width
		if !topToBottom {
			y = height - 1 - y
		}
		o := img.PixOffset(x, y)
		copy(img.Pix[o:o+4], px[:])
	}

	total := width * height
	for i := 0; i < total; {
		if imageType == TGATypeUncompressed {
			px, err := r.pixel()
			if err != nil {
				return nil, err
			}
			put(i, px)
			i++
			continue
		}

		header, err := r.byte()
		if err != nil {
			return nil, err
		}
		count := int(header&0x7F) + 1
		if header&0x80 != 0 {
			px, err := r.pixel()
			if err != nil {
				return nil, err
			}
			for n := 0; n < count && i < total; n++ {
				put(i, px)
				i++
			}
			continue
		}
		for n := 0; n < count && i < total; n++ {
			px, err := r.pixel()
			if err != nil {
				return nil, err
			}
			put(i, px)
			i++
		}
	}

	return img, nil
}

type tgaReader struct {
	data []byte
	off  int
	bpp  int
}

func (r *tgaReader) byte() (byte, error) {
	if r.off >= len(r.data) {
		return 0, errTGATruncated
	}
	b := r.data[r.off]
	r.off++
	return b, nil
}

// pixel reads one BGR(A) pixel and returns it as RGBA.
func (r *tgaReader) pixel() ([4]byte, error) {
	if r.off+r.bpp > len(r.data) {
		return [4]byte{}, errTGATruncated
	}
	p := r.data[r.off : r.off+r.bpp]
	r.off += r.bpp
	px := [4]byte{p[2], p[1], p[0], 255}
	if r.bpp == 4 {
		px[3] = p[3]
	}
	return px, nil
}
