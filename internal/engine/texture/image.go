// Package texture decodes image files into tightly packed RGB pixel data.
package texture

import (
	"image"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/transform"
)

// Image is decoded pixel data: Width*Height RGB triplets, row-major, first row on top.
type Image struct {
	Width  int
	Height int
	Pix    []byte
}

// FromImage converts any image.Image to packed RGB, dropping alpha.
func FromImage(src image.Image) *Image {
	rgba := clone.AsRGBA(src)
	b := rgba.Bounds()
	w, h := b.Dx(), b.Dy()

	pix := make([]byte, 0, w*h*3)
	for y := 0; y < h; y++ {
		row := rgba.Pix[y*rgba.Stride : y*rgba.Stride+w*4]
		for x := 0; x < w; x++ {
			pix = append(pix, row[x*4], row[x*4+1], row[x*4+2])
		}
	}
	return &Image{Width: w, Height: h, Pix: pix}
}

// FlipVertical returns src mirrored top to bottom.
func FlipVertical(src image.Image) image.Image {
	return transform.FlipV(src)
}

// Solid returns a 1x1 image of the given normalized color.
func Solid(rgb [3]float32) *Image {
	return &Image{
		Width:  1,
		Height: 1,
		Pix:    []byte{toByte(rgb[0]), toByte(rgb[1]), toByte(rgb[2])},
	}
}

func toByte(f float32) byte {
	switch {
	case f <= 0:
		return 0
	case f >= 1:
		return 255
	}
	return byte(f*255 + 0.5)
}
