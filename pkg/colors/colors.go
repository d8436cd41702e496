// Package colors converts color strings into normalized RGB components.
package colors

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// HexToRGB parses "#rrggbb" (the leading '#' is optional) into components in [0, 1].
func HexToRGB(hex string) ([3]float32, error) {
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return [3]float32{}, fmt.Errorf("parsing color %q: %w", hex, err)
	}
	return [3]float32{float32(c.R), float32(c.G), float32(c.B)}, nil
}

// MustHexToRGB is like HexToRGB but panics on malformed input.
// Intended for compiled-in constants.
func MustHexToRGB(hex string) [3]float32 {
	rgb, err := HexToRGB(hex)
	if err != nil {
		panic(err)
	}
	return rgb
}
