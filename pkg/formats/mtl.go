package formats

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// MaterialDef is one newmtl block of a material library.
type MaterialDef struct {
	Name string
	// DiffuseMap is the map_Kd path as written in the library.
	DiffuseMap string
	// Diffuse is the Kd color, nil when absent.
	Diffuse *[3]float32
}

// ParseMTL scans newmtl blocks from r. Records outside a block and records
// other than map_Kd and Kd are ignored. A repeated map_Kd keeps the first
// path. name is used in error messages.
func ParseMTL(r io.Reader, name string) (map[string]*MaterialDef, error) {
	defs := make(map[string]*MaterialDef)
	var current *MaterialDef

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		words := strings.Fields(line)
		if len(words) == 0 || strings.HasPrefix(words[0], "#") {
			continue
		}

		fail := func(err error) error {
			return &ParseError{Path: name, Line: lineNo, Text: line, Err: err}
		}

		switch words[0] {
		case "newmtl":
			if len(words) < 2 {
				return nil, fail(ErrMalformedRecord)
			}
			def, ok := defs[words[1]]
			if !ok {
				def = &MaterialDef{Name: words[1]}
				defs[def.Name] = def
			}
			current = def
		case "map_Kd":
			if current == nil {
				continue
			}
			if len(words) < 2 {
				return nil, fail(ErrMalformedRecord)
			}
			// The first map_Kd of a block wins. Options such as -s or -o
			// precede the file name.
			if current.DiffuseMap == "" {
				current.DiffuseMap = words[len(words)-1]
			}
		case "Kd":
			if current == nil {
				continue
			}
			if len(words) < 4 {
				return nil, fail(ErrMalformedRecord)
			}
			var rgb [3]float32
			for i := 0; i < 3; i++ {
				f, err := strconv.ParseFloat(words[i+1], 32)
				if err != nil {
					return nil, fail(ErrMalformedRecord)
				}
				rgb[i] = float32(f)
			}
			current.Diffuse = &rgb
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return defs, nil
}
