// Package shader loads GLSL program sources and caches uniform locations.
package shader

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Bundled program names.
const (
	Standard = "standard"
	Emissive = "emissive"
	Shadow   = "shadow"
	Skybox   = "skybox"
)

//go:embed glsl/*.vert glsl/*.frag
var bundled embed.FS

// Source is the GLSL text of one program.
type Source struct {
	Name     string
	Vertex   string
	Fragment string
}

// Sources reads program sources. Files in Dir named <name>.vert and
// <name>.frag override the bundled ones; an empty Dir uses only the bundle.
type Sources struct {
	Dir string
}

// Load returns the vertex and fragment source of a program.
func (s Sources) Load(name string) (Source, error) {
	vert, err := s.read(name + ".vert")
	if err != nil {
		return Source{}, err
	}
	frag, err := s.read(name + ".frag")
	if err != nil {
		return Source{}, err
	}
	return Source{Name: name, Vertex: vert, Fragment: frag}, nil
}

func (s Sources) read(file string) (string, error) {
	if s.Dir != "" {
		data, err := os.ReadFile(filepath.Join(s.Dir, file))
		if err == nil {
			return string(data), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("read shader %s: %w", file, err)
		}
	}

	data, err := bundled.ReadFile("glsl/" + file)
	if err != nil {
		return "", fmt.Errorf("shader %s not found: %w", file, err)
	}
	return string(data), nil
}
