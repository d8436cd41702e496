package formats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Geometry file errors.
var (
	ErrNotFound        = errors.New("geometry file not found")
	ErrMalformedRecord = errors.New("malformed record")
	ErrMalformedCorner = errors.New("malformed face corner: expected position/texcoord/normal")
	ErrIndexOutOfRange = errors.New("corner index out of range")
	ErrDegenerateFace  = errors.New("face has fewer than 3 corners")
)

// DefaultTexturePath is used by single-material meshes whose material library
// does not supply a diffuse map.
const DefaultTexturePath = "gfx/wood.jpg"

// ParseError reports a malformed line in a geometry or material-library file.
type ParseError struct {
	Path string
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %v: %q", e.Path, e.Line, e.Err, e.Text)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Mode selects how faces are collected while scanning a geometry file.
type Mode int

const (
	// SingleMaterial collects every face into one vertex sequence.
	SingleMaterial Mode = iota
	// MultiMaterial collects faces per active usemtl material.
	MultiMaterial
)

// Geometry is the raw result of scanning a geometry file.
type Geometry struct {
	// MaterialLib is the library file name exactly as written after mtllib.
	MaterialLib string
	// Material is the last material selected by usemtl.
	Material string
	// Vertices holds every face in SingleMaterial mode.
	Vertices []float32
	// Groups holds per-material faces in MultiMaterial mode.
	Groups MaterialGroups
}

// MaterialGroup is the geometry drawn with one material.
type MaterialGroup struct {
	Name     string
	Vertices []float32
	// Texture is the diffuse map base name, empty if the library has none.
	Texture string
	// Color is the flat diffuse color, nil if the library has none.
	Color *[3]float32

	order int
}

// VertexCount returns the number of vertices in the group.
func (g *MaterialGroup) VertexCount() int {
	return len(g.Vertices) / FloatsPerVertex
}

// MaterialGroups maps material names to their groups.
type MaterialGroups map[string]*MaterialGroup

// Ordered returns the groups in the order their material was first selected.
func (g MaterialGroups) Ordered() []*MaterialGroup {
	out := make([]*MaterialGroup, 0, len(g))
	for _, group := range g {
		out = append(out, group)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].order < out[j].order })
	return out
}

// MeshData is a single-material mesh ready for upload.
type MeshData struct {
	Vertices []float32
	// Material is the last usemtl name, if any.
	Material string
	// MaterialLib is the resolved path of the material library, if any.
	MaterialLib string
	// Texture is the resolved diffuse map path, or DefaultTexturePath.
	Texture string
}

// VertexCount returns the number of vertices in the mesh.
func (m *MeshData) VertexCount() int {
	return len(m.Vertices) / FloatsPerVertex
}

// LoadMesh reads a geometry file as one material and resolves its diffuse
// texture through the companion material library.
func LoadMesh(path string) (*MeshData, error) {
	geo, err := loadGeometry(path, SingleMaterial)
	if err != nil {
		return nil, err
	}

	data := &MeshData{
		Vertices: geo.Vertices,
		Material: geo.Material,
		Texture:  DefaultTexturePath,
	}
	if geo.MaterialLib == "" {
		return data, nil
	}

	dir := filepath.Dir(path)
	data.MaterialLib = filepath.Join(dir, geo.MaterialLib)
	if geo.Material == "" {
		return data, nil
	}

	defs, err := loadMaterialLib(data.MaterialLib)
	if err != nil {
		return nil, err
	}
	if def, ok := defs[geo.Material]; ok && def.DiffuseMap != "" {
		data.Texture = filepath.Join(dir, def.DiffuseMap)
	}
	return data, nil
}

// LoadMultiMaterialMesh reads a geometry file and partitions its faces by
// material. Texture and color bindings come from the material library; a
// missing library leaves them unset.
func LoadMultiMaterialMesh(path string) (MaterialGroups, error) {
	geo, err := loadGeometry(path, MultiMaterial)
	if err != nil {
		return nil, err
	}
	if geo.MaterialLib == "" {
		return geo.Groups, nil
	}

	defs, err := loadMaterialLib(filepath.Join(filepath.Dir(path), geo.MaterialLib))
	if err != nil {
		return nil, err
	}
	for name, group := range geo.Groups {
		def, ok := defs[name]
		if !ok {
			continue
		}
		if def.DiffuseMap != "" {
			group.Texture = baseName(def.DiffuseMap)
		}
		if def.Diffuse != nil {
			c := *def.Diffuse
			group.Color = &c
		}
	}
	return geo.Groups, nil
}

func loadGeometry(path string, mode Mode) (*Geometry, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	return ParseOBJ(f, path, mode)
}

// loadMaterialLib parses a material library; a missing file yields no definitions.
func loadMaterialLib(path string) (map[string]*MaterialDef, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	return ParseMTL(f, path)
}

// ParseOBJ scans geometry records from r. name is used in error messages.
func ParseOBJ(r io.Reader, name string, mode Mode) (*Geometry, error) {
	geo := &Geometry{}
	if mode == MultiMaterial {
		geo.Groups = make(MaterialGroups)
	}
	var attribs attribArrays

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
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
		case "v":
			p, err := parseFloats3(words)
			if err != nil {
				return nil, fail(err)
			}
			attribs.positions = append(attribs.positions, p)
		case "vt":
			if len(words) < 3 {
				return nil, fail(ErrMalformedRecord)
			}
			s, err1 := strconv.ParseFloat(words[1], 32)
			t, err2 := strconv.ParseFloat(words[2], 32)
			if err1 != nil || err2 != nil {
				return nil, fail(ErrMalformedRecord)
			}
			attribs.texCoords = append(attribs.texCoords, [2]float32{float32(s), float32(t)})
		case "vn":
			n, err := parseFloats3(words)
			if err != nil {
				return nil, fail(err)
			}
			attribs.normals = append(attribs.normals, n)
		case "mtllib":
			if len(words) < 2 {
				return nil, fail(ErrMalformedRecord)
			}
			geo.MaterialLib = words[1]
		case "usemtl":
			if len(words) < 2 {
				return nil, fail(ErrMalformedRecord)
			}
			geo.Material = words[1]
			if mode == MultiMaterial {
				if _, ok := geo.Groups[geo.Material]; !ok {
					geo.Groups[geo.Material] = &MaterialGroup{
						Name:  geo.Material,
						order: len(geo.Groups),
					}
				}
			}
		case "f":
			var dst *[]float32
			if mode == MultiMaterial {
				if geo.Material == "" {
					continue
				}
				dst = &geo.Groups[geo.Material].Vertices
			} else {
				dst = &geo.Vertices
			}
			if err := appendFace(dst, words[1:], &attribs); err != nil {
				return nil, fail(err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return geo, nil
}

// appendFace resolves and triangulates one face record onto dst.
func appendFace(dst *[]float32, fields []string, attribs *attribArrays) error {
	if len(fields) < 3 {
		return ErrDegenerateFace
	}
	face := make(Face, len(fields))
	for i, field := range fields {
		c, err := ParseCorner(field)
		if err != nil {
			return err
		}
		face[i] = c
	}

	out := *dst
	for _, tri := range face.Triangulate() {
		for _, c := range tri {
			v, err := attribs.resolve(c)
			if err != nil {
				return err
			}
			out = v.AppendTo(out)
		}
	}
	*dst = out
	return nil
}

// ParseCorner parses a "p/t/n" corner with 1-based indices into a zero-based Corner.
func ParseCorner(s string) (Corner, error) {
	parts := strings.Split(s, "/")
	if len(parts) < 3 {
		return Corner{}, ErrMalformedCorner
	}
	var idx [3]int
	for i := 0; i < 3; i++ {
		n, err := strconv.Atoi(parts[i])
		if err != nil {
			return Corner{}, ErrMalformedCorner
		}
		if n < 1 {
			return Corner{}, ErrIndexOutOfRange
		}
		idx[i] = n - 1
	}
	return Corner{Position: idx[0], TexCoord: idx[1], Normal: idx[2]}, nil
}

func parseFloats3(words []string) ([3]float32, error) {
	var out [3]float32
	if len(words) < 4 {
		return out, ErrMalformedRecord
	}
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(words[i+1], 32)
		if err != nil {
			return out, ErrMalformedRecord
		}
		out[i] = float32(f)
	}
	return out, nil
}

// baseName strips both slash and backslash separated directories.
func baseName(p string) string {
	if i := strings.LastIndexAny(p, `/\`); i >= 0 {
		return p[i+1:]
	}
	return p
}
