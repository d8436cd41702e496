package formats

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// quadAttribs declares 5 positions, 5 texcoords and 1 normal.
const quadAttribs = `# test attributes
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
v 0.5 2 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vt 0.5 1
vn 0 0 1
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestFaceTriangulate(t *testing.T) {
	tests := []struct {
		corners   int
		triangles int
	}{
		{2, 0},
		{3, 1},
		{4, 2},
		{5, 3},
		{8, 6},
	}

	for _, tc := range tests {
		face := make(Face, tc.corners)
		for i := range face {
			face[i] = Corner{Position: i}
		}
		tris := face.Triangulate()
		if len(tris) != tc.triangles {
			t.Errorf("%d corners: expected %d triangles, got %d", tc.corners, tc.triangles, len(tris))
			continue
		}
		for i, tri := range tris {
			if tri[0].Position != 0 || tri[1].Position != i+1 || tri[2].Position != i+2 {
				t.Errorf("%d corners: triangle %d = %v, expected fan (0, %d, %d)", tc.corners, i, tri, i+1, i+2)
			}
		}
		if got := VertexCount(tc.corners); got != 3*tc.triangles {
			t.Errorf("VertexCount(%d) = %d, expected %d", tc.corners, got, 3*tc.triangles)
		}
	}
}

func TestParseCorner(t *testing.T) {
	c, err := ParseCorner("3/2/1")
	if err != nil {
		t.Fatalf("ParseCorner failed: %v", err)
	}
	if c != (Corner{Position: 2, TexCoord: 1, Normal: 0}) {
		t.Errorf("expected zero-based corner {2 1 0}, got %+v", c)
	}

	invalid := []struct {
		in  string
		err error
	}{
		{"1/1", ErrMalformedCorner},
		{"1", ErrMalformedCorner},
		{"1//1", ErrMalformedCorner},
		{"a/1/1", ErrMalformedCorner},
		{"0/1/1", ErrIndexOutOfRange},
		{"-1/1/1", ErrIndexOutOfRange},
	}
	for _, tc := range invalid {
		if _, err := ParseCorner(tc.in); !errors.Is(err, tc.err) {
			t.Errorf("ParseCorner(%q): expected %v, got %v", tc.in, tc.err, err)
		}
	}
}

func TestParseOBJ_Triangle(t *testing.T) {
	src := quadAttribs + "f 1/1/1 2/2/1 3/3/1\n"

	geo, err := ParseOBJ(strings.NewReader(src), "tri.obj", SingleMaterial)
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}

	if len(geo.Vertices) != 3*FloatsPerVertex {
		t.Fatalf("expected 3 vertices, got %d floats", len(geo.Vertices))
	}

	expected := []float32{
		0, 0, 0, 0, 0, 0, 0, 1,
		1, 0, 0, 1, 0, 0, 0, 1,
		1, 1, 0, 1, 1, 0, 0, 1,
	}
	for i := range expected {
		if geo.Vertices[i] != expected[i] {
			t.Errorf("component %d: expected %v, got %v", i, expected[i], geo.Vertices[i])
		}
	}
}

func TestParseOBJ_PentagonFan(t *testing.T) {
	src := quadAttribs + "f 1/1/1 2/2/1 3/3/1 5/5/1 4/4/1\n"

	geo, err := ParseOBJ(strings.NewReader(src), "penta.obj", SingleMaterial)
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}

	if got := len(geo.Vertices) / FloatsPerVertex; got != 9 {
		t.Fatalf("expected 9 vertices, got %d", got)
	}

	// Third triangle is (corner 0, corner 3, corner 4) = positions 1, 5, 4.
	third := geo.Vertices[6*FloatsPerVertex:]
	wantPositions := [][3]float32{{0, 0, 0}, {0.5, 2, 0}, {0, 1, 0}}
	for i, want := range wantPositions {
		v := third[i*FloatsPerVertex:]
		if v[0] != want[0] || v[1] != want[1] || v[2] != want[2] {
			t.Errorf("third triangle corner %d: expected %v, got %v", i, want, v[:3])
		}
	}
}

func TestParseOBJ_IndexOutOfRange(t *testing.T) {
	src := quadAttribs + "f 1/1/1 2/2/1 3/3/1\nf 1/1/1 2/2/2 3/3/1\n"

	_, err := ParseOBJ(strings.NewReader(src), "bad.obj", SingleMaterial)
	if !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if perr.Line != 14 {
		t.Errorf("expected line 14, got %d", perr.Line)
	}
	if perr.Path != "bad.obj" {
		t.Errorf("expected path bad.obj, got %s", perr.Path)
	}
}

func TestParseOBJ_MalformedRecords(t *testing.T) {
	tests := []struct {
		name string
		src  string
		err  error
	}{
		{"short vertex", "v 1 2\n", ErrMalformedRecord},
		{"bad vertex", "v 1 x 2\n", ErrMalformedRecord},
		{"short texcoord", "vt 1\n", ErrMalformedRecord},
		{"bad normal", "vn 0 0 z\n", ErrMalformedRecord},
		{"two corner face", quadAttribs + "f 1/1/1 2/2/1\n", ErrDegenerateFace},
		{"non-numeric corner", quadAttribs + "f 1/1/1 2/b/1 3/3/1\n", ErrMalformedCorner},
		{"usemtl without name", "usemtl\n", ErrMalformedRecord},
	}

	for _, tc := range tests {
		_, err := ParseOBJ(strings.NewReader(tc.src), tc.name, SingleMaterial)
		if !errors.Is(err, tc.err) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.err, err)
		}
	}
}

func TestParseOBJ_IgnoresUnknownRecords(t *testing.T) {
	src := "o thing\ng group\ns off\n\n" + quadAttribs + "vt 0.25 0.75 0.0\nf 1/6/1 2/2/1 3/3/1\n"

	geo, err := ParseOBJ(strings.NewReader(src), "extra.obj", SingleMaterial)
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	if geo.Vertices[3] != 0.25 || geo.Vertices[4] != 0.75 {
		t.Errorf("expected texcoord (0.25, 0.75), got (%v, %v)", geo.Vertices[3], geo.Vertices[4])
	}
}

func TestParseOBJ_MultiMaterialDropsFacesBeforeUsemtl(t *testing.T) {
	src := quadAttribs + `f 1/1/1 2/2/1 3/3/1
usemtl red
f 1/1/1 2/2/1 3/3/1 4/4/1
usemtl blue
f 1/1/1 2/2/1 3/3/1
usemtl red
f 1/1/1 3/3/1 4/4/1
`
	geo, err := ParseOBJ(strings.NewReader(src), "multi.obj", MultiMaterial)
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}

	if len(geo.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(geo.Groups))
	}
	if got := geo.Groups["red"].VertexCount(); got != 9 {
		t.Errorf("expected red to hold 9 vertices, got %d", got)
	}
	if got := geo.Groups["blue"].VertexCount(); got != 3 {
		t.Errorf("expected blue to hold 3 vertices, got %d", got)
	}
	if len(geo.Vertices) != 0 {
		t.Errorf("expected no single-material vertices in multi mode, got %d floats", len(geo.Vertices))
	}

	ordered := geo.Groups.Ordered()
	if ordered[0].Name != "red" || ordered[1].Name != "blue" {
		t.Errorf("expected order [red blue], got [%s %s]", ordered[0].Name, ordered[1].Name)
	}
}

func TestLoadMesh_NotFound(t *testing.T) {
	_, err := LoadMesh(filepath.Join(t.TempDir(), "missing.obj"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	_, err = LoadMultiMaterialMesh(filepath.Join(t.TempDir(), "missing.obj"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for multi-material load, got %v", err)
	}
}

func TestLoadMesh_MissingLibraryFallsBack(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "model.obj", "mtllib missing.mtl\nusemtl wood\n"+quadAttribs+"f 1/1/1 2/2/1 3/3/1\n")

	data, err := LoadMesh(path)
	if err != nil {
		t.Fatalf("LoadMesh failed: %v", err)
	}
	if data.Texture != DefaultTexturePath {
		t.Errorf("expected default texture %q, got %q", DefaultTexturePath, data.Texture)
	}
	if data.VertexCount() != 3 {
		t.Errorf("expected 3 vertices, got %d", data.VertexCount())
	}
	if data.Material != "wood" {
		t.Errorf("expected material wood, got %q", data.Material)
	}
}

func TestLoadMesh_ResolvesTexture(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "model.mtl", "newmtl other\nmap_Kd other.png\n\nnewmtl wood\nKd 1 1 1\nmap_Kd textures/tex.png\n")
	path := writeFile(t, dir, "model.obj", "mtllib model.mtl\nusemtl wood\n"+quadAttribs+"f 1/1/1 2/2/1 3/3/1\n")

	data, err := LoadMesh(path)
	if err != nil {
		t.Fatalf("LoadMesh failed: %v", err)
	}
	want := filepath.Join(dir, "textures", "tex.png")
	if data.Texture != want {
		t.Errorf("expected texture %q, got %q", want, data.Texture)
	}
	if data.MaterialLib != filepath.Join(dir, "model.mtl") {
		t.Errorf("unexpected material lib %q", data.MaterialLib)
	}
}

func TestLoadMultiMaterialMesh_NoLibrary(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "two.obj", quadAttribs+"usemtl a\nf 1/1/1 2/2/1 3/3/1\nusemtl b\nf 1/1/1 3/3/1 4/4/1\n")

	groups, err := LoadMultiMaterialMesh(path)
	if err != nil {
		t.Fatalf("LoadMultiMaterialMesh failed: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected exactly 2 groups, got %d", len(groups))
	}
	for name, g := range groups {
		if g.Texture != "" {
			t.Errorf("group %s: expected no texture, got %q", name, g.Texture)
		}
		if g.Color != nil {
			t.Errorf("group %s: expected no color, got %v", name, *g.Color)
		}
		if g.VertexCount() != 3 {
			t.Errorf("group %s: expected 3 vertices, got %d", name, g.VertexCount())
		}
	}
}

func TestLoadMultiMaterialMesh_Bindings(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "scene.mtl", `newmtl M
map_Kd sub/dir/tex.png
newmtl C
Kd 0.2 0.4 0.6
newmtl W
map_Kd C:\assets\win.png
newmtl Unused
map_Kd unused.png
`)
	path := writeFile(t, dir, "scene.obj", "mtllib scene.mtl\n"+quadAttribs+
		"usemtl M\nf 1/1/1 2/2/1 3/3/1\nusemtl C\nf 1/1/1 2/2/1 3/3/1\nusemtl W\nf 1/1/1 2/2/1 3/3/1\n")

	groups, err := LoadMultiMaterialMesh(path)
	if err != nil {
		t.Fatalf("LoadMultiMaterialMesh failed: %v", err)
	}

	if _, ok := groups["Unused"]; ok {
		t.Error("library-only material must not create a group")
	}
	if groups["M"].Texture != "tex.png" {
		t.Errorf("expected M texture base name tex.png, got %q", groups["M"].Texture)
	}
	if groups["M"].Color != nil {
		t.Errorf("expected M without color, got %v", *groups["M"].Color)
	}

	c := groups["C"]
	if c.Texture != "" {
		t.Errorf("expected C without texture, got %q", c.Texture)
	}
	if c.Color == nil || *c.Color != [3]float32{0.2, 0.4, 0.6} {
		t.Errorf("expected C color [0.2 0.4 0.6], got %v", c.Color)
	}

	if groups["W"].Texture != "win.png" {
		t.Errorf("expected W texture win.png, got %q", groups["W"].Texture)
	}
}

func TestParseMTL_FirstDiffuseMapWins(t *testing.T) {
	src := "newmtl M\nmap_Kd first.png\nmap_Kd -s 2 2 1 second.png\nnewmtl N\nmap_Kd own.png\n"
	defs, err := ParseMTL(strings.NewReader(src), "dup.mtl")
	if err != nil {
		t.Fatalf("ParseMTL failed: %v", err)
	}
	if got := defs["M"].DiffuseMap; got != "first.png" {
		t.Errorf("expected first map_Kd to win, got %q", got)
	}
	if got := defs["N"].DiffuseMap; got != "own.png" {
		t.Errorf("expected N to keep its own map, got %q", got)
	}
}

func TestLoadMultiMaterialMesh_MalformedLibrary(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.mtl", "newmtl M\nKd 0.2 oops 0.6\n")
	path := writeFile(t, dir, "bad.obj", "mtllib bad.mtl\n"+quadAttribs+"usemtl M\nf 1/1/1 2/2/1 3/3/1\n")

	_, err := LoadMultiMaterialMesh(path)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if perr.Line != 2 {
		t.Errorf("expected line 2, got %d", perr.Line)
	}
}
