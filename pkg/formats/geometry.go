package formats

// FloatsPerVertex is the number of float32 components in one interleaved vertex:
// position (3), texture coordinate (2), normal (3).
const FloatsPerVertex = 8

// Vertex is one fully resolved mesh corner.
type Vertex struct {
	Position [3]float32
	TexCoord [2]float32
	Normal   [3]float32
}

// AppendTo appends the interleaved [px,py,pz,tx,ty,nx,ny,nz] form of v to dst.
func (v Vertex) AppendTo(dst []float32) []float32 {
	return append(dst,
		v.Position[0], v.Position[1], v.Position[2],
		v.TexCoord[0], v.TexCoord[1],
		v.Normal[0], v.Normal[1], v.Normal[2],
	)
}

// Corner references one position, texture coordinate and normal by zero-based index.
type Corner struct {
	Position int
	TexCoord int
	Normal   int
}

// Face is a polygon described by three or more corners.
type Face []Corner

// Triangulate splits the face into len(f)-2 triangles using a fan around the
// first corner: (0, i+1, i+2). Convexity is not checked.
func (f Face) Triangulate() [][3]Corner {
	if len(f) < 3 {
		return nil
	}
	tris := make([][3]Corner, 0, len(f)-2)
	for i := 0; i < len(f)-2; i++ {
		tris = append(tris, [3]Corner{f[0], f[i+1], f[i+2]})
	}
	return tris
}

// VertexCount returns how many vertices a triangulated face with n corners emits.
func VertexCount(corners int) int {
	if corners < 3 {
		return 0
	}
	return 3 * (corners - 2)
}

// attribArrays holds the three independent index spaces of a geometry file.
type attribArrays struct {
	positions [][3]float32
	texCoords [][2]float32
	normals   [][3]float32
}

// resolve looks up the vertex a corner refers to.
func (a *attribArrays) resolve(c Corner) (Vertex, error) {
	if c.Position < 0 || c.Position >= len(a.positions) {
		return Vertex{}, ErrIndexOutOfRange
	}
	if c.TexCoord < 0 || c.TexCoord >= len(a.texCoords) {
		return Vertex{}, ErrIndexOutOfRange
	}
	if c.Normal < 0 || c.Normal >= len(a.normals) {
		return Vertex{}, ErrIndexOutOfRange
	}
	return Vertex{
		Position: a.positions[c.Position],
		TexCoord: a.texCoords[c.TexCoord],
		Normal:   a.normals[c.Normal],
	}, nil
}
