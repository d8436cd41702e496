// Package gpu defines the graphics command surface used by the engine.
//
// All methods must be called from the thread that owns the graphics context.
// Commands execute in issue order; there is no explicit synchronization.
package gpu

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/shadowbox/internal/engine/texture"
)

// ClearMask selects which framebuffer attachments Clear resets.
type ClearMask uint32

const (
	ClearColor ClearMask = 1 << iota
	ClearDepth
)

// DepthFunc is the depth-test comparison.
type DepthFunc int

const (
	DepthLess DepthFunc = iota
	DepthLessEqual
)

// Texture units used by the engine.
const (
	UnitDiffuse uint32 = 0
	UnitShadow  uint32 = 1
)

// Attribute describes one float vertex attribute inside an interleaved buffer.
type Attribute struct {
	Index  uint32
	Size   int32
	Offset int
}

// Layout describes an interleaved float32 vertex buffer.
type Layout struct {
	Stride     int32
	Attributes []Attribute
}

// FloatsPerVertex returns the number of float32 values per vertex.
func (l Layout) FloatsPerVertex() int {
	return int(l.Stride) / 4
}

// InterleavedLayout is position(3) + texcoord(2) + normal(3), 32 bytes per vertex.
var InterleavedLayout = Layout{
	Stride: 32,
	Attributes: []Attribute{
		{Index: 0, Size: 3, Offset: 0},
		{Index: 1, Size: 2, Offset: 12},
		{Index: 2, Size: 3, Offset: 20},
	},
}

// PositionLayout is position(3) only, used by the skybox cube.
var PositionLayout = Layout{
	Stride:     12,
	Attributes: []Attribute{{Index: 0, Size: 3, Offset: 0}},
}

// VertexArray is a vertex buffer together with its attribute layout object.
type VertexArray struct {
	VAO uint32
	VBO uint32
}

// DepthTarget is a depth-only framebuffer and its sampled depth texture.
type DepthTarget struct {
	FBO     uint32
	Texture uint32
	Size    int32
}

// Device issues graphics commands.
type Device interface {
	CreateVertexArray(data []float32, layout Layout) (VertexArray, error)
	DeleteVertexArray(va VertexArray)
	BindVertexArray(vao uint32)
	DrawTriangles(count int32)

	CreateTexture2D(img *texture.Image) (uint32, error)
	CreateCubeMap(faces [6]*texture.Image) (uint32, error)
	DeleteTexture(tex uint32)
	BindTexture2D(unit, tex uint32)
	BindCubeMap(unit, tex uint32)

	CreateDepthTarget(size int32) (DepthTarget, error)
	DeleteDepthTarget(target DepthTarget)
	BindFramebuffer(fbo uint32)
	Viewport(x, y, width, height int32)
	SetClearColor(r, g, b, a float32)
	Clear(mask ClearMask)
	SetDepthFunc(fn DepthFunc)

	CompileProgram(vertexSrc, fragmentSrc string) (uint32, error)
	DeleteProgram(program uint32)
	UseProgram(program uint32)
	UniformLocation(program uint32, name string) int32
	UniformMatrix4(loc int32, m mgl32.Mat4)
	Uniform3(loc int32, v mgl32.Vec3)
	Uniform1f(loc int32, v float32)
	Uniform1i(loc int32, v int32)

	// ReadPixels returns the default framebuffer as bottom-up RGBA rows.
	ReadPixels(width, height int32) []byte
	Flush()
}

// ResourceError reports a failed GPU resource creation.
type ResourceError struct {
	Op  string
	Err error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("gpu %s: %v", e.Op, e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}
