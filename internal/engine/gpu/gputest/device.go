// Package gputest provides a recording gpu.Device for tests.
package gputest

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/shadowbox/internal/engine/gpu"
	"github.com/Faultbox/shadowbox/internal/engine/texture"
)

// ErrInjected is returned by operations configured to fail.
var ErrInjected = errors.New("injected failure")

// Call is one recorded device command.
type Call struct {
	Op   string
	Args []any
}

func (c Call) String() string {
	return fmt.Sprintf("%s%v", c.Op, c.Args)
}

// Device records every command and hands out increasing handles.
// Every uniform name resolves to a location unless listed in Missing.
type Device struct {
	Calls []Call

	// Missing lists uniform names reported as not declared (-1).
	Missing map[string]bool
	// FailTextures makes texture creation fail.
	FailTextures bool
	// FailVertexArraysAfter makes the Nth and later vertex array creations fail (0 = never).
	FailVertexArraysAfter int
	// FailCompile makes program compilation fail.
	FailCompile bool
	// FailDepthTargets makes shadow target creation fail.
	FailDepthTargets bool

	nextHandle   uint32
	vertexArrays int

	LiveVertexArrays map[uint32]bool
	LiveTextures     map[uint32]bool
	LiveFramebuffers map[uint32]bool
	LivePrograms     map[uint32]bool

	locations map[uint32]map[string]int32
	// Uniforms holds the last value uploaded per location.
	Uniforms map[int32]any

	// Lookups counts UniformLocation calls.
	Lookups int
}

// New creates an empty recording device.
func New() *Device {
	return &Device{
		Missing:          make(map[string]bool),
		LiveVertexArrays: make(map[uint32]bool),
		LiveTextures:     make(map[uint32]bool),
		LiveFramebuffers: make(map[uint32]bool),
		LivePrograms:     make(map[uint32]bool),
		locations:        make(map[uint32]map[string]int32),
		Uniforms:         make(map[int32]any),
	}
}

func (d *Device) record(op string, args ...any) {
	d.Calls = append(d.Calls, Call{Op: op, Args: args})
}

func (d *Device) handle() uint32 {
	d.nextHandle++
	return d.nextHandle
}

// Reset drops the recorded calls, keeping resource state.
func (d *Device) Reset() {
	d.Calls = nil
}

// Ops returns the recorded operation names in order.
func (d *Device) Ops() []string {
	ops := make([]string, len(d.Calls))
	for i, c := range d.Calls {
		ops[i] = c.Op
	}
	return ops
}

// Count returns how many times op was recorded.
func (d *Device) Count(op string) int {
	n := 0
	for _, c := range d.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Find returns the calls with the given op.
func (d *Device) Find(op string) []Call {
	var out []Call
	for _, c := range d.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Live returns the total number of unreleased resources.
func (d *Device) Live() int {
	return len(d.LiveVertexArrays) + len(d.LiveTextures) + len(d.LiveFramebuffers) + len(d.LivePrograms)
}

// Location returns the location handed out for name in program, or -1.
func (d *Device) Location(program uint32, name string) int32 {
	if locs, ok := d.locations[program]; ok {
		if loc, ok := locs[name]; ok {
			return loc
		}
	}
	return -1
}

func (d *Device) CreateVertexArray(data []float32, layout gpu.Layout) (gpu.VertexArray, error) {
	d.vertexArrays++
	if d.FailVertexArraysAfter > 0 && d.vertexArrays >= d.FailVertexArraysAfter {
		return gpu.VertexArray{}, &gpu.ResourceError{Op: "create vertex array", Err: ErrInjected}
	}
	va := gpu.VertexArray{VAO: d.handle(), VBO: d.handle()}
	d.LiveVertexArrays[va.VAO] = true
	d.record("CreateVertexArray", len(data), layout.Stride)
	return va, nil
}

func (d *Device) DeleteVertexArray(va gpu.VertexArray) {
	if !d.LiveVertexArrays[va.VAO] {
		panic(fmt.Sprintf("gputest: double delete of vertex array %d", va.VAO))
	}
	delete(d.LiveVertexArrays, va.VAO)
	d.record("DeleteVertexArray", va.VAO)
}

func (d *Device) BindVertexArray(vao uint32) { d.record("BindVertexArray", vao) }

func (d *Device) DrawTriangles(count int32) { d.record("DrawTriangles", count) }

func (d *Device) CreateTexture2D(img *texture.Image) (uint32, error) {
	if d.FailTextures {
		return 0, &gpu.ResourceError{Op: "create texture", Err: ErrInjected}
	}
	tex := d.handle()
	d.LiveTextures[tex] = true
	d.record("CreateTexture2D", img.Width, img.Height)
	return tex, nil
}

func (d *Device) CreateCubeMap(faces [6]*texture.Image) (uint32, error) {
	if d.FailTextures {
		return 0, &gpu.ResourceError{Op: "create cube map", Err: ErrInjected}
	}
	tex := d.handle()
	d.LiveTextures[tex] = true
	d.record("CreateCubeMap", tex)
	return tex, nil
}

func (d *Device) DeleteTexture(tex uint32) {
	if !d.LiveTextures[tex] {
		panic(fmt.Sprintf("gputest: double delete of texture %d", tex))
	}
	delete(d.LiveTextures, tex)
	d.record("DeleteTexture", tex)
}

func (d *Device) BindTexture2D(unit, tex uint32) { d.record("BindTexture2D", unit, tex) }

func (d *Device) BindCubeMap(unit, tex uint32) { d.record("BindCubeMap", unit, tex) }

func (d *Device) CreateDepthTarget(size int32) (gpu.DepthTarget, error) {
	if d.FailDepthTargets {
		return gpu.DepthTarget{}, &gpu.ResourceError{Op: "create depth target", Err: ErrInjected}
	}
	t := gpu.DepthTarget{FBO: d.handle(), Texture: d.handle(), Size: size}
	d.LiveFramebuffers[t.FBO] = true
	d.LiveTextures[t.Texture] = true
	d.record("CreateDepthTarget", size)
	return t, nil
}

func (d *Device) DeleteDepthTarget(t gpu.DepthTarget) {
	if !d.LiveFramebuffers[t.FBO] {
		panic(fmt.Sprintf("gputest: double delete of framebuffer %d", t.FBO))
	}
	delete(d.LiveFramebuffers, t.FBO)
	delete(d.LiveTextures, t.Texture)
	d.record("DeleteDepthTarget", t.FBO)
}

func (d *Device) BindFramebuffer(fbo uint32) { d.record("BindFramebuffer", fbo) }

func (d *Device) Viewport(x, y, width, height int32) { d.record("Viewport", x, y, width, height) }

func (d *Device) SetClearColor(r, g, b, a float32) { d.record("SetClearColor", r, g, b, a) }

func (d *Device) Clear(mask gpu.ClearMask) { d.record("Clear", mask) }

func (d *Device) SetDepthFunc(fn gpu.DepthFunc) { d.record("SetDepthFunc", fn) }

func (d *Device) CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	if d.FailCompile {
		return 0, &gpu.ResourceError{Op: "compile program", Err: ErrInjected}
	}
	p := d.handle()
	d.LivePrograms[p] = true
	d.locations[p] = make(map[string]int32)
	d.record("CompileProgram", p)
	return p, nil
}

func (d *Device) DeleteProgram(program uint32) {
	if !d.LivePrograms[program] {
		panic(fmt.Sprintf("gputest: double delete of program %d", program))
	}
	delete(d.LivePrograms, program)
	d.record("DeleteProgram", program)
}

func (d *Device) UseProgram(program uint32) { d.record("UseProgram", program) }

func (d *Device) UniformLocation(program uint32, name string) int32 {
	d.Lookups++
	if d.Missing[name] {
		return -1
	}
	locs, ok := d.locations[program]
	if !ok {
		return -1
	}
	if loc, ok := locs[name]; ok {
		return loc
	}
	loc := int32(program)*1000 + int32(len(locs))
	locs[name] = loc
	return loc
}

func (d *Device) UniformMatrix4(loc int32, m mgl32.Mat4) {
	d.Uniforms[loc] = m
	d.record("UniformMatrix4", loc)
}

func (d *Device) Uniform3(loc int32, v mgl32.Vec3) {
	d.Uniforms[loc] = v
	d.record("Uniform3", loc)
}

func (d *Device) Uniform1f(loc int32, v float32) {
	d.Uniforms[loc] = v
	d.record("Uniform1f", loc)
}

func (d *Device) Uniform1i(loc int32, v int32) {
	d.Uniforms[loc] = v
	d.record("Uniform1i", loc)
}

func (d *Device) ReadPixels(width, height int32) []byte {
	d.record("ReadPixels", width, height)
	return make([]byte, width*height*4)
}

func (d *Device) Flush() { d.record("Flush") }

var _ gpu.Device = (*Device)(nil)
