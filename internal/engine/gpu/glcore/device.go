// Package glcore implements gpu.Device on the OpenGL 4.1 core profile.
package glcore

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/shadowbox/internal/engine/gpu"
	"github.com/Faultbox/shadowbox/internal/engine/texture"
	"github.com/Faultbox/shadowbox/internal/logger"
)

var (
	errEmptyImage            = errors.New("empty image")
	errIncompleteFramebuffer = errors.New("framebuffer incomplete")
)

// Device issues commands to the current OpenGL context.
type Device struct{}

// New loads GL function pointers and sets the global state the engine relies on.
// A GL context must be current on the calling thread.
func New() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("init OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	return &Device{}, nil
}

func (d *Device) CreateVertexArray(data []float32, layout gpu.Layout) (gpu.VertexArray, error) {
	if len(data) == 0 {
		return gpu.VertexArray{}, &gpu.ResourceError{Op: "create vertex array", Err: errors.New("no vertex data")}
	}

	var va gpu.VertexArray
	gl.GenVertexArrays(1, &va.VAO)
	gl.BindVertexArray(va.VAO)

	gl.GenBuffers(1, &va.VBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, va.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)

	for _, a := range layout.Attributes {
		gl.EnableVertexAttribArray(a.Index)
		gl.VertexAttribPointerWithOffset(a.Index, a.Size, gl.FLOAT, false, layout.Stride, uintptr(a.Offset))
	}

	gl.BindVertexArray(0)
	return va, nil
}

func (d *Device) DeleteVertexArray(va gpu.VertexArray) {
	if va.VBO != 0 {
		gl.DeleteBuffers(1, &va.VBO)
	}
	if va.VAO != 0 {
		gl.DeleteVertexArrays(1, &va.VAO)
	}
}

func (d *Device) BindVertexArray(vao uint32) {
	gl.BindVertexArray(vao)
}

func (d *Device) DrawTriangles(count int32) {
	gl.DrawArrays(gl.TRIANGLES, 0, count)
}

func (d *Device) CreateTexture2D(img *texture.Image) (uint32, error) {
	if img == nil || img.Width == 0 || img.Height == 0 {
		return 0, &gpu.ResourceError{Op: "create texture", Err: errEmptyImage}
	}

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	// RGB rows are not 4-byte aligned for odd widths.
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGB, int32(img.Width), int32(img.Height), 0,
		gl.RGB, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return tex, nil
}

func (d *Device) CreateCubeMap(faces [6]*texture.Image) (uint32, error) {
	for i, f := range faces {
		if f == nil || f.Width == 0 || f.Height == 0 {
			return 0, &gpu.ResourceError{Op: fmt.Sprintf("create cube map face %d", i), Err: errEmptyImage}
		}
	}

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, tex)

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	for i, f := range faces {
		gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(i), 0, gl.RGB,
			int32(f.Width), int32(f.Height), 0, gl.RGB, gl.UNSIGNED_BYTE, gl.Ptr(f.Pix))
	}

	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)

	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
	return tex, nil
}

func (d *Device) DeleteTexture(tex uint32) {
	if tex != 0 {
		gl.DeleteTextures(1, &tex)
	}
}

func (d *Device) BindTexture2D(unit, tex uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, tex)
}

func (d *Device) BindCubeMap(unit, tex uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, tex)
}

// CreateDepthTarget allocates a depth-only framebuffer sampled as a plain
// depth texture. Samples outside the light frustum read 1.0 (lit).
func (d *Device) CreateDepthTarget(size int32) (gpu.DepthTarget, error) {
	t := gpu.DepthTarget{Size: size}

	gl.GenFramebuffers(1, &t.FBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.FBO)

	gl.GenTextures(1, &t.Texture)
	gl.BindTexture(gl.TEXTURE_2D, t.Texture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT, size, size, 0,
		gl.DEPTH_COMPONENT, gl.FLOAT, nil)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
	borderColor := []float32{1.0, 1.0, 1.0, 1.0}
	gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &borderColor[0])

	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, t.Texture, 0)

	// No color buffer
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if status != gl.FRAMEBUFFER_COMPLETE {
		d.DeleteDepthTarget(t)
		return gpu.DepthTarget{}, &gpu.ResourceError{
			Op:  "create depth target",
			Err: fmt.Errorf("%w: status 0x%x", errIncompleteFramebuffer, status),
		}
	}
	return t, nil
}

func (d *Device) DeleteDepthTarget(t gpu.DepthTarget) {
	if t.FBO != 0 {
		gl.DeleteFramebuffers(1, &t.FBO)
	}
	if t.Texture != 0 {
		gl.DeleteTextures(1, &t.Texture)
	}
}

func (d *Device) BindFramebuffer(fbo uint32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
}

func (d *Device) Viewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}

func (d *Device) SetClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (d *Device) Clear(mask gpu.ClearMask) {
	var bits uint32
	if mask&gpu.ClearColor != 0 {
		bits |= gl.COLOR_BUFFER_BIT
	}
	if mask&gpu.ClearDepth != 0 {
		bits |= gl.DEPTH_BUFFER_BIT
	}
	gl.Clear(bits)
}

func (d *Device) SetDepthFunc(fn gpu.DepthFunc) {
	switch fn {
	case gpu.DepthLessEqual:
		gl.DepthFunc(gl.LEQUAL)
	default:
		gl.DepthFunc(gl.LESS)
	}
}

// CompileProgram compiles vertex and fragment shaders and links them into a program.
func (d *Device) CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, &gpu.ResourceError{Op: "compile program", Err: err}
	}
	defer gl.DeleteShader(vertShader)

	fragShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, &gpu.ResourceError{Op: "compile program", Err: err}
	}
	defer gl.DeleteShader(fragShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertShader)
	gl.AttachShader(program, fragShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetProgramInfoLog(program, logLen, nil, &log[0])
		gl.DeleteProgram(program)
		return 0, &gpu.ResourceError{Op: "link program", Err: errors.New(gl.GoStr(&log[0]))}
	}

	return program, nil
}

func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", name, gl.GoStr(&log[0]))
	}

	return shader, nil
}

func (d *Device) DeleteProgram(program uint32) {
	if program != 0 {
		gl.DeleteProgram(program)
	}
}

func (d *Device) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (d *Device) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (d *Device) UniformMatrix4(loc int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(loc, 1, false, &m[0])
}

func (d *Device) Uniform3(loc int32, v mgl32.Vec3) {
	gl.Uniform3fv(loc, 1, &v[0])
}

func (d *Device) Uniform1f(loc int32, v float32) {
	gl.Uniform1f(loc, v)
}

func (d *Device) Uniform1i(loc int32, v int32) {
	gl.Uniform1i(loc, v)
}

func (d *Device) ReadPixels(width, height int32) []byte {
	pixels := make([]byte, width*height*4)
	gl.ReadPixels(0, 0, width, height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}

func (d *Device) Flush() {
	gl.Flush()
}

var _ gpu.Device = (*Device)(nil)
