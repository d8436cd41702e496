package shader

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/shadowbox/internal/engine/gpu"
)

type slot struct {
	tag   Uniform
	index int
}

// Program is a linked shader program with a cache of uniform locations.
//
// Locations are resolved once at setup with CacheSingle/CacheMulti and
// read back every frame with FetchSingle/FetchMulti. A location of -1
// means the program does not declare the uniform; setters skip it.
// Fetching a slot that was never cached is a setup bug and panics.
type Program struct {
	Name string

	dev    gpu.Device
	id     uint32
	single map[Uniform]int32
	multi  map[slot]int32
}

// NewProgram compiles and links src.
func NewProgram(dev gpu.Device, src Source) (*Program, error) {
	id, err := dev.CompileProgram(src.Vertex, src.Fragment)
	if err != nil {
		return nil, fmt.Errorf("program %s: %w", src.Name, err)
	}
	return &Program{
		Name:   src.Name,
		dev:    dev,
		id:     id,
		single: make(map[Uniform]int32),
		multi:  make(map[slot]int32),
	}, nil
}

// ID returns the GPU program handle.
func (p *Program) ID() uint32 {
	return p.id
}

// Use makes this the active program.
func (p *Program) Use() {
	p.dev.UseProgram(p.id)
}

// Location queries the GPU directly. Use only at setup time.
func (p *Program) Location(name string) int32 {
	return p.dev.UniformLocation(p.id, name)
}

// CacheSingle resolves name and stores it under tag.
func (p *Program) CacheSingle(tag Uniform, name string) int32 {
	loc := p.Location(name)
	p.single[tag] = loc
	return loc
}

// CacheMulti resolves one element of an array uniform. template holds a
// single %d that is replaced by index, e.g. "Lights[%d].color".
func (p *Program) CacheMulti(tag Uniform, template string, index int) int32 {
	loc := p.Location(fmt.Sprintf(template, index))
	p.multi[slot{tag, index}] = loc
	return loc
}

// FetchSingle returns the cached location for tag.
func (p *Program) FetchSingle(tag Uniform) int32 {
	loc, ok := p.single[tag]
	if !ok {
		panic(fmt.Sprintf("shader %s: uniform %s was never cached", p.Name, tag))
	}
	return loc
}

// FetchMulti returns the cached location for element index of tag.
func (p *Program) FetchMulti(tag Uniform, index int) int32 {
	loc, ok := p.multi[slot{tag, index}]
	if !ok {
		panic(fmt.Sprintf("shader %s: uniform %s[%d] was never cached", p.Name, tag, index))
	}
	return loc
}

// Cached reports whether tag has a cached location, -1 included.
func (p *Program) Cached(tag Uniform) bool {
	_, ok := p.single[tag]
	return ok
}

func (p *Program) SetMat4(tag Uniform, m mgl32.Mat4) {
	if loc := p.FetchSingle(tag); loc != -1 {
		p.dev.UniformMatrix4(loc, m)
	}
}

func (p *Program) SetVec3(tag Uniform, v mgl32.Vec3) {
	if loc := p.FetchSingle(tag); loc != -1 {
		p.dev.Uniform3(loc, v)
	}
}

func (p *Program) SetInt(tag Uniform, v int32) {
	if loc := p.FetchSingle(tag); loc != -1 {
		p.dev.Uniform1i(loc, v)
	}
}

func (p *Program) SetBool(tag Uniform, v bool) {
	var i int32
	if v {
		i = 1
	}
	p.SetInt(tag, i)
}

func (p *Program) SetVec3At(tag Uniform, index int, v mgl32.Vec3) {
	if loc := p.FetchMulti(tag, index); loc != -1 {
		p.dev.Uniform3(loc, v)
	}
}

func (p *Program) SetFloatAt(tag Uniform, index int, v float32) {
	if loc := p.FetchMulti(tag, index); loc != -1 {
		p.dev.Uniform1f(loc, v)
	}
}

// Destroy deletes the program and forgets every cached location.
func (p *Program) Destroy() {
	if p.id == 0 {
		return
	}
	p.dev.DeleteProgram(p.id)
	p.id = 0
	clear(p.single)
	clear(p.multi)
}
