package scene

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/shadowbox/internal/engine/camera"
)

// Scene owns every entity, the lights and the player camera.
type Scene struct {
	Entities map[EntityType][]Entity
	Lights   []*PointLight
	Player   *camera.FirstPerson
}

// New creates an empty scene with the player at the origin.
func New() *Scene {
	return &Scene{
		Entities: make(map[EntityType][]Entity),
		Player:   camera.NewFirstPerson(mgl32.Vec3{}),
	}
}

// Default builds the demo layout: the model, a medkit and seven lights.
func Default() *Scene {
	s := New()
	s.Add(TypeCube, NewCube(mgl32.Vec3{4, 0, 0}, mgl32.Vec3{90, 0, -90}))
	s.Add(TypeMedkit, NewBillboard(mgl32.Vec3{3, 0, -0.5}))

	white := mgl32.Vec3{1, 1, 1}
	s.Lights = []*PointLight{
		NewPointLight(mgl32.Vec3{1, 1, 1}, white, 2),
		NewPointLight(mgl32.Vec3{-10, 30, 10}, white, 8),
		NewPointLight(mgl32.Vec3{-10, 27, 10}, white, 8),
		NewPointLight(mgl32.Vec3{-10, 33, 10}, white, 8),
		NewPointLight(mgl32.Vec3{-14, 30, 10}, white, 8),
		NewPointLight(mgl32.Vec3{-14, 27, 10}, white, 8),
		NewPointLight(mgl32.Vec3{-14, 33, 10}, white, 8),
	}
	return s
}

// Add places an entity of the given type.
func (s *Scene) Add(t EntityType, e Entity) {
	s.Entities[t] = append(s.Entities[t], e)
}

// Types returns the entity types present, in ascending order.
func (s *Scene) Types() []EntityType {
	types := make([]EntityType, 0, len(s.Entities))
	for t := range s.Entities {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Update advances every entity and light by dt frames.
func (s *Scene) Update(dt float32) {
	pos := s.Player.Position()
	for _, entities := range s.Entities {
		for _, e := range entities {
			e.Update(dt, pos)
		}
	}
	for _, l := range s.Lights {
		l.Update(dt, pos)
	}
	s.Player.Update()
}

// MovePlayer moves the camera by d in (forwards, right, up).
func (s *Scene) MovePlayer(d mgl32.Vec3) {
	s.Player.Move(d)
}

// SpinPlayer rotates the camera by d degrees about (x, y, z).
func (s *Scene) SpinPlayer(d mgl32.Vec3) {
	s.Player.Spin(d)
}
