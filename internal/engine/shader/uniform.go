package shader

import "fmt"

// Uniform tags a uniform by meaning rather than by GLSL name.
type Uniform int

const (
	Model Uniform = iota
	View
	Projection
	CameraPos
	LightColor
	LightPos
	LightStrength
	Tint
	LightMatrix
	ShadowMap
	ShadowsEnabled
	ImageTexture
	LightCount
	SkyboxTexture
)

var uniformNames = [...]string{
	Model:          "model",
	View:           "view",
	Projection:     "projection",
	CameraPos:      "cameraPosition",
	LightColor:     "Lights[%d].color",
	LightPos:       "Lights[%d].position",
	LightStrength:  "Lights[%d].strength",
	Tint:           "tint",
	LightMatrix:    "lightSpaceMatrix",
	ShadowMap:      "shadowMap",
	ShadowsEnabled: "shadowsEnabled",
	ImageTexture:   "imageTexture",
	LightCount:     "lightCount",
	SkyboxTexture:  "skyboxTexture",
}

// Name returns the GLSL name used by the bundled shaders. Array uniforms
// return a template with a %d placeholder for the index.
func (u Uniform) Name() string {
	if u < 0 || int(u) >= len(uniformNames) {
		return ""
	}
	return uniformNames[u]
}

func (u Uniform) String() string {
	if n := u.Name(); n != "" {
		return n
	}
	return fmt.Sprintf("Uniform(%d)", int(u))
}
