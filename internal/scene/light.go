package scene

import "github.com/go-gl/mathgl/mgl32"

// LightType tags the Light variant, per spec.md §3.
type LightType int

const (
	LightDirectional LightType = iota
	LightPoint
	LightSpot
)

// Light is a tagged-variant light source. Position applies to
// Point/Spot, Direction to Directional/Spot, MaxAngle (radians) to Spot
// only. Grounded on the original raytracer's scene.rs Light struct.
type Light struct {
	Type      LightType
	Position  mgl32.Vec3
	Direction mgl32.Vec3
	Color     mgl32.Vec3
	Intensity float32
	MaxAngle  float32 // radians, Spot only
	Enabled   bool
}

// NewDirectionalLight returns an enabled directional light.
func NewDirectionalLight(direction, color mgl32.Vec3, intensity float32) Light {
	return Light{Type: LightDirectional, Direction: direction.Normalize(), Color: color, Intensity: intensity, Enabled: true}
}

// NewPointLight returns an enabled point light.
func NewPointLight(position, color mgl32.Vec3, intensity float32) Light {
	return Light{Type: LightPoint, Position: position, Color: color, Intensity: intensity, Enabled: true}
}

// NewSpotLight returns an enabled spot light with the given cone half-angle.
func NewSpotLight(position, direction, color mgl32.Vec3, intensity, maxAngle float32) Light {
	return Light{Type: LightSpot, Position: position, Direction: direction.Normalize(), Color: color, Intensity: intensity, MaxAngle: maxAngle, Enabled: true}
}
