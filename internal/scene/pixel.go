package scene

import "github.com/go-gl/mathgl/mgl32"

// PixelData is one finished pixel, per spec.md §3, carried from integrator
// to scheduler to orchestrator.
type PixelData struct {
	X, Y int

	R, G, B uint8

	Normal   mgl32.Vec3
	Depth    float32
	ObjectID uint32
}
