// Package geom holds the affine 3D primitives shared across the raytracer:
// rays, axis-aligned bounding boxes, and the small vector/reflectance math
// the integrator and shape intersection routines both need. It continues the
// teacher's internal/renderer/raycasting.go, built on the same
// github.com/go-gl/mathgl/mgl32 vector types.
package geom

import "github.com/go-gl/mathgl/mgl32"

// Ray is an origin + direction in world (or, after an inverse transform,
// local shape) space. Direction is not required to be normalized by every
// producer; consumers that need it normalized do so explicitly.
type Ray struct {
	Origin mgl32.Vec3
	Dir    mgl32.Vec3
}

// At returns the point reached after traveling distance t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// Normalized returns a copy of r with a unit-length direction.
func (r Ray) Normalized() Ray {
	return Ray{Origin: r.Origin, Dir: r.Dir.Normalize()}
}
