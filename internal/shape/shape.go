// Package shape implements the scene's primitive geometry: the analytic
// sphere and the indexed triangle mesh, behind a common Shape interface, per
// spec.md §3/§4.1. It continues the teacher's internal/renderer/model.go and
// raycasting.go, generalized from GPU draw calls to CPU ray intersection.
package shape

import (
	"github.com/go-gl/mathgl/mgl32"

	"goray/internal/geom"
	"goray/internal/material"
)

// Shape is the capability set every primitive variant (Sphere, Mesh) must
// provide. spec.md §9 notes a tagged variant or a vtable-per-shape are
// equally acceptable; an interface is the idiomatic Go rendering of the
// latter.
type Shape interface {
	Basics() *ShapeBasics
	Material() *material.Material

	// BBox returns the shape's current world-space bounding box.
	BBox() geom.AABB

	// IntersectBBox is the cheap bbox-only test the scene/BVH traversal uses
	// to build a distance-sorted candidate list before running full
	// intersection (spec.md §4.5 "trace").
	IntersectBBox(r geom.Ray, forceNotSolid bool) (dist float32, ok bool)

	// Intersect runs the full per-primitive test, returning the nearest
	// positive hit distance, geometric (or smooth-shaded) world normal, and
	// a shape-defined face id (0 for Sphere, triangle index for Mesh).
	Intersect(r geom.Ray, forceNotSolid bool) (t float32, normal mgl32.Vec3, faceID uint32, ok bool)

	// UV returns the texture coordinate at a world-space hit point on the
	// given face.
	UV(hit mgl32.Vec3, faceID uint32) (u, v float32)
}

// ShapeBasics is the data every Shape variant embeds, per spec.md §3.
type ShapeBasics struct {
	ID      uint32
	Name    string
	Visible bool

	Transform    mgl32.Mat4
	InverseTrans mgl32.Mat4
	InitialTrans mgl32.Mat4 // identity from NewShapeBasics; SetTransform and ApplyFrame neither update nor read it

	LocalBBox geom.AABB

	BVHNodeIndex int // -1 from NewShapeBasics; Scene.Build does not record the shape's BVH node here

	Mat material.Material
}

// NewShapeBasics returns a ShapeBasics with an identity transform and a
// default material, ready for a concrete shape constructor to fill in.
func NewShapeBasics(id uint32, name string) ShapeBasics {
	return ShapeBasics{
		ID:           id,
		Name:         name,
		Visible:      true,
		Transform:    mgl32.Ident4(),
		InverseTrans: mgl32.Ident4(),
		InitialTrans: mgl32.Ident4(),
		BVHNodeIndex: -1,
		Mat:          material.Default(),
	}
}

// SetTransform installs a new local->world transform and recomputes its
// inverse. It does not validate invertibility, and Scene.Build does not
// check for a singular transform either.
func (b *ShapeBasics) SetTransform(t mgl32.Mat4) {
	b.Transform = t
	b.InverseTrans = t.Inv()
}

// WorldBBox derives the world-space bounding box of a local-space box by
// transforming its 8 corners, per spec.md §4.1.
func WorldBBox(local geom.AABB, transform mgl32.Mat4) geom.AABB {
	box := geom.Invalid()
	for _, c := range local.Corners() {
		w := transform.Mul4x1(c.Vec4(1)).Vec3()
		box = box.ExpandPoint(w)
	}
	return box
}

// InverseRay transforms a world-space ray into the shape's local space.
func (b *ShapeBasics) InverseRay(r geom.Ray) geom.Ray {
	origin := b.InverseTrans.Mul4x1(r.Origin.Vec4(1)).Vec3()
	dir := b.InverseTrans.Mul4x1(r.Dir.Vec4(0)).Vec3()
	return geom.Ray{Origin: origin, Dir: dir}
}
