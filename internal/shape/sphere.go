package shape

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"goray/internal/geom"
	"goray/internal/material"
)

// Sphere is a unit-centered analytic sphere of radius Radius in local
// space, transformed into the scene by ShapeBasics.Transform, per spec.md
// §3/§4.1.
type Sphere struct {
	basic  ShapeBasics
	Radius float32
}

// NewSphere constructs a sphere at the scene origin in local space with the
// given radius; positioning is done via Basics().SetTransform.
func NewSphere(id uint32, name string, radius float32) *Sphere {
	s := &Sphere{
		basic:  NewShapeBasics(id, name),
		Radius: radius,
	}
	r := mgl32.Vec3{radius, radius, radius}
	s.basic.LocalBBox = geom.AABB{Min: r.Mul(-1), Max: r}
	return s
}

func (s *Sphere) Basics() *ShapeBasics        { return &s.basic }
func (s *Sphere) Material() *material.Material { return &s.basic.Mat }

func (s *Sphere) BBox() geom.AABB {
	return WorldBBox(s.basic.LocalBBox, s.basic.Transform)
}

// intersectLocal solves |O + tD - C|^2 = r^2 for the sphere centered at the
// local-space origin, per spec.md §4.1.
func (s *Sphere) intersectLocal(r geom.Ray) (t float32, ok bool) {
	oc := r.Origin // center is local origin
	a := r.Dir.Dot(r.Dir)
	b := 2 * oc.Dot(r.Dir)
	c := oc.Dot(oc) - s.Radius*s.Radius

	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}

	sqrtDisc := float32(math.Sqrt(float64(disc)))
	t0 := (-b - sqrtDisc) / (2 * a)
	t1 := (-b + sqrtDisc) / (2 * a)

	if t0 > t1 {
		t0, t1 = t1, t0
	}
	if t0 > 0 {
		return t0, true
	}
	if t1 > 0 {
		return t1, true
	}
	return 0, false
}

func (s *Sphere) IntersectBBox(r geom.Ray, forceNotSolid bool) (float32, bool) {
	local := s.basic.InverseRay(r)
	return s.basic.LocalBBox.IntersectRay(local, !forceNotSolid)
}

func (s *Sphere) Intersect(r geom.Ray, forceNotSolid bool) (t float32, normal mgl32.Vec3, faceID uint32, ok bool) {
	local := s.basic.InverseRay(r)
	lt, hit := s.intersectLocal(local)
	if !hit {
		return 0, mgl32.Vec3{}, 0, false
	}

	localHit := local.At(lt)
	localNormal := localHit.Mul(1 / s.Radius)

	worldHit := s.basic.Transform.Mul4x1(localHit.Vec4(1)).Vec3()
	worldNormal := s.basic.InverseTrans.Transpose().Mul4x1(localNormal.Vec4(0)).Vec3().Normalize()

	worldT := worldHit.Sub(r.Origin).Len()
	if r.Dir.Dot(worldHit.Sub(r.Origin)) < 0 {
		worldT = -worldT
	}

	return worldT, worldNormal, 0, true
}

// UV computes the spherical UV mapping described in spec.md §4.1:
// u = 0.5 + atan2(n.z, n.x)/(2*pi), v = 0.5 - asin(n.y)/pi.
func (s *Sphere) UV(hit mgl32.Vec3, faceID uint32) (float32, float32) {
	local := s.basic.InverseTrans.Mul4x1(hit.Vec4(1)).Vec3()
	n := local.Mul(1 / s.Radius)

	u := float32(0.5) + float32(math.Atan2(float64(n.Z()), float64(n.X())))/(2*math.Pi)
	v := float32(0.5) - float32(math.Asin(clampAsin(n.Y())))/math.Pi
	return u, v
}

func clampAsin(v float32) float64 {
	f := float64(v)
	if f > 1 {
		f = 1
	}
	if f < -1 {
		f = -1
	}
	return f
}
