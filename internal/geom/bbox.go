package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// AABB is an axis-aligned bounding box. An invalid (empty) box has Min > Max
// on every axis, matching the "invalid AABB" convention used by the original
// ray tracer's bounding-volume code.
type AABB struct {
	Min, Max mgl32.Vec3
}

// Invalid returns an AABB that contains nothing; Union with any real box
// yields that box unchanged.
func Invalid() AABB {
	inf := float32(math.MaxFloat32)
	return AABB{Min: mgl32.Vec3{inf, inf, inf}, Max: mgl32.Vec3{-inf, -inf, -inf}}
}

// FromPoints builds the tightest AABB containing every given point.
func FromPoints(pts []mgl32.Vec3) AABB {
	box := Invalid()
	for _, p := range pts {
		box = box.ExpandPoint(p)
	}
	return box
}

// ExpandPoint returns the box grown (if needed) to contain p.
func (b AABB) ExpandPoint(p mgl32.Vec3) AABB {
	return AABB{
		Min: mgl32.Vec3{fmin(b.Min.X(), p.X()), fmin(b.Min.Y(), p.Y()), fmin(b.Min.Z(), p.Z())},
		Max: mgl32.Vec3{fmax(b.Max.X(), p.X()), fmax(b.Max.Y(), p.Y()), fmax(b.Max.Z(), p.Z())},
	}
}

// Union returns the smallest AABB containing both b and o.
func (b AABB) Union(o AABB) AABB {
	return AABB{
		Min: mgl32.Vec3{fmin(b.Min.X(), o.Min.X()), fmin(b.Min.Y(), o.Min.Y()), fmin(b.Min.Z(), o.Min.Z())},
		Max: mgl32.Vec3{fmax(b.Max.X(), o.Max.X()), fmax(b.Max.Y(), o.Max.Y()), fmax(b.Max.Z(), o.Max.Z())},
	}
}

// Corners returns the 8 corners of the box, used to re-derive a world-space
// bbox from a local one under an arbitrary transform (spec: "use the 8
// corners").
func (b AABB) Corners() [8]mgl32.Vec3 {
	return [8]mgl32.Vec3{
		{b.Min.X(), b.Min.Y(), b.Min.Z()},
		{b.Max.X(), b.Min.Y(), b.Min.Z()},
		{b.Min.X(), b.Max.Y(), b.Min.Z()},
		{b.Max.X(), b.Max.Y(), b.Min.Z()},
		{b.Min.X(), b.Min.Y(), b.Max.Z()},
		{b.Max.X(), b.Min.Y(), b.Max.Z()},
		{b.Min.X(), b.Max.Y(), b.Max.Z()},
		{b.Max.X(), b.Max.Y(), b.Max.Z()},
	}
}

// Centroid returns the box's geometric center.
func (b AABB) Centroid() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// LongestAxis returns 0, 1 or 2 for X, Y, Z: the axis of greatest extent,
// used by the BVH's top-down median split.
func (b AABB) LongestAxis() int {
	ext := b.Max.Sub(b.Min)
	axis := 0
	best := ext.X()
	if ext.Y() > best {
		axis, best = 1, ext.Y()
	}
	if ext.Z() > best {
		axis = 2
	}
	return axis
}

// Axis returns the min/max of the box along the given axis (0=X,1=Y,2=Z).
func (b AABB) Axis(axis int) (min, max float32) {
	switch axis {
	case 0:
		return b.Min.X(), b.Max.X()
	case 1:
		return b.Min.Y(), b.Max.Y()
	default:
		return b.Min.Z(), b.Max.Z()
	}
}

// IntersectRay returns the near distance of intersection between ray and the
// box, or false if the ray misses it entirely. solid controls whether an
// origin inside the box counts as a hit at t=0 (force_not_solid in spec
// disables this for shadow rays against closed solids).
func (b AABB) IntersectRay(r Ray, solid bool) (float32, bool) {
	tmin := float32(0)
	tmax := float32(math.MaxFloat32)

	for axis := 0; axis < 3; axis++ {
		lo, hi := b.Axis(axis)
		var origin, dir float32
		switch axis {
		case 0:
			origin, dir = r.Origin.X(), r.Dir.X()
		case 1:
			origin, dir = r.Origin.Y(), r.Dir.Y()
		default:
			origin, dir = r.Origin.Z(), r.Dir.Z()
		}

		if dir == 0 {
			if origin < lo || origin > hi {
				return 0, false
			}
			continue
		}

		invD := 1.0 / dir
		t0 := (lo - origin) * invD
		t1 := (hi - origin) * invD
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tmin {
			tmin = t0
		}
		if t1 < tmax {
			tmax = t1
		}
		if tmax < tmin {
			return 0, false
		}
	}

	if tmin <= 0 {
		if !solid {
			return 0, false
		}
		if tmax < 0 {
			return 0, false
		}
		return 0, true
	}

	return tmin, true
}

func fmin(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func fmax(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
