package geom

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestIntersectRayHitsCenteredBox(t *testing.T) {
	box := AABB{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}}
	r := Ray{Origin: mgl32.Vec3{0, 0, -5}, Dir: mgl32.Vec3{0, 0, 1}}

	dist, ok := box.IntersectRay(r, true)
	if !ok {
		t.Fatal("expected hit")
	}
	if dist != 4 {
		t.Errorf("expected near distance 4, got %f", dist)
	}
}

func TestIntersectRayMissesBox(t *testing.T) {
	box := AABB{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}}
	r := Ray{Origin: mgl32.Vec3{10, 10, -5}, Dir: mgl32.Vec3{0, 0, 1}}

	if _, ok := box.IntersectRay(r, true); ok {
		t.Error("expected miss for ray offset from box")
	}
}

func TestIntersectRaySolidVsNotSolidFromInside(t *testing.T) {
	box := AABB{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}}
	r := Ray{Origin: mgl32.Vec3{0, 0, 0}, Dir: mgl32.Vec3{0, 0, 1}}

	if _, ok := box.IntersectRay(r, true); !ok {
		t.Error("solid box should report a hit when the ray origin is inside")
	}
	if _, ok := box.IntersectRay(r, false); ok {
		t.Error("non-solid box should not report a hit from the inside")
	}
}

func TestLongestAxis(t *testing.T) {
	box := AABB{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{10, 1, 2}}
	if axis := box.LongestAxis(); axis != 0 {
		t.Errorf("expected longest axis 0 (X), got %d", axis)
	}
}

func TestUnionContainsBoth(t *testing.T) {
	a := AABB{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{1, 1, 1}}
	b := AABB{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{0.5, 0.5, 0.5}}
	u := a.Union(b)

	if u.Min != (mgl32.Vec3{-1, -1, -1}) || u.Max != (mgl32.Vec3{1, 1, 1}) {
		t.Errorf("unexpected union bounds: %v", u)
	}
}
