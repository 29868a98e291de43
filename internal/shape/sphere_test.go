package shape

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"goray/internal/geom"
)

func TestSphereIntersectThroughCenter(t *testing.T) {
	s := NewSphere(1, "s", 2)
	s.Basics().SetTransform(mgl32.Translate3D(0, 0, 0))

	origin := mgl32.Vec3{0, 0, -10}
	r := geom.Ray{Origin: origin, Dir: mgl32.Vec3{0, 0, 1}}

	dist, normal, _, ok := s.Intersect(r, false)
	if !ok {
		t.Fatal("expected hit")
	}

	want := origin.Len() - s.Radius
	if math.Abs(float64(dist-want)) > 1e-4 {
		t.Errorf("expected t=%f, got %f", want, dist)
	}

	hit := r.At(dist)
	wantNormal := hit.Normalize()
	if math.Abs(float64(normal.Dot(wantNormal))-1) > 1e-4 {
		t.Errorf("expected normal %v, got %v", wantNormal, normal)
	}
}

func TestSphereIntersectMiss(t *testing.T) {
	s := NewSphere(1, "s", 1)
	r := geom.Ray{Origin: mgl32.Vec3{0, 5, -10}, Dir: mgl32.Vec3{0, 0, 1}}

	if _, _, _, ok := s.Intersect(r, false); ok {
		t.Error("expected miss for ray passing above the sphere")
	}
}

func TestSphereUVPolesAreStable(t *testing.T) {
	s := NewSphere(1, "s", 1)
	_, v := s.UV(mgl32.Vec3{0, 1, 0}, 0)
	if math.Abs(float64(v)) > 1e-3 {
		t.Errorf("north pole should map to v~0, got %f", v)
	}
}

func TestSphereTransformedBBox(t *testing.T) {
	s := NewSphere(1, "s", 1)
	s.Basics().SetTransform(mgl32.Translate3D(5, 0, 0))

	box := s.BBox()
	if box.Centroid().X() != 5 {
		t.Errorf("expected bbox centroid at x=5, got %v", box.Centroid())
	}
}
