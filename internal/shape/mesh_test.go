package shape

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"goray/internal/geom"
)

func singleTriangleMesh() *Mesh {
	positions := []mgl32.Vec3{
		{-1, -1, 0},
		{1, -1, 0},
		{0, 1, 0},
	}
	indices := [][3]uint32{{0, 1, 2}}
	m := NewMesh(1, "tri", positions, indices)
	m.UVs = []mgl32.Vec2{{0, 0}, {1, 0}, {0.5, 1}}
	m.UVIndices = [][3]uint32{{0, 1, 2}}
	return m
}

func TestMeshIntersectHitsCenterOfTriangle(t *testing.T) {
	m := singleTriangleMesh()
	r := geom.Ray{Origin: mgl32.Vec3{0, -0.3, -5}, Dir: mgl32.Vec3{0, 0, 1}}

	dist, normal, faceID, ok := m.Intersect(r, false)
	if !ok {
		t.Fatal("expected hit on triangle")
	}
	if faceID != 0 {
		t.Errorf("expected face id 0, got %d", faceID)
	}
	if math.Abs(float64(dist-5)) > 1e-4 {
		t.Errorf("expected t~5, got %f", dist)
	}
	if normal.Dot(mgl32.Vec3{0, 0, -1}) <= 0 {
		t.Errorf("expected normal facing the ray origin, got %v", normal)
	}
}

func TestMeshIntersectMissesOutsideTriangle(t *testing.T) {
	m := singleTriangleMesh()
	r := geom.Ray{Origin: mgl32.Vec3{5, 5, -5}, Dir: mgl32.Vec3{0, 0, 1}}

	if _, _, _, ok := m.Intersect(r, false); ok {
		t.Error("expected miss for ray outside triangle bounds")
	}
}

func TestMeshBackfaceCulling(t *testing.T) {
	m := singleTriangleMesh()
	m.Material().BackfaceCulling = true

	// Ray approaching from behind the triangle: from -z, where its winding
	// appears clockwise and its geometric normal (+z) points along the ray.
	r := geom.Ray{Origin: mgl32.Vec3{0, -0.3, -5}, Dir: mgl32.Vec3{0, 0, 1}}
	if _, _, _, ok := m.Intersect(r, false); ok {
		t.Error("backface culling should reject a hit from behind the triangle")
	}
}

func TestMeshUVBarycentricInterpolation(t *testing.T) {
	m := singleTriangleMesh()
	r := geom.Ray{Origin: mgl32.Vec3{-1, -1, -5}, Dir: mgl32.Vec3{0, 0, 1}}

	dist, _, faceID, ok := m.Intersect(r, false)
	if !ok {
		t.Fatal("expected hit at first vertex corner")
	}
	hit := r.At(dist)
	u, v := m.UV(hit, faceID)

	if math.Abs(float64(u)) > 0.05 {
		t.Errorf("expected u~0 near first vertex, got %f", u)
	}
	if math.Abs(float64(v)) > 0.05 {
		t.Errorf("expected v~0 (negated from UV 0) near first vertex, got %f", v)
	}
}
