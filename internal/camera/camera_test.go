package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestInitBuildsInvertibleMatrices(t *testing.T) {
	c := Init(800, 600, mgl32.DegToRad(60), mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}, 0.1, 1000)

	if c.Projection.At(3, 3) != 0 {
		t.Error("perspective projection should have w row (3,3)=0")
	}

	roundtrip := c.Projection.Mul4(c.InvProjection)
	ident := mgl32.Ident4()
	for i := 0; i < 16; i++ {
		if math.Abs(float64(roundtrip[i]-ident[i])) > 1e-3 {
			t.Fatalf("projection * projection^-1 should be identity, got %v", roundtrip)
		}
	}
}

func TestRayForPixelCenterMatchesForward(t *testing.T) {
	c := Init(100, 100, mgl32.DegToRad(90), mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}, 0.1, 100)

	r := c.RayForPixel(49, 49, 0, 0)

	if r.Dir.Dot(mgl32.Vec3{0, 0, -1}) <= 0 {
		t.Errorf("ray through near-center pixel should point roughly forward, got dir=%v", r.Dir)
	}
	if math.Abs(float64(r.Dir.Len()-1)) > 1e-4 {
		t.Errorf("ray direction should be normalized, got len=%f", r.Dir.Len())
	}
}

func TestRayForPixelRoundtripsThroughViewProjection(t *testing.T) {
	c := Init(64, 64, mgl32.DegToRad(70), mgl32.Vec3{1, 2, 3}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}, 0.1, 500)

	x, y := 10, 20
	r := c.RayForPixel(x, y, 0, 0)

	pointOnNear := r.Origin.Add(r.Dir.Mul(c.Near * 2))
	clip := c.Projection.Mul4(c.View).Mul4x1(pointOnNear.Vec4(1))
	ndc := clip.Vec3().Mul(1 / clip.W())

	expectedSX := (float32(x)+0.5)/float32(c.Width)*2 - 1
	expectedSY := 1 - (float32(y)+0.5)/float32(c.Height)*2

	if math.Abs(float64(ndc.X()-expectedSX)) > 0.05 {
		t.Errorf("reprojected NDC x = %f, want near %f", ndc.X(), expectedSX)
	}
	if math.Abs(float64(ndc.Y()-expectedSY)) > 0.05 {
		t.Errorf("reprojected NDC y = %f, want near %f", ndc.Y(), expectedSY)
	}
}
