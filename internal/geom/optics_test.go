package geom

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestReflectMirrorsAboutNormal(t *testing.T) {
	i := mgl32.Vec3{1, -1, 0}.Normalize()
	n := mgl32.Vec3{0, 1, 0}
	r := Reflect(i, n)

	if math.Abs(float64(r.X()-i.X())) > 1e-5 {
		t.Errorf("tangential component should be preserved, got %v", r)
	}
	if r.Y() <= 0 {
		t.Errorf("normal component should flip sign, got %v", r)
	}
}

func TestFresnelBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	normal := mgl32.Vec3{0, 1, 0}

	for i := 0; i < 200; i++ {
		incident := mgl32.Vec3{rng.Float32()*2 - 1, -rng.Float32(), rng.Float32()*2 - 1}.Normalize()
		index := 1.0 + rng.Float32()*2

		kr := Fresnel(incident, normal, index)
		if kr < 0 || kr > 1 {
			t.Fatalf("fresnel out of [0,1] range: %f (incident=%v index=%f)", kr, incident, index)
		}
	}
}

func TestFresnelTotalInternalReflection(t *testing.T) {
	// Steep grazing angle from inside a denser medium triggers TIR.
	normal := mgl32.Vec3{0, 1, 0}
	incident := mgl32.Vec3{0.999, 0.01, 0}.Normalize()
	kr := Fresnel(incident, normal, 1.5)
	if kr != 1 {
		t.Errorf("expected kr=1 on total internal reflection, got %f", kr)
	}
}

func TestRefractNormalIncidenceIsUndeviated(t *testing.T) {
	normal := mgl32.Vec3{0, 1, 0}
	incident := mgl32.Vec3{0, -1, 0}

	dir, _, ok := Refract(incident, normal, 1.5)
	if !ok {
		t.Fatal("refraction at normal incidence should not TIR")
	}
	if math.Abs(float64(dir.Normalize().Dot(incident))-1) > 1e-4 {
		t.Errorf("ray at normal incidence should pass through undeviated, got dir=%v", dir)
	}
}

func TestJitterZeroSpreadReturnsInput(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	dir := mgl32.Vec3{0, 0, -1}
	out := Jitter(dir, 0, rng)
	if out != dir {
		t.Errorf("zero spread should return dir unchanged, got %v", out)
	}
}

func TestJitterStaysWithinCap(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	dir := mgl32.Vec3{0, 0, -1}
	spread := float32(0.1)
	cosCap := float32(math.Cos(float64(spread) * math.Pi))

	for i := 0; i < 100; i++ {
		out := Jitter(dir, spread, rng)
		if out.Dot(dir) < cosCap-1e-4 {
			t.Fatalf("jittered direction %v fell outside cap (dot=%f, cosCap=%f)", out, out.Dot(dir), cosCap)
		}
	}
}
