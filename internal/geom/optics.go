package geom

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// Reflect mirrors incident vector i about normal n: I - 2(N.I)N, matching
// both the spec's formula and the teacher's RayIntersect-era reflect
// convention (internal/renderer/raycasting.go) as well as the original
// Rust raytracer's Raytracing::reflect.
func Reflect(i, n mgl32.Vec3) mgl32.Vec3 {
	return i.Sub(n.Mul(2 * n.Dot(i)))
}

// Fresnel computes the Schlick-style exact dielectric reflectance for an
// incident direction, surface normal and refraction index, grounded on the
// original raytracer's Raytracing::fresnel. Returns 1 on total internal
// reflection, else the average of the parallel/perpendicular coefficients.
func Fresnel(incident, normal mgl32.Vec3, index float32) float32 {
	iDotN := incident.Dot(normal)

	etaI := float32(1.0)
	etaT := index

	if iDotN > 0 {
		etaI, etaT = etaT, etaI
	}

	sinT := etaI / etaT * float32(math.Sqrt(math.Max(0, float64(1-iDotN*iDotN))))
	if sinT > 1 {
		return 1
	}

	cosT := float32(math.Sqrt(math.Max(0, float64(1-sinT*sinT))))
	cosI := float32(math.Abs(float64(iDotN)))

	rs := ((etaT * cosI) - (etaI * cosT)) / ((etaT * cosI) + (etaI * cosT))
	rp := ((etaI * cosI) - (etaT * cosT)) / ((etaI * cosI) + (etaT * cosT))

	return (rs*rs + rp*rp) / 2
}

// Refract computes the transmitted ray direction for an incident direction
// crossing a surface with the given normal and refraction index, using
// Snell's law. ok is false on total internal reflection. Mirrors the
// original raytracer's Raytracing::create_transmission, minus the ray-origin
// bias (callers apply SHADOW_BIAS themselves).
func Refract(incident, normal mgl32.Vec3, index float32) (dir mgl32.Vec3, refN mgl32.Vec3, ok bool) {
	refN = normal
	etaT := index
	etaI := float32(1.0)
	iDotN := incident.Dot(normal)

	if iDotN < 0 {
		iDotN = -iDotN
	} else {
		refN = normal.Mul(-1)
		etaT = 1.0
		etaI = index
	}

	eta := etaI / etaT
	k := 1 - (eta*eta)*(1-iDotN*iDotN)
	if k < 0 {
		return mgl32.Vec3{}, refN, false
	}

	dir = incident.Add(refN.Mul(iDotN)).Mul(eta).Sub(refN.Mul(float32(math.Sqrt(float64(k)))))
	return dir, refN, true
}

// Jitter samples a direction from a spherical cap of half-angle spread*pi
// around dir, following spec.md §4.5's construction: an orthonormal basis
// with b3=normalize(dir), b1 built from a world-axis heuristic, b2=b1xb3,
// then a cosine-weighted-by-cap sample. Grounded on the original raytracer's
// Raytracing::jitter. spread<=0 returns dir unchanged.
func Jitter(dir mgl32.Vec3, spread float32, rng *rand.Rand) mgl32.Vec3 {
	if spread <= 0 {
		return dir
	}

	b3 := dir.Normalize()

	var u mgl32.Vec3
	if math.Abs(float64(b3.X())) < 0.5 {
		u = mgl32.Vec3{1, 0, 0}
	} else {
		u = mgl32.Vec3{0, 1, 0}
	}

	b1 := b3.Cross(u).Normalize()
	b2 := b1.Cross(b3)

	cosCap := float32(math.Cos(float64(spread) * math.Pi))
	z := cosCap + rng.Float32()*(1-cosCap)
	r := float32(math.Sqrt(math.Max(0, float64(1-z*z))))
	theta := (rng.Float32()*2 - 1) * math.Pi

	x := r * float32(math.Cos(theta))
	y := r * float32(math.Sin(theta))

	newDir := b1.Mul(x).Add(b2.Mul(y)).Add(b3.Mul(z))
	return newDir.Normalize()
}
