// Package integrator implements the primary-ray sampling loop and the
// recursive shading integrator described in spec.md §4.5. It continues the
// teacher's internal/renderer/raycasting.go intersection primitives, driven
// instead by a full recursive trace_radiance integrator rather than a single
// bounding-sphere pick test.
package integrator

import (
	"math"
	"math/rand"
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"goray/internal/camera"
	"goray/internal/geom"
	"goray/internal/material"
	"goray/internal/scene"
)

// Numeric constants from spec.md §4.5.
const (
	ShadowBias            = 1e-3
	ApertureBaseResolution = 800.0
)

// Integrator holds a read-only handle to the scene and its config, per
// spec.md §3's lifecycle note. One Integrator is shared read-only by every
// tile worker.
type Integrator struct {
	Scene *scene.Scene
}

// New returns an Integrator bound to the given scene.
func New(s *scene.Scene) *Integrator {
	return &Integrator{Scene: s}
}

func gammaEncode(linear float32) float32 {
	const gamma = 2.2
	return float32(math.Pow(float64(linear), 1.0/gamma))
}

func nextPowerOfTwo(n uint16) uint16 {
	if n == 0 {
		return 1
	}
	p := uint16(1)
	for p < n {
		p <<= 1
	}
	return p
}

// Render computes the final PixelData for pixel (x,y), per spec.md §4.5's
// per-pixel sampling loop: it builds a deterministically-shuffled power-of-
// two jitter grid, truncates to Samples, integrates radiance per sample
// (optionally through a depth-of-field lens), and averages the accumulators.
func (ig *Integrator) Render(x, y int) scene.PixelData {
	cfg := ig.Scene.Config
	cam := ig.Scene.Camera

	w, h := float32(cam.Width), float32(cam.Height)
	xStep := 2.0 / w
	yStep := 2.0 / h

	cellSize := uint16(1)
	if cfg.Samples > 1 {
		cellSize = nextPowerOfTwo(cfg.Samples+2) / 2
	}

	type cell struct{ xi, yi uint16 }
	var samples []cell
	for xi := uint16(0); xi < cellSize; xi++ {
		for yi := uint16(0); yi < cellSize; yi++ {
			samples = append(samples, cell{xi, yi})
		}
	}

	// Deterministic per-pixel shuffle seed so repeated renders with 1 worker
	// reproduce byte-identical output, per spec.md §9/§8's determinism
	// property. Seeding on (x,y) keeps the shuffle stable regardless of
	// which worker or tile order processed the pixel; cfg.Seed folds in the
	// caller-supplied seed spec.md §6 requires for reproducing a specific
	// Monte Carlo render.
	shuffleRng := rand.New(rand.NewSource(cfg.Seed + int64(x)*1_000_003 + int64(y)))
	shuffleRng.Shuffle(len(samples), func(i, j int) { samples[i], samples[j] = samples[j], samples[i] })

	if int(cfg.Samples) < len(samples) {
		samples = samples[:cfg.Samples]
	}

	color := mgl32.Vec3{0, 0, 0}
	var depth float32
	normal := mgl32.Vec3{0, 0, 0}
	var objectID uint32

	dofActive := cfg.ApertureSize > 1.0 && cfg.FocalLength > 1.0

	jitterRng := rand.New(rand.NewSource(cfg.Seed + int64(x)*2_000_003 + int64(y)*7 + 1))

	for _, s := range samples {
		xTrans := xStep * float32(s.xi) * (1.0 / float32(cellSize))
		yTrans := yStep * float32(s.yi) * (1.0 / float32(cellSize))

		if dofActive && cfg.Samples > 1 {
			xTrans -= xStep / 2
			yTrans -= yStep / 2
		}

		var ray geom.Ray
		if dofActive {
			ray = ig.dofRay(x, y, xTrans, yTrans)
		} else {
			ray = cam.RayForPixel(x, y, xTrans, yTrans)
		}

		c, d, n, id := ig.traceRadiance(ray, 1, jitterRng)
		color = color.Add(c)
		depth += d
		normal = normal.Add(n)
		objectID = id
	}

	n := float32(len(samples))
	if n == 0 {
		n = 1
	}
	color = color.Mul(1 / n)
	depth /= n
	normal = normal.Mul(1 / n)

	color = mgl32.Vec3{minf(color.X(), 1), minf(color.Y(), 1), minf(color.Z(), 1)}

	var r, g, b uint8
	if cfg.GammaCorrection {
		r = uint8(clamp255(gammaEncode(color.X()) * 255))
		g = uint8(clamp255(gammaEncode(color.Y()) * 255))
		b = uint8(clamp255(gammaEncode(color.Z()) * 255))
	} else {
		r = uint8(clamp255(color.X() * 255))
		g = uint8(clamp255(color.Y() * 255))
		b = uint8(clamp255(color.Z() * 255))
	}

	if normal.Len() > 1e-8 {
		normal = normal.Normalize()
	}

	return scene.PixelData{X: x, Y: y, R: r, G: g, B: b, Depth: depth, Normal: normal, ObjectID: objectID}
}

// dofRay builds a depth-of-field sampled ray, per spec.md §4.5's DoF
// construction: the focal point is found by walking out from the eye along
// the normalized center-pixel direction, by a distance derived from the
// magnitude of the *unnormalized* view-space direction (which varies with
// off-axis angle and gives DOF its field curvature), then a ray from the
// jittered lens offset is aimed at that focal point.
func (ig *Integrator) dofRay(x, y int, xTrans, yTrans float32) geom.Ray {
	cam := ig.Scene.Camera
	cfg := ig.Scene.Config

	aperture := float32(cam.Width) / ApertureBaseResolution
	xTrans *= cfg.ApertureSize * aperture
	yTrans *= cfg.ApertureSize * aperture

	w, h := float32(cam.Width), float32(cam.Height)
	centerX := (float32(x)+0.5)/w*2 - 1
	centerY := 1 - (float32(y)+0.5)/h*2

	centerClip := mgl32.Vec4{centerX, centerY, -camera.CamClippingPlaneDist, 1}
	centerPixelView := cam.InvProjection.Mul4x1(centerClip)
	centerPixelView[3] = 1

	dirView := centerPixelView.Sub(mgl32.Vec4{0, 0, 0, 1})
	dirView[3] = 0
	dist := dirView.Vec3().Len()

	dirWorld := cam.InvView.Mul4x1(dirView).Vec3().Normalize()

	focalPoint := cam.Eye.Add(dirWorld.Mul(camera.CamClippingPlaneDist / (dist / (dist + cfg.FocalLength))))

	lensRay := cam.RayForPixel(x, y, xTrans, yTrans)
	dir := focalPoint.Sub(lensRay.Origin)

	return geom.Ray{Origin: lensRay.Origin, Dir: dir.Normalize()}
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func clamp255(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// hitCandidate is a shape index paired with its bbox-test distance, used to
// sort candidates nearest-first before running full intersection, per
// spec.md §4.5's "trace" search.
type hitCandidate struct {
	shapeIdx int
	dist     float32
}

// trace searches for the nearest shape hit along ray, per spec.md §4.5:
// gather BVH (or linear) candidates, filter by visibility/alpha/shadow/
// reflection-only rules, sort by bbox distance, then run full intersection
// in that order, early-exiting on stopOnFirstHit.
func (ig *Integrator) trace(r geom.Ray, stopOnFirstHit, forShadow bool, depth uint16) (t float32, normal mgl32.Vec3, shapeIdx int, faceID uint32, ok bool) {
	candidates := ig.Scene.PossibleHits(r)

	var hits []hitCandidate
	for _, idx := range candidates {
		sh := ig.Scene.Shapes[idx]
		basics := sh.Basics()
		mat := sh.Material()

		if !basics.Visible || mat.Alpha <= 0 {
			continue
		}
		if forShadow && !mat.CastShadow {
			continue
		}
		if mat.ReflectionOnly && depth == 1 {
			continue
		}

		dist, hitBBox := sh.IntersectBBox(r, forShadow)
		if !hitBBox {
			continue
		}
		hits = append(hits, hitCandidate{idx, dist})
	}

	if len(hits) == 0 {
		return 0, mgl32.Vec3{}, 0, 0, false
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].dist < hits[j].dist })

	bestT := float32(math.MaxFloat32)
	bestIdx := -1
	var bestNormal mgl32.Vec3
	var bestFace uint32

	for _, c := range hits {
		sh := ig.Scene.Shapes[c.shapeIdx]
		tt, n, fid, hit := sh.Intersect(r, forShadow)
		if hit && tt < bestT {
			bestT, bestNormal, bestFace, bestIdx = tt, n, fid, c.shapeIdx
		}
		if bestIdx >= 0 && stopOnFirstHit {
			return bestT, bestNormal, bestIdx, bestFace, true
		}
	}

	if bestIdx < 0 {
		return 0, mgl32.Vec3{}, 0, 0, false
	}
	return bestT, bestNormal, bestIdx, bestFace, true
}

// traceRadiance is the recursive shading integrator, per spec.md §4.5. It
// mirrors the original raytracer's get_color_depth_normal_id: normal
// mapping, Monte Carlo roughness jitter, per-light Lambert+Phong+shadow,
// Fresnel-weighted reflection and refraction recursion, fog, and ambient
// occlusion/emissive composition, in that order.
func (ig *Integrator) traceRadiance(r geom.Ray, depth uint16, rng *rand.Rand) (color mgl32.Vec3, outDepth float32, outNormal mgl32.Vec3, outID uint32) {
	r.Dir = r.Dir.Normalize()
	cfg := ig.Scene.Config

	hitDist, geomNormal, shapeIdx, faceID, hit := ig.trace(r, false, false, depth)
	if !hit {
		return mgl32.Vec3{}, 0, mgl32.Vec3{}, 0
	}

	sh := ig.Scene.Shapes[shapeIdx]
	mat := sh.Material()
	basics := sh.Basics()

	outDepth = hitDist
	outNormal = geomNormal
	outID = basics.ID

	surfaceNormal := geomNormal
	hitPoint := r.At(hitDist)

	haveUV := mat.HasAnyTexture() || mat.ProceduralRoughness != nil
	var u, v float32
	if haveUV {
		u, v = sh.UV(hitPoint, faceID)
	}

	// Normal mapping: perturb the geometric normal via a tangent-space TBN
	// basis built from an arbitrary up reference.
	if rr, gg, bb, _, ok := mat.Sample(material.TextureNormal, u, v); haveUV && ok {
		tangent := geomNormal.Cross(mgl32.Vec3{0, 1, 0})
		if tangent.Len() <= 0.0001 {
			tangent = geomNormal.Cross(mgl32.Vec3{0, 0, 1})
		}
		tangent = tangent.Normalize()
		bitangent := geomNormal.Cross(tangent).Normalize()

		normalMap := mgl32.Vec3{rr*2 - 1, gg*2 - 1, bb*2 - 1}
		normalMap = mgl32.Vec3{normalMap.X() * mat.NormalMapStrength, normalMap.Y() * mat.NormalMapStrength, normalMap.Z()}.Normalize()

		tbn := mgl32.Mat3FromCols(tangent, bitangent, geomNormal)
		surfaceNormal = tbn.Mul3x1(normalMap).Normalize()
	}

	// Roughness: texture overrides the material scalar, per spec.md §4.5.
	if cfg.MonteCarlo && mat.MonteCarlo {
		roughness := mat.Roughness
		if rr, _, _, _, ok := mat.Sample(material.TextureRoughness, u, v); haveUV && ok {
			roughness = (1.0 / math.Pi / 2.0) * rr
		} else if mat.ProceduralRoughness != nil {
			roughness = (1.0 / math.Pi / 2.0) * mat.ProceduralRoughness.Sample(u, v)
		}
		if roughness > 0 {
			surfaceNormal = geom.Jitter(surfaceNormal, roughness, rng)
		}
	}

	ambientColor := itemColor(mat, mat.AmbientColor, material.TextureEmissive, haveUV, u, v)
	baseColor := itemColor(mat, mat.BaseColor, material.TextureBase, haveUV, u, v)
	specularColor := itemColor(mat, mat.SpecularColor, material.TextureSpecular, haveUV, u, v)

	alpha := mat.Alpha
	if _, _, _, aa, ok := mat.Sample(material.TextureBase, u, v); haveUV && ok {
		alpha *= aa
	}
	if rr, _, _, _, ok := mat.Sample(material.TextureAlpha, u, v); haveUV && ok {
		alpha *= rr
	}

	for _, light := range ig.Scene.Lights {
		if !light.Enabled {
			continue
		}
		color = color.Add(ig.shadeLight(light, hitPoint, surfaceNormal, r.Dir, baseColor, specularColor, mat, depth, rng))
	}

	refractionIndex := mat.RefractionIndex
	kr := geom.Fresnel(r.Dir, surfaceNormal, refractionIndex)

	reflectivity := mat.Reflectivity
	if rr, _, _, _, ok := mat.Sample(material.TextureReflectivity, u, v); haveUV && ok {
		reflectivity = rr
	}

	color = color.Mul(1 - reflectivity)

	if reflectivity > 0 && depth <= cfg.MaxRecursion {
		reflDir := geom.Reflect(r.Dir, surfaceNormal)
		reflOrigin := hitPoint.Add(surfaceNormal.Mul(ShadowBias))
		reflRay := geom.Ray{Origin: reflOrigin, Dir: reflDir}
		reflColor, _, _, _ := ig.traceRadiance(reflRay, depth+1, rng)
		color = color.Add(reflColor.Mul(reflectivity))
	}

	if alpha < 1.0 && depth <= cfg.MaxRecursion {
		transDir, refN, canTransmit := geom.Refract(r.Dir, surfaceNormal, refractionIndex)
		if canTransmit {
			transOrigin := hitPoint.Add(refN.Mul(-ShadowBias))
			transRay := geom.Ray{Origin: transOrigin, Dir: transDir}
			refractColor, _, _, refractID := ig.traceRadiance(transRay, depth+1, rng)

			if kr < 1.0 {
				color = color.Mul(alpha).Add(refractColor.Mul((1 - kr) * (1 - alpha)))
			} else {
				color = color.Mul(alpha).Add(refractColor.Mul(1 - alpha))
			}
			if material.ApproxEqual(alpha, 0) {
				outID = refractID
			}
		}
	} else if alpha < 1.0 {
		color = color.Mul(alpha)
	}

	if cfg.FogDensity > 0 {
		fogAmount := minf(cfg.FogDensity*hitDist, 1.0)
		color = color.Mul(1 - fogAmount).Add(cfg.FogColor.Mul(fogAmount))
	}

	if aoR, _, _, _, ok := mat.Sample(material.TextureAmbientOcclusion, u, v); haveUV && ok {
		color = mgl32.Vec3{color.X() * aoR, color.Y() * aoR, color.Z() * aoR}
	}

	color = color.Add(ambientColor)

	return color, outDepth, outNormal, outID
}

// itemColor multiplies a material base color by the matching texture
// channel, per spec.md §4.2/§4.5's get_item_color.
func itemColor(mat *material.Material, base mgl32.Vec3, t material.TextureType, haveUV bool, u, v float32) mgl32.Vec3 {
	if !haveUV {
		return base
	}
	if rr, gg, bb, _, ok := mat.Sample(t, u, v); ok {
		return mgl32.Vec3{base.X() * rr, base.Y() * gg, base.Z() * bb}
	}
	return base
}

// shadeLight computes one light's Lambert+Phong contribution including
// shadow attenuation, per spec.md §4.5.
func (ig *Integrator) shadeLight(light scene.Light, hitPoint, surfaceNormal, viewDirIn, baseColor, specularColor mgl32.Vec3, mat *material.Material, depth uint16, rng *rand.Rand) mgl32.Vec3 {
	var directionToLight mgl32.Vec3
	var intensity float32

	switch light.Type {
	case scene.LightDirectional:
		directionToLight = light.Direction.Mul(-1).Normalize()
		intensity = light.Intensity
	case scene.LightPoint, scene.LightSpot:
		toLight := light.Position.Sub(hitPoint)
		directionToLight = toLight.Normalize()
		r2 := toLight.Dot(toLight)
		intensity = light.Intensity / (4 * math.Pi * r2)

		if light.Type == scene.LightSpot {
			lightDir := light.Direction.Normalize()
			dot := directionToLight.Mul(-1).Dot(lightDir)
			angle := float32(math.Acos(clampUnit(dot)))
			if angle > light.MaxAngle {
				intensity = 0
			}
		}
	}

	dotLight := maxf(surfaceNormal.Dot(directionToLight), 0)
	base := baseColor.Mul(dotLight)

	reflectDir := geom.Reflect(directionToLight.Mul(-1), surfaceNormal)
	viewDir := viewDirIn.Mul(-1).Normalize()
	specDot := maxf(reflectDir.Dot(viewDir), 0)
	lightPower := float32(math.Pow(float64(specDot), float64(mat.Shininess)))
	specular := specularColor.Mul(lightPower)

	if mat.ReceiveShadow {
		shadowOrigin := hitPoint.Add(surfaceNormal.Mul(ShadowBias))
		shadowDir := directionToLight
		if ig.Scene.Config.MonteCarlo && mat.MonteCarlo {
			shadowDir = geom.Jitter(shadowDir, mat.ShadowSoftness, rng)
		}
		shadowRay := geom.Ray{Origin: shadowOrigin, Dir: shadowDir}

		shadowDist, _, shadowIdx, shadowFace, shadowHit := ig.trace(shadowRay, true, true, depth)

		inLight := !shadowHit
		if !inLight && (light.Type == scene.LightPoint || light.Type == scene.LightSpot) {
			lightDist := light.Position.Sub(hitPoint).Len()
			inLight = shadowDist > lightDist
		}

		if !inLight {
			shadowObj := ig.Scene.Shapes[shadowIdx]
			shadowMat := shadowObj.Material()
			shadowAlpha := shadowMat.Alpha

			if shadowMat.HasAnyTexture() {
				shadowHitPoint := shadowRay.At(shadowDist)
				su, sv := shadowObj.UV(shadowHitPoint, shadowFace)
				if aa, _, _, _, ok := shadowMat.Sample(material.TextureAlpha, su, sv); ok {
					shadowAlpha *= aa
				}
			}
			intensity *= 1 - shadowAlpha
		}
	}

	return mgl32.Vec3{
		light.Color.X() * (specular.X() + base.X()) * intensity,
		light.Color.Y() * (specular.Y() + base.Y()) * intensity,
		light.Color.Z() * (specular.Z() + base.Z()) * intensity,
	}
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func clampUnit(v float32) float64 {
	f := float64(v)
	if f > 1 {
		f = 1
	}
	if f < -1 {
		f = -1
	}
	return f
}
