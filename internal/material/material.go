package material

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// TextureType names the per-channel texture slots a Material can carry,
// extending the original raytracer's TextureType enum (shape/mod.rs) with
// the additional channels spec.md §3 lists: roughness, ambient occlusion,
// alpha, reflectivity, emissive.
type TextureType int

const (
	TextureBase TextureType = iota
	TextureEmissive
	TextureSpecular
	TextureNormal
	TextureAlpha
	TextureRoughness
	TextureAmbientOcclusion
	TextureReflectivity
)

// Material is the value-semantic shading description owned by a Shape, per
// spec.md §3.
type Material struct {
	AmbientColor  mgl32.Vec3 // also doubles as the emissive/ambient color
	BaseColor     mgl32.Vec3
	SpecularColor mgl32.Vec3

	TextureBaseMap             *Texture
	TextureEmissiveMap         *Texture
	TextureSpecularMap         *Texture
	TextureNormalMap           *Texture
	TextureAlphaMap            *Texture
	TextureRoughnessMap        *Texture
	TextureAmbientOcclusionMap *Texture
	TextureReflectivityMap     *Texture

	// ProceduralRoughness, when non-nil, is sampled as an alternate
	// roughness source alongside/instead of TextureRoughnessMap (see
	// SPEC_FULL.md §6.3). If both are set, the raster texture wins, matching
	// "texture roughness overwrites the material setting" in spec.md §4.5.
	ProceduralRoughness *ProceduralNoise

	Alpha            float32
	Shininess        float32
	Reflectivity     float32
	RefractionIndex  float32
	NormalMapStrength float32
	ShadowSoftness   float32
	Roughness        float32 // radians, angular spread in [0, pi/2]

	CastShadow            bool
	ReceiveShadow         bool
	MonteCarlo            bool
	SmoothShading         bool
	ReflectionOnly        bool
	BackfaceCulling       bool
	TextureFilteringNearest bool
}

// Default returns the baseline material the original raytracer's
// Material::new constructs: white diffuse, light grey specular, opaque,
// shadow-casting/receiving, no reflection/refraction.
func Default() Material {
	return Material{
		AmbientColor:  mgl32.Vec3{0, 0, 0},
		BaseColor:     mgl32.Vec3{1, 1, 1},
		SpecularColor: mgl32.Vec3{0.8, 0.8, 0.8},

		Alpha:             1.0,
		Shininess:         150.0,
		Reflectivity:      0.0,
		RefractionIndex:   1.0,
		NormalMapStrength: 1.0,
		ShadowSoftness:    0.01,
		Roughness:         0.0,

		CastShadow:    true,
		ReceiveShadow: true,
		SmoothShading: true,
	}
}

func (m *Material) textureFor(t TextureType) *Texture {
	switch t {
	case TextureBase:
		return m.TextureBaseMap
	case TextureEmissive:
		return m.TextureEmissiveMap
	case TextureSpecular:
		return m.TextureSpecularMap
	case TextureNormal:
		return m.TextureNormalMap
	case TextureAlpha:
		return m.TextureAlphaMap
	case TextureRoughness:
		return m.TextureRoughnessMap
	case TextureAmbientOcclusion:
		return m.TextureAmbientOcclusionMap
	case TextureReflectivity:
		return m.TextureReflectivityMap
	default:
		return nil
	}
}

// HasTexture reports whether the given channel carries a raster texture.
func (m *Material) HasTexture(t TextureType) bool {
	return m.textureFor(t) != nil
}

// HasAnyTexture reports whether any channel (other than the procedural
// roughness source) carries a texture, used by the integrator to decide
// whether a UV lookup is worth computing at all (spec.md §4.5 step 2).
func (m *Material) HasAnyTexture() bool {
	for t := TextureBase; t <= TextureReflectivity; t++ {
		if m.HasTexture(t) {
			return true
		}
	}
	return false
}

// Dimensions returns the pixel dimensions of the given texture channel, or
// (0,0) if absent.
func (m *Material) Dimensions(t TextureType) (int, int) {
	return m.textureFor(t).Dimensions()
}

// Sample fetches the RGBA texel at (u,v) for the given channel, honoring
// Material.TextureFilteringNearest, per spec.md §4.2. ok is false when the
// channel carries no texture.
func (m *Material) Sample(t TextureType, u, v float32) (r, g, b, a float32, ok bool) {
	tex := m.textureFor(t)
	if tex == nil {
		return 0, 0, 0, 0, false
	}
	if m.TextureFilteringNearest {
		r, g, b, a = tex.SampleNearest(u, v)
	} else {
		r, g, b, a = tex.SampleBilinear(u, v)
	}
	return r, g, b, a, true
}

// ApproxEqual compares two floats to 6 decimal places, matching the
// original raytracer's helper.rs::approx_equal used by Material::apply_diff.
func ApproxEqual(a, b float32) bool {
	const epsilon = 0.0000005
	return math.Abs(float64(a-b)) < epsilon
}

// ApplyDiff merges the non-default fields of override onto m, field by
// field, mirroring shape/mod.rs::Material::apply_diff exactly: a loader
// producing a sparse override (most fields left at Default()) can call this
// to layer only the fields it actually set.
func (m *Material) ApplyDiff(override Material) {
	def := Default()

	if !vecApproxEqual(def.AmbientColor, override.AmbientColor) {
		m.AmbientColor = override.AmbientColor
	}
	if !vecApproxEqual(def.BaseColor, override.BaseColor) {
		m.BaseColor = override.BaseColor
	}
	if !vecApproxEqual(def.SpecularColor, override.SpecularColor) {
		m.SpecularColor = override.SpecularColor
	}

	if override.TextureBaseMap != nil {
		m.TextureBaseMap = override.TextureBaseMap
	}
	if override.TextureEmissiveMap != nil {
		m.TextureEmissiveMap = override.TextureEmissiveMap
	}
	if override.TextureSpecularMap != nil {
		m.TextureSpecularMap = override.TextureSpecularMap
	}
	if override.TextureNormalMap != nil {
		m.TextureNormalMap = override.TextureNormalMap
	}
	if override.TextureAlphaMap != nil {
		m.TextureAlphaMap = override.TextureAlphaMap
	}
	if override.TextureRoughnessMap != nil {
		m.TextureRoughnessMap = override.TextureRoughnessMap
	}
	if override.TextureAmbientOcclusionMap != nil {
		m.TextureAmbientOcclusionMap = override.TextureAmbientOcclusionMap
	}
	if override.TextureReflectivityMap != nil {
		m.TextureReflectivityMap = override.TextureReflectivityMap
	}
	if override.ProceduralRoughness != nil {
		m.ProceduralRoughness = override.ProceduralRoughness
	}

	if !ApproxEqual(def.Alpha, override.Alpha) {
		m.Alpha = override.Alpha
	}
	if !ApproxEqual(def.Shininess, override.Shininess) {
		m.Shininess = override.Shininess
	}
	if !ApproxEqual(def.Reflectivity, override.Reflectivity) {
		m.Reflectivity = override.Reflectivity
	}
	if !ApproxEqual(def.RefractionIndex, override.RefractionIndex) {
		m.RefractionIndex = override.RefractionIndex
	}
	if !ApproxEqual(def.NormalMapStrength, override.NormalMapStrength) {
		m.NormalMapStrength = override.NormalMapStrength
	}
	if !ApproxEqual(def.ShadowSoftness, override.ShadowSoftness) {
		m.ShadowSoftness = override.ShadowSoftness
	}
	if !ApproxEqual(def.Roughness, override.Roughness) {
		m.Roughness = override.Roughness
	}

	if def.CastShadow != override.CastShadow {
		m.CastShadow = override.CastShadow
	}
	if def.ReceiveShadow != override.ReceiveShadow {
		m.ReceiveShadow = override.ReceiveShadow
	}
	if def.SmoothShading != override.SmoothShading {
		m.SmoothShading = override.SmoothShading
	}
	if def.ReflectionOnly != override.ReflectionOnly {
		m.ReflectionOnly = override.ReflectionOnly
	}
	if def.BackfaceCulling != override.BackfaceCulling {
		m.BackfaceCulling = override.BackfaceCulling
	}
	if def.TextureFilteringNearest != override.TextureFilteringNearest {
		m.TextureFilteringNearest = override.TextureFilteringNearest
	}
	if def.MonteCarlo != override.MonteCarlo {
		m.MonteCarlo = override.MonteCarlo
	}
}

func vecApproxEqual(a, b mgl32.Vec3) bool {
	return ApproxEqual(a.X(), b.X()) && ApproxEqual(a.Y(), b.Y()) && ApproxEqual(a.Z(), b.Z())
}
