package material

import perlin "github.com/aquilax/go-perlin"

// ProceduralNoise is a coherent-noise texture source usable anywhere a
// raster roughness texture is accepted. It supplements spec.md §3's raster
// texture channels with the kind of procedural surface variation the
// teacher's AdvancedRenderingConfig reserves NoiseScale/NoiseOctaves/
// NoiseIntensity fields for, and continues examples/Voxel/gocraft.go's use
// of the same aquilax/go-perlin generator, retargeted from voxel terrain
// onto material shading.
type ProceduralNoise struct {
	gen    *perlin.Perlin
	Scale  float32
	Octaves int
}

// NewProceduralNoise builds a deterministic generator from a seed so two
// renders of the same scene/material produce identical procedural detail.
func NewProceduralNoise(seed int64, scale float32, octaves int) *ProceduralNoise {
	if octaves < 1 {
		octaves = 1
	}
	alpha, beta := 2., 2.
	return &ProceduralNoise{
		gen:     perlin.NewPerlin(alpha, beta, int32(octaves), seed),
		Scale:   scale,
		Octaves: octaves,
	}
}

// Sample returns a single-channel noise value remapped to [0,1] at the given
// UV, used as a roughness-texture substitute (spec.md §4.5 step 4: "spread =
// texture_roughness.r / (2*pi) if texture present").
func (p *ProceduralNoise) Sample(u, v float32) float32 {
	if p == nil || p.gen == nil {
		return 0
	}
	n := p.gen.Noise2D(float64(u*p.Scale), float64(v*p.Scale))
	return clamp01(float32(n*0.5 + 0.5))
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
