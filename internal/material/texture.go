// Package material holds the shading attributes owned by each shape and the
// multi-channel texture sampler described in spec.md §4.2. It continues the
// teacher's internal/renderer/texture_manager.go, but samples texels on the
// CPU (for the integrator) instead of uploading them to a GPU texture unit.
package material

import (
	"image"
)

// Texture is an immutable raster image sampled in [0,1] UV space. Channel
// values are kept in [0,1] RGBA float form so the integrator never has to
// think about 8-bit quantization mid-pipeline.
type Texture struct {
	w, h int
	pix  []colorf // row-major, length w*h
}

type colorf struct {
	r, g, b, a float32
}

// NewTexture converts a standard library image.Image into a sampler-ready
// Texture. Decoding the source file/bytes into an image.Image is a loader
// concern (spec.md §1 Non-goal) and happens before this constructor runs.
func NewTexture(img image.Image) *Texture {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	t := &Texture{w: w, h: h, pix: make([]colorf, w*h)}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			t.pix[y*w+x] = colorf{
				r: float32(r) / 65535,
				g: float32(g) / 65535,
				b: float32(b) / 65535,
				a: float32(a) / 65535,
			}
		}
	}
	return t
}

// Dimensions returns the texture's width and height in texels.
func (t *Texture) Dimensions() (int, int) {
	if t == nil {
		return 0, 0
	}
	return t.w, t.h
}

func (t *Texture) texel(x, y int) colorf {
	return t.pix[y*t.w+x]
}

// wrap folds a float UV coordinate into [0,bound) using signed-modulo wrap,
// per spec.md §4.2: "negative coordinates fold positively".
func wrap(val float32, bound int) int {
	if bound <= 0 {
		return 0
	}
	floatCoord := val * float32(bound)
	wrapped := int(floorf(floatCoord)) % bound
	if wrapped < 0 {
		wrapped += bound
	}
	return wrapped
}

// SampleNearest wraps (u,v) into the texel grid and returns the texel at
// that integer coordinate, no interpolation.
func (t *Texture) SampleNearest(u, v float32) (r, g, b, a float32) {
	x := wrap(u, t.w)
	y := wrap(v, t.h)
	c := t.texel(x, y)
	return c.r, c.g, c.b, c.a
}

// SampleBilinear wraps (u,v) into the texel grid and bilinearly interpolates
// between the four neighboring texels, wrapping each neighbor coordinate
// independently so filtering remains seamless across the UV wrap boundary.
func (t *Texture) SampleBilinear(u, v float32) (r, g, b, a float32) {
	fx := u*float32(t.w) - 0.5
	fy := v*float32(t.h) - 0.5

	x0 := int(floorf(fx))
	y0 := int(floorf(fy))
	tx := fx - floorf(fx)
	ty := fy - floorf(fy)

	x0w := wrapInt(x0, t.w)
	x1w := wrapInt(x0+1, t.w)
	y0w := wrapInt(y0, t.h)
	y1w := wrapInt(y0+1, t.h)

	c00 := t.texel(x0w, y0w)
	c10 := t.texel(x1w, y0w)
	c01 := t.texel(x0w, y1w)
	c11 := t.texel(x1w, y1w)

	lerp := func(a, b, f float32) float32 { return a + (b-a)*f }

	top := colorf{lerp(c00.r, c10.r, tx), lerp(c00.g, c10.g, tx), lerp(c00.b, c10.b, tx), lerp(c00.a, c10.a, tx)}
	bot := colorf{lerp(c01.r, c11.r, tx), lerp(c01.g, c11.g, tx), lerp(c01.b, c11.b, tx), lerp(c01.a, c11.a, tx)}

	return lerp(top.r, bot.r, ty), lerp(top.g, bot.g, ty), lerp(top.b, bot.b, ty), lerp(top.a, bot.a, ty)
}

func floorf(f float32) float32 {
	i := float32(int(f))
	if f < 0 && i != f {
		return i - 1
	}
	return i
}

func wrapInt(v, bound int) int {
	if bound <= 0 {
		return 0
	}
	v %= bound
	if v < 0 {
		v += bound
	}
	return v
}
