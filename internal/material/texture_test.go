package material

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func checkerImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				img.Set(x, y, color.RGBA{255, 255, 255, 255})
			} else {
				img.Set(x, y, color.RGBA{0, 0, 0, 255})
			}
		}
	}
	return img
}

func TestSampleNearestReturnsTexelValue(t *testing.T) {
	tex := NewTexture(checkerImage(2, 2))
	r, _, _, _ := tex.SampleNearest(0, 0)
	if r != 1 {
		t.Errorf("expected texel (0,0) to be white, got r=%f", r)
	}
}

func TestSampleNearestWrapsNegativeCoordinates(t *testing.T) {
	tex := NewTexture(checkerImage(4, 4))
	r1, g1, b1, _ := tex.SampleNearest(-0.125, 0)
	r2, g2, b2, _ := tex.SampleNearest(0.875, 0)
	if r1 != r2 || g1 != g2 || b1 != b2 {
		t.Errorf("negative UV should wrap to the same texel as its positive equivalent")
	}
}

func TestSampleBilinearInterpolatesBetweenTexels(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{0, 0, 0, 255})
	img.Set(1, 0, color.RGBA{255, 255, 255, 255})
	tex := NewTexture(img)

	r, _, _, _ := tex.SampleBilinear(0.5, 0.25)
	if r <= 0 || r >= 1 {
		t.Errorf("expected interpolated value strictly between texels, got %f", r)
	}
}

func TestDimensionsNilTextureIsZero(t *testing.T) {
	var tex *Texture
	w, h := tex.Dimensions()
	if w != 0 || h != 0 {
		t.Errorf("expected (0,0) for nil texture, got (%d,%d)", w, h)
	}
}

func TestProceduralNoiseSampleInUnitRange(t *testing.T) {
	p := NewProceduralNoise(42, 4.0, 3)
	for i := 0; i < 50; i++ {
		v := p.Sample(float32(i)*0.01, float32(i)*0.02)
		if v < 0 || v > 1 {
			t.Fatalf("expected noise sample in [0,1], got %f at i=%d", v, i)
		}
	}
}

func TestProceduralNoiseDeterministic(t *testing.T) {
	a := NewProceduralNoise(7, 2.0, 2)
	b := NewProceduralNoise(7, 2.0, 2)
	if math.Abs(float64(a.Sample(0.3, 0.6)-b.Sample(0.3, 0.6))) > 1e-6 {
		t.Error("same seed should produce identical noise samples")
	}
}
