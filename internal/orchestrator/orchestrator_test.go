package orchestrator

import (
	"image"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"goray/internal/camera"
	"goray/internal/scene"
	"goray/internal/shape"
)

func buildTestScene(w, h int) *scene.Scene {
	s := scene.New()
	s.Camera = camera.Init(w, h, mgl32.DegToRad(60), mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}, 0.1, 100)
	s.AddShape(shape.NewSphere(1, "sphere", 1))
	s.AddLight(scene.NewDirectionalLight(mgl32.Vec3{0, -1, -1}, mgl32.Vec3{1, 1, 1}, 2.0))
	return s
}

func TestRenderFrameFillsEveryPixel(t *testing.T) {
	s := buildTestScene(8, 8)
	o := New(s, 2)

	if err := o.RenderFrame(); err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}

	bounds := o.Image.Bounds()
	if bounds != image.Rect(0, 0, 8, 8) {
		t.Fatalf("unexpected image bounds: %v", bounds)
	}

	sawNonBlack := false
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			_, _, _, a := o.Image.At(x, y).RGBA()
			if a == 0 {
				t.Fatalf("pixel (%d,%d) was never written (alpha 0)", x, y)
			}
			r, g, b, _ := o.Image.At(x, y).RGBA()
			if r != 0 || g != 0 || b != 0 {
				sawNonBlack = true
			}
		}
	}
	if !sawNonBlack {
		t.Error("expected at least one lit pixel from the sphere")
	}
}

func TestRenderSequenceWithoutAnimationRendersOneFrame(t *testing.T) {
	s := buildTestScene(4, 4)
	o := New(s, 1)

	frames := 0
	err := o.RenderSequence(func(frame uint64, img *image.RGBA) error {
		frames++
		return nil
	})
	if err != nil {
		t.Fatalf("RenderSequence: %v", err)
	}
	if frames != 1 {
		t.Errorf("expected exactly 1 frame for a scene with no animation track, got %d", frames)
	}
}
