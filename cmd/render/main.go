// Command render drives a single raytraced frame from a hard-coded demo
// scene to a PNG file on disk. It replaces the
// teacher's windowed runtime/main.go entrypoint with a batch CLI suited to
// an offline CPU raytracer.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"
	"runtime"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"goray/internal/camera"
	"goray/internal/logger"
	"goray/internal/orchestrator"
	"goray/internal/scene"
	"goray/internal/shape"
)

func main() {
	width := flag.Int("width", 640, "frame width in pixels")
	height := flag.Int("height", 480, "frame height in pixels")
	out := flag.String("out", "render.png", "output PNG path")
	workers := flag.Int("workers", runtime.NumCPU(), "worker thread count")
	quality := flag.String("quality", "default", "raytracing config preset: default, high, performance")
	dev := flag.Bool("dev", false, "enable development (console) logging")
	flag.Parse()

	closeLog := logger.Init(*dev)
	defer closeLog()

	s := buildDemoScene(*width, *height, *quality)

	o := orchestrator.New(s, *workers)

	if renderErr := o.RenderFrame(); renderErr != nil {
		logger.Log.Fatal("render failed", zap.Error(renderErr))
	}

	f, err := os.Create(*out)
	if err != nil {
		logger.Log.Fatal("failed to create output file", zap.String("path", *out), zap.Error(err))
	}
	defer f.Close()

	if err := png.Encode(f, o.Image); err != nil {
		logger.Log.Fatal("failed to encode PNG", zap.Error(err))
	}

	fmt.Printf("wrote %s (%dx%d, %v)\n", *out, *width, *height, o.Scheduler.Elapsed())
}

func buildDemoScene(w, h int, quality string) *scene.Scene {
	s := scene.New()

	switch quality {
	case "high":
		s.Config = scene.HighQualityRaytracingConfig()
	case "performance":
		s.Config = scene.PerformanceRaytracingConfig()
	default:
		s.Config = scene.DefaultRaytracingConfig()
	}

	s.Camera = camera.Init(w, h, mgl32.DegToRad(60), mgl32.Vec3{0, 1, 5}, mgl32.Vec3{0, -0.1, -1}, mgl32.Vec3{0, 1, 0}, 0.1, 1000)

	ground := shape.NewSphere(1, "ground", 1000)
	ground.Basics().SetTransform(mgl32.Translate3D(0, -1001, 0))
	ground.Material().BaseColor = mgl32.Vec3{0.5, 0.5, 0.5}
	s.AddShape(ground)

	mirror := shape.NewSphere(2, "mirror", 1)
	mirror.Basics().SetTransform(mgl32.Translate3D(-2, 0, -5))
	mirror.Material().Reflectivity = 0.9
	mirror.Material().BaseColor = mgl32.Vec3{0.05, 0.05, 0.05}
	s.AddShape(mirror)

	glass := shape.NewSphere(3, "glass", 1)
	glass.Basics().SetTransform(mgl32.Translate3D(0, 0, -5))
	glass.Material().Alpha = 0.1
	glass.Material().RefractionIndex = 1.5
	glass.Material().Reflectivity = 0.05
	s.AddShape(glass)

	matte := shape.NewSphere(4, "matte", 1)
	matte.Basics().SetTransform(mgl32.Translate3D(2, 0, -5))
	matte.Material().BaseColor = mgl32.Vec3{0.8, 0.2, 0.2}
	s.AddShape(matte)

	s.AddLight(scene.NewDirectionalLight(mgl32.Vec3{-0.5, -1, -0.5}, mgl32.Vec3{1, 1, 1}, 3.0))
	s.AddLight(scene.NewPointLight(mgl32.Vec3{3, 3, 0}, mgl32.Vec3{1, 0.9, 0.8}, 40.0))

	return s
}
