// Package orchestrator owns the image buffer and drives one frame (or an
// animation sequence) to completion, per spec.md §4.7. It continues the
// teacher's top-level ownership pattern of wiring a renderer's dependent
// subsystems together (see runtime/main.go's engine construction),
// redirected from a live GPU frame loop onto a batch CPU render pass.
package orchestrator

import (
	"image"
	"image/color"

	"goray/internal/integrator"
	"goray/internal/logger"
	"goray/internal/scene"
	"goray/internal/scheduler"

	"go.uber.org/zap"
)

// Orchestrator owns the scene, its integrator and tile scheduler, the
// current animation frame index, and the RGBA image buffer pixels are
// drained into.
type Orchestrator struct {
	Scene       *scene.Scene
	Integrator  *integrator.Integrator
	Scheduler   *scheduler.Scheduler
	Image       *image.RGBA
	CurrentFrame uint64
}

// New builds an Orchestrator for the given scene with the given worker
// count (0 = runtime.NumCPU()).
func New(s *scene.Scene, workers int) *Orchestrator {
	ig := integrator.New(s)
	sched := scheduler.New(ig, s.Camera.Width, s.Camera.Height, workers)
	return &Orchestrator{
		Scene:      s,
		Integrator: ig,
		Scheduler:  sched,
		Image:      image.NewRGBA(image.Rect(0, 0, s.Camera.Width, s.Camera.Height)),
	}
}

// RenderFrame drives one full frame to completion, per spec.md §4.7:
// (1) apply the current frame's transforms and rebuild the BVH,
// (2) start the scheduler and drain the pixel channel into the image buffer,
// (3) return once every pixel has arrived.
func (o *Orchestrator) RenderFrame() error {
	if o.Scene.Animation.HasAnimation() {
		if err := o.Scene.ApplyFrame(o.CurrentFrame); err != nil {
			return err
		}
	} else if err := o.Scene.Build(); err != nil {
		return err
	}

	o.Scheduler.Start()

	total := o.Scene.Camera.Width * o.Scene.Camera.Height
	for i := 0; i < total; i++ {
		px := <-o.Scheduler.Pixels
		if px.X < 0 || px.X >= o.Scene.Camera.Width || px.Y < 0 || px.Y >= o.Scene.Camera.Height {
			// Aggregator must drop out-of-frame pixels, per spec.md §5 (can
			// happen transiently on a resize-triggered restart).
			i--
			continue
		}
		o.Image.SetRGBA(px.X, px.Y, color.RGBA{R: px.R, G: px.G, B: px.B, A: 255})
	}

	o.Scheduler.Stop()

	logger.Log.Info("frame rendered", zap.Uint64("frame", o.CurrentFrame), zap.Duration("elapsed", o.Scheduler.Elapsed()))
	return nil
}

// Pick reports the id, name and hit distance of the shape under pixel
// (x,y) in the current frame, or ok=false if nothing is hit there.
func (o *Orchestrator) Pick(x, y int) (id uint32, name string, dist float32, ok bool) {
	return o.Scene.Pick(x, y)
}

// AdvanceFrame moves to the next animation frame, if one exists. It reports
// whether there is a next frame to render.
func (o *Orchestrator) AdvanceFrame() bool {
	o.CurrentFrame++
	return o.Scene.FrameExists(o.CurrentFrame)
}

// RenderSequence drives every animation frame to completion in order,
// invoking onFrame (if non-nil) with the finished image after each one —
// e.g. to persist it to disk. A scene with no animation renders exactly one
// frame.
func (o *Orchestrator) RenderSequence(onFrame func(frame uint64, img *image.RGBA) error) error {
	for {
		if err := o.RenderFrame(); err != nil {
			return err
		}
		if onFrame != nil {
			if err := onFrame(o.CurrentFrame, o.Image); err != nil {
				return err
			}
		}
		if !o.Scene.Animation.HasAnimation() || !o.AdvanceFrame() {
			return nil
		}
	}
}
