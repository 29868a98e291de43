package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Frame is one named shape's keyframed transform components at a given
// Keyframe's timestamp; an absent component (nil) means "unanimated",
// grounded on the original raytracer's animation.rs Frame.
type Frame struct {
	ShapeName   string
	Translation *mgl32.Vec3
	Rotation    *mgl32.Vec3 // Euler angles, radians
	Scale       *mgl32.Vec3
}

// Keyframe is a named-shape Frame set at a millisecond timestamp.
type Keyframe struct {
	TimeMillis uint64
	Objects    []Frame
}

// Animation is an optional keyframe track driving shape transforms across
// an animation sequence, per spec.md §2 C7 ("drive one-frame and animation
// sequences"). A scene with no keyframes renders a single static frame.
type Animation struct {
	Enabled bool
	FPS     uint32

	Keyframes []Keyframe
}

// NewAnimation returns a disabled animation track at 25fps, mirroring the
// original raytracer's Animation::new default.
func NewAnimation() Animation {
	return Animation{Enabled: false, FPS: 25}
}

// HasAnimation reports whether this track actually drives more than one
// frame: enabled, at least two keyframes, and the first keyframe at t=0.
func (a *Animation) HasAnimation() bool {
	return a.Enabled && a.FramesToRender() > 0 && a.hasInitialKeyframe() && len(a.Keyframes) >= 2
}

func (a *Animation) hasInitialKeyframe() bool {
	return len(a.Keyframes) > 0 && a.Keyframes[0].TimeMillis == 0
}

// FramesToRender returns the total frame count implied by the last
// keyframe's timestamp and the track's fps.
func (a *Animation) FramesToRender() uint64 {
	if len(a.Keyframes) == 0 {
		return 0
	}
	last := a.Keyframes[len(a.Keyframes)-1].TimeMillis
	return uint64(float64(a.FPS) * (float64(last) / 1000.0))
}

// keyframesForFrame returns the bracketing keyframes for a given frame
// index and the interpolation factor between them, per the original
// raytracer's get_keyframes_for_frame.
func (a *Animation) keyframesForFrame(frame uint64) (first, last *Keyframe, factor float64) {
	timestamp := uint64((1000.0 / float64(a.FPS)) * float64(frame))

	first = &a.Keyframes[0]
	last = &a.Keyframes[0]

	for i := range a.Keyframes {
		if a.Keyframes[i].TimeMillis <= timestamp {
			first = &a.Keyframes[i]
			if i+1 >= len(a.Keyframes) {
				last = &a.Keyframes[i]
			} else {
				last = &a.Keyframes[i+1]
			}
		}
	}

	diff := last.TimeMillis - first.TimeMillis
	if diff == 0 {
		return first, last, 0
	}
	factor = float64(timestamp-first.TimeMillis) / float64(diff)
	return first, last, factor
}

// TransformForFrame interpolates the translation/rotation/scale for the
// named shape at the given frame index, returning ok=false if the shape has
// no keyframed entry in either bracketing keyframe.
func (a *Animation) TransformForFrame(frame uint64, shapeName string) (mgl32.Mat4, bool) {
	first, last, factor := a.keyframesForFrame(frame)

	var firstFrame, lastFrame *Frame
	for i := range first.Objects {
		if first.Objects[i].ShapeName == shapeName {
			firstFrame = &first.Objects[i]
			break
		}
	}
	for i := range last.Objects {
		if last.Objects[i].ShapeName == shapeName {
			lastFrame = &last.Objects[i]
			break
		}
	}
	if firstFrame == nil || lastFrame == nil {
		return mgl32.Ident4(), false
	}

	f := float32(factor)

	translation := mgl32.Vec3{0, 0, 0}
	if firstFrame.Translation != nil && lastFrame.Translation != nil {
		translation = lerpVec3(*firstFrame.Translation, *lastFrame.Translation, f)
	}

	scale := mgl32.Vec3{1, 1, 1}
	if firstFrame.Scale != nil && lastFrame.Scale != nil {
		scale = lerpVec3(*firstFrame.Scale, *lastFrame.Scale, f)
	}

	rotation := mgl32.Vec3{0, 0, 0}
	if firstFrame.Rotation != nil && lastFrame.Rotation != nil {
		rotation = lerpVec3(*firstFrame.Rotation, *lastFrame.Rotation, f)
	}

	t := mgl32.Translate3D(translation.X(), translation.Y(), translation.Z())
	r := mgl32.AnglesToQuat(rotation.X(), rotation.Y(), rotation.Z(), mgl32.XYZ).Mat4()
	s := mgl32.Scale3D(scale.X(), scale.Y(), scale.Z())

	return t.Mul4(r).Mul4(s), true
}

func lerpVec3(a, b mgl32.Vec3, f float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(f))
}
