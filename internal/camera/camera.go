// Package camera builds the perspective/view matrices and the per-pixel
// primary-ray construction described in spec.md §4.4. It continues the
// teacher's internal/renderer/camera.go — in particular ScreenToWorld's
// inverse-projection/inverse-view unprojection — generalized from a mouse
// pick ray into a full per-pixel sensor model with anti-aliasing and
// depth-of-field jitter support.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"

	"goray/internal/geom"
)

// CamClippingPlaneDist is spec.md §4.5's CAM_CLIPPING_PLANE_DIST constant,
// the NDC z-coordinate primary rays are constructed against.
const CamClippingPlaneDist = 1.0

// Camera is immutable once Init has run for the frame, per spec.md §3.
type Camera struct {
	Width, Height int
	Fov           float32 // radians
	Eye           mgl32.Vec3
	Forward       mgl32.Vec3
	Up            mgl32.Vec3
	Near, Far     float32

	Projection    mgl32.Mat4
	View          mgl32.Mat4
	InvProjection mgl32.Mat4
	InvView       mgl32.Mat4
}

// Init builds a camera at eye looking along forward, per spec.md §4.4:
// aspect = w/h; projection = right-handed perspective from (fov, aspect,
// near, far); view = look-at(eye, eye+forward, up). projection⁻¹ and view⁻¹
// are cached for ray_for_pixel.
func Init(w, h int, fov float32, eye, forward, up mgl32.Vec3, near, far float32) *Camera {
	aspect := float32(w) / float32(h)
	c := &Camera{
		Width: w, Height: h,
		Fov:     fov,
		Eye:     eye,
		Forward: forward.Normalize(),
		Up:      up.Normalize(),
		Near:    near,
		Far:     far,
	}

	c.Projection = mgl32.Perspective(fov, aspect, near, far)
	c.View = mgl32.LookAtV(eye, eye.Add(c.Forward), c.Up)
	c.InvProjection = c.Projection.Inv()
	c.InvView = c.View.Inv()

	return c
}

// RayForPixel constructs the primary ray through pixel (x,y) offset by the
// sub-pixel jitter (dx,dy), per spec.md §4.4:
//  1. sensor NDC: sx = ((x+0.5)/w)*2-1+dx, sy = 1-((y+0.5)/h)*2+dy
//  2. pixel_view = projection⁻¹ * (sx, sy, -1, 1); pixel_view.w = 1
//  3. origin_world = view⁻¹ * pixel_view; dir_world = view⁻¹ * (pixel_view - (0,0,0,1)) with w=0
func (c *Camera) RayForPixel(x, y int, dx, dy float32) geom.Ray {
	sx := (float32(x)+0.5)/float32(c.Width)*2 - 1 + dx
	sy := 1 - (float32(y)+0.5)/float32(c.Height)*2 + dy

	clip := mgl32.Vec4{sx, sy, -CamClippingPlaneDist, 1}
	pixelView := c.InvProjection.Mul4x1(clip)
	pixelView[3] = 1

	originWorld := c.InvView.Mul4x1(pixelView)

	dirView := pixelView.Sub(mgl32.Vec4{0, 0, 0, 1})
	dirView[3] = 0
	dirWorld := c.InvView.Mul4x1(dirView)

	return geom.Ray{
		Origin: originWorld.Vec3(),
		Dir:    dirWorld.Vec3().Normalize(),
	}
}
