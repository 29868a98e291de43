// Package scene owns the shape list, lights, camera and acceleration
// structure for a single frame, per spec.md §3. It continues the teacher's
// internal/renderer/model.go ownership pattern (a flat, validated collection
// handed to the renderer), redirected from GPU draw submission onto CPU ray
// queries.
package scene

import (
	"fmt"
	"math"
	"sort"

	"goray/internal/bvh"
	"goray/internal/camera"
	"goray/internal/geom"
	"goray/internal/logger"
	"goray/internal/shape"

	"go.uber.org/zap"
)

// Scene is the frozen-per-frame world the integrator queries. Shapes are
// owned by value-slice index; Scene.Build validates ids and rebuilds the
// BVH, per spec.md §3's invariants.
type Scene struct {
	Camera *camera.Camera
	Shapes []shape.Shape
	Lights []Light

	Config    RaytracingConfig
	Animation Animation

	bvh bvh.BVH
}

// New returns an empty scene with the default raytracing config and a
// disabled animation track.
func New() *Scene {
	return &Scene{Config: DefaultRaytracingConfig(), Animation: NewAnimation()}
}

// FrameExists reports whether the given animation frame index is within the
// track's rendered range.
func (s *Scene) FrameExists(frame uint64) bool {
	return s.Animation.HasAnimation() && frame < s.Animation.FramesToRender()
}

// ApplyFrame interpolates and installs each shape's keyframed transform for
// the given animation frame, then rebuilds the BVH, per spec.md §4.3's
// rebuild policy ("rebuilt after any mutation of scene shape transforms")
// and §4.7's per-frame orchestration step 1. Shapes absent from the
// animation track keep their current transform.
func (s *Scene) ApplyFrame(frame uint64) error {
	for _, sh := range s.Shapes {
		basics := sh.Basics()
		if t, ok := s.Animation.TransformForFrame(frame, basics.Name); ok {
			basics.SetTransform(t)
		}
	}
	return s.Build()
}

// AddShape appends a shape to the scene. The BVH is not rebuilt until Build
// is called, matching spec.md §3's "BVH is rebuilt whenever any shape
// transform changes" (callers batch mutations, then call Build once).
func (s *Scene) AddShape(sh shape.Shape) {
	s.Shapes = append(s.Shapes, sh)
}

// AddLight appends a light to the scene.
func (s *Scene) AddLight(l Light) {
	s.Lights = append(s.Lights, l)
}

// Build validates the scene (unique non-zero shape ids) and rebuilds the
// BVH over the shapes' current world bboxes, per spec.md §4.3's rebuild
// policy. It must be called once after construction and again after any
// animation step mutates shape transforms.
func (s *Scene) Build() error {
	seen := make(map[uint32]bool, len(s.Shapes))
	for _, sh := range s.Shapes {
		id := sh.Basics().ID
		if id == 0 {
			return fmt.Errorf("scene: shape %q has invalid id 0", sh.Basics().Name)
		}
		if seen[id] {
			return fmt.Errorf("scene: duplicate shape id %d (%q)", id, sh.Basics().Name)
		}
		seen[id] = true

		if mesh, ok := sh.(*shape.Mesh); ok {
			if err := validateMesh(mesh); err != nil {
				return err
			}
		}
	}

	if s.Camera == nil {
		return fmt.Errorf("scene: no camera set")
	}

	providers := make([]bvh.BBoxProvider, len(s.Shapes))
	for i, sh := range s.Shapes {
		providers[i] = sh
	}
	s.bvh = bvh.Build(providers)

	logger.Log.Debug("scene built", zap.Int("shapes", len(s.Shapes)), zap.Int("lights", len(s.Lights)))
	return nil
}

func validateMesh(m *shape.Mesh) error {
	for i, tri := range m.Indices {
		for _, idx := range tri {
			if int(idx) >= len(m.Positions) {
				return fmt.Errorf("scene: mesh %q triangle %d references out-of-range position index %d", m.Basics().Name, i, idx)
			}
		}
	}
	if len(m.UVIndices) != 0 && len(m.UVIndices) != len(m.Indices) {
		return fmt.Errorf("scene: mesh %q has %d triangles but %d UV index entries", m.Basics().Name, len(m.Indices), len(m.UVIndices))
	}
	if len(m.NormalIndices) != 0 && len(m.NormalIndices) != len(m.Indices) {
		return fmt.Errorf("scene: mesh %q has %d triangles but %d normal index entries", m.Basics().Name, len(m.Indices), len(m.NormalIndices))
	}
	return nil
}

// PossibleHits returns candidate shape indices for ray, using the BVH when
// the scene holds more than bvh.BVHMinItems shapes, else testing all shapes
// linearly, per spec.md §4.3's fast-path.
func (s *Scene) PossibleHits(r geom.Ray) []int {
	if len(s.Shapes) <= bvh.BVHMinItems {
		all := make([]int, len(s.Shapes))
		for i := range all {
			all[i] = i
		}
		return all
	}
	return s.bvh.PossibleHits(r)
}

// Pick returns the id, name and hit distance of the nearest visible shape
// with non-zero alpha under pixel (x,y), or ok=false if no shape is hit. It is a
// self-contained nearest-hit search (candidate gathering via PossibleHits,
// bbox-distance sort, then full intersection in that order) — the same
// search the integrator's own trace performs for a primary ray — grounded
// on the original raytracer's Raytracing::pick, which calls its own
// trace(scene, ray, stop_on_first_hit=false, for_shadow=false).
func (s *Scene) Pick(x, y int) (id uint32, name string, dist float32, ok bool) {
	r := s.Camera.RayForPixel(x, y, 0, 0)

	type candidate struct {
		idx  int
		dist float32
	}

	var candidates []candidate
	for _, idx := range s.PossibleHits(r) {
		sh := s.Shapes[idx]
		basics := sh.Basics()
		mat := sh.Material()
		if !basics.Visible || mat.Alpha <= 0 {
			continue
		}
		d, hitBBox := sh.IntersectBBox(r, false)
		if !hitBBox {
			continue
		}
		candidates = append(candidates, candidate{idx, d})
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].dist < candidates[j].dist })

	bestDist := float32(math.MaxFloat32)
	bestIdx := -1
	for _, c := range candidates {
		t, _, _, hit := s.Shapes[c.idx].Intersect(r, false)
		if hit && t < bestDist {
			bestDist, bestIdx = t, c.idx
		}
	}

	if bestIdx < 0 {
		return 0, "", 0, false
	}
	basics := s.Shapes[bestIdx].Basics()
	return basics.ID, basics.Name, bestDist, true
}
