// Package bvh builds and traverses a binary bounding-volume hierarchy over a
// scene's shapes, per spec.md §4.3. It continues the teacher's
// internal/loader/voxel_core.go habit of precomputing spatial structure
// once per mutation and reusing it across many lookups, retargeted from
// voxel chunk culling onto shape bboxes.
package bvh

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"goray/internal/geom"
)

// BVHMinItems is spec.md §4.5's BVH_MIN_ITEMS: at or below this shape count
// Scene.PossibleHits bypasses the tree and returns all shapes for linear
// testing.
const BVHMinItems = 50

// Node is one node of the tree. A leaf has ShapeIndex >= 0 and no children;
// an inner node has ShapeIndex == -1 and both children set.
type Node struct {
	BBox        geom.AABB
	ShapeIndex  int
	Left, Right int // indices into BVH.Nodes, -1 if absent
}

// BVH is a flat array of Nodes; index 0 is the root (or the tree is empty if
// len(Nodes) == 0).
type BVH struct {
	Nodes []Node
}

// BBoxProvider is anything the BVH can be built over: the scene passes
// shape.Shape values in, but the tree itself only needs their bboxes.
type BBoxProvider interface {
	BBox() geom.AABB
}

// Build constructs a new BVH over the given items' world bboxes, using a
// top-down split on the longest axis with object-median partitioning, per
// spec.md §4.3. An empty input yields an empty BVH.
func Build(items []BBoxProvider) BVH {
	if len(items) == 0 {
		return BVH{}
	}

	indices := make([]int, len(items))
	for i := range indices {
		indices[i] = i
	}

	b := BVH{Nodes: make([]Node, 0, len(items)*2)}
	b.build(items, indices)
	return b
}

// build recursively partitions indices and appends nodes, returning the
// index of the node just appended (its own subtree root).
func (b *BVH) build(items []BBoxProvider, indices []int) int {
	box := geom.Invalid()
	for _, i := range indices {
		box = box.Union(items[i].BBox())
	}

	if len(indices) == 1 {
		b.Nodes = append(b.Nodes, Node{BBox: box, ShapeIndex: indices[0], Left: -1, Right: -1})
		return len(b.Nodes) - 1
	}

	axis := box.LongestAxis()
	sort.Slice(indices, func(i, j int) bool {
		ci := items[indices[i]].BBox().Centroid()
		cj := items[indices[j]].BBox().Centroid()
		return axisValue(ci, axis) < axisValue(cj, axis)
	})

	mid := len(indices) / 2
	left := append([]int(nil), indices[:mid]...)
	right := append([]int(nil), indices[mid:]...)

	// Reserve this node's slot before recursing so the parent's index is
	// known and stable regardless of subtree size.
	selfIdx := len(b.Nodes)
	b.Nodes = append(b.Nodes, Node{BBox: box, ShapeIndex: -1, Left: -1, Right: -1})

	leftIdx := b.build(items, left)
	rightIdx := b.build(items, right)

	b.Nodes[selfIdx].Left = leftIdx
	b.Nodes[selfIdx].Right = rightIdx

	return selfIdx
}

func axisValue(v mgl32.Vec3, axis int) float32 {
	switch axis {
	case 0:
		return v.X()
	case 1:
		return v.Y()
	default:
		return v.Z()
	}
}

// PossibleHits returns the indices of every leaf whose bbox the ray enters,
// via stack-based descent from the root, per spec.md §4.3. The result is a
// superset of shapes actually hit by the ray; order is unspecified.
func (b BVH) PossibleHits(r geom.Ray) []int {
	if len(b.Nodes) == 0 {
		return nil
	}

	var hits []int
	stack := []int{0}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := b.Nodes[idx]
		if _, ok := n.BBox.IntersectRay(r, true); !ok {
			continue
		}

		if n.ShapeIndex >= 0 {
			hits = append(hits, n.ShapeIndex)
			continue
		}

		if n.Left >= 0 {
			stack = append(stack, n.Left)
		}
		if n.Right >= 0 {
			stack = append(stack, n.Right)
		}
	}
	return hits
}
