package bvh

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"goray/internal/geom"
)

type fakeItem struct {
	box geom.AABB
}

func (f fakeItem) BBox() geom.AABB { return f.box }

func boxAt(x, y, z float32) fakeItem {
	c := mgl32.Vec3{x, y, z}
	return fakeItem{box: geom.AABB{Min: c.Sub(mgl32.Vec3{0.5, 0.5, 0.5}), Max: c.Add(mgl32.Vec3{0.5, 0.5, 0.5})}}
}

func TestBuildEmpty(t *testing.T) {
	tree := Build(nil)
	if len(tree.Nodes) != 0 {
		t.Fatalf("expected empty BVH, got %d nodes", len(tree.Nodes))
	}
}

func TestBuildSingleItem(t *testing.T) {
	items := []BBoxProvider{boxAt(0, 0, 0)}
	tree := Build(items)
	if len(tree.Nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(tree.Nodes))
	}
	if tree.Nodes[0].ShapeIndex != 0 {
		t.Errorf("expected leaf shape index 0, got %d", tree.Nodes[0].ShapeIndex)
	}
}

func TestPossibleHitsSupersetOfBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	var items []BBoxProvider
	for i := 0; i < 200; i++ {
		x := (rng.Float32() - 0.5) * 100
		y := (rng.Float32() - 0.5) * 100
		z := (rng.Float32() - 0.5) * 100
		items = append(items, boxAt(x, y, z))
	}
	tree := Build(items)

	for trial := 0; trial < 50; trial++ {
		origin := mgl32.Vec3{(rng.Float32() - 0.5) * 200, (rng.Float32() - 0.5) * 200, (rng.Float32() - 0.5) * 200}
		dir := mgl32.Vec3{rng.Float32() - 0.5, rng.Float32() - 0.5, rng.Float32() - 0.5}.Normalize()
		r := geom.Ray{Origin: origin, Dir: dir}

		bruteForce := map[int]bool{}
		for i, it := range items {
			if _, ok := it.BBox().IntersectRay(r, true); ok {
				bruteForce[i] = true
			}
		}

		hits := tree.PossibleHits(r)
		hitSet := map[int]bool{}
		for _, h := range hits {
			hitSet[h] = true
		}

		for i := range bruteForce {
			if !hitSet[i] {
				t.Fatalf("trial %d: BVH missed shape %d that brute force hit", trial, i)
			}
		}
	}
}

func TestBuildProducesOneLeafPerItem(t *testing.T) {
	var items []BBoxProvider
	for i := 0; i < 7; i++ {
		items = append(items, boxAt(float32(i)*2, 0, 0))
	}
	tree := Build(items)

	leaves := 0
	for _, n := range tree.Nodes {
		if n.ShapeIndex >= 0 {
			leaves++
		}
	}
	if leaves != len(items) {
		t.Errorf("expected %d leaves, got %d", len(items), leaves)
	}
}
