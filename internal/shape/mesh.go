package shape

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"goray/internal/geom"
	"goray/internal/material"
)

const triangleEpsilon = 1e-7

// Mesh is an indexed triangle mesh with parallel UV and normal index arrays,
// per spec.md §3. Vertex/UV/normal arrays are independently indexed, as a
// Wavefront OBJ loader would naturally produce (loading itself is out of
// scope; Mesh only consumes already-parsed arrays).
type Mesh struct {
	basic ShapeBasics

	Positions []mgl32.Vec3
	Indices   [][3]uint32 // triangle -> 3 position indices

	UVs       []mgl32.Vec2
	UVIndices [][3]uint32 // triangle -> 3 uv indices

	Normals       []mgl32.Vec3
	NormalIndices [][3]uint32 // triangle -> 3 normal indices, may be empty
}

// NewMesh builds a Mesh and computes its local bbox once, per spec.md §4.1
// ("Meshes MUST compute their local bbox once at load and reuse it").
func NewMesh(id uint32, name string, positions []mgl32.Vec3, indices [][3]uint32) *Mesh {
	m := &Mesh{
		basic:     NewShapeBasics(id, name),
		Positions: positions,
		Indices:   indices,
	}
	m.basic.LocalBBox = geom.FromPoints(positions)
	return m
}

func (m *Mesh) Basics() *ShapeBasics         { return &m.basic }
func (m *Mesh) Material() *material.Material { return &m.basic.Mat }

func (m *Mesh) BBox() geom.AABB {
	return WorldBBox(m.basic.LocalBBox, m.basic.Transform)
}

func (m *Mesh) IntersectBBox(r geom.Ray, forceNotSolid bool) (float32, bool) {
	local := m.basic.InverseRay(r)
	solid := m.basic.Mat.Alpha >= 1.0 && !forceNotSolid
	return m.basic.LocalBBox.IntersectRay(local, solid)
}

// Intersect runs Möller-Trumbore against every triangle and keeps the
// smallest positive t, per spec.md §4.1. Backface culling (if enabled)
// rejects triangles whose geometric normal faces the same way as the ray.
func (m *Mesh) Intersect(r geom.Ray, forceNotSolid bool) (t float32, normal mgl32.Vec3, faceID uint32, ok bool) {
	local := m.basic.InverseRay(r)

	bestT := float32(math.MaxFloat32)
	var bestNormal mgl32.Vec3
	var bestU, bestV float32
	bestFace := -1

	for i, tri := range m.Indices {
		v0 := m.Positions[tri[0]]
		v1 := m.Positions[tri[1]]
		v2 := m.Positions[tri[2]]

		edge1 := v1.Sub(v0)
		edge2 := v2.Sub(v0)
		h := local.Dir.Cross(edge2)
		a := edge1.Dot(h)

		if a > -triangleEpsilon && a < triangleEpsilon {
			continue
		}

		geomNormal := edge1.Cross(edge2).Normalize()
		if m.basic.Mat.BackfaceCulling && geomNormal.Dot(local.Dir) > 0 {
			continue
		}

		f := 1.0 / a
		s := local.Origin.Sub(v0)
		u := f * s.Dot(h)
		if u < 0 || u > 1 {
			continue
		}

		q := s.Cross(edge1)
		v := f * local.Dir.Dot(q)
		if v < 0 || u+v > 1 {
			continue
		}

		tt := f * edge2.Dot(q)
		if tt <= triangleEpsilon || tt >= bestT {
			continue
		}

		bestT = tt
		bestFace = i
		bestU, bestV = u, v

		if m.basic.Mat.SmoothShading && len(m.Normals) > 0 && len(m.NormalIndices) > i {
			ni := m.NormalIndices[i]
			n0 := m.Normals[ni[0]]
			n1 := m.Normals[ni[1]]
			n2 := m.Normals[ni[2]]
			w := 1 - bestU - bestV
			bestNormal = n0.Mul(w).Add(n1.Mul(bestU)).Add(n2.Mul(bestV)).Normalize()
		} else {
			bestNormal = geomNormal
		}
	}

	if bestFace < 0 {
		return 0, mgl32.Vec3{}, 0, false
	}

	localHit := local.At(bestT)
	worldHit := m.basic.Transform.Mul4x1(localHit.Vec4(1)).Vec3()
	worldNormal := m.basic.InverseTrans.Transpose().Mul4x1(bestNormal.Vec4(0)).Vec3().Normalize()
	worldT := worldHit.Sub(r.Origin).Len()

	return worldT, worldNormal, uint32(bestFace), true
}

// UV computes the barycentric-interpolated texture coordinate of a
// world-space hit point within the given triangle, per spec.md §4.1, with V
// negated (UV origin at top-left).
func (m *Mesh) UV(hit mgl32.Vec3, faceID uint32) (float32, float32) {
	if len(m.Indices) == 0 {
		return 0, 0
	}
	fID := int(faceID) % len(m.Indices)

	tri := m.Indices[fID]
	uvTri := m.UVIndices[fID]

	local := m.basic.InverseTrans.Mul4x1(hit.Vec4(1)).Vec3()

	a := m.Positions[tri[0]]
	b := m.Positions[tri[1]]
	c := m.Positions[tri[2]]

	aUV := m.UVs[uvTri[0]]
	bUV := m.UVs[uvTri[1]]
	cUV := m.UVs[uvTri[2]]

	f1 := a.Sub(local)
	f2 := b.Sub(local)
	f3 := c.Sub(local)

	areaABC := a.Sub(b).Cross(a.Sub(c)).Len()
	a1 := f2.Cross(f3).Len() / areaABC
	a2 := f3.Cross(f1).Len() / areaABC
	a3 := f1.Cross(f2).Len() / areaABC

	u := aUV.X()*a1 + bUV.X()*a2 + cUV.X()*a3
	v := aUV.Y()*a1 + bUV.Y()*a2 + cUV.Y()*a3

	return u, -v
}
