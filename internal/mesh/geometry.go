package mesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Geometry holds the buffers produced by one extraction. The four vertex
// buffers are parallel; Indices uses 32-bit entries so a chunk can exceed
// 65535 vertices. A Geometry is replaced wholesale, never patched.
type Geometry struct {
	Positions []mgl32.Vec3
	Colors    []mgl32.Vec4
	UVs       []mgl32.Vec2
	Normals   []mgl32.Vec3
	Indices   []uint32
}

func (g *Geometry) VertexCount() int {
	if g == nil {
		return 0
	}
	return len(g.Positions)
}

func (g *Geometry) IndexCount() int {
	if g == nil {
		return 0
	}
	return len(g.Indices)
}

func (g *Geometry) TriangleCount() int { return g.IndexCount() / 3 }

// QuadCount is the number of emitted faces (two triangles each).
func (g *Geometry) QuadCount() int { return g.IndexCount() / 6 }

func (g *Geometry) IsEmpty() bool { return g.IndexCount() == 0 }

// Collidable reports whether the geometry is worth building a collision
// shape for. Empty geometry must never be handed to the physics side.
func (g *Geometry) Collidable() bool { return g.VertexCount() >= 3 && !g.IsEmpty() }

// Bounds returns the axis-aligned box around every vertex.
func (g *Geometry) Bounds() (min, max mgl32.Vec3) {
	if g.VertexCount() == 0 {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}
	inf := float32(math.Inf(1))
	min = mgl32.Vec3{inf, inf, inf}
	max = mgl32.Vec3{-inf, -inf, -inf}
	for _, p := range g.Positions {
		for i := 0; i < 3; i++ {
			if p[i] < min[i] {
				min[i] = p[i]
			}
			if p[i] > max[i] {
				max[i] = p[i]
			}
		}
	}
	return min, max
}

// BoundingSphere returns the centre and radius of a sphere enclosing Bounds.
func (g *Geometry) BoundingSphere() (center mgl32.Vec3, radius float32) {
	min, max := g.Bounds()
	center = min.Add(max).Mul(0.5)
	radius = max.Sub(center).Len()
	return center, radius
}

// Interleaved packs position, uv and normal as 8 floats per vertex, the
// layout renderers upload directly.
func (g *Geometry) Interleaved() []float32 {
	out := make([]float32, 0, g.VertexCount()*8)
	for i, p := range g.Positions {
		uv := g.UVs[i]
		n := g.Normals[i]
		out = append(out, p[0], p[1], p[2], uv[0], uv[1], n[0], n[1], n[2])
	}
	return out
}

// appendQuad adds four vertices and six indices. corners must be ordered
// counter-clockwise when seen from outside the face.
func (g *Geometry) appendQuad(corners [4]mgl32.Vec3, uvs [4]mgl32.Vec2, color mgl32.Vec4) {
	base := uint32(len(g.Positions))
	normal := faceNormal(corners[0], corners[1], corners[2])
	for i := 0; i < 4; i++ {
		g.Positions = append(g.Positions, corners[i])
		g.Colors = append(g.Colors, color)
		g.UVs = append(g.UVs, uvs[i])
		g.Normals = append(g.Normals, normal)
	}
	g.Indices = append(g.Indices,
		base, base+1, base+2,
		base+2, base+3, base,
	)
}

func faceNormal(a, b, c mgl32.Vec3) mgl32.Vec3 {
	n := b.Sub(a).Cross(c.Sub(a))
	if n.Len() == 0 {
		return mgl32.Vec3{}
	}
	return n.Normalize()
}
