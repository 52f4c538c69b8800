package mesh

import (
	"VoxelEngine/internal/voxel"

	"github.com/go-gl/mathgl/mgl32"
)

// Face is one of the six axis-aligned directions of a voxel.
type Face int

const (
	Back   Face = iota // -Z
	Front              // +Z
	Left               // -X
	Right              // +X
	Bottom             // -Y
	Top                // +Y
)

// Faces lists every direction in emission order.
var Faces = [6]Face{Back, Front, Left, Right, Bottom, Top}

var faceOffsets = [6][3]int{
	{0, 0, -1},
	{0, 0, 1},
	{-1, 0, 0},
	{1, 0, 0},
	{0, -1, 0},
	{0, 1, 0},
}

// Unit cube corners per face, counter-clockwise seen from outside.
var faceCorners = [6][4]mgl32.Vec3{
	{{0, 0, 0}, {0, 1, 0}, {1, 1, 0}, {1, 0, 0}},
	{{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}},
	{{0, 0, 0}, {0, 0, 1}, {0, 1, 1}, {0, 1, 0}},
	{{1, 0, 0}, {1, 1, 0}, {1, 1, 1}, {1, 0, 1}},
	{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}},
	{{0, 1, 0}, {0, 1, 1}, {1, 1, 1}, {1, 1, 0}},
}

var faceUVs = [6][4]mgl32.Vec2{
	{{1, 0}, {1, 1}, {0, 1}, {0, 0}},
	{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
	{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
	{{1, 0}, {1, 1}, {0, 1}, {0, 0}},
	{{1, 1}, {0, 1}, {0, 0}, {1, 0}},
	{{0, 1}, {0, 0}, {1, 0}, {1, 1}},
}

func (f Face) Offset() (dx, dy, dz int) {
	o := faceOffsets[f]
	return o[0], o[1], o[2]
}

// Horizontal reports whether the face points along X or Z.
func (f Face) Horizontal() bool {
	return f != Bottom && f != Top
}

func (f Face) String() string {
	return [...]string{"back", "front", "left", "right", "bottom", "top"}[f]
}

// Normal is the outward unit normal of the face.
func (f Face) Normal() mgl32.Vec3 {
	dx, dy, dz := f.Offset()
	return mgl32.Vec3{float32(dx), float32(dy), float32(dz)}
}

// Neighbor is an immutable presence view of the chunk adjacent across a
// horizontal face, together with the stride that chunk is meshed at.
type Neighbor struct {
	Stride    int
	Occupancy OccupancyView
}

// OccupancyView answers presence queries in a chunk's local coordinates.
// Out-of-range queries return false.
type OccupancyView interface {
	Occupied(x, y, z int) bool
}

// NeighborLookup returns the chunk adjacent across a horizontal face, or
// false when no chunk is loaded there.
type NeighborLookup func(face Face) (Neighbor, bool)

// Request is everything an extraction needs. Grid must be a snapshot the
// caller will not mutate.
type Request struct {
	Grid       *voxel.Grid
	VoxelScale float32
	Stride     int
	Neighbors  NeighborLookup
	Generation uint64
	// Live reports whether the requesting chunk still exists. Backends may
	// skip work for dead chunks.
	Live func() bool
}

func (r Request) live() bool {
	return r.Live == nil || r.Live()
}

// Result is delivered once per submitted request.
type Result struct {
	Generation uint64
	Geometry   *Geometry
	// Skipped is set when the backend dropped the request without
	// extracting, e.g. because the chunk died or the backend is closed.
	Skipped bool
}

// Extractor converts a request into geometry synchronously.
type Extractor interface {
	Extract(req Request) *Geometry
}

// CPUExtractor is the reference face-culling extractor.
type CPUExtractor struct{}

// Extract walks the grid in macro-cells of Stride voxels and emits a quad for
// every face whose neighbouring macro-cell is empty. Each macro-cell uses the
// voxel at its minimum corner as its representative.
func (CPUExtractor) Extract(req Request) *Geometry {
	geom := &Geometry{}
	grid := req.Grid
	if grid == nil || grid.IsEmpty() {
		return geom
	}

	stride := req.Stride
	if stride < 1 {
		stride = 1
	}
	scale := req.VoxelScale
	if scale <= 0 {
		scale = 1
	}

	sx, sy, sz := grid.Size()
	size := float32(stride)
	var corners [4]mgl32.Vec3

	for z := 0; z < sz; z += stride {
		for y := 0; y < sy; y += stride {
			for x := 0; x < sx; x += stride {
				v := grid.Get(x, y, z)
				if v.IsEmpty() {
					continue
				}
				cell := mgl32.Vec3{float32(x), float32(y), float32(z)}
				for _, face := range Faces {
					if neighborSolid(req, grid, x, y, z, face, stride) {
						continue
					}
					for i, c := range faceCorners[face] {
						corners[i] = c.Mul(size).Add(cell).Mul(scale)
					}
					geom.appendQuad(corners, faceUVs[face], v.Color)
				}
			}
		}
	}
	return geom
}

// neighborSolid decides whether the face of the macro-cell at (x,y,z) is
// hidden. Vertical queries never leave the grid. Horizontal queries past the
// edge go to the neighbour chunk; a missing neighbour leaves the face
// visible.
func neighborSolid(req Request, grid *voxel.Grid, x, y, z int, face Face, stride int) bool {
	dx, dy, dz := face.Offset()
	nx, ny, nz := x+dx*stride, y+dy*stride, z+dz*stride

	sx, sy, sz := grid.Size()
	if ny < 0 || ny >= sy {
		return false
	}
	if nx >= 0 && nx < sx && nz >= 0 && nz < sz {
		return grid.Occupied(nx, ny, nz)
	}
	if req.Neighbors == nil {
		return false
	}
	n, ok := req.Neighbors(face)
	if !ok || n.Occupancy == nil {
		return false
	}

	lx, lz := wrap(nx, sx), wrap(nz, sz)
	if n.Stride <= stride {
		return n.Occupancy.Occupied(lx, ny, lz)
	}

	// Coarser neighbour: it only renders its own macro-cells, so hide the
	// boundary face when that macro-cell and the one above it are solid.
	// This leaves small seams at LOD borders.
	ns := n.Stride
	qx, qy, qz := floorTo(lx, ns), floorTo(ny, ns), floorTo(lz, ns)
	return n.Occupancy.Occupied(qx, qy, qz) && n.Occupancy.Occupied(qx, qy+ns, qz)
}

func wrap(v, size int) int {
	v %= size
	if v < 0 {
		v += size
	}
	return v
}

func floorTo(v, step int) int {
	return v - wrap(v, step)
}
