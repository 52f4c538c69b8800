package voxel

// Grid is the dense voxel storage of one chunk. Cells are laid out as
// x + y*sizeX + z*sizeX*sizeY and the footprint is square (sizeZ == sizeX).
//
// Reads outside the grid return Empty and writes outside the grid are
// ignored; neither is an error.
type Grid struct {
	sizeX    int
	sizeY    int
	sizeZ    int
	cells    []Voxel
	occupied int
}

// NewGrid allocates an empty grid with a side x height x side footprint.
// Non-positive dimensions are clamped to 1.
func NewGrid(side, height int) *Grid {
	if side < 1 {
		side = 1
	}
	if height < 1 {
		height = 1
	}
	return &Grid{
		sizeX: side,
		sizeY: height,
		sizeZ: side,
		cells: make([]Voxel, side*height*side),
	}
}

func (g *Grid) Size() (x, y, z int) {
	return g.sizeX, g.sizeY, g.sizeZ
}

// Side is the horizontal edge length in voxels.
func (g *Grid) Side() int { return g.sizeX }

// Height is the vertical edge length in voxels.
func (g *Grid) Height() int { return g.sizeY }

func (g *Grid) Capacity() int { return len(g.cells) }

// Count returns the number of non-empty cells.
func (g *Grid) Count() int { return g.occupied }

func (g *Grid) IsEmpty() bool { return g.occupied == 0 }

func (g *Grid) InBounds(x, y, z int) bool {
	return x >= 0 && x < g.sizeX &&
		y >= 0 && y < g.sizeY &&
		z >= 0 && z < g.sizeZ
}

func (g *Grid) index(x, y, z int) int {
	return x + y*g.sizeX + z*g.sizeX*g.sizeY
}

func (g *Grid) Get(x, y, z int) Voxel {
	if !g.InBounds(x, y, z) {
		return Empty
	}
	return g.cells[g.index(x, y, z)]
}

// Occupied is a shorthand for !Get(x, y, z).IsEmpty().
func (g *Grid) Occupied(x, y, z int) bool {
	if !g.InBounds(x, y, z) {
		return false
	}
	return !g.cells[g.index(x, y, z)].IsEmpty()
}

// Set stores v and keeps the occupied counter in step with empty/non-empty
// transitions. Out-of-range writes are dropped.
func (g *Grid) Set(x, y, z int, v Voxel) {
	if !g.InBounds(x, y, z) {
		return
	}
	idx := g.index(x, y, z)
	wasEmpty := g.cells[idx].IsEmpty()
	isEmpty := v.IsEmpty()
	if wasEmpty && !isEmpty {
		g.occupied++
	} else if !wasEmpty && isEmpty {
		g.occupied--
	}
	g.cells[idx] = v
}

// Clear resets every cell to Empty.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = Empty
	}
	g.occupied = 0
}

// Snapshot returns a deep copy that can be handed to another goroutine.
func (g *Grid) Snapshot() *Grid {
	cells := make([]Voxel, len(g.cells))
	copy(cells, g.cells)
	return &Grid{
		sizeX:    g.sizeX,
		sizeY:    g.sizeY,
		sizeZ:    g.sizeZ,
		cells:    cells,
		occupied: g.occupied,
	}
}

// Occupancy returns a compact, immutable presence view of the grid.
func (g *Grid) Occupancy() *Occupancy {
	bits := make([]bool, len(g.cells))
	for i, v := range g.cells {
		bits[i] = !v.IsEmpty()
	}
	return &Occupancy{sizeX: g.sizeX, sizeY: g.sizeY, sizeZ: g.sizeZ, bits: bits}
}

// Occupancy is a read-only presence map with the same layout as Grid.
type Occupancy struct {
	sizeX, sizeY, sizeZ int
	bits                []bool
}

func (o *Occupancy) Size() (x, y, z int) {
	return o.sizeX, o.sizeY, o.sizeZ
}

func (o *Occupancy) Occupied(x, y, z int) bool {
	if x < 0 || x >= o.sizeX || y < 0 || y >= o.sizeY || z < 0 || z >= o.sizeZ {
		return false
	}
	return o.bits[x+y*o.sizeX+z*o.sizeX*o.sizeY]
}
