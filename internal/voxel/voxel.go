package voxel

import "github.com/go-gl/mathgl/mgl32"

// Material identifies what a voxel is made of. Air is the sentinel for an
// absent voxel; no real material may use it.
type Material uint8

const (
	Air Material = iota
	Bedrock
	Stone
	Subsoil
	Grass
	Rock
	Snow
	Placed
)

var materialNames = map[Material]string{
	Air:     "air",
	Bedrock: "bedrock",
	Stone:   "stone",
	Subsoil: "subsoil",
	Grass:   "grass",
	Rock:    "rock",
	Snow:    "snow",
	Placed:  "placed",
}

func (m Material) String() string {
	if name, ok := materialNames[m]; ok {
		return name
	}
	return "unknown"
}

// Voxel is a single cell of a grid.
type Voxel struct {
	Material Material
	Color    mgl32.Vec4
}

// Empty is the voxel returned for absent cells and out-of-range reads.
var Empty = Voxel{}

// IsEmpty reports whether the voxel is air. Only the material id is
// consulted; a voxel with a leftover colour but Air material is still empty.
func (v Voxel) IsEmpty() bool {
	return v.Material == Air
}

// Equal compares material and colour.
func (v Voxel) Equal(o Voxel) bool {
	return v.Material == o.Material && v.Color == o.Color
}

// Solid builds a non-empty voxel.
func Solid(m Material, color mgl32.Vec4) Voxel {
	return Voxel{Material: m, Color: color}
}
