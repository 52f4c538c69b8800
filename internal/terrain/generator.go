package terrain

import (
	"encoding/binary"
	"math"
	"math/rand"

	"VoxelEngine/internal/voxel"

	perlin "github.com/aquilax/go-perlin"
	"github.com/cespare/xxhash/v2"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// randomOffsetRange scales the seed-derived offset added to every noise
	// sample so different seeds land on unrelated parts of the noise field.
	randomOffsetRange = 59645.78456

	// Every column gets at least this many voxels.
	minColumnVoxels = 3

	grassVoxels      = 3
	subsoilVoxels    = 6
	subsoilVariation = 2

	snowLine = 0.8
	rockLine = 0.5

	maxShade  = 0.15
	shadeSalt = 0x5eed
)

var bandColors = map[voxel.Material]mgl32.Vec3{
	voxel.Bedrock: {0.1, 0.1, 0.1},
	voxel.Snow:    {0.9, 0.9, 0.9},
	voxel.Rock:    {0.5, 0.5, 0.5},
	voxel.Grass:   {0.1, 0.8, 0.1},
	voxel.Subsoil: {0.61, 0.30, 0.08},
	voxel.Stone:   {0.4, 0.4, 0.4},
}

// Params configures terrain generation.
type Params struct {
	UseNoise        bool
	Seed            int64
	Octaves         int
	FrequencyGrowth float64
	AmplitudeDecay  float64
	Scale           float64
	TerrainHeight   int
	// SharpRidges squares each octave sample.
	SharpRidges bool
}

// sanitized clamps degenerate values so generation never divides by zero.
func (p Params) sanitized() Params {
	if p.Octaves < 1 {
		p.Octaves = 1
	}
	if p.Scale <= 0 || math.IsNaN(p.Scale) {
		p.Scale = 1
	}
	if p.TerrainHeight < 1 {
		p.TerrainHeight = 1
	}
	if p.FrequencyGrowth <= 0 || math.IsNaN(p.FrequencyGrowth) {
		p.FrequencyGrowth = 1
	}
	if p.AmplitudeDecay <= 0 || math.IsNaN(p.AmplitudeDecay) {
		p.AmplitudeDecay = 1
	}
	return p
}

// Generator fills voxel grids from layered noise. It holds no mutable state
// after construction, so one instance may be shared by callers on the update
// stream; per-chunk randomness comes from ChunkRand.
type Generator struct {
	params Params
	noise  *perlin.Perlin
	shade  *perlin.Perlin
	offset float64
}

// NewGenerator builds a generator whose output depends only on p.
func NewGenerator(p Params) *Generator {
	p = p.sanitized()
	rng := rand.New(rand.NewSource(p.Seed))
	return &Generator{
		params: p,
		noise:  perlin.NewPerlin(2, 2, 1, p.Seed),
		shade:  perlin.NewPerlin(2, 2, 1, p.Seed^shadeSalt),
		offset: rng.Float64() * randomOffsetRange,
	}
}

func (g *Generator) Params() Params {
	return g.params
}

// ChunkSeed mixes the world seed with a chunk origin.
func ChunkSeed(seed int64, originX, originZ float32) int64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(seed))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(int32(math.Floor(float64(originX)))))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(int32(math.Floor(float64(originZ)))))
	return int64(xxhash.Sum64(buf[:]))
}

// ChunkRand returns the random source for one chunk. Two calls with the same
// arguments yield identical sequences.
func ChunkRand(seed int64, origin mgl32.Vec3) *rand.Rand {
	return rand.New(rand.NewSource(ChunkSeed(seed, origin.X(), origin.Z())))
}

// sample01 maps the perlin output into [0, 1].
func (g *Generator) sample01(x, z float64) float64 {
	return clamp01((g.noise.Noise2D(x, z) + 1) * 0.5)
}

func (g *Generator) shade01(x, z float64) float64 {
	return clamp01((g.shade.Noise2D(x, z) + 1) * 0.5)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// NoiseHeight accumulates the octave stack for one world column and returns
// terrainHeight scaled by the normalized sum.
func (g *Generator) NoiseHeight(worldX, worldZ float64) float64 {
	p := g.params
	frequency := 1.0
	amplitude := 1.0
	accumulated := 0.0
	maxPossible := 0.0

	for octave := 0; octave < p.Octaves; octave++ {
		x := worldX/p.Scale*frequency + g.offset
		z := worldZ/p.Scale*frequency + g.offset

		n := math.Abs(g.sample01(x, z)*2 - 1)
		if p.SharpRidges {
			n *= n
		}
		accumulated += n * amplitude
		maxPossible += amplitude

		frequency *= p.FrequencyGrowth
		amplitude *= p.AmplitudeDecay
	}

	if maxPossible <= 0 {
		return 0
	}
	return float64(p.TerrainHeight) * clamp01(accumulated/maxPossible)
}

// ColumnHeight returns the real-space height of a column, never less than a
// few voxels.
func (g *Generator) ColumnHeight(worldX, worldZ, voxelScale float64, rng *rand.Rand) float64 {
	var h float64
	if g.params.UseNoise {
		h = g.NoiseHeight(worldX, worldZ)
	} else {
		h = rng.Float64() * float64(g.params.TerrainHeight)
	}
	if minH := minColumnVoxels * voxelScale; h < minH {
		h = minH
	}
	return h
}

// band picks the material of the voxel at index y whose bottom sits at
// realHeight in a column of total height columnHeight.
func (g *Generator) band(y int, realHeight, columnHeight, voxelScale float64, rng *rand.Rand) voxel.Material {
	th := float64(g.params.TerrainHeight)
	switch {
	case y == 0:
		return voxel.Bedrock
	case realHeight > th*snowLine:
		return voxel.Snow
	case realHeight > th*rockLine:
		return voxel.Rock
	case realHeight+voxelScale*grassVoxels >= columnHeight:
		return voxel.Grass
	case realHeight+voxelScale*(subsoilVoxels+rng.Float64()*subsoilVariation) >= columnHeight:
		return voxel.Subsoil
	default:
		return voxel.Stone
	}
}

// BandColor returns the undarkened colour of a material.
func BandColor(m voxel.Material) mgl32.Vec3 {
	return bandColors[m]
}

func darken(c mgl32.Vec3, by float32) mgl32.Vec4 {
	out := mgl32.Vec4{1, 1, 1, 1}
	for i := 0; i < 3; i++ {
		v := c[i] - by
		if v < 0 {
			v = 0
		}
		out[i] = v
	}
	return out
}

// Fill voxelizes every column of grid for a chunk whose minimum corner is at
// origin. The grid is cleared first so Fill can be rerun.
func (g *Generator) Fill(grid *voxel.Grid, origin mgl32.Vec3, voxelScale float32) {
	grid.Clear()
	if voxelScale <= 0 {
		return
	}

	rng := ChunkRand(g.params.Seed, origin)
	scale := float64(voxelScale)
	side := grid.Side()
	height := grid.Height()

	for vx := 0; vx < side; vx++ {
		for vz := 0; vz < side; vz++ {
			worldX := float64(origin.X()) + float64(vx)*scale
			worldZ := float64(origin.Z()) + float64(vz)*scale

			columnHeight := g.ColumnHeight(worldX, worldZ, scale, rng)
			shade := float32(g.shade01(worldX/100+1002, worldZ/100+2093) * maxShade)

			realHeight := 0.0
			for y := 0; y < height && realHeight < columnHeight; y++ {
				m := g.band(y, realHeight, columnHeight, scale, rng)
				grid.Set(vx, y, vz, voxel.Solid(m, darken(bandColors[m], shade)))
				realHeight += scale
			}
		}
	}
}
