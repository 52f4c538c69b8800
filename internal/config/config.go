package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"VoxelEngine/internal/mesh"
	"VoxelEngine/internal/terrain"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Config is the full option surface of the engine. Distances (view,
// LOD start, hysteresis) are measured in chunks.
type Config struct {
	// Terrain generation
	UseNoise        bool    `yaml:"use_noise"`
	Seed            int64   `yaml:"seed"`
	Octaves         int     `yaml:"octaves"`
	FrequencyGrowth float64 `yaml:"frequency_growth"`
	AmplitudeDecay  float64 `yaml:"amplitude_decay"`
	NoiseScale      float64 `yaml:"noise_scale"`
	TerrainHeight   int     `yaml:"terrain_height"`
	SharpRidges     bool    `yaml:"sharp_ridges"`

	// Chunk layout
	ChunkFootprint     int `yaml:"chunk_footprint"`
	VoxelsPerChunkSide int `yaml:"voxels_per_chunk_side"`
	MaxHeight          int `yaml:"max_height"`

	// Streaming and LOD
	ViewDistance         int      `yaml:"view_distance"`
	LODStartDistance     int      `yaml:"lod_start_distance"`
	DeleteHysteresis     int      `yaml:"delete_hysteresis"`
	MaxDetailLevel       mesh.LOD `yaml:"max_detail_level"`
	MinDetailLevel       mesh.LOD `yaml:"min_detail_level"`
	ChunksCreatedPerTick int      `yaml:"chunks_created_per_tick"`

	// Engine
	FrameInterval    time.Duration `yaml:"frame_interval"`
	FixedEvery       int           `yaml:"fixed_every"`
	LODIntervalTicks int           `yaml:"lod_interval_ticks"`
	MeshWorkers      int           `yaml:"mesh_workers"`
	EditBrushEpsilon float64       `yaml:"edit_brush_epsilon"`
}

// Default returns a configuration that produces rolling terrain.
func Default() Config {
	return Config{
		UseNoise:        true,
		Seed:            13,
		Octaves:         5,
		FrequencyGrowth: 2.0,
		AmplitudeDecay:  0.5,
		NoiseScale:      5,
		TerrainHeight:   10,
		SharpRidges:     true,

		ChunkFootprint:     16,
		VoxelsPerChunkSide: 4,
		MaxHeight:          100,

		ViewDistance:         8,
		LODStartDistance:     2,
		DeleteHysteresis:     2,
		MaxDetailLevel:       mesh.LODFull,
		MinDetailLevel:       mesh.LODQuarter,
		ChunksCreatedPerTick: 4,

		FrameInterval:    16 * time.Millisecond,
		FixedEvery:       3,
		LODIntervalTicks: 50,
		MeshWorkers:      0,
		EditBrushEpsilon: 0.25,
	}
}

// Load reads a YAML file on top of Default, then sanitizes and validates it.
// The returned adjustments describe every value that had to be clamped.
func Load(path string) (Config, []string, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, nil, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, nil, fmt.Errorf("%s: %w", path, err)
	}
	adjustments := cfg.Sanitize()
	return cfg, adjustments, nil
}

// Validate reports values that cannot be repaired by clamping.
func (c Config) Validate() error {
	var err error
	for name, v := range map[string]float64{
		"frequency_growth":   c.FrequencyGrowth,
		"amplitude_decay":    c.AmplitudeDecay,
		"noise_scale":        c.NoiseScale,
		"edit_brush_epsilon": c.EditBrushEpsilon,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			err = multierr.Append(err, fmt.Errorf("%s must be finite, got %v", name, v))
		}
	}
	if c.NoiseScale < 0 {
		err = multierr.Append(err, fmt.Errorf("noise_scale must not be negative, got %v", c.NoiseScale))
	}
	if !c.MaxDetailLevel.Valid() {
		err = multierr.Append(err, fmt.Errorf("max_detail_level out of range: %d", int(c.MaxDetailLevel)))
	}
	if !c.MinDetailLevel.Valid() {
		err = multierr.Append(err, fmt.Errorf("min_detail_level out of range: %d", int(c.MinDetailLevel)))
	}
	if c.ChunkFootprint < 0 || c.VoxelsPerChunkSide < 0 || c.MaxHeight < 0 {
		err = multierr.Append(err, fmt.Errorf("chunk dimensions must not be negative"))
	}
	return err
}

// Sanitize clamps degenerate values to safe minimums in place and returns a
// description of each change.
func (c *Config) Sanitize() []string {
	var changes []string
	clampInt := func(name string, v *int, min int) {
		if *v < min {
			changes = append(changes, fmt.Sprintf("%s %d raised to %d", name, *v, min))
			*v = min
		}
	}

	clampInt("terrain_height", &c.TerrainHeight, 1)
	clampInt("octaves", &c.Octaves, 1)
	clampInt("chunk_footprint", &c.ChunkFootprint, 1)
	clampInt("voxels_per_chunk_side", &c.VoxelsPerChunkSide, 1)
	clampInt("max_height", &c.MaxHeight, 1)
	clampInt("view_distance", &c.ViewDistance, 1)
	clampInt("lod_start_distance", &c.LODStartDistance, 0)
	clampInt("delete_hysteresis", &c.DeleteHysteresis, 1)
	clampInt("chunks_created_per_tick", &c.ChunksCreatedPerTick, 1)
	clampInt("fixed_every", &c.FixedEvery, 1)
	clampInt("lod_interval_ticks", &c.LODIntervalTicks, 1)
	clampInt("mesh_workers", &c.MeshWorkers, 0)

	if c.LODStartDistance >= c.ViewDistance {
		changes = append(changes, fmt.Sprintf("lod_start_distance %d lowered to %d", c.LODStartDistance, c.ViewDistance-1))
		c.LODStartDistance = c.ViewDistance - 1
	}
	if c.NoiseScale <= 0 {
		changes = append(changes, fmt.Sprintf("noise_scale %v raised to 1", c.NoiseScale))
		c.NoiseScale = 1
	}
	if c.EditBrushEpsilon < 0 {
		changes = append(changes, fmt.Sprintf("edit_brush_epsilon %v raised to 0", c.EditBrushEpsilon))
		c.EditBrushEpsilon = 0
	}
	c.MaxDetailLevel = c.MaxDetailLevel.Clamp()
	c.MinDetailLevel = c.MinDetailLevel.Clamp()
	if c.MinDetailLevel < c.MaxDetailLevel {
		changes = append(changes, fmt.Sprintf("detail levels swapped: max %v, min %v", c.MinDetailLevel, c.MaxDetailLevel))
		c.MaxDetailLevel, c.MinDetailLevel = c.MinDetailLevel, c.MaxDetailLevel
	}
	if c.FrameInterval <= 0 {
		changes = append(changes, fmt.Sprintf("frame_interval %v raised to 16ms", c.FrameInterval))
		c.FrameInterval = 16 * time.Millisecond
	}
	return changes
}

// VoxelScale is the edge length of one voxel in world units.
func (c Config) VoxelScale() float32 {
	side := c.VoxelsPerChunkSide
	if side < 1 {
		side = 1
	}
	return float32(c.ChunkFootprint) / float32(side)
}

// GridHeight is the number of voxel layers needed to hold MaxHeight.
func (c Config) GridHeight() int {
	scale := c.VoxelScale()
	if scale <= 0 {
		return 1
	}
	h := int(math.Ceil(float64(c.MaxHeight) / float64(scale)))
	if h < 1 {
		h = 1
	}
	return h
}

// Terrain extracts the generator parameters.
func (c Config) Terrain() terrain.Params {
	return terrain.Params{
		UseNoise:        c.UseNoise,
		Seed:            c.Seed,
		Octaves:         c.Octaves,
		FrequencyGrowth: c.FrequencyGrowth,
		AmplitudeDecay:  c.AmplitudeDecay,
		Scale:           c.NoiseScale,
		TerrainHeight:   c.TerrainHeight,
		SharpRidges:     c.SharpRidges,
	}
}
