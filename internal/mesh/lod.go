package mesh

import (
	"fmt"
	"math"
	"strings"
)

// LOD is a level of detail. Each step doubles the voxel sampling stride.
type LOD int

const (
	LODFull LOD = iota
	LODHalf
	LODQuarter
	LODEighth
	LODSixteenth
)

// LODLevels is the number of defined levels.
const LODLevels = 5

var lodNames = [LODLevels]string{"full", "half", "quarter", "eighth", "sixteenth"}

// Clamp limits l to the defined levels.
func (l LOD) Clamp() LOD {
	if l < LODFull {
		return LODFull
	}
	if l > LODSixteenth {
		return LODSixteenth
	}
	return l
}

// Stride is the sampling step of the level: 1, 2, 4, 8 or 16.
func (l LOD) Stride() int {
	return 1 << uint(l.Clamp())
}

func (l LOD) Valid() bool {
	return l >= LODFull && l <= LODSixteenth
}

func (l LOD) String() string {
	if !l.Valid() {
		return fmt.Sprintf("LOD(%d)", int(l))
	}
	return lodNames[l]
}

// ParseLOD accepts a level name ("half") or its stride ("2").
func ParseLOD(s string) (LOD, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range lodNames {
		if s == name {
			return LOD(i), nil
		}
	}
	for i := 0; i < LODLevels; i++ {
		if s == fmt.Sprint(LOD(i).Stride()) {
			return LOD(i), nil
		}
	}
	return LODFull, fmt.Errorf("unknown level of detail %q", s)
}

func (l LOD) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid level of detail %d", int(l))
	}
	return []byte(l.String()), nil
}

func (l *LOD) UnmarshalText(text []byte) error {
	parsed, err := ParseLOD(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Lerp interpolates between two levels and rounds to the nearest one.
func Lerp(from, to LOD, t float64) LOD {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	v := float64(from) + (float64(to)-float64(from))*t
	return LOD(math.Round(v)).Clamp()
}
