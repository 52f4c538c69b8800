package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLODStride(t *testing.T) {
	want := []int{1, 2, 4, 8, 16}
	for i, s := range want {
		assert.Equal(t, s, LOD(i).Stride(), "level %d", i)
	}
	assert.Equal(t, 1, LOD(-3).Stride())
	assert.Equal(t, 16, LOD(9).Stride())
}

func TestParseLOD(t *testing.T) {
	for in, want := range map[string]LOD{
		"full":    LODFull,
		" Half ":  LODHalf,
		"quarter": LODQuarter,
		"8":       LODEighth,
		"16":      LODSixteenth,
	} {
		got, err := ParseLOD(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLOD("3")
	assert.Error(t, err)
	_, err = ParseLOD("ultra")
	assert.Error(t, err)
}

func TestLODText(t *testing.T) {
	text, err := LODEighth.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "eighth", string(text))

	var l LOD
	require.NoError(t, l.UnmarshalText(text))
	assert.Equal(t, LODEighth, l)

	_, err = LOD(7).MarshalText()
	assert.Error(t, err)
	assert.Equal(t, "LOD(7)", LOD(7).String())
}

func TestLerp(t *testing.T) {
	assert.Equal(t, LODFull, Lerp(LODFull, LODQuarter, 0))
	assert.Equal(t, LODHalf, Lerp(LODFull, LODQuarter, 0.5))
	assert.Equal(t, LODQuarter, Lerp(LODFull, LODQuarter, 1))
	assert.Equal(t, LODQuarter, Lerp(LODFull, LODQuarter, 4), "t is clamped")
	assert.Equal(t, LODQuarter, Lerp(LODQuarter, LODFull, -1))
}
