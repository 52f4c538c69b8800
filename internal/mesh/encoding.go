package mesh

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/klauspost/compress/zstd"
)

const (
	geometryMagic   uint32 = 0x56584D53 // "VXMS"
	geometryVersion uint32 = 1
)

var (
	encoder, _ = zstd.NewWriter(nil)
	decoder, _ = zstd.NewReader(nil)
)

// Encode writes geometry as a zstd-compressed little-endian payload, the
// form published to out-of-process renderers and collision builders.
func Encode(g *Geometry) ([]byte, error) {
	if g == nil {
		g = &Geometry{}
	}
	if len(g.Colors) != len(g.Positions) || len(g.UVs) != len(g.Positions) || len(g.Normals) != len(g.Positions) {
		return nil, fmt.Errorf("geometry buffers are not parallel: %d positions, %d colors, %d uvs, %d normals",
			len(g.Positions), len(g.Colors), len(g.UVs), len(g.Normals))
	}

	var buf bytes.Buffer
	header := []uint32{geometryMagic, geometryVersion, uint32(len(g.Positions)), uint32(len(g.Indices))}
	if err := binary.Write(&buf, binary.LittleEndian, header); err != nil {
		return nil, err
	}
	for _, section := range []interface{}{g.Positions, g.Colors, g.UVs, g.Normals, g.Indices} {
		if err := binary.Write(&buf, binary.LittleEndian, section); err != nil {
			return nil, err
		}
	}
	return encoder.EncodeAll(buf.Bytes(), nil), nil
}

// Decode reverses Encode.
func Decode(data []byte) (*Geometry, error) {
	raw, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress geometry: %w", err)
	}
	r := bytes.NewReader(raw)

	var header [4]uint32
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read geometry header: %w", err)
	}
	if header[0] != geometryMagic {
		return nil, fmt.Errorf("invalid geometry magic: %x", header[0])
	}
	if header[1] != geometryVersion {
		return nil, fmt.Errorf("unsupported geometry version: %d", header[1])
	}

	vertices, indices := int(header[2]), int(header[3])
	// 12+16+8+12 bytes per vertex, 4 per index.
	if need := vertices*48 + indices*4; need != r.Len() {
		return nil, fmt.Errorf("geometry payload size mismatch: want %d bytes, have %d", need, r.Len())
	}

	g := &Geometry{
		Positions: make([]mgl32.Vec3, vertices),
		Colors:    make([]mgl32.Vec4, vertices),
		UVs:       make([]mgl32.Vec2, vertices),
		Normals:   make([]mgl32.Vec3, vertices),
		Indices:   make([]uint32, indices),
	}
	for _, section := range []interface{}{g.Positions, g.Colors, g.UVs, g.Normals, g.Indices} {
		if err := binary.Read(r, binary.LittleEndian, section); err != nil {
			return nil, fmt.Errorf("failed to read geometry buffers: %w", err)
		}
	}
	return g, nil
}
