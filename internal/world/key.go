package world

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Key is a chunk coordinate: world origin divided by the chunk footprint.
type Key struct {
	X, Z int
}

// KeyFor returns the key of the chunk containing p. Negative coordinates
// floor, so x in [-footprint, 0) maps to -1.
func KeyFor(p mgl32.Vec3, footprint float32) Key {
	return Key{
		X: int(math.Floor(float64(p.X() / footprint))),
		Z: int(math.Floor(float64(p.Z() / footprint))),
	}
}

func (k Key) Add(dx, dz int) Key {
	return Key{X: k.X + dx, Z: k.Z + dz}
}

// Origin is the world-space minimum corner of the chunk.
func (k Key) Origin(footprint float32) mgl32.Vec3 {
	return mgl32.Vec3{float32(k.X) * footprint, 0, float32(k.Z) * footprint}
}

// Center is the middle of the chunk footprint at height y.
func (k Key) Center(footprint, y float32) mgl32.Vec3 {
	half := footprint / 2
	return mgl32.Vec3{float32(k.X)*footprint + half, y, float32(k.Z)*footprint + half}
}

func (k Key) String() string {
	return fmt.Sprintf("(%d,%d)", k.X, k.Z)
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}

// planarDistance ignores the vertical axis.
func planarDistance(a, b mgl32.Vec3) float32 {
	return mgl32.Vec2{a.X() - b.X(), a.Z() - b.Z()}.Len()
}
