// Package rng provides a stateless hash based random source.
//
// Every draw takes a seed and hands back the next one, so a pixel's stream is
// fully determined by its starting seed and can be replayed in tests.
package rng

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// float draws keep 24 bits so the value fits a float32 mantissa exactly
	floatBits  = 24
	floatScale = 1.0 / float32(1<<floatBits)

	maxUnitVectorRetries = 8
)

// PCGHash hashes seed with the PCG RXS-M-XS output permutation.
func PCGHash(seed uint32) uint32 {
	state := seed*747796405 + 2891336453
	word := ((state >> ((state >> 28) + 4)) ^ state) * 277803737
	return (word >> 22) ^ word
}

// Float returns a value in [0,1) together with the seed for the next draw.
func Float(seed uint32) (float32, uint32) {
	next := PCGHash(seed)
	return float32(next>>(32-floatBits)) * floatScale, next
}

// UnitVec3 returns a random direction of length 1.
// Components are drawn independently in [-1,1] and normalized; a zero length
// draw is retried from the advanced seed.
func UnitVec3(seed uint32) (mgl32.Vec3, uint32) {
	for range maxUnitVectorRetries {
		var v mgl32.Vec3
		for i := range v {
			var f float32
			f, seed = Float(seed)
			v[i] = f*2 - 1
		}
		lenSq := v.Dot(v)
		if lenSq > 1e-12 {
			return v.Mul(1 / math32.Sqrt(lenSq)), seed
		}
	}
	return mgl32.Vec3{0, 1, 0}, seed
}

// PixelSeed is the starting seed of pixel (x, y) for the given accumulation frame.
func PixelSeed(x, y, width, frameIndex uint32) uint32 {
	return (x + y*width) * frameIndex
}
