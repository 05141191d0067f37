package common

import "github.com/go-gl/mathgl/mgl32"

type Vec3 = mgl32.Vec3
type Vec2 = mgl32.Vec2

// Frame is a 3x4 affine transform, 12 floats in column-major order.
type Frame = mgl32.Mat3x4

type IT interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

func Min[T IT](a, b T) T {
	if a < b {
		return a
	}
	return b
}

func Max[T IT](a, b T) T {
	if a > b {
		return a
	}
	return b
}

func Clamp[T IT](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
