package common

import "math"

// Vec2 is a point or displacement in scene coordinates (y grows upward).
type Vec2 struct {
	X float64
	Y float64
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Size is a 2D extent.
type Size struct {
	Width  float64
	Height float64
}

func Lerp(a, b, t float32) float32 {
	return a + t*(b-a)
}
