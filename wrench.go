package kin

import "fmt"

// Wrench is a 3 component reaction: a linear X/Y part plus a torque about
// the body origin.
type Wrench struct {
	X, Y, T float64
}

func (w Wrench) String() string {
	return fmt.Sprintf("%f,%f,%f", w.X, w.Y, w.T)
}

func (w Wrench) Add(other Wrench) Wrench {
	return Wrench{w.X + other.X, w.Y + other.Y, w.T + other.T}
}

func (w Wrench) Mult(s float64) Wrench {
	return Wrench{w.X * s, w.Y * s, w.T * s}
}

func (w Wrench) IsZero() bool {
	return w.X == 0 && w.Y == 0 && w.T == 0
}
