package kin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatrix(t *testing.T) {
	m := NewMatrix(2, 3)
	assert.Equal(t, 0.0, m.At(1, 2))

	m.Set(1, 2, 7)
	m.Set(0, 0, -1)
	assert.Equal(t, 7.0, m.At(1, 2))
	assert.Equal(t, -1.0, m.At(0, 0))

	m.Zero()
	assert.Equal(t, 0.0, m.At(1, 2))
}

func TestMatrixBadDimensions(t *testing.T) {
	assert.Panics(t, func() { NewMatrix(0, 1) })
	assert.Panics(t, func() { NewMatrix(1, -1) })
}

func TestWrench(t *testing.T) {
	assert.True(t, Wrench{}.IsZero())
	assert.False(t, Wrench{T: 1}.IsZero())

	w := Wrench{1, 2, 3}.Add(Wrench{1, 1, 1}).Mult(2)
	assert.Equal(t, Wrench{4, 6, 8}, w)
}
