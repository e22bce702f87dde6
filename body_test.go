package kin

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBodySetPosition(t *testing.T) {
	body := NewBody(1, 1)
	body.SetPosition(Vector{10, 10})
	assert.Equal(t, Vector{10, 10}, body.Position())

	body.SetAngle(math.Pi / 2)
	assert.InDelta(t, 10, body.Position().X, 1e-9)
	assert.InDelta(t, 10, body.Position().Y, 1e-9)
}

func TestBodyLocalWorldRoundTrip(t *testing.T) {
	body := NewBody(1, 1)
	body.SetPosition(Vector{3, 4})
	body.SetAngle(math.Pi / 3)

	local := Vector{1, 2}
	world := body.LocalToWorld(local)
	back := body.WorldToLocal(world)
	assert.InDelta(t, local.X, back.X, 1e-9)
	assert.InDelta(t, local.Y, back.Y, 1e-9)
}

func TestBodyTypes(t *testing.T) {
	assert.Equal(t, BODY_DYNAMIC, NewBody(1, 1).GetType())
	assert.Equal(t, BODY_STATIC, NewStaticBody().GetType())
	assert.Equal(t, BODY_KINEMATIC, NewKinematicBody().GetType())
}

func TestBodyApplyImpulse(t *testing.T) {
	body := NewBody(2, 1)
	body.ApplyImpulseAtWorldPoint(Vector{4, 0}, Vector{})
	assert.Equal(t, Vector{2, 0}, body.Velocity())
}

func TestBodyActivateResetsIdleTime(t *testing.T) {
	space := NewSpace()
	space.SleepTimeThreshold = 0.1
	body, err := space.AddBody(NewBody(1, 1))
	require.NoError(t, err)

	for i := 0; i < 30; i++ {
		space.Step(0.01)
	}
	require.True(t, body.IsSleeping())

	body.SetVelocity(1, 0)
	assert.False(t, body.IsSleeping())
	assert.Equal(t, 0.0, body.IdleTime())
}

func TestBodyKineticEnergy(t *testing.T) {
	body := NewBody(2, 3)
	body.SetVelocity(1, 0)
	body.SetAngularVelocity(2)
	assert.Equal(t, 2.0+12.0, body.KineticEnergy())

	// static bodies report no energy even with infinite mass
	static := NewStaticBody()
	assert.Equal(t, 0.0, static.KineticEnergy())
}
