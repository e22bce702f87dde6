package kin

import "math"

// DistanceJoint keeps the distance between two anchor points inside
// [JointMin, JointMax]. Strictly inside the interval the joint is slack and
// exerts no force; at or beyond a bound it pushes or pulls along the line
// between the anchors.
//
// The joint is the validating façade; all physically meaningful state lives
// on its solver-facing twin, created with it and destroyed with it. Bounds
// may not be mutated while the owning space is mid-step.
type DistanceJoint struct {
	*Constraint

	state *distanceJointState
}

// distanceJointState is the solver-facing half of a distance joint. The step
// loop is the only writer of jAcc and slack; the façade reads them back out
// through IsSlack and Impulse.
type distanceJointState struct {
	joint *DistanceJoint

	anchor1, anchor2   Vector
	jointMin, jointMax float64

	// accumulated impulse along the joint axis, and whether the current
	// anchor distance sits strictly inside the bounds
	jAcc  float64
	slack bool

	// per-step scratch
	r1, r2, n   Vector
	nMass, bias float64
}

// NewDistanceJoint assigns each field through its normal validated setter, in
// order: bodies, anchors, jointMin, jointMax. A validation failure on a later
// field is returned after the earlier fields were already applied; there is
// no rollback.
func NewDistanceJoint(body1, body2 *Body, anchor1, anchor2 Vector, jointMin, jointMax float64) (*DistanceJoint, error) {
	state := &distanceJointState{}
	joint := &DistanceJoint{state: state}
	state.joint = joint
	joint.Constraint = NewConstraint(state, nil, nil)

	joint.SetBody1(body1)
	joint.SetBody2(body2)
	joint.SetAnchor1(anchor1)
	joint.SetAnchor2(anchor2)
	if err := joint.SetJointMin(jointMin); err != nil {
		return nil, err
	}
	if err := joint.SetJointMax(jointMax); err != nil {
		return nil, err
	}
	return joint, nil
}

func (joint *DistanceJoint) Body1() *Body {
	return joint.a
}

// SetBody1 relinks the first body slot. Any value is accepted, including nil
// and the body already held by the other slot. Assigning the current value
// is a no-op with no wake.
func (joint *DistanceJoint) SetBody1(body *Body) {
	if body == joint.a {
		return
	}
	if joint.a != nil {
		joint.a.Activate()
	}
	joint.a = body
	joint.wake()
}

func (joint *DistanceJoint) Body2() *Body {
	return joint.b
}

func (joint *DistanceJoint) SetBody2(body *Body) {
	if body == joint.b {
		return
	}
	if joint.b != nil {
		joint.b.Activate()
	}
	joint.b = body
	joint.wake()
}

func (joint *DistanceJoint) Anchor1() Vector {
	return joint.state.anchor1
}

// SetAnchor1 replaces the first anchor, given in body1's local frame. Every
// assignment wakes the simulation; anchors carry no validation.
func (joint *DistanceJoint) SetAnchor1(anchor Vector) {
	joint.state.anchor1 = anchor
	joint.wake()
}

func (joint *DistanceJoint) Anchor2() Vector {
	return joint.state.anchor2
}

func (joint *DistanceJoint) SetAnchor2(anchor Vector) {
	joint.state.anchor2 = anchor
	joint.wake()
}

func (joint *DistanceJoint) JointMin() float64 {
	return joint.state.jointMin
}

// SetJointMin validates and stores the lower bound. NaN and negative values
// fail with a ValidationError, mutation while the owning space is stepping
// fails with an InvalidStateError, and assigning the current value is a
// silent no-op. JointMin <= JointMax is the caller's responsibility and is
// deliberately not checked; an inverted interval yields a joint that is
// never slack.
func (joint *DistanceJoint) SetJointMin(jointMin float64) error {
	if math.IsNaN(jointMin) {
		return &ValidationError{Field: "jointMin", Msg: "cannot be NaN"}
	}
	if jointMin < 0 {
		return &ValidationError{Field: "jointMin", Msg: "must be >= 0"}
	}
	if joint.stepping() {
		return &InvalidStateError{Op: "SetJointMin", Msg: "immutable mid-step"}
	}
	if jointMin == joint.state.jointMin {
		return nil
	}
	joint.state.jointMin = jointMin
	joint.wake()
	return nil
}

func (joint *DistanceJoint) JointMax() float64 {
	return joint.state.jointMax
}

// SetJointMax validates and stores the upper bound under the same contract
// as SetJointMin.
func (joint *DistanceJoint) SetJointMax(jointMax float64) error {
	if math.IsNaN(jointMax) {
		return &ValidationError{Field: "jointMax", Msg: "cannot be NaN"}
	}
	if jointMax < 0 {
		return &ValidationError{Field: "jointMax", Msg: "must be >= 0"}
	}
	if joint.stepping() {
		return &InvalidStateError{Op: "SetJointMax", Msg: "immutable mid-step"}
	}
	if jointMax == joint.state.jointMax {
		return nil
	}
	joint.state.jointMax = jointMax
	joint.wake()
	return nil
}

// IsSlack reports whether the anchor distance sat strictly inside
// (JointMin, JointMax) at the last step. Distances exactly on a bound count
// as active. The flag is recomputed by the solver once per step.
func (joint *DistanceJoint) IsSlack() (bool, error) {
	if joint.a == nil || joint.b == nil {
		return false, &InvalidStateError{Op: "IsSlack", Msg: "cannot compute slack when either body is null"}
	}
	return joint.state.slack, nil
}

// BodyImpulse returns the reaction the joint applied to the given body at
// the last step, as a wrench in the body's local frame. An inactive joint
// yields a zero wrench. The body must be one of the joint's two slots.
func (joint *DistanceJoint) BodyImpulse(body *Body) (Wrench, error) {
	if body == nil {
		return Wrench{}, &InvalidStateError{Op: "BodyImpulse", Msg: "cannot evaluate impulse on null body"}
	}
	if body != joint.a && body != joint.b {
		return Wrench{}, &InvalidStateError{Op: "BodyImpulse", Msg: "body is not linked to this constraint"}
	}
	if !joint.active {
		return Wrench{}, nil
	}
	return joint.state.bodyImpulse(body), nil
}

func (state *distanceJointState) PreStep(dt float64) {
	joint := state.joint
	a := joint.a
	b := joint.b

	state.r1 = a.transform.Vect(state.anchor1.Sub(a.cog))
	state.r2 = b.transform.Vect(state.anchor2.Sub(b.cog))

	delta := b.p.Add(state.r2).Sub(a.p.Add(state.r1))
	dist := delta.Length()
	pdist := 0.0
	state.slack = false
	if dist >= state.jointMax {
		pdist = dist - state.jointMax
		state.n = delta.Normalize()
	} else if dist <= state.jointMin {
		pdist = state.jointMin - dist
		state.n = delta.Normalize().Neg()
	} else {
		state.slack = true
		state.n = Vector{}
		state.jAcc = 0
	}

	// calculate the mass normal
	state.nMass = 1.0 / kScalar(a, b, state.r1, state.r2, state.n)

	// calculate bias velocity
	maxBias := joint.maxBias
	state.bias = Clamp(-biasCoef(joint.errorBias, dt)*pdist/dt, -maxBias, maxBias)
}

func (state *distanceJointState) ApplyCachedImpulse(dtCoef float64) {
	joint := state.joint

	j := state.n.Mult(state.jAcc * dtCoef)
	applyImpulses(joint.a, joint.b, state.r1, state.r2, j)
}

func (state *distanceJointState) ApplyImpulse(dt float64) {
	if state.n.Equal(Vector{}) {
		return
	}

	joint := state.joint
	a := joint.a
	b := joint.b
	n := state.n

	vr := relativeVelocity(a, b, state.r1, state.r2)
	vrn := vr.Dot(n)

	jn := (state.bias - vrn) * state.nMass
	jnOld := state.jAcc
	state.jAcc = Clamp(jnOld+jn, -joint.maxForce*dt, 0)
	jn = state.jAcc - jnOld

	applyImpulses(a, b, state.r1, state.r2, n.Mult(jn))
}

func (state *distanceJointState) Impulse() *Matrix {
	m := NewMatrix(1, 1)
	m.Set(0, 0, math.Abs(state.jAcc))
	return m
}

// bodyImpulse projects the scalar accumulated impulse onto one endpoint: the
// world-space impulse rotated into the body's frame, plus the torque it
// produced about the body's center of gravity.
func (state *distanceJointState) bodyImpulse(body *Body) Wrench {
	j := state.n.Mult(state.jAcc)
	r := state.r2
	if body == state.joint.a {
		j = j.Neg()
		r = state.r1
	}

	local := NewTransformRigidInverse(body.transform).Vect(j)
	return Wrench{X: local.X, Y: local.Y, T: r.Cross(j)}
}
