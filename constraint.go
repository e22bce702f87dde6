package kin

import "math"

// Constrainer is the solver-facing half of a constraint. The step loop drives
// it once per tick: PreStep refreshes cached anchor geometry, the warm start
// re-applies last tick's impulse scaled by the dt ratio, then ApplyImpulse
// runs once per solver iteration. Impulse reports the accumulated impulse in
// the constraint's own shape.
type Constrainer interface {
	PreStep(dt float64)
	ApplyCachedImpulse(dtCoef float64)
	ApplyImpulse(dt float64)
	Impulse() *Matrix
}

// Simulation owns a constraint graph. Constraints hold their owner through
// this interface so mutations can wake it and so setters can refuse to run
// mid-step.
type Simulation interface {
	WakeConstraint(c *Constraint)
	Stepping() bool
}

type ConstraintPreSolveFunc func(*Constraint, *Space)
type ConstraintPostSolveFunc func(*Constraint, *Space)

type Constraint struct {
	Class Constrainer
	sim   Simulation

	a, b *Body

	active bool

	maxForce, errorBias, maxBias float64

	PreSolve  ConstraintPreSolveFunc
	PostSolve ConstraintPostSolveFunc

	UserData interface{}
}

func NewConstraint(class Constrainer, a, b *Body) *Constraint {
	return &Constraint{
		Class: class,
		a:     a,
		b:     b,
		sim:   nil,

		maxForce:  INFINITY,
		errorBias: math.Pow(1.0-0.1, 60.0),
		maxBias:   INFINITY,

		PreSolve:  nil,
		PostSolve: nil,
	}
}

// Active reports whether the constraint participates in the current solve.
func (c *Constraint) Active() bool {
	return c.active
}

func (c *Constraint) ActivateBodies() {
	if c.a != nil {
		c.a.Activate()
	}
	if c.b != nil {
		c.b.Activate()
	}
}

// wake flags the constraint for re-evaluation: both bodies are roused and the
// owning simulation, if any, is notified.
func (c *Constraint) wake() {
	c.ActivateBodies()
	if c.sim != nil {
		c.sim.WakeConstraint(c)
	}
}

// stepping reports whether the owner is mid-step, the window during which
// bound mutation is forbidden.
func (c *Constraint) stepping() bool {
	return c.sim != nil && c.sim.Stepping()
}

// linked reports whether both body slots are filled. Only linked constraints
// are handed to the solver.
func (c *Constraint) linked() bool {
	return c.a != nil && c.b != nil
}

// resting reports whether the constraint has no awake dynamic endpoint and
// can be skipped by the solver. Only meaningful when linked.
func (c *Constraint) resting() bool {
	aAwake := c.a.GetType() == BODY_DYNAMIC && !c.a.IsSleeping()
	bAwake := c.b.GetType() == BODY_DYNAMIC && !c.b.IsSleeping()
	return !aAwake && !bAwake
}

// Impulse returns the accumulated impulse in the constraint's shape. An
// inactive constraint reports a zero impulse of the same shape, never an
// error.
func (c *Constraint) Impulse() *Matrix {
	m := c.Class.Impulse()
	if !c.active {
		m.Zero()
	}
	return m
}

// VisitBodies calls visit for each linked body, first slot first. A body
// linked in both slots is visited once.
func (c *Constraint) VisitBodies(visit func(*Body)) {
	if c.a != nil {
		visit(c.a)
	}
	if c.b != nil && c.b != c.a {
		visit(c.b)
	}
}

func (c Constraint) MaxForce() float64 {
	return c.maxForce
}

func (c *Constraint) SetMaxForce(max float64) error {
	if math.IsNaN(max) {
		return &ValidationError{Field: "maxForce", Msg: "cannot be NaN"}
	}
	if max < 0 {
		return &ValidationError{Field: "maxForce", Msg: "must be >= 0"}
	}
	if max == c.maxForce {
		return nil
	}
	c.maxForce = max
	c.wake()
	return nil
}

func (c Constraint) MaxBias() float64 {
	return c.maxBias
}

func (c *Constraint) SetMaxBias(max float64) error {
	if math.IsNaN(max) {
		return &ValidationError{Field: "maxBias", Msg: "cannot be NaN"}
	}
	if max < 0 {
		return &ValidationError{Field: "maxBias", Msg: "must be >= 0"}
	}
	if max == c.maxBias {
		return nil
	}
	c.maxBias = max
	c.wake()
	return nil
}

func (c Constraint) ErrorBias() float64 {
	return c.errorBias
}

func (c *Constraint) SetErrorBias(errorBias float64) error {
	if math.IsNaN(errorBias) {
		return &ValidationError{Field: "errorBias", Msg: "cannot be NaN"}
	}
	if errorBias < 0 {
		return &ValidationError{Field: "errorBias", Msg: "must be >= 0"}
	}
	if errorBias == c.errorBias {
		return nil
	}
	c.errorBias = errorBias
	c.wake()
	return nil
}
