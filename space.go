package kin

import "math"

type Space struct {
	Iterations uint // Number of solver iterations per step

	IdleSpeedThreshold float64
	SleepTimeThreshold float64

	gravity Vector
	damping float64

	currDT float64

	locked int

	dynamicBodies      []*Body
	staticBodies       []*Body
	rousedBodies       []*Body
	sleepingComponents []*Body

	constraints []*Constraint

	StaticBody *Body
}

func NewSpace() *Space {
	space := &Space{
		Iterations:         10,
		gravity:            Vector{},
		damping:            1.0,
		locked:             0,
		dynamicBodies:      []*Body{},
		staticBodies:       []*Body{},
		rousedBodies:       []*Body{},
		sleepingComponents: []*Body{},
		constraints:        []*Constraint{},
		SleepTimeThreshold: math.MaxFloat64,
		IdleSpeedThreshold: 0.0,
		StaticBody:         NewStaticBody(),
	}
	space.StaticBody.space = space
	space.staticBodies = append(space.staticBodies, space.StaticBody)
	return space
}

func (space *Space) Gravity() Vector {
	return space.gravity
}

func (space *Space) SetGravity(gravity Vector) {
	space.gravity = gravity

	// Wake up all of the bodies since the gravity changed.
	components := append([]*Body{}, space.sleepingComponents...)
	for _, root := range components {
		root.Activate()
	}
}

func (space *Space) Damping() float64 {
	return space.damping
}

func (space *Space) SetDamping(damping float64) {
	space.damping = damping
}

// Stepping reports whether a Step is in progress. Constraint bound setters
// refuse to run while it is true.
func (space *Space) Stepping() bool {
	return space.locked > 0
}

// WakeConstraint marks a constraint as needing re-solving: its bodies are
// roused out of any sleeping component so the next Step resolves it.
func (space *Space) WakeConstraint(c *Constraint) {
	c.ActivateBodies()
}

func (space *Space) AddBody(body *Body) (*Body, error) {
	if body.space != nil {
		return nil, &InvalidStateError{Op: "AddBody", Msg: "body is already added to a space"}
	}
	if space.locked > 0 {
		return nil, &InvalidStateError{Op: "AddBody", Msg: "space is locked mid-step"}
	}

	if body.GetType() == BODY_STATIC {
		space.staticBodies = append(space.staticBodies, body)
	} else {
		space.dynamicBodies = append(space.dynamicBodies, body)
	}
	body.space = space
	return body, nil
}

func (space *Space) RemoveBody(body *Body) error {
	if body.space != space {
		return &InvalidStateError{Op: "RemoveBody", Msg: "body is not added to this space"}
	}
	if space.locked > 0 {
		return &InvalidStateError{Op: "RemoveBody", Msg: "space is locked mid-step"}
	}

	body.Activate()
	if body.GetType() == BODY_STATIC {
		space.staticBodies = removeBody(space.staticBodies, body)
	} else {
		space.dynamicBodies = removeBody(space.dynamicBodies, body)
	}
	body.space = nil
	return nil
}

// AddConstraint attaches the constraint to this space and activates it. From
// here on the constraint's introspection reports live solver state and its
// mutations wake this space.
func (space *Space) AddConstraint(c *Constraint) (*Constraint, error) {
	if c.sim != nil {
		return nil, &InvalidStateError{Op: "AddConstraint", Msg: "constraint is already added to a space"}
	}
	if space.locked > 0 {
		return nil, &InvalidStateError{Op: "AddConstraint", Msg: "space is locked mid-step"}
	}

	c.ActivateBodies()
	c.sim = space
	c.active = true
	space.constraints = append(space.constraints, c)
	return c, nil
}

func (space *Space) RemoveConstraint(c *Constraint) error {
	if c.sim != space {
		return &InvalidStateError{Op: "RemoveConstraint", Msg: "constraint is not added to this space"}
	}
	if space.locked > 0 {
		return &InvalidStateError{Op: "RemoveConstraint", Msg: "space is locked mid-step"}
	}

	c.ActivateBodies()
	for i, constraint := range space.constraints {
		if constraint == c {
			space.constraints = append(space.constraints[:i], space.constraints[i+1:]...)
			break
		}
	}
	c.sim = nil
	c.active = false
	return nil
}

// Activate puts a roused body back on the dynamic list. Deferred while the
// space is locked; Unlock flushes the roused list.
func (space *Space) Activate(body *Body) {
	if space.locked > 0 {
		if !containsBody(space.rousedBodies, body) {
			space.rousedBodies = append(space.rousedBodies, body)
		}
		return
	}

	space.dynamicBodies = append(space.dynamicBodies, body)
}

func (space *Space) Lock() {
	space.locked++
}

func (space *Space) Unlock() {
	space.locked--

	if space.locked == 0 {
		waking := space.rousedBodies
		space.rousedBodies = space.rousedBodies[0:0]
		for _, body := range waking {
			space.dynamicBodies = append(space.dynamicBodies, body)
		}
	}
}

func (space *Space) EachBody(f func(body *Body)) {
	space.Lock()
	defer space.Unlock()

	for _, body := range space.dynamicBodies {
		f(body)
	}
	for _, body := range space.staticBodies {
		f(body)
	}
	for _, root := range space.sleepingComponents {
		body := root
		for body != nil {
			f(body)
			body = body.sleepingNext
		}
	}
}

func (space *Space) EachConstraint(f func(*Constraint)) {
	space.Lock()
	defer space.Unlock()

	for _, c := range space.constraints {
		f(c)
	}
}

func (space *Space) Step(dt float64) {
	if dt == 0 {
		return
	}

	prevDT := space.currDT
	space.currDT = dt

	bodies := space.dynamicBodies
	constraints := space.constraints

	space.Lock()
	{
		for _, body := range bodies {
			body.position_func(body, dt)
		}
	}
	space.Unlock()

	space.processSleeping(dt)

	space.Lock()
	{
		// Prestep the constraints.
		for _, constraint := range constraints {
			if constraint.PreSolve != nil {
				constraint.PreSolve(constraint, space)
			}
			if !constraint.linked() || constraint.resting() {
				continue
			}

			constraint.Class.PreStep(dt)
		}

		// Integrate velocities.
		damping := math.Pow(space.damping, dt)
		gravity := space.gravity
		for _, body := range space.dynamicBodies {
			body.velocity_func(body, gravity, damping, dt)
		}

		// Apply cached impulses
		var dtCoef float64
		if prevDT != 0 {
			dtCoef = dt / prevDT
		}
		for _, constraint := range constraints {
			if constraint.linked() && !constraint.resting() {
				constraint.Class.ApplyCachedImpulse(dtCoef)
			}
		}

		// Run the impulse solver.
		var i uint
		for i = 0; i < space.Iterations; i++ {
			for _, constraint := range constraints {
				if constraint.linked() && !constraint.resting() {
					constraint.Class.ApplyImpulse(dt)
				}
			}
		}

		// Run the constraint post-solve callbacks
		for _, constraint := range constraints {
			if constraint.PostSolve != nil {
				constraint.PostSolve(constraint, space)
			}
		}
	}
	space.Unlock()
}

// processSleeping settles idle bodies into sleeping components. Bodies joined
// by a constraint share wakefulness: neither side may out-sleep the other,
// and a component only sleeps when every member has been idle past the
// threshold.
func (space *Space) processSleeping(dt float64) {
	if space.SleepTimeThreshold == INFINITY {
		return
	}

	dv := space.IdleSpeedThreshold
	dvsq := dv * dv
	if dv == 0 {
		dvsq = space.gravity.LengthSq() * dt * dt
	}

	for _, body := range space.dynamicBodies {
		if body.KineticEnergy() > dvsq*body.m {
			body.sleepingIdleTime = 0
		} else {
			body.sleepingIdleTime += dt
		}
	}

	for _, c := range space.constraints {
		if !c.linked() {
			continue
		}
		idle := math.Min(c.a.sleepingIdleTime, c.b.sleepingIdleTime)
		if c.a.GetType() == BODY_DYNAMIC && idle < c.a.sleepingIdleTime {
			c.a.sleepingIdleTime = idle
		}
		if c.b.GetType() == BODY_DYNAMIC && idle < c.b.sleepingIdleTime {
			c.b.sleepingIdleTime = idle
		}
	}

	// Flood out from each tired body over the constraint graph; the whole
	// component goes down together or not at all.
	visited := map[*Body]bool{}
	candidates := append([]*Body{}, space.dynamicBodies...)
	for _, body := range candidates {
		if body.GetType() != BODY_DYNAMIC || visited[body] {
			continue
		}
		if body.sleepingIdleTime < space.SleepTimeThreshold {
			continue
		}

		component := space.collectComponent(body, visited)
		tired := true
		for _, member := range component {
			if member.sleepingIdleTime < space.SleepTimeThreshold {
				tired = false
				break
			}
		}
		if !tired {
			continue
		}

		root := component[0]
		space.sleepingComponents = append(space.sleepingComponents, root)
		for _, member := range component {
			root.ComponentAdd(member)
			space.dynamicBodies = removeBody(space.dynamicBodies, member)
		}
	}
}

// collectComponent gathers the dynamic bodies reachable from body over the
// constraint graph, marking them visited.
func (space *Space) collectComponent(body *Body, visited map[*Body]bool) []*Body {
	component := []*Body{body}
	visited[body] = true

	for i := 0; i < len(component); i++ {
		current := component[i]
		for _, c := range space.constraints {
			if !c.linked() {
				continue
			}
			var other *Body
			if c.a == current {
				other = c.b
			} else if c.b == current {
				other = c.a
			} else {
				continue
			}
			if other.GetType() == BODY_DYNAMIC && !visited[other] {
				visited[other] = true
				component = append(component, other)
			}
		}
	}
	return component
}

func containsBody(bodies []*Body, body *Body) bool {
	for _, b := range bodies {
		if b == body {
			return true
		}
	}
	return false
}

func removeBody(bodies []*Body, body *Body) []*Body {
	for i, b := range bodies {
		if b == body {
			return append(bodies[:i], bodies[i+1:]...)
		}
	}
	return bodies
}
