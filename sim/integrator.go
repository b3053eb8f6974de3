package sim

// State is the flat per-volume state vector. Its layout is owned by the
// model producing it.
type State []float64

// TransientModel is the capability integrators step: an initial state,
// the derivative function and the state arithmetic used to combine
// stage evaluations.
//
// RHS may mutate the model (warm-start caches, mode tracking), so a
// model instance belongs to one run at a time.
type TransientModel interface {
	InitialState() State
	RHS(t float64, x State) (State, error)
	Add(a, b State) State
	Scale(a State, k float64) State
}

// Integrator advances a model state by one fixed step.
type Integrator interface {
	Step(m TransientModel, t float64, x State, dt float64) (State, error)
}

// ForwardEuler is the explicit first-order stepper: one RHS call per
// step. Cheap, and accurate enough when dt resolves the fastest volume
// time constant.
type ForwardEuler struct{}

func (ForwardEuler) Step(m TransientModel, t float64, x State, dt float64) (State, error) {
	xdot, err := m.RHS(t, x)
	if err != nil {
		return nil, err
	}

	return m.Add(x, m.Scale(xdot, dt)), nil
}

// RK4 is the classical fourth-order Runge-Kutta stepper: four RHS calls
// per step.
type RK4 struct{}

func (RK4) Step(m TransientModel, t float64, x State, dt float64) (State, error) {
	k1, err := m.RHS(t, x)
	if err != nil {
		return nil, err
	}
	k2, err := m.RHS(t+0.5*dt, m.Add(x, m.Scale(k1, 0.5*dt)))
	if err != nil {
		return nil, err
	}
	k3, err := m.RHS(t+0.5*dt, m.Add(x, m.Scale(k2, 0.5*dt)))
	if err != nil {
		return nil, err
	}
	k4, err := m.RHS(t+dt, m.Add(x, m.Scale(k3, dt)))
	if err != nil {
		return nil, err
	}

	// x + (dt/6)·(k1 + 2k2 + 2k3 + k4)
	sum := m.Add(m.Add(k1, m.Scale(k2, 2.0)), m.Add(m.Scale(k3, 2.0), k4))

	return m.Add(x, m.Scale(sum, dt/6.0)), nil
}
