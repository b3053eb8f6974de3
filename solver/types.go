package solver

import (
	"io"
	"log/slog"
	"math"

	"github.com/kyleas/thermoflow-sub000/metrics"
)

// Default solver parameters. Pressures are in Pa, enthalpies in J/kg,
// mass flows in kg/s.
const (
	defaultOuterMaxIter      = 20
	defaultNewtonMaxIter     = 200
	defaultAbsTol            = 1e-6
	defaultRelTol            = 1e-6
	defaultMinPressure       = 1.0
	defaultLineSearchBeta    = 0.5
	defaultMaxLineSearchIter = 25

	defaultEnthalpyRef           = 3.0e5
	defaultWeakFlowMdot          = 1e-3
	defaultWeakFlowEnthalpyScale = 0.25

	defaultMdotTolAbs = 1e-4
	defaultMdotTolRel = 0.01

	// Guesses used for nodes no boundary value propagates to.
	defaultPressureGuess = 101_325.0
	defaultEnthalpyGuess = 3.0e5
)

// Options tunes the steady solve. Zero value is not usable; start from
// DefaultOptions and adjust via With* options.
type Options struct {
	// OuterMaxIter bounds the flow fixed-point loop.
	OuterMaxIter int

	// NewtonMaxIter bounds a single inner Newton solve.
	NewtonMaxIter int

	// AbsTol and RelTol terminate Newton when the residual norm drops
	// below AbsTol or below RelTol times the initial norm.
	AbsTol float64
	RelTol float64

	// MinPressure floors every trial pressure during the line search.
	MinPressure float64

	// LineSearchBeta is the backtracking factor; MaxLineSearchIter
	// bounds the number of halvings per Newton step.
	LineSearchBeta    float64
	MaxLineSearchIter int

	// Enthalpy trust region. Per-step and total excursions are limited
	// to Abs + Rel*EnthalpyRef; +Inf disables a limit. Nodes whose net
	// throughflow is below WeakFlowMdot get the tighter
	// WeakFlowEnthalpyScale fraction of the per-step limit, since their
	// energy balance is nearly indeterminate.
	EnthalpyDeltaAbs      float64
	EnthalpyDeltaRel      float64
	EnthalpyTotalAbs      float64
	EnthalpyTotalRel      float64
	EnthalpyRef           float64
	WeakFlowMdot          float64
	WeakFlowEnthalpyScale float64

	// MdotTolAbs and MdotTolRel define flow-pattern stability between
	// outer passes: |new-old| <= MdotTolAbs + MdotTolRel*max(|new|,|old|).
	MdotTolAbs float64
	MdotTolRel float64

	// WarmStart seeds the unknown vector and initial flows from a prior
	// solution of the same network.
	WarmStart *Solution

	Logger  *slog.Logger
	Metrics metrics.Collector
}

// DefaultOptions returns the solver defaults.
func DefaultOptions() Options {
	return Options{
		OuterMaxIter:      defaultOuterMaxIter,
		NewtonMaxIter:     defaultNewtonMaxIter,
		AbsTol:            defaultAbsTol,
		RelTol:            defaultRelTol,
		MinPressure:       defaultMinPressure,
		LineSearchBeta:    defaultLineSearchBeta,
		MaxLineSearchIter: defaultMaxLineSearchIter,

		EnthalpyDeltaAbs:      math.Inf(1),
		EnthalpyDeltaRel:      math.Inf(1),
		EnthalpyTotalAbs:      math.Inf(1),
		EnthalpyTotalRel:      math.Inf(1),
		EnthalpyRef:           defaultEnthalpyRef,
		WeakFlowMdot:          defaultWeakFlowMdot,
		WeakFlowEnthalpyScale: defaultWeakFlowEnthalpyScale,

		MdotTolAbs: defaultMdotTolAbs,
		MdotTolRel: defaultMdotTolRel,

		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Metrics: metrics.Nop(),
	}
}

// Option mutates Options before a solve.
type Option func(*Options)

// WithOuterMaxIter caps the flow fixed-point passes.
func WithOuterMaxIter(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.OuterMaxIter = n
		}
	}
}

// WithNewtonMaxIter caps the iterations of each inner Newton solve.
func WithNewtonMaxIter(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.NewtonMaxIter = n
		}
	}
}

// WithTolerances sets the absolute and relative residual targets.
func WithTolerances(abs, rel float64) Option {
	return func(o *Options) {
		if abs > 0 {
			o.AbsTol = abs
		}
		if rel > 0 {
			o.RelTol = rel
		}
	}
}

// WithMinPressure sets the pressure floor enforced during line search.
func WithMinPressure(pa float64) Option {
	return func(o *Options) {
		if pa > 0 {
			o.MinPressure = pa
		}
	}
}

// WithEnthalpyTrustRegion limits enthalpy excursions per Newton step and
// in total over a solve. Pass math.Inf(1) to disable a bound.
func WithEnthalpyTrustRegion(deltaAbs, deltaRel, totalAbs, totalRel float64) Option {
	return func(o *Options) {
		o.EnthalpyDeltaAbs = deltaAbs
		o.EnthalpyDeltaRel = deltaRel
		o.EnthalpyTotalAbs = totalAbs
		o.EnthalpyTotalRel = totalRel
	}
}

// WithWeakFlowRegularization tunes the threshold below which a node's
// energy balance is regularised toward its prior enthalpy.
func WithWeakFlowRegularization(mdot, enthalpyScale float64) Option {
	return func(o *Options) {
		if mdot > 0 {
			o.WeakFlowMdot = mdot
		}
		if enthalpyScale > 0 {
			o.WeakFlowEnthalpyScale = enthalpyScale
		}
	}
}

// WithMdotTolerance sets the flow-pattern stability tolerance of the
// outer loop.
func WithMdotTolerance(abs, rel float64) Option {
	return func(o *Options) {
		if abs > 0 {
			o.MdotTolAbs = abs
		}
		if rel >= 0 {
			o.MdotTolRel = rel
		}
	}
}

// WithWarmStart seeds the solve from a previous Solution of the same
// network. Mismatched sizes are ignored.
func WithWarmStart(s *Solution) Option {
	return func(o *Options) { o.WarmStart = s }
}

// WithLogger routes solver debug traces to l.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithMetrics wires a metrics collector into the solve.
func WithMetrics(m metrics.Collector) Option {
	return func(o *Options) {
		if m != nil {
			o.Metrics = m
		}
	}
}

// Solution is a converged steady operating point.
type Solution struct {
	// Pressures and Enthalpies are indexed by node.
	Pressures  []float64
	Enthalpies []float64

	// Mdots is indexed by component; positive flow runs inlet→outlet.
	Mdots []float64

	// ResidualNorm is the final Newton residual (Euclidean norm).
	ResidualNorm float64

	// Iterations counts inner Newton iterations summed over the outer
	// passes. A fully constrained problem reports zero.
	Iterations int
}
