package solver

import (
	"gonum.org/v1/gonum/mat"
)

const jacobianEps = 1e-7

// jacobian assembles the dense forward-difference Jacobian of the
// residual at x, reusing the base residual r0.
func (e *evaluator) jacobian(x, r0 []float64) (*mat.Dense, error) {
	n := len(x)
	j := mat.NewDense(n, n, nil)
	xp := make([]float64, n)

	for col := 0; col < n; col++ {
		copy(xp, x)
		dx := jacobianEps * max(abs(x[col]), 1.0)
		xp[col] += dx

		r, err := e.residual(xp)
		if err != nil {
			// A perturbed state outside the backend's validity range
			// gets probed from the other side.
			xp[col] = x[col] - dx
			r, err = e.residual(xp)
			if err != nil {
				return nil, err
			}
			dx = -dx
		}
		for row := 0; row < n; row++ {
			j.Set(row, col, (r[row]-r0[row])/dx)
		}
	}

	return j, nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}

	return v
}
