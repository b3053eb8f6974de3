package core_test

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyleas/thermoflow-sub000/core"
)

// TestTaxonomyMatchesThroughWrapping verifies errors.Is survives fmt.Errorf layers.
func TestTaxonomyMatchesThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("solver: node 3 (p=%g Pa): %w", 101325.0, core.ErrInvalidState)
	doubly := fmt.Errorf("sim: t=%g s: %w", 0.125, wrapped)

	assert.True(t, errors.Is(doubly, core.ErrInvalidState))
	assert.False(t, errors.Is(doubly, core.ErrConvergence))
}

// TestEnsureFinite covers finite, NaN and ±Inf inputs.
func TestEnsureFinite(t *testing.T) {
	require.NoError(t, core.EnsureFinite(1.0, "density"))
	require.NoError(t, core.EnsureFinite(-42.5, "enthalpy"))

	err := core.EnsureFinite(math.NaN(), "density")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrNonPhysical))
	assert.Contains(t, err.Error(), "density")

	err = core.EnsureFinite(math.Inf(1), "mass flow")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrNonPhysical))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 5.0, core.Clamp(5.0, 0.0, 10.0))
	assert.Equal(t, 0.0, core.Clamp(-1.0, 0.0, 10.0))
	assert.Equal(t, 10.0, core.Clamp(11.0, 0.0, 10.0))
}
