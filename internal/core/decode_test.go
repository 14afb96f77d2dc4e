package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"configplanner/internal/types"
)

func TestDecodeOptionsExcludesActivationToggle(t *testing.T) {
	pkg := types.NewPackageOutline("telemetry")
	pkg.SetOptions["enabled"] = types.BoolValue(true)

	result, err := planFor(t, []types.PackageOutline{pkg}, []string{"telemetry"}, nil)
	require.NoError(t, err)
	require.Equal(t, PlanSat, result.Status)

	_, hasToggle := result.Packages["telemetry"].Options[toggleOption]
	assert.False(t, hasToggle, "the reserved activation-toggle slot must never surface as a user option")
	assert.True(t, result.Packages["telemetry"].Options["enabled"].Equal(types.BoolValue(true)))
}

func TestDecodeOptionsVersionTypedSlot(t *testing.T) {
	pkg := types.NewPackageOutline("base-firmware")
	v1, _ := types.ParseVersion("1.0.0")
	v2, _ := types.ParseVersion("2.0.0")
	pkg.Constraints = []types.Constraint{
		types.Cmp{
			LHS: types.SpecOptionRef{Package: "base-firmware", Option: "fw_version"},
			RHS: types.Literal{Value: types.VersionValue(v1)},
			Op:  types.CmpGe,
		},
	}
	pins := map[types.PackageOption]types.OptionValue{
		{Package: "base-firmware", Option: "fw_version"}: types.VersionValue(v2),
	}
	result, err := planFor(t, []types.PackageOutline{pkg}, nil, pins)
	require.NoError(t, err)
	require.Equal(t, PlanSat, result.Status)
	assert.True(t, result.Packages["base-firmware"].Options["fw_version"].Equal(types.VersionValue(v2)))
}

func TestMinimalUnsatCoreNamesConflictingConstraints(t *testing.T) {
	pkg := types.NewPackageOutline("telemetry")
	pkg.SetOptions["sample_rate_hz"] = types.IntValue(1)
	pkg.Constraints = []types.Constraint{
		types.Cmp{
			LHS: types.SpecOptionRef{Package: "telemetry", Option: "sample_rate_hz"},
			RHS: types.Literal{Value: types.IntValue(5)},
			Op:  types.CmpGe,
		},
	}

	_, err := planFor(t, []types.PackageOutline{pkg}, []string{"telemetry"}, nil)
	require.Error(t, err)
	var unsat *UnsatError
	require.ErrorAs(t, err, &unsat)
	require.NotEmpty(t, unsat.Core)
	assert.Contains(t, unsat.Core, "telemetry/sample_rate_hz >= 5")
}

// TestMinimalUnsatCoreIncludesRequiredRootAndSetOptionsPin reproduces
// spec.md's worked example S5: `a: set_options{x=true}`, constraint
// `ref(a,x)=false`, required `{a}`. All three hard assertions (the
// required root, the set_options pin, and the equality constraint) are
// each independently necessary for UNSAT, so the minimal core must name
// all three — in particular, both the pin and the equality, which
// requires the required-roots loop and the outline SetOptions loop in
// internal/core/solver.go to track their assertions the same way the
// regular per-package Constraints loop already does.
func TestMinimalUnsatCoreIncludesRequiredRootAndSetOptionsPin(t *testing.T) {
	a := types.NewPackageOutline("a")
	a.SetOptions["x"] = types.BoolValue(true)
	a.Constraints = []types.Constraint{
		types.Cmp{
			LHS: types.SpecOptionRef{Package: "a", Option: "x"},
			RHS: types.Literal{Value: types.BoolValue(false)},
			Op:  types.CmpEq,
		},
	}

	_, err := planFor(t, []types.PackageOutline{a}, []string{"a"}, nil)
	require.Error(t, err)
	var unsat *UnsatError
	require.ErrorAs(t, err, &unsat)

	joined := strings.Join(unsat.Core, " | ")
	assert.Contains(t, joined, "required explicitly", "the required root must be trackable into the core")
	assert.Contains(t, joined, "a/x = true", "the set_options pin must be trackable into the core")
	assert.Contains(t, joined, "a/x = false", "the equality constraint must be trackable into the core")
	assert.Len(t, unsat.Core, 3, "all three hard assertions are independently necessary for this UNSAT")
}
