package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPackageOutlineInitializesMaps(t *testing.T) {
	o := NewPackageOutline("base-firmware")
	assert.Equal(t, "base-firmware", o.Name)
	assert.NotNil(t, o.SetOptions)
	assert.NotNil(t, o.SetDefaults)
}

func TestPackageOutlineDependenciesAggregatesConstraints(t *testing.T) {
	o := NewPackageOutline("telemetry")
	o.Constraints = []Constraint{
		Depends{Package: "base-firmware"},
		Depends{Package: "logging"},
	}
	deps := o.Dependencies()
	assert.Equal(t, map[string]struct{}{"base-firmware": {}, "logging": {}}, deps)
}

func TestPackageOutlineSpecOptionsAggregatesConstraints(t *testing.T) {
	o := NewPackageOutline("telemetry")
	o.Constraints = []Constraint{
		Cmp{LHS: SpecOptionRef{Package: "telemetry", Option: "sample_rate_hz"}, RHS: Literal{Value: IntValue(1)}, Op: CmpGe},
	}
	refs := o.SpecOptions()
	assert.Equal(t, []PackageOption{{Package: "telemetry", Option: "sample_rate_hz"}}, refs)
}

func TestDefaultValueConstructors(t *testing.T) {
	clear := ClearDefault()
	assert.True(t, clear.Clear)

	set := SetDefault(IntValue(10))
	assert.False(t, set.Clear)
	assert.True(t, set.Value.Equal(IntValue(10)))
}
