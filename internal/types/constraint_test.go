package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractDependenciesCollectsAcrossCombinators(t *testing.T) {
	c := IfThen{
		Cond: Depends{Package: "a"},
		Then: NumOf{Children: []Constraint{
			Depends{Package: "b"},
			Cmp{LHS: Depends{Package: "c"}, RHS: Literal{Value: BoolValue(true)}, Op: CmpEq},
		}},
	}
	deps := ExtractDependencies(c)
	assert.Equal(t, map[string]struct{}{
		"a": {}, "b": {}, "c": {},
	}, deps)
}

func TestExtractDependenciesIgnoresRefsAndLiterals(t *testing.T) {
	c := Cmp{
		LHS: SpecOptionRef{Package: "p", Option: "o"},
		RHS: Literal{Value: IntValue(1)},
		Op:  CmpEq,
	}
	assert.Empty(t, ExtractDependencies(c))
}

func TestExtractSpecOptionsPreOrder(t *testing.T) {
	c := Cmp{
		LHS: SpecOptionRef{Package: "p1", Option: "o1"},
		RHS: SpecOptionRef{Package: "p2", Option: "o2"},
		Op:  CmpEq,
	}
	refs := ExtractSpecOptions(c)
	assert.Equal(t, []PackageOption{
		{Package: "p1", Option: "o1"},
		{Package: "p2", Option: "o2"},
	}, refs)
}

func TestDescribeRendersReadableText(t *testing.T) {
	c := Cmp{
		LHS: SpecOptionRef{Package: "telemetry", Option: "sample_rate_hz"},
		RHS: Literal{Value: IntValue(1)},
		Op:  CmpGe,
	}
	assert.Equal(t, "telemetry/sample_rate_hz >= 1", Describe(c))
}

func TestDescribeNumOf(t *testing.T) {
	c := NumOf{Children: []Constraint{Depends{Package: "a"}, Depends{Package: "b"}}}
	assert.Equal(t, "num_of(depends(a), depends(b))", Describe(c))
}

func TestSortedDependencyNames(t *testing.T) {
	set := map[string]struct{}{"c": {}, "a": {}, "b": {}}
	assert.Equal(t, []string{"a", "b", "c"}, SortedDependencyNames(set))
}
