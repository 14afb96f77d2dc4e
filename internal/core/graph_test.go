package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"configplanner/internal/types"
)

func outlineWithDepends(name string, deps ...string) types.PackageOutline {
	o := types.NewPackageOutline(name)
	for _, d := range deps {
		o.Constraints = append(o.Constraints, types.Depends{Package: d})
	}
	return o
}

// ---------------------------------------------------------------------------
// NewOutlineGraph
// ---------------------------------------------------------------------------

func TestNewOutlineGraphBuildsRequiresEdges(t *testing.T) {
	g, err := NewOutlineGraph([]types.PackageOutline{
		outlineWithDepends("base-firmware"),
		outlineWithDepends("telemetry", "base-firmware"),
	})
	require.NoError(t, err)

	node, ok := g.Node("telemetry")
	require.True(t, ok)
	assert.Equal(t, []string{"base-firmware"}, node.Requires)
}

func TestNewOutlineGraphRejectsDuplicatePackage(t *testing.T) {
	_, err := NewOutlineGraph([]types.PackageOutline{
		outlineWithDepends("base-firmware"),
		outlineWithDepends("base-firmware"),
	})
	require.Error(t, err)
}

func TestNewOutlineGraphRejectsMissingPackage(t *testing.T) {
	_, err := NewOutlineGraph([]types.PackageOutline{
		outlineWithDepends("telemetry", "nonexistent"),
	})
	require.Error(t, err)
}

func TestOutlineGraphPackageNamesSorted(t *testing.T) {
	g, err := NewOutlineGraph([]types.PackageOutline{
		outlineWithDepends("zzz"),
		outlineWithDepends("aaa"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"aaa", "zzz"}, g.PackageNames())
}

func TestOutlineGraphPredecessors(t *testing.T) {
	g, err := NewOutlineGraph([]types.PackageOutline{
		outlineWithDepends("base-firmware"),
		outlineWithDepends("telemetry", "base-firmware"),
		outlineWithDepends("logging", "base-firmware"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"logging", "telemetry"}, g.Predecessors("base-firmware"))
	assert.Empty(t, g.Predecessors("telemetry"))
}

func TestOutlineGraphLen(t *testing.T) {
	g, err := NewOutlineGraph([]types.PackageOutline{
		outlineWithDepends("a"),
		outlineWithDepends("b"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, g.Len())
}
