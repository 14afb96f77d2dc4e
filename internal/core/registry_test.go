package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"configplanner/internal/types"
)

func TestRegistryAllocateOptionSharesSlotForSameType(t *testing.T) {
	r := NewRegistry()
	idx1, err := r.AllocateOption("telemetry", "sample_rate_hz", types.OptionTypeInt)
	require.NoError(t, err)
	idx2, err := r.AllocateOption("telemetry", "sample_rate_hz", types.OptionTypeInt)
	require.NoError(t, err)
	assert.Equal(t, idx1, idx2)
	assert.Equal(t, 1, r.NumEntries())
}

func TestRegistryAllocateOptionRejectsRetype(t *testing.T) {
	r := NewRegistry()
	_, err := r.AllocateOption("telemetry", "sample_rate_hz", types.OptionTypeInt)
	require.NoError(t, err)
	_, err = r.AllocateOption("telemetry", "sample_rate_hz", types.OptionTypeStr)
	require.Error(t, err)
}

func TestRegistryActivationToggleUsesReservedOptionName(t *testing.T) {
	r := NewRegistry()
	idx, err := r.ActivationToggle("telemetry")
	require.NoError(t, err)
	entry := r.Entry(idx)
	assert.Equal(t, types.OptionTypeBool, entry.Type)
	assert.Equal(t, toggleOption, entry.Option)
}

func TestRegistryTypeMissingOption(t *testing.T) {
	r := NewRegistry()
	_, err := r.Type("telemetry", "sample_rate_hz")
	require.Error(t, err)
}

func TestRegistryTrackConstraintDenseIDs(t *testing.T) {
	r := NewRegistry()
	id0 := r.TrackConstraint("first")
	id1 := r.TrackConstraint("second")
	assert.Equal(t, 0, id0)
	assert.Equal(t, 1, id1)
	assert.Equal(t, "first", r.Description(id0))
	assert.Equal(t, 2, r.NumTracked())
}

func TestRegistryBuildFreezesAllocation(t *testing.T) {
	r := NewRegistry()
	r.Build()
	assert.True(t, r.IsBuilt())
	_, err := r.AllocateOption("telemetry", "sample_rate_hz", types.OptionTypeInt)
	require.Error(t, err)
}

// TestRegistryBuildAllowsReReadingAnAlreadyAllocatedSlot exercises the
// one exception to TestRegistryBuildFreezesAllocation: clause generation
// (internal/core/solver.go, internal/core/clause.go) re-derives a few
// already-allocated slots, such as a Depends atom's activation toggle,
// after Build has run. Those idempotent re-reads must keep working.
func TestRegistryBuildAllowsReReadingAnAlreadyAllocatedSlot(t *testing.T) {
	r := NewRegistry()
	before, err := r.AllocateOption("telemetry", "sample_rate_hz", types.OptionTypeInt)
	require.NoError(t, err)

	r.Build()
	assert.True(t, r.IsBuilt())

	after, err := r.AllocateOption("telemetry", "sample_rate_hz", types.OptionTypeInt)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	_, err = r.AllocateOption("telemetry", "sample_rate_hz", types.OptionTypeStr)
	require.Error(t, err, "a genuine retype is still rejected once built")
}

// ---------------------------------------------------------------------------
// VersionRegistry
// ---------------------------------------------------------------------------

func TestVersionRegistrySortsObservedVersions(t *testing.T) {
	vr := newVersionRegistry()
	v1, _ := types.ParseVersion("2.0.0")
	v2, _ := types.ParseVersion("1.0.0")
	vr.Observe(v1)
	vr.Observe(v2)
	vr.build()

	domain := vr.Domain()
	require.Len(t, domain, 2)
	assert.Equal(t, "1.0.0", domain[0].String())
	assert.Equal(t, "2.0.0", domain[1].String())
}

func TestVersionRegistryIgnoresWildcards(t *testing.T) {
	vr := newVersionRegistry()
	wildcard, _ := types.ParseVersion("1.*")
	vr.Observe(wildcard)
	vr.build()
	assert.Empty(t, vr.Domain())
}

func TestVersionRegistryIndexOf(t *testing.T) {
	vr := newVersionRegistry()
	v1, _ := types.ParseVersion("1.0.0")
	vr.Observe(v1)
	vr.build()
	idx, ok := vr.IndexOf(v1)
	require.True(t, ok)
	assert.Equal(t, 0, idx)
}
