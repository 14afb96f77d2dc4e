package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// ParseVersion
// ---------------------------------------------------------------------------

func TestParseVersionBasic(t *testing.T) {
	v, err := ParseVersion("1.2.3")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", v.String())
	assert.Len(t, v.ValueParts(), 3)
}

func TestParseVersionLeadingV(t *testing.T) {
	v, err := ParseVersion("v1.2.3")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", v.String())
}

func TestParseVersionMixedSeparators(t *testing.T) {
	v, err := ParseVersion("1.2-rc+3")
	require.NoError(t, err)
	assert.Equal(t, "1.2-rc+3", v.String())
}

func TestParseVersionWildcards(t *testing.T) {
	v, err := ParseVersion("1.*.>")
	require.NoError(t, err)
	assert.True(t, v.HasWildcard())
}

func TestParseVersionRestMustBeFinal(t *testing.T) {
	_, err := ParseVersion("1.>.3")
	require.Error(t, err)
	var perr *VersionParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, VersionErrSegmentAfterRest, perr.Kind)
}

func TestParseVersionTrailingSeparator(t *testing.T) {
	_, err := ParseVersion("1.2.")
	require.Error(t, err)
	var perr *VersionParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, VersionErrTrailingSeparator, perr.Kind)
}

func TestParseVersionEmpty(t *testing.T) {
	_, err := ParseVersion("")
	require.Error(t, err)
}

func TestParseVersionInvalidCharacter(t *testing.T) {
	_, err := ParseVersion("1.2_3")
	require.Error(t, err)
	var perr *VersionParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, VersionErrInvalidCharacter, perr.Kind)
}

// ---------------------------------------------------------------------------
// CompareVersions
// ---------------------------------------------------------------------------

func TestCompareVersionsNumeric(t *testing.T) {
	a, _ := ParseVersion("1.2.3")
	b, _ := ParseVersion("1.10.0")
	cmp, err := CompareVersions(a, b)
	require.NoError(t, err)
	assert.Equal(t, -1, cmp, "10 must outrank 2 numerically, not lexicographically")
}

func TestCompareVersionsShorterIsGreater(t *testing.T) {
	a, _ := ParseVersion("1.2")
	b, _ := ParseVersion("1.2.0")
	cmp, err := CompareVersions(a, b)
	require.NoError(t, err)
	assert.Equal(t, 1, cmp)
}

func TestCompareVersionsReservedStrings(t *testing.T) {
	stable, _ := ParseVersion("stable")
	latest, _ := ParseVersion("latest")
	git, _ := ParseVersion("git")

	cmp, err := CompareVersions(stable, latest)
	require.NoError(t, err)
	assert.Equal(t, -1, cmp)

	cmp, err = CompareVersions(latest, git)
	require.NoError(t, err)
	assert.Equal(t, -1, cmp)
}

func TestCompareVersionsUnreservedStringFallsBelowReserved(t *testing.T) {
	custom, _ := ParseVersion("nightly")
	stable, _ := ParseVersion("stable")
	cmp, err := CompareVersions(custom, stable)
	require.NoError(t, err)
	assert.Equal(t, -1, cmp)
}

func TestCompareVersionsSeparatorMismatchIsIncomparable(t *testing.T) {
	a, _ := ParseVersion("1.2.3")
	b, _ := ParseVersion("1-2-3")
	_, err := CompareVersions(a, b)
	require.Error(t, err)
}

func TestCompareVersionsWildcardIsIncomparable(t *testing.T) {
	a, _ := ParseVersion("1.*.3")
	b, _ := ParseVersion("1.2.3")
	_, err := CompareVersions(a, b)
	require.Error(t, err)
}

// ---------------------------------------------------------------------------
// MatchesWildcard
// ---------------------------------------------------------------------------

func TestMatchesWildcardSingle(t *testing.T) {
	pattern, _ := ParseVersion("1.*.3")
	concrete, _ := ParseVersion("1.99.3")
	assert.True(t, pattern.MatchesWildcard(concrete))
}

func TestMatchesWildcardRestMatchesAnyLength(t *testing.T) {
	pattern, _ := ParseVersion("1.>")
	concrete, _ := ParseVersion("1.2.3.4")
	assert.True(t, pattern.MatchesWildcard(concrete))
}

func TestMatchesWildcardNoWildcardsBehavesLikeEquality(t *testing.T) {
	pattern, _ := ParseVersion("1.2.3")
	same, _ := ParseVersion("1.2.3")
	other, _ := ParseVersion("1.2.4")
	assert.True(t, pattern.MatchesWildcard(same))
	assert.False(t, pattern.MatchesWildcard(other))
}

func TestMatchesWildcardLengthMismatchWithoutRest(t *testing.T) {
	pattern, _ := ParseVersion("1.*")
	concrete, _ := ParseVersion("1.2.3")
	assert.False(t, pattern.MatchesWildcard(concrete))
}
