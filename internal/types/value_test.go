package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptionValueEqual(t *testing.T) {
	assert.True(t, IntValue(3).Equal(IntValue(3)))
	assert.False(t, IntValue(3).Equal(IntValue(4)))
	assert.False(t, IntValue(3).Equal(StrValue("3")), "different tags never compare equal")

	v1, _ := ParseVersion("1.2.3")
	v2, _ := ParseVersion("1.2.3")
	assert.True(t, VersionValue(v1).Equal(VersionValue(v2)))
}

func TestOptionValueString(t *testing.T) {
	assert.Equal(t, "true", BoolValue(true).String())
	assert.Equal(t, "42", IntValue(42).String())
	assert.Equal(t, "3.5", FloatValue(3.5).String())
	assert.Equal(t, "info", StrValue("info").String())

	v, _ := ParseVersion("2.0.0")
	assert.Equal(t, "2.0.0", VersionValue(v).String())
}
