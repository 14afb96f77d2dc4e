package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"configplanner/internal/types"
)

func TestOutlineYAMLAdapterLoadsFixture(t *testing.T) {
	root, err := filepath.Abs(filepath.Join("..", ".."))
	require.NoError(t, err)
	path := filepath.Join(root, "fixtures", "outline-sample.yaml")

	outlines, err := NewOutlineYAMLAdapter().LoadOutlines(path)
	require.NoError(t, err)
	require.Len(t, outlines, 2)

	names := map[string]bool{}
	for _, o := range outlines {
		names[o.Name] = true
	}
	assert.True(t, names["base-firmware"])
	assert.True(t, names["telemetry"])
}

func TestOutlineYAMLAdapterMissingFile(t *testing.T) {
	_, err := NewOutlineYAMLAdapter().LoadOutlines(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestOutlineYAMLAdapterRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("packages: [this is not a package list"), 0o644))
	_, err := NewOutlineYAMLAdapter().LoadOutlines(path)
	require.Error(t, err)
}

func TestOutlineYAMLAdapterRejectsUnknownValueType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unknown-type.yaml")
	doc := "packages:\n" +
		"  - name: weird\n" +
		"    set_options:\n" +
		"      thing:\n" +
		"        type: imaginary\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	_, err := NewOutlineYAMLAdapter().LoadOutlines(path)
	require.Error(t, err)
}

func TestOutlineYAMLAdapterParsesConstraintTree(t *testing.T) {
	path := filepath.Join(t.TempDir(), "depends.yaml")
	doc := "packages:\n" +
		"  - name: telemetry\n" +
		"    constraints:\n" +
		"      - depends: base-firmware\n" +
		"  - name: base-firmware\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	outlines, err := NewOutlineYAMLAdapter().LoadOutlines(path)
	require.NoError(t, err)

	var telemetry types.PackageOutline
	for _, o := range outlines {
		if o.Name == "telemetry" {
			telemetry = o
		}
	}
	require.Len(t, telemetry.Constraints, 1)
	dep, ok := telemetry.Constraints[0].(types.Depends)
	require.True(t, ok)
	assert.Equal(t, "base-firmware", dep.Package)
}
