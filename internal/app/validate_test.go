package app

import (
	"path/filepath"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestValidateApp(t *testing.T) {
	root, err := filepath.Abs(filepath.Join("..", ".."))
	require.NoError(t, err)
	outlinePath := filepath.Join(root, "fixtures", "outline-sample.yaml")

	service := NewService()
	result, err := service.Validate(t.Context(), ValidateRequest{OutlinePath: outlinePath})
	require.NoError(t, err)

	got := append([]string(nil), result.Packages...)
	sort.Strings(got)
	want := []string{"base-firmware", "telemetry"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected package list (-want +got):\n%s", diff)
	}
}

func TestValidateAppRequiresOutlinePath(t *testing.T) {
	service := NewService()
	_, err := service.Validate(t.Context(), ValidateRequest{})
	require.Error(t, err)
}
