package app

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"configplanner/internal/core"
)

func TestPlanApp(t *testing.T) {
	root, err := filepath.Abs(filepath.Join("..", ".."))
	require.NoError(t, err)
	outlinePath := filepath.Join(root, "fixtures", "outline-sample.yaml")

	service := NewService()
	result, err := service.Plan(t.Context(), PlanRequest{
		OutlinePath: outlinePath,
		Required:    []string{"telemetry"},
	})
	require.NoError(t, err)
	require.Equal(t, core.PlanSat, result.Status)
	require.True(t, result.Packages["telemetry"].Activated)
	require.True(t, result.Packages["base-firmware"].Activated, "telemetry depends on base-firmware")
}

func TestPlanAppRequiresAtLeastOneRoot(t *testing.T) {
	root, err := filepath.Abs(filepath.Join("..", ".."))
	require.NoError(t, err)
	outlinePath := filepath.Join(root, "fixtures", "outline-sample.yaml")

	service := NewService()
	_, err = service.Plan(t.Context(), PlanRequest{OutlinePath: outlinePath})
	require.Error(t, err)
}
