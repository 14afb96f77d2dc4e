package app

import (
	"configplanner/internal/adapters"
	"configplanner/internal/ports"
)

// Service is the application layer's single entry point: it wires the
// outline-loading port to the core constraint-planner engine and
// exposes the two operations the CLI drives (spec.md §2: Validate and
// Plan).
type Service struct {
	OutlineLoader ports.OutlineLoaderPort
}

func NewService() Service {
	return Service{
		OutlineLoader: adapters.NewOutlineYAMLAdapter(),
	}
}
