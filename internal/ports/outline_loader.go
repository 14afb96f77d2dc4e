package ports

import "configplanner/internal/types"

// OutlineLoaderPort loads the package outline set a plan is computed
// over (spec.md §2/§3). Implementations decide the on-disk format;
// internal/app only depends on this interface.
type OutlineLoaderPort interface {
	LoadOutlines(path string) ([]types.PackageOutline, error)
}
