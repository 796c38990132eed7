package maintenance

import "errors"

var (
	ErrNotFound       = errors.New("maintenance requisition not found")
	ErrInvalidMapping = errors.New("invalid maintenance requisition mapping")

	// ErrResolutionCycle marks a dependency key that is already being
	// resolved higher up the same sync call; the reference is dropped
	// instead of recursing forever.
	ErrResolutionCycle = errors.New("dependency resolution cycle")
)
