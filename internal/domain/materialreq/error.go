package materialreq

import "errors"

var (
	ErrNotFound       = errors.New("material requisition not found")
	ErrInvalidMapping = errors.New("invalid material requisition mapping")
)
