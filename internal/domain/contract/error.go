package contract

import "errors"

var (
	ErrNotFound       = errors.New("contract not found")
	ErrInvalidMapping = errors.New("invalid contract mapping")
	ErrPhotoMissing   = errors.New("contract photo not available")
)
