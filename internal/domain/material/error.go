package material

import "errors"

var (
	ErrNotFound       = errors.New("material not found")
	ErrInvalidMapping = errors.New("invalid material payload")
)
