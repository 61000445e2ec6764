package engine

import "errors"

// Input-validation failures. All are raised synchronously at the offending call
// and are not recoverable inside the engine; the caller must correct the input.
var (
	ErrInsufficientData      = errors.New("insufficient data")
	ErrInvalidPrice          = errors.New("invalid price")
	ErrInvalidPortfolioValue = errors.New("invalid portfolio value")
	ErrInvalidWeights        = errors.New("invalid weights")
)
