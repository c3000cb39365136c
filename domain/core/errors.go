package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Configuration errors
	ErrConfigInvalid      = errors.New("invalid configuration")
	ErrUnknownModality    = fmt.Errorf("%w: unknown modality", ErrConfigInvalid)
	ErrUnknownDivisor     = fmt.Errorf("%w: unknown divisor", ErrConfigInvalid)
	ErrUnknownStrategy    = fmt.Errorf("%w: unknown threshold strategy", ErrConfigInvalid)
	ErrUnknownSymmetrize  = fmt.Errorf("%w: unknown symmetrize mode", ErrConfigInvalid)
	ErrUnknownAlgo        = fmt.Errorf("%w: unknown tractography algorithm", ErrConfigInvalid)
	ErrSubThreshRange     = fmt.Errorf("%w: subject threshold outside [0,1]", ErrConfigInvalid)
	ErrThresholdRange     = fmt.Errorf("%w: matrix threshold outside [0,1]", ErrConfigInvalid)
	ErrGroupPartition     = fmt.Errorf("%w: group indices are not a partition of the subject range", ErrConfigInvalid)
	ErrNoThresholds       = fmt.Errorf("%w: at least one threshold is required", ErrConfigInvalid)
	ErrSampleCountInvalid = fmt.Errorf("%w: samples per seed voxel must be positive", ErrConfigInvalid)

	// Input errors
	ErrInput             = errors.New("input error")
	ErrFileUnreadable    = fmt.Errorf("%w: file missing or unreadable", ErrInput)
	ErrMalformedGrid     = fmt.Errorf("%w: malformed numeric grid", ErrInput)
	ErrDimensionMismatch = fmt.Errorf("%w: grid dimensions do not match", ErrInput)
	ErrMissingDivisor    = fmt.Errorf("%w: divisor stack required for the configured normalization", ErrInput)

	// Shape errors on in-memory containers
	ErrShapeMismatch = errors.New("shape mismatch between operands")
	ErrNotSquare     = errors.New("matrix is not square")
	ErrEmptyStack    = errors.New("stack holds no subjects")
)

// Error constructors with context
func NewGridError(path string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrMalformedGrid, path, reason)
}

func NewDimensionError(path string, wantRows, wantCols, gotRows, gotCols int) error {
	return fmt.Errorf("%w: %s: want %dx%d, got %dx%d",
		ErrDimensionMismatch, path, wantRows, wantCols, gotRows, gotCols)
}

// Error checking helpers
func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfigInvalid)
}

func IsInputError(err error) bool {
	return errors.Is(err, ErrInput)
}
