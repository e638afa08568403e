package kotoba

import (
	"errors"
	"fmt"
)

// Sentinel errors the host can match with errors.Is.
var (
	// ErrInvalidArgument covers empty transform input, K<=0, malformed
	// dictionary/import JSON, and mismatched import schema versions.
	ErrInvalidArgument = errors.New("kotoba: invalid argument")

	// ErrRetrainInProgress reports a StartBackgroundRetrain call while a
	// retrain is already running; the call is ignored.
	ErrRetrainInProgress = errors.New("kotoba: retrain already in progress")

	// ErrNumericFailure reports SVD non-convergence during the SVD stage;
	// the live model is left untouched.
	ErrNumericFailure = errors.New("kotoba: svd did not converge")

	// ErrUnsupportedVersion reports an export schema version this build
	// does not understand. It also matches ErrInvalidArgument.
	ErrUnsupportedVersion = fmt.Errorf("%w: unsupported model version", ErrInvalidArgument)
)
