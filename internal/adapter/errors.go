package adapter

import "errors"

var (
	// ErrGeneratorUnavailable means the generator could not be reached or
	// answered with a gateway error. The submission can be retried later.
	ErrGeneratorUnavailable = errors.New("strategy generator is unavailable")
	// ErrGenerationFailed means the generator rejected the submission.
	ErrGenerationFailed = errors.New("strategy generation failed")

	ErrBadRequest          = errors.New("bad request")
	ErrNotFound            = errors.New("not found")
	ErrUnprocessable       = errors.New("unprocessable entity")
	ErrInternalServerError = errors.New("internal server error")
	ErrBadGateway          = errors.New("bad gateway")
	ErrServiceUnavailable  = errors.New("service unavailable")
	ErrGatewayTimeout      = errors.New("gateway timeout")
)
