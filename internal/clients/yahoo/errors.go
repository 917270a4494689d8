package yahoo

import "errors"

var (
	// ErrInvalidTicker means the ticker failed syntactic validation
	// before any network call was made.
	ErrInvalidTicker = errors.New("invalid ticker symbol")

	// ErrNotFound means Yahoo has no data for the ticker.
	ErrNotFound = errors.New("ticker not found")

	// ErrUpstream means Yahoo could not be reached or answered with a
	// server error after all retries.
	ErrUpstream = errors.New("upstream data source unavailable")
)
