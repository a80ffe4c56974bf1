package parser

import "github.com/pkg/errors"

var (
	// ErrMalformedInput means block markers could not be paired. It is fatal
	// for the whole run.
	ErrMalformedInput = errors.New("malformed input")

	// ErrInsufficientRows means a block has too few rows for its header and footer.
	ErrInsufficientRows = errors.New("insufficient rows")

	// ErrInsufficientColumns means a block or matrix is narrower than the plate layout needs.
	ErrInsufficientColumns = errors.New("insufficient columns")
)
