package valuation

import "errors"

var (
	// ErrInvalidAssumptions means the assumption set diverges (for
	// example WACC at or below terminal growth) or an override is out
	// of its allowed range. The valuation is aborted.
	ErrInvalidAssumptions = errors.New("invalid valuation assumptions")

	// ErrNoValuation means the company's financials cannot support a
	// DCF at all (no shares outstanding, no positive free cash flow).
	ErrNoValuation = errors.New("no valuation possible")
)
