package domain

import "errors"

var (
	ErrData                = errors.New("malformed account or transaction data")
	ErrInvalidTerm         = errors.New("loan term must be a positive number of months")
	ErrInvalidAmount       = errors.New("loan amount must be positive")
	ErrInvalidRate         = errors.New("interest rate must not be negative")
	ErrOracleResponse      = errors.New("scoring service returned no usable decision")
	ErrAmountNotUnderstood = errors.New("amount not understood")
	ErrAccountNotFound     = errors.New("account not found")
	ErrDecisionNotFound    = errors.New("loan decision not found or expired")
	ErrDecisionNotEligible = errors.New("loan decision is not eligible")
	ErrDuplicateLoan       = errors.New("loan already confirmed for this decision")
	ErrUnauthorized        = errors.New("unauthorized")
)
