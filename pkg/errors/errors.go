package errors

import "errors"

var (
	ErrUnauthorized = errors.New("unauthorized")

	ErrInvalidTableRoundID  = errors.New("invalid table round id")
	ErrRoundNotFound        = errors.New("round data not found")
	ErrInvalidRoundDocument = errors.New("invalid round document")

	ErrSettlementNotFound = errors.New("settlement not found")
	ErrSettlementFailed   = errors.New("settlement failed")
)
