package service

import (
	"crypto_cashier/internal/apperr"
	"crypto_cashier/internal/domain"
)

// CanTransition reports whether an admin may move a transaction from one
// status to another.
//
//	PENDING   -> COMPLETED | REJECTED
//	X         -> X (amend txId / notes)
//	terminal  -> PENDING only with allowReopen
//	COMPLETED <-> REJECTED never
func CanTransition(from, to domain.Status, allowReopen bool) error {
	if !to.Valid() {
		return apperr.Validation("status must be one of PENDING, COMPLETED, REJECTED")
	}
	if from == to {
		return nil
	}
	switch {
	case from == domain.StatusPending:
		return nil
	case to == domain.StatusPending:
		if allowReopen {
			return nil
		}
		return apperr.Conflict("transaction is already %s and cannot be reopened", from)
	default:
		return apperr.Conflict("transaction is already %s and cannot become %s", from, to)
	}
}
