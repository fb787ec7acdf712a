package domain

import "errors"

var (
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrValidation            = errors.New("invalid request")
	ErrInvalidLineItem       = errors.New("line item has negative quantity or price")
	ErrProductInactive       = errors.New("product is inactive")
	ErrInsufficientStock     = errors.New("insufficient stock")
	ErrNoActiveSequence      = errors.New("no active fiscal sequence for document type")
	ErrSequenceExhausted     = errors.New("fiscal sequence exhausted")
	ErrSequenceExpired       = errors.New("fiscal sequence expired")
	ErrSequenceInUse         = errors.New("fiscal sequence has issued numbers and cannot be deleted")
	ErrDuplicateSequence     = errors.New("an active sequence already exists for document type")
	ErrTaxpayerRequired      = errors.New("document type requires a registered taxpayer")
	ErrTaxpayerNotRegistered = errors.New("counterparty tax id is not an active registered taxpayer")
	ErrMalformedIdentifier   = errors.New("malformed tax identifier")
	ErrTransientConflict     = errors.New("concurrent write conflict, retries exhausted")
	ErrSchemaViolation       = errors.New("report output violates the mandated schema")
)
