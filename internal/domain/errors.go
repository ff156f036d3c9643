package domain

import "errors"

// Business errors the trading core can surface. Handlers map these to
// HTTP codes; everything not listed here is an infrastructure error
// and reported as a plain 500.
var (
	// Validation — rejected before anything is persisted.
	ErrInvalidInput = errors.New("Invalid input")
	ErrInvalidAsset = errors.New("Invalid asset type")

	// Authorization.
	ErrKycRequired   = errors.New("KYC verification required")
	ErrAdminRequired = errors.New("Admin access required")
	ErrTenantInvalid = errors.New("Invalid or inactive tenant")
	ErrCrossTenant   = errors.New("User does not belong to tenant")

	// Business rule — terminal for the request, not retried.
	ErrInsufficientHoldings = errors.New("Insufficient holdings")
	ErrSettlementDeclined   = errors.New("Settlement declined")
	ErrDuplicateReference   = errors.New("Duplicate payment reference")

	// Lookups.
	ErrUserNotFound        = errors.New("User not found")
	ErrTransactionNotFound = errors.New("Transaction not found")
)
