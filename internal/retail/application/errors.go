package application

import "errors"

var (
	// Validation failures. None of these occur after a remote mutation, so
	// the whole request is safe to resubmit.
	ErrInvalidCustomer      = errors.New("no customer matching the given id")
	ErrInvalidInventory     = errors.New("inventory id is not valid")
	ErrInsufficientQuantity = errors.New("requested quantity is not available")
	ErrInvalidProduct       = errors.New("product does not exist")

	// ErrInvoicePersistence means the invoice service rejected or failed the
	// create call. No loyalty side effect has happened at that point.
	ErrInvoicePersistence = errors.New("invoice could not be persisted")

	// ErrLoyaltyUnavailable means the points lookup failed or the breaker is
	// open. Distinct from ErrLoyaltyNotFound: a customer without a ledger
	// entry is not an outage.
	ErrLoyaltyUnavailable = errors.New("loyalty points lookup unavailable")
	ErrLoyaltyNotFound    = errors.New("no loyalty record for customer")

	// ErrNotFound covers read-facade lookups of entities that do not exist.
	ErrNotFound = errors.New("not found")
)
