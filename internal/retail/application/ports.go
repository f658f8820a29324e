package application

import (
	"context"

	"github.com/retailhub/retail-api/internal/retail/domain"
)

// Gateway ports to the remote services this orchestrator depends on. Lookup
// methods return (nil, nil) when the remote service answers cleanly that the
// entity does not exist; an error always means the call itself failed.

type CustomerGateway interface {
	CustomerByID(ctx context.Context, id int) (*domain.Customer, error)
}

type InventoryGateway interface {
	InventoryByID(ctx context.Context, id int) (*domain.Inventory, error)
	ListInventory(ctx context.Context) ([]domain.Inventory, error)
}

type ProductGateway interface {
	ProductByID(ctx context.Context, id int) (*domain.Product, error)
}

type InvoiceGateway interface {
	CreateInvoice(ctx context.Context, req domain.InvoiceRequest) (*domain.Invoice, error)
	InvoiceByID(ctx context.Context, id int) (*domain.Invoice, error)
	ListInvoices(ctx context.Context) ([]domain.Invoice, error)
	InvoicesByCustomer(ctx context.Context, customerID int) ([]domain.Invoice, error)
}

// LevelUpGateway reads the loyalty ledger. Implementations wrap the remote
// call in a circuit breaker and surface ErrLoyaltyUnavailable when the call
// cannot be made, so (nil, nil) always means "customer has no record yet".
type LevelUpGateway interface {
	LevelUpByCustomer(ctx context.Context, customerID int) (*domain.LevelUp, error)
}

// LoyaltyPublisher hands a loyalty-update intent to the event channel. The
// orchestrator calls it off the response path and ignores delivery outcome.
type LoyaltyPublisher interface {
	Publish(ctx context.Context, event domain.LevelUpUpserted) error
}
