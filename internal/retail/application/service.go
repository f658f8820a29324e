package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/retailhub/retail-api/internal/retail/domain"
)

const defaultPublishTimeout = 5 * time.Second

// Service orchestrates invoice creation across the remote customer,
// inventory, product, invoice and level-up services, and fronts the
// pass-through read queries.
type Service struct {
	log       *slog.Logger
	customers CustomerGateway
	inventory InventoryGateway
	products  ProductGateway
	invoices  InvoiceGateway
	levelups  LevelUpGateway
	publisher LoyaltyPublisher

	publishTimeout time.Duration
}

func NewService(
	log *slog.Logger,
	customers CustomerGateway,
	inventory InventoryGateway,
	products ProductGateway,
	invoices InvoiceGateway,
	levelups LevelUpGateway,
	publisher LoyaltyPublisher,
) *Service {
	return &Service{
		log:            log,
		customers:      customers,
		inventory:      inventory,
		products:       products,
		invoices:       invoices,
		levelups:       levelups,
		publisher:      publisher,
		publishTimeout: defaultPublishTimeout,
	}
}

// CreateInvoice runs the invoice-creation workflow: validate all remote
// preconditions, persist the invoice remotely, compute the loyalty balance,
// dispatch the loyalty update asynchronously and assemble the response.
//
// Side effects are strictly ordered. Nothing is mutated before validation
// passes, and no loyalty update is published before the invoice persists.
// There is no cross-service transaction: once the invoice service has
// committed, a later failure leaves the invoice in place.
func (s *Service) CreateInvoice(ctx context.Context, req domain.InvoiceRequest) (*domain.InvoiceResponse, error) {
	if err := s.validate(ctx, req); err != nil {
		return nil, err
	}

	invoice, err := s.invoices.CreateInvoice(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvoicePersistence, err)
	}

	// Points come from the original request's line items, not the persisted
	// copy. A lookup failure here fails the whole request even though the
	// invoice is already durable; masking it as "new customer" would seed a
	// duplicate ledger entry downstream.
	points, err := s.calculatePoints(ctx, req)
	if err != nil {
		return nil, err
	}

	s.dispatchLoyaltyUpdate(req.CustomerID, points)

	s.log.Info("invoice created",
		"invoice_id", invoice.ID,
		"customer_id", invoice.CustomerID,
		"points_earned", points.Earned,
		"points_total", points.Total,
	)
	return &domain.InvoiceResponse{Invoice: *invoice, PointsTotal: points.Total}, nil
}

// dispatchLoyaltyUpdate publishes the new balance off the response path.
// Delivery failure is logged, never surfaced to the caller.
func (s *Service) dispatchLoyaltyUpdate(customerID int, points PointsResult) {
	event := domain.LevelUpUpserted{
		LevelUpID:  points.LevelUpID,
		CustomerID: customerID,
		Points:     points.Total,
		MemberDate: domain.Today(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.publishTimeout)
		defer cancel()

		if err := s.publisher.Publish(ctx, event); err != nil {
			s.log.Error("loyalty update publish failed",
				"customer_id", customerID, "points", points.Total, "err", err)
		}
	}()
}

// GetPoints returns the customer's current balance, always reading through to
// the level-up service.
func (s *Service) GetPoints(ctx context.Context, customerID int) (int, error) {
	levelUp, err := s.levelups.LevelUpByCustomer(ctx, customerID)
	if err != nil {
		return 0, err
	}
	if levelUp == nil {
		return 0, fmt.Errorf("%w: %d", ErrLoyaltyNotFound, customerID)
	}
	return levelUp.Points, nil
}

func (s *Service) GetInvoice(ctx context.Context, id int) (*domain.Invoice, error) {
	invoice, err := s.invoices.InvoiceByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, fmt.Errorf("%w: invoice %d", ErrNotFound, id)
	}
	return invoice, nil
}

func (s *Service) ListInvoices(ctx context.Context) ([]domain.Invoice, error) {
	return s.invoices.ListInvoices(ctx)
}

func (s *Service) InvoicesByCustomer(ctx context.Context, customerID int) ([]domain.Invoice, error) {
	return s.invoices.InvoicesByCustomer(ctx, customerID)
}

func (s *Service) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	product, err := s.products.ProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
	}
	return product, nil
}

// ProductsInInventory joins current inventory entries to their products.
// Inventory rows whose product has vanished are skipped rather than failing
// the listing.
func (s *Service) ProductsInInventory(ctx context.Context) ([]domain.Product, error) {
	entries, err := s.inventory.ListInventory(ctx)
	if err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(entries))
	for _, entry := range entries {
		product, err := s.products.ProductByID(ctx, entry.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			s.log.Warn("inventory references missing product",
				"inventory_id", entry.ID, "product_id", entry.ProductID)
			continue
		}
		products = append(products, *product)
	}
	return products, nil
}

// ProductsByInvoice resolves the products referenced by an invoice's line
// items via their inventory entries.
func (s *Service) ProductsByInvoice(ctx context.Context, invoiceID int) ([]domain.Product, error) {
	invoice, err := s.invoices.InvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, fmt.Errorf("%w: invoice %d", ErrNotFound, invoiceID)
	}

	products := make([]domain.Product, 0, len(invoice.Items))
	for _, item := range invoice.Items {
		inventory, err := s.inventory.InventoryByID(ctx, item.InventoryID)
		if err != nil {
			return nil, err
		}
		if inventory == nil {
			s.log.Warn("invoice item references missing inventory",
				"invoice_id", invoiceID, "inventory_id", item.InventoryID)
			continue
		}
		product, err := s.products.ProductByID(ctx, inventory.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			s.log.Warn("inventory references missing product",
				"inventory_id", inventory.ID, "product_id", inventory.ProductID)
			continue
		}
		products = append(products, *product)
	}
	return products, nil
}
