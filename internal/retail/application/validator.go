package application

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/retailhub/retail-api/internal/retail/domain"
)

// validate runs every remote precondition check for an invoice submission.
// All checks must pass before any mutation is attempted. Per-item checks are
// independent and run concurrently; when several items fail, the error of the
// first failing item in list order is reported.
func (s *Service) validate(ctx context.Context, req domain.InvoiceRequest) error {
	customer, err := s.customers.CustomerByID(ctx, req.CustomerID)
	if err != nil {
		return fmt.Errorf("customer lookup: %w", err)
	}
	if customer == nil {
		return fmt.Errorf("%w: %d", ErrInvalidCustomer, req.CustomerID)
	}

	results := make([]error, len(req.Items))
	g, gctx := errgroup.WithContext(ctx)
	for i, item := range req.Items {
		i, item := i, item
		g.Go(func() error {
			results[i] = s.validateItem(gctx, item)
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range results {
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) validateItem(ctx context.Context, item domain.LineItem) error {
	inventory, err := s.inventory.InventoryByID(ctx, item.InventoryID)
	if err != nil {
		return fmt.Errorf("inventory lookup: %w", err)
	}
	if inventory == nil {
		return fmt.Errorf("%w: %d", ErrInvalidInventory, item.InventoryID)
	}

	if item.Quantity > inventory.Quantity || item.Quantity < 0 {
		return fmt.Errorf("%w: inventory %d has %d, requested %d",
			ErrInsufficientQuantity, item.InventoryID, inventory.Quantity, item.Quantity)
	}

	product, err := s.products.ProductByID(ctx, inventory.ProductID)
	if err != nil {
		return fmt.Errorf("product lookup: %w", err)
	}
	if product == nil {
		return fmt.Errorf("%w: %d", ErrInvalidProduct, inventory.ProductID)
	}
	return nil
}
