package application

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/retailhub/retail-api/internal/retail/domain"
)

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fakeCustomers struct {
	customers map[int]domain.Customer
	err       error
}

func (f *fakeCustomers) CustomerByID(_ context.Context, id int) (*domain.Customer, error) {
	if f.err != nil {
		return nil, f.err
	}
	if c, ok := f.customers[id]; ok {
		return &c, nil
	}
	return nil, nil
}

type fakeInventory struct {
	entries map[int]domain.Inventory
	err     error
}

func (f *fakeInventory) InventoryByID(_ context.Context, id int) (*domain.Inventory, error) {
	if f.err != nil {
		return nil, f.err
	}
	if e, ok := f.entries[id]; ok {
		return &e, nil
	}
	return nil, nil
}

func (f *fakeInventory) ListInventory(_ context.Context) ([]domain.Inventory, error) {
	if f.err != nil {
		return nil, f.err
	}
	entries := make([]domain.Inventory, 0, len(f.entries))
	for _, e := range f.entries {
		entries = append(entries, e)
	}
	return entries, nil
}

type fakeProducts struct {
	products map[int]domain.Product
	err      error
}

func (f *fakeProducts) ProductByID(_ context.Context, id int) (*domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	if p, ok := f.products[id]; ok {
		return &p, nil
	}
	return nil, nil
}

type fakeInvoices struct {
	nextID       int
	createCalled bool
	createErr    error
	invoices     map[int]domain.Invoice
}

func (f *fakeInvoices) CreateInvoice(_ context.Context, req domain.InvoiceRequest) (*domain.Invoice, error) {
	f.createCalled = true
	if f.createErr != nil {
		return nil, f.createErr
	}

	invoice := domain.Invoice{
		ID:           f.nextID,
		CustomerID:   req.CustomerID,
		PurchaseDate: domain.Today(),
	}
	for i, item := range req.Items {
		invoice.Items = append(invoice.Items, domain.InvoiceItem{
			ID:          i + 1,
			InvoiceID:   f.nextID,
			InventoryID: item.InventoryID,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	return &invoice, nil
}

func (f *fakeInvoices) InvoiceByID(_ context.Context, id int) (*domain.Invoice, error) {
	if inv, ok := f.invoices[id]; ok {
		return &inv, nil
	}
	return nil, nil
}

func (f *fakeInvoices) ListInvoices(_ context.Context) ([]domain.Invoice, error) {
	invoices := make([]domain.Invoice, 0, len(f.invoices))
	for _, inv := range f.invoices {
		invoices = append(invoices, inv)
	}
	return invoices, nil
}

func (f *fakeInvoices) InvoicesByCustomer(_ context.Context, customerID int) ([]domain.Invoice, error) {
	var invoices []domain.Invoice
	for _, inv := range f.invoices {
		if inv.CustomerID == customerID {
			invoices = append(invoices, inv)
		}
	}
	return invoices, nil
}

type fakeLevelUps struct {
	records map[int]domain.LevelUp
	err     error
	calls   int
}

func (f *fakeLevelUps) LevelUpByCustomer(_ context.Context, customerID int) (*domain.LevelUp, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if lu, ok := f.records[customerID]; ok {
		return &lu, nil
	}
	return nil, nil
}

type fakePublisher struct {
	events chan domain.LevelUpUpserted
	err    error
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{events: make(chan domain.LevelUpUpserted, 8)}
}

func (f *fakePublisher) Publish(_ context.Context, event domain.LevelUpUpserted) error {
	f.events <- event
	return f.err
}
