package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailhub/retail-api/internal/retail/domain"
)

func awaitEvent(t *testing.T, events <-chan domain.LevelUpUpserted) domain.LevelUpUpserted {
	t.Helper()
	select {
	case event := <-events:
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("expected a loyalty update to be published")
		return domain.LevelUpUpserted{}
	}
}

func assertNoEvent(t *testing.T, events <-chan domain.LevelUpUpserted) {
	t.Helper()
	select {
	case event := <-events:
		t.Fatalf("unexpected loyalty update published: %+v", event)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCreateInvoiceFirstPurchase(t *testing.T) {
	svc, f := newTestService(t)
	seedCatalog(f)

	resp, err := svc.CreateInvoice(context.Background(), domain.InvoiceRequest{
		CustomerID: 7,
		Items:      []domain.LineItem{{InventoryID: 3, Quantity: 2, UnitPrice: mustDecimal("25.00")}},
	})

	require.NoError(t, err)
	assert.Equal(t, 101, resp.ID, "invoice id comes from the invoice service")
	assert.Equal(t, 7, resp.CustomerID)
	assert.Equal(t, 1, resp.PointsTotal, "total 50.00 earns one point")
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 1, resp.Items[0].ID, "item ids come from the invoice service")

	event := awaitEvent(t, f.publisher.events)
	assert.Equal(t, 7, event.CustomerID)
	assert.Equal(t, 1, event.Points)
	assert.Nil(t, event.LevelUpID, "first purchase publishes a create intent")
	assertNoEvent(t, f.publisher.events)
}

func TestCreateInvoiceExistingCustomerAccumulates(t *testing.T) {
	svc, f := newTestService(t)
	seedCatalog(f)
	f.levelups.records[7] = domain.LevelUp{ID: 55, CustomerID: 7, Points: 10}

	resp, err := svc.CreateInvoice(context.Background(), domain.InvoiceRequest{
		CustomerID: 7,
		Items:      []domain.LineItem{{InventoryID: 3, Quantity: 2, UnitPrice: mustDecimal("25.00")}},
	})

	require.NoError(t, err)
	assert.Equal(t, 11, resp.PointsTotal)

	event := awaitEvent(t, f.publisher.events)
	assert.Equal(t, 11, event.Points)
	require.NotNil(t, event.LevelUpID, "existing customer publishes an update intent")
	assert.Equal(t, 55, *event.LevelUpID)
}

func TestCreateInvoicePersistenceFailure(t *testing.T) {
	svc, f := newTestService(t)
	seedCatalog(f)
	f.invoices.createErr = errors.New("connection refused")

	_, err := svc.CreateInvoice(context.Background(), domain.InvoiceRequest{
		CustomerID: 7,
		Items:      []domain.LineItem{{InventoryID: 3, Quantity: 1, UnitPrice: mustDecimal("10.00")}},
	})

	assert.ErrorIs(t, err, ErrInvoicePersistence)
	assert.Equal(t, 0, f.levelups.calls, "no loyalty side effect before persistence succeeds")
	assertNoEvent(t, f.publisher.events)
}

func TestCreateInvoiceLoyaltyUnavailableFailsRequest(t *testing.T) {
	svc, f := newTestService(t)
	seedCatalog(f)
	f.levelups.err = ErrLoyaltyUnavailable

	_, err := svc.CreateInvoice(context.Background(), domain.InvoiceRequest{
		CustomerID: 7,
		Items:      []domain.LineItem{{InventoryID: 3, Quantity: 1, UnitPrice: mustDecimal("10.00")}},
	})

	assert.ErrorIs(t, err, ErrLoyaltyUnavailable)
	assert.True(t, f.invoices.createCalled,
		"invoice persisted before the lookup failed; the gap is documented, not masked")
	assertNoEvent(t, f.publisher.events)
}

func TestCreateInvoicePublishFailureDoesNotFailRequest(t *testing.T) {
	svc, f := newTestService(t)
	seedCatalog(f)
	f.publisher.err = errors.New("broker unreachable")

	resp, err := svc.CreateInvoice(context.Background(), domain.InvoiceRequest{
		CustomerID: 7,
		Items:      []domain.LineItem{{InventoryID: 3, Quantity: 2, UnitPrice: mustDecimal("25.00")}},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, resp.PointsTotal)
	awaitEvent(t, f.publisher.events)
}

func TestGetPoints(t *testing.T) {
	svc, f := newTestService(t)
	f.levelups.records[7] = domain.LevelUp{ID: 55, CustomerID: 7, Points: 42}

	points, err := svc.GetPoints(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, 42, points)
}

func TestGetPointsNoRecord(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetPoints(context.Background(), 7)

	assert.ErrorIs(t, err, ErrLoyaltyNotFound)
}

func TestGetPointsUnavailableIsNotNotFound(t *testing.T) {
	svc, f := newTestService(t)
	f.levelups.err = ErrLoyaltyUnavailable

	_, err := svc.GetPoints(context.Background(), 7)

	assert.ErrorIs(t, err, ErrLoyaltyUnavailable)
	assert.NotErrorIs(t, err, ErrLoyaltyNotFound)
}

func TestProductsInInventory(t *testing.T) {
	svc, f := newTestService(t)
	seedCatalog(f)
	// A second stocked product and an orphaned inventory row.
	f.inventory.entries[4] = domain.Inventory{ID: 4, ProductID: 12, Quantity: 1}
	f.inventory.entries[5] = domain.Inventory{ID: 5, ProductID: 999, Quantity: 1}
	f.products.products[12] = domain.Product{ID: 12, Name: "Mouse"}

	products, err := svc.ProductsInInventory(context.Background())

	require.NoError(t, err)
	assert.Len(t, products, 2, "orphaned inventory rows are skipped")
}

func TestProductsByInvoice(t *testing.T) {
	svc, f := newTestService(t)
	seedCatalog(f)
	f.invoices.invoices[101] = domain.Invoice{
		ID:         101,
		CustomerID: 7,
		Items:      []domain.InvoiceItem{{ID: 1, InvoiceID: 101, InventoryID: 3, Quantity: 2}},
	}

	products, err := svc.ProductsByInvoice(context.Background(), 101)

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 9, products[0].ID)
}

func TestProductsByInvoiceUnknownInvoice(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ProductsByInvoice(context.Background(), 404)

	assert.ErrorIs(t, err, ErrNotFound)
}
