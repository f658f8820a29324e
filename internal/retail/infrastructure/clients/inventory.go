package clients

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/retailhub/retail-api/internal/retail/domain"
)

type InventoryClient struct {
	http *resty.Client
}

func NewInventoryClient(baseURL string, timeout time.Duration) *InventoryClient {
	return &InventoryClient{http: newHTTPClient(baseURL, timeout)}
}

func (c *InventoryClient) InventoryByID(ctx context.Context, id int) (*domain.Inventory, error) {
	resp, err := c.http.R().SetContext(ctx).Get(fmt.Sprintf("/inventory/%d", id))
	if err != nil {
		return nil, fmt.Errorf("inventory service: %w", err)
	}

	var inventory domain.Inventory
	found, err := decodeEntity(resp, "inventory", &inventory)
	if err != nil || !found {
		return nil, err
	}
	return &inventory, nil
}

func (c *InventoryClient) ListInventory(ctx context.Context) ([]domain.Inventory, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/inventory")
	if err != nil {
		return nil, fmt.Errorf("inventory service: %w", err)
	}

	var entries []domain.Inventory
	if err := decodeList(resp, "inventory", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
