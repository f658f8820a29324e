package clients

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/retailhub/retail-api/internal/retail/domain"
)

type ProductClient struct {
	http *resty.Client
}

func NewProductClient(baseURL string, timeout time.Duration) *ProductClient {
	return &ProductClient{http: newHTTPClient(baseURL, timeout)}
}

func (c *ProductClient) ProductByID(ctx context.Context, id int) (*domain.Product, error) {
	resp, err := c.http.R().SetContext(ctx).Get(fmt.Sprintf("/products/%d", id))
	if err != nil {
		return nil, fmt.Errorf("product service: %w", err)
	}

	var product domain.Product
	found, err := decodeEntity(resp, "product", &product)
	if err != nil || !found {
		return nil, err
	}
	return &product, nil
}
