package clients

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/retailhub/retail-api/internal/retail/domain"
)

type CustomerClient struct {
	http *resty.Client
}

func NewCustomerClient(baseURL string, timeout time.Duration) *CustomerClient {
	return &CustomerClient{http: newHTTPClient(baseURL, timeout)}
}

func (c *CustomerClient) CustomerByID(ctx context.Context, id int) (*domain.Customer, error) {
	resp, err := c.http.R().SetContext(ctx).Get(fmt.Sprintf("/customers/%d", id))
	if err != nil {
		return nil, fmt.Errorf("customer service: %w", err)
	}

	var customer domain.Customer
	found, err := decodeEntity(resp, "customer", &customer)
	if err != nil || !found {
		return nil, err
	}
	return &customer, nil
}
