package clients

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/retailhub/retail-api/internal/retail/domain"
)

type LevelUpClient struct {
	http *resty.Client
}

func NewLevelUpClient(baseURL string, timeout time.Duration) *LevelUpClient {
	return &LevelUpClient{http: newHTTPClient(baseURL, timeout)}
}

// LevelUpByCustomer returns (nil, nil) when the customer has no loyalty
// record. Production wiring puts LevelUpBreaker in front of this client so
// that callers can tell absence apart from an outage.
func (c *LevelUpClient) LevelUpByCustomer(ctx context.Context, customerID int) (*domain.LevelUp, error) {
	resp, err := c.http.R().SetContext(ctx).Get(fmt.Sprintf("/levelups/customerId/%d", customerID))
	if err != nil {
		return nil, fmt.Errorf("levelup service: %w", err)
	}

	var levelUp domain.LevelUp
	found, err := decodeEntity(resp, "levelup", &levelUp)
	if err != nil || !found {
		return nil, err
	}
	return &levelUp, nil
}
