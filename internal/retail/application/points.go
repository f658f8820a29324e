package application

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/retailhub/retail-api/internal/retail/domain"
)

// One loyalty point per full 50 of invoice total.
var pointsDivisor = decimal.NewFromInt(50)

// PointsResult is the outcome of the points calculation for one invoice.
type PointsResult struct {
	Earned      int
	Total       int
	NewCustomer bool
	// LevelUpID is the customer's existing ledger id, nil for first-timers.
	LevelUpID *int
}

// calculatePoints computes the points earned by an invoice and combines them
// with the customer's prior balance. It reads remote state but mutates
// nothing; publication of the new balance is a separate step.
func (s *Service) calculatePoints(ctx context.Context, req domain.InvoiceRequest) (PointsResult, error) {
	total := decimal.Zero
	for _, item := range req.Items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	earned := int(total.Div(pointsDivisor).Floor().IntPart())

	prior, err := s.levelups.LevelUpByCustomer(ctx, req.CustomerID)
	if err != nil {
		return PointsResult{}, fmt.Errorf("points lookup for customer %d: %w", req.CustomerID, err)
	}
	if prior == nil {
		return PointsResult{Earned: earned, Total: earned, NewCustomer: true}, nil
	}

	id := prior.ID
	return PointsResult{Earned: earned, Total: earned + prior.Points, LevelUpID: &id}, nil
}
