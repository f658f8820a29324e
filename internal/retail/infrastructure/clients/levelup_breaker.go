package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/retailhub/retail-api/internal/retail/application"
	"github.com/retailhub/retail-api/internal/retail/domain"
)

// LevelUpBreaker wraps a level-up gateway in a circuit breaker. After the
// configured number of consecutive failures the circuit opens and calls
// short-circuit for the cool-down window; the first call after the window is
// the single half-open trial. Every failure path, short-circuited or not,
// surfaces application.ErrLoyaltyUnavailable so callers never mistake an
// outage for a customer without a loyalty record.
type LevelUpBreaker struct {
	next    application.LevelUpGateway
	breaker *gobreaker.CircuitBreaker
}

func NewLevelUpBreaker(log *slog.Logger, next application.LevelUpGateway, failureThreshold uint32, cooldown time.Duration) *LevelUpBreaker {
	settings := gobreaker.Settings{
		Name:    "levelup",
		Timeout: cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state change",
				"breaker", name, "from", from.String(), "to", to.String())
		},
		// A caller hanging up says nothing about the loyalty service, so a
		// canceled request must not count toward tripping the circuit.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}
	return &LevelUpBreaker{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

func (b *LevelUpBreaker) LevelUpByCustomer(ctx context.Context, customerID int) (*domain.LevelUp, error) {
	result, err := b.breaker.Execute(func() (any, error) {
		return b.next.LevelUpByCustomer(ctx, customerID)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", application.ErrLoyaltyUnavailable, err)
	}

	levelUp, _ := result.(*domain.LevelUp)
	return levelUp, nil
}
