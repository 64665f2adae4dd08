package square

import (
	"context"

	"budget-service/internal/entity"
)

type SquareClient interface {
	FetchRates(ctx context.Context) (map[string]entity.RateEntry, error)
}
