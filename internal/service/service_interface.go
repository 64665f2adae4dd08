package service

import (
	"context"

	"budget-service/internal/entity"
)

type CurrencyService interface {
	RefreshRates(ctx context.Context) error
	EnsureFresh(ctx context.Context) error
	GetRates(ctx context.Context) (*entity.RateSnapshot, error)
	GetRatesHistory(ctx context.Context) (entity.HistorySeries, error)
}
