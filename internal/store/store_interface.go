package store

import (
	"context"

	"budget-service/internal/entity"
)

type RateStore interface {
	SaveSnapshot(ctx context.Context, snapshot *entity.RateSnapshot) error
	LoadSnapshot(ctx context.Context) (*entity.RateSnapshot, error)

	SaveHistory(ctx context.Context, history entity.HistorySeries) error
	LoadHistory(ctx context.Context) (entity.HistorySeries, error)
}
