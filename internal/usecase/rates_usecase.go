package usecase

import (
	"context"

	"budget-service/internal/entity"
	"budget-service/internal/service"

	"github.com/sirupsen/logrus"
)

type RatesUsecase struct {
	service service.CurrencyService
	logger  *logrus.Logger
}

func NewRatesUsecase(service service.CurrencyService, logger *logrus.Logger) *RatesUsecase {
	return &RatesUsecase{
		service: service,
		logger:  logger,
	}
}

func (uc *RatesUsecase) RefreshRates(ctx context.Context) error {
	uc.logger.Info("Refreshing rates from external sources...")
	return uc.service.RefreshRates(ctx)
}

func (uc *RatesUsecase) EnsureFresh(ctx context.Context) error {
	uc.logger.Info("Checking rates freshness...")
	return uc.service.EnsureFresh(ctx)
}

func (uc *RatesUsecase) GetRates(ctx context.Context) (*entity.RateSnapshot, error) {
	snapshot, err := uc.service.GetRates(ctx)
	if err != nil {
		uc.logger.Errorf("Failed to get rates: %v", err)
		return nil, err
	}
	return snapshot, nil
}

func (uc *RatesUsecase) GetRatesHistory(ctx context.Context) (entity.HistorySeries, error) {
	history, err := uc.service.GetRatesHistory(ctx)
	if err != nil {
		uc.logger.Errorf("Failed to get rates history: %v", err)
		return nil, err
	}
	return history, nil
}
