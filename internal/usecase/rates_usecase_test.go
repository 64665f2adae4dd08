package usecase

import (
	"context"
	"errors"
	"testing"

	"budget-service/internal/entity"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCurrencyService struct {
	mock.Mock
}

func (m *mockCurrencyService) RefreshRates(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockCurrencyService) EnsureFresh(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockCurrencyService) GetRates(ctx context.Context) (*entity.RateSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RateSnapshot), args.Error(1)
}

func (m *mockCurrencyService) GetRatesHistory(ctx context.Context) (entity.HistorySeries, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(entity.HistorySeries), args.Error(1)
}

func setupTestUsecase() (*RatesUsecase, *mockCurrencyService, *logrus.Logger) {
	mockService := new(mockCurrencyService)
	logger, _ := test.NewNullLogger()
	uc := NewRatesUsecase(mockService, logger)
	return uc, mockService, logger
}

func TestRefreshRates(t *testing.T) {
	ctx := context.Background()
	uc, mockService, _ := setupTestUsecase()

	mockService.On("RefreshRates", ctx).Return(nil)

	assert.NoError(t, uc.RefreshRates(ctx))
	mockService.AssertExpectations(t)
}

func TestRefreshRates_Error(t *testing.T) {
	ctx := context.Background()
	uc, mockService, _ := setupTestUsecase()

	expectedErr := errors.New("fetch rates: blocked")
	mockService.On("RefreshRates", ctx).Return(expectedErr)

	err := uc.RefreshRates(ctx)
	assert.ErrorIs(t, err, expectedErr)
}

func TestEnsureFresh(t *testing.T) {
	ctx := context.Background()
	uc, mockService, _ := setupTestUsecase()

	mockService.On("EnsureFresh", ctx).Return(nil)

	assert.NoError(t, uc.EnsureFresh(ctx))
	mockService.AssertExpectations(t)
}

func TestGetRates(t *testing.T) {
	ctx := context.Background()
	uc, mockService, _ := setupTestUsecase()

	expected := entity.NewSnapshot()
	expected.LastUpdate = "2025-08-30 09:00:00"
	mockService.On("GetRates", ctx).Return(expected, nil)

	snapshot, err := uc.GetRates(ctx)
	require.NoError(t, err)
	assert.Equal(t, expected, snapshot)
}

func TestGetRatesHistory_Error(t *testing.T) {
	ctx := context.Background()
	uc, mockService, _ := setupTestUsecase()

	expectedErr := errors.New("not found")
	mockService.On("GetRatesHistory", ctx).Return(nil, expectedErr)

	_, err := uc.GetRatesHistory(ctx)
	assert.ErrorIs(t, err, expectedErr)
}
