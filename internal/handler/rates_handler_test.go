package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"budget-service/internal/entity"
	"budget-service/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockRateUsecase struct {
	mock.Mock
}

func (m *mockRateUsecase) RefreshRates(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockRateUsecase) EnsureFresh(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockRateUsecase) GetRates(ctx context.Context) (*entity.RateSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RateSnapshot), args.Error(1)
}

func (m *mockRateUsecase) GetRatesHistory(ctx context.Context) (entity.HistorySeries, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(entity.HistorySeries), args.Error(1)
}

func setupTestHandler() (*RatesHandler, *mockRateUsecase, *logrus.Logger) {
	mockUsecase := new(mockRateUsecase)
	logger, _ := test.NewNullLogger()
	handler := NewRatesHandler(mockUsecase, logger)
	return handler, mockUsecase, logger
}

func testContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/", nil)
	return c, w
}

func TestGetRates_Success(t *testing.T) {
	handler, mockUsecase, _ := setupTestHandler()

	snapshot := entity.NewSnapshot()
	snapshot.Rates["EUR"] = entity.RateEntry{Buy: "134.00", Sell: "136.00"}
	snapshot.LastUpdate = "2025-08-30 09:00:00"
	mockUsecase.On("GetRates", mock.Anything).Return(snapshot, nil)

	c, w := testContext(t)
	handler.GetRates(c)

	assert.Equal(t, http.StatusOK, w.Code)

	// body has the wire shape: currency keys plus last_update
	var doc map[string]json.RawMessage
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Contains(t, doc, "DZD")
	assert.Contains(t, doc, "EUR")
	assert.Contains(t, doc, "last_update")

	mockUsecase.AssertExpectations(t)
}

func TestGetRates_NotFound(t *testing.T) {
	handler, mockUsecase, _ := setupTestHandler()

	mockUsecase.On("GetRates", mock.Anything).Return(nil, store.ErrNotFound)

	c, w := testContext(t)
	handler.GetRates(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var response map[string]string
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "Rates not available", response["error"])
}

func TestGetRates_Error(t *testing.T) {
	handler, mockUsecase, _ := setupTestHandler()

	mockUsecase.On("GetRates", mock.Anything).Return(nil, errors.New("disk error"))

	c, w := testContext(t)
	handler.GetRates(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetRatesHistory_Success(t *testing.T) {
	handler, mockUsecase, _ := setupTestHandler()

	history := entity.HistorySeries{
		"EUR": {{Date: "2025-08-30", Buy: 134.0}},
	}
	mockUsecase.On("GetRatesHistory", mock.Anything).Return(history, nil)

	c, w := testContext(t)
	handler.GetRatesHistory(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var got entity.HistorySeries
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, history, got)
}

func TestGetRatesHistory_NotFound(t *testing.T) {
	handler, mockUsecase, _ := setupTestHandler()

	mockUsecase.On("GetRatesHistory", mock.Anything).Return(nil, store.ErrNotFound)

	c, w := testContext(t)
	handler.GetRatesHistory(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var response map[string]string
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "History not available", response["error"])
}

func TestRefreshRates_Success(t *testing.T) {
	handler, mockUsecase, _ := setupTestHandler()

	mockUsecase.On("RefreshRates", mock.Anything).Return(nil)

	c, w := testContext(t)
	handler.RefreshRates(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]string
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "Rates successfully updated", response["message"])

	mockUsecase.AssertExpectations(t)
}

func TestRefreshRates_Error(t *testing.T) {
	handler, mockUsecase, _ := setupTestHandler()

	mockUsecase.On("RefreshRates", mock.Anything).Return(errors.New("primary source down"))

	c, w := testContext(t)
	handler.RefreshRates(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var response map[string]string
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "Failed to fetch rates", response["error"])
}
