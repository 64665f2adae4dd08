package handler

import (
	"errors"
	"net/http"

	"budget-service/internal/store"
	"budget-service/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type RatesHandler struct {
	usecase usecase.RateUsecase
	logger  *logrus.Logger
}

func NewRatesHandler(usecase usecase.RateUsecase, logger *logrus.Logger) *RatesHandler {
	return &RatesHandler{
		usecase: usecase,
		logger:  logger,
	}
}

// GetRates returns the current rates snapshot document.
func (h *RatesHandler) GetRates(c *gin.Context) {
	snapshot, err := h.usecase.GetRates(c.Request.Context())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Rates not available"})
			return
		}
		h.logger.Errorf("Failed to read rates: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read rates"})
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// GetRatesHistory returns the bounded per-currency daily series.
func (h *RatesHandler) GetRatesHistory(c *gin.Context) {
	history, err := h.usecase.GetRatesHistory(c.Request.Context())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "History not available"})
			return
		}
		h.logger.Errorf("Failed to read rates history: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read rates history"})
		return
	}

	c.JSON(http.StatusOK, history)
}

// RefreshRates runs the pipeline on demand. Re-running on the same day
// overwrites that day's history entry.
func (h *RatesHandler) RefreshRates(c *gin.Context) {
	if err := h.usecase.RefreshRates(c.Request.Context()); err != nil {
		h.logger.Errorf("Failed to refresh rates: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch rates"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Rates successfully updated"})
}
