package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"budget-service/internal/adapter/erapi"
	"budget-service/internal/adapter/square"
	"budget-service/internal/entity"
	"budget-service/internal/store"

	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

type RateService struct {
	square square.SquareClient
	erapi  erapi.ErAPIClient
	store  store.RateStore
	logger *logrus.Logger
}

func NewRateService(squareClient square.SquareClient, erapiClient erapi.ErAPIClient, rateStore store.RateStore, logger *logrus.Logger) *RateService {
	return &RateService{
		square: squareClient,
		erapi:  erapiClient,
		store:  rateStore,
		logger: logger,
	}
}

// RefreshRates runs one full pipeline pass: scrape the primary page, derive
// PLN from the EUR cross-rate, merge today's values into the historical
// series and persist both documents. A primary-source failure aborts the run
// before any write, so previously-good state stays intact.
func (r *RateService) RefreshRates(ctx context.Context) error {
	r.logger.Info("Fetching currency rates from primary source...")

	snapshot := entity.NewSnapshot()

	scraped, err := r.square.FetchRates(ctx)
	if err != nil {
		r.logger.Errorf("Failed to fetch rates from primary source: %v", err)
		return fmt.Errorf("fetch rates: %w", err)
	}
	for code, entry := range scraped {
		snapshot.Rates[code] = entry
	}

	r.derivePLN(ctx, snapshot)

	now := time.Now().UTC()
	snapshot.LastUpdate = now.Format(entity.LastUpdateLayout)

	history := r.loadHistory(ctx)
	today := now.Format(entity.DateLayout)
	for _, code := range entity.TrackedCurrencies {
		entry, ok := snapshot.Rates[code]
		if !ok {
			continue
		}
		buy, err := strconv.ParseFloat(entry.Buy, 64)
		if err != nil {
			r.logger.Debugf("Unparseable buy rate %q for %s, recording 0", entry.Buy, code)
			buy = 0
		}
		history.Upsert(code, today, buy)
	}

	err = multierr.Combine(
		r.store.SaveSnapshot(ctx, snapshot),
		r.store.SaveHistory(ctx, history),
	)
	if err != nil {
		r.logger.Errorf("Failed to persist rates: %v", err)
		return fmt.Errorf("persist rates: %w", err)
	}

	r.logger.Infof("Stored snapshot with %d currencies, history covers %d", len(snapshot.Rates), len(history))
	return nil
}

// derivePLN replaces the PLN placeholder with a value computed from the live
// EUR/PLN cross-rate. Best-effort: any failure leaves the snapshot untouched
// and never aborts the pipeline.
func (r *RateService) derivePLN(ctx context.Context, snapshot *entity.RateSnapshot) {
	latest, err := r.erapi.FetchEURRates(ctx)
	if err != nil {
		r.logger.Warnf("Could not fetch PLN cross-rate: %v", err)
		return
	}

	eurToPln, ok := latest.Rate("PLN")
	if !ok || eurToPln <= 0 {
		r.logger.Warn("PLN missing from cross-rate response")
		return
	}

	eur, ok := snapshot.Rates["EUR"]
	if !ok {
		return
	}
	eurBuy, err := strconv.ParseFloat(eur.Buy, 64)
	if err != nil || eurBuy <= 0 {
		r.logger.Debugf("EUR buy rate %q not usable for PLN derivation", eur.Buy)
		return
	}
	eurSell, err := strconv.ParseFloat(eur.Sell, 64)
	if err != nil {
		eurSell = 0
	}

	// Rates are DZD per foreign unit, so dividing the DZD/EUR quote by the
	// EUR/PLN cross-rate gives a DZD/PLN quote.
	snapshot.Rates["PLN"] = entity.RateEntry{
		Buy:        formatRate(round2(eurBuy / eurToPln)),
		Sell:       formatRate(round2(eurSell / eurToPln)),
		RateEURPLN: formatRate(eurToPln),
	}
	r.logger.Infof("Derived PLN rate from EUR/PLN cross-rate %v", eurToPln)
}

func (r *RateService) loadHistory(ctx context.Context) entity.HistorySeries {
	history, err := r.store.LoadHistory(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			r.logger.Info("No rates history yet, starting fresh")
		} else {
			r.logger.Warnf("Could not read rates history, starting fresh: %v", err)
		}
		return entity.HistorySeries{}
	}
	return history
}

// EnsureFresh is the startup gate: if the persisted snapshot is missing or
// not from today it runs one synchronous refresh before the caller starts
// serving. A refresh failure is reported but must not kill the process.
func (r *RateService) EnsureFresh(ctx context.Context) error {
	if r.snapshotIsFresh(ctx) {
		return nil
	}
	r.logger.Info("Rates missing or stale, updating immediately...")
	return r.RefreshRates(ctx)
}

func (r *RateService) snapshotIsFresh(ctx context.Context) bool {
	snapshot, err := r.store.LoadSnapshot(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			r.logger.Warn("rates.json not found")
		} else {
			r.logger.Warnf("Error reading rates.json: %v", err)
		}
		return false
	}

	if snapshot.LastUpdate == "" {
		r.logger.Warn("rates.json has no last_update")
		return false
	}
	last, err := snapshot.LastUpdateTime()
	if err != nil {
		r.logger.Warnf("Unparseable last_update %q: %v", snapshot.LastUpdate, err)
		return false
	}

	today := time.Now().UTC()
	if last.Year() != today.Year() || last.YearDay() != today.YearDay() {
		r.logger.Warnf("Rates are from a previous day (%s)", last.Format(entity.DateLayout))
		return false
	}

	r.logger.Infof("Rates are from today (%s)", snapshot.LastUpdate)
	return true
}

func (r *RateService) GetRates(ctx context.Context) (*entity.RateSnapshot, error) {
	snapshot, err := r.store.LoadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("get rates: %w", err)
	}
	return snapshot, nil
}

func (r *RateService) GetRatesHistory(ctx context.Context) (entity.HistorySeries, error) {
	history, err := r.store.LoadHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("get rates history: %w", err)
	}
	return history, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// formatRate renders a float the shortest way that round-trips, matching the
// textual form the rest of the snapshot keeps.
func formatRate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
