package entity

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	// LastUpdateLayout is the textual form of the snapshot timestamp.
	LastUpdateLayout = "2006-01-02 15:04:05"
	// DateLayout is the per-day key used in the historical series.
	DateLayout = "2006-01-02"

	lastUpdateKey  = "last_update"
	maxHistoryDays = 30
)

// TrackedCurrencies are the codes kept in the historical series.
var TrackedCurrencies = []string{"EUR", "USD", "PLN"}

// RateEntry holds one currency's buy/sell quotes in DZD. Values stay in the
// exact textual form they were scraped in.
type RateEntry struct {
	Buy        string `json:"buy"`
	Sell       string `json:"sell"`
	RateEURPLN string `json:"rate_eur_pln,omitempty"`
}

// RateSnapshot is the single current rates document. On the wire it is one
// JSON object whose keys are currency codes plus a "last_update" string key.
type RateSnapshot struct {
	Rates      map[string]RateEntry
	LastUpdate string
}

// NewSnapshot seeds the fixed DZD base entry and a zero PLN placeholder.
func NewSnapshot() *RateSnapshot {
	return &RateSnapshot{
		Rates: map[string]RateEntry{
			"DZD": {Buy: "1", Sell: "1"},
			"PLN": {Buy: "0", Sell: "0"},
		},
	}
}

func (s *RateSnapshot) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(s.Rates)+1)
	for code, entry := range s.Rates {
		doc[code] = entry
	}
	if s.LastUpdate != "" {
		doc[lastUpdateKey] = s.LastUpdate
	}
	return json.Marshal(doc)
}

func (s *RateSnapshot) UnmarshalJSON(data []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	s.Rates = make(map[string]RateEntry, len(doc))
	s.LastUpdate = ""

	for key, raw := range doc {
		if key == lastUpdateKey {
			if err := json.Unmarshal(raw, &s.LastUpdate); err != nil {
				return fmt.Errorf("parse %s: %w", lastUpdateKey, err)
			}
			continue
		}
		var entry RateEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			return fmt.Errorf("parse entry %s: %w", key, err)
		}
		s.Rates[key] = entry
	}
	return nil
}

// LastUpdateTime parses the snapshot timestamp as UTC wall clock.
func (s *RateSnapshot) LastUpdateTime() (time.Time, error) {
	return time.ParseInLocation(LastUpdateLayout, s.LastUpdate, time.UTC)
}

// HistoryPoint is one day's recorded buy rate.
type HistoryPoint struct {
	Date string  `json:"date"`
	Buy  float64 `json:"buy"`
}

// HistorySeries maps a currency code to its bounded daily series.
type HistorySeries map[string][]HistoryPoint

// Upsert records buy for date in code's series. A second write for the same
// date overwrites in place; otherwise the point is appended and the series
// truncated to the most recent maxHistoryDays entries.
func (h HistorySeries) Upsert(code, date string, buy float64) {
	points := h[code]
	for i := range points {
		if points[i].Date == date {
			points[i].Buy = buy
			h[code] = points
			return
		}
	}
	points = append(points, HistoryPoint{Date: date, Buy: buy})
	if len(points) > maxHistoryDays {
		points = points[len(points)-maxHistoryDays:]
	}
	h[code] = points
}
