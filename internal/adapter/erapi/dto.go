package erapi

// LatestRates is the relevant slice of the open.er-api.com response for a
// base-currency query.
type LatestRates struct {
	Result   string             `json:"result"`
	BaseCode string             `json:"base_code"`
	Rates    map[string]float64 `json:"rates"`
}

// Rate returns the cross-rate for code, if present.
func (l *LatestRates) Rate(code string) (float64, bool) {
	rate, ok := l.Rates[code]
	return rate, ok
}
