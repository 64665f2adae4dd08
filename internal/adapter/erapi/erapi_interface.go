package erapi

import "context"

type ErAPIClient interface {
	FetchEURRates(ctx context.Context) (*LatestRates, error)
}
