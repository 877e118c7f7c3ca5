package defeatbeta

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/tickerlab/research/backend/internal/contracts"
)

type metricsResponse struct {
	Data *metricsRow `json:"data"`
}

type metricsRow struct {
	AsOfDate  string   `json:"report_date"`
	PERatio   *float64 `json:"pe_ratio"`
	PSRatio   *float64 `json:"ps_ratio"`
	PBRatio   *float64 `json:"pb_ratio"`
	EPS       *float64 `json:"eps"`
	MarketCap *float64 `json:"market_cap"`
}

// FetchLatestMetrics returns the provider's most recent ratio snapshot
// for symbol, or nil when the provider has none. Individual ratios may
// be null upstream (a loss-making company has no P/E) and stay nil.
func (c *Client) FetchLatestMetrics(ctx context.Context, symbol string) (*contracts.MetricSnapshot, error) {
	var resp metricsResponse
	err := c.getJSON(ctx, "/v1/stock/"+url.PathEscape(symbol)+"/ratios/latest", nil, &resp)
	if errors.Is(err, errNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, nil
	}

	snapshot := &contracts.MetricSnapshot{
		Symbol:    symbol,
		PERatio:   resp.Data.PERatio,
		PSRatio:   resp.Data.PSRatio,
		PBRatio:   resp.Data.PBRatio,
		EPS:       resp.Data.EPS,
		MarketCap: resp.Data.MarketCap,
	}
	if resp.Data.AsOfDate != "" {
		date, err := time.Parse(dateLayout, resp.Data.AsOfDate)
		if err == nil {
			snapshot.Date = date
		}
	}
	return snapshot, nil
}
