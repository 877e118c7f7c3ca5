package defeatbeta

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/tickerlab/research/backend/internal/contracts"
)

const dateLayout = "2006-01-02"

type priceResponse struct {
	Data []priceRow `json:"data"`
}

type priceRow struct {
	Date   string  `json:"report_date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// FetchPriceBars returns daily bars for symbol in [from, to]. An
// unknown symbol or an empty window yields an empty slice, not an
// error.
func (c *Client) FetchPriceBars(ctx context.Context, symbol string, from, to time.Time) ([]*contracts.PriceBar, error) {
	params := url.Values{}
	params.Set("start", from.Format(dateLayout))
	params.Set("end", to.Format(dateLayout))

	var resp priceResponse
	err := c.getJSON(ctx, "/v1/stock/"+url.PathEscape(symbol)+"/price", params, &resp)
	if errors.Is(err, errNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	bars := make([]*contracts.PriceBar, 0, len(resp.Data))
	for _, row := range resp.Data {
		date, err := time.Parse(dateLayout, row.Date)
		if err != nil {
			return nil, fmt.Errorf("bad trade date %q: %w", row.Date, err)
		}
		bars = append(bars, &contracts.PriceBar{
			Symbol: symbol,
			Date:   date,
			Open:   row.Open,
			High:   row.High,
			Low:    row.Low,
			Close:  row.Close,
			Volume: row.Volume,
		})
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"bars":   len(bars),
	}).Debug("fetched price history")

	return bars, nil
}
