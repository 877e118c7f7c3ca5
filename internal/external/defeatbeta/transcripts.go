package defeatbeta

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"
)

type callListResponse struct {
	Data []struct {
		Date string `json:"report_date"`
	} `json:"data"`
}

type transcriptResponse struct {
	Data []transcriptRow `json:"data"`
}

type transcriptRow struct {
	Speaker string `json:"speaker"`
	Text    string `json:"content"`
}

// ListEarningsCallDates returns the dates of earnings calls the
// provider holds transcripts for, ascending, limited to [from, to].
func (c *Client) ListEarningsCallDates(ctx context.Context, symbol string, from, to time.Time) ([]time.Time, error) {
	params := url.Values{}
	params.Set("start", from.Format(dateLayout))
	params.Set("end", to.Format(dateLayout))

	var resp callListResponse
	err := c.getJSON(ctx, "/v1/stock/"+url.PathEscape(symbol)+"/earnings/calls", params, &resp)
	if errors.Is(err, errNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	dates := make([]time.Time, 0, len(resp.Data))
	for _, row := range resp.Data {
		date, err := time.Parse(dateLayout, row.Date)
		if err != nil {
			return nil, fmt.Errorf("bad call date %q: %w", row.Date, err)
		}
		if date.Before(from) || date.After(to) {
			continue
		}
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

// FetchTranscript returns the raw transcript text for one call,
// flattening the provider's speaker turns into "Speaker: text" lines.
// A call without a transcript yields an empty string.
func (c *Client) FetchTranscript(ctx context.Context, symbol string, callDate time.Time) (string, error) {
	params := url.Values{}
	params.Set("date", callDate.Format(dateLayout))

	var resp transcriptResponse
	err := c.getJSON(ctx, "/v1/stock/"+url.PathEscape(symbol)+"/earnings/transcript", params, &resp)
	if errors.Is(err, errNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, row := range resp.Data {
		text := strings.TrimSpace(row.Text)
		if text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		if speaker := strings.TrimSpace(row.Speaker); speaker != "" {
			b.WriteString(speaker)
			b.WriteString(": ")
		}
		b.WriteString(text)
	}
	return b.String(), nil
}
