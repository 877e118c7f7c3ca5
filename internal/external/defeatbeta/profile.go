package defeatbeta

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/tickerlab/research/backend/internal/contracts"
)

// FetchCompanyProfile scrapes the provider's HTML profile page for
// symbol. There is no JSON endpoint for profiles; the page carries the
// name in the header and sector, industry and market cap in a
// definition list. Returns nil when the provider does not know the
// symbol.
func (c *Client) FetchCompanyProfile(ctx context.Context, symbol string) (*contracts.Company, error) {
	resp, err := c.httpClient.Get(ctx, c.baseURL+"/stocks/"+url.PathEscape(symbol)+"/profile")
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, nil
	default:
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse profile page: %w", err)
	}

	company := &contracts.Company{
		Symbol: symbol,
		Name:   strings.TrimSpace(doc.Find("h1.company-name").First().Text()),
	}

	doc.Find("dl.company-facts dt").Each(func(_ int, dt *goquery.Selection) {
		label := strings.ToLower(strings.TrimSpace(dt.Text()))
		value := strings.TrimSpace(dt.Next().Text())
		switch label {
		case "sector":
			company.Sector = value
		case "industry":
			company.Industry = value
		case "market cap":
			if cap, err := parseMarketCap(value); err == nil {
				company.MarketCap = &cap
			} else {
				c.logger.WithError(err).WithField("symbol", symbol).Debug("unparseable market cap on profile page")
			}
		}
	})

	if company.Name == "" {
		return nil, nil
	}
	return company, nil
}

// parseMarketCap converts display strings like "1.5T", "250.3B" or
// "900M" to a dollar amount.
func parseMarketCap(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimPrefix(s, "$"))
	if s == "" {
		return 0, errors.New("empty market cap")
	}

	multiplier := 1.0
	switch s[len(s)-1] {
	case 'T':
		multiplier = 1e12
		s = s[:len(s)-1]
	case 'B':
		multiplier = 1e9
		s = s[:len(s)-1]
	case 'M':
		multiplier = 1e6
		s = s[:len(s)-1]
	case 'K':
		multiplier = 1e3
		s = s[:len(s)-1]
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("parse market cap %q: %w", s, err)
	}
	return value * multiplier, nil
}
