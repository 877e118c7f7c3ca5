package defeatbeta

import (
	"context"
	"net/http"
	"testing"
)

const profileHTML = `<!DOCTYPE html>
<html><body>
<header><h1 class="company-name">Acme Corp</h1></header>
<dl class="company-facts">
  <dt>Sector</dt><dd>Industrials</dd>
  <dt>Industry</dt><dd>Machinery</dd>
  <dt>Market Cap</dt><dd>$250.3B</dd>
  <dt>Employees</dt><dd>12,400</dd>
</dl>
</body></html>`

func TestFetchCompanyProfile(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stocks/ACME/profile" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(profileHTML))
	}))

	company, err := client.FetchCompanyProfile(context.Background(), "ACME")
	if err != nil {
		t.Fatalf("FetchCompanyProfile() error = %v", err)
	}
	if company == nil {
		t.Fatal("company = nil")
	}
	if company.Name != "Acme Corp" || company.Sector != "Industrials" || company.Industry != "Machinery" {
		t.Errorf("company = %+v", company)
	}
	if company.MarketCap == nil || *company.MarketCap != 250.3e9 {
		t.Errorf("market cap = %v, want 250.3e9", company.MarketCap)
	}
}

func TestFetchCompanyProfileUnknown(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	company, err := client.FetchCompanyProfile(context.Background(), "ZZZZ")
	if err != nil {
		t.Fatalf("FetchCompanyProfile() error = %v", err)
	}
	if company != nil {
		t.Errorf("company = %+v, want nil", company)
	}
}

func TestParseMarketCap(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"1.5T", 1.5e12, false},
		{"$250.3B", 250.3e9, false},
		{"900M", 9e8, false},
		{"512K", 512000, false},
		{"1,234,567", 1234567, false},
		{"", 0, true},
		{"n/a", 0, true},
	}

	for _, tt := range tests {
		got, err := parseMarketCap(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseMarketCap(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseMarketCap(%q) = %g, want %g", tt.in, got, tt.want)
		}
	}
}
