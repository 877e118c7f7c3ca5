package defeatbeta

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tickerlab/research/backend/pkg/config"
	"github.com/tickerlab/research/backend/pkg/httputil"
	"github.com/tickerlab/research/backend/pkg/logger"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	log := logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
	httpClient := httputil.NewWithTimeout(log, 5*time.Second).DisableRetry()
	return NewClient(httpClient, server.URL, log)
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse %s: %v", s, err)
	}
	return d
}

func TestFetchPriceBars(t *testing.T) {
	var gotPath, gotStart, gotEnd string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotStart = r.URL.Query().Get("start")
		gotEnd = r.URL.Query().Get("end")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[
			{"report_date":"2024-01-02","open":185.1,"high":186.7,"low":184.3,"close":186.2,"volume":51230000},
			{"report_date":"2024-01-03","open":186.0,"high":186.4,"low":183.9,"close":184.1,"volume":47810000}
		]}`))
	}))

	bars, err := client.FetchPriceBars(context.Background(), "ACME", day(t, "2024-01-01"), day(t, "2024-01-31"))
	if err != nil {
		t.Fatalf("FetchPriceBars() error = %v", err)
	}
	if gotPath != "/v1/stock/ACME/price" {
		t.Errorf("path = %q", gotPath)
	}
	if gotStart != "2024-01-01" || gotEnd != "2024-01-31" {
		t.Errorf("window = [%s, %s], want [2024-01-01, 2024-01-31]", gotStart, gotEnd)
	}
	if len(bars) != 2 {
		t.Fatalf("got %d bars, want 2", len(bars))
	}
	if !bars[0].Date.Equal(day(t, "2024-01-02")) || bars[0].Close != 186.2 {
		t.Errorf("first bar = %+v", bars[0])
	}
	if bars[1].Symbol != "ACME" || bars[1].Volume != 47810000 {
		t.Errorf("second bar = %+v", bars[1])
	}
}

func TestFetchPriceBarsUnknownSymbol(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	bars, err := client.FetchPriceBars(context.Background(), "ZZZZ", day(t, "2024-01-01"), day(t, "2024-12-31"))
	if err != nil {
		t.Fatalf("FetchPriceBars() error = %v, want nil for unknown symbol", err)
	}
	if len(bars) != 0 {
		t.Errorf("got %d bars, want none", len(bars))
	}
}

func TestFetchPriceBarsServerError(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	if _, err := client.FetchPriceBars(context.Background(), "ACME", day(t, "2024-01-01"), day(t, "2024-12-31")); err == nil {
		t.Fatal("FetchPriceBars() error = nil, want transport error")
	}
}

func TestFetchLatestMetrics(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"report_date":"2024-06-28","pe_ratio":24.5,"ps_ratio":null,"pb_ratio":8.1,"eps":null,"market_cap":2.5e12}}`))
	}))

	snapshot, err := client.FetchLatestMetrics(context.Background(), "ACME")
	if err != nil {
		t.Fatalf("FetchLatestMetrics() error = %v", err)
	}
	if snapshot == nil {
		t.Fatal("snapshot = nil")
	}
	if snapshot.PERatio == nil || *snapshot.PERatio != 24.5 {
		t.Errorf("pe = %v", snapshot.PERatio)
	}
	if snapshot.PSRatio != nil || snapshot.EPS != nil {
		t.Errorf("null ratios should stay nil: ps=%v eps=%v", snapshot.PSRatio, snapshot.EPS)
	}
	if !snapshot.Date.Equal(day(t, "2024-06-28")) {
		t.Errorf("as-of date = %v", snapshot.Date)
	}
}

func TestFetchLatestMetricsMissing(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":null}`))
	}))

	snapshot, err := client.FetchLatestMetrics(context.Background(), "ZZZZ")
	if err != nil {
		t.Fatalf("FetchLatestMetrics() error = %v", err)
	}
	if snapshot != nil {
		t.Errorf("snapshot = %+v, want nil", snapshot)
	}
}

func TestListEarningsCallDates(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[
			{"report_date":"2024-04-25"},
			{"report_date":"2024-01-25"},
			{"report_date":"2020-01-25"}
		]}`))
	}))

	dates, err := client.ListEarningsCallDates(context.Background(), "ACME", day(t, "2024-01-01"), day(t, "2024-12-31"))
	if err != nil {
		t.Fatalf("ListEarningsCallDates() error = %v", err)
	}
	if len(dates) != 2 {
		t.Fatalf("got %d dates, want 2 (out-of-window dates dropped)", len(dates))
	}
	if !dates[0].Equal(day(t, "2024-01-25")) || !dates[1].Equal(day(t, "2024-04-25")) {
		t.Errorf("dates = %v, want ascending", dates)
	}
}

func TestFetchTranscript(t *testing.T) {
	var gotDate string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotDate = r.URL.Query().Get("date")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[
			{"speaker":"Operator","content":"Good afternoon."},
			{"speaker":"Jane Doe","content":"Thank you, operator."},
			{"speaker":"","content":"  "}
		]}`))
	}))

	transcript, err := client.FetchTranscript(context.Background(), "ACME", day(t, "2024-04-25"))
	if err != nil {
		t.Fatalf("FetchTranscript() error = %v", err)
	}
	if gotDate != "2024-04-25" {
		t.Errorf("date param = %q", gotDate)
	}
	want := "Operator: Good afternoon.\nJane Doe: Thank you, operator."
	if transcript != want {
		t.Errorf("transcript = %q, want %q", transcript, want)
	}
}

func TestFetchTranscriptMissing(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	transcript, err := client.FetchTranscript(context.Background(), "ACME", day(t, "2024-04-25"))
	if err != nil {
		t.Fatalf("FetchTranscript() error = %v", err)
	}
	if transcript != "" {
		t.Errorf("transcript = %q, want empty", transcript)
	}
}
