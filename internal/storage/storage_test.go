package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tickerlab/research/backend/internal/contracts"
	"github.com/tickerlab/research/backend/pkg/database"
)

// testPool connects to TEST_DATABASE_URL and applies the schema. Unit
// coverage for repository semantics lives in the memory store tests;
// these verify the same behavior against real PostgreSQL.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	pool, err := pgxpool.New(context.Background(), connString)
	require.NoError(t, err, "database connection failed")
	t.Cleanup(pool.Close)

	db := &database.DB{Pool: pool}
	require.NoError(t, db.ApplySchema(context.Background()), "schema apply failed")

	return pool
}

func TestCompanyRepositoryUpsert(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewCompanyRepository(pool)

	symbol := "ITEST1"
	cap1 := 1.5e9
	require.NoError(t, repo.Upsert(ctx, &contracts.Company{
		Symbol: symbol, Name: "Integration One", Sector: "Tech", MarketCap: &cap1,
	}))

	// Second upsert with the same key overwrites, never duplicates.
	require.NoError(t, repo.Upsert(ctx, &contracts.Company{
		Symbol: symbol, Name: "Integration One Renamed",
	}))

	company, err := repo.GetBySymbol(ctx, symbol)
	require.NoError(t, err)
	require.NotNil(t, company)
	assert.Equal(t, "Integration One Renamed", company.Name)
	assert.Nil(t, company.MarketCap)

	missing, err := repo.GetBySymbol(ctx, "ITESTNONE")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPriceRepositoryBatchIdempotence(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewPriceRepository(pool)

	symbol := "ITEST2"
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	bars := []*contracts.PriceBar{
		{Symbol: symbol, Date: day, Open: 10, High: 11, Low: 9, Close: 10.5, Volume: 100},
		{Symbol: symbol, Date: day.AddDate(0, 0, 1), Open: 10.5, High: 12, Low: 10, Close: 11.8, Volume: 140},
	}

	require.NoError(t, repo.UpsertBatch(ctx, bars))
	bars[0].Close = 10.6
	require.NoError(t, repo.UpsertBatch(ctx, bars))

	stored, err := repo.ListBySymbol(ctx, symbol)
	require.NoError(t, err)
	require.Len(t, stored, 2, "re-running a batch must not add rows")
	assert.Equal(t, 10.6, stored[0].Close, "re-run must overwrite the bar")

	windowed, err := repo.ListBySymbolAndRange(ctx, symbol, day.AddDate(0, 0, 1), day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, windowed, 1)
	assert.True(t, windowed[0].Date.Equal(day.AddDate(0, 0, 1)))
}

func TestEarningsRepositoryTwoPhase(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewEarningsRepository(pool)

	symbol := "ITEST3"
	callDate := time.Date(2024, 4, 25, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.UpsertTranscript(ctx, &contracts.EarningsCall{
		Symbol: symbol, CallDate: callDate, Quarter: "Q2", Year: 2024,
		Transcript: "original transcript", WordCount: 2,
	}))

	call, err := repo.GetBySymbolAndDate(ctx, symbol, callDate)
	require.NoError(t, err)
	require.NotNil(t, call)
	assert.Equal(t, contracts.CallTranscriptOnly, call.State)
	assert.Empty(t, call.Summary)

	require.NoError(t, repo.SetSummary(ctx, symbol, callDate, "a summary"))

	// A transcript refresh after summarization keeps the summary.
	require.NoError(t, repo.UpsertTranscript(ctx, &contracts.EarningsCall{
		Symbol: symbol, CallDate: callDate, Quarter: "Q2", Year: 2024,
		Transcript: "refreshed transcript", WordCount: 2,
	}))

	call, err = repo.GetBySymbolAndDate(ctx, symbol, callDate)
	require.NoError(t, err)
	require.NotNil(t, call)
	assert.Equal(t, "refreshed transcript", call.Transcript)
	assert.Equal(t, "a summary", call.Summary)
	assert.Equal(t, contracts.CallSummarized, call.State)

	assert.Error(t, repo.SetSummary(ctx, symbol, callDate.AddDate(0, 1, 0), "x"),
		"summary for an absent call must fail")
}
