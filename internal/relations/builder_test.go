package relations

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptopulse/internal/store"
	"cryptopulse/internal/store/storetest"
	"cryptopulse/pkg/contracts/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strp(s string) *string     { return &s }
func fp(f float64) *float64     { return &f }
func day(s string) time.Time    { t, _ := time.Parse("2006-01-02", s); return t }

func seedEvent(m *storetest.MemoryStore, name, date, country, eventType, outcome string) domain.Event {
	e := domain.Event{
		IncidentName: name,
		Date:         day(date),
		Country:      strp(country),
		EventType:    strp(eventType),
	}
	if outcome != "" {
		e.Outcome = strp(outcome)
	}
	return m.SeedEvent(e)
}

func seedCurrency(m *storetest.MemoryStore, name, symbol, date string, open, high, low, close float64) domain.CurrencyRecord {
	return m.SeedCurrency(domain.CurrencyRecord{
		Name:   name,
		Symbol: symbol,
		Date:   day(date),
		Open:   fp(open),
		High:   fp(high),
		Low:    fp(low),
		Close:  fp(close),
	})
}

func TestRebuild_PairsSameDayOnly(t *testing.T) {
	m := storetest.New()
	seedEvent(m, "Election", "2021-03-01", "USA", "Political", "")
	seedEvent(m, "Flood", "2021-03-02", "India", "Natural Disaster", "")
	seedCurrency(m, "Bitcoin", "BTC", "2021-03-01", 100, 110, 90, 105)
	seedCurrency(m, "Ethereum", "ETH", "2021-03-01", 200, 220, 180, 210)
	seedCurrency(m, "Bitcoin", "BTC", "2021-03-03", 105, 115, 95, 100)

	b := NewBuilder(m, testLogger())
	result, err := b.Rebuild(context.Background())
	require.NoError(t, err)

	// Only the 2021-03-01 event matches, against both same-day records.
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 0, result.Conflicts)
	assert.Equal(t, 2, result.ProcessedEvents)
	assert.Len(t, m.Links, 2)
}

func TestRebuild_ComputedFields(t *testing.T) {
	m := storetest.New()
	event := seedEvent(m, "Policy Announcement", "2021-03-01", "USA", "Political", "Positive")
	currency := seedCurrency(m, "Bitcoin", "BTC", "2021-03-01", 100, 110, 90, 110)

	b := NewBuilder(m, testLogger())
	_, err := b.Rebuild(context.Background())
	require.NoError(t, err)

	links, err := m.ListLinkDetails(context.Background(), store.LinkFilter{})
	require.NoError(t, err)
	require.Len(t, links, 1)

	link := links[0]
	assert.Equal(t, event.ID, link.EventID)
	assert.Equal(t, currency.ID, link.CurrencyID)
	// USA scores 10, unmapped event type defaults to 3:
	// (10*0.4 + 3*0.5) * 0.8 = 4.4.
	assert.InDelta(t, 4.4, link.ImpactScore, 1e-9)
	assert.InDelta(t, 10.0, link.DailyReturn, 1e-9)
	assert.InDelta(t, 20.0, link.Volatility, 1e-9)
	assert.Equal(t, day("2021-03-01"), link.Date)
}

func TestRebuild_Idempotent(t *testing.T) {
	m := storetest.New()
	seedEvent(m, "Summit", "2021-03-01", "Japan", "Political", "")
	seedCurrency(m, "Bitcoin", "BTC", "2021-03-01", 100, 110, 90, 105)

	b := NewBuilder(m, testLogger())

	first, err := b.Rebuild(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Created)
	assert.Equal(t, 0, first.Updated)

	snapshot := *m.Links[firstKey(t, m)]

	second, err := b.Rebuild(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 1, second.Updated)
	assert.Len(t, m.Links, 1)
	assert.Equal(t, snapshot, *m.Links[firstKey(t, m)])
}

func firstKey(t *testing.T, m *storetest.MemoryStore) string {
	t.Helper()
	require.Len(t, m.Links, 1)
	for k := range m.Links {
		return k
	}
	return ""
}

func TestRebuild_EmptyInputs(t *testing.T) {
	tests := []struct {
		name string
		seed func(m *storetest.MemoryStore)
	}{
		{name: "no data"},
		{
			name: "events only",
			seed: func(m *storetest.MemoryStore) {
				seedEvent(m, "Election", "2021-03-01", "USA", "Political", "")
			},
		},
		{
			name: "currencies only",
			seed: func(m *storetest.MemoryStore) {
				seedCurrency(m, "Bitcoin", "BTC", "2021-03-01", 100, 110, 90, 105)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := storetest.New()
			if tt.seed != nil {
				tt.seed(m)
			}

			result, err := NewBuilder(m, testLogger()).Rebuild(context.Background())
			require.NoError(t, err)
			assert.Equal(t, &Result{}, result)
			assert.Empty(t, m.Links)
		})
	}
}

func TestRebuild_SkipsIneligibleRows(t *testing.T) {
	m := storetest.New()
	// Missing country: not scoring-ready.
	m.SeedEvent(domain.Event{
		IncidentName: "Unattributed Incident",
		Date:         day("2021-03-01"),
		EventType:    strp("Political"),
	})
	seedEvent(m, "Election", "2021-03-01", "USA", "Political", "")
	// Zero open: incomplete OHLC.
	seedCurrency(m, "Ethereum", "ETH", "2021-03-01", 0, 220, 180, 210)
	// Missing high.
	m.SeedCurrency(domain.CurrencyRecord{
		Name: "Cardano", Symbol: "ADA", Date: day("2021-03-01"),
		Open: fp(1), Low: fp(0.9), Close: fp(1.1),
	})
	seedCurrency(m, "Bitcoin", "BTC", "2021-03-01", 100, 110, 90, 105)

	result, err := NewBuilder(m, testLogger()).Rebuild(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.ProcessedEvents)
	assert.Len(t, m.Links, 1)
}

func TestRebuild_ConflictsCountedNotFatal(t *testing.T) {
	m := storetest.New()
	seedEvent(m, "Election", "2021-03-01", "USA", "Political", "")
	seedCurrency(m, "Bitcoin", "BTC", "2021-03-01", 100, 110, 90, 105)
	seedCurrency(m, "Ethereum", "ETH", "2021-03-01", 200, 220, 180, 210)
	m.UpsertLinkErr = fmt.Errorf("link exists: %w", store.ErrConflict)

	result, err := NewBuilder(m, testLogger()).Rebuild(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Conflicts)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 1, result.ProcessedEvents)
}

func TestRebuild_UpsertFailureAbortsRun(t *testing.T) {
	m := storetest.New()
	seedEvent(m, "Election", "2021-03-01", "USA", "Political", "")
	seedCurrency(m, "Bitcoin", "BTC", "2021-03-01", 100, 110, 90, 105)
	boom := errors.New("connection reset")
	m.UpsertLinkErr = boom

	result, err := NewBuilder(m, testLogger()).Rebuild(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NotNil(t, result)
	assert.Equal(t, 0, result.Created)
}

func TestRebuild_Batching(t *testing.T) {
	m := storetest.New()
	for i := 0; i < 7; i++ {
		seedEvent(m, fmt.Sprintf("Event %d", i), "2021-03-01", "USA", "Political", "")
	}
	seedCurrency(m, "Bitcoin", "BTC", "2021-03-01", 100, 110, 90, 105)

	counting := &txCountingStore{MemoryStore: m}
	b := NewBuilder(counting, testLogger())
	b.SetBatchSize(3)

	result, err := b.Rebuild(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 7, result.Created)
	assert.Equal(t, 7, result.ProcessedEvents)
	// 7 events at batch size 3: three transactions.
	assert.Equal(t, 3, counting.transactions)
}

func TestSetBatchSize_IgnoresNonPositive(t *testing.T) {
	b := NewBuilder(storetest.New(), testLogger())
	b.SetBatchSize(0)
	assert.Equal(t, DefaultBatchSize, b.batchSize)
	b.SetBatchSize(-5)
	assert.Equal(t, DefaultBatchSize, b.batchSize)
	b.SetBatchSize(10)
	assert.Equal(t, 10, b.batchSize)
}

// txCountingStore counts RunInTransaction calls around a MemoryStore.
type txCountingStore struct {
	*storetest.MemoryStore
	transactions int
}

func (s *txCountingStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	s.transactions++
	return s.MemoryStore.RunInTransaction(ctx, fn)
}
