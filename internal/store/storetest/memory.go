// Package storetest provides an in-memory store.Store used by pipeline
// tests. It applies writes immediately: RunInTransaction has no rollback
// semantics, so tests exercise pipeline behavior, not transactionality
// (that belongs to the postgres package's own tests).
package storetest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"cryptopulse/internal/store"
	"cryptopulse/pkg/contracts/domain"
)

// MemoryStore implements store.Store over in-memory slices.
type MemoryStore struct {
	mu sync.Mutex

	Events     []domain.Event
	Currencies []domain.CurrencyRecord
	Links      map[string]*domain.EventCurrencyLink

	nextEventID    int64
	nextCurrencyID int64
	nextLinkID     int64

	// UpsertLinkErr, when set, is returned by every UpsertLink call.
	UpsertLinkErr error
	// CreateEventErr, when set, is returned by every CreateEvent call.
	CreateEventErr error
	// CreateCurrencyErr, when set, is returned by every CreateCurrency call.
	CreateCurrencyErr error
}

var _ store.Store = (*MemoryStore)(nil)

// New creates an empty in-memory store.
func New() *MemoryStore {
	return &MemoryStore{Links: make(map[string]*domain.EventCurrencyLink)}
}

// SeedEvent adds an event directly, assigning an ID.
func (m *MemoryStore) SeedEvent(e domain.Event) domain.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextEventID++
	e.ID = m.nextEventID
	m.Events = append(m.Events, e)
	return e
}

// SeedCurrency adds a currency record directly, assigning an ID.
func (m *MemoryStore) SeedCurrency(c domain.CurrencyRecord) domain.CurrencyRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextCurrencyID++
	c.ID = m.nextCurrencyID
	m.Currencies = append(m.Currencies, c)
	return c
}

func linkKey(eventID, currencyID int64, date time.Time) string {
	return fmt.Sprintf("%d/%d/%s", eventID, currencyID, date.UTC().Format("2006-01-02"))
}

func (m *MemoryStore) ListEvents(_ context.Context, filter store.EventFilter) ([]domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.Event
	for _, e := range m.Events {
		if filter.ScoringReady && !e.HasScoringData() {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *MemoryStore) GetEventByNaturalKey(_ context.Context, incidentName string, date time.Time) (*domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, e := range m.Events {
		if e.IncidentName == incidentName && e.Date.Equal(date) {
			return &m.Events[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *MemoryStore) CreateEvent(_ context.Context, event *domain.Event) error {
	if m.CreateEventErr != nil {
		return m.CreateEventErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextEventID++
	event.ID = m.nextEventID
	m.Events = append(m.Events, *event)
	return nil
}

func (m *MemoryStore) UpdateEventFields(_ context.Context, id int64, changes store.FieldChanges) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.Events {
		if m.Events[i].ID != id {
			continue
		}
		for column, value := range changes {
			target, err := eventColumn(&m.Events[i], column)
			if err != nil {
				return err
			}
			*target = strPtr(value)
		}
		return nil
	}
	return store.ErrNotFound
}

func (m *MemoryStore) ListCurrencies(_ context.Context, filter store.CurrencyFilter) ([]domain.CurrencyRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.CurrencyRecord
	for _, c := range m.Currencies {
		if filter.CompleteOHLC && !c.HasCompleteOHLC() {
			continue
		}
		if filter.Symbol != "" && c.Symbol != filter.Symbol {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *MemoryStore) GetCurrencyByNaturalKey(_ context.Context, name, symbol string, date time.Time) (*domain.CurrencyRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, c := range m.Currencies {
		if c.Name == name && c.Symbol == symbol && c.Date.Equal(date) {
			return &m.Currencies[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *MemoryStore) CreateCurrency(_ context.Context, record *domain.CurrencyRecord) error {
	if m.CreateCurrencyErr != nil {
		return m.CreateCurrencyErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextCurrencyID++
	record.ID = m.nextCurrencyID
	m.Currencies = append(m.Currencies, *record)
	return nil
}

func (m *MemoryStore) UpdateCurrencyFields(_ context.Context, id int64, changes store.FieldChanges) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.Currencies {
		if m.Currencies[i].ID != id {
			continue
		}
		for column, value := range changes {
			target, err := currencyColumn(&m.Currencies[i], column)
			if err != nil {
				return err
			}
			*target = floatPtr(value)
		}
		return nil
	}
	return store.ErrNotFound
}

func (m *MemoryStore) ListLinkDetails(_ context.Context, filter store.LinkFilter) ([]domain.LinkDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.LinkDetail
	for _, link := range m.Links {
		event := m.eventByID(link.EventID)
		currency := m.currencyByID(link.CurrencyID)
		if event == nil || currency == nil {
			continue
		}
		if filter.Symbol != "" && currency.Symbol != filter.Symbol {
			continue
		}
		if filter.From != nil && link.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && link.Date.After(*filter.To) {
			continue
		}
		out = append(out, domain.LinkDetail{
			EventCurrencyLink: *link,
			EventName:         event.IncidentName,
			EventType:         event.EventType,
			Country:           event.Country,
			CurrencyName:      currency.Name,
			CurrencySymbol:    currency.Symbol,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemoryStore) UpsertLink(_ context.Context, link *domain.EventCurrencyLink) (bool, error) {
	if m.UpsertLinkErr != nil {
		return false, m.UpsertLinkErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key := linkKey(link.EventID, link.CurrencyID, link.Date)
	if existing, ok := m.Links[key]; ok {
		existing.ImpactScore = link.ImpactScore
		existing.DailyReturn = link.DailyReturn
		existing.Volatility = link.Volatility
		link.ID = existing.ID
		return false, nil
	}

	m.nextLinkID++
	link.ID = m.nextLinkID
	stored := *link
	m.Links[key] = &stored
	return true, nil
}

func (m *MemoryStore) LinkStats(_ context.Context) (*domain.LinkStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := &domain.LinkStats{}
	events := map[int64]bool{}
	currencies := map[int64]bool{}
	var sum float64
	for _, link := range m.Links {
		stats.TotalLinks++
		events[link.EventID] = true
		currencies[link.CurrencyID] = true
		sum += link.ImpactScore
		if stats.TotalLinks == 1 || link.ImpactScore < stats.MinImpactScore {
			stats.MinImpactScore = link.ImpactScore
		}
		if link.ImpactScore > stats.MaxImpactScore {
			stats.MaxImpactScore = link.ImpactScore
		}
	}
	stats.UniqueEvents = len(events)
	stats.UniqueCurrencies = len(currencies)
	if stats.TotalLinks > 0 {
		stats.AvgImpactScore = sum / float64(stats.TotalLinks)
	}
	return stats, nil
}

func (m *MemoryStore) DistinctEventAttributes(_ context.Context) (*store.EventAttributes, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	countries := map[string]bool{}
	eventTypes := map[string]bool{}
	outcomes := map[string]bool{}
	for _, e := range m.Events {
		if e.Country != nil {
			countries[*e.Country] = true
		}
		if e.EventType != nil {
			eventTypes[*e.EventType] = true
		}
		if e.Outcome != nil {
			outcomes[*e.Outcome] = true
		}
	}
	return &store.EventAttributes{
		Countries:  sortedKeys(countries),
		EventTypes: sortedKeys(eventTypes),
		Outcomes:   sortedKeys(outcomes),
	}, nil
}

func (m *MemoryStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(m)
}

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) eventByID(id int64) *domain.Event {
	for i := range m.Events {
		if m.Events[i].ID == id {
			return &m.Events[i]
		}
	}
	return nil
}

func (m *MemoryStore) currencyByID(id int64) *domain.CurrencyRecord {
	for i := range m.Currencies {
		if m.Currencies[i].ID == id {
			return &m.Currencies[i]
		}
	}
	return nil
}

func eventColumn(e *domain.Event, column string) (**string, error) {
	switch column {
	case "country":
		return &e.Country, nil
	case "type_of_event":
		return &e.EventType, nil
	case "place_name":
		return &e.PlaceName, nil
	case "impact":
		return &e.Impact, nil
	case "affected_population":
		return &e.AffectedPopulation, nil
	case "important_person_group":
		return &e.ImportantPersonGroup, nil
	case "outcome":
		return &e.Outcome, nil
	default:
		return nil, fmt.Errorf("column %q is not updatable on events", column)
	}
}

func currencyColumn(c *domain.CurrencyRecord, column string) (**float64, error) {
	switch column {
	case "open":
		return &c.Open, nil
	case "high":
		return &c.High, nil
	case "low":
		return &c.Low, nil
	case "close":
		return &c.Close, nil
	case "volume":
		return &c.Volume, nil
	case "marketcap":
		return &c.Marketcap, nil
	default:
		return nil, fmt.Errorf("column %q is not updatable on currencies", column)
	}
}

func strPtr(v any) *string {
	if v == nil {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		if sp, ok := v.(*string); ok {
			return sp
		}
		return nil
	}
	return &s
}

func floatPtr(v any) *float64 {
	if v == nil {
		return nil
	}
	f, ok := v.(float64)
	if !ok {
		if fp, ok := v.(*float64); ok {
			return fp
		}
		return nil
	}
	return &f
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
