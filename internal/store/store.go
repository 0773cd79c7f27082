// Package store defines the persistence interface consumed by the import
// and relationship pipelines. Implementations live in subpackages.
package store

import (
	"context"
	"errors"
	"time"

	"cryptopulse/pkg/contracts/domain"
)

// ErrNotFound is returned by lookups when no row matches.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned (wrapped) when a write loses a unique-key race.
// The relationship builder counts these instead of aborting: a concurrent
// writer materializing the same link is not a failure of this run.
var ErrConflict = errors.New("unique key conflict")

// EventFilter narrows ListEvents.
type EventFilter struct {
	// ScoringReady restricts to events with country and event type present,
	// the eligibility condition for relationship building.
	ScoringReady bool
}

// CurrencyFilter narrows ListCurrencies.
type CurrencyFilter struct {
	// CompleteOHLC restricts to records with all four price fields present
	// and a non-zero open.
	CompleteOHLC bool
	// Symbol restricts to one asset symbol when non-empty.
	Symbol string
}

// LinkFilter narrows ListLinkDetails. An empty symbol matches every
// currency; the date bounds are optional and inclusive.
type LinkFilter struct {
	Symbol string
	From   *time.Time
	To     *time.Time
}

// FieldChanges is a column-keyed set of pending field updates. Import
// reconciliation writes only the fields that actually changed; column names
// are validated against a whitelist by the implementation.
type FieldChanges map[string]any

// EventAttributes holds the distinct descriptive values present in the
// events table, used for scoring-table coverage diagnostics.
type EventAttributes struct {
	Countries  []string
	EventTypes []string
	Outcomes   []string
}

// Store is the persistence interface over events, currency records, and
// event/currency links.
type Store interface {
	// Events
	ListEvents(ctx context.Context, filter EventFilter) ([]domain.Event, error)
	GetEventByNaturalKey(ctx context.Context, incidentName string, date time.Time) (*domain.Event, error)
	CreateEvent(ctx context.Context, event *domain.Event) error
	UpdateEventFields(ctx context.Context, id int64, changes FieldChanges) error

	// Currency records
	ListCurrencies(ctx context.Context, filter CurrencyFilter) ([]domain.CurrencyRecord, error)
	GetCurrencyByNaturalKey(ctx context.Context, name, symbol string, date time.Time) (*domain.CurrencyRecord, error)
	CreateCurrency(ctx context.Context, record *domain.CurrencyRecord) error
	UpdateCurrencyFields(ctx context.Context, id int64, changes FieldChanges) error

	// Links
	ListLinkDetails(ctx context.Context, filter LinkFilter) ([]domain.LinkDetail, error)
	// UpsertLink inserts the link or, when (event_id, currency_id, date)
	// already exists, overwrites its derived fields. Reports whether a new
	// row was created.
	UpsertLink(ctx context.Context, link *domain.EventCurrencyLink) (created bool, err error)
	LinkStats(ctx context.Context) (*domain.LinkStats, error)

	// Diagnostics
	DistinctEventAttributes(ctx context.Context) (*EventAttributes, error)

	// RunInTransaction runs fn against a transactional view of the store,
	// committing on success and rolling back on error. Nested calls reuse
	// the surrounding transaction.
	RunInTransaction(ctx context.Context, fn func(tx Store) error) error

	// Lifecycle
	Close() error
}
