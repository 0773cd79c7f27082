package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"cryptopulse/internal/store"
	"cryptopulse/pkg/contracts/domain"
)

// eventColumns is the column list used for SELECT statements on the events table.
const eventColumns = `id, name_of_incident, date, country, type_of_event,
	place_name, impact, affected_population, important_person_group, outcome`

// currencyColumns is the column list used for SELECT statements on the currencies table.
const currencyColumns = `id, name, symbol, date, open, high, low, close, volume, marketcap`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Whitelisted columns for field-level updates. FieldChanges keys outside
// these sets are rejected before any SQL is built.
var (
	eventUpdateColumns = map[string]bool{
		"country":                true,
		"type_of_event":          true,
		"place_name":             true,
		"impact":                 true,
		"affected_population":    true,
		"important_person_group": true,
		"outcome":                true,
	}
	currencyUpdateColumns = map[string]bool{
		"open":      true,
		"high":      true,
		"low":       true,
		"close":     true,
		"volume":    true,
		"marketcap": true,
	}
)

func queryListEvents(ctx context.Context, db executor, filter store.EventFilter) ([]domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events`
	if filter.ScoringReady {
		query += ` WHERE country IS NOT NULL AND type_of_event IS NOT NULL`
	}
	query += ` ORDER BY date, id`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	return events, rows.Err()
}

func queryGetEventByNaturalKey(ctx context.Context, db executor, incidentName string, date time.Time) (*domain.Event, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE name_of_incident = $1 AND date = $2`,
		incidentName, date)
	event, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	return event, err
}

func queryCreateEvent(ctx context.Context, db executor, e *domain.Event) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO events (
			name_of_incident, date, country, type_of_event, place_name,
			impact, affected_population, important_person_group, outcome
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		e.IncidentName,
		e.Date,
		e.Country,
		e.EventType,
		e.PlaceName,
		e.Impact,
		e.AffectedPopulation,
		e.ImportantPersonGroup,
		e.Outcome,
	).Scan(&e.ID)
}

func queryUpdateEventFields(ctx context.Context, db executor, id int64, changes store.FieldChanges) error {
	return updateFields(ctx, db, "events", eventUpdateColumns, id, changes)
}

func queryListCurrencies(ctx context.Context, db executor, filter store.CurrencyFilter) ([]domain.CurrencyRecord, error) {
	var (
		conds []string
		args  []any
	)
	if filter.CompleteOHLC {
		conds = append(conds, `open IS NOT NULL AND high IS NOT NULL AND low IS NOT NULL AND close IS NOT NULL AND open != 0`)
	}
	if filter.Symbol != "" {
		args = append(args, filter.Symbol)
		conds = append(conds, fmt.Sprintf("symbol = $%d", len(args)))
	}

	query := `SELECT ` + currencyColumns + ` FROM currencies`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY date, id`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.CurrencyRecord
	for rows.Next() {
		record, err := scanCurrency(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

func queryGetCurrencyByNaturalKey(ctx context.Context, db executor, name, symbol string, date time.Time) (*domain.CurrencyRecord, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+currencyColumns+` FROM currencies WHERE name = $1 AND symbol = $2 AND date = $3`,
		name, symbol, date)
	record, err := scanCurrency(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	return record, err
}

func queryCreateCurrency(ctx context.Context, db executor, c *domain.CurrencyRecord) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO currencies (
			name, symbol, date, open, high, low, close, volume, marketcap
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		c.Name,
		c.Symbol,
		c.Date,
		c.Open,
		c.High,
		c.Low,
		c.Close,
		c.Volume,
		c.Marketcap,
	).Scan(&c.ID)
}

func queryUpdateCurrencyFields(ctx context.Context, db executor, id int64, changes store.FieldChanges) error {
	return updateFields(ctx, db, "currencies", currencyUpdateColumns, id, changes)
}

func queryListLinkDetails(ctx context.Context, db executor, filter store.LinkFilter) ([]domain.LinkDetail, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Symbol != "" {
		args = append(args, filter.Symbol)
		conds = append(conds, fmt.Sprintf("c.symbol = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conds = append(conds, fmt.Sprintf("ec.date >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conds = append(conds, fmt.Sprintf("ec.date <= $%d", len(args)))
	}

	query := `
		SELECT ec.id, ec.event_id, ec.currency_id, ec.date,
			ec.event_impact_score, ec.daily_return, ec.volatility,
			e.name_of_incident, e.type_of_event, e.country,
			c.name, c.symbol
		FROM event_currencies ec
		JOIN events e ON e.id = ec.event_id
		JOIN currencies c ON c.id = ec.currency_id`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY ec.date, ec.id`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []domain.LinkDetail
	for rows.Next() {
		var l domain.LinkDetail
		if err := rows.Scan(
			&l.ID, &l.EventID, &l.CurrencyID, &l.Date,
			&l.ImpactScore, &l.DailyReturn, &l.Volatility,
			&l.EventName, &l.EventType, &l.Country,
			&l.CurrencyName, &l.CurrencySymbol,
		); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

func queryUpsertLink(ctx context.Context, db executor, link *domain.EventCurrencyLink) (bool, error) {
	// xmax = 0 distinguishes a fresh insert from a conflict-update.
	row := db.QueryRowContext(ctx, `
		INSERT INTO event_currencies (
			event_id, currency_id, date, event_impact_score, daily_return, volatility
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (event_id, currency_id, date) DO UPDATE SET
			event_impact_score = EXCLUDED.event_impact_score,
			daily_return = EXCLUDED.daily_return,
			volatility = EXCLUDED.volatility
		RETURNING id, (xmax = 0) AS inserted`,
		link.EventID,
		link.CurrencyID,
		link.Date,
		link.ImpactScore,
		link.DailyReturn,
		link.Volatility,
	)

	var created bool
	if err := row.Scan(&link.ID, &created); err != nil {
		if IsUniqueViolation(err) {
			return false, fmt.Errorf("upsert link: %w", store.ErrConflict)
		}
		return false, err
	}
	return created, nil
}

func queryLinkStats(ctx context.Context, db executor) (*domain.LinkStats, error) {
	row := db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COUNT(DISTINCT event_id),
			COUNT(DISTINCT currency_id),
			COALESCE(AVG(event_impact_score), 0),
			COALESCE(MIN(event_impact_score), 0),
			COALESCE(MAX(event_impact_score), 0)
		FROM event_currencies`)

	var stats domain.LinkStats
	if err := row.Scan(
		&stats.TotalLinks,
		&stats.UniqueEvents,
		&stats.UniqueCurrencies,
		&stats.AvgImpactScore,
		&stats.MinImpactScore,
		&stats.MaxImpactScore,
	); err != nil {
		return nil, err
	}
	return &stats, nil
}

func queryDistinctEventAttributes(ctx context.Context, db executor) (*store.EventAttributes, error) {
	attrs := &store.EventAttributes{}
	for _, q := range []struct {
		column string
		dest   *[]string
	}{
		{"country", &attrs.Countries},
		{"type_of_event", &attrs.EventTypes},
		{"outcome", &attrs.Outcomes},
	} {
		values, err := queryDistinctColumn(ctx, db, q.column)
		if err != nil {
			return nil, err
		}
		*q.dest = values
	}
	return attrs, nil
}

func queryDistinctColumn(ctx context.Context, db executor, column string) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT DISTINCT `+column+` FROM events WHERE `+column+` IS NOT NULL ORDER BY `+column)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// updateFields builds and runs a SET clause from the changed columns only.
// Column names are checked against the table's whitelist; values are always
// bound as parameters.
func updateFields(ctx context.Context, db executor, table string, allowed map[string]bool, id int64, changes store.FieldChanges) error {
	if len(changes) == 0 {
		return nil
	}

	columns := make([]string, 0, len(changes))
	for column := range changes {
		if !allowed[column] {
			return fmt.Errorf("column %q is not updatable on %s", column, table)
		}
		columns = append(columns, column)
	}
	sort.Strings(columns)

	var (
		sets []string
		args []any
	)
	for _, column := range columns {
		args = append(args, changes[column])
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", table, strings.Join(sets, ", "), len(args))
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
