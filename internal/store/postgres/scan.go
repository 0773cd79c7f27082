package postgres

import (
	"cryptopulse/pkg/contracts/domain"
)

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	var e domain.Event
	if err := row.Scan(
		&e.ID,
		&e.IncidentName,
		&e.Date,
		&e.Country,
		&e.EventType,
		&e.PlaceName,
		&e.Impact,
		&e.AffectedPopulation,
		&e.ImportantPersonGroup,
		&e.Outcome,
	); err != nil {
		return nil, err
	}
	e.Date = e.Date.UTC()
	return &e, nil
}

func scanCurrency(row rowScanner) (*domain.CurrencyRecord, error) {
	var c domain.CurrencyRecord
	if err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Symbol,
		&c.Date,
		&c.Open,
		&c.High,
		&c.Low,
		&c.Close,
		&c.Volume,
		&c.Marketcap,
	); err != nil {
		return nil, err
	}
	c.Date = c.Date.UTC()
	return &c, nil
}
