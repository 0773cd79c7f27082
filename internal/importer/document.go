// Package importer reconciles generic event/currency documents into the
// store. Documents arrive as JSON or XML, are decoded into a generic
// record shape, classified, and merged row by row: new rows are created,
// known rows are updated only when a field actually changed, and rows
// that are invalid or identical are skipped. A failing row is logged and
// skipped, never fatal for the document.
package importer

import (
	"encoding/json"
	"strconv"
	"strings"
)

// DocType classifies an inbound document.
type DocType string

const (
	TypeAuto       DocType = "auto"
	TypeEvents     DocType = "events"
	TypeCurrencies DocType = "currencies"
	TypeMixed      DocType = "mixed"
	TypeUnknown    DocType = "unknown"
)

// Record is one generic row. Values are strings for XML input and
// arbitrary JSON scalars for JSON input; field accessors normalize both.
type Record map[string]any

// Document is a decoded inbound payload: the root element name (empty
// for bare JSON objects) and its children.
type Document struct {
	Root string
	Body map[string]any
}

// DetectType classifies a document from its root name and child keys.
// Field names appear in the wild both capitalized and lower-case, so
// every probe accepts both. Order matters: a lower-case "events" section
// classifies the document as events even when currencies are also
// present; the mixed branch is reached only when both sections use
// capitalized names.
func DetectType(doc Document) DocType {
	if doc.Root == "Events" || doc.Root == "EventsList" ||
		hasAnyKey(doc.Body, "Event", "event", "events") {
		return TypeEvents
	}
	if doc.Root == "Currencies" || doc.Root == "CurrencyList" ||
		hasAnyKey(doc.Body, "Currency", "currency", "currencies") {
		return TypeCurrencies
	}
	if hasAnyKey(doc.Body, "Events", "events") && hasAnyKey(doc.Body, "Currencies", "currencies") {
		return TypeMixed
	}
	return TypeUnknown
}

// ExtractEvents pulls the event records out of an events document.
func ExtractEvents(doc Document) []Record {
	if v, ok := firstValue(doc.Body, "Event", "event"); ok {
		return asRecords(v)
	}
	if v, ok := firstValue(doc.Body, "events"); ok {
		return extractSection(v, "Event", "event")
	}
	return nil
}

// ExtractCurrencies pulls the currency records out of a currencies document.
func ExtractCurrencies(doc Document) []Record {
	if v, ok := firstValue(doc.Body, "Currency", "currency"); ok {
		return asRecords(v)
	}
	if v, ok := firstValue(doc.Body, "currencies"); ok {
		return extractSection(v, "Currency", "currency")
	}
	return nil
}

// eventsSection and currenciesSection locate the per-kind sections of a
// mixed document.
func eventsSection(doc Document) ([]Record, bool) {
	if v, ok := firstValue(doc.Body, "Events", "events"); ok {
		return extractSection(v, "Event", "event"), true
	}
	return nil, false
}

func currenciesSection(doc Document) ([]Record, bool) {
	if v, ok := firstValue(doc.Body, "Currencies", "currencies"); ok {
		return extractSection(v, "Currency", "currency"), true
	}
	return nil, false
}

// extractSection reads records out of a section value. XML sections are
// maps wrapping repeated child elements; JSON sections are usually bare
// arrays of objects.
func extractSection(section any, keys ...string) []Record {
	switch s := section.(type) {
	case map[string]any:
		if v, ok := firstValue(s, keys...); ok {
			return asRecords(v)
		}
		return nil
	case []any:
		return asRecords(s)
	default:
		return nil
	}
}

// asRecords normalizes a single object or a list of objects to []Record.
func asRecords(v any) []Record {
	switch t := v.(type) {
	case map[string]any:
		return []Record{Record(t)}
	case []any:
		records := make([]Record, 0, len(t))
		for _, item := range t {
			if m, ok := item.(map[string]any); ok {
				records = append(records, Record(m))
			}
		}
		return records
	default:
		return nil
	}
}

func hasAnyKey(m map[string]any, keys ...string) bool {
	_, ok := firstValue(m, keys...)
	return ok
}

func firstValue(m map[string]any, keys ...string) (any, bool) {
	for _, key := range keys {
		if v, ok := m[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// stringField returns the first non-empty string value among the given
// key synonyms.
func (r Record) stringField(keys ...string) (string, bool) {
	v, ok := firstValue(map[string]any(r), keys...)
	if !ok {
		return "", false
	}
	s := asString(v)
	if s == "" {
		return "", false
	}
	return s, true
}

// floatField returns the first parseable numeric value among the given
// key synonyms, or nil when the field is absent, empty, or not a number.
func (r Record) floatField(keys ...string) *float64 {
	v, ok := firstValue(map[string]any(r), keys...)
	if !ok {
		return nil
	}
	return asFloat(v)
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func asFloat(v any) *float64 {
	switch t := v.(type) {
	case float64:
		return &t
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil
		}
		return &f
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}
