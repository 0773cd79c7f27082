package importer

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// DecodeXML reads an XML document into the generic document shape using
// a token walk. Leaf elements become strings, elements with children
// become maps, repeated sibling names collapse into slices, and
// attributes merge into the element map. The schema of inbound files is
// not fixed, so no struct mapping is attempted.
func DecodeXML(r io.Reader) (Document, error) {
	dec := xml.NewDecoder(r)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return Document{}, fmt.Errorf("decode xml document: no root element")
		}
		if err != nil {
			return Document{}, fmt.Errorf("decode xml document: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		value, err := decodeElement(dec, start)
		if err != nil {
			return Document{}, fmt.Errorf("decode xml document: %w", err)
		}

		body, ok := value.(map[string]any)
		if !ok {
			body = map[string]any{}
		}
		return Document{Root: start.Name.Local, Body: body}, nil
	}
}

// decodeElement consumes one element including its end tag and returns
// either a trimmed string (leaf) or a map of children and attributes.
// A leaf carrying both attributes and text keeps its text: the feeds use
// attributes like lang codes as annotations, and the text is the value.
func decodeElement(dec *xml.Decoder, start xml.StartElement) (any, error) {
	children := map[string]any{}
	for _, attr := range start.Attr {
		children[attr.Name.Local] = attr.Value
	}

	hasElements := false
	var text strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			hasElements = true
			child, err := decodeElement(dec, t)
			if err != nil {
				return nil, err
			}
			appendChild(children, t.Name.Local, child)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			if trimmed := strings.TrimSpace(text.String()); !hasElements && trimmed != "" {
				return trimmed, nil
			}
			if len(children) > 0 {
				return children, nil
			}
			return strings.TrimSpace(text.String()), nil
		}
	}
}

// appendChild inserts a child value, collapsing repeated names into a
// slice in encounter order.
func appendChild(parent map[string]any, name string, value any) {
	existing, ok := parent[name]
	if !ok {
		parent[name] = value
		return
	}
	if list, ok := existing.([]any); ok {
		parent[name] = append(list, value)
		return
	}
	parent[name] = []any{existing, value}
}
