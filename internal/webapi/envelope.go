package webapi

import (
	"encoding/json"
	"fmt"
)

// The trading-update endpoint wraps portfolio data in a nested-node envelope:
//
//	section := {"name": string, "isAdded": bool, "lastUpdated": int, "value": [row|field ...]}
//	row     := {"id": scalar, "name": string, "isAdded": bool, "value": [field ...]}
//	field   := {"name": string, "isAdded": bool, "value"?: scalar | object | [field ...]}
//
// A field without "value" decodes to nil. A field whose value is itself a
// list of named nodes decodes recursively into a nested map; any other value
// is taken as-is. The decoders below are the only place this shape is
// understood; everything downstream works on flat maps.

// Envelope is one named section of a trading-update response.
type Envelope struct {
	Name        string          `json:"name"`
	IsAdded     bool            `json:"isAdded"`
	LastUpdated int             `json:"lastUpdated"`
	Value       json.RawMessage `json:"value"`
}

type envelopeNode struct {
	ID      json.RawMessage `json:"id"`
	Name    string          `json:"name"`
	IsAdded bool            `json:"isAdded"`
	Value   json.RawMessage `json:"value"`
}

// DecodeFieldMap decodes a list of field nodes into a name→value map.
func DecodeFieldMap(raw json.RawMessage) (map[string]interface{}, error) {
	var nodes []envelopeNode
	if err := json.Unmarshal(raw, &nodes); err != nil {
		return nil, fmt.Errorf("decoding envelope fields: %w", err)
	}
	return fieldMap(nodes)
}

// DecodeRowList decodes a list of row nodes (e.g. portfolio position rows)
// into one field map per row. The row id is merged in under "id" when the
// fields themselves do not carry one.
func DecodeRowList(raw json.RawMessage) ([]map[string]interface{}, error) {
	var rows []envelopeNode
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decoding envelope rows: %w", err)
	}
	out := make([]map[string]interface{}, 0, len(rows))
	for i, row := range rows {
		fields, err := DecodeFieldMap(row.Value)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		if _, ok := fields["id"]; !ok && len(row.ID) > 0 {
			var id interface{}
			if err := json.Unmarshal(row.ID, &id); err == nil {
				fields["id"] = id
			}
		}
		out = append(out, fields)
	}
	return out, nil
}

func fieldMap(nodes []envelopeNode) (map[string]interface{}, error) {
	fields := make(map[string]interface{}, len(nodes))
	for _, n := range nodes {
		if n.Name == "" {
			return nil, fmt.Errorf("envelope node without name")
		}
		v, err := decodeValue(n.Value)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", n.Name, err)
		}
		fields[n.Name] = v
	}
	return fields, nil
}

func decodeValue(raw json.RawMessage) (interface{}, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	// A value that is itself a list of named nodes is a nested field list.
	var nested []envelopeNode
	if err := json.Unmarshal(raw, &nested); err == nil && allNamed(nested) {
		return fieldMap(nested)
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func allNamed(nodes []envelopeNode) bool {
	if len(nodes) == 0 {
		return false
	}
	for _, n := range nodes {
		if n.Name == "" {
			return false
		}
	}
	return true
}
