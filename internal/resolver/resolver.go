// Package resolver decodes one raw stored payload, whose shape is
// ambiguous, into the canonical dataset. Three shapes are recognized, in
// priority order: a one-row record table carrying an embedded structured
// plot_dict field, a bare column mapping, and an already time-series-shaped
// record table. The embedded-field case wins whenever the marker field is
// present, even if the payload would otherwise also look tabular.
package resolver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/stratviz-lab/stratviz/internal/dataset"
	"github.com/stratviz-lab/stratviz/pkg/errors"
)

// plotDictField is the marker field carrying the embedded structured data
// in the one-row table shape.
const plotDictField = "plot_dict"

// Resolve decodes a raw payload into a dataset. It fails with a decode
// error carrying the payload's shape tag when none of the known shapes
// match or when embedded structured data cannot be parsed.
func Resolve(raw []byte) (*dataset.Dataset, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, errors.NewDecode("empty", "payload is empty")
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var decoded any
	if err := decoder.Decode(&decoded); err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnrecognizedShape, "payload is not a structured document", err).WithDetail("malformed")
	}

	switch payload := decoded.(type) {
	case []any:
		if len(payload) == 1 {
			if row, ok := payload[0].(map[string]any); ok {
				if embedded, present := row[plotDictField]; present {
					return resolveEmbedded(embedded)
				}
			}
		}

		return resolveRecords(payload)
	case map[string]any:
		if embedded, present := payload[plotDictField]; present {
			return resolveEmbedded(embedded)
		}

		return resolveMapping(payload)
	default:
		return nil, errors.NewDecode(shapeTag(decoded), "payload shape not recognized")
	}
}

// resolveEmbedded handles the plot_dict field: either an already
// materialized nested mapping, or a serialized structured-data string
// parsed strictly as JSON with a single restricted-literal fallback.
func resolveEmbedded(v any) (*dataset.Dataset, error) {
	switch embedded := v.(type) {
	case map[string]any:
		return resolveMapping(embedded)
	case string:
		parsed, err := parseEmbeddedString(embedded)
		if err != nil {
			return nil, err
		}

		return resolveMapping(parsed)
	default:
		return nil, errors.New(errors.ErrCodeStructuredStringParse, "plot_dict field is neither a mapping nor a string").WithDetail(shapeTag(v))
	}
}

func parseEmbeddedString(s string) (map[string]any, error) {
	decoder := json.NewDecoder(bytes.NewReader([]byte(s)))
	decoder.UseNumber()

	var strict any
	if err := decoder.Decode(&strict); err == nil {
		mapping, ok := strict.(map[string]any)
		if !ok {
			return nil, errors.New(errors.ErrCodeStructuredStringParse, "plot_dict string does not hold a mapping").WithDetail(shapeTag(strict))
		}

		return mapping, nil
	}

	loose, err := parseLiteral(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStructuredStringParse, "plot_dict string is not parseable", err).WithDetail("string")
	}

	mapping, ok := loose.(map[string]any)
	if !ok {
		return nil, errors.New(errors.ErrCodeStructuredStringParse, "plot_dict string does not hold a mapping").WithDetail(shapeTag(loose))
	}

	return mapping, nil
}

// resolveMapping builds a dataset from a bare mapping: column name to an
// ordered list of values, or column name to a row-keyed mapping. Column
// names are ordered lexicographically so that equivalent payloads resolve
// to identical datasets regardless of serialization order.
func resolveMapping(m map[string]any) (*dataset.Dataset, error) {
	if len(m) == 0 {
		return nil, errors.NewDecode("object[empty]", "mapping has no columns")
	}

	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}

	sort.Strings(names)

	lists := 0
	rowKeyed := 0

	for _, name := range names {
		switch m[name].(type) {
		case []any:
			lists++
		case map[string]any:
			rowKeyed++
		}
	}

	switch {
	case lists == len(names):
		return mappingFromLists(names, m)
	case rowKeyed == len(names):
		return mappingFromRowKeys(names, m)
	default:
		return nil, errors.NewDecode("object[mixed]", "mapping mixes column lists and row-keyed values")
	}
}

func mappingFromLists(names []string, m map[string]any) (*dataset.Dataset, error) {
	ds := dataset.New()

	for _, name := range names {
		items := m[name].([]any)

		values := make([]dataset.Value, 0, len(items))

		for i, item := range items {
			value, err := dataset.FromAny(item)
			if err != nil {
				return nil, errors.Wrapf(errors.ErrCodeNonScalarValue, err, "column %q row %d", name, i)
			}

			values = append(values, value)
		}

		if err := ds.AddColumn(name, values); err != nil {
			return nil, errors.Wrap(errors.ErrCodeRaggedColumns, "columns have unequal lengths", err)
		}
	}

	return ds, nil
}

// mappingFromRowKeys handles column -> {rowKey: value} mappings. The union
// of row keys, sorted, becomes the raw row index; missing cells are null.
func mappingFromRowKeys(names []string, m map[string]any) (*dataset.Dataset, error) {
	keySet := make(map[string]struct{})

	for _, name := range names {
		for key := range m[name].(map[string]any) {
			keySet[key] = struct{}{}
		}
	}

	keys := make([]string, 0, len(keySet))
	for key := range keySet {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	ds := dataset.New()

	for _, name := range names {
		cells := m[name].(map[string]any)

		values := make([]dataset.Value, 0, len(keys))

		for _, key := range keys {
			cell, present := cells[key]
			if !present {
				values = append(values, dataset.Null())

				continue
			}

			value, err := dataset.FromAny(cell)
			if err != nil {
				return nil, errors.Wrapf(errors.ErrCodeNonScalarValue, err, "column %q row %q", name, key)
			}

			values = append(values, value)
		}

		if err := ds.AddColumn(name, values); err != nil {
			return nil, errors.Wrap(errors.ErrCodeRaggedColumns, "columns have unequal lengths", err)
		}
	}

	rawIndex := make([]dataset.Value, 0, len(keys))
	for _, key := range keys {
		rawIndex = append(rawIndex, dataset.String(key))
	}

	if err := ds.SetRawIndex(rawIndex); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRaggedColumns, "row index length mismatch", err)
	}

	return ds, nil
}

// resolveRecords builds a dataset from a record-oriented table: an array of
// row objects. The union of field names, sorted, becomes the column set;
// fields missing from a row are null.
func resolveRecords(rows []any) (*dataset.Dataset, error) {
	if len(rows) == 0 {
		return nil, errors.NewDecode("array[empty]", "record table has no rows")
	}

	records := make([]map[string]any, 0, len(rows))

	for _, row := range rows {
		record, ok := row.(map[string]any)
		if !ok {
			return nil, errors.NewDecode(fmt.Sprintf("array[%s]", shapeTag(row)), "record table rows must be objects")
		}

		records = append(records, record)
	}

	nameSet := make(map[string]struct{})
	for _, record := range records {
		for name := range record {
			nameSet[name] = struct{}{}
		}
	}

	names := make([]string, 0, len(nameSet))
	for name := range nameSet {
		names = append(names, name)
	}

	sort.Strings(names)

	ds := dataset.New()

	for _, name := range names {
		values := make([]dataset.Value, 0, len(records))

		for i, record := range records {
			cell, present := record[name]
			if !present {
				values = append(values, dataset.Null())

				continue
			}

			value, err := dataset.FromAny(cell)
			if err != nil {
				return nil, errors.Wrapf(errors.ErrCodeNonScalarValue, err, "column %q row %d", name, i)
			}

			values = append(values, value)
		}

		if err := ds.AddColumn(name, values); err != nil {
			return nil, errors.Wrap(errors.ErrCodeRaggedColumns, "columns have unequal lengths", err)
		}
	}

	return ds, nil
}

func shapeTag(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "bool"
	default:
		return fmt.Sprintf("%T", v)
	}
}
