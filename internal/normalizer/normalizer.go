// Package normalizer cleans and time-indexes a resolved dataset: temporal
// parsing, dropping rows without a timestamp, stable ascending sort,
// de-duplication, and boolean coercion of the known signal columns.
package normalizer

import (
	"sort"
	"time"

	"github.com/stratviz-lab/stratviz/internal/dataset"
	"github.com/stratviz-lab/stratviz/pkg/errors"
)

// temporalColumns are the column names recognized as the date dimension, in
// lookup order. When none is present the dataset's existing row index is
// assumed temporal.
var temporalColumns = []string{"Date", "date", "Datetime", "datetime", "Time", "time"}

// booleanSignalColumns is the fixed registry of signal columns coerced to
// boolean during normalization. Absent columns are left untouched, never
// synthesized.
var booleanSignalColumns = []string{
	"Entry_Buy_Signal",
	"Entry_Buy_Signal2",
	"Trigger_Sell_Signal",
	"entry_buy_signal",
	"entry_buy_signal2",
	"trigger_sell_signal",
	"is_earnings_date",
	"is_earnings_warning",
}

// timestampLayouts are tried in order when parsing string timestamps.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
}

// Normalize returns a new time-indexed dataset. It is pure and idempotent.
// The only failure is a schema error when a temporal column exists but zero
// rows survive timestamp parsing.
func Normalize(ds *dataset.Dataset) (*dataset.Dataset, error) {
	temporal, fromColumn := temporalValues(ds)

	type row struct {
		ts  time.Time
		pos int
	}

	rows := make([]row, 0, len(temporal))

	for i, v := range temporal {
		ts, ok := parseTimestamp(v)
		if !ok {
			continue
		}

		rows = append(rows, row{ts: ts, pos: i})
	}

	if len(rows) == 0 && fromColumn != "" && ds.NumRows() > 0 {
		return nil, errors.New(errors.ErrCodeNoTemporalRows, "no rows survived timestamp parsing").WithDetail(fromColumn)
	}

	// ties keep original row order, then the first occurrence wins below
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].ts.Before(rows[j].ts)
	})

	positions := make([]int, 0, len(rows))
	index := make([]time.Time, 0, len(rows))

	for _, r := range rows {
		if len(index) > 0 && r.ts.Equal(index[len(index)-1]) {
			continue
		}

		positions = append(positions, r.pos)
		index = append(index, r.ts)
	}

	out := ds.Select(positions)

	if fromColumn != "" {
		out = dropColumn(out, fromColumn)
	}

	if err := out.SetIndex(index); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNoTemporalRows, "temporal index length mismatch", err)
	}

	coerceBooleanSignals(out)

	return out, nil
}

// temporalValues locates the temporal dimension: a recognized column name,
// else the existing temporal index, else the raw row index, else row
// ordinals (mirroring a positional index coerced to epoch timestamps).
func temporalValues(ds *dataset.Dataset) ([]dataset.Value, string) {
	for _, name := range temporalColumns {
		if col := ds.Column(name); col.IsSome() {
			return col.Unwrap(), name
		}
	}

	if ds.HasIndex() {
		values := make([]dataset.Value, 0, ds.NumRows())
		for _, ts := range ds.Index() {
			values = append(values, dataset.Time(ts))
		}

		return values, ""
	}

	if raw := ds.RawIndex(); raw != nil {
		return raw, ""
	}

	values := make([]dataset.Value, 0, ds.NumRows())
	for i := 0; i < ds.NumRows(); i++ {
		values = append(values, dataset.Number(float64(i)))
	}

	return values, ""
}

func parseTimestamp(v dataset.Value) (time.Time, bool) {
	if ts, ok := v.Time(); ok {
		return ts.UTC(), true
	}

	if s, ok := v.Str(); ok {
		for _, layout := range timestampLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts.UTC(), true
			}
		}

		return time.Time{}, false
	}

	if f, ok := v.Number(); ok {
		// unix seconds, or milliseconds for values past the year 5138
		if f >= 1e11 {
			return time.UnixMilli(int64(f)).UTC(), true
		}

		return time.Unix(int64(f), 0).UTC(), true
	}

	return time.Time{}, false
}

func dropColumn(ds *dataset.Dataset, name string) *dataset.Dataset {
	out := dataset.New()

	for _, col := range ds.Columns() {
		if col == name {
			continue
		}

		//nolint:errcheck // same row count by construction
		out.AddColumn(col, ds.Column(col).Unwrap())
	}

	if ds.HasIndex() {
		//nolint:errcheck // same row count by construction
		out.SetIndex(ds.Index())
	}

	return out
}

// coerceBooleanSignals rewrites registry columns in place: nulls stay null,
// every present value becomes its boolean coercion.
func coerceBooleanSignals(ds *dataset.Dataset) {
	for _, name := range booleanSignalColumns {
		col := ds.Column(name)
		if col.IsNone() {
			continue
		}

		values := col.Unwrap()
		for i, v := range values {
			if v.IsNull() {
				continue
			}

			values[i] = dataset.Bool(v.Truthy())
		}
	}
}
