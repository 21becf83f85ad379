// Package dataset defines the canonical in-memory table the pipeline works
// on: ordered named columns of typed scalar values, with an optional
// temporal index once normalized.
package dataset

import (
	"fmt"
	"slices"
	"time"

	"github.com/moznion/go-optional"
)

// Dataset is a column-oriented table. Before normalization it may carry a
// raw row index (arbitrary scalars, e.g. date strings used as row keys);
// after normalization it carries a strictly increasing temporal index and
// the temporal column is removed.
type Dataset struct {
	cols     []string
	data     map[string][]Value
	rawIndex []Value
	index    []time.Time
}

// New creates an empty dataset.
func New() *Dataset {
	return &Dataset{
		data: make(map[string][]Value),
	}
}

// AddColumn appends a named column. All columns must have the same length.
func (d *Dataset) AddColumn(name string, values []Value) error {
	if _, exists := d.data[name]; exists {
		return fmt.Errorf("column %q already exists", name)
	}

	if len(d.cols) > 0 && len(values) != d.NumRows() {
		return fmt.Errorf("column %q has %d rows, dataset has %d", name, len(values), d.NumRows())
	}

	d.cols = append(d.cols, name)
	d.data[name] = values

	return nil
}

// SetRawIndex attaches a pre-normalization row index. Its length must match
// the number of rows.
func (d *Dataset) SetRawIndex(values []Value) error {
	if len(d.cols) > 0 && len(values) != d.NumRows() {
		return fmt.Errorf("raw index has %d rows, dataset has %d", len(values), d.NumRows())
	}

	d.rawIndex = values

	return nil
}

// SetIndex attaches the temporal index. Its length must match the number of
// rows.
func (d *Dataset) SetIndex(index []time.Time) error {
	if len(d.cols) > 0 && len(index) != d.NumRows() {
		return fmt.Errorf("index has %d rows, dataset has %d", len(index), d.NumRows())
	}

	d.index = index
	d.rawIndex = nil

	return nil
}

// Columns returns the column names in declaration order.
func (d *Dataset) Columns() []string {
	return slices.Clone(d.cols)
}

// HasColumn reports whether the named column is present.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.data[name]

	return ok
}

// Column returns the values of the named column, or None when absent.
func (d *Dataset) Column(name string) optional.Option[[]Value] {
	values, ok := d.data[name]
	if !ok {
		return optional.None[[]Value]()
	}

	return optional.Some(values)
}

// NumRows returns the number of rows.
func (d *Dataset) NumRows() int {
	if len(d.cols) == 0 {
		if d.index != nil {
			return len(d.index)
		}

		return len(d.rawIndex)
	}

	return len(d.data[d.cols[0]])
}

// Index returns the temporal index, or nil when the dataset has not been
// normalized yet.
func (d *Dataset) Index() []time.Time {
	return d.index
}

// HasIndex reports whether a temporal index has been set.
func (d *Dataset) HasIndex() bool {
	return d.index != nil
}

// RawIndex returns the pre-normalization row index, or nil.
func (d *Dataset) RawIndex() []Value {
	return d.rawIndex
}

// Select returns a new dataset holding the given rows (by position) of
// every column, preserving column order and carrying the index subset.
func (d *Dataset) Select(rows []int) *Dataset {
	out := New()

	for _, name := range d.cols {
		src := d.data[name]
		values := make([]Value, 0, len(rows))

		for _, i := range rows {
			values = append(values, src[i])
		}

		out.cols = append(out.cols, name)
		out.data[name] = values
	}

	if d.index != nil {
		index := make([]time.Time, 0, len(rows))
		for _, i := range rows {
			index = append(index, d.index[i])
		}

		out.index = index
	}

	if d.rawIndex != nil {
		raw := make([]Value, 0, len(rows))
		for _, i := range rows {
			raw = append(raw, d.rawIndex[i])
		}

		out.rawIndex = raw
	}

	return out
}

// Equal reports row-for-row, column-for-column equality, including column
// order and index.
func (d *Dataset) Equal(other *Dataset) bool {
	if d.NumRows() != other.NumRows() || !slices.Equal(d.cols, other.cols) {
		return false
	}

	if (d.index == nil) != (other.index == nil) {
		return false
	}

	for i := range d.index {
		if !d.index[i].Equal(other.index[i]) {
			return false
		}
	}

	for _, name := range d.cols {
		a, b := d.data[name], other.data[name]
		for i := range a {
			if !a[i].Equal(b[i]) {
				return false
			}
		}
	}

	return true
}
