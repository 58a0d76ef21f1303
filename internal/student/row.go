package student

// Column is a single named value in a Row.
type Column struct {
	Name  string
	Value any
}

// Row is the ordered column representation exchanged with the store. Values
// are int64, string, time.Time (date-only) or nil.
type Row []Column

// Get returns the value stored under name.
func (r Row) Get(name string) (any, bool) {
	for _, c := range r {
		if c.Name == name {
			return c.Value, true
		}
	}
	return nil, false
}

// Has reports whether the row carries a column called name.
func (r Row) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

func (r Row) Names() []string {
	names := make([]string, len(r))
	for i, c := range r {
		names[i] = c.Name
	}
	return names
}

func (r Row) Values() []any {
	values := make([]any, len(r))
	for i, c := range r {
		values[i] = c.Value
	}
	return values
}

// Map copies the row into a map keyed by column name. Used as a bun insert model.
func (r Row) Map() map[string]interface{} {
	m := make(map[string]interface{}, len(r))
	for _, c := range r {
		m[c.Name] = c.Value
	}
	return m
}

// RowFromMap builds a Row from scanned values, keeping the given column order.
// Columns listed in order but absent from m are skipped.
func RowFromMap(m map[string]interface{}, order []string) Row {
	row := make(Row, 0, len(order))
	for _, name := range order {
		if v, ok := m[name]; ok {
			row = append(row, Column{Name: name, Value: v})
		}
	}
	return row
}
