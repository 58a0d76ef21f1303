package student

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used for date-only values.
const DateLayout = "2006-01-02"

// Column names of the students table.
const (
	ColumnID          = "id"
	ColumnName        = "name"
	ColumnDateOfBirth = "date_of_birth"
	ColumnGroup       = "student_group"
)

// IDStrategy selects who assigns primary keys.
type IDStrategy string

const (
	// IDStore leaves id generation to the store; encoded rows omit the id column.
	IDStore IDStrategy = "store"
	// IDCaller requires the caller to supply a positive id on every record.
	IDCaller IDStrategy = "caller"
)

// ParseIDStrategy accepts "store" (or "generated", "") and "caller" (or "explicit").
func ParseIDStrategy(s string) (IDStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "store", "generated", "identity":
		return IDStore, nil
	case "caller", "explicit", "assigned":
		return IDCaller, nil
	}
	return "", fmt.Errorf("unknown id strategy %q", s)
}

// MapperConfig configures a Mapper.
type MapperConfig struct {
	IDStrategy IDStrategy
	// NameMaxLength limits Name in runes. Zero means unconstrained.
	NameMaxLength int
}

type field struct {
	name      string
	column    string
	persisted bool
	encode    func(s *Student) (any, error)
	decode    func(v any, s *Student) error
}

// Mapper translates Student records to and from Rows. It holds no mutable
// state and is safe for concurrent use.
type Mapper struct {
	cfg    MapperConfig
	fields []field
}

func NewMapper(cfg MapperConfig) (*Mapper, error) {
	switch cfg.IDStrategy {
	case IDStore, IDCaller:
	case "":
		cfg.IDStrategy = IDStore
	default:
		return nil, fmt.Errorf("unknown id strategy %q", cfg.IDStrategy)
	}
	if cfg.NameMaxLength < 0 {
		return nil, fmt.Errorf("name max length must not be negative, got %d", cfg.NameMaxLength)
	}

	m := &Mapper{cfg: cfg}
	m.fields = []field{
		{name: "ID", column: ColumnID, persisted: true, encode: encodeID, decode: decodeID},
		{name: "Name", column: ColumnName, persisted: true, encode: m.encodeName, decode: decodeName},
		{name: "DateOfBirth", column: ColumnDateOfBirth, persisted: true, encode: encodeDate, decode: decodeDate},
		{name: "Group", column: ColumnGroup, persisted: true, encode: encodeGroup, decode: decodeGroup},
		{name: "Note", persisted: false},
	}
	return m, nil
}

// IDStrategy returns the configured primary key strategy.
func (m *Mapper) IDStrategy() IDStrategy {
	return m.cfg.IDStrategy
}

// Columns returns the persisted column names in row order.
func (m *Mapper) Columns() []string {
	cols := make([]string, 0, len(m.fields))
	for _, f := range m.fields {
		if f.persisted {
			cols = append(cols, f.column)
		}
	}
	return cols
}

// ToRow encodes s. With the store strategy the id column is omitted.
func (m *Mapper) ToRow(s *Student) (Row, error) {
	if s == nil {
		return nil, &ValidationError{Message: "student is nil"}
	}

	row := make(Row, 0, len(m.fields))
	for _, f := range m.fields {
		if !f.persisted {
			continue
		}
		if f.column == ColumnID && m.cfg.IDStrategy == IDStore {
			continue
		}
		v, err := f.encode(s)
		if err != nil {
			return nil, err
		}
		row = append(row, Column{Name: f.column, Value: v})
	}
	return row, nil
}

// FromRow decodes row into a new Student. Transient fields stay at their zero value.
func (m *Mapper) FromRow(row Row) (*Student, error) {
	s := &Student{}
	for _, f := range m.fields {
		if !f.persisted {
			continue
		}
		v, ok := row.Get(f.column)
		if !ok {
			v = nil
		}
		if err := f.decode(v, s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func encodeID(s *Student) (any, error) {
	if s.ID <= 0 {
		return nil, &ValidationError{Field: "ID", Message: "caller-assigned id is required"}
	}
	return s.ID, nil
}

func (m *Mapper) encodeName(s *Student) (any, error) {
	if m.cfg.NameMaxLength > 0 && len([]rune(s.Name)) > m.cfg.NameMaxLength {
		return nil, &ValidationError{
			Field:   "Name",
			Message: fmt.Sprintf("length exceeds %d characters", m.cfg.NameMaxLength),
		}
	}
	return s.Name, nil
}

func encodeDate(s *Student) (any, error) {
	if s.DateOfBirth.IsZero() {
		return nil, nil
	}
	return DateOf(s.DateOfBirth), nil
}

func encodeGroup(s *Student) (any, error) {
	if s.Group == "" {
		return nil, nil
	}
	name, ok := s.Group.Name()
	if !ok {
		return nil, &EncodingError{Field: "Group", Value: string(s.Group), Err: errors.New("not a member of the group set")}
	}
	return name, nil
}

func decodeID(v any, s *Student) error {
	if v == nil {
		return &DecodingError{Column: ColumnID, Err: errors.New("id is null")}
	}
	id, err := toInt64(v)
	if err != nil {
		return &DecodingError{Column: ColumnID, Value: v, Err: err}
	}
	s.ID = id
	return nil
}

func decodeName(v any, s *Student) error {
	switch t := v.(type) {
	case nil:
		s.Name = ""
	case string:
		s.Name = t
	case []byte:
		s.Name = string(t)
	default:
		return &DecodingError{Column: ColumnName, Value: v, Err: fmt.Errorf("unexpected type %T", v)}
	}
	return nil
}

func decodeDate(v any, s *Student) error {
	switch t := v.(type) {
	case nil:
		s.DateOfBirth = time.Time{}
		return nil
	case time.Time:
		s.DateOfBirth = DateOf(t)
		return nil
	case string:
		d, err := ParseDate(t)
		if err != nil {
			return &DecodingError{Column: ColumnDateOfBirth, Value: v, Err: err}
		}
		s.DateOfBirth = d
		return nil
	case []byte:
		d, err := ParseDate(string(t))
		if err != nil {
			return &DecodingError{Column: ColumnDateOfBirth, Value: v, Err: err}
		}
		s.DateOfBirth = d
		return nil
	}
	return &DecodingError{Column: ColumnDateOfBirth, Value: v, Err: fmt.Errorf("unexpected type %T", v)}
}

func decodeGroup(v any, s *Student) error {
	var name string
	switch t := v.(type) {
	case nil:
		s.Group = ""
		return nil
	case string:
		name = t
	case []byte:
		name = string(t)
	default:
		return &DecodingError{Column: ColumnGroup, Value: v, Err: fmt.Errorf("unexpected type %T", v)}
	}
	g, ok := ParseGroup(name)
	if !ok {
		return &DecodingError{Column: ColumnGroup, Value: v, Err: errors.New("not a member of the group set")}
	}
	s.Group = g
	return nil
}

func toInt64(v any) (int64, error) {
	switch t := v.(type) {
	case int64:
		return t, nil
	case int:
		return int64(t), nil
	case int32:
		return int64(t), nil
	case int16:
		return int64(t), nil
	case int8:
		return int64(t), nil
	case uint32:
		return int64(t), nil
	case uint16:
		return int64(t), nil
	case uint8:
		return int64(t), nil
	case uint64:
		if t > 1<<63-1 {
			return 0, fmt.Errorf("value %d overflows int64", t)
		}
		return int64(t), nil
	case string:
		return strconv.ParseInt(t, 10, 64)
	case []byte:
		return strconv.ParseInt(string(t), 10, 64)
	}
	return 0, fmt.Errorf("unexpected type %T", v)
}

// DateOf returns midnight UTC of t's calendar day in t's own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var dateLayouts = []string{
	DateLayout,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
}

// ParseDate parses a stored date value. Timestamps are accepted and cut down
// to their calendar day.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("malformed date %q", s)
}
