package store

import (
	"fmt"
	"strconv"
	"time"
)

// Record is a single row keyed by column name. Values are plain scalars:
// string, bool, integers, float64, time.Time or nil.
type Record map[string]any

// Clone returns a shallow copy of r
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// ID returns the "id" column as a string
func (r Record) ID() string { return r.String("id") }

// String returns the column as a string, or "" when absent or NULL.
func (r Record) String(key string) string {
	switch v := r[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// StringPtr returns the column as *string, nil when absent or NULL.
func (r Record) StringPtr(key string) *string {
	if v, ok := r[key]; !ok || v == nil {
		return nil
	}
	s := r.String(key)
	return &s
}

// Bool returns the column as a bool. Integer 0/1 is accepted for SQLite.
func (r Record) Bool(key string) bool {
	switch v := r[key].(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case int:
		return v != 0
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	case []byte:
		b, _ := strconv.ParseBool(string(v))
		return b
	default:
		return false
	}
}

// Int returns the column as an int
func (r Record) Int(key string) int {
	switch v := r[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		n, _ := strconv.Atoi(v)
		return n
	case []byte:
		n, _ := strconv.Atoi(string(v))
		return n
	default:
		return 0
	}
}

// Time returns the column as a time.Time, the zero time when absent or unparsable.
func (r Record) Time(key string) time.Time {
	switch v := r[key].(type) {
	case time.Time:
		return v
	case string:
		return parseTime(v)
	case []byte:
		return parseTime(string(v))
	default:
		return time.Time{}
	}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func parseTime(s string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Nullable converts an optional string to a column value (nil for NULL).
func Nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
