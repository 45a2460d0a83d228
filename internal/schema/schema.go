package schema

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for schema violations on submitted fields.
var (
	// ErrUnknownField indicates a submitted field that is not declared in the table schema.
	ErrUnknownField = errors.New("unknown field")
	// ErrMissingField indicates a required field was not supplied on create.
	ErrMissingField = errors.New("missing required field")
)

// Kind identifies the value type of a declared field.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindUint
	KindFloat
	KindBool
	KindTime
)

// Field describes one editable column of a managed entity.
type Field struct {
	Name     string
	Kind     Kind
	Required bool
	// OrderKey marks the field as an ordering key for listings. Order keys
	// apply in declaration order.
	OrderKey bool
	// References holds the table name of the foreign-key target, empty for
	// plain fields.
	References string
}

// Table is the statically declared schema for one managed entity. It replaces
// runtime column introspection: everything the record controller needs to know
// about an entity is declared here, next to the model.
type Table struct {
	Name   string
	Fields []Field
}

// Field returns the declared field with the given name.
func (t Table) Field(name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}

	return Field{}, false
}

// OrderKeys returns the names of order-key fields in declaration order.
func (t Table) OrderKeys() []string {
	var keys []string
	for _, f := range t.Fields {
		if f.OrderKey {
			keys = append(keys, f.Name)
		}
	}

	return keys
}

// ForeignKeys returns the declared foreign-key fields in declaration order.
func (t Table) ForeignKeys() []Field {
	var fks []Field
	for _, f := range t.Fields {
		if f.References != "" {
			fks = append(fks, f)
		}
	}

	return fks
}

// AsString coerces a submitted field value to a string.
func AsString(value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("expected string, got %T", value)
	}

	return s, nil
}

// AsFloat coerces a submitted field value to a float64. Integer inputs are
// widened; anything else is rejected.
func AsFloat(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("expected number, got %T", value)
	}
}

// AsInt coerces a submitted field value to an int64.
func AsInt(value any) (int64, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case uint:
		return int64(v), nil
	case float64:
		if v != float64(int64(v)) {
			return 0, fmt.Errorf("expected integer, got fractional %v", v)
		}
		return int64(v), nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", value)
	}
}

// AsUint coerces a submitted field value to a uint, rejecting negatives. Used
// for identifiers and foreign keys.
func AsUint(value any) (uint, error) {
	n, err := AsInt(value)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("expected non-negative integer, got %d", n)
	}

	return uint(n), nil
}

// AsBool coerces a submitted field value to a bool.
func AsBool(value any) (bool, error) {
	b, ok := value.(bool)
	if !ok {
		return false, fmt.Errorf("expected bool, got %T", value)
	}

	return b, nil
}

// AsTime coerces a submitted field value to a time.Time. Strings are accepted
// in RFC 3339 or date-only form, matching what date widgets produce.
func AsTime(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case string:
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t, nil
		}
		if t, err := time.Parse("2006-01-02", v); err == nil {
			return t, nil
		}
		return time.Time{}, fmt.Errorf("cannot parse %q as a date", v)
	default:
		return time.Time{}, fmt.Errorf("expected date, got %T", value)
	}
}
