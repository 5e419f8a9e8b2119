package schema

import (
	"fmt"
	"reflect"
)

// Type defines the contract for field validation. Implementations
// report every failure found under the given path.
type Type interface {
	// Name returns the human-readable name of the type (e.g. "string").
	Name() string
	// Validate checks value against this type and returns all failures,
	// each carrying a full field path rooted at path.
	Validate(path string, value any) []*ValidationError
}

// --- Built-in type implementations ---

// StringType validates string values.
type StringType struct{}

func (t *StringType) Name() string { return "string" }

func (t *StringType) Validate(path string, value any) []*ValidationError {
	if _, ok := value.(string); !ok {
		return fail(path, fmt.Sprintf("expected string, got %T", value), value)
	}
	return nil
}

// NumberType validates numeric values (JSON numbers decode as float64).
type NumberType struct{}

func (t *NumberType) Name() string { return "number" }

func (t *NumberType) Validate(path string, value any) []*ValidationError {
	switch value.(type) {
	case float32, float64, int, int8, int16, int32, int64:
		return nil
	default:
		return fail(path, fmt.Sprintf("expected number, got %T", value), value)
	}
}

// IntType validates integer values, accepting whole-number floats
// (the shape JSON unmarshaling produces).
type IntType struct{}

func (t *IntType) Name() string { return "int" }

func (t *IntType) Validate(path string, value any) []*ValidationError {
	switch v := value.(type) {
	case int, int8, int16, int32, int64:
		return nil
	case float64:
		if v == float64(int64(v)) {
			return nil
		}
		return fail(path, "expected int, got float (not a whole number)", value)
	default:
		return fail(path, fmt.Sprintf("expected int, got %T", value), value)
	}
}

// BoolType validates boolean values.
type BoolType struct{}

func (t *BoolType) Name() string { return "bool" }

func (t *BoolType) Validate(path string, value any) []*ValidationError {
	if _, ok := value.(bool); !ok {
		return fail(path, fmt.Sprintf("expected bool, got %T", value), value)
	}
	return nil
}

// SliceType validates slices of a specific element type.
type SliceType struct {
	elemType Type
}

func (t *SliceType) Name() string {
	return fmt.Sprintf("[%s]", t.elemType.Name())
}

func (t *SliceType) Validate(path string, value any) []*ValidationError {
	rv := reflect.ValueOf(value)
	if value == nil || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return fail(path, fmt.Sprintf("expected slice, got %T", value), value)
	}
	var errs []*ValidationError
	for i := 0; i < rv.Len(); i++ {
		elemPath := fmt.Sprintf("%s[%d]", path, i)
		errs = append(errs, t.elemType.Validate(elemPath, rv.Index(i).Interface())...)
	}
	return errs
}

// ObjectType validates a nested map against an inner Schema.
type ObjectType struct {
	fields Schema
}

func (t *ObjectType) Name() string { return "object" }

func (t *ObjectType) Validate(path string, value any) []*ValidationError {
	data, ok := value.(map[string]any)
	if !ok {
		return fail(path, fmt.Sprintf("expected object, got %T", value), value)
	}
	return t.fields.validateAt(path, data)
}

// EnumType validates membership in a fixed set of string values.
type EnumType struct {
	name   string
	values []string
}

func (t *EnumType) Name() string { return t.name }

func (t *EnumType) Validate(path string, value any) []*ValidationError {
	s, ok := value.(string)
	if !ok {
		return fail(path, fmt.Sprintf("expected %s, got %T", t.name, value), value)
	}
	for _, v := range t.values {
		if s == v {
			return nil
		}
	}
	return fail(path, fmt.Sprintf("expected one of %v, got %q", t.values, s), value)
}

// OptionalType wraps a type so that absent keys and nil values pass.
type OptionalType struct {
	inner Type
}

func (t *OptionalType) Name() string { return t.inner.Name() + "?" }

func (t *OptionalType) Validate(path string, value any) []*ValidationError {
	if value == nil {
		return nil
	}
	return t.inner.Validate(path, value)
}

// AnyType accepts every value, including nil.
type AnyType struct{}

func (t *AnyType) Name() string { return "any" }

func (t *AnyType) Validate(string, any) []*ValidationError { return nil }

// LiteralType validates equality with a fixed value.
type LiteralType struct {
	value any
}

func (t *LiteralType) Name() string { return fmt.Sprintf("literal(%v)", t.value) }

func (t *LiteralType) Validate(path string, value any) []*ValidationError {
	if f, ok := value.(float64); ok {
		if i, isInt := t.value.(int); isInt && f == float64(i) {
			return nil
		}
	}
	if value != t.value {
		return fail(path, fmt.Sprintf("expected %v, got %v", t.value, value), value)
	}
	return nil
}

// CustomType applies a user-defined validation function.
type CustomType struct {
	name     string
	validate func(any) error
}

func (t *CustomType) Name() string { return t.name }

func (t *CustomType) Validate(path string, value any) []*ValidationError {
	if err := t.validate(value); err != nil {
		return fail(path, err.Error(), value)
	}
	return nil
}

// --- Factory functions ---

// String creates a string type validator.
func String() Type { return &StringType{} }

// Number creates a numeric type validator.
func Number() Type { return &NumberType{} }

// Int creates an integer type validator.
func Int() Type { return &IntType{} }

// Bool creates a boolean type validator.
func Bool() Type { return &BoolType{} }

// Slice creates a slice type validator for elements of the given type.
func Slice(elemType Type) Type { return &SliceType{elemType: elemType} }

// Object creates a nested object validator from an inner schema.
func Object(fields Schema) Type { return &ObjectType{fields: fields} }

// Enum creates a validator accepting one of a fixed set of strings.
func Enum(name string, values ...string) Type {
	return &EnumType{name: name, values: values}
}

// Optional wraps a type so a missing or null value is valid.
func Optional(inner Type) Type { return &OptionalType{inner: inner} }

// Any accepts every value.
func Any() Type { return &AnyType{} }

// Literal requires exact equality with value.
func Literal(value any) Type { return &LiteralType{value: value} }

// Custom creates a validator backed by a user-defined function.
func Custom(name string, validate func(any) error) Type {
	return &CustomType{name: name, validate: validate}
}

func fail(path, reason string, value any) []*ValidationError {
	return []*ValidationError{{Path: path, Reason: reason, Value: value}}
}
