package schema

import "sort"

// Schema is a map of field names to their expected types.
// Example: {"id": String(), "version": Literal(1), "nodes": Slice(...)}
type Schema map[string]Type

// Validate checks data against the schema. Unknown keys in data are
// permitted; every failure found is collected and returned in one
// AggregateError so callers can report all offending field paths.
// Errors are sorted by path for stable output.
func Validate(schema Schema, data map[string]any) error {
	errs := schema.validateAt("", data)
	if len(errs) > 0 {
		sort.SliceStable(errs, func(i, j int) bool { return errs[i].Path < errs[j].Path })
		agg := &AggregateError{}
		for _, e := range errs {
			agg.Errors = append(agg.Errors, e)
		}
		return agg
	}
	return nil
}

func (s Schema) validateAt(path string, data map[string]any) []*ValidationError {
	var errs []*ValidationError
	for fieldName, fieldType := range s {
		fieldPath := fieldName
		if path != "" {
			fieldPath = path + "." + fieldName
		}
		value, exists := data[fieldName]
		if !exists {
			if _, optional := fieldType.(*OptionalType); optional {
				continue
			}
			errs = append(errs, &ValidationError{Path: fieldPath, Reason: "required"})
			continue
		}
		errs = append(errs, fieldType.Validate(fieldPath, value)...)
	}
	return errs
}
