package utils

// Strings keeps the string elements of a decoded JSON array.
func Strings(values []any) []string {
	if len(values) == 0 {
		return nil
	}
	stringSlice := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			stringSlice = append(stringSlice, s)
		}
	}
	return stringSlice
}

// PtrUnlessZero returns a pointer to a copy of v, or nil when v is the zero
// value, so optional JSON fields are omitted.
func PtrUnlessZero[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}
