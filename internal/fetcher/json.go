package fetcher

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// unmarshalTolerant decodes body into dest, tolerating the provider's habit
// of returning an object (commonly an error envelope, e.g. {"Error
// Message": "..."}) where a list was expected. When dest is a pointer
// to a slice and decoding fails, the response is treated as empty rather
// than as a hard error; that matches the provider's "missing fields on any
// record" and "(404)/empty" leniency for individual endpoints.
func unmarshalTolerant(body []byte, dest any) error {
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dest); err != nil {
		if isSlicePointer(dest) {
			return nil
		}
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func isSlicePointer(dest any) bool {
	v := reflect.ValueOf(dest)
	return v.Kind() == reflect.Ptr && v.Elem().Kind() == reflect.Slice
}
