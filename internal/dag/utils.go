package dag

import (
	"fmt"
	"reflect"
)

// formatValueForLogs renders a decoded input struct compactly for debug logs.
func formatValueForLogs(v any) string {
	if v == nil {
		return "<nil>"
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return "<nil>"
		}
		rv = rv.Elem()
	}
	return fmt.Sprintf("%+v", rv.Interface())
}
