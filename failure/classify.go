package failure

import (
	"errors"
	"reflect"
	"strings"
)

// Classify returns a normalized kind name for an error, suitable for
// tagging reports and throttle keys. It unwraps to the innermost error for
// better signal and converts the concrete type to a snake_case-ish form.
func Classify(err error) string {
	if err == nil {
		return ""
	}

	for {
		unwrapped := errors.Unwrap(err)
		if unwrapped == nil {
			break
		}
		err = unwrapped
	}

	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "unknown"
	}

	name := strings.ToLower(strings.ReplaceAll(t.String(), "*", ""))
	name = strings.ReplaceAll(name, ".", "_")
	if name == "" {
		return "unknown"
	}
	return name
}
