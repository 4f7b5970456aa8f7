package tool

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// RequiredString returns a non-empty string argument.
func RequiredString(args map[string]any, key string) (string, error) {
	v, ok, err := OptionalString(args, key)
	if err != nil {
		return "", err
	}
	if !ok || v == "" {
		return "", goerr.Wrap(ErrInvalidArgument, "argument is required", goerr.V("key", key))
	}
	return v, nil
}

// OptionalString returns a string argument and whether it was present.
func OptionalString(args map[string]any, key string) (string, bool, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", false, goerr.Wrap(ErrInvalidArgument, "argument must be a string",
			goerr.V("key", key),
			goerr.V("type", typeName(v)),
		)
	}
	s = strings.TrimSpace(s)
	return s, s != "", nil
}

// OptionalInt64 returns an integer argument. Model-generated JSON numbers
// arrive as float64; numeric strings are accepted as well.
func OptionalInt64(args map[string]any, key string) (int64, bool, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return 0, false, nil
	}

	invalid := func() error {
		return goerr.Wrap(ErrInvalidArgument, "argument must be an integer",
			goerr.V("key", key),
			goerr.V("value", v),
		)
	}

	switch n := v.(type) {
	case int:
		return int64(n), true, nil
	case int64:
		return n, true, nil
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) || math.IsNaN(n) {
			return 0, false, invalid()
		}
		return int64(n), true, nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false, invalid()
		}
		return i, true, nil
	case string:
		if strings.TrimSpace(n) == "" {
			return 0, false, nil
		}
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, false, invalid()
		}
		return i, true, nil
	default:
		return 0, false, invalid()
	}
}

// OptionalBool returns a boolean argument, or def when absent.
func OptionalBool(args map[string]any, key string, def bool) (bool, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return def, nil
	}
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return false, goerr.Wrap(ErrInvalidArgument, "argument must be a boolean",
				goerr.V("key", key),
				goerr.V("value", b),
			)
		}
		return parsed, nil
	default:
		return false, goerr.Wrap(ErrInvalidArgument, "argument must be a boolean",
			goerr.V("key", key),
			goerr.V("type", typeName(v)),
		)
	}
}

func typeName(v any) string {
	switch v.(type) {
	case float64, json.Number:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "unknown"
	}
}
