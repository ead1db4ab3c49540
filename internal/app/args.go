package app

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/bobmcallan/yfinance-mcp/internal/common"
)

// Tool arguments arrive as a decoded JSON object. Numbers are float64, but
// some MCP clients send numbers and booleans as strings, and arrays as
// comma-separated or JSON-encoded strings. These helpers accept all of them
// and distinguish an absent argument from an explicit null.

func invalidType(key, want string, v interface{}) error {
	return common.InvalidArgument(fmt.Sprintf("Pass %s as %s.", key, want),
		"%s must be %s, got %v", key, want, v)
}

// lookup reports whether key was supplied with a non-null value
func lookup(args map[string]interface{}, key string) (interface{}, bool) {
	v, ok := args[key]
	if !ok || v == nil {
		return nil, false
	}
	if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
		return nil, false
	}
	return v, true
}

func optionalNumber(args map[string]interface{}, key string) (*float64, error) {
	v, ok := lookup(args, key)
	if !ok {
		return nil, nil
	}
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return nil, invalidType(key, "a number", v)
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return nil, invalidType(key, "a number", v)
		}
		f = parsed
	default:
		return nil, invalidType(key, "a number", v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, invalidType(key, "a finite number", v)
	}
	return &f, nil
}

func optionalInt(args map[string]interface{}, key string) (*int, error) {
	f, err := optionalNumber(args, key)
	if err != nil || f == nil {
		return nil, err
	}
	if *f != math.Trunc(*f) {
		return nil, invalidType(key, "a whole number", *f)
	}
	if math.Abs(*f) > math.MaxInt32 {
		return nil, common.InvalidArgument(fmt.Sprintf("Pass %s as a smaller whole number.", key),
			"%s is out of range: %g", key, *f)
	}
	n := int(*f)
	return &n, nil
}

func optionalInt64(args map[string]interface{}, key string) (*int64, error) {
	n, err := optionalInt(args, key)
	if err != nil || n == nil {
		return nil, err
	}
	v := int64(*n)
	return &v, nil
}

// intArg returns the argument or def when absent
func intArg(args map[string]interface{}, key string, def int) (int, error) {
	n, err := optionalInt(args, key)
	if err != nil {
		return 0, err
	}
	if n == nil {
		return def, nil
	}
	return *n, nil
}

func optionalBool(args map[string]interface{}, key string) (*bool, error) {
	v, ok := lookup(args, key)
	if !ok {
		return nil, nil
	}
	switch b := v.(type) {
	case bool:
		return &b, nil
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return nil, invalidType(key, "true or false", v)
		}
		return &parsed, nil
	}
	return nil, invalidType(key, "true or false", v)
}

func boolArg(args map[string]interface{}, key string, def bool) (bool, error) {
	b, err := optionalBool(args, key)
	if err != nil {
		return false, err
	}
	if b == nil {
		return def, nil
	}
	return *b, nil
}

func stringArg(args map[string]interface{}, key, def string) (string, error) {
	v, ok := lookup(args, key)
	if !ok {
		return def, nil
	}
	s, isStr := v.(string)
	if !isStr {
		return "", invalidType(key, "a string", v)
	}
	return strings.TrimSpace(s), nil
}

// stringList accepts a JSON array, a JSON-encoded array string or a
// comma-separated string
func stringList(args map[string]interface{}, key string) ([]string, error) {
	v, ok := lookup(args, key)
	if !ok {
		return nil, nil
	}
	switch list := v.(type) {
	case []string:
		return list, nil
	case []interface{}:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, isStr := item.(string)
			if !isStr {
				return nil, invalidType(key, "a list of strings", v)
			}
			out = append(out, s)
		}
		return out, nil
	case string:
		s := strings.TrimSpace(list)
		if strings.HasPrefix(s, "[") {
			var out []string
			if err := json.Unmarshal([]byte(s), &out); err != nil {
				return nil, invalidType(key, "a list of strings", v)
			}
			return out, nil
		}
		return strings.Split(s, ","), nil
	}
	return nil, invalidType(key, "a list of strings", v)
}
