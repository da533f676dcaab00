package lint

import (
	"fmt"
	"regexp"

	"github.com/leapstack-labs/ttcnlint/pkg/core"
)

// GetOption extracts a typed option with a default value.
func GetOption[T any](opts core.RuleOptions, key string, defaultVal T) T {
	v, ok := opts[key]
	if !ok {
		return defaultVal
	}
	if typed, ok := v.(T); ok {
		return typed
	}
	return defaultVal
}

// GetIntOption extracts an int option, handling float64 from JSON and
// int64 from msgpack.
func GetIntOption(opts core.RuleOptions, key string, defaultVal int) int {
	switch n := opts[key].(type) {
	case int:
		return n
	case float64:
		return int(n)
	case int64:
		return int(n)
	default:
		return defaultVal
	}
}

// GetStringOption extracts a string option.
func GetStringOption(opts core.RuleOptions, key string, defaultVal string) string {
	return GetOption(opts, key, defaultVal)
}

// GetBoolOption extracts a bool option.
func GetBoolOption(opts core.RuleOptions, key string, defaultVal bool) bool {
	return GetOption(opts, key, defaultVal)
}

// GetStringSliceOption extracts a string slice option. YAML and JSON
// decode lists as []any, so both shapes are accepted.
func GetStringSliceOption(opts core.RuleOptions, key string, defaultVal []string) []string {
	switch s := opts[key].(type) {
	case []string:
		return s
	case []any:
		result := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok {
				result = append(result, str)
			}
		}
		return result
	default:
		return defaultVal
	}
}

// GetRegexpOption compiles a pattern option. An absent or empty option
// yields nil.
func GetRegexpOption(opts core.RuleOptions, key string) (*regexp.Regexp, error) {
	pattern := GetStringOption(opts, key, "")
	if pattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("option %s: %w", key, err)
	}
	return re, nil
}
