package mcp

import (
	"fmt"

	"cqb/internal/errors"
)

// stringParam returns params[key] as a string. Missing or empty values
// return the fallback.
func stringParam(params map[string]interface{}, key, fallback string) string {
	if v, ok := params[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// requiredStringParam returns params[key] as a non-empty string or an
// invalid-parameter error.
func requiredStringParam(params map[string]interface{}, key string) (string, error) {
	v, ok := params[key].(string)
	if !ok || v == "" {
		return "", errors.NewInvalidParameterError(key, fmt.Sprintf("%s is required", key))
	}
	return v, nil
}

// int64Param reads a numeric parameter. JSON numbers arrive as float64
// after unmarshaling into interface{}.
func int64Param(params map[string]interface{}, key string) (int64, bool) {
	switch v := params[key].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	}
	return 0, false
}

// requiredIDParam reads a numeric id parameter or returns an
// invalid-parameter error.
func requiredIDParam(params map[string]interface{}, key string) (int64, error) {
	id, ok := int64Param(params, key)
	if !ok {
		return 0, errors.NewInvalidParameterError(key, fmt.Sprintf("%s must be a numeric id", key))
	}
	return id, nil
}

func boolParam(params map[string]interface{}, key string) bool {
	v, _ := params[key].(bool)
	return v
}

// stringSliceParam reads an array-of-strings parameter. Non-string
// elements are skipped.
func stringSliceParam(params map[string]interface{}, key string) []string {
	raw, ok := params[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// stringMapParam reads an object parameter as path-to-value pairs.
// Values are stringified, matching the loose comparison the deep
// filter performs.
func stringMapParam(params map[string]interface{}, key string) map[string]string {
	raw, ok := params[key].(map[string]interface{})
	if !ok || len(raw) == 0 {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		out[k] = fmt.Sprint(v)
	}
	return out
}

// mapParam reads an object parameter as-is.
func mapParam(params map[string]interface{}, key string) (map[string]interface{}, bool) {
	v, ok := params[key].(map[string]interface{})
	return v, ok
}

func invalidObjectParam(key string) error {
	return errors.NewInvalidParameterError(key, fmt.Sprintf("%s must be an object", key))
}
