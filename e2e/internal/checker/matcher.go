package checker

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// MatchesExpectation checks if actual matches expected.
// String expectations may be a regex (~pattern~) or a numeric comparison
// (>n, <n, >=n, <=n). Maps match on the expected keys only.
// Returns (true, "") on match, (false, "reason") on mismatch.
func MatchesExpectation(actual, expected interface{}) (bool, string) {
	if expected == nil || actual == nil {
		if expected == nil && actual == nil {
			return true, ""
		}
		return false, fmt.Sprintf("expected %v, got %v", expected, actual)
	}

	if expectedStr, ok := expected.(string); ok {
		switch {
		case len(expectedStr) > 1 && strings.HasPrefix(expectedStr, "~") && strings.HasSuffix(expectedStr, "~"):
			return matchRegex(actual, strings.Trim(expectedStr, "~"))
		case strings.HasPrefix(expectedStr, ">") || strings.HasPrefix(expectedStr, "<"):
			return matchComparison(actual, expectedStr)
		}
	}

	if isNumber(expected) {
		return matchNumber(actual, expected)
	}

	switch exp := expected.(type) {
	case map[string]interface{}:
		return matchMap(actual, exp)
	case []interface{}:
		return matchSlice(actual, exp)
	}

	// Scalars from YAML and JSON compare by their printed form
	if fmt.Sprint(actual) == fmt.Sprint(expected) {
		return true, ""
	}
	return false, fmt.Sprintf("expected %v, got %v", expected, actual)
}

func matchRegex(actual interface{}, pattern string) (bool, string) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, fmt.Sprintf("invalid regex pattern %q: %v", pattern, err)
	}

	actualStr := fmt.Sprint(actual)
	if re.MatchString(actualStr) {
		return true, ""
	}
	return false, fmt.Sprintf("value %q does not match pattern ~%s~", actualStr, pattern)
}

func matchComparison(actual interface{}, comparison string) (bool, string) {
	actualFloat, err := toFloat64(actual)
	if err != nil {
		return false, fmt.Sprintf("cannot compare non-numeric value: %v", actual)
	}

	op := comparison[:1]
	if strings.HasPrefix(comparison, ">=") || strings.HasPrefix(comparison, "<=") {
		op = comparison[:2]
	}

	target, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimPrefix(comparison, op)), 64)
	if err != nil {
		return false, fmt.Sprintf("invalid comparison value: %s", comparison)
	}

	var ok bool
	switch op {
	case ">":
		ok = actualFloat > target
	case "<":
		ok = actualFloat < target
	case ">=":
		ok = actualFloat >= target
	case "<=":
		ok = actualFloat <= target
	}

	if ok {
		return true, ""
	}
	return false, fmt.Sprintf("expected value %s %v, got %v", op, target, actualFloat)
}

func matchNumber(actual, expected interface{}) (bool, string) {
	actualFloat, err := toFloat64(actual)
	if err != nil {
		return false, fmt.Sprintf("expected number %v, got %T", expected, actual)
	}

	expectedFloat, _ := toFloat64(expected)
	if actualFloat == expectedFloat {
		return true, ""
	}
	return false, fmt.Sprintf("expected %v, got %v", expected, actual)
}

func matchMap(actual interface{}, expected map[string]interface{}) (bool, string) {
	actualMap, ok := actual.(map[string]interface{})
	if !ok {
		return false, fmt.Sprintf("expected object, got %T", actual)
	}

	for key, expectedValue := range expected {
		actualValue, exists := actualMap[key]
		if !exists {
			return false, fmt.Sprintf("missing key %q", key)
		}
		if matches, reason := MatchesExpectation(actualValue, expectedValue); !matches {
			return false, fmt.Sprintf("key %q: %s", key, reason)
		}
	}
	return true, ""
}

func matchSlice(actual interface{}, expected []interface{}) (bool, string) {
	actualVal := reflect.ValueOf(actual)
	if actualVal.Kind() != reflect.Slice && actualVal.Kind() != reflect.Array {
		return false, fmt.Sprintf("expected array, got %T", actual)
	}
	if actualVal.Len() != len(expected) {
		return false, fmt.Sprintf("expected array length %d, got %d", len(expected), actualVal.Len())
	}

	for i, expectedElem := range expected {
		if matches, reason := MatchesExpectation(actualVal.Index(i).Interface(), expectedElem); !matches {
			return false, fmt.Sprintf("element %d: %s", i, reason)
		}
	}
	return true, ""
}

func isNumber(v interface{}) bool {
	switch v.(type) {
	case int, int32, int64, uint, uint32, uint64, float32, float64:
		return true
	}
	return false
}

// toFloat64 converts numbers and numeric strings (Redis values) to float64
func toFloat64(val interface{}) (float64, error) {
	switch v := val.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	case []byte:
		return strconv.ParseFloat(strings.TrimSpace(string(v)), 64)
	default:
		return 0, fmt.Errorf("not a numeric type: %T", val)
	}
}
