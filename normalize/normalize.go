// Package normalize maps the backend's arbitrarily-shaped payloads into the
// canonical client-side model. All functions are pure, tolerate any input
// shape, and return empty values rather than failing; raw backend field names
// must never leak past this boundary.
package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Round2 rounds to 2 decimal places for display. Canonical stored prices
// keep full precision.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// decode unmarshals raw JSON into a generic value; nil on any failure.
func decode(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

// findList resolves a list-like response. Priority: a bare array; one of the
// preferred keys holding an array; grouped sub-objects each containing a
// "reviews" array (flattened by concatenation); the first array found among
// the values; otherwise empty.
func findList(v any, preferredKeys []string) []any {
	switch val := v.(type) {
	case []any:
		return val
	case map[string]any:
		for _, key := range preferredKeys {
			if arr, ok := val[key].([]any); ok {
				return arr
			}
		}
		var grouped []any
		for _, inner := range val {
			if group, ok := inner.(map[string]any); ok {
				if arr, ok := group["reviews"].([]any); ok {
					grouped = append(grouped, arr...)
				}
			}
		}
		if grouped != nil {
			return grouped
		}
		for _, inner := range val {
			if arr, ok := inner.([]any); ok {
				return arr
			}
		}
	}
	return nil
}

func str(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := m[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// num reads the first numeric-looking field. Backends send numbers both as
// JSON numbers and as strings.
func num(m map[string]any, keys ...string) (float64, bool) {
	for _, key := range keys {
		switch v := m[key].(type) {
		case float64:
			return v, true
		case string:
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

func integer(m map[string]any, keys ...string) int {
	f, _ := num(m, keys...)
	return int(f)
}

func boolean(m map[string]any, keys ...string) bool {
	for _, key := range keys {
		switch v := m[key].(type) {
		case bool:
			return v
		case float64:
			return v != 0
		}
	}
	return false
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	time.RFC1123,
}

func timestamp(m map[string]any, keys ...string) *time.Time {
	for _, key := range keys {
		s, ok := m[key].(string)
		if !ok || s == "" {
			continue
		}
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return &t
			}
		}
	}
	return nil
}

var categoryNames = map[string]string{
	"men":    "Men",
	"women":  "Women",
	"unisex": "Unisex",
}

// Category maps backend category strings through a fixed case-insensitive
// table. Unrecognized categories pass through unchanged.
func Category(category string) string {
	if mapped, ok := categoryNames[strings.ToLower(category)]; ok {
		return mapped
	}
	return category
}
