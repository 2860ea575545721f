package healthimport

import (
	"github.com/goccy/go-json"
)

// parseJSON accepts either a top-level array of entry objects or an object
// carrying the array under "entries" or "data". Field names vary between
// export tools, so each logical field is resolved through an ordered
// candidate-key chain (see types.go). Malformed top-level JSON yields an
// empty result rather than an error; the caller treats zero entries as the
// failure signal.
func parseJSON(text string) []SleepEntry {
	var top any
	if err := json.Unmarshal([]byte(text), &top); err != nil {
		return nil
	}

	var items []any
	switch v := top.(type) {
	case []any:
		items = v
	case map[string]any:
		if arr, ok := v["entries"].([]any); ok {
			items = arr
		} else if arr, ok := v["data"].([]any); ok {
			items = arr
		}
	}

	var entries []SleepEntry
	for _, raw := range items {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		rawDate := firstString(item, dateKeys)
		if rawDate == "" {
			continue
		}
		date, ok := normalizeDate(rawDate)
		if !ok {
			continue
		}

		duration := firstNumber(item, durationKeys)
		if duration == 0 {
			if hours, found := number(item, "durationHours"); found {
				duration = hours * 60
			}
		}

		entries = append(entries, SleepEntry{
			Date:            date,
			Bedtime:         firstString(item, bedtimeKeys),
			WakeTime:        firstString(item, wakeTimeKeys),
			DurationMinutes: int(duration),
		})
	}

	return entries
}

// firstString returns the first present non-empty string among candidates.
func firstString(item map[string]any, keys []string) string {
	for _, k := range keys {
		if s, ok := item[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// firstNumber returns the first present numeric value among candidates.
func firstNumber(item map[string]any, keys []string) float64 {
	for _, k := range keys {
		if v, found := number(item, k); found {
			return v
		}
	}
	return 0
}

func number(item map[string]any, key string) (float64, bool) {
	switch v := item[key].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	}
	return 0, false
}
