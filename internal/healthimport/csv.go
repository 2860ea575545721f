package healthimport

import (
	"strconv"
	"strings"
)

// parseCSV reads a newline-delimited export where the first line is a header
// (discarded without column-name validation) and each remaining row is
// date, bedtime, wake time, and optionally duration in hours. Rows are
// assumed pre-aggregated to one per day. This is a tolerant parser: rows
// missing a date, with neither bedtime nor wake time, or with an
// unparseable date are skipped silently.
func parseCSV(text string) []SleepEntry {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	var entries []SleepEntry

	for i := 1; i < len(lines); i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			continue
		}

		cols := strings.Split(line, ",")
		for j, c := range cols {
			cols[j] = strings.Trim(strings.TrimSpace(c), `"`)
		}
		if len(cols) < 3 {
			continue
		}

		rawDate, bedtime, wakeTime := cols[0], cols[1], cols[2]
		if rawDate == "" || (bedtime == "" && wakeTime == "") {
			continue
		}
		date, ok := normalizeDate(rawDate)
		if !ok {
			continue
		}

		duration := 0
		if len(cols) >= 4 && cols[3] != "" {
			if hours, err := strconv.ParseFloat(cols[3], 64); err == nil {
				duration = int(hours * 60)
			}
		}

		entries = append(entries, SleepEntry{
			Date:            date,
			Bedtime:         bedtime,
			WakeTime:        wakeTime,
			DurationMinutes: duration,
		})
	}

	return entries
}
