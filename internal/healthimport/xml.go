package healthimport

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	recordStart = "<Record"
	recordEnd   = ">"

	sleepAnalysisType = "HKCategoryTypeIdentifierSleepAnalysis"

	// maxUnterminatedTail is the safety valve against malformed input: if no
	// record boundary appears across this much unconsumed text, the buffer
	// is dropped rather than grown without bound. Tunable, not a contract;
	// dropping loses at most one malformed record's worth of data.
	maxUnterminatedTail = 1 << 20
)

// envelope is the running per-date aggregate: earliest start and latest end
// across all sleep intervals observed for that calendar day.
type envelope struct {
	start time.Time
	end   time.Time
}

// xmlScanner consumes Apple Health export.xml text as it arrives. It is an
// explicit tokenizer rather than a stateful regex: each Feed appends to the
// buffer, complete <Record ...> tags are processed, and the consumed prefix
// is discarded so the buffer tracks only the unconsumed tail. Output is
// identical regardless of how the input is chunked.
type xmlScanner struct {
	tail   string
	byDate map[string]envelope
}

func newXMLScanner() *xmlScanner {
	return &xmlScanner{byDate: make(map[string]envelope)}
}

// Feed appends decoded text and scans for complete records.
func (s *xmlScanner) Feed(text string) {
	buf := s.tail + text
	pos := 0

	for {
		start := strings.Index(buf[pos:], recordStart)
		if start < 0 {
			// No record start in the remainder. Retain only enough tail to
			// cover a marker split across the chunk edge.
			keep := len(recordStart) - 1
			if rem := len(buf) - pos; rem < keep {
				keep = rem
			}
			s.tail = buf[len(buf)-keep:]
			return
		}
		start += pos

		end := strings.Index(buf[start:], recordEnd)
		if end < 0 {
			// Unterminated record: wait for more data, unless the tail has
			// grown past the safety threshold.
			if len(buf)-start > maxUnterminatedTail {
				s.tail = ""
			} else {
				s.tail = buf[start:]
			}
			return
		}

		s.consumeRecord(buf[start : start+end+1])
		pos = start + end + 1
	}
}

// consumeRecord inspects one complete tag and merges countable sleep
// intervals into the per-date aggregation map.
func (s *xmlScanner) consumeRecord(tag string) {
	if attrValue(tag, "type") != sleepAnalysisType {
		return
	}
	value := attrValue(tag, "value")
	if !countableSleepValue(value) {
		return
	}

	start, ok := parseHealthTime(attrValue(tag, "startDate"))
	if !ok {
		return
	}
	end, ok := parseHealthTime(attrValue(tag, "endDate"))
	if !ok {
		return
	}

	date := start.Format("2006-01-02")
	env, seen := s.byDate[date]
	if !seen {
		s.byDate[date] = envelope{start: start, end: end}
		return
	}
	if start.Before(env.start) {
		env.start = start
	}
	if end.After(env.end) {
		env.end = end
	}
	s.byDate[date] = env
}

// Entries emits one aggregated entry per date, sorted, with the duration
// computed from the envelope rather than summed segments so overlapping or
// fragmented intervals are not double-counted.
func (s *xmlScanner) Entries() []SleepEntry {
	entries := make([]SleepEntry, 0, len(s.byDate))
	for date, env := range s.byDate {
		millis := env.end.UnixMilli() - env.start.UnixMilli()
		entries = append(entries, SleepEntry{
			Date:            date,
			Bedtime:         clockTime(env.start),
			WakeTime:        clockTime(env.end),
			DurationMinutes: int((millis + 30000) / 60000),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date < entries[j].Date })
	return entries
}

// tailLen reports the retained unconsumed buffer size. Test hook for the
// memory-boundedness property.
func (s *xmlScanner) tailLen() int {
	return len(s.tail)
}

// attrValue extracts a double-quoted attribute from a tag's text without
// assuming attribute order.
func attrValue(tag, name string) string {
	marker := " " + name + `="`
	i := strings.Index(tag, marker)
	if i < 0 {
		return ""
	}
	rest := tag[i+len(marker):]
	j := strings.IndexByte(rest, '"')
	if j < 0 {
		return ""
	}
	return rest[:j]
}

// countableSleepValue reports whether a record's value denotes a sleep or
// in-bed state. The heuristics overlap deliberately: exports vary between
// named category values and bare numeric codes, and a record satisfying
// several is still counted once.
func countableSleepValue(value string) bool {
	if value == "" {
		return false
	}
	if strings.Contains(value, "Asleep") || strings.Contains(value, "InBed") {
		return true
	}
	if strings.Contains(value, "SleepAnalysis") {
		return true
	}
	if n, err := strconv.Atoi(value); err == nil && n >= 1 && n <= 5 {
		return true
	}
	return false
}
