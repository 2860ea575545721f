// Package healthimport parses Apple Health sleep exports (CSV, JSON and the
// native export.xml) and reconciles them into the sleep log store.
//
// The XML path streams: export.xml files routinely exceed 100MB, so the
// parser works on an incrementally appended buffer, consumes complete
// <Record .../> tags as they become available and discards the consumed
// prefix, keeping peak memory bounded by one chunk plus the longest
// in-flight unterminated record. Overlapping or fragmented sleep segments
// for a calendar day are collapsed into a single earliest-start/latest-end
// envelope before writing.
//
// Writes go through a batch upsert keyed on (user_id, date), so re-importing
// the same file is idempotent. The parsers are tolerant: rows that cannot be
// understood are skipped silently, and only a total of zero entries is
// reported as a failure.
package healthimport
