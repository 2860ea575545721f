package healthimport

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleExport = `<?xml version="1.0" encoding="UTF-8"?>
<HealthData locale="en_IN">
 <Record type="HKCategoryTypeIdentifierSleepAnalysis" value="HKCategoryValueSleepAnalysisAsleepCore" startDate="2024-01-15 22:00:00 +0530" endDate="2024-01-15 23:30:00 +0530"/>
 <Record type="HKCategoryTypeIdentifierSleepAnalysis" value="HKCategoryValueSleepAnalysisInBed" startDate="2024-01-15 23:00:00 +0530" endDate="2024-01-16 06:00:00 +0530"/>
 <Record type="HKQuantityTypeIdentifierStepCount" value="5000" startDate="2024-01-15 10:00:00 +0530" endDate="2024-01-15 11:00:00 +0530"/>
 <Record type="HKCategoryTypeIdentifierSleepAnalysis" value="2" startDate="2024-01-16 23:15:00 +0530" endDate="2024-01-17 05:45:00 +0530"/>
</HealthData>`

func TestXMLScanner_EnvelopeAggregation(t *testing.T) {
	s := newXMLScanner()
	s.Feed(sampleExport)
	entries := s.Entries()
	require.Len(t, entries, 2)

	// Both 2024-01-15 records merge into one envelope: earliest start
	// 22:00, latest end 06:00 next morning, eight hours total.
	assert.Equal(t, "2024-01-15", entries[0].Date)
	assert.Equal(t, "22:00", entries[0].Bedtime)
	assert.Equal(t, "06:00", entries[0].WakeTime)
	assert.Equal(t, 480, entries[0].DurationMinutes)

	// Numeric category code still counts.
	assert.Equal(t, "2024-01-16", entries[1].Date)
	assert.Equal(t, 390, entries[1].DurationMinutes)
}

func TestXMLScanner_ChunkingDoesNotChangeOutput(t *testing.T) {
	whole := newXMLScanner()
	whole.Feed(sampleExport)

	byByte := newXMLScanner()
	for i := 0; i < len(sampleExport); i++ {
		byByte.Feed(sampleExport[i : i+1])
	}

	assert.Equal(t, whole.Entries(), byByte.Entries())

	odd := newXMLScanner()
	for i := 0; i < len(sampleExport); i += 7 {
		end := i + 7
		if end > len(sampleExport) {
			end = len(sampleExport)
		}
		odd.Feed(sampleExport[i:end])
	}
	assert.Equal(t, whole.Entries(), odd.Entries())
}

func TestXMLScanner_IgnoresNonSleepRecords(t *testing.T) {
	s := newXMLScanner()
	s.Feed(`<Record type="HKQuantityTypeIdentifierHeartRate" value="62" startDate="2024-01-15 22:00:00 +0530" endDate="2024-01-15 22:01:00 +0530"/>`)
	assert.Empty(t, s.Entries())
}

func TestXMLScanner_AttributeOrderIndependent(t *testing.T) {
	s := newXMLScanner()
	s.Feed(`<Record endDate="2024-02-01 06:30:00 +0000" value="HKCategoryValueSleepAnalysisAsleepDeep" startDate="2024-01-31 23:00:00 +0000" type="HKCategoryTypeIdentifierSleepAnalysis"/>`)
	entries := s.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "2024-01-31", entries[0].Date)
	assert.Equal(t, 450, entries[0].DurationMinutes)
}

func TestXMLScanner_TailStaysBounded(t *testing.T) {
	s := newXMLScanner()

	// Endless unterminated record text: no ">" ever arrives. The retained
	// tail must never exceed the safety threshold plus one chunk.
	chunk := strings.Repeat("x", 64*1024)
	s.Feed("<Record type=\"garbage ")
	for i := 0; i < 40; i++ {
		s.Feed(chunk)
		assert.LessOrEqual(t, s.tailLen(), maxUnterminatedTail+len(chunk)+len("<Record type=\"garbage "))
	}
	assert.Empty(t, s.Entries())
}

func TestXMLScanner_MarkerSplitAcrossChunks(t *testing.T) {
	s := newXMLScanner()
	record := `<Record type="HKCategoryTypeIdentifierSleepAnalysis" value="HKCategoryValueSleepAnalysisAsleepCore" startDate="2024-03-01 22:30:00 +0000" endDate="2024-03-02 06:00:00 +0000"/>`
	// Split in the middle of "<Record".
	s.Feed("garbage text <Rec")
	s.Feed("ord" + record[len("<Record"):])
	require.Len(t, s.Entries(), 1)
}

func TestCountableSleepValue(t *testing.T) {
	assert.True(t, countableSleepValue("HKCategoryValueSleepAnalysisAsleepREM"))
	assert.True(t, countableSleepValue("HKCategoryValueSleepAnalysisInBed"))
	assert.True(t, countableSleepValue("3"))
	assert.False(t, countableSleepValue("0"))
	assert.False(t, countableSleepValue("6"))
	assert.False(t, countableSleepValue(""))
	assert.False(t, countableSleepValue("HKCategoryValueAppleStandHourStood"))
}
