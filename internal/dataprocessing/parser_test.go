package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHeader = "student_id,program,enrollment_date,completion_status,attendance_rate,gpa_at_time,advisor_id,advisor_meeting_count,support_ticket_count,credits_earned,total_credits_required"

func TestParseRecords(t *testing.T) {
	raw := sampleHeader + "\n" +
		"S1,CS,2024-01-15,Completed,0.92,3.4,A1,3,1,30,40\n" +
		"S2,Math,2024-02-01,Dropped,0.55,1.9,A2,0,6,5,50\n"

	records := ParseRecords(raw, ',')
	require.Len(t, records, 2)

	assert.Equal(t, "S1", records[0].StudentID)
	assert.Equal(t, "CS", records[0].Program)
	assert.Equal(t, "2024-01-15", records[0].EnrollmentDate)
	assert.Equal(t, "Completed", records[0].CompletionStatus)
	assert.InDelta(t, 0.92, records[0].AttendanceRate, 1e-9)
	assert.InDelta(t, 3.4, records[0].GPAAtTime, 1e-9)
	assert.Equal(t, "A1", records[0].AdvisorID)
	assert.InDelta(t, 3, records[0].AdvisorMeetingCount, 1e-9)
	assert.InDelta(t, 40, records[0].TotalCreditsRequired, 1e-9)

	assert.Equal(t, "S2", records[1].StudentID)
	assert.InDelta(t, 6, records[1].SupportTicketCount, 1e-9)
}

func TestParseRecordsHeaderOrderIndependent(t *testing.T) {
	raw := "gpa_at_time,student_id,program\n3.1,S1,CS\n"

	records := ParseRecords(raw, ',')
	require.Len(t, records, 1)
	assert.Equal(t, "S1", records[0].StudentID)
	assert.Equal(t, "CS", records[0].Program)
	assert.InDelta(t, 3.1, records[0].GPAAtTime, 1e-9)
}

func TestParseRecordsLeniency(t *testing.T) {
	t.Run("unparsable numerics default to zero", func(t *testing.T) {
		raw := "student_id,gpa_at_time,attendance_rate\nS1,not-a-number,high\n"
		records := ParseRecords(raw, ',')
		require.Len(t, records, 1)
		assert.Zero(t, records[0].GPAAtTime)
		assert.Zero(t, records[0].AttendanceRate)
	})

	t.Run("short rows pad missing trailing columns", func(t *testing.T) {
		raw := "student_id,program,advisor_id\nS1,CS\n"
		records := ParseRecords(raw, ',')
		require.Len(t, records, 1)
		assert.Equal(t, "CS", records[0].Program)
		assert.Empty(t, records[0].AdvisorID)
	})

	t.Run("rows without student_id are dropped", func(t *testing.T) {
		raw := "student_id,program\n,CS\nS2,Math\n\n"
		records := ParseRecords(raw, ',')
		require.Len(t, records, 1)
		assert.Equal(t, "S2", records[0].StudentID)
	})

	t.Run("quoted values are stripped", func(t *testing.T) {
		raw := "student_id,program\n\"S1\",\"Computer Science\"\n"
		records := ParseRecords(raw, ',')
		require.Len(t, records, 1)
		assert.Equal(t, "S1", records[0].StudentID)
		assert.Equal(t, "Computer Science", records[0].Program)
	})

	t.Run("windows line endings", func(t *testing.T) {
		raw := "student_id,program\r\nS1,CS\r\n"
		records := ParseRecords(raw, ',')
		require.Len(t, records, 1)
	})

	t.Run("header only", func(t *testing.T) {
		assert.Empty(t, ParseRecords(sampleHeader, ','))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, ParseRecords("", ','))
	})
}

// A delimiter inside a quoted value shifts every following column. The
// naive split is a documented limitation, so the test pins the corrupted
// alignment rather than the "correct" CSV interpretation.
func TestParseRecordsNaiveSplit(t *testing.T) {
	raw := "student_id,program,advisor_id\nS1,\"Arts, Humanities\",A1\n"
	records := ParseRecords(raw, ',')
	require.Len(t, records, 1)
	assert.Equal(t, "Arts", records[0].Program)
	assert.Equal(t, "Humanities", records[0].AdvisorID)
}

func TestParseRecordsSemicolonDelimiter(t *testing.T) {
	raw := "student_id;program\nS1;CS\n"
	records := ParseRecords(raw, ';')
	require.Len(t, records, 1)
	assert.Equal(t, "CS", records[0].Program)
}

func TestNumericField(t *testing.T) {
	assert.True(t, NumericField("gpa_at_time"))
	assert.True(t, NumericField("ATTENDANCE_RATE"))
	assert.False(t, NumericField("program"))
}
