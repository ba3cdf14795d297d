package pipeline

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edupulse/pkg/contracts/domain"
)

// scenarioRecords mirrors the worked three-row scenario: S1 with one
// high-risk dropped course and one clean completed course, plus a clean
// in-progress S2.
func scenarioRecords() []domain.StudentRecord {
	return []domain.StudentRecord{
		{
			StudentID: "S1", Program: "CS", AdvisorID: "A1", EnrollmentDate: "2024-01-10",
			CompletionStatus: "Dropped",
			GPAAtTime:        1.8, AttendanceRate: 0.5,
			SupportTicketCount: 6, AdvisorMeetingCount: 0,
			CreditsEarned: 5, TotalCreditsRequired: 50,
		},
		{
			StudentID: "S1", Program: "CS", AdvisorID: "A1", EnrollmentDate: "2024-01-10",
			CompletionStatus: "Completed",
			GPAAtTime:        3.6, AttendanceRate: 0.95,
			SupportTicketCount: 0, AdvisorMeetingCount: 3,
			CreditsEarned: 45, TotalCreditsRequired: 50,
		},
		{
			StudentID: "S2", Program: "Math", AdvisorID: "A2", EnrollmentDate: "2024-02-05",
			CompletionStatus: "In Progress",
			GPAAtTime:        3.0, AttendanceRate: 0.9,
			SupportTicketCount: 1, AdvisorMeetingCount: 2,
			CreditsEarned: 30, TotalCreditsRequired: 40,
		},
	}
}

func TestProcessScenario(t *testing.T) {
	p := New(nil)

	result, err := p.Process(context.Background(), scenarioRecords(), domain.DefaultFilterSpec())
	require.NoError(t, err)

	require.Len(t, result.Students, 3)
	assert.Equal(t, 2, result.Summary.TotalStudents)
	assert.Equal(t, 1, result.Summary.CompletedStudents)
	assert.InDelta(t, 50.0, result.Summary.CompletionRate, 1e-9)
	assert.InDelta(t, 50.0, result.Summary.DropoutRate, 1e-9)

	// S1's second (clean) row is processed last, so its 0.0 overwrites
	// the 1.0 from the first row. S2 fires no factors at all.
	require.Len(t, result.RiskScores, 2)
	assert.InDelta(t, 0.0, result.RiskScores["S1"], 1e-9)
	assert.InDelta(t, 0.0, result.RiskScores["S2"], 1e-9)
}

func TestProcessDeterminism(t *testing.T) {
	p := New(nil)
	spec := domain.FilterSpec{
		Programs:  []string{"CS", "Math"},
		DateRange: domain.DateRange{Start: "2024-01-01", End: "2024-12-31"},
		RiskLevel: domain.RiskAll,
	}

	first, err := p.Process(context.Background(), scenarioRecords(), spec)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := p.Process(context.Background(), scenarioRecords(), spec)
		require.NoError(t, err)
		assert.Equal(t, first, again, "run %d diverged", i)
	}
}

func TestProcessWildcardIdentity(t *testing.T) {
	p := New(nil)
	records := scenarioRecords()

	result, err := p.Process(context.Background(), records, domain.FilterSpec{
		Programs:  []string{},
		Advisors:  []string{},
		DateRange: domain.DateRange{},
		RiskLevel: domain.RiskAll,
	})
	require.NoError(t, err)
	assert.Equal(t, records, result.Students)
}

func TestProcessRiskBandStaging(t *testing.T) {
	p := New(nil)

	// The date filter keeps only S1's rows; both rows survive, the last
	// one scores 0.0, so S1 lands in the low band and the high band is
	// empty even though S1's first row alone would score 1.0.
	spec := domain.FilterSpec{
		Programs:  []string{"CS"},
		RiskLevel: domain.RiskHigh,
	}
	result, err := p.Process(context.Background(), scenarioRecords(), spec)
	require.NoError(t, err)
	assert.Empty(t, result.Students)
	assert.Zero(t, result.Summary.TotalStudents)

	spec.RiskLevel = domain.RiskLow
	result, err = p.Process(context.Background(), scenarioRecords(), spec)
	require.NoError(t, err)
	assert.Len(t, result.Students, 2)
	assert.Equal(t, 1, result.Summary.TotalStudents)
}

func TestProcessEmptyDataset(t *testing.T) {
	p := New(nil)

	result, err := p.Process(context.Background(), nil, domain.DefaultFilterSpec())
	require.NoError(t, err)
	assert.Empty(t, result.Students)
	assert.Zero(t, result.Summary.TotalStudents)
	assert.Zero(t, result.Summary.CompletionRate)
	assert.Zero(t, result.Summary.AverageGPA)
	assert.Empty(t, result.RiskScores)
}

func TestProcessInvalidRiskLevel(t *testing.T) {
	p := New(nil)

	_, err := p.Process(context.Background(), scenarioRecords(), domain.FilterSpec{RiskLevel: "extreme"})
	assert.Error(t, err)
}

func TestProcessConcurrentCallers(t *testing.T) {
	p := New(nil)
	records := scenarioRecords()

	baselineResult, err := p.Process(context.Background(), records, domain.DefaultFilterSpec())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := p.Process(context.Background(), scenarioRecords(), domain.DefaultFilterSpec())
			assert.NoError(t, err)
			assert.Equal(t, baselineResult, result)
		}()
	}
	wg.Wait()
}

func TestBreakdown(t *testing.T) {
	p := New(nil)

	result, err := p.Process(context.Background(), scenarioRecords(), domain.DefaultFilterSpec())
	require.NoError(t, err)

	byProgram, err := p.Breakdown(result, "program")
	require.NoError(t, err)
	require.Len(t, byProgram, 2)
	assert.Equal(t, "CS", byProgram[0].Key)
	assert.Equal(t, "Math", byProgram[1].Key)

	byAdvisor, err := p.Breakdown(result, "advisor")
	require.NoError(t, err)
	require.Len(t, byAdvisor, 2)

	_, err = p.Breakdown(result, "course")
	assert.Error(t, err)

	_, err = p.Breakdown(nil, "program")
	assert.Error(t, err)
}

func TestProfiles(t *testing.T) {
	p := New(nil)

	result, err := p.Process(context.Background(), scenarioRecords(), domain.DefaultFilterSpec())
	require.NoError(t, err)

	profiles := p.Profiles(result)
	require.Len(t, profiles, 2)
	assert.Equal(t, "S1", profiles[0].StudentID)
	assert.Equal(t, 2, profiles[0].CourseCount)
	assert.Nil(t, p.Profiles(nil))
}
