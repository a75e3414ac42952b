package analytics

import (
	"testing"
	"time"
)

func day(today time.Time, daysAgo int) string {
	return today.AddDate(0, 0, -daysAgo).Format(DateLayout)
}

func TestComputeStreak_SpecScenario(t *testing.T) {
	today := time.Date(2026, 3, 20, 10, 0, 0, 0, time.UTC)
	goals := []DailyGoal{
		{Date: day(today, 0), Target: 1, Completed: 1},
		{Date: day(today, 1), Target: 1, Completed: 2},
		{Date: day(today, 2), Target: 2, Completed: 1}, // not achieved
		{Date: day(today, 3), Target: 1, Completed: 1},
	}

	res := computeStreak(goals, today)
	if res.CurrentStreak != 2 {
		t.Fatalf("current = %d, want 2", res.CurrentStreak)
	}
	if res.LongestStreak != 2 {
		t.Fatalf("longest = %d, want 2", res.LongestStreak)
	}
	if res.TotalAchievedDays != 3 {
		t.Fatalf("total = %d, want 3", res.TotalAchievedDays)
	}
}

func TestComputeStreak_DateGapBreaksRun(t *testing.T) {
	today := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	// yesterday achieved, then a missing day, then three achieved days
	goals := []DailyGoal{
		{Date: day(today, 1), Target: 1, Completed: 1},
		{Date: day(today, 3), Target: 1, Completed: 1},
		{Date: day(today, 4), Target: 1, Completed: 1},
		{Date: day(today, 5), Target: 1, Completed: 1},
	}

	res := computeStreak(goals, today)
	if res.CurrentStreak != 1 {
		t.Fatalf("current = %d, want 1", res.CurrentStreak)
	}
	if res.LongestStreak != 3 {
		t.Fatalf("longest = %d, want 3", res.LongestStreak)
	}
	if res.TotalAchievedDays != 4 {
		t.Fatalf("total = %d, want 4", res.TotalAchievedDays)
	}
}

func TestComputeStreak_StartsUnachieved(t *testing.T) {
	today := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	// latest record is today but unachieved: the current streak is fixed
	// at zero immediately, the walk still finds the longest run
	goals := []DailyGoal{
		{Date: day(today, 0), Target: 2, Completed: 0},
		{Date: day(today, 1), Target: 1, Completed: 1},
		{Date: day(today, 2), Target: 1, Completed: 1},
	}

	res := computeStreak(goals, today)
	if res.CurrentStreak != 0 {
		t.Fatalf("current = %d, want 0", res.CurrentStreak)
	}
	if res.LongestStreak != 2 {
		t.Fatalf("longest = %d, want 2", res.LongestStreak)
	}
	if res.TotalAchievedDays != 2 {
		t.Fatalf("total = %d, want 2", res.TotalAchievedDays)
	}
}

func TestComputeStreak_StaleHistoryHasNoCurrent(t *testing.T) {
	today := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	// the newest record is from last week: no current streak at all
	goals := []DailyGoal{
		{Date: day(today, 7), Target: 1, Completed: 1},
		{Date: day(today, 8), Target: 1, Completed: 1},
	}

	res := computeStreak(goals, today)
	if res.CurrentStreak != 0 {
		t.Fatalf("current = %d, want 0", res.CurrentStreak)
	}
	if res.LongestStreak != 2 {
		t.Fatalf("longest = %d, want 2", res.LongestStreak)
	}
}

func TestComputeStreak_ExactTargetCounts(t *testing.T) {
	today := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	goals := []DailyGoal{
		{Date: day(today, 0), Target: 3, Completed: 3},
	}

	res := computeStreak(goals, today)
	if res.CurrentStreak != 1 || res.TotalAchievedDays != 1 {
		t.Fatalf("exactly meeting the target must count: %+v", res)
	}
}

func TestComputeStreak_Empty(t *testing.T) {
	res := computeStreak(nil, time.Now())
	if res.CurrentStreak != 0 || res.LongestStreak != 0 || res.TotalAchievedDays != 0 {
		t.Fatalf("empty history must be all zero: %+v", res)
	}
}
