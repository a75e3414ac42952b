package analytics

import "time"

// computeStreak walks the newest-first goal history once. A day is
// achieved iff completed >= target. The current streak is the leading run,
// and it only counts when it starts on today or yesterday; a date gap or
// an unachieved day closes whichever run is active. The rest of the walk
// exists purely to find the longest historical run.
func computeStreak(goals []DailyGoal, today time.Time) StreakResult {
	var res StreakResult

	today = truncateDay(today)
	yesterday := today.AddDate(0, 0, -1)

	run := 0
	leadingRun := 0
	leadingFixed := false
	var prev time.Time

	for i, g := range goals {
		d, err := time.ParseInLocation(DateLayout, g.Date, time.UTC)
		if err != nil {
			continue
		}
		achieved := g.Completed >= g.Target
		if achieved {
			res.TotalAchievedDays++
		}

		gap := i > 0 && !d.Equal(prev.AddDate(0, 0, -1))
		if gap || !achieved {
			if run > res.LongestStreak {
				res.LongestStreak = run
			}
			if !leadingFixed {
				leadingRun = run
				leadingFixed = true
			}
			run = 0
		}
		if achieved {
			run++
		}
		prev = d
	}

	if run > res.LongestStreak {
		res.LongestStreak = run
	}
	if !leadingFixed {
		leadingRun = run
	}

	if len(goals) > 0 {
		first, err := time.ParseInLocation(DateLayout, goals[0].Date, time.UTC)
		if err == nil && (first.Equal(today) || first.Equal(yesterday)) {
			res.CurrentStreak = leadingRun
		}
	}
	return res
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
