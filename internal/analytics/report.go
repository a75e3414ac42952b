package analytics

import "sort"

// buildReport aggregates one month of axis scores. Best and worst axis are
// picked by per-axis mean; when a single axis would be both, worst stays
// nil. Ties break lexicographically so the pick is deterministic.
func buildReport(userID uint64, year, month int, scores []AxisScore, prev *LearningReport) *LearningReport {
	rep := &LearningReport{UserID: userID, Year: year, Month: month}
	if len(scores) == 0 {
		if prev != nil {
			delta := 0.0 - prev.AverageScore
			rep.ScoreDelta = &delta
		}
		return rep
	}

	sessions := make(map[string]bool)
	days := make(map[string]bool)
	axisSum := make(map[string]int)
	axisCount := make(map[string]int)
	total := 0

	for _, s := range scores {
		sessions[s.SessionID] = true
		days[s.CreatedAt.UTC().Format(DateLayout)] = true
		axisSum[s.Axis] += s.Score
		axisCount[s.Axis]++
		total += s.Score
	}

	rep.TotalSessions = len(sessions)
	rep.PracticeDays = len(days)
	rep.AverageScore = float64(total) / float64(len(scores))

	axes := make([]string, 0, len(axisSum))
	for a := range axisSum {
		axes = append(axes, a)
	}
	sort.Strings(axes)

	var best, worst string
	var bestMean, worstMean float64
	for i, a := range axes {
		mean := float64(axisSum[a]) / float64(axisCount[a])
		if i == 0 || mean > bestMean {
			best, bestMean = a, mean
		}
		if i == 0 || mean < worstMean {
			worst, worstMean = a, mean
		}
	}
	rep.BestAxis = &best
	if worst != best {
		rep.WorstAxis = &worst
	}

	if prev != nil {
		delta := rep.AverageScore - prev.AverageScore
		rep.ScoreDelta = &delta
	}
	return rep
}

// rankRecommendations groups scores by scenario and returns the five
// lowest means, weakest first.
func rankRecommendations(rows []scenarioScoreRow) []Recommendation {
	type agg struct {
		name     string
		sum      int
		count    int
		sessions map[string]bool
	}
	byScenario := make(map[uint64]*agg)
	order := make([]uint64, 0)

	for _, row := range rows {
		a, ok := byScenario[row.ScenarioID]
		if !ok {
			a = &agg{name: row.ScenarioName, sessions: make(map[string]bool)}
			byScenario[row.ScenarioID] = a
			order = append(order, row.ScenarioID)
		}
		a.sum += row.Score
		a.count++
		a.sessions[row.SessionID] = true
	}

	out := make([]Recommendation, 0, len(order))
	for _, id := range order {
		a := byScenario[id]
		out = append(out, Recommendation{
			ScenarioID:   id,
			ScenarioName: a.name,
			AverageScore: float64(a.sum) / float64(a.count),
			SessionCount: len(a.sessions),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AverageScore != out[j].AverageScore {
			return out[i].AverageScore < out[j].AverageScore
		}
		return out[i].ScenarioID < out[j].ScenarioID
	})

	if len(out) > 5 {
		out = out[:5]
	}
	return out
}
