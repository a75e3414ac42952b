package analytics

import (
	"testing"
	"time"
)

func mkScore(session, axis string, score int, createdAt time.Time) AxisScore {
	return AxisScore{SessionID: session, UserID: 1, Axis: axis, Score: score, CreatedAt: createdAt}
}

func TestBuildReport_BestAndWorst(t *testing.T) {
	march := time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)
	scores := []AxisScore{
		// clarity mean 8.0, empathy mean 5.0
		mkScore("s1", "clarity", 9, march),
		mkScore("s1", "empathy", 5, march),
		mkScore("s2", "clarity", 8, march.AddDate(0, 0, 1)),
		mkScore("s2", "empathy", 4, march.AddDate(0, 0, 1)),
		mkScore("s3", "clarity", 7, march.AddDate(0, 0, 1)),
		mkScore("s3", "empathy", 6, march.AddDate(0, 0, 1)),
	}

	rep := buildReport(1, 2026, 3, scores, nil)
	if rep.TotalSessions != 3 {
		t.Fatalf("sessions = %d, want 3", rep.TotalSessions)
	}
	if rep.PracticeDays != 2 {
		t.Fatalf("days = %d, want 2", rep.PracticeDays)
	}
	if rep.AverageScore != 6.5 {
		t.Fatalf("average = %v, want 6.5", rep.AverageScore)
	}
	if rep.BestAxis == nil || *rep.BestAxis != "clarity" {
		t.Fatalf("best = %v, want clarity", rep.BestAxis)
	}
	if rep.WorstAxis == nil || *rep.WorstAxis != "empathy" {
		t.Fatalf("worst = %v, want empathy", rep.WorstAxis)
	}
	if rep.ScoreDelta != nil {
		t.Fatalf("delta must be nil without a prior report, got %v", *rep.ScoreDelta)
	}
}

func TestBuildReport_SingleAxisHasNoWorst(t *testing.T) {
	march := time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)
	scores := []AxisScore{
		mkScore("s1", "clarity", 7, march),
		mkScore("s2", "clarity", 9, march),
	}

	rep := buildReport(1, 2026, 3, scores, nil)
	if rep.BestAxis == nil || *rep.BestAxis != "clarity" {
		t.Fatalf("best = %v, want clarity", rep.BestAxis)
	}
	if rep.WorstAxis != nil {
		t.Fatalf("single-axis months have no worst, got %v", *rep.WorstAxis)
	}
}

func TestBuildReport_DeltaVersusPrevious(t *testing.T) {
	april := time.Date(2026, 4, 2, 12, 0, 0, 0, time.UTC)
	scores := []AxisScore{
		mkScore("s9", "clarity", 8, april),
		mkScore("s9", "empathy", 6, april),
	}
	prev := &LearningReport{UserID: 1, Year: 2026, Month: 3, AverageScore: 6.0}

	rep := buildReport(1, 2026, 4, scores, prev)
	if rep.AverageScore != 7.0 {
		t.Fatalf("average = %v, want 7.0", rep.AverageScore)
	}
	if rep.ScoreDelta == nil || *rep.ScoreDelta != 1.0 {
		t.Fatalf("delta = %v, want 1.0", rep.ScoreDelta)
	}
}

func TestRankRecommendations_WeakestFirstCapFive(t *testing.T) {
	rows := []scenarioScoreRow{
		{ScenarioID: 1, ScenarioName: "謝罪", SessionID: "a", Score: 9},
		{ScenarioID: 2, ScenarioName: "交渉", SessionID: "b", Score: 3},
		{ScenarioID: 2, ScenarioName: "交渉", SessionID: "c", Score: 5},
		{ScenarioID: 3, ScenarioName: "雑談", SessionID: "d", Score: 6},
		{ScenarioID: 4, ScenarioName: "依頼", SessionID: "e", Score: 7},
		{ScenarioID: 5, ScenarioName: "断り", SessionID: "f", Score: 8},
		{ScenarioID: 6, ScenarioName: "報告", SessionID: "g", Score: 2},
	}

	recs := rankRecommendations(rows)
	if len(recs) != 5 {
		t.Fatalf("expected 5 recommendations, got %d", len(recs))
	}
	if recs[0].ScenarioID != 6 || recs[0].AverageScore != 2.0 {
		t.Fatalf("weakest must come first: %+v", recs[0])
	}
	if recs[1].ScenarioID != 2 || recs[1].AverageScore != 4.0 || recs[1].SessionCount != 2 {
		t.Fatalf("unexpected second pick: %+v", recs[1])
	}
	// the strongest scenario (id 1, mean 9.0) is cut by the cap
	for _, r := range recs {
		if r.ScenarioID == 1 {
			t.Fatalf("strongest scenario must be cut by the five-item cap")
		}
	}
}

func TestRankRecommendations_Empty(t *testing.T) {
	if recs := rankRecommendations(nil); len(recs) != 0 {
		t.Fatalf("expected empty, got %d", len(recs))
	}
}
