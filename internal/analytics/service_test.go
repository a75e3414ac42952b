package analytics

import (
	"context"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/kaiwacoach/kaiwa-backend/internal/aisession"
	"github.com/kaiwacoach/kaiwa-backend/internal/logger"
	"github.com/kaiwacoach/kaiwa-backend/internal/notify"
	"github.com/kaiwacoach/kaiwa-backend/internal/profile"
	"github.com/kaiwacoach/kaiwa-backend/internal/score"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(gormsqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&AxisScore{}, &DailyGoal{}, &ScoreGoal{}, &LearningReport{},
		&aisession.Session{}, &profile.Scenario{},
	)
	if err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T) (*Service, *Repo, *notify.Recorder) {
	t.Helper()
	db := openTestDB(t)
	repo := NewRepo(db)
	rec := &notify.Recorder{}
	svc := NewService(logger.NewNop(), repo, rec, 1)
	return svc, repo, rec
}

func TestRecordSessionScores_GoalAchievedOnce(t *testing.T) {
	svc, repo, rec := newTestService(t)
	ctx := context.Background()

	now := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	svc.SetClock(func() time.Time { return now })

	if err := svc.SetScoreGoal(ctx, 101, 6.0); err != nil {
		t.Fatalf("set goal: %v", err)
	}

	extracted := []score.AxisScore{
		{Axis: "明瞭さ", Score: 8, Comment: "good"},
		{Axis: "共感", Score: 6, Comment: "ok"},
	}
	if err := svc.RecordSessionScores(ctx, 101, "sess-goal-1", "面談", extracted); err != nil {
		t.Fatalf("record: %v", err)
	}

	if len(rec.Events) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(rec.Events))
	}
	ev := rec.Events[0]
	if ev.UserID != 101 || ev.Type != notify.TypeGoalAchieved || ev.RelatedID != "sess-goal-1" {
		t.Fatalf("unexpected notification: %+v", ev)
	}

	// re-extraction on the same session is a no-op: no rows, no second
	// notification, no daily double-count
	if err := svc.RecordSessionScores(ctx, 101, "sess-goal-1", "面談", extracted); err != nil {
		t.Fatalf("re-record: %v", err)
	}
	if len(rec.Events) != 1 {
		t.Fatalf("goal check re-triggered: %d notifications", len(rec.Events))
	}

	goals, err := repo.GoalsDesc(ctx, 101)
	if err != nil {
		t.Fatalf("goals: %v", err)
	}
	if len(goals) != 1 || goals[0].Completed != 1 {
		t.Fatalf("daily goal double-counted: %+v", goals)
	}
	if goals[0].Date != "2026-05-10" {
		t.Fatalf("wrong goal date: %s", goals[0].Date)
	}
}

func TestRecordSessionScores_BelowGoalOrNoGoal(t *testing.T) {
	svc, _, rec := newTestService(t)
	ctx := context.Background()

	// no goal set at all
	low := []score.AxisScore{{Axis: "a", Score: 3}}
	if err := svc.RecordSessionScores(ctx, 102, "sess-nogoal", "", low); err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(rec.Events) != 0 {
		t.Fatalf("no goal means no notification, got %d", len(rec.Events))
	}

	// goal set but not reached
	if err := svc.SetScoreGoal(ctx, 103, 9.0); err != nil {
		t.Fatalf("set goal: %v", err)
	}
	if err := svc.RecordSessionScores(ctx, 103, "sess-low", "", low); err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(rec.Events) != 0 {
		t.Fatalf("goal not reached must not notify, got %d", len(rec.Events))
	}
}

func TestRecordSessionScores_EmptyIsNoop(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.RecordSessionScores(ctx, 104, "sess-empty", "", nil); err != nil {
		t.Fatalf("record: %v", err)
	}
	has, err := repo.HasSessionScores(ctx, "sess-empty")
	if err != nil {
		t.Fatalf("has: %v", err)
	}
	if has {
		t.Fatalf("empty extraction must persist nothing")
	}
}

func TestMonthlyReport_IdempotentUpsertAndDelta(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	march := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	if err := repo.InsertScores(ctx, []AxisScore{
		{SessionID: "m1", UserID: 201, Axis: "clarity", Score: 6, CreatedAt: march},
		{SessionID: "m1", UserID: 201, Axis: "empathy", Score: 6, CreatedAt: march},
	}); err != nil {
		t.Fatalf("seed march: %v", err)
	}
	april := time.Date(2026, 4, 12, 8, 0, 0, 0, time.UTC)
	if err := repo.InsertScores(ctx, []AxisScore{
		{SessionID: "a1", UserID: 201, Axis: "clarity", Score: 9, CreatedAt: april},
		{SessionID: "a1", UserID: 201, Axis: "empathy", Score: 5, CreatedAt: april},
	}); err != nil {
		t.Fatalf("seed april: %v", err)
	}

	marchRep, err := svc.MonthlyReport(ctx, 201, 2026, 3)
	if err != nil {
		t.Fatalf("march report: %v", err)
	}
	if marchRep.AverageScore != 6.0 || marchRep.ScoreDelta != nil {
		t.Fatalf("unexpected march report: %+v", marchRep)
	}

	aprilRep, err := svc.MonthlyReport(ctx, 201, 2026, 4)
	if err != nil {
		t.Fatalf("april report: %v", err)
	}
	if aprilRep.AverageScore != 7.0 {
		t.Fatalf("april average = %v, want 7.0", aprilRep.AverageScore)
	}
	if aprilRep.ScoreDelta == nil || *aprilRep.ScoreDelta != 1.0 {
		t.Fatalf("april delta = %v, want 1.0", aprilRep.ScoreDelta)
	}
	if aprilRep.BestAxis == nil || *aprilRep.BestAxis != "clarity" {
		t.Fatalf("april best = %v, want clarity", aprilRep.BestAxis)
	}

	// recomputation overwrites, never accumulates
	if _, err := svc.MonthlyReport(ctx, 201, 2026, 4); err != nil {
		t.Fatalf("recompute: %v", err)
	}
	var count int64
	if err := repo.db.Model(&LearningReport{}).
		Where("user_id = ? AND year = ? AND month = ?", 201, 2026, 4).
		Count(&count).Error; err != nil {
		t.Fatalf("count reports: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single report row, got %d", count)
	}
}

func TestRecommendations_ViaScenarioJoin(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	scWeak := uint64(1)
	scStrong := uint64(2)
	if err := repo.db.Create(&profile.Scenario{ID: scWeak, Name: "交渉", PartnerRole: "上司", Difficulty: profile.DifficultyIntermediate}).Error; err != nil {
		t.Fatalf("seed scenario: %v", err)
	}
	if err := repo.db.Create(&profile.Scenario{ID: scStrong, Name: "雑談", PartnerRole: "同僚", Difficulty: profile.DifficultyBeginner}).Error; err != nil {
		t.Fatalf("seed scenario: %v", err)
	}

	sessions := []aisession.Session{
		{ID: "rc-1", UserID: 301, Mode: aisession.ModePractice, Title: "交渉", ScenarioID: &scWeak},
		{ID: "rc-2", UserID: 301, Mode: aisession.ModePractice, Title: "交渉", ScenarioID: &scWeak},
		{ID: "rc-3", UserID: 301, Mode: aisession.ModePractice, Title: "雑談", ScenarioID: &scStrong},
	}
	for i := range sessions {
		if err := repo.db.Create(&sessions[i]).Error; err != nil {
			t.Fatalf("seed session: %v", err)
		}
	}

	if err := repo.InsertScores(ctx, []AxisScore{
		{SessionID: "rc-1", UserID: 301, Axis: "clarity", Score: 3},
		{SessionID: "rc-2", UserID: 301, Axis: "clarity", Score: 5},
		{SessionID: "rc-3", UserID: 301, Axis: "clarity", Score: 9},
	}); err != nil {
		t.Fatalf("seed scores: %v", err)
	}

	recs, err := svc.Recommendations(ctx, 301)
	if err != nil {
		t.Fatalf("recommendations: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(recs))
	}
	if recs[0].ScenarioID != scWeak || recs[0].AverageScore != 4.0 || recs[0].SessionCount != 2 {
		t.Fatalf("weakest scenario first: %+v", recs[0])
	}
	if recs[0].ScenarioName != "交渉" {
		t.Fatalf("scenario name = %q", recs[0].ScenarioName)
	}
}

func TestStreak_ThroughService(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	now := time.Date(2026, 6, 3, 21, 0, 0, 0, time.UTC)
	svc.SetClock(func() time.Time { return now })

	for _, d := range []string{"2026-06-03", "2026-06-02", "2026-05-31"} {
		if err := repo.IncrementDailyGoal(ctx, 401, d, 1); err != nil {
			t.Fatalf("seed goal %s: %v", d, err)
		}
	}

	res, err := svc.Streak(ctx, 401)
	if err != nil {
		t.Fatalf("streak: %v", err)
	}
	if res.CurrentStreak != 2 {
		t.Fatalf("current = %d, want 2", res.CurrentStreak)
	}
	if res.TotalAchievedDays != 3 {
		t.Fatalf("total = %d, want 3", res.TotalAchievedDays)
	}
}

func TestIncrementDailyGoal_AtomicUpsert(t *testing.T) {
	_, repo, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if err := repo.IncrementDailyGoal(ctx, 402, "2026-06-01", 3); err != nil {
			t.Fatalf("increment %d: %v", i, err)
		}
	}
	goals, err := repo.GoalsDesc(ctx, 402)
	if err != nil {
		t.Fatalf("goals: %v", err)
	}
	if len(goals) != 1 {
		t.Fatalf("expected one row, got %d", len(goals))
	}
	if goals[0].Completed != 4 || goals[0].Target != 3 {
		t.Fatalf("unexpected row: %+v", goals[0])
	}
}
