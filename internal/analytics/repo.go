package analytics

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) InsertScores(ctx context.Context, scores []AxisScore) error {
	if len(scores) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&scores).Error
}

// HasSessionScores gates the one-shot goal check: re-extraction on a
// session that already has rows must not re-trigger it.
func (r *Repo) HasSessionScores(ctx context.Context, sessionID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&AxisScore{}).
		Where("session_id = ?", sessionID).
		Count(&n).Error
	return n > 0, err
}

// ScoresInMonth returns the user's axis scores created in the given
// calendar month.
func (r *Repo) ScoresInMonth(ctx context.Context, userID uint64, year int, month time.Month) ([]AxisScore, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	var out []AxisScore
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, start, end).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}

// IncrementDailyGoal bumps today's completed count, creating the row with
// the default target on first activity. Atomic upsert, same shape as the
// unread counter.
func (r *Repo) IncrementDailyGoal(ctx context.Context, userID uint64, date string, defaultTarget int) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]any{
			"completed":  gorm.Expr("completed + 1"),
			"updated_at": time.Now(),
		}),
	}).Create(&DailyGoal{
		UserID:    userID,
		Date:      date,
		Target:    defaultTarget,
		Completed: 1,
	}).Error
}

// SetDailyTarget upserts the target for one day without touching the
// completed count.
func (r *Repo) SetDailyTarget(ctx context.Context, userID uint64, date string, target int) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]any{
			"target":     target,
			"updated_at": time.Now(),
		}),
	}).Create(&DailyGoal{
		UserID: userID,
		Date:   date,
		Target: target,
	}).Error
}

// GoalsDesc returns all daily goals newest-first, the walk order the
// streak computation expects.
func (r *Repo) GoalsDesc(ctx context.Context, userID uint64) ([]DailyGoal, error) {
	var out []DailyGoal
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Find(&out).Error
	return out, err
}

func (r *Repo) UpsertScoreGoal(ctx context.Context, userID uint64, target float64) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"target":     target,
			"updated_at": time.Now(),
		}),
	}).Create(&ScoreGoal{UserID: userID, Target: target}).Error
}

// GetScoreGoal returns nil without error when the user never set one.
func (r *Repo) GetScoreGoal(ctx context.Context, userID uint64) (*ScoreGoal, error) {
	var g ScoreGoal
	err := r.db.WithContext(ctx).First(&g, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// UpsertReport overwrites the stored report for the period.
func (r *Repo) UpsertReport(ctx context.Context, rep *LearningReport) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "year"}, {Name: "month"}},
		DoUpdates: clause.Assignments(map[string]any{
			"total_sessions": rep.TotalSessions,
			"average_score":  rep.AverageScore,
			"practice_days":  rep.PracticeDays,
			"best_axis":      rep.BestAxis,
			"worst_axis":     rep.WorstAxis,
			"score_delta":    rep.ScoreDelta,
			"updated_at":     time.Now(),
		}),
	}).Create(rep).Error
}

func (r *Repo) GetReport(ctx context.Context, userID uint64, year, month int) (*LearningReport, error) {
	var rep LearningReport
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND year = ? AND month = ?", userID, year, month).
		First(&rep).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

// scenarioScoreRow joins axis scores to the owning session's scenario.
type scenarioScoreRow struct {
	ScenarioID   uint64
	ScenarioName string
	SessionID    string
	Score        int
}

// ScenarioScores fetches every practice score with its originating
// scenario. Sessions without a scenario reference are excluded.
func (r *Repo) ScenarioScores(ctx context.Context, userID uint64) ([]scenarioScoreRow, error) {
	var rows []scenarioScoreRow
	err := r.db.WithContext(ctx).Table("axis_scores").
		Select("ai_sessions.scenario_id AS scenario_id, scenarios.name AS scenario_name, axis_scores.session_id AS session_id, axis_scores.score AS score").
		Joins("JOIN ai_sessions ON ai_sessions.id = axis_scores.session_id").
		Joins("JOIN scenarios ON scenarios.id = ai_sessions.scenario_id").
		Where("axis_scores.user_id = ? AND ai_sessions.scenario_id IS NOT NULL", userID).
		Scan(&rows).Error
	return rows, err
}
