package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/kaiwacoach/kaiwa-backend/internal/logger"
	"github.com/kaiwacoach/kaiwa-backend/internal/notify"
	"github.com/kaiwacoach/kaiwa-backend/internal/score"
)

type Service struct {
	log           *logger.Logger
	repo          *Repo
	notifier      notify.Notifier
	defaultTarget int
	now           func() time.Time
}

func NewService(log *logger.Logger, repo *Repo, notifier notify.Notifier, defaultDailyTarget int) *Service {
	if defaultDailyTarget <= 0 {
		defaultDailyTarget = 1
	}
	return &Service{
		log:           log.With("component", "AnalyticsService"),
		repo:          repo,
		notifier:      notifier,
		defaultTarget: defaultDailyTarget,
		now:           time.Now,
	}
}

// SetClock overrides the time source. Test hook.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// RecordSessionScores persists extracted scores, counts the practice day,
// and runs the one-shot goal check. A session that already has scores is
// left untouched so re-extraction never double-counts or re-notifies.
func (s *Service) RecordSessionScores(ctx context.Context, userID uint64, sessionID, sceneTag string, extracted []score.AxisScore) error {
	if len(extracted) == 0 {
		return nil
	}
	already, err := s.repo.HasSessionScores(ctx, sessionID)
	if err != nil {
		return err
	}
	if already {
		s.log.Debug("session scores already recorded", "session_id", sessionID)
		return nil
	}

	rows := make([]AxisScore, 0, len(extracted))
	for _, e := range extracted {
		rows = append(rows, AxisScore{
			SessionID: sessionID,
			UserID:    userID,
			Axis:      e.Axis,
			Score:     e.Score,
			Comment:   e.Comment,
			SceneTag:  sceneTag,
		})
	}
	if err := s.repo.InsertScores(ctx, rows); err != nil {
		return err
	}

	today := s.now().UTC().Format(DateLayout)
	if err := s.repo.IncrementDailyGoal(ctx, userID, today, s.defaultTarget); err != nil {
		return err
	}

	s.checkScoreGoal(ctx, userID, sessionID, score.Average(extracted))
	return nil
}

func (s *Service) checkScoreGoal(ctx context.Context, userID uint64, sessionID string, avg float64) {
	goal, err := s.repo.GetScoreGoal(ctx, userID)
	if err != nil {
		s.log.Warn("score goal lookup failed", "error", err)
		return
	}
	if goal == nil || avg < goal.Target {
		return
	}
	err = s.notifier.Create(ctx, userID,
		notify.TypeGoalAchieved,
		"目標スコア達成！",
		fmt.Sprintf("練習セッションの平均スコア %.1f が目標 %.1f に到達しました。", avg, goal.Target),
		sessionID,
	)
	if err != nil {
		// notification loss is acceptable; scores are already durable
		s.log.Warn("goal notification failed", "user_id", userID, "error", err)
	}
}

// Streak computes current/longest/total over the full goal history.
func (s *Service) Streak(ctx context.Context, userID uint64) (StreakResult, error) {
	goals, err := s.repo.GoalsDesc(ctx, userID)
	if err != nil {
		return StreakResult{}, err
	}
	return computeStreak(goals, s.now()), nil
}

// MonthlyReport recomputes and stores the report for the period, then
// returns it. Idempotent: rerunning overwrites, never accumulates.
func (s *Service) MonthlyReport(ctx context.Context, userID uint64, year, month int) (*LearningReport, error) {
	scores, err := s.repo.ScoresInMonth(ctx, userID, year, time.Month(month))
	if err != nil {
		return nil, err
	}

	prevYear, prevMonth := year, month-1
	if prevMonth == 0 {
		prevYear, prevMonth = year-1, 12
	}
	prev, err := s.repo.GetReport(ctx, userID, prevYear, prevMonth)
	if err != nil {
		return nil, err
	}

	rep := buildReport(userID, year, month, scores, prev)
	if err := s.repo.UpsertReport(ctx, rep); err != nil {
		return nil, err
	}
	return rep, nil
}

// Recommendations returns the user's five weakest scenarios.
func (s *Service) Recommendations(ctx context.Context, userID uint64) ([]Recommendation, error) {
	rows, err := s.repo.ScenarioScores(ctx, userID)
	if err != nil {
		return nil, err
	}
	return rankRecommendations(rows), nil
}

func (s *Service) SetScoreGoal(ctx context.Context, userID uint64, target float64) error {
	return s.repo.UpsertScoreGoal(ctx, userID, target)
}

func (s *Service) GetScoreGoal(ctx context.Context, userID uint64) (*ScoreGoal, error) {
	return s.repo.GetScoreGoal(ctx, userID)
}
