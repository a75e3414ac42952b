package analytics

import "time"

// DateLayout is the canonical day key for daily goals.
const DateLayout = "2006-01-02"

// AxisScore is one evaluated rubric axis for one practice session. Not
// unique-constrained: repeated extraction appends rather than replaces.
type AxisScore struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID string    `gorm:"size:26;index;not null" json:"session_id"`
	UserID    uint64    `gorm:"index;not null" json:"-"`
	Axis      string    `gorm:"size:64;not null" json:"axis"`
	Score     int       `gorm:"not null" json:"score"`
	Comment   string    `gorm:"type:text" json:"comment"`
	SceneTag  string    `gorm:"size:64" json:"scene_tag"`
	CreatedAt time.Time `json:"created_at"`
}

func (AxisScore) TableName() string { return "axis_scores" }

// DailyGoal counts qualifying practice activity per (user, day). Created
// lazily with the configured default target.
type DailyGoal struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID    uint64    `gorm:"not null;uniqueIndex:uniq_daily_goal,priority:1" json:"-"`
	Date      string    `gorm:"size:10;not null;uniqueIndex:uniq_daily_goal,priority:2" json:"date"`
	Target    int       `gorm:"not null" json:"target"`
	Completed int       `gorm:"not null;default:0" json:"completed"`
	UpdatedAt time.Time `json:"-"`
}

func (DailyGoal) TableName() string { return "daily_goals" }

// ScoreGoal is the single target-average row per user.
type ScoreGoal struct {
	UserID    uint64    `gorm:"primaryKey" json:"-"`
	Target    float64   `gorm:"not null" json:"target"`
	UpdatedAt time.Time `json:"-"`
}

func (ScoreGoal) TableName() string { return "score_goals" }

// LearningReport is the monthly aggregate, recomputed with overwrite
// semantics per (user, year, month).
type LearningReport struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID        uint64    `gorm:"not null;uniqueIndex:uniq_report,priority:1" json:"-"`
	Year          int       `gorm:"not null;uniqueIndex:uniq_report,priority:2" json:"year"`
	Month         int       `gorm:"not null;uniqueIndex:uniq_report,priority:3" json:"month"`
	TotalSessions int       `gorm:"not null" json:"total_sessions"`
	AverageScore  float64   `gorm:"not null" json:"average_score"`
	PracticeDays  int       `gorm:"not null" json:"practice_days"`
	BestAxis      *string   `gorm:"size:64" json:"best_axis"`
	WorstAxis     *string   `gorm:"size:64" json:"worst_axis"`
	ScoreDelta    *float64  `json:"score_delta"`
	UpdatedAt     time.Time `json:"-"`
}

func (LearningReport) TableName() string { return "learning_reports" }

// StreakResult is the daily-streak walk output.
type StreakResult struct {
	CurrentStreak     int `json:"current_streak"`
	LongestStreak     int `json:"longest_streak"`
	TotalAchievedDays int `json:"total_achieved_days"`
}

// Recommendation ranks one scenario by the user's historical weakness.
type Recommendation struct {
	ScenarioID   uint64  `json:"scenario_id"`
	ScenarioName string  `json:"scenario_name"`
	AverageScore float64 `json:"average_score"`
	SessionCount int     `json:"session_count"`
}
