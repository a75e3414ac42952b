package profile

import "time"

// User is the minimal identity row this core reads. Registration and token
// issuance live elsewhere.
type User struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	DisplayName string    `gorm:"size:64;not null" json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

func (User) TableName() string { return "users" }

// CoachingProfile holds the self-reported fields the feedback persona is
// assembled from. One optional row per user.
type CoachingProfile struct {
	UserID           uint64    `gorm:"primaryKey" json:"-"`
	DisplayName      string    `gorm:"size:64" json:"display_name"`
	SelfIntroduction string    `gorm:"type:text" json:"self_introduction"`
	CommStyle        string    `gorm:"size:255" json:"comm_style"`
	Traits           string    `gorm:"size:255" json:"traits"`
	Goals            string    `gorm:"size:255" json:"goals"`
	Concerns         string    `gorm:"size:255" json:"concerns"`
	FeedbackStyle    string    `gorm:"size:255" json:"feedback_style"`
	UpdatedAt        time.Time `json:"-"`
}

func (CoachingProfile) TableName() string { return "coaching_profiles" }

// Difficulty tiers for practice scenarios.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// Scenario describes one practice roleplay: who the model plays and in
// what situation.
type Scenario struct {
	ID          uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string     `gorm:"size:128;not null" json:"name"`
	PartnerRole string     `gorm:"size:128;not null" json:"partner_role"`
	Difficulty  Difficulty `gorm:"type:varchar(16);not null" json:"difficulty"`
	Context     string     `gorm:"type:text" json:"context"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (Scenario) TableName() string { return "scenarios" }
