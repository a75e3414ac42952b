package aisession

import (
	"time"
)

// Mode is the closed set of conversation modes a session runs in.
type Mode string

const (
	ModeNormal   Mode = "normal"
	ModeFeedback Mode = "feedback"
	ModePractice Mode = "practice"
)

func (m Mode) Valid() bool {
	switch m {
	case ModeNormal, ModeFeedback, ModePractice:
		return true
	}
	return false
}

// Session is one AI conversation. Lookups are always scoped by
// (id, owner); a foreign owner's session reads as not found.
type Session struct {
	ID         string    `gorm:"primaryKey;size:26" json:"session_id"`
	UserID     uint64    `gorm:"index;not null" json:"-"`
	Mode       Mode      `gorm:"type:varchar(16);not null" json:"mode"`
	Title      string    `gorm:"size:128;not null" json:"title"`
	SceneTag   string    `gorm:"size:64" json:"scene_tag,omitempty"`
	ScenarioID *uint64   `gorm:"index" json:"scenario_id,omitempty"`
	RoomID     *string   `gorm:"size:36" json:"room_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Session) TableName() string { return "ai_sessions" }
