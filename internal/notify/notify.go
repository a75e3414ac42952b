// Package notify carries notification events out of the core and into the
// external notification store.
package notify

import (
	"context"
	"time"
)

const TypeGoalAchieved = "goal_achieved"

// Notification is the stored row shape; listing and read-state live in the
// out-of-scope notification surface.
type Notification struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint64    `gorm:"index;not null" json:"user_id"`
	Type      string    `gorm:"size:32;not null" json:"type"`
	Title     string    `gorm:"size:128;not null" json:"title"`
	Message   string    `gorm:"type:text" json:"message"`
	RelatedID string    `gorm:"size:64" json:"related_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }

// Event is the queue payload between publisher and worker.
type Event struct {
	UserID    uint64 `json:"user_id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	RelatedID string `json:"related_id"`
}

// Notifier is the fire-to-external-store contract the analytics core uses.
type Notifier interface {
	Create(ctx context.Context, userID uint64, typ, title, message, relatedID string) error
}
