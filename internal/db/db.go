package db

import (
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/kaiwacoach/kaiwa-backend/internal/aisession"
	"github.com/kaiwacoach/kaiwa-backend/internal/analytics"
	"github.com/kaiwacoach/kaiwa-backend/internal/chat"
	"github.com/kaiwacoach/kaiwa-backend/internal/msglog"
	"github.com/kaiwacoach/kaiwa-backend/internal/notify"
	"github.com/kaiwacoach/kaiwa-backend/internal/profile"
)

func Connect(dsn string) *gorm.DB {
	gdb, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		log.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return gdb
}

// Migrate creates/updates every table the backend owns.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&chat.Room{},
		&chat.Membership{},
		&chat.UnreadCounter{},
		&msglog.ChatEntry{},
		&msglog.AIEntry{},
		&aisession.Session{},
		&analytics.AxisScore{},
		&analytics.DailyGoal{},
		&analytics.ScoreGoal{},
		&analytics.LearningReport{},
		&notify.Notification{},
		&profile.User{},
		&profile.CoachingProfile{},
		&profile.Scenario{},
	)
}
