package notify

import (
	"context"
	"sync"

	"gorm.io/gorm"
)

// Store is the notification table the worker writes into. It also
// satisfies Notifier directly for single-process deployments and tests.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Insert(ctx context.Context, ev Event) error {
	return s.db.WithContext(ctx).Create(&Notification{
		UserID:    ev.UserID,
		Type:      ev.Type,
		Title:     ev.Title,
		Message:   ev.Message,
		RelatedID: ev.RelatedID,
	}).Error
}

func (s *Store) Create(ctx context.Context, userID uint64, typ, title, message, relatedID string) error {
	return s.Insert(ctx, Event{
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		RelatedID: relatedID,
	})
}

// Recorder captures Create calls in memory. Test double.
type Recorder struct {
	mu     sync.Mutex
	Events []Event
}

func (r *Recorder) Create(ctx context.Context, userID uint64, typ, title, message, relatedID string) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, Event{
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		RelatedID: relatedID,
	})
	return nil
}
