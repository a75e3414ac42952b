package aisession

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("aisession: not found")

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, s *Session) error {
	return r.db.WithContext(ctx).Create(s).Error
}

// Get is always owner-scoped; someone else's session id is
// indistinguishable from a missing one.
func (r *Repo) Get(ctx context.Context, sessionID string, ownerID uint64) (*Session, error) {
	var s Session
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", sessionID, ownerID).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repo) ListForUser(ctx context.Context, ownerID uint64) ([]Session, error) {
	var out []Session
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("updated_at DESC").
		Find(&out).Error
	return out, err
}

func (r *Repo) Rename(ctx context.Context, sessionID string, ownerID uint64, title string) error {
	res := r.db.WithContext(ctx).Model(&Session{}).
		Where("id = ? AND user_id = ?", sessionID, ownerID).
		Updates(map[string]any{"title": title, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, sessionID string, ownerID uint64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", sessionID, ownerID).
		Delete(&Session{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Touch bumps updated_at so the session list orders by recent activity.
func (r *Repo) Touch(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).Model(&Session{}).
		Where("id = ?", sessionID).
		Update("updated_at", time.Now()).Error
}
