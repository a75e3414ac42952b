package profile

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("profile: not found")

// Repo is read-only from the core's perspective; writes happen in the
// out-of-scope CRUD surface.
type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Exists(ctx context.Context, userID uint64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&User{}).Where("id = ?", userID).Count(&n).Error
	return n > 0, err
}

// GetCoachingProfile returns nil without error when the user never filled
// one in; the feedback mode falls back to the plain persona in that case.
func (r *Repo) GetCoachingProfile(ctx context.Context, userID uint64) (*CoachingProfile, error) {
	var p CoachingProfile
	err := r.db.WithContext(ctx).First(&p, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) GetScenario(ctx context.Context, scenarioID uint64) (*Scenario, error) {
	var s Scenario
	err := r.db.WithContext(ctx).First(&s, "id = ?", scenarioID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
