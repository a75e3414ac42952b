package chat

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("chat: not found")

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// CreateRoom inserts the room and both memberships in one transaction.
func (r *Repo) CreateRoom(ctx context.Context, userA, userB uint64) (*Room, error) {
	room := &Room{ID: uuid.NewString()}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(room).Error; err != nil {
			return err
		}
		members := []Membership{
			{RoomID: room.ID, UserID: userA},
			{RoomID: room.ID, UserID: userB},
		}
		return tx.Create(&members).Error
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

func (r *Repo) GetRoom(ctx context.Context, roomID string) (*Room, error) {
	var room Room
	if err := r.db.WithContext(ctx).First(&room, "id = ?", roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (r *Repo) IsMember(ctx context.Context, roomID string, userID uint64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Membership{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Count(&n).Error
	return n > 0, err
}

// OtherMember resolves the peer in a two-party room.
func (r *Repo) OtherMember(ctx context.Context, roomID string, userID uint64) (uint64, error) {
	var m Membership
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND user_id <> ?", roomID, userID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return m.UserID, nil
}

func (r *Repo) RoomsForUser(ctx context.Context, userID uint64) ([]Room, error) {
	var rooms []Room
	err := r.db.WithContext(ctx).
		Joins("JOIN room_memberships ON room_memberships.room_id = rooms.id").
		Where("room_memberships.user_id = ?", userID).
		Order("rooms.created_at DESC").
		Find(&rooms).Error
	return rooms, err
}

// RoomExistsBetween reports whether the two users already share a room.
func (r *Repo) RoomExistsBetween(ctx context.Context, userA, userB uint64) (string, bool, error) {
	var m Membership
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND room_id IN (?)", userA,
			r.db.Model(&Membership{}).Select("room_id").Where("user_id = ?", userB)).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return m.RoomID, true, nil
}

// IncrementUnread is a single atomic upsert: concurrent senders to the same
// idle recipient must both be counted, so the add happens in SQL, never as
// read-then-write from Go.
func (r *Repo) IncrementUnread(ctx context.Context, userID uint64, roomID string) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "room_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"count":      gorm.Expr("count + 1"),
			"updated_at": time.Now(),
		}),
	}).Create(&UnreadCounter{UserID: userID, RoomID: roomID, Count: 1}).Error
}

// ResetUnread zeroes an existing row; no row means nothing to do.
func (r *Repo) ResetUnread(ctx context.Context, userID uint64, roomID string) error {
	return r.db.WithContext(ctx).Model(&UnreadCounter{}).
		Where("user_id = ? AND room_id = ?", userID, roomID).
		Update("count", 0).Error
}

// GetUnread returns the current count; a missing row reads as zero.
func (r *Repo) GetUnread(ctx context.Context, userID uint64, roomID string) (int64, error) {
	var c UnreadCounter
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND room_id = ?", userID, roomID).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return c.Count, nil
}

// BulkGetUnread maps roomID -> count for the list view. Rooms without a
// row are simply absent and imply zero.
func (r *Repo) BulkGetUnread(ctx context.Context, userID uint64, roomIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(roomIDs))
	if len(roomIDs) == 0 {
		return out, nil
	}
	var rows []UnreadCounter
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND room_id IN ?", userID, roomIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.RoomID] = row.Count
	}
	return out, nil
}
