package msglog

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Store is the append-only message log. One implementation serves both
// physical partitions (chat by room id, AI by session id); the namespace
// only selects the backing table.
type Store struct {
	db    *gorm.DB
	table string
}

func NewChatLog(db *gorm.DB) *Store {
	return &Store{db: db, table: ChatEntry{}.TableName()}
}

func NewAILog(db *gorm.DB) *Store {
	return &Store{db: db, table: AIEntry{}.TableName()}
}

// Append assigns the server-side creation timestamp used as the partition's
// ordering key and writes the entry durably. Callers broadcast only after
// Append returns.
func (s *Store) Append(ctx context.Context, partitionKey string, senderID uint64, role Role, content string) (*Entry, error) {
	if !role.Valid() {
		return nil, errors.New("msglog: invalid role")
	}
	e := &Entry{
		ID:           NewID(),
		PartitionKey: partitionKey,
		SenderID:     senderID,
		Role:         role,
		Content:      content,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Table(s.table).Create(e).Error; err != nil {
		return nil, err
	}
	return e, nil
}

// ListByPartition returns the full partition in ascending creation order.
// Pure read: no cursor state, identical results across calls absent writes.
func (s *Store) ListByPartition(ctx context.Context, partitionKey string) ([]Entry, error) {
	var out []Entry
	err := s.db.WithContext(ctx).Table(s.table).
		Where("partition_key = ?", partitionKey).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// LatestByPartition returns the most recent entry, or nil when the
// partition is empty.
func (s *Store) LatestByPartition(ctx context.Context, partitionKey string) (*Entry, error) {
	var e Entry
	err := s.db.WithContext(ctx).Table(s.table).
		Where("partition_key = ?", partitionKey).
		Order("created_at DESC, id DESC").
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Store) CountByPartition(ctx context.Context, partitionKey string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Table(s.table).
		Where("partition_key = ?", partitionKey).
		Count(&n).Error
	return n, err
}

// DeleteAt removes exactly one entry identified by its timestamp key.
// Resolving the id first keeps the delete single-row on every dialect.
func (s *Store) DeleteAt(ctx context.Context, partitionKey string, createdAt time.Time) error {
	var e Entry
	err := s.db.WithContext(ctx).Table(s.table).
		Where("partition_key = ? AND created_at = ?", partitionKey, createdAt).
		Order("id ASC").
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return gorm.ErrRecordNotFound
	}
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Table(s.table).
		Where("id = ?", e.ID).
		Delete(&Entry{}).Error
}

// DeleteByID removes one entry by identity, scoped to its partition.
func (s *Store) DeleteByID(ctx context.Context, partitionKey, id string) error {
	res := s.db.WithContext(ctx).Table(s.table).
		Where("partition_key = ? AND id = ?", partitionKey, id).
		Delete(&Entry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetByID fetches one entry scoped to its partition.
func (s *Store) GetByID(ctx context.Context, partitionKey, id string) (*Entry, error) {
	var e Entry
	err := s.db.WithContext(ctx).Table(s.table).
		Where("partition_key = ? AND id = ?", partitionKey, id).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// DeletePartition drops every entry under the key. Used when a session is
// deleted and its messages cascade.
func (s *Store) DeletePartition(ctx context.Context, partitionKey string) error {
	return s.db.WithContext(ctx).Table(s.table).
		Where("partition_key = ?", partitionKey).
		Delete(&Entry{}).Error
}
