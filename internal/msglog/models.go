package msglog

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// Role discriminates who produced a log entry. Closed set; anything else is
// rejected at the boundary.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Entry is one append-only log record. CreatedAt is the partition's sort
// key; ID is a ULID so ties on CreatedAt still order by insertion.
type Entry struct {
	ID           string    `gorm:"primaryKey;size:26" json:"id"`
	PartitionKey string    `gorm:"size:64;not null;index:idx_partition_created,priority:1" json:"partition_key"`
	SenderID     uint64    `gorm:"not null;index" json:"sender_id"`
	Role         Role      `gorm:"type:varchar(16);not null" json:"role"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	CreatedAt    time.Time `gorm:"not null;index:idx_partition_created,priority:2" json:"created_at"`
}

// ChatEntry lives in the chat partition table (keyed by room id).
type ChatEntry struct{ Entry }

func (ChatEntry) TableName() string { return "chat_messages" }

// AIEntry lives in the AI partition table (keyed by session id).
type AIEntry struct{ Entry }

func (AIEntry) TableName() string { return "ai_messages" }

// NewID returns a fresh ULID string.
func NewID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}
