package chat

import "time"

// Room is a two-party chat room. Immutable once created; exactly two
// distinct memberships exist for it.
type Room struct {
	ID        string    `gorm:"primaryKey;size:36" json:"room_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Room) TableName() string { return "rooms" }

// Membership binds one user to one room. Created with the room, deleted
// only with it.
type Membership struct {
	RoomID    string    `gorm:"primaryKey;size:36" json:"room_id"`
	UserID    uint64    `gorm:"primaryKey;index" json:"user_id"`
	CreatedAt time.Time `json:"-"`
}

func (Membership) TableName() string { return "room_memberships" }

// UnreadCounter tracks unread chat messages per (user, room). Rows are
// created lazily on first increment and never go negative.
type UnreadCounter struct {
	UserID    uint64    `gorm:"primaryKey" json:"-"`
	RoomID    string    `gorm:"primaryKey;size:36" json:"room_id"`
	Count     int64     `gorm:"not null;default:0" json:"count"`
	UpdatedAt time.Time `json:"-"`
}

func (UnreadCounter) TableName() string { return "unread_counters" }

// UnreadDelta is the payload broadcast on the per-user unread topic.
// Delta 0 signals a reset by the user's own mark-read action.
type UnreadDelta struct {
	RoomID string `json:"room_id"`
	Delta  int64  `json:"delta"`
}

// RoomSummary is the list-view shape: room plus last message and the
// caller's unread count.
type RoomSummary struct {
	Room        Room         `json:"room"`
	PeerID      uint64       `json:"peer_id"`
	LastMessage *LastMessage `json:"last_message,omitempty"`
	UnreadCount int64        `json:"unread_count"`
}

type LastMessage struct {
	ID        string    `json:"id"`
	SenderID  uint64    `json:"sender_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
