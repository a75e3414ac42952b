package chat

import (
	"context"
	"errors"
	"time"

	"github.com/kaiwacoach/kaiwa-backend/internal/logger"
	"github.com/kaiwacoach/kaiwa-backend/internal/msglog"
	"github.com/kaiwacoach/kaiwa-backend/internal/realtime"
)

var ErrSameUser = errors.New("chat: room requires two distinct users")

// UserFinder is the external identity collaborator; the chat core only
// needs existence checks.
type UserFinder interface {
	Exists(ctx context.Context, userID uint64) (bool, error)
}

type Service struct {
	log     *logger.Logger
	repo    *Repo
	chatLog *msglog.Store
	channel realtime.Channel
	users   UserFinder
}

func NewService(log *logger.Logger, repo *Repo, chatLog *msglog.Store, channel realtime.Channel, users UserFinder) *Service {
	return &Service{
		log:     log.With("component", "ChatService"),
		repo:    repo,
		chatLog: chatLog,
		channel: channel,
		users:   users,
	}
}

// CreateRoom opens (or returns) the 1:1 room between the caller and peer.
func (s *Service) CreateRoom(ctx context.Context, userID, peerID uint64) (*Room, error) {
	if userID == peerID {
		return nil, ErrSameUser
	}
	exists, err := s.users.Exists(ctx, peerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}
	if roomID, ok, err := s.repo.RoomExistsBetween(ctx, userID, peerID); err != nil {
		return nil, err
	} else if ok {
		return s.repo.GetRoom(ctx, roomID)
	}
	return s.repo.CreateRoom(ctx, userID, peerID)
}

// SendMessage appends durably, counts the recipient's unread, then
// broadcasts. Broadcast failures never roll anything back.
func (s *Service) SendMessage(ctx context.Context, userID uint64, roomID, content string) (*msglog.Entry, error) {
	member, err := s.repo.IsMember(ctx, roomID, userID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrNotFound
	}
	peerID, err := s.repo.OtherMember(ctx, roomID, userID)
	if err != nil {
		return nil, err
	}

	entry, err := s.chatLog.Append(ctx, roomID, userID, msglog.RoleUser, content)
	if err != nil {
		return nil, err
	}

	// only the non-sending member's counter moves
	if err := s.repo.IncrementUnread(ctx, peerID, roomID); err != nil {
		return nil, err
	}

	s.publish(ctx, realtime.RoomMessagesTopic(roomID), realtime.Event{
		Type: realtime.EventMessageCreated,
		Data: entry,
	})
	s.publish(ctx, realtime.UserUnreadTopic(peerID), realtime.Event{
		Type: realtime.EventUnreadDelta,
		Data: UnreadDelta{RoomID: roomID, Delta: 1},
	})
	return entry, nil
}

// ListMessages is the restartable history read clients use to reconcile
// after missed broadcasts.
func (s *Service) ListMessages(ctx context.Context, userID uint64, roomID string) ([]msglog.Entry, error) {
	member, err := s.repo.IsMember(ctx, roomID, userID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrNotFound
	}
	return s.chatLog.ListByPartition(ctx, roomID)
}

// DeleteMessage tombstones one of the caller's own messages by its
// timestamp key and announces the deletion on the room topic.
func (s *Service) DeleteMessage(ctx context.Context, userID uint64, roomID, messageID string) error {
	member, err := s.repo.IsMember(ctx, roomID, userID)
	if err != nil {
		return err
	}
	if !member {
		return ErrNotFound
	}
	entry, err := s.chatLog.GetByID(ctx, roomID, messageID)
	if err != nil {
		return ErrNotFound
	}
	if entry.SenderID != userID {
		return ErrNotFound
	}
	if err := s.chatLog.DeleteAt(ctx, roomID, entry.CreatedAt); err != nil {
		return err
	}
	s.publish(ctx, realtime.RoomDeletionsTopic(roomID), realtime.Event{
		Type: realtime.EventMessageDeleted,
		Data: map[string]any{"room_id": roomID, "message_id": messageID},
	})
	return nil
}

// MarkRead resets the caller's own counter. Only the recipient may clear
// what was counted for them.
func (s *Service) MarkRead(ctx context.Context, userID uint64, roomID string) error {
	member, err := s.repo.IsMember(ctx, roomID, userID)
	if err != nil {
		return err
	}
	if !member {
		return ErrNotFound
	}
	if err := s.repo.ResetUnread(ctx, userID, roomID); err != nil {
		return err
	}
	s.publish(ctx, realtime.UserUnreadTopic(userID), realtime.Event{
		Type: realtime.EventUnreadDelta,
		Data: UnreadDelta{RoomID: roomID, Delta: 0},
	})
	return nil
}

// ListRooms assembles the room list view: peer, latest message, unread.
func (s *Service) ListRooms(ctx context.Context, userID uint64) ([]RoomSummary, error) {
	rooms, err := s.repo.RoomsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rooms))
	for _, r := range rooms {
		ids = append(ids, r.ID)
	}
	unread, err := s.repo.BulkGetUnread(ctx, userID, ids)
	if err != nil {
		return nil, err
	}

	out := make([]RoomSummary, 0, len(rooms))
	for _, r := range rooms {
		peerID, err := s.repo.OtherMember(ctx, r.ID, userID)
		if err != nil {
			return nil, err
		}
		sum := RoomSummary{Room: r, PeerID: peerID, UnreadCount: unread[r.ID]}
		if latest, err := s.chatLog.LatestByPartition(ctx, r.ID); err != nil {
			return nil, err
		} else if latest != nil {
			sum.LastMessage = &LastMessage{
				ID:        latest.ID,
				SenderID:  latest.SenderID,
				Content:   latest.Content,
				CreatedAt: latest.CreatedAt,
			}
		}
		out = append(out, sum)
	}
	return out, nil
}

// Unread returns the caller's counter for one room; zero when absent.
func (s *Service) Unread(ctx context.Context, userID uint64, roomID string) (int64, error) {
	return s.repo.GetUnread(ctx, userID, roomID)
}

func (s *Service) publish(ctx context.Context, topic string, ev realtime.Event) {
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := s.channel.Publish(pctx, topic, ev); err != nil {
		s.log.Warn("realtime publish failed", "topic", topic, "error", err)
	}
}
