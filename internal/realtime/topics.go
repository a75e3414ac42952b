package realtime

import "fmt"

// Topic name families. One redis channel per topic; subscribers pick the
// topics they care about, a disconnected subscriber simply misses events.
func RoomMessagesTopic(roomID string) string  { return fmt.Sprintf("room:%s:messages", roomID) }
func RoomDeletionsTopic(roomID string) string { return fmt.Sprintf("room:%s:deleted", roomID) }
func UserUnreadTopic(userID uint64) string    { return fmt.Sprintf("user:%d:unread", userID) }
func SessionMessagesTopic(sessionID string) string {
	return fmt.Sprintf("session:%s:messages", sessionID)
}
func UserSessionsTopic(userID uint64) string { return fmt.Sprintf("user:%d:sessions", userID) }
func UserRephraseTopic(userID uint64) string { return fmt.Sprintf("user:%d:rephrase", userID) }

// Event types carried in Event.Type.
const (
	EventMessageCreated = "message_created"
	EventMessageDeleted = "message_deleted"
	EventUnreadDelta    = "unread_delta"
	EventSessionMessage = "session_message"
	EventSessionDeleted = "session_deleted"
	EventRephraseResult = "rephrase_result"
)
