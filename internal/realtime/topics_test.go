package realtime

import "testing"

func TestTopicNames(t *testing.T) {
	cases := []struct {
		got  string
		want string
	}{
		{RoomMessagesTopic("abc"), "room:abc:messages"},
		{RoomDeletionsTopic("abc"), "room:abc:deleted"},
		{UserUnreadTopic(42), "user:42:unread"},
		{SessionMessagesTopic("01H"), "session:01H:messages"},
		{UserSessionsTopic(42), "user:42:sessions"},
		{UserRephraseTopic(42), "user:42:rephrase"},
	}
	for _, c := range cases {
		if c.got != c.want {
			t.Errorf("topic = %q, want %q", c.got, c.want)
		}
	}
}
