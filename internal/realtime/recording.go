package realtime

import (
	"context"
	"sync"
)

// RecordingChannel captures published events in memory. Test double shared
// by the chat and aisession packages.
type RecordingChannel struct {
	mu     sync.Mutex
	Events []TopicEvent
	Err    error // when set, Publish returns it
}

func (r *RecordingChannel) Publish(ctx context.Context, topic string, ev Event) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Events = append(r.Events, TopicEvent{Topic: topic, Event: ev})
	return nil
}

// ByTopic returns the captured events published to one topic, in order.
func (r *RecordingChannel) ByTopic(topic string) []TopicEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []TopicEvent
	for _, e := range r.Events {
		if e.Topic == topic {
			out = append(out, e)
		}
	}
	return out
}
