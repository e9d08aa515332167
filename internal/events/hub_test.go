package events

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHub_PublishReachesExactTopicOnly(t *testing.T) {
	hub := NewHub(zap.NewNop())

	subA := NewChannelSubscriber("a", 8)
	subB := NewChannelSubscriber("b", 8)
	hub.Subscribe("projects/5/tasks", subA)
	hub.Subscribe("projects/6/tasks", subB)

	hub.Publish("projects/5/tasks", NewChangeEvent("projects/5/tasks", ChangeCreated, nil))

	require.Len(t, subA.Events(), 1)
	require.Len(t, subB.Events(), 0)
}

func TestHub_PerTopicFIFO(t *testing.T) {
	hub := NewHub(zap.NewNop())

	sub := NewChannelSubscriber("a", 16)
	hub.Subscribe("tasks", sub)

	for i := 0; i < 10; i++ {
		hub.Publish("tasks", NewChangeEvent("tasks", ChangeUpdated, i))
	}

	for i := 0; i < 10; i++ {
		event := <-sub.Events()
		require.Equal(t, i, event.Payload)
	}
}

func TestHub_UnsubscribeStopsDelivery(t *testing.T) {
	hub := NewHub(zap.NewNop())

	sub := NewChannelSubscriber("a", 8)
	hub.Subscribe("tasks", sub)
	hub.Unsubscribe("tasks", sub)

	hub.Publish("tasks", NewChangeEvent("tasks", ChangeCreated, nil))

	require.Len(t, sub.Events(), 0)
	require.Equal(t, 0, hub.SubscriberCount("tasks"))
}

func TestHub_DuplicateSubscribeIsIdempotent(t *testing.T) {
	hub := NewHub(zap.NewNop())

	sub := NewChannelSubscriber("a", 8)
	hub.Subscribe("tasks", sub)
	hub.Subscribe("tasks", sub)

	hub.Publish("tasks", NewChangeEvent("tasks", ChangeCreated, nil))

	require.Len(t, sub.Events(), 1)
}

func TestHub_BackloggedSubscriberIsDropped(t *testing.T) {
	hub := NewHub(zap.NewNop())

	sub := NewChannelSubscriber("slow", 1)
	hub.Subscribe("tasks", sub)

	hub.Publish("tasks", NewChangeEvent("tasks", ChangeCreated, 1))
	hub.Publish("tasks", NewChangeEvent("tasks", ChangeCreated, 2))

	// the second publish overflowed the buffer and evicted the subscriber
	require.Equal(t, 0, hub.SubscriberCount("tasks"))
	require.Len(t, sub.Events(), 1)
}

func TestHub_PublishToUnknownTopicIsNoop(t *testing.T) {
	hub := NewHub(zap.NewNop())
	hub.Publish("nobody/listens", NewChangeEvent("nobody/listens", ChangeDeleted, nil))
}

func TestHub_ConcurrentSubscribePublish(t *testing.T) {
	hub := NewHub(zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			sub := NewChannelSubscriber(fmt.Sprintf("sub-%d", i), 64)
			hub.Subscribe("tasks", sub)
			hub.Unsubscribe("tasks", sub)
		}(i)
		go func() {
			defer wg.Done()
			hub.Publish("tasks", NewChangeEvent("tasks", ChangeUpdated, nil))
		}()
	}
	wg.Wait()
}

func TestHub_CloseRejectsNewSubscribers(t *testing.T) {
	hub := NewHub(zap.NewNop())
	hub.Close()

	sub := NewChannelSubscriber("late", 8)
	hub.Subscribe("tasks", sub)
	require.Equal(t, 0, hub.SubscriberCount("tasks"))
}

func TestProjectTasksTopic(t *testing.T) {
	require.Equal(t, "projects/42/tasks", ProjectTasksTopic(42))
}
