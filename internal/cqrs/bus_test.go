package cqrs

import (
	"context"
	"testing"
	"time"

	wmcqrs "github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danghamo/lecturer-service/internal/domain/lecturer"
	"github.com/danghamo/lecturer-service/pkg/logger"
)

func newTestBus(t *testing.T) *Bus {
	log := logger.NewNop()
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, NewWatermillLogger(log))
	t.Cleanup(func() { _ = pubSub.Close() })

	bus, err := NewBus(pubSub, pubSub, BusConfig{TopicPrefix: "lecturer-test"}, log)
	require.NoError(t, err)
	return bus
}

func runBus(t *testing.T, bus *Bus) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		_ = bus.Close()
	})

	go func() { _ = bus.Run(ctx) }()

	select {
	case <-bus.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("event router did not start")
	}
}

func TestBus_DeliversLecturerEvents(t *testing.T) {
	bus := newTestBus(t)

	saved := make(chan *LecturerSavedEvent, 1)
	deleted := make(chan *LecturerDeletedEvent, 1)

	require.NoError(t, bus.AddHandlers(
		wmcqrs.NewEventHandler("TestSavedHandler", func(ctx context.Context, event *LecturerSavedEvent) error {
			saved <- event
			return nil
		}),
		wmcqrs.NewEventHandler("TestDeletedHandler", func(ctx context.Context, event *LecturerDeletedEvent) error {
			deleted <- event
			return nil
		}),
	))
	runBus(t, bus)

	ctx := context.Background()
	original := &lecturer.Lecturer{ID: "lec-1", Name: "Ada", Courses: []string{"CS101"}}
	require.NoError(t, bus.Publish(ctx, NewLecturerSavedEvent(original)))
	require.NoError(t, bus.Publish(ctx, NewLecturerDeletedEvent("lec-1")))

	select {
	case event := <-saved:
		assert.Equal(t, "lec-1", event.LecturerID)
		assert.True(t, original.Equal(event.Lecturer))
		assert.NotEmpty(t, event.RequestID)
	case <-time.After(5 * time.Second):
		t.Fatal("saved event not delivered")
	}

	select {
	case event := <-deleted:
		assert.Equal(t, "lec-1", event.LecturerID)
	case <-time.After(5 * time.Second):
		t.Fatal("deleted event not delivered")
	}
}

func TestBusConfig_Topic(t *testing.T) {
	assert.Equal(t, "lecturer.LecturerSavedEvent", BusConfig{TopicPrefix: "lecturer"}.topic("LecturerSavedEvent"))
}

func TestNewLecturerSavedEvent_Snapshots(t *testing.T) {
	original := &lecturer.Lecturer{ID: "lec-1", Courses: []string{"CS101"}}

	event := NewLecturerSavedEvent(original)
	original.Courses[0] = "changed"

	assert.Equal(t, "CS101", event.Lecturer.Courses[0])
	assert.WithinDuration(t, time.Now(), event.Timestamp, time.Second)
}
