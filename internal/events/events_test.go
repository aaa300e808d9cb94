package events

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_LocalDeliveryWithoutClient(t *testing.T) {
	bus := New(nil)
	defer bus.Close()

	received := make(chan Event, 2)
	require.NoError(t, bus.Subscribe(MODEL_CONFIG_CHANNEL, func(event Event) error {
		received <- event
		return nil
	}))
	require.NoError(t, bus.Subscribe(MODEL_CONFIG_CHANNEL, func(event Event) error {
		return errors.New("handler errors are logged, not returned")
	}))

	userID := uuid.New()
	require.NoError(t, bus.PublishModelEvent(MODEL_PREFERENCE_CHANGED, userID, map[string]any{
		"action": ActionSet,
	}))

	select {
	case event := <-received:
		assert.Equal(t, MODEL_PREFERENCE_CHANGED, event.Type)
		assert.Equal(t, MODEL_CONFIG_CHANNEL, event.Channel)
		require.NotNil(t, event.UserID)
		assert.Equal(t, userID, *event.UserID)
		assert.Equal(t, ActionSet, event.Data["action"])
		assert.NotEmpty(t, event.ID)
		assert.False(t, event.Timestamp.IsZero())
	case <-time.After(time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestEventBus_PublishWithoutSubscribers(t *testing.T) {
	bus := New(nil)
	defer bus.Close()

	assert.NoError(t, bus.Publish("unused", Event{Type: USER_INITIALIZED}))
}

func TestEventBus_OtherChannelsNotNotified(t *testing.T) {
	bus := New(nil)
	defer bus.Close()

	received := make(chan Event, 1)
	require.NoError(t, bus.Subscribe("other", func(event Event) error {
		received <- event
		return nil
	}))

	require.NoError(t, bus.PublishModelEvent(MODEL_CONFIG_CHANGED, uuid.New(), nil))

	select {
	case <-received:
		t.Fatal("handler on another channel was notified")
	case <-time.After(50 * time.Millisecond):
	}
}
