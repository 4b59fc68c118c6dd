package kafka

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cartPayload struct {
	SessionID string `json:"session_id"`
	ItemCount int    `json:"item_count"`
}

func TestNewEvent(t *testing.T) {
	event, err := NewEvent("storefront.cart.updated", "sess-1", "cart", "storefront-service", cartPayload{
		SessionID: "sess-1",
		ItemCount: 2,
	})

	require.NoError(t, err)
	_, parseErr := uuid.Parse(event.EventID)
	assert.NoError(t, parseErr)
	assert.Equal(t, "storefront.cart.updated", event.EventType)
	assert.Equal(t, "sess-1", event.AggregateID)
	assert.Equal(t, "cart", event.AggregateType)
	assert.Equal(t, 1, event.Version)
	assert.False(t, event.Timestamp.IsZero())
}

func TestEvent_MarshalRoundTrip(t *testing.T) {
	event, err := NewEvent("storefront.cart.updated", "sess-1", "cart", "storefront-service", cartPayload{
		SessionID: "sess-1",
		ItemCount: 2,
	})
	require.NoError(t, err)
	event.WithCorrelationID("corr-1")

	data, err := event.Marshal()
	require.NoError(t, err)

	decoded, err := UnmarshalEvent(data)
	require.NoError(t, err)
	assert.Equal(t, event.EventID, decoded.EventID)
	assert.Equal(t, "corr-1", decoded.CorrelationID)

	var payload cartPayload
	require.NoError(t, decoded.UnmarshalData(&payload))
	assert.Equal(t, "sess-1", payload.SessionID)
	assert.Equal(t, 2, payload.ItemCount)
}

func TestNewEvent_UnserializableData(t *testing.T) {
	_, err := NewEvent("storefront.cart.updated", "sess-1", "cart", "storefront-service", make(chan int))
	require.Error(t, err)
}
