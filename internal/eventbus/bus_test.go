package eventbus

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCircuitBreakerOpensAndRecovers(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(2, time.Minute)
	cb.now = func() time.Time { return now }

	cb.RecordFailure()
	require.False(t, cb.IsOpen())
	cb.RecordFailure()
	require.True(t, cb.IsOpen())

	now = now.Add(2 * time.Minute)
	require.False(t, cb.IsOpen())
	require.Equal(t, CircuitHalfOpen, cb.State())

	cb.RecordFailure()
	require.True(t, cb.IsOpen())

	cb.RecordSuccess()
	require.False(t, cb.IsOpen())
	require.Equal(t, CircuitClosed, cb.State())
}

func TestSendDeliversInOrder(t *testing.T) {
	eb := NewEventBus()
	defer eb.Close()

	require.NoError(t, eb.SendToCore(AskEvent{Question: "first"}))
	require.NoError(t, eb.SendToCore(ClearTranscriptEvent{}))
	require.Equal(t, AskEvent{Question: "first"}, <-eb.UIToCore())
	require.Equal(t, ClearTranscriptEvent{}, <-eb.UIToCore())

	require.NoError(t, eb.SendToUI(StateUpdateEvent{IsProcessing: true}))
	ev := (<-eb.CoreToUI()).(StateUpdateEvent)
	require.True(t, ev.IsProcessing)
}

func TestFullChannelReportsAndTrips(t *testing.T) {
	eb := NewEventBusWithBuffer(1)
	defer eb.Close()

	var reported []EventBusError
	eb.SetErrorCallback(func(err EventBusError) {
		reported = append(reported, err)
	})

	require.NoError(t, eb.SendToUI(StateUpdateEvent{}))
	for i := 0; i < 5; i++ {
		err := eb.SendToUI(StateUpdateEvent{})
		require.ErrorIs(t, err, ErrChannelFull)
	}
	require.Equal(t, CircuitOpen, eb.CircuitState())

	err := eb.SendToCore(AskEvent{Question: "q"})
	require.ErrorIs(t, err, ErrCircuitOpen)

	require.Len(t, reported, 6)
	require.Equal(t, "SendToUI", reported[0].Operation)
	require.True(t, errors.Is(reported[0], ErrChannelFull))
}

func TestCloseIsIdempotent(t *testing.T) {
	eb := NewEventBus()
	eb.Close()
	eb.Close()

	require.ErrorIs(t, eb.SendToCore(AskEvent{}), ErrClosed)
	_, ok := <-eb.CoreToUI()
	require.False(t, ok)
}
