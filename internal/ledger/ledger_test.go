package ledger

import (
	"path/filepath"
	"testing"

	"travelbook/internal/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "audit", "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestLedgerAppendAndHistory(t *testing.T) {
	l := openTestLedger(t)

	require.NoError(t, l.Append(events.EventBookingCreated, "b-1", []byte(`{"booking_id":"b-1"}`)))
	require.NoError(t, l.Append(events.EventBookingCancelled, "b-1", []byte(`{"booking_id":"b-1"}`)))
	require.NoError(t, l.Append(events.EventBookingCreated, "b-2", []byte(`{"booking_id":"b-2"}`)))

	history, err := l.History("b-1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, events.EventBookingCreated, history[0].Type)
	assert.Equal(t, events.EventBookingCancelled, history[1].Type)
	assert.False(t, history[0].CreatedAt.IsZero())
}

func TestLedgerRecent(t *testing.T) {
	l := openTestLedger(t)

	require.NoError(t, l.Append(events.EventBookingCreated, "b-1", []byte(`{}`)))
	require.NoError(t, l.Append(events.EventRebookingRequested, "b-1", []byte(`{}`)))
	require.NoError(t, l.Append(events.EventRebookingConfirmed, "b-1", []byte(`{}`)))

	recent, err := l.Recent(2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	// Newest first.
	assert.Equal(t, events.EventRebookingConfirmed, recent[0].Type)
	assert.Equal(t, events.EventRebookingRequested, recent[1].Type)
}

func TestLedgerSubscribe(t *testing.T) {
	l := openTestLedger(t)
	bus := events.NewEventBus()
	l.Subscribe(bus)

	require.NoError(t, bus.PublishJSON(events.EventBookingCreated, events.BookingEventPayload{
		BookingID: "b-9",
		Kind:      "hotel",
	}))

	history, err := l.History("b-9")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Contains(t, history[0].Payload, `"hotel"`)
}

func TestLedgerEmptyQueries(t *testing.T) {
	l := openTestLedger(t)

	history, err := l.History("nobody")
	require.NoError(t, err)
	assert.Empty(t, history)

	recent, err := l.Recent(10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}
