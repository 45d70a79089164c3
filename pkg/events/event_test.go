package events_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iprofitlabs/lending-service/pkg/events"
)

func TestNewBaseEvent(t *testing.T) {
	before := time.Now().UTC()
	evt := events.NewBaseEvent("lending.loan.disbursed", "loan-001", "Loan")

	assert.NotEmpty(t, evt.EventID())
	assert.Equal(t, "lending.loan.disbursed", evt.EventType())
	assert.Equal(t, "loan-001", evt.AggregateID())
	assert.Equal(t, "Loan", evt.AggregateType())
	assert.False(t, evt.OccurredAt().Before(before))
}

func TestBaseEvent_UniqueIDs(t *testing.T) {
	a := events.NewBaseEvent("t", "agg", "A")
	b := events.NewBaseEvent("t", "agg", "A")
	assert.NotEqual(t, a.EventID(), b.EventID())
}

func TestBaseEvent_JSONRoundTrip(t *testing.T) {
	evt := events.NewBaseEvent("lending.payment.received", "loan-002", "Loan")

	data, err := json.Marshal(evt)
	require.NoError(t, err)

	var decoded events.BaseEvent
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, evt.EventID(), decoded.EventID())
	assert.Equal(t, evt.EventType(), decoded.EventType())
	assert.Equal(t, evt.AggregateID(), decoded.AggregateID())
}
