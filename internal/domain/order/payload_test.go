package order

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/grabfood/internal/domain/shared"
)

func TestParsePayload_MissingFields(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected []string
	}{
		{
			name:     "empty object lists every required key",
			body:     `{}`,
			expected: RequiredFields,
		},
		{
			name: "null counts as missing",
			body: `{"orderID":"A","shortOrderNumber":"1","merchantID":"M","paymentType":"CASH","cutlery":null,
				"orderTime":"2024-01-01T00:00:00Z","currency":{},"featureFlags":{},"items":[],"price":{}}`,
			expected: []string{"cutlery"},
		},
		{
			name: "blank order ID",
			body: `{"orderID":"  ","shortOrderNumber":"1","merchantID":"M","paymentType":"CASH","cutlery":false,
				"orderTime":"2024-01-01T00:00:00Z","currency":{},"featureFlags":{},"items":[],"price":{}}`,
			expected: []string{"orderID"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePayload([]byte(tt.body))
			var missing *MissingFieldsError
			require.True(t, errors.As(err, &missing), "got %v", err)
			assert.Equal(t, tt.expected, missing.Fields)
			assert.ErrorIs(t, err, shared.ErrValidation)
		})
	}
}

func TestParsePayload_Malformed(t *testing.T) {
	for _, body := range []string{`{not json`, `[]`, `null`, `"text"`} {
		t.Run(body, func(t *testing.T) {
			_, err := ParsePayload([]byte(body))
			assert.ErrorIs(t, err, ErrMalformedPayload)
		})
	}
}

func TestParsePayload_NumericIdentifiers(t *testing.T) {
	p, err := ParsePayload([]byte(sampleOrder))
	require.NoError(t, err)
	assert.Equal(t, "456", string(p.ShortOrderNumber))
	assert.Equal(t, "77", string(p.Campaigns[0].ID))
	require.NotNil(t, p.Currency.Exponent)
	assert.Equal(t, int32(2), *p.Currency.Exponent)
}

func TestParseStatePayload(t *testing.T) {
	t.Run("valid with driver ETA", func(t *testing.T) {
		u, err := ParseStatePayload([]byte(`{"orderID":" GF-1 ","state":"DRIVER_ARRIVED","code":12,"message":"near","driverETA":180}`))
		require.NoError(t, err)
		assert.Equal(t, "GF-1", u.ExternalOrderID)
		assert.Equal(t, "DRIVER_ARRIVED", u.State)
		assert.Equal(t, "12", u.Code)
		require.NotNil(t, u.DriverETA)
		assert.Equal(t, 180, *u.DriverETA)
	})

	t.Run("missing order ID and state", func(t *testing.T) {
		_, err := ParseStatePayload([]byte(`{"message":"x"}`))
		var missing *MissingFieldsError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, []string{"orderID", "state"}, missing.Fields)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := ParseStatePayload([]byte(`{`))
		assert.ErrorIs(t, err, ErrMalformedPayload)
	})
}

func TestOrder_ApplyStateUpdate(t *testing.T) {
	o := &Order{State: "ACCEPTED"}
	eta := 90
	o.ApplyStateUpdate(StateUpdate{State: "COLLECTED", Code: "1", Message: "picked", DriverETA: &eta})
	assert.Equal(t, "COLLECTED", o.State)
	assert.Equal(t, "picked", o.StateMessage)
	require.NotNil(t, o.DriverETA)
	assert.Equal(t, 90, *o.DriverETA)

	o.MarkCompleted()
	assert.Equal(t, StateCompleted, o.State)

	ready := time.Date(2024, 5, 1, 18, 30, 0, 0, time.FixedZone("SGT", 8*3600))
	o.SetReadyTime(ready)
	require.NotNil(t, o.ScheduledTime)
	assert.Equal(t, time.UTC, o.ScheduledTime.Location())
	assert.Equal(t, 10, o.ScheduledTime.Hour())
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"zulu", "2024-03-01T10:15:30Z", "2024-03-01T10:15:30Z"},
		{"lowercase zulu", "2024-03-01T10:15:30z", "2024-03-01T10:15:30Z"},
		{"fractional seconds", "2024-03-01T10:15:30.5Z", "2024-03-01T10:15:30.5Z"},
		{"offset", "2024-03-01T18:15:30+08:00", "2024-03-01T10:15:30Z"},
		{"no zone", "2024-03-01T10:15:30", "2024-03-01T10:15:30Z"},
		{"space separator", "2024-03-01 10:15:30", "2024-03-01T10:15:30Z"},
		{"no seconds", "2024-03-01T10:15", "2024-03-01T10:15:00Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTimestamp(tt.input)
			require.NotNil(t, got)
			assert.Equal(t, tt.expected, got.Format(time.RFC3339Nano))
		})
	}

	for _, bad := range []string{"", "   ", "yesterday", "2024-13-45T00:00:00Z"} {
		t.Run("invalid "+bad, func(t *testing.T) {
			assert.Nil(t, ParseTimestamp(bad))
		})
	}
}
