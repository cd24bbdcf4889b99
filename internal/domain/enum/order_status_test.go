package enum

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatus_Next(t *testing.T) {
	tests := []struct {
		from OrderStatus
		want OrderStatus
		ok   bool
	}{
		{OrderStatusPending, OrderStatusPreparing, true},
		{OrderStatusPreparing, OrderStatusReady, true},
		{OrderStatusReady, OrderStatusCompleted, true},
		{OrderStatusCompleted, OrderStatusCompleted, false},
	}
	for _, tt := range tests {
		t.Run(tt.from.String(), func(t *testing.T) {
			next, ok := tt.from.Next()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, next)
		})
	}
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(OrderStatusPending, OrderStatusPreparing))
	assert.False(t, CanTransition(OrderStatusPending, OrderStatusReady))
	assert.False(t, CanTransition(OrderStatusReady, OrderStatusPending))
	assert.False(t, CanTransition(OrderStatusCompleted, OrderStatusCompleted))
}

func TestOrderStatus_JSON(t *testing.T) {
	raw, err := json.Marshal(OrderStatusReady)
	require.NoError(t, err)
	assert.Equal(t, `"ready"`, string(raw))

	var s OrderStatus
	require.NoError(t, json.Unmarshal([]byte(`"Preparing"`), &s))
	assert.Equal(t, OrderStatusPreparing, s)
	require.NoError(t, json.Unmarshal([]byte(`3`), &s))
	assert.Equal(t, OrderStatusCompleted, s)
	assert.Error(t, json.Unmarshal([]byte(`"cooking"`), &s))
	assert.Error(t, json.Unmarshal([]byte(`7`), &s))
}

func TestParseReportPeriod(t *testing.T) {
	p, err := ParseReportPeriod("")
	require.NoError(t, err)
	assert.Equal(t, ReportDaily, p)

	p, err = ParseReportPeriod("monthly")
	require.NoError(t, err)
	assert.Equal(t, ReportMonthly, p)

	_, err = ParseReportPeriod("yearly")
	assert.Error(t, err)
}

func TestPaymentMethod_UnmarshalRejectsUnknown(t *testing.T) {
	var m PaymentMethod
	require.NoError(t, json.Unmarshal([]byte(`"cash"`), &m))
	assert.Equal(t, PaymentMethodCash, m)
	assert.Error(t, json.Unmarshal([]byte(`"card"`), &m))
}
