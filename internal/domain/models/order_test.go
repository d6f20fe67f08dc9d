package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderDecodingMapsUnknownStatusToOther(t *testing.T) {
	var orders []ManufacturingOrder
	body := `[{"id":1,"product_id":2,"quantity":3,"status":"in_progress"},{"id":2,"product_id":2,"quantity":1,"status":"done"},{"id":3,"status":"on_hold"}]`
	require.NoError(t, json.Unmarshal([]byte(body), &orders))
	require.Len(t, orders, 3)

	assert.Equal(t, OrderInProgress, orders[0].Status)
	assert.Empty(t, orders[0].StatusText)
	assert.Equal(t, "in progress", orders[0].StatusLabel())

	assert.Equal(t, OrderOther, orders[1].Status)
	assert.Equal(t, "done", orders[1].StatusText)
	assert.Equal(t, "done", orders[1].StatusLabel())
	assert.Equal(t, int64(3), orders[0].Quantity)

	assert.Equal(t, OrderOther, orders[2].Status)
	assert.Equal(t, "on hold", orders[2].StatusLabel())
}

func TestOrderStatusParsingAcceptsOnlyEditableStates(t *testing.T) {
	status, ok := ParseOrderStatus(" In_Progress ")
	require.True(t, ok)
	assert.Equal(t, OrderInProgress, status)

	for _, value := range []string{"done", "other", ""} {
		_, ok := ParseOrderStatus(value)
		assert.False(t, ok, value)
	}
	assert.Equal(t, "other", OrderOther.Label())
}

func TestWorkOrderStatusDecoding(t *testing.T) {
	var req UpdateWorkOrderStatusRequest
	require.NoError(t, json.Unmarshal([]byte(`{"status":"started"}`), &req))
	assert.Equal(t, WorkOrderStarted, req.Status)

	require.NoError(t, json.Unmarshal([]byte(`{"status":"paused"}`), &req))
	assert.Equal(t, WorkOrderOther, req.Status)
	assert.Equal(t, "other", req.Status.Label())

	_, ok := ParseWorkOrderStatus("other")
	assert.False(t, ok)
}
