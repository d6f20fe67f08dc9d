package models

import (
	"encoding/json"
	"strings"
)

// OrderStatus enumerates manufacturing order states.
type OrderStatus string

const (
	OrderPlanned    OrderStatus = "planned"
	OrderInProgress OrderStatus = "in_progress"
	OrderConfirmed  OrderStatus = "confirmed"
	// OrderOther stands for any state the console does not know (done, cancelled, ...).
	OrderOther OrderStatus = "other"
)

// EditableOrderStatuses are the states an operator may set from the orders page.
var EditableOrderStatuses = []OrderStatus{OrderPlanned, OrderInProgress, OrderConfirmed}

// ParseOrderStatus accepts only the editable states.
func ParseOrderStatus(value string) (OrderStatus, bool) {
	normalized := OrderStatus(strings.TrimSpace(strings.ToLower(value)))
	switch normalized {
	case OrderPlanned, OrderInProgress, OrderConfirmed:
		return normalized, true
	default:
		return "", false
	}
}

// Label renders the status for humans.
func (s OrderStatus) Label() string {
	switch s {
	case OrderPlanned:
		return "planned"
	case OrderInProgress:
		return "in progress"
	case OrderConfirmed:
		return "confirmed"
	case OrderOther:
		return "other"
	default:
		return humanize(string(s))
	}
}

func humanize(value string) string {
	return strings.ReplaceAll(value, "_", " ")
}

// orderStatusOf maps a backend value onto the known states. Unknown values come back as
// OrderOther together with the original text.
func orderStatusOf(raw OrderStatus) (OrderStatus, string) {
	switch raw {
	case OrderPlanned, OrderInProgress, OrderConfirmed:
		return raw, ""
	default:
		return OrderOther, string(raw)
	}
}

// ManufacturingOrder mirrors a row of the backend MO table.
type ManufacturingOrder struct {
	ID        int64       `json:"id"`
	ProductID int64       `json:"product_id"`
	Quantity  int64       `json:"quantity"`
	Status    OrderStatus `json:"status"`
	StartDate *string     `json:"start_date"`
	Deadline  *string     `json:"deadline"`
	Assignee  *string     `json:"assignee"`
	CreatedAt string      `json:"created_at,omitempty"`

	// StatusText keeps the backend's value when Status is OrderOther.
	StatusText string `json:"-"`
}

func (o *ManufacturingOrder) UnmarshalJSON(data []byte) error {
	type plain ManufacturingOrder
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*o = ManufacturingOrder(decoded)
	o.Status, o.StatusText = orderStatusOf(decoded.Status)
	return nil
}

// StatusLabel renders the status, falling back to the backend's own text for unknown states.
func (o ManufacturingOrder) StatusLabel() string {
	if o.Status == OrderOther && o.StatusText != "" {
		return humanize(o.StatusText)
	}
	return o.Status.Label()
}

// DeadlineOrEmpty dereferences the nullable deadline.
func (o ManufacturingOrder) DeadlineOrEmpty() string {
	if o.Deadline == nil {
		return ""
	}
	return *o.Deadline
}

// CreateOrderRequest is the payload accepted by POST /orders.
type CreateOrderRequest struct {
	ProductID int64       `json:"product_id"`
	Quantity  int64       `json:"quantity"`
	Deadline  *string     `json:"deadline"`
	Status    OrderStatus `json:"status"`
}

// UpdateOrderStatusRequest is the payload accepted by PUT /orders.
type UpdateOrderStatusRequest struct {
	ID     int64       `json:"id"`
	Status OrderStatus `json:"status"`
}

// WorkOrderStatus enumerates work order states.
type WorkOrderStatus string

const (
	WorkOrderPlanned   WorkOrderStatus = "planned"
	WorkOrderStarted   WorkOrderStatus = "started"
	WorkOrderCompleted WorkOrderStatus = "completed"
	WorkOrderOther     WorkOrderStatus = "other"
)

// ParseWorkOrderStatus validates a work order state.
func ParseWorkOrderStatus(value string) (WorkOrderStatus, bool) {
	normalized := WorkOrderStatus(strings.TrimSpace(strings.ToLower(value)))
	switch normalized {
	case WorkOrderPlanned, WorkOrderStarted, WorkOrderCompleted:
		return normalized, true
	default:
		return "", false
	}
}

// UnmarshalJSON maps states outside the known set to WorkOrderOther.
func (s *WorkOrderStatus) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	switch v := WorkOrderStatus(value); v {
	case WorkOrderPlanned, WorkOrderStarted, WorkOrderCompleted:
		*s = v
	default:
		*s = WorkOrderOther
	}
	return nil
}

// Label renders the work order state for humans.
func (s WorkOrderStatus) Label() string {
	switch s {
	case WorkOrderPlanned:
		return "planned"
	case WorkOrderStarted:
		return "started"
	case WorkOrderCompleted:
		return "completed"
	case WorkOrderOther:
		return "other"
	default:
		return humanize(string(s))
	}
}

// UpdateWorkOrderStatusRequest is the payload accepted by PUT /work-orders/{id}/status.
type UpdateWorkOrderStatusRequest struct {
	Status WorkOrderStatus `json:"status"`
}
