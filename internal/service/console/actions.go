package console

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/mamadbah2/mfgconsole/internal/domain/models"
	"github.com/mamadbah2/mfgconsole/internal/view"
)

// ProductForm carries the raw product form fields.
type ProductForm struct {
	Name     string
	Type     string
	StockQty string
}

// BOMForm carries the raw BOM form fields; components and operations are JSON arrays.
type BOMForm struct {
	ProductID  string
	Components string
	Operations string
}

// OrderForm carries the raw manufacturing order form fields.
type OrderForm struct {
	ProductID string
	Quantity  string
	Deadline  string
}

// CreateProduct creates a product and reloads the product table.
func (c *Controller) CreateProduct(ctx context.Context, form ProductForm) error {
	if !c.doc.Has(view.ElemProductForm) {
		return ErrNotOnPage
	}
	req := models.CreateProductRequest{Name: strings.TrimSpace(form.Name), Type: models.ProductRaw}
	if t := strings.TrimSpace(form.Type); t != "" {
		productType, ok := models.ParseProductType(t)
		if !ok {
			return c.rejectInput("Unknown product type.")
		}
		req.Type = productType
	}
	if q := strings.TrimSpace(form.StockQty); q != "" {
		qty, err := strconv.ParseInt(q, 10, 64)
		if err != nil {
			return c.rejectInput("Stock quantity must be numeric.")
		}
		req.StockQty = qty
	}

	_, err := c.api.CreateProduct(ctx, req)
	return c.settle(ctx, err, outcome{
		action:      "create product",
		fallback:    "Create failed",
		unreachable: "Failed to reach backend",
	}, c.LoadProducts)
}

// DeleteProduct deletes a product and reloads the product table.
func (c *Controller) DeleteProduct(ctx context.Context, rawID string) error {
	if !c.doc.Has(view.ElemProductsTable) {
		return ErrNotOnPage
	}
	id, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
	if err != nil {
		return c.rejectInput("Product ID must be numeric.")
	}

	err = c.api.DeleteProduct(ctx, id)
	return c.settle(ctx, err, outcome{
		action:      "delete product",
		fallback:    "Delete failed",
		unreachable: "Delete request failed",
		success:     "Product deleted",
	}, c.LoadProducts)
}

// CreateBOM validates the JSON fields, creates the BOM and reloads the BOM table.
func (c *Controller) CreateBOM(ctx context.Context, form BOMForm) error {
	if !c.doc.Has(view.ElemBOMForm) {
		return ErrNotOnPage
	}
	productID, err := strconv.ParseInt(strings.TrimSpace(form.ProductID), 10, 64)
	if err != nil {
		return c.rejectInput("Product ID must be numeric.")
	}
	components, ok := jsonField(form.Components)
	if !ok {
		return c.rejectInput("Invalid JSON in BOM fields")
	}
	operations, ok := jsonField(form.Operations)
	if !ok {
		return c.rejectInput("Invalid JSON in BOM fields")
	}
	req := models.CreateBOMRequest{ProductID: productID, Components: components, Operations: operations}

	_, err = c.api.CreateBOM(ctx, req)
	return c.settle(ctx, err, outcome{
		action:      "create bom",
		fallback:    "Create BOM failed",
		unreachable: "Failed to reach backend",
	}, c.LoadBOMs)
}

// jsonField checks that raw parses as JSON and returns it unchanged. Blank input means an
// empty list.
func jsonField(raw string) (json.RawMessage, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = "[]"
	}
	if !json.Valid([]byte(raw)) {
		return nil, false
	}
	return json.RawMessage(raw), true
}

// CreateOrder creates a confirmed manufacturing order, then reloads orders and stock.
func (c *Controller) CreateOrder(ctx context.Context, form OrderForm) error {
	if !c.doc.Has(view.ElemMOForm) {
		return ErrNotOnPage
	}
	productID, err := strconv.ParseInt(strings.TrimSpace(form.ProductID), 10, 64)
	if err != nil {
		return c.rejectInput("Product ID must be numeric.")
	}
	req := models.CreateOrderRequest{ProductID: productID, Quantity: 1, Status: models.OrderConfirmed}
	if q := strings.TrimSpace(form.Quantity); q != "" {
		qty, err := strconv.ParseInt(q, 10, 64)
		if err != nil || qty <= 0 {
			return c.rejectInput("Quantity must be a positive number.")
		}
		req.Quantity = qty
	}
	if d := strings.TrimSpace(form.Deadline); d != "" {
		req.Deadline = &d
	}

	_, err = c.api.CreateOrder(ctx, req)
	return c.settle(ctx, err, outcome{
		action:      "create order",
		fallback:    "Create MO failed",
		unreachable: "Failed to reach backend",
	}, c.LoadOrders, c.LoadStock)
}

// UpdateOrderStatus sets an order's status, then reloads orders and stock.
func (c *Controller) UpdateOrderStatus(ctx context.Context, rawID, rawStatus string) error {
	if !c.doc.Has(view.ElemOrdersPage) {
		return ErrNotOnPage
	}
	id, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
	if err != nil {
		return c.rejectInput("Order ID must be numeric.")
	}
	status, ok := models.ParseOrderStatus(rawStatus)
	if !ok {
		return c.rejectInput("Unknown order status.")
	}

	err = c.api.UpdateOrderStatus(ctx, models.UpdateOrderStatusRequest{ID: id, Status: status})
	return c.settle(ctx, err, outcome{
		action:      "update order status",
		fallback:    "Update failed",
		unreachable: "Status update failed",
		success:     "Order status updated",
	}, c.LoadOrders, c.LoadStock)
}

// DeleteOrder removes an order, then reloads orders and stock.
func (c *Controller) DeleteOrder(ctx context.Context, rawID string) error {
	if !c.doc.Has(view.ElemOrdersPage) {
		return ErrNotOnPage
	}
	id, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
	if err != nil {
		return c.rejectInput("Order ID must be numeric.")
	}

	err = c.api.DeleteOrder(ctx, id)
	return c.settle(ctx, err, outcome{
		action:      "delete order",
		fallback:    "Delete failed",
		unreachable: "Delete request failed",
	}, c.LoadOrders, c.LoadStock)
}

// UpdateWorkOrderStatus sets a work order's status, then reloads work orders and stock.
func (c *Controller) UpdateWorkOrderStatus(ctx context.Context, rawID, rawStatus string) error {
	if !c.doc.Has(view.ElemWOStatusForm) {
		return ErrNotOnPage
	}
	id, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
	if err != nil {
		return c.rejectInput("Work order ID must be numeric.")
	}
	status, ok := models.ParseWorkOrderStatus(rawStatus)
	if !ok {
		return c.rejectInput("Unknown work order status.")
	}

	err = c.api.UpdateWorkOrderStatus(ctx, id, status)
	return c.settle(ctx, err, outcome{
		action:      "update work order status",
		fallback:    "Update failed",
		unreachable: "Status update failed",
		success:     "Work order status updated",
	}, c.LoadWorkOrders, c.LoadStock)
}

// outcome describes the messages shown once a mutation has completed.
type outcome struct {
	action      string
	fallback    string
	unreachable string
	success     string
}

// settle reloads the affected views whatever the result, then shows the outcome.
// The message is set after the reload because a successful load clears it.
func (c *Controller) settle(ctx context.Context, err error, o outcome, loaders ...Loader) error {
	reloadErr := c.reload(ctx, loaders...)
	if err != nil {
		return c.actionFailed(o.action, err, o.fallback, o.unreachable)
	}
	if o.success != "" {
		c.showAuthMessage(o.success)
	}
	return reloadErr
}
