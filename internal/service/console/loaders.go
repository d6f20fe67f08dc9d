package console

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mamadbah2/mfgconsole/internal/domain/models"
	"github.com/mamadbah2/mfgconsole/internal/service/catalog"
	"github.com/mamadbah2/mfgconsole/internal/service/stock"
	"github.com/mamadbah2/mfgconsole/internal/view"
	"github.com/mamadbah2/mfgconsole/pkg/clients/mfgapi"
)

type productRow struct {
	ID       int64
	Name     string
	Type     string
	StockQty int64
	Owner    string
	Mine     bool
}

type bomRow struct {
	ID         int64
	ProductID  int64
	Components string
	Operations string
}

type orderRow struct {
	ID          int64
	ProductID   int64
	Quantity    int64
	Status      models.OrderStatus
	StatusLabel string
}

type statusOption struct {
	Value models.OrderStatus
	Label string
}

type workOrderRow struct {
	ProductID   int64
	ProductName string
	OrderID     int64
	QtyDeadline string
	Operation   string
	Status      string
}

type notice struct {
	Colspan int
	Text    string
}

// replace renders a fragment into an element. A missing element is not an error.
func (c *Controller) replace(id, fragment string, data any) error {
	content, err := view.Render(fragment, data)
	if err != nil {
		return err
	}
	c.doc.Replace(id, content)
	return nil
}

// LoadKPIs loads the order aggregate. It is the only loader that runs without a session.
func (c *Controller) LoadKPIs(ctx context.Context) error {
	if !c.doc.Has(view.ElemKPIs) {
		return nil
	}
	kpis, err := c.api.OrderKPIs(ctx)
	if err != nil {
		return c.loadFailed("kpis", err)
	}
	c.showAuthMessage("")
	return c.replace(view.ElemKPIs, "kpis", kpis)
}

// LoadProducts renders the product table with ownership derived from the session user.
func (c *Controller) LoadProducts(ctx context.Context) error {
	if !c.IsAuthenticated() || !c.doc.Has(view.ElemProductsTable) {
		return nil
	}
	products, err := c.api.ListProducts(ctx)
	if err != nil {
		return c.loadFailed("products", err)
	}
	c.showAuthMessage("")

	userID, hasUser := c.session.UserID()
	rows := make([]productRow, 0, len(products))
	for _, p := range products {
		mine := p.OwnedBy(userID, hasUser)
		rows = append(rows, productRow{
			ID:       p.ID,
			Name:     p.Name,
			Type:     p.TypeLabel(),
			StockQty: p.StockQty,
			Owner:    ownerLabel(p, mine),
			Mine:     mine,
		})
	}
	return c.replace(view.ElemProductsTable, "productRows", map[string]any{
		"Page": c.layout.Name,
		"Rows": rows,
	})
}

func ownerLabel(p models.Product, mine bool) string {
	switch {
	case mine:
		return "You"
	case p.CreatedBy != nil && *p.CreatedBy != 0:
		return fmt.Sprintf("User %d", *p.CreatedBy)
	default:
		return "—"
	}
}

// LoadBOMs renders every bill of materials with its components and operations as JSON.
func (c *Controller) LoadBOMs(ctx context.Context) error {
	if !c.IsAuthenticated() || !c.doc.Has(view.ElemBOMTable) {
		return nil
	}
	boms, err := c.api.ListBOMs(ctx)
	if err != nil {
		return c.loadFailed("boms", err)
	}
	c.showAuthMessage("")

	rows := make([]bomRow, 0, len(boms))
	for _, b := range boms {
		rows = append(rows, bomRow{
			ID:         b.ID,
			ProductID:  b.ProductID,
			Components: compactJSON(b.Components),
			Operations: compactJSON(b.Operations),
		})
	}
	return c.replace(view.ElemBOMTable, "bomRows", rows)
}

// compactJSON renders a stored JSON column on one line, whatever its shape.
func compactJSON(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "null"
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

// LoadOrders renders every manufacturing order.
func (c *Controller) LoadOrders(ctx context.Context) error {
	return c.loadOrders(ctx, "")
}

// FilterOrders renders the orders with the given status. An empty status lists them all.
func (c *Controller) FilterOrders(ctx context.Context, raw string) error {
	if !c.doc.Has(view.ElemMOFilter) {
		return ErrNotOnPage
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return c.loadOrders(ctx, "")
	}
	status, ok := models.ParseOrderStatus(raw)
	if !ok {
		return c.rejectInput("Unknown order status.")
	}
	return c.loadOrders(ctx, status)
}

func (c *Controller) loadOrders(ctx context.Context, status models.OrderStatus) error {
	if !c.IsAuthenticated() || !c.doc.Has(view.ElemMOTable) {
		return nil
	}
	orders, err := c.api.ListOrders(ctx, string(status))
	if err != nil {
		return c.loadFailed("orders", err)
	}
	c.showAuthMessage("")

	rows := make([]orderRow, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, orderRow{
			ID:          o.ID,
			ProductID:   o.ProductID,
			Quantity:    o.Quantity,
			Status:      o.Status,
			StatusLabel: o.StatusLabel(),
		})
	}
	statuses := make([]statusOption, 0, len(models.EditableOrderStatuses))
	for _, s := range models.EditableOrderStatuses {
		statuses = append(statuses, statusOption{Value: s, Label: s.Label()})
	}
	return c.replace(view.ElemMOTable, "orderRows", map[string]any{
		"Page":     c.layout.Name,
		"Editable": c.doc.HasBodyAttr("data-show-orders"),
		"Statuses": statuses,
		"Rows":     rows,
	})
}

// LoadWorkOrders joins orders with products, fetched concurrently.
func (c *Controller) LoadWorkOrders(ctx context.Context) error {
	if !c.IsAuthenticated() || !c.doc.Has(view.ElemWOTable) {
		return nil
	}

	var (
		orders             []models.ManufacturingOrder
		products           []models.Product
		ordersErr, prodErr error
	)
	var g errgroup.Group
	g.Go(func() error {
		orders, ordersErr = c.api.ListOrders(ctx, "")
		return nil
	})
	g.Go(func() error {
		products, prodErr = c.api.ListProducts(ctx)
		return nil
	})
	_ = g.Wait()

	if ordersErr != nil {
		text := "Error loading data."
		if code := mfgapi.StatusCode(ordersErr); code != 0 {
			text = fmt.Sprintf("Failed to load orders (status: %d).", code)
		}
		if err := c.replace(view.ElemWOTable, "tableNotice", notice{Colspan: 5, Text: text}); err != nil {
			return err
		}
		return c.loadFailed("work orders", ordersErr)
	}
	if prodErr != nil {
		c.logger.Warn("work orders: products unavailable, rendering without names", zap.Error(prodErr))
	}
	c.showAuthMessage("")

	if len(orders) == 0 {
		return c.replace(view.ElemWOTable, "tableNotice", notice{Colspan: 6, Text: "No orders found."})
	}

	byID := make(map[int64]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	rows := make([]workOrderRow, 0, len(orders))
	for _, o := range orders {
		p := byID[o.ProductID]
		rows = append(rows, workOrderRow{
			ProductID:   o.ProductID,
			ProductName: p.Name,
			OrderID:     o.ID,
			QtyDeadline: qtyDeadline(o),
			Operation:   p.TypeLabel(),
			Status:      o.StatusLabel(),
		})
	}
	return c.replace(view.ElemWOTable, "workOrderRows", rows)
}

func qtyDeadline(o models.ManufacturingOrder) string {
	var parts []string
	if o.Quantity != 0 {
		parts = append(parts, "Qty: "+strconv.FormatInt(o.Quantity, 10))
	}
	if d := o.DeadlineOrEmpty(); d != "" {
		parts = append(parts, "Delivery: "+d)
	}
	return strings.Join(parts, " / ")
}

// LoadStock renders on-hand quantities. A failed ledger fetch falls back to stored stock levels.
func (c *Controller) LoadStock(ctx context.Context) error {
	if !c.IsAuthenticated() || !c.doc.Has(view.ElemStockTable) {
		return nil
	}

	var (
		ledger                []models.StockLedgerEntry
		products              []models.Product
		ledgerErr, productErr error
	)
	var g errgroup.Group
	g.Go(func() error {
		ledger, ledgerErr = c.api.ListStockLedger(ctx)
		return nil
	})
	g.Go(func() error {
		products, productErr = c.api.ListProducts(ctx)
		return nil
	})
	_ = g.Wait()

	if productErr != nil {
		return c.loadFailed("stock", productErr)
	}
	if ledgerErr != nil {
		c.logger.Warn("stock ledger unavailable, using stored quantities", zap.Error(ledgerErr))
		ledger = nil
	}
	c.showAuthMessage("")
	return c.replace(view.ElemStockTable, "stockRows", stock.Compute(products, ledger))
}

// LoadComponents lists the products usable as BOM inputs.
func (c *Controller) LoadComponents(ctx context.Context) error {
	if !c.IsAuthenticated() || !c.doc.Has(view.ElemComponentsTable) {
		return nil
	}
	products, err := c.api.ListProducts(ctx)
	if err != nil {
		return c.loadFailed("components", err)
	}
	c.showAuthMessage("")

	materials := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.Type.IsMaterial() {
			materials = append(materials, p)
		}
	}
	return c.replace(view.ElemComponentsTable, "componentRows", materials)
}

// LookupBOMByOrder resolves order, then product, then the predefined BOM for that product.
func (c *Controller) LookupBOMByOrder(ctx context.Context, raw string) error {
	if !c.doc.Has(view.ElemOrderLookup) {
		return ErrNotOnPage
	}
	result := func(text string) {
		c.doc.Replace(view.ElemBOMResult, view.Muted(text))
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		result("Please enter an order ID.")
		return ErrInvalidInput
	}
	orderID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		result("Order ID must be numeric.")
		return ErrInvalidInput
	}

	orders, err := c.api.ListOrders(ctx, "")
	if err != nil {
		return c.lookupFailed(err, "Could not fetch orders.")
	}
	var (
		order models.ManufacturingOrder
		found bool
	)
	for _, o := range orders {
		if o.ID == orderID {
			order, found = o, true
			break
		}
	}
	if !found {
		result(fmt.Sprintf("Order #%d not found.", orderID))
		return nil
	}

	products, err := c.api.ListProducts(ctx)
	if err != nil {
		return c.lookupFailed(err, "Could not fetch products.")
	}
	var name string
	for _, p := range products {
		if p.ID == order.ProductID {
			name = p.Name
			break
		}
	}

	bom, ok := catalog.Match(name)
	if !ok {
		result(fmt.Sprintf("Product '%s' does not have a predefined BOM.", name))
		return nil
	}
	return c.replace(view.ElemBOMResult, "bomLookup", bom)
}

func (c *Controller) lookupFailed(err error, text string) error {
	if mfgapi.IsUnreachable(err) {
		text = "Lookup failed."
		c.showAuthMessage(msgUnreachable)
	}
	c.doc.Replace(view.ElemBOMResult, view.Muted(text))
	c.logger.Error("bom lookup failed", zap.Int("status", mfgapi.StatusCode(err)), zap.Error(err))
	return err
}
