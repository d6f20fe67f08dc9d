package console

import (
	"context"
	"encoding/json"
	"html"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/mfgconsole/internal/domain/models"
	"github.com/mamadbah2/mfgconsole/internal/session"
	"github.com/mamadbah2/mfgconsole/internal/view"
	"github.com/mamadbah2/mfgconsole/pkg/clients/mfgapi"
)

func content(c *Controller, id string) string {
	return html.UnescapeString(string(c.Document().Content(id)))
}

func TestUnauthenticatedBootstrapOnlyLoadsKPIs(t *testing.T) {
	backend, srv := newFakeBackend(t)
	backend.kpis = models.OrderKPIs{Total: 3, Planned: 1, InProgress: 1, Completed: 1}
	ctrl, _ := newTestController(t, view.PageIndex, srv.URL)

	require.NoError(t, ctrl.Bootstrap(context.Background()))

	reqs := backend.recorded()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/reports/orders", reqs[0].Path)
	assert.Empty(t, reqs[0].Auth)
	assert.Contains(t, content(ctrl, view.ElemKPIs), "Total: 3")

	doc := ctrl.Document()
	auth, _ := doc.RootAttr("data-auth")
	assert.Equal(t, "false", auth)
	assert.False(t, doc.HasBodyAttr("data-auth"))
	assert.False(t, doc.Hidden(view.ElemLoginForm))
	assert.True(t, doc.Hidden(view.ElemLogoutPane))
	assert.True(t, doc.Hidden(view.ElemNav))
	for _, panel := range doc.Panels() {
		assert.True(t, doc.Hidden(panel), panel)
	}
	assert.False(t, doc.Hidden(view.ElemAuthControls))
}

func TestLoginPersistsSessionAndAuthorizesLaterRequests(t *testing.T) {
	backend, srv := newFakeBackend(t)
	backend.auth = models.AuthResponse{Token: "tok-1", ID: 7}
	backend.products = []models.Product{
		{ID: 1, Name: "Steel", Type: models.ProductRaw, StockQty: 4, CreatedBy: int64Ptr(7)},
		{ID: 2, Name: "Desk", Type: models.ProductFinished, CreatedBy: int64Ptr(9)},
		{ID: 3, Name: "Bolt", Type: models.ProductComponent},
	}
	ctrl, sess := newTestController(t, view.PageProducts, srv.URL)

	require.NoError(t, ctrl.Login(context.Background(), " ops@example.com ", "pw"))

	assert.Equal(t, "tok-1", sess.Token())
	id, ok := sess.UserID()
	require.True(t, ok)
	assert.Equal(t, int64(7), id)

	reqs := backend.recorded()
	require.GreaterOrEqual(t, len(reqs), 2)
	assert.Equal(t, "/auth/login", reqs[0].Path)
	assert.JSONEq(t, `{"email":"ops@example.com","password":"pw"}`, reqs[0].Body)
	for _, r := range reqs[1:] {
		assert.Equal(t, "Bearer tok-1", r.Auth, r.Path)
	}

	doc := ctrl.Document()
	auth, _ := doc.RootAttr("data-auth")
	assert.Equal(t, "true", auth)
	assert.Equal(t, "User: 7", content(ctrl, view.ElemWhoAmI))
	assert.True(t, doc.Hidden(view.ElemLoginForm))
	assert.False(t, doc.Hidden(view.ElemProductsTable))

	table := content(ctrl, view.ElemProductsTable)
	assert.Contains(t, table, "<td>You</td>")
	assert.Contains(t, table, "<td>User 9</td>")
	assert.Contains(t, table, "<td>—</td>")
	assert.Equal(t, 1, strings.Count(table, "/delete"))
	assert.Contains(t, table, `action="/products/1/delete"`)
}

func TestLoginFailureLeavesSessionUntouched(t *testing.T) {
	backend, srv := newFakeBackend(t)
	backend.fail(http.MethodPost, "/auth/login", http.StatusUnauthorized, "invalid credentials")
	ctrl, sess := newTestController(t, view.PageIndex, srv.URL)

	err := ctrl.Login(context.Background(), "a@b.c", "wrong")
	require.Error(t, err)
	assert.False(t, sess.IsAuthenticated())
	assert.Equal(t, "invalid credentials", ctrl.Message())
}

func TestSignupWithoutTokenFails(t *testing.T) {
	_, srv := newFakeBackend(t)
	ctrl, sess := newTestController(t, view.PageIndex, srv.URL)

	require.Error(t, ctrl.Signup(context.Background(), "a@b.c", "pw"))
	assert.False(t, sess.IsAuthenticated())
	assert.Equal(t, "Signup failed", ctrl.Message())
}

func TestLoginUnreachableBackend(t *testing.T) {
	_, srv := newFakeBackend(t)
	srv.Close()
	ctrl, sess := newTestController(t, view.PageIndex, srv.URL)

	err := ctrl.Login(context.Background(), "a@b.c", "pw")
	require.ErrorIs(t, err, mfgapi.ErrBackendUnreachable)
	assert.False(t, sess.IsAuthenticated())
	assert.Equal(t, "Login request failed", ctrl.Message())
}

func TestSignupUnreachableBackend(t *testing.T) {
	_, srv := newFakeBackend(t)
	srv.Close()
	ctrl, sess := newTestController(t, view.PageIndex, srv.URL)

	err := ctrl.Signup(context.Background(), "a@b.c", "pw")
	require.ErrorIs(t, err, mfgapi.ErrBackendUnreachable)
	assert.False(t, sess.IsAuthenticated())
	assert.Equal(t, "Signup request failed", ctrl.Message())
}

func TestUnauthorizedLoadKeepsSession(t *testing.T) {
	backend, srv := newFakeBackend(t)
	ctrl, sess := newTestController(t, view.PageProducts, srv.URL)
	require.NoError(t, sess.Save("stale", 3))
	ctrl.Document().Replace(view.ElemProductsTable, "<tr><td>previous</td></tr>")
	backend.fail(http.MethodGet, "/products", http.StatusUnauthorized, "authentication required")

	err := ctrl.LoadProducts(context.Background())
	require.Error(t, err)
	assert.True(t, mfgapi.IsUnauthorized(err))
	assert.Equal(t, "stale", sess.Token())
	assert.Equal(t, msgNotAuthenticated, ctrl.Message())
	assert.Equal(t, "<tr><td>previous</td></tr>", content(ctrl, view.ElemProductsTable))
}

func TestServerErrorLeavesViewAndMessage(t *testing.T) {
	backend, srv := newFakeBackend(t)
	ctrl, sess := newTestController(t, view.PageBOM, srv.URL)
	require.NoError(t, sess.Save("tok", 1))
	ctrl.showAuthMessage("earlier")
	backend.fail(http.MethodGet, "/bom", http.StatusInternalServerError, "boom")

	require.Error(t, ctrl.LoadBOMs(context.Background()))
	assert.Equal(t, "earlier", ctrl.Message())
	assert.Empty(t, content(ctrl, view.ElemBOMTable))
}

func TestBOMTableKeepsFreeFormJSON(t *testing.T) {
	backend, srv := newFakeBackend(t)
	backend.boms = []models.BillOfMaterials{{
		ID:         1,
		ProductID:  3,
		Components: json.RawMessage(`[ {"product_id": "3", "qty": 2} ]`),
		Operations: json.RawMessage(`[{"name": "cut", "time": 12.5}]`),
	}, {ID: 2, ProductID: 4}}
	ctrl, sess := newTestController(t, view.PageBOM, srv.URL)
	require.NoError(t, sess.Save("tok", 1))

	require.NoError(t, ctrl.LoadBOMs(context.Background()))
	table := content(ctrl, view.ElemBOMTable)
	assert.Contains(t, table, `[{"product_id":"3","qty":2}]`)
	assert.Contains(t, table, `[{"name":"cut","time":12.5}]`)
	assert.Contains(t, table, "null")
}

func TestUnreachableBackendSurfacesMessage(t *testing.T) {
	_, srv := newFakeBackend(t)
	srv.Close()
	ctrl, sess := newTestController(t, view.PageStock, srv.URL)
	require.NoError(t, sess.Save("tok", 1))

	err := ctrl.LoadComponents(context.Background())
	require.ErrorIs(t, err, mfgapi.ErrBackendUnreachable)
	assert.Equal(t, msgUnreachable, ctrl.Message())
}

func TestLogoutClearsSession(t *testing.T) {
	_, srv := newFakeBackend(t)
	ctrl, sess := newTestController(t, view.PageOrders, srv.URL)
	require.NoError(t, sess.Save("tok", 2))
	ctrl.RenderAuthControls()
	require.True(t, ctrl.Document().HasBodyAttr("data-show-orders"))

	require.NoError(t, ctrl.Logout())

	assert.False(t, sess.IsAuthenticated())
	_, ok := sess.UserID()
	assert.False(t, ok)
	assert.Equal(t, "Logged out", ctrl.Message())
	auth, _ := ctrl.Document().RootAttr("data-auth")
	assert.Equal(t, "false", auth)
	assert.False(t, ctrl.Document().HasBodyAttr("data-show-orders"))
	assert.False(t, ctrl.Document().Hidden(view.ElemLoginForm))
}

func TestWhoAmIWithoutUserID(t *testing.T) {
	_, srv := newFakeBackend(t)
	ctrl, sess := newTestController(t, view.PageIndex, srv.URL)
	require.NoError(t, sess.Save("tok", 0))

	ctrl.RenderAuthControls()
	assert.Equal(t, "Authenticated", content(ctrl, view.ElemWhoAmI))
}

func TestBootstrapRunsLoadersConcurrently(t *testing.T) {
	backend, srv := newFakeBackend(t)
	const want = 5

	var (
		mu       sync.Mutex
		inFlight int
		peak     int
		release  = make(chan struct{})
		once     sync.Once
	)
	backend.onRequest = func(*http.Request) {
		mu.Lock()
		inFlight++
		if inFlight > peak {
			peak = inFlight
		}
		if inFlight >= want {
			once.Do(func() { close(release) })
		}
		mu.Unlock()

		select {
		case <-release:
		case <-time.After(2 * time.Second):
		}

		mu.Lock()
		inFlight--
		mu.Unlock()
	}

	ctrl, sess := newTestController(t, view.PageIndex, srv.URL)
	require.NoError(t, sess.Save("tok", 1))
	require.NoError(t, ctrl.Bootstrap(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.GreaterOrEqual(t, peak, want)

	for _, path := range []string{"/reports/orders", "/products", "/bom", "/orders", "/stock"} {
		assert.Positive(t, backend.count(http.MethodGet, path), path)
	}
}

func TestActiveCapabilitiesFollowPageElements(t *testing.T) {
	_, srv := newFakeBackend(t)
	names := func(page string) []string {
		ctrl, _ := newTestController(t, page, srv.URL)
		var out []string
		for _, capability := range ctrl.Active() {
			out = append(out, capability.Name)
		}
		return out
	}

	assert.Equal(t, []string{"kpis", "products", "boms", "orders", "work-orders", "stock"}, names(view.PageIndex))
	assert.Equal(t, []string{"stock", "components"}, names(view.PageStock))
	assert.Equal(t, []string{"boms"}, names(view.PageBOM))
	assert.Equal(t, []string{"work-orders"}, names(view.PageWorkOrders))
}

func TestOrdersEditableOnlyOnOrdersPage(t *testing.T) {
	backend, srv := newFakeBackend(t)
	backend.orders = []models.ManufacturingOrder{{ID: 5, ProductID: 2, Quantity: 3, Status: models.OrderInProgress}}

	orders, sess := newTestController(t, view.PageOrders, srv.URL)
	require.NoError(t, sess.Save("tok", 1))
	require.NoError(t, orders.Bootstrap(context.Background()))
	table := content(orders, view.ElemMOTable)
	assert.Contains(t, table, `<select id="mo-status-5"`)
	assert.Contains(t, table, `<option value="in_progress" selected>in progress</option>`)
	assert.Contains(t, table, `action="/orders/5/delete"`)

	index, sess := newTestController(t, view.PageIndex, srv.URL)
	require.NoError(t, sess.Save("tok", 1))
	require.NoError(t, index.LoadOrders(context.Background()))
	table = content(index, view.ElemMOTable)
	assert.NotContains(t, table, "<select")
	assert.Contains(t, table, "in progress")
}

func TestFilterOrders(t *testing.T) {
	backend, srv := newFakeBackend(t)
	ctrl, sess := newTestController(t, view.PageOrders, srv.URL)
	require.NoError(t, sess.Save("tok", 1))

	require.NoError(t, ctrl.FilterOrders(context.Background(), "Planned"))
	reqs := backend.recorded()
	require.Len(t, reqs, 1)
	assert.Equal(t, "status=planned", reqs[0].Query)

	require.ErrorIs(t, ctrl.FilterOrders(context.Background(), "shipped"), ErrInvalidInput)
	assert.Len(t, backend.recorded(), 1)

	index, _ := newTestController(t, view.PageIndex, srv.URL)
	assert.ErrorIs(t, index.FilterOrders(context.Background(), ""), ErrNotOnPage)
}

func TestWorkOrdersJoinProducts(t *testing.T) {
	backend, srv := newFakeBackend(t)
	deadline := "2026-11-01"
	backend.orders = []models.ManufacturingOrder{
		{ID: 10, ProductID: 2, Quantity: 4, Status: models.OrderPlanned, Deadline: &deadline},
		{ID: 11, ProductID: 99, Status: "done"},
	}
	backend.products = []models.Product{{ID: 2, Name: "Chair", Type: models.ProductFinished}}
	ctrl, sess := newTestController(t, view.PageWorkOrders, srv.URL)
	require.NoError(t, sess.Save("tok", 1))

	require.NoError(t, ctrl.LoadWorkOrders(context.Background()))
	table := content(ctrl, view.ElemWOTable)
	assert.Contains(t, table, `<td title="Chair">2</td><td>Chair</td><td>10</td><td>Qty: 4 / Delivery: 2026-11-01</td><td>finished</td><td>planned</td>`)
	assert.Contains(t, table, `<td>11</td><td></td><td></td><td>done</td>`)
}

func TestUnknownBackendValuesRenderTheirOwnText(t *testing.T) {
	backend, srv := newFakeBackend(t)
	backend.orders = []models.ManufacturingOrder{{ID: 12, ProductID: 7, Quantity: 2, Status: "on_hold"}}
	backend.products = []models.Product{{ID: 7, Name: "Oil", Type: "consumable"}}

	wo, sess := newTestController(t, view.PageWorkOrders, srv.URL)
	require.NoError(t, sess.Save("tok", 1))
	require.NoError(t, wo.LoadWorkOrders(context.Background()))
	assert.Contains(t, content(wo, view.ElemWOTable), `<td>Qty: 2</td><td>consumable</td><td>on hold</td>`)

	products, sess := newTestController(t, view.PageProducts, srv.URL)
	require.NoError(t, sess.Save("tok", 1))
	require.NoError(t, products.LoadProducts(context.Background()))
	assert.Contains(t, content(products, view.ElemProductsTable), `<td>Oil</td><td>consumable</td>`)
}

func TestWorkOrdersNotices(t *testing.T) {
	backend, srv := newFakeBackend(t)
	ctrl, sess := newTestController(t, view.PageWorkOrders, srv.URL)
	require.NoError(t, sess.Save("tok", 1))

	require.NoError(t, ctrl.LoadWorkOrders(context.Background()))
	assert.Contains(t, content(ctrl, view.ElemWOTable), `colspan="6"`)
	assert.Contains(t, content(ctrl, view.ElemWOTable), "No orders found.")

	backend.fail(http.MethodGet, "/orders", http.StatusInternalServerError, "db down")
	require.Error(t, ctrl.LoadWorkOrders(context.Background()))
	assert.Contains(t, content(ctrl, view.ElemWOTable), `colspan="5"`)
	assert.Contains(t, content(ctrl, view.ElemWOTable), "Failed to load orders (status: 500).")
}

func TestStockFallsBackWhenLedgerFails(t *testing.T) {
	backend, srv := newFakeBackend(t)
	backend.products = []models.Product{
		{ID: 2, Name: "Bolt", Type: models.ProductComponent, StockQty: 40},
		{ID: 1, Name: "Steel", Type: models.ProductRaw, StockQty: 12},
	}
	backend.fail(http.MethodGet, "/stock", http.StatusInternalServerError, "ledger offline")
	ctrl, sess := newTestController(t, view.PageStock, srv.URL)
	require.NoError(t, sess.Save("tok", 1))

	require.NoError(t, ctrl.LoadStock(context.Background()))
	table := content(ctrl, view.ElemStockTable)
	assert.Contains(t, table, "<tr><td>1</td><td>Steel</td><td>1</td><td>raw</td><td>12</td></tr>")
	assert.Contains(t, table, "<tr><td>2</td><td>Bolt</td><td>2</td><td>component</td><td>40</td></tr>")
}

func TestStockUsesLedgerSums(t *testing.T) {
	backend, srv := newFakeBackend(t)
	backend.products = []models.Product{{ID: 1, Name: "Steel", Type: models.ProductRaw, StockQty: 12}}
	backend.ledger = []models.StockLedgerEntry{
		{ProductID: 1, MovementType: models.MovementIn, Quantity: 10},
		{ProductID: 1, MovementType: models.MovementOut, Quantity: 3},
	}
	ctrl, sess := newTestController(t, view.PageStock, srv.URL)
	require.NoError(t, sess.Save("tok", 1))

	require.NoError(t, ctrl.LoadStock(context.Background()))
	assert.Contains(t, content(ctrl, view.ElemStockTable), "<td>raw</td><td>7</td>")
}

func TestComponentsListMaterialsOnly(t *testing.T) {
	backend, srv := newFakeBackend(t)
	backend.products = []models.Product{
		{ID: 1, Name: "Steel", Type: models.ProductRaw},
		{ID: 2, Name: "Desk", Type: models.ProductFinished},
		{ID: 3, Name: "Bolt", Type: models.ProductComponent},
	}
	ctrl, sess := newTestController(t, view.PageStock, srv.URL)
	require.NoError(t, sess.Save("tok", 1))

	require.NoError(t, ctrl.LoadComponents(context.Background()))
	table := content(ctrl, view.ElemComponentsTable)
	assert.Contains(t, table, "Steel")
	assert.Contains(t, table, "Bolt")
	assert.NotContains(t, table, "Desk")
}

func TestLookupBOMByOrder(t *testing.T) {
	backend, srv := newFakeBackend(t)
	backend.orders = []models.ManufacturingOrder{
		{ID: 3, ProductID: 9},
		{ID: 4, ProductID: 8},
	}
	backend.products = []models.Product{
		{ID: 9, Name: "Widget"},
		{ID: 8, Name: "Oak Dining Table"},
	}
	ctrl, _ := newTestController(t, view.PageBOM, srv.URL)
	ctx := context.Background()

	require.ErrorIs(t, ctrl.LookupBOMByOrder(ctx, "  "), ErrInvalidInput)
	assert.Contains(t, content(ctrl, view.ElemBOMResult), "Please enter an order ID.")

	require.ErrorIs(t, ctrl.LookupBOMByOrder(ctx, "abc"), ErrInvalidInput)
	assert.Contains(t, content(ctrl, view.ElemBOMResult), "Order ID must be numeric.")
	assert.Empty(t, backend.recorded())

	require.NoError(t, ctrl.LookupBOMByOrder(ctx, "42"))
	assert.Contains(t, content(ctrl, view.ElemBOMResult), "Order #42 not found.")

	require.NoError(t, ctrl.LookupBOMByOrder(ctx, "3"))
	assert.Contains(t, content(ctrl, view.ElemBOMResult), "Product 'Widget' does not have a predefined BOM.")

	require.NoError(t, ctrl.LookupBOMByOrder(ctx, "4"))
	assert.Contains(t, content(ctrl, view.ElemBOMResult), "bom-total")

	backend.fail(http.MethodGet, "/orders", http.StatusInternalServerError, "down")
	require.Error(t, ctrl.LookupBOMByOrder(ctx, "4"))
	assert.Contains(t, content(ctrl, view.ElemBOMResult), "Could not fetch orders.")
}

func TestRenderAuthControlsAppliesTheme(t *testing.T) {
	_, srv := newFakeBackend(t)
	ctrl, _ := newTestController(t, view.PageIndex, srv.URL)

	theme, err := ctrl.ToggleTheme()
	require.NoError(t, err)
	assert.Equal(t, "light", theme)
	got, _ := ctrl.Document().RootAttr("data-theme")
	assert.Equal(t, "light", got)

	theme, err = ctrl.ToggleTheme()
	require.NoError(t, err)
	assert.Empty(t, theme)
}

func TestConsoleRerendersEveryPageOnSessionChange(t *testing.T) {
	_, srv := newFakeBackend(t)
	sess := session.NewManager(session.NewMemoryStore(), nil)
	c := New(sess, mfgapi.NewClient(srv.URL, sess, nil), nil)
	defer c.Close()

	require.Len(t, c.Pages(), len(view.Layouts))
	require.NoError(t, sess.Save("tok", 4))

	for _, ctrl := range c.Pages() {
		auth, _ := ctrl.Document().RootAttr("data-auth")
		assert.Equal(t, "true", auth, ctrl.Layout().Name)
		assert.Equal(t, "User: 4", content(ctrl, view.ElemWhoAmI))
	}
	orders, ok := c.Page(view.PageOrders)
	require.True(t, ok)
	assert.True(t, orders.Document().HasBodyAttr("data-show-orders"))

	require.NoError(t, sess.Clear())
	index, _ := c.Page(view.PageIndex)
	auth, _ := index.Document().RootAttr("data-auth")
	assert.Equal(t, "false", auth)

	_, ok = c.Page("missing")
	assert.False(t, ok)
}

func decodeBody(t *testing.T, raw string, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(raw), dst))
}
