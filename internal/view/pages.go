package view

import "fmt"

// Element identifiers shared by the templates and the controllers.
const (
	ElemNav          = "nav"
	ElemAuthControls = "authControls"
	ElemLoginForm    = "loginForm"
	ElemLogoutPane   = "logoutPane"
	ElemWhoAmI       = "whoami"
	ElemAuthMessage  = "authMessage"
	ElemOrdersPage   = "ordersPage"

	ElemKPIs            = "kpis"
	ElemProductsTable   = "productsTable"
	ElemProductForm     = "productForm"
	ElemBOMTable        = "bomTable"
	ElemBOMForm         = "bomForm"
	ElemOrderLookup     = "orderLookup"
	ElemBOMResult       = "bomResult"
	ElemMOTable         = "moTable"
	ElemMOForm          = "moForm"
	ElemMOFilter        = "moFilter"
	ElemWOTable         = "woTable"
	ElemWOStatusForm    = "woStatusForm"
	ElemStockTable      = "stockTable"
	ElemComponentsTable = "componentsTable"
	ElemExport          = "reportExport"
)

// Page names.
const (
	PageIndex      = "index"
	PageProducts   = "products"
	PageBOM        = "bom"
	PageOrders     = "orders"
	PageWorkOrders = "work-orders"
	PageStock      = "stock"
)

// Layout describes the markup of one page.
type Layout struct {
	Name  string
	Path  string
	Title string
	Slots []Slot
}

var chrome = []Slot{
	{ID: ElemNav},
	{ID: ElemAuthControls},
	{ID: ElemLoginForm},
	{ID: ElemLogoutPane},
	{ID: ElemWhoAmI},
	{ID: ElemAuthMessage},
}

func panels(ids ...string) []Slot {
	slots := make([]Slot, 0, len(ids))
	for _, id := range ids {
		slots = append(slots, Slot{ID: id, Panel: true})
	}
	return slots
}

func layout(name, path, title string, extra ...[]Slot) Layout {
	slots := append([]Slot(nil), chrome...)
	for _, group := range extra {
		slots = append(slots, group...)
	}
	return Layout{Name: name, Path: path, Title: title, Slots: slots}
}

// Layouts lists every console page in navigation order.
var Layouts = []Layout{
	layout(PageIndex, "/", "Dashboard",
		panels(ElemKPIs, ElemMOTable, ElemWOTable, ElemProductsTable, ElemBOMTable, ElemStockTable, ElemExport)),
	layout(PageProducts, "/products", "Products",
		panels(ElemProductsTable, ElemProductForm)),
	layout(PageBOM, "/bom", "Bills of Materials",
		panels(ElemBOMTable, ElemBOMForm, ElemOrderLookup), []Slot{{ID: ElemBOMResult}}),
	layout(PageOrders, "/orders", "Manufacturing Orders",
		[]Slot{{ID: ElemOrdersPage}}, panels(ElemMOFilter, ElemMOTable, ElemMOForm)),
	layout(PageWorkOrders, "/work-orders", "Work Orders",
		panels(ElemWOTable, ElemWOStatusForm)),
	layout(PageStock, "/stock", "Stock",
		panels(ElemStockTable, ElemComponentsTable)),
}

// LayoutFor finds a page layout by name.
func LayoutFor(name string) (Layout, error) {
	for _, l := range Layouts {
		if l.Name == name {
			return l, nil
		}
	}
	return Layout{}, fmt.Errorf("unknown page %q", name)
}

// NewPage builds the document for a layout.
func NewPage(l Layout) *Document {
	return NewDocument(l.Name, l.Title, l.Slots)
}
