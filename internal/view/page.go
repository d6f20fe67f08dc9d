package view

import (
	"fmt"
	"html/template"
	"io"

	"github.com/mamadbah2/mfgconsole/internal/domain/models"
)

const pageSource = `<!doctype html>
<html lang="en" data-auth="{{index .RootAttrs "data-auth"}}"{{with index .RootAttrs "data-theme"}} data-theme="{{.}}"{{end}}>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}} · Manufacturing Console</title>
<style>
body{font-family:system-ui,sans-serif;margin:0;background:#10141f;color:#e6e9f2}
html[data-theme=light] body{background:#f6f7fb;color:#1c2030}
header{display:flex;justify-content:space-between;align-items:center;padding:12px 20px;border-bottom:1px solid #2a3142}
nav a{margin-right:14px;color:inherit}
main{max-width:1100px;margin:0 auto;padding:16px}
section{margin-bottom:22px}
table{width:100%;border-collapse:collapse}
td,th{padding:6px;border-bottom:1px solid #2a3142;text-align:left}
.card{display:inline-block;padding:10px 14px;margin:4px;border:1px solid #2a3142;border-radius:6px}
.muted{opacity:.7}
form.inline{display:inline}
.bom-total{margin-top:8px;font-weight:700}
</style>
</head>
<body{{with index .BodyAttrs "data-auth"}} data-auth="{{.}}"{{end}}{{with index .BodyAttrs "data-show-orders"}} data-show-orders="{{.}}"{{end}}>
<header>
<strong>Manufacturing Console</strong>
{{with index .Elements "nav"}}<nav{{if .Hidden}} style="display:none"{{end}}>{{range $.Nav}}<a href="{{.Path}}">{{.Title}}</a>{{end}}</nav>{{end}}
<form method="post" action="/theme" class="inline"><input type="hidden" name="page" value="{{.Page}}"><button class="theme-toggle" title="Toggle light / dark theme">Theme</button></form>
</header>
<main>
<section id="authControls">
{{with index .Elements "loginForm"}}<form id="loginForm" method="post" action="/auth/login"{{if .Hidden}} style="display:none"{{end}}>
<input type="hidden" name="page" value="{{$.Page}}">
<input id="emailInput" name="email" type="email" placeholder="Email">
<input id="passwordInput" name="password" type="password" placeholder="Password">
<button>Login</button>
<button formaction="/auth/signup">Sign up</button>
</form>{{end}}
{{with index .Elements "logoutPane"}}<div id="logoutPane"{{if .Hidden}} style="display:none"{{end}}>
<span id="whoami">{{(index $.Elements "whoami").Content}}</span>
<form method="post" action="/auth/logout" class="inline"><input type="hidden" name="page" value="{{$.Page}}"><button>Logout</button></form>
</div>{{end}}
<div id="authMessage">{{with index .Elements "authMessage"}}{{.Content}}{{end}}</div>
</section>
{{range .Order}}{{with index $.Elements .}}{{if .Panel}}{{template "panel" (panelData $ .)}}{{end}}{{end}}{{end}}
</main>
</body>
</html>

{{define "panel"}}<section id="{{.El.ID}}-panel"{{if .El.Hidden}} style="display:none"{{end}}>
{{if eq .El.ID "kpis"}}<h2>Orders</h2><div id="kpis">{{.El.Content}}</div>
{{else if eq .El.ID "productsTable"}}<h2>Products</h2><table id="productsTable"><thead><tr><th>ID</th><th>Name</th><th>Type</th><th>Stock</th><th>Owner</th><th></th></tr></thead><tbody>{{.El.Content}}</tbody></table>
{{else if eq .El.ID "productForm"}}<h2>New product</h2><form id="productForm" method="post" action="/products"><input type="hidden" name="page" value="{{.Page}}"><input name="name" placeholder="Name"><select name="type">{{range productTypes}}<option value="{{.}}">{{.Label}}</option>{{end}}</select><input name="stock_qty" placeholder="Stock qty"><button>Create</button></form>
{{else if eq .El.ID "bomTable"}}<h2>Bills of materials</h2><table id="bomTable"><thead><tr><th>ID</th><th>Product</th><th>Components</th><th>Operations</th></tr></thead><tbody>{{.El.Content}}</tbody></table>
{{else if eq .El.ID "bomForm"}}<h2>New BOM</h2><form id="bomForm" method="post" action="/bom"><input type="hidden" name="page" value="{{.Page}}"><input name="product_id" placeholder="Product ID"><textarea name="components" placeholder='[{"product_id":1,"qty":2}]'></textarea><textarea name="operations" placeholder='[{"name":"cut","work_center":"WC1","time":10}]'></textarea><button>Create BOM</button></form>
{{else if eq .El.ID "orderLookup"}}<h2>BOM by order</h2><form method="post" action="/bom/lookup"><input type="hidden" name="page" value="{{.Page}}"><input id="orderLookupId" name="order_id" placeholder="Order ID"><button id="orderLookupBtn">Lookup</button></form><div id="bomResult">{{.Result}}</div>
{{else if eq .El.ID "moFilter"}}<form method="get" action="/orders"><select name="status"><option value="">all</option><option value="planned">planned</option><option value="in_progress">in progress</option><option value="confirmed">confirmed</option></select><button>Filter</button></form>
{{else if eq .El.ID "moTable"}}<h2>Manufacturing orders</h2><table id="moTable"><thead><tr><th>ID</th><th>Product</th><th>Qty</th><th>Status</th><th></th></tr></thead><tbody>{{.El.Content}}</tbody></table>
{{else if eq .El.ID "moForm"}}<h2>New order</h2><form id="moForm" method="post" action="/orders"><input type="hidden" name="page" value="{{.Page}}"><input name="product_id" placeholder="Product ID"><input name="quantity" placeholder="Quantity"><input name="deadline" type="date"><button>Create order</button></form>
{{else if eq .El.ID "woTable"}}<h2>Work orders</h2><table id="woTable"><thead><tr><th>Product</th><th>Name</th><th>MO</th><th>Qty / Delivery</th><th>Operation</th><th>Status</th></tr></thead><tbody>{{.El.Content}}</tbody></table>
{{else if eq .El.ID "woStatusForm"}}<h2>Update work order</h2><form method="post" action="/work-orders/status"><input type="hidden" name="page" value="{{.Page}}"><input name="id" placeholder="Work order ID"><select name="status"><option value="planned">planned</option><option value="started">started</option><option value="completed">completed</option></select><button>Update</button></form>
{{else if eq .El.ID "stockTable"}}<h2>Stock</h2><table id="stockTable"><thead><tr><th>#</th><th>Product</th><th>ID</th><th>Type</th><th>On hand</th></tr></thead><tbody>{{.El.Content}}</tbody></table>
{{else if eq .El.ID "componentsTable"}}<h2>Components</h2><table id="componentsTable"><thead><tr><th>ID</th><th>Name</th><th>Stock</th></tr></thead><tbody>{{.El.Content}}</tbody></table>
{{else if eq .El.ID "reportExport"}}<a href="/reports/export">Download order report</a>
{{else}}<div id="{{.El.ID}}">{{.El.Content}}</div>
{{end}}</section>{{end}}
`

type navLink struct {
	Path  string
	Title string
}

type pageData struct {
	Snapshot
	Nav []navLink
}

type panelData struct {
	Page   string
	El     *Element
	Result template.HTML
}

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"panelData": func(p pageData, el *Element) panelData {
		data := panelData{Page: p.Page, El: el}
		if res, ok := p.Elements[ElemBOMResult]; ok {
			data.Result = res.Content
		}
		return data
	},
	"productTypes": func() []models.ProductType { return models.ProductTypes },
}).Parse(pageSource))

// RenderPage writes the full HTML page for a snapshot.
func RenderPage(w io.Writer, snap Snapshot) error {
	data := pageData{Snapshot: snap}
	for _, l := range Layouts {
		data.Nav = append(data.Nav, navLink{Path: l.Path, Title: l.Title})
	}
	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("render page %s: %w", snap.Page, err)
	}
	return nil
}
