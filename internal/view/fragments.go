package view

import (
	"bytes"
	"fmt"
	"html/template"
)

const fragmentSource = `
{{define "muted"}}<small class="muted">{{.}}</small>{{end}}

{{define "kpis"}}<div class="card">Total: {{.Total}}</div><div class="card">Planned: {{.Planned}}</div><div class="card">In Progress: {{.InProgress}}</div><div class="card">Completed: {{.Completed}}</div>{{end}}

{{define "productRows"}}{{range .Rows}}<tr><td>{{.ID}}</td><td>{{.Name}}</td><td>{{.Type}}</td><td>{{.StockQty}}</td><td>{{.Owner}}</td><td>{{if .Mine}}<form method="post" action="/products/{{.ID}}/delete" class="inline"><input type="hidden" name="page" value="{{$.Page}}"><button class="auth-only" aria-label="Delete product {{.Name}}" title="Delete product {{.Name}}">Delete</button></form>{{end}}</td></tr>{{end}}{{end}}

{{define "bomRows"}}{{range .}}<tr><td>{{.ID}}</td><td>{{.ProductID}}</td><td><pre>{{.Components}}</pre></td><td><pre>{{.Operations}}</pre></td></tr>{{end}}{{end}}

{{define "orderRows"}}{{range .Rows}}<tr><td>{{.ID}}</td><td>{{.ProductID}}</td><td>{{.Quantity}}</td><td>{{if $.Editable}}<form method="post" action="/orders/{{.ID}}/status" class="inline"><input type="hidden" name="page" value="{{$.Page}}"><select id="mo-status-{{.ID}}" name="status">{{$current := .Status}}{{range $.Statuses}}<option value="{{.Value}}"{{if eq .Value $current}} selected{{end}}>{{.Label}}</option>{{end}}</select> <button class="auth-only orders-only">Update Status</button></form>{{else}}<span class="muted">{{.StatusLabel}}</span>{{end}}</td><td>{{if $.Editable}}<form method="post" action="/orders/{{.ID}}/delete" class="inline"><input type="hidden" name="page" value="{{$.Page}}"><button class="auth-only orders-only">Delete</button></form>{{end}}</td></tr>{{end}}{{end}}

{{define "workOrderRows"}}{{range .}}<tr><td title="{{.ProductName}}">{{.ProductID}}</td><td>{{.ProductName}}</td><td>{{.OrderID}}</td><td>{{.QtyDeadline}}</td><td>{{.Operation}}</td><td>{{.Status}}</td></tr>{{end}}{{end}}

{{define "tableNotice"}}<tr><td colspan="{{.Colspan}}" class="muted">{{.Text}}</td></tr>{{end}}

{{define "stockRows"}}{{range $i, $line := .}}<tr><td>{{inc $i}}</td><td>{{$line.Product.Name}}</td><td>{{$line.Product.ID}}</td><td>{{$line.Product.TypeLabel}}</td><td>{{$line.Quantity}}</td></tr>{{end}}{{end}}

{{define "componentRows"}}{{range .}}<tr><td>{{.ID}}</td><td>{{.Name}}</td><td>{{.StockQty}}</td></tr>{{end}}{{end}}

{{define "bomLookup"}}<h3>{{.Title}}</h3><table class="card bom-lookup"><thead><tr><th>Item No</th><th>Component</th><th>Qty</th><th>Est. Price (INR)</th></tr></thead><tbody>{{range $i, $l := .Lines}}<tr><td>{{inc $i}}</td><td>{{$l.Component}}</td><td>{{$l.Qty}}</td><td>{{$l.Price}}</td></tr>{{end}}</tbody></table><div class="bom-total">Total {{.Total}}</div>{{end}}
`

var fragments = template.Must(template.New("fragments").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(fragmentSource))

// Render executes a named fragment and returns trusted HTML.
func Render(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := fragments.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

// Muted renders a small muted notice.
func Muted(text string) template.HTML {
	html, err := Render("muted", text)
	if err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return html
}
