// Package view holds the console's server-side document model: named element regions whose
// content is replaced wholesale by loaders, plus root/body attributes and visibility flags.
package view

import (
	"html/template"
	"sync"
)

// Slot declares an element present on a page. Panels are the main-area sections hidden
// while signed out.
type Slot struct {
	ID    string
	Panel bool
}

// Element is a snapshot of one region.
type Element struct {
	ID      string
	Panel   bool
	Hidden  bool
	Content template.HTML
}

// Document is one page's live state. Every method is safe for concurrent use; each write
// replaces a single region atomically.
type Document struct {
	mu        sync.RWMutex
	page      string
	title     string
	order     []string
	elements  map[string]*Element
	rootAttrs map[string]string
	bodyAttrs map[string]string
}

// NewDocument builds an empty document containing exactly the given slots.
func NewDocument(page, title string, slots []Slot) *Document {
	d := &Document{
		page:      page,
		title:     title,
		elements:  make(map[string]*Element, len(slots)),
		rootAttrs: make(map[string]string),
		bodyAttrs: make(map[string]string),
	}
	for _, s := range slots {
		if _, dup := d.elements[s.ID]; dup {
			continue
		}
		d.order = append(d.order, s.ID)
		d.elements[s.ID] = &Element{ID: s.ID, Panel: s.Panel}
	}
	return d
}

// Page returns the page name the document was built for.
func (d *Document) Page() string { return d.page }

// Has reports whether the element exists on this page.
func (d *Document) Has(id string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.elements[id]
	return ok
}

// Replace swaps the element content. Absent elements are ignored and false is returned.
func (d *Document) Replace(id string, content template.HTML) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	el, ok := d.elements[id]
	if !ok {
		return false
	}
	el.Content = content
	return true
}

// SetText replaces the element content with escaped text.
func (d *Document) SetText(id, text string) bool {
	return d.Replace(id, template.HTML(template.HTMLEscapeString(text)))
}

// Content returns the current element content ("" when absent).
func (d *Document) Content(id string) template.HTML {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if el, ok := d.elements[id]; ok {
		return el.Content
	}
	return ""
}

// SetHidden toggles an element's visibility.
func (d *Document) SetHidden(id string, hidden bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if el, ok := d.elements[id]; ok {
		el.Hidden = hidden
	}
}

// Hidden reports whether an element is hidden. Absent elements report true.
func (d *Document) Hidden(id string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if el, ok := d.elements[id]; ok {
		return el.Hidden
	}
	return true
}

// Panels lists the panel ids in page order.
func (d *Document) Panels() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var ids []string
	for _, id := range d.order {
		if d.elements[id].Panel {
			ids = append(ids, id)
		}
	}
	return ids
}

// SetRootAttr sets an attribute on the document root.
func (d *Document) SetRootAttr(name, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rootAttrs[name] = value
}

// RootAttr reads a root attribute.
func (d *Document) RootAttr(name string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	v, ok := d.rootAttrs[name]
	return v, ok
}

// SetBodyAttr sets an attribute on the body.
func (d *Document) SetBodyAttr(name, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.bodyAttrs[name] = value
}

// RemoveBodyAttr deletes a body attribute.
func (d *Document) RemoveBodyAttr(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.bodyAttrs, name)
}

// HasBodyAttr reports whether the body carries the attribute.
func (d *Document) HasBodyAttr(name string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.bodyAttrs[name]
	return ok
}

// Snapshot is an immutable copy of a Document used for rendering.
type Snapshot struct {
	Page      string
	Title     string
	Order     []string
	Elements  map[string]*Element
	RootAttrs map[string]string
	BodyAttrs map[string]string
}

// Snapshot copies the document state.
func (d *Document) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()

	snap := Snapshot{
		Page:      d.page,
		Title:     d.title,
		Order:     append([]string(nil), d.order...),
		Elements:  make(map[string]*Element, len(d.elements)),
		RootAttrs: make(map[string]string, len(d.rootAttrs)),
		BodyAttrs: make(map[string]string, len(d.bodyAttrs)),
	}
	for id, el := range d.elements {
		cp := *el
		snap.Elements[id] = &cp
	}
	for k, v := range d.rootAttrs {
		snap.RootAttrs[k] = v
	}
	for k, v := range d.bodyAttrs {
		snap.BodyAttrs[k] = v
	}
	return snap
}
