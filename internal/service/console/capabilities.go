package console

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mamadbah2/mfgconsole/internal/view"
)

// Loader fetches one collection and renders it into the document.
type Loader func(ctx context.Context) error

// Capability binds a loader to the element whose presence enables it.
type Capability struct {
	RequiredElement string
	Name            string
	Loader          Loader
}

// Capabilities returns the loaders a page may run, in declaration order.
func (c *Controller) Capabilities() []Capability {
	return []Capability{
		{RequiredElement: view.ElemKPIs, Name: "kpis", Loader: c.LoadKPIs},
		{RequiredElement: view.ElemProductsTable, Name: "products", Loader: c.LoadProducts},
		{RequiredElement: view.ElemBOMTable, Name: "boms", Loader: c.LoadBOMs},
		{RequiredElement: view.ElemMOTable, Name: "orders", Loader: c.LoadOrders},
		{RequiredElement: view.ElemWOTable, Name: "work-orders", Loader: c.LoadWorkOrders},
		{RequiredElement: view.ElemStockTable, Name: "stock", Loader: c.LoadStock},
		{RequiredElement: view.ElemComponentsTable, Name: "components", Loader: c.LoadComponents},
	}
}

// Active lists the capabilities whose element is on this page.
func (c *Controller) Active() []Capability {
	var active []Capability
	for _, capability := range c.Capabilities() {
		if c.doc.Has(capability.RequiredElement) {
			active = append(active, capability)
		}
	}
	return active
}

// Bootstrap applies the auth contract and runs every active loader concurrently.
// It returns once all loaders have finished; the first failure is returned.
func (c *Controller) Bootstrap(ctx context.Context) error {
	c.RenderAuthControls()

	active := c.Active()
	loaders := make([]Loader, 0, len(active))
	for _, capability := range active {
		loaders = append(loaders, capability.Loader)
	}
	err := c.reload(ctx, loaders...)
	if err != nil {
		c.logger.Warn("bootstrap finished with errors", zap.Int("loaders", len(loaders)), zap.Error(err))
	}
	return err
}

// reload runs loaders concurrently. Each writes its own region, and a failing
// loader does not cancel the others.
func (c *Controller) reload(ctx context.Context, loaders ...Loader) error {
	var g errgroup.Group
	for _, load := range loaders {
		g.Go(func() error { return load(ctx) })
	}
	return g.Wait()
}
