package console

import (
	"go.uber.org/zap"

	"github.com/mamadbah2/mfgconsole/internal/session"
	"github.com/mamadbah2/mfgconsole/internal/view"
	"github.com/mamadbah2/mfgconsole/pkg/clients/mfgapi"
)

// Console holds one controller per page and keeps their auth state in step with the session.
type Console struct {
	pages       map[string]*Controller
	ordered     []*Controller
	logger      *zap.Logger
	unsubscribe func()
}

// New builds a controller for every layout and subscribes to session changes.
func New(sess *session.Manager, api mfgapi.Client, logger *zap.Logger) *Console {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Console{
		pages:  make(map[string]*Controller, len(view.Layouts)),
		logger: logger,
	}
	for _, layout := range view.Layouts {
		ctrl := NewController(layout, sess, api, logger)
		c.pages[layout.Name] = ctrl
		c.ordered = append(c.ordered, ctrl)
	}
	c.unsubscribe = sess.Subscribe(c.onSessionChange)
	return c
}

// Page returns the controller for a page name.
func (c *Console) Page(name string) (*Controller, bool) {
	ctrl, ok := c.pages[name]
	return ctrl, ok
}

// Pages returns every controller in layout order.
func (c *Console) Pages() []*Controller {
	return c.ordered
}

// Close stops listening for session changes.
func (c *Console) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
}

func (c *Console) onSessionChange(event session.Event) {
	c.logger.Debug("session changed",
		zap.String("origin", string(event.Origin)),
		zap.Bool("authenticated", event.Session.Authenticated()),
	)
	for _, ctrl := range c.ordered {
		ctrl.RenderAuthControls()
	}
}
