// Package console binds the session, the backend client and the page documents: it decides
// from token presence what is fetched and shown, loads each panel, and reloads dependent
// panels after every mutating action.
package console

import (
	"errors"
	"html"

	"go.uber.org/zap"

	"github.com/mamadbah2/mfgconsole/internal/session"
	"github.com/mamadbah2/mfgconsole/internal/view"
	"github.com/mamadbah2/mfgconsole/pkg/clients/mfgapi"
)

const (
	msgUnreachable      = "Failed to reach the backend. Is the server running?"
	msgNotAuthenticated = "Not authenticated, please log in."
)

// ErrInvalidInput marks form input rejected before any request was sent.
var ErrInvalidInput = errors.New("invalid input")

// ErrNotOnPage is returned when an action's form is not part of the page.
var ErrNotOnPage = errors.New("feature not on this page")

// Controller drives one page document.
type Controller struct {
	layout  view.Layout
	doc     *view.Document
	session *session.Manager
	api     mfgapi.Client
	logger  *zap.Logger
}

// NewController builds the controller and an empty document for layout.
func NewController(layout view.Layout, sess *session.Manager, api mfgapi.Client, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		layout:  layout,
		doc:     view.NewPage(layout),
		session: sess,
		api:     api,
		logger:  logger.With(zap.String("page", layout.Name)),
	}
}

// Document exposes the page state for rendering.
func (c *Controller) Document() *view.Document { return c.doc }

// Layout returns the page layout.
func (c *Controller) Layout() view.Layout { return c.layout }

// IsAuthenticated reports whether the session holds a token.
func (c *Controller) IsAuthenticated() bool { return c.session.IsAuthenticated() }

// Message returns the text currently shown in the auth message area.
func (c *Controller) Message() string {
	return html.UnescapeString(string(c.doc.Content(view.ElemAuthMessage)))
}

func (c *Controller) showAuthMessage(msg string) {
	c.doc.SetText(view.ElemAuthMessage, msg)
}

// loadFailed logs a loader failure and shows the connectivity or auth message when relevant.
// Any other failure leaves the view as it was.
func (c *Controller) loadFailed(what string, err error) error {
	switch {
	case mfgapi.IsUnreachable(err):
		c.showAuthMessage(msgUnreachable)
	case mfgapi.IsUnauthorized(err):
		c.showAuthMessage(msgNotAuthenticated)
	}
	c.logger.Error(what+" load failed", zap.Int("status", mfgapi.StatusCode(err)), zap.Error(err))
	return err
}

// actionFailed surfaces a failed mutation: the backend's error text, or fallback.
func (c *Controller) actionFailed(action string, err error, fallback, unreachable string) error {
	if mfgapi.IsUnreachable(err) {
		c.showAuthMessage(unreachable)
	} else {
		c.showAuthMessage(mfgapi.Message(err, fallback))
	}
	c.logger.Warn(action+" failed", zap.Int("status", mfgapi.StatusCode(err)), zap.Error(err))
	return err
}

func (c *Controller) rejectInput(msg string) error {
	c.showAuthMessage(msg)
	return ErrInvalidInput
}
