package console

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/mfgconsole/internal/domain/models"
	"github.com/mamadbah2/mfgconsole/internal/view"
	"github.com/mamadbah2/mfgconsole/pkg/clients/mfgapi"
)

// Login authenticates and, on success, persists the session and reloads the page.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	return c.authenticate(ctx, outcome{
		action:      "login",
		fallback:    "Login failed",
		unreachable: "Login request failed",
	}, models.Credentials{Email: email, Password: password}, c.api.Login)
}

// Signup registers a user and signs them in.
func (c *Controller) Signup(ctx context.Context, email, password string) error {
	return c.authenticate(ctx, outcome{
		action:      "signup",
		fallback:    "Signup failed",
		unreachable: "Signup request failed",
	}, models.Credentials{Email: email, Password: password}, c.api.Signup)
}

type authCall func(context.Context, models.Credentials) (*models.AuthResponse, error)

func (c *Controller) authenticate(ctx context.Context, out outcome, creds models.Credentials, call authCall) error {
	op, fallback := out.action, out.fallback
	creds.Email = strings.TrimSpace(creds.Email)

	resp, err := call(ctx, creds)
	if err != nil {
		if mfgapi.IsUnreachable(err) {
			c.showAuthMessage(out.unreachable)
		} else {
			c.showAuthMessage(mfgapi.Message(err, fallback))
		}
		c.logger.Warn(op+" failed", zap.Int("status", mfgapi.StatusCode(err)), zap.Error(err))
		return err
	}
	if resp.Token == "" {
		c.showAuthMessage(fallback)
		return fmt.Errorf("%s: response carried no token", op)
	}
	if err := c.session.Save(resp.Token, resp.ID); err != nil {
		c.showAuthMessage(fallback)
		return fmt.Errorf("%s: %w", op, err)
	}

	c.logger.Info(op+" succeeded", zap.Int64("user_id", resp.ID))
	c.showAuthMessage("")
	return c.Bootstrap(ctx)
}

// Logout drops the session and renders the signed-out view.
func (c *Controller) Logout() error {
	if err := c.session.Clear(); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	c.RenderAuthControls()
	c.showAuthMessage("Logged out")
	return nil
}

// RenderAuthControls applies the visibility contract for the current session.
func (c *Controller) RenderAuthControls() {
	authed := c.IsAuthenticated()

	c.doc.SetRootAttr("data-auth", fmt.Sprint(authed))
	if authed {
		c.doc.SetBodyAttr("data-auth", "true")
	} else {
		c.doc.RemoveBodyAttr("data-auth")
	}

	c.doc.SetHidden(view.ElemLoginForm, authed)
	c.doc.SetHidden(view.ElemLogoutPane, !authed)
	c.doc.SetHidden(view.ElemNav, !authed)
	for _, panel := range c.doc.Panels() {
		c.doc.SetHidden(panel, !authed)
	}

	if authed {
		if id, ok := c.session.UserID(); ok {
			c.doc.SetText(view.ElemWhoAmI, fmt.Sprintf("User: %d", id))
		} else {
			c.doc.SetText(view.ElemWhoAmI, "Authenticated")
		}
	} else {
		c.doc.SetText(view.ElemWhoAmI, "")
	}

	if authed && c.doc.Has(view.ElemOrdersPage) {
		c.doc.SetBodyAttr("data-show-orders", "true")
	} else {
		c.doc.RemoveBodyAttr("data-show-orders")
	}

	c.applyTheme()
}

func (c *Controller) applyTheme() {
	c.doc.SetRootAttr("data-theme", c.session.Theme())
}

// ToggleTheme flips between the dark default and the light theme.
func (c *Controller) ToggleTheme() (string, error) {
	theme, err := c.session.ToggleTheme()
	if err != nil {
		return "", err
	}
	c.applyTheme()
	return theme, nil
}
