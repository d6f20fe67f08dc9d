package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/mfgconsole/internal/domain/models"
	"github.com/mamadbah2/mfgconsole/internal/service/console"
	"github.com/mamadbah2/mfgconsole/internal/view"
	"github.com/mamadbah2/mfgconsole/pkg/clients/mfgapi"
)

const defaultSnapshotLimit = 30

// Exporter downloads the backend order report.
type Exporter interface {
	ExportReport(ctx context.Context) (*models.ExportFile, error)
}

// SnapshotHistory reads archived KPI snapshots.
type SnapshotHistory interface {
	RecentKPISnapshots(ctx context.Context, limit int64) ([]models.KPISnapshot, error)
}

// ConsoleHandler serves the console pages and their form actions.
type ConsoleHandler struct {
	pages    *console.Console
	exporter Exporter
	history  SnapshotHistory
	logger   *zap.Logger
}

// NewConsoleHandler constructs the HTTP handler adapter. history may be nil when no archive is configured.
func NewConsoleHandler(pages *console.Console, exporter Exporter, history SnapshotHistory, logger *zap.Logger) *ConsoleHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleHandler{pages: pages, exporter: exporter, history: history, logger: logger}
}

// Page bootstraps and renders a page. On the orders page a status query filters the table.
func (h *ConsoleHandler) Page(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctrl, ok := h.pages.Page(name)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown page"})
			return
		}

		ctx := c.Request.Context()
		if err := ctrl.Bootstrap(ctx); err != nil {
			h.logger.Debug("page bootstrap incomplete", zap.String("page", name), zap.Error(err))
		}
		if status := c.Query("status"); status != "" {
			if err := ctrl.FilterOrders(ctx, status); err != nil {
				h.logger.Debug("order filter failed", zap.String("status", status), zap.Error(err))
			}
		}
		h.render(c, ctrl, http.StatusOK)
	}
}

// Login authenticates with the posted credentials.
func (h *ConsoleHandler) Login(c *gin.Context) {
	h.act(c, func(ctx context.Context, ctrl *console.Controller) error {
		return ctrl.Login(ctx, c.PostForm("email"), c.PostForm("password"))
	})
}

// Signup registers with the posted credentials.
func (h *ConsoleHandler) Signup(c *gin.Context) {
	h.act(c, func(ctx context.Context, ctrl *console.Controller) error {
		return ctrl.Signup(ctx, c.PostForm("email"), c.PostForm("password"))
	})
}

// Logout clears the session.
func (h *ConsoleHandler) Logout(c *gin.Context) {
	h.act(c, func(_ context.Context, ctrl *console.Controller) error {
		return ctrl.Logout()
	})
}

// ToggleTheme flips the stored theme preference.
func (h *ConsoleHandler) ToggleTheme(c *gin.Context) {
	h.act(c, func(_ context.Context, ctrl *console.Controller) error {
		_, err := ctrl.ToggleTheme()
		return err
	})
}

func (h *ConsoleHandler) CreateProduct(c *gin.Context) {
	h.act(c, func(ctx context.Context, ctrl *console.Controller) error {
		return ctrl.CreateProduct(ctx, console.ProductForm{
			Name:     c.PostForm("name"),
			Type:     c.PostForm("type"),
			StockQty: c.PostForm("stock_qty"),
		})
	})
}

func (h *ConsoleHandler) DeleteProduct(c *gin.Context) {
	h.act(c, func(ctx context.Context, ctrl *console.Controller) error {
		return ctrl.DeleteProduct(ctx, c.Param("id"))
	})
}

func (h *ConsoleHandler) CreateBOM(c *gin.Context) {
	h.act(c, func(ctx context.Context, ctrl *console.Controller) error {
		return ctrl.CreateBOM(ctx, console.BOMForm{
			ProductID:  c.PostForm("product_id"),
			Components: c.PostForm("components"),
			Operations: c.PostForm("operations"),
		})
	})
}

func (h *ConsoleHandler) LookupBOM(c *gin.Context) {
	h.act(c, func(ctx context.Context, ctrl *console.Controller) error {
		return ctrl.LookupBOMByOrder(ctx, c.PostForm("order_id"))
	})
}

func (h *ConsoleHandler) CreateOrder(c *gin.Context) {
	h.act(c, func(ctx context.Context, ctrl *console.Controller) error {
		return ctrl.CreateOrder(ctx, console.OrderForm{
			ProductID: c.PostForm("product_id"),
			Quantity:  c.PostForm("quantity"),
			Deadline:  c.PostForm("deadline"),
		})
	})
}

func (h *ConsoleHandler) UpdateOrderStatus(c *gin.Context) {
	h.act(c, func(ctx context.Context, ctrl *console.Controller) error {
		return ctrl.UpdateOrderStatus(ctx, c.Param("id"), c.PostForm("status"))
	})
}

func (h *ConsoleHandler) DeleteOrder(c *gin.Context) {
	h.act(c, func(ctx context.Context, ctrl *console.Controller) error {
		return ctrl.DeleteOrder(ctx, c.Param("id"))
	})
}

func (h *ConsoleHandler) UpdateWorkOrderStatus(c *gin.Context) {
	h.act(c, func(ctx context.Context, ctrl *console.Controller) error {
		return ctrl.UpdateWorkOrderStatus(ctx, c.PostForm("id"), c.PostForm("status"))
	})
}

// Export streams the backend's spreadsheet to the browser.
func (h *ConsoleHandler) Export(c *gin.Context) {
	file, err := h.exporter.ExportReport(c.Request.Context())
	if err != nil {
		h.logger.Error("report export failed", zap.Error(err))
		status := http.StatusBadGateway
		if code := mfgapi.StatusCode(err); code == http.StatusUnauthorized || code == http.StatusForbidden {
			status = code
		}
		c.JSON(status, gin.H{"error": "unable to export report"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Body)
}

// Snapshots lists archived KPI snapshots, newest first.
func (h *ConsoleHandler) Snapshots(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "kpi archive not configured"})
		return
	}

	limit := int64(defaultSnapshotLimit)
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	snapshots, err := h.history.RecentKPISnapshots(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("failed reading kpi snapshots", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read kpi snapshots"})
		return
	}
	c.JSON(http.StatusOK, snapshots)
}

// act resolves the posting page, runs the action and renders the page in place.
func (h *ConsoleHandler) act(c *gin.Context, action func(context.Context, *console.Controller) error) {
	name := c.DefaultPostForm("page", view.PageIndex)
	ctrl, ok := h.pages.Page(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown page"})
		return
	}

	status := http.StatusOK
	err := action(c.Request.Context(), ctrl)
	switch {
	case err == nil:
	case errors.Is(err, console.ErrNotOnPage):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case errors.Is(err, console.ErrInvalidInput):
		status = http.StatusUnprocessableEntity
	default:
		h.logger.Warn("console action failed", zap.String("page", name), zap.String("path", c.FullPath()), zap.Error(err))
	}
	h.render(c, ctrl, status)
}

func (h *ConsoleHandler) render(c *gin.Context, ctrl *console.Controller, status int) {
	var buf bytes.Buffer
	if err := view.RenderPage(&buf, ctrl.Document().Snapshot()); err != nil {
		h.logger.Error("failed rendering page", zap.Error(err))
		c.String(http.StatusInternalServerError, "render failed")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}
