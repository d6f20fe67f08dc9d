package mfgapi

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/mamadbah2/mfgconsole/internal/domain/models"
)

const defaultExportName = "mo_report.xlsx"

// TokenSource yields the bearer token for the current session ("" when signed out).
type TokenSource interface {
	Token() string
}

// Client exposes the manufacturing backend operations used by the console.
type Client interface {
	Request(ctx context.Context, method, path string, body any) (*resty.Response, error)

	Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error)
	Signup(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error)

	ListProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, req models.CreateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int64) error

	ListBOMs(ctx context.Context) ([]models.BillOfMaterials, error)
	CreateBOM(ctx context.Context, req models.CreateBOMRequest) (*models.BillOfMaterials, error)

	ListOrders(ctx context.Context, status string) ([]models.ManufacturingOrder, error)
	CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.ManufacturingOrder, error)
	UpdateOrderStatus(ctx context.Context, req models.UpdateOrderStatusRequest) error
	DeleteOrder(ctx context.Context, id int64) error

	UpdateWorkOrderStatus(ctx context.Context, id int64, status models.WorkOrderStatus) error

	ListStockLedger(ctx context.Context) ([]models.StockLedgerEntry, error)

	OrderKPIs(ctx context.Context) (*models.OrderKPIs, error)
	ExportReport(ctx context.Context) (*models.ExportFile, error)
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
	tokens     TokenSource
	logger     *zap.Logger
	now        func() time.Time
}

var _ Client = (*APIClient)(nil)

// NewClient builds a backend client rooted at baseURL. No request timeout is set;
// callers bound requests through their context.
func NewClient(baseURL string, tokens TokenSource, logger *zap.Logger) *APIClient {
	if logger == nil {
		logger = zap.NewNop()
	}

	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetHeader("Content-Type", "application/json")

	return &APIClient{
		httpClient: restyClient,
		tokens:     tokens,
		logger:     logger,
		now:        time.Now,
	}
}

// Request performs a raw call with the session's bearer token attached. A transport
// failure is logged and returned wrapped in ErrBackendUnreachable, an undecodable body
// in ErrUnexpectedResponse; HTTP failures are left for the caller to inspect on the response.
func (c *APIClient) Request(ctx context.Context, method, path string, body any) (*resty.Response, error) {
	return c.execute(c.newRequest(ctx, body), method, path)
}

func (c *APIClient) Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error) {
	result := new(models.AuthResponse)
	if err := c.do(ctx, "login", http.MethodPost, "/auth/login", creds, nil, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *APIClient) Signup(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error) {
	result := new(models.AuthResponse)
	if err := c.do(ctx, "signup", http.MethodPost, "/auth/signup", creds, nil, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *APIClient) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.do(ctx, "list products", http.MethodGet, "/products", nil, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *APIClient) CreateProduct(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	result := new(models.Product)
	if err := c.do(ctx, "create product", http.MethodPost, "/products", req, nil, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *APIClient) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, "delete product", http.MethodDelete, "/products", nil, idQuery(id), nil)
}

func (c *APIClient) ListBOMs(ctx context.Context) ([]models.BillOfMaterials, error) {
	var boms []models.BillOfMaterials
	if err := c.do(ctx, "list boms", http.MethodGet, "/bom", nil, nil, &boms); err != nil {
		return nil, err
	}
	return boms, nil
}

func (c *APIClient) CreateBOM(ctx context.Context, req models.CreateBOMRequest) (*models.BillOfMaterials, error) {
	result := new(models.BillOfMaterials)
	if err := c.do(ctx, "create bom", http.MethodPost, "/bom", req, nil, result); err != nil {
		return nil, err
	}
	return result, nil
}

// ListOrders fetches manufacturing orders, filtered server-side when status is set.
func (c *APIClient) ListOrders(ctx context.Context, status string) ([]models.ManufacturingOrder, error) {
	var query url.Values
	if status != "" {
		query = url.Values{"status": []string{status}}
	}

	var orders []models.ManufacturingOrder
	if err := c.do(ctx, "list orders", http.MethodGet, "/orders", nil, query, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *APIClient) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.ManufacturingOrder, error) {
	result := new(models.ManufacturingOrder)
	if err := c.do(ctx, "create order", http.MethodPost, "/orders", req, nil, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *APIClient) UpdateOrderStatus(ctx context.Context, req models.UpdateOrderStatusRequest) error {
	return c.do(ctx, "update order status", http.MethodPut, "/orders", req, nil, nil)
}

func (c *APIClient) DeleteOrder(ctx context.Context, id int64) error {
	return c.do(ctx, "delete order", http.MethodDelete, "/orders", nil, idQuery(id), nil)
}

func (c *APIClient) UpdateWorkOrderStatus(ctx context.Context, id int64, status models.WorkOrderStatus) error {
	path := fmt.Sprintf("/work-orders/%d/status", id)
	return c.do(ctx, "update work order status", http.MethodPut, path, models.UpdateWorkOrderStatusRequest{Status: status}, nil, nil)
}

func (c *APIClient) ListStockLedger(ctx context.Context) ([]models.StockLedgerEntry, error) {
	var entries []models.StockLedgerEntry
	if err := c.do(ctx, "list stock ledger", http.MethodGet, "/stock", nil, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *APIClient) OrderKPIs(ctx context.Context) (*models.OrderKPIs, error) {
	result := new(models.OrderKPIs)
	if err := c.do(ctx, "order kpis", http.MethodGet, "/reports/orders", nil, nil, result); err != nil {
		return nil, err
	}
	return result, nil
}

// ExportReport downloads the order spreadsheet produced by the backend.
func (c *APIClient) ExportReport(ctx context.Context) (*models.ExportFile, error) {
	resp, err := c.execute(c.newRequest(ctx, nil), http.MethodGet, "/reports/export")
	if err != nil {
		return nil, fmt.Errorf("export report: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, &StatusError{Op: "export report", StatusCode: resp.StatusCode()}
	}

	return &models.ExportFile{
		Filename:    attachmentName(resp.Header().Get("Content-Disposition")),
		ContentType: resp.Header().Get("Content-Type"),
		Body:        resp.Body(),
		FetchedAt:   c.now(),
	}, nil
}

func (c *APIClient) newRequest(ctx context.Context, body any) *resty.Request {
	req := c.httpClient.R().SetContext(ctx)
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.SetAuthToken(token)
		}
	}
	if body != nil {
		req.SetBody(body)
	}
	return req
}

func (c *APIClient) execute(req *resty.Request, method, path string) (*resty.Response, error) {
	resp, err := req.Execute(method, path)
	if err != nil {
		if resp != nil && resp.RawResponse != nil {
			// The backend answered; its body did not decode.
			c.logger.Warn("backend response not decodable",
				zap.String("method", method),
				zap.String("path", path),
				zap.Int("status", resp.StatusCode()),
				zap.Error(err))
			return resp, fmt.Errorf("%s %s: %w: %w", method, path, ErrUnexpectedResponse, err)
		}
		c.logger.Error("backend request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("%s %s: %w: %w", method, path, ErrBackendUnreachable, err)
	}
	return resp, nil
}

func (c *APIClient) do(ctx context.Context, op, method, path string, body any, query url.Values, result any) error {
	apiErr := new(apiError)

	req := c.newRequest(ctx, body).SetError(apiErr)
	if result != nil {
		req.SetResult(result)
	}
	if query != nil {
		req.SetQueryParamsFromValues(query)
	}

	resp, err := c.execute(req, method, path)
	if err != nil {
		if resp != nil && !resp.IsSuccess() {
			return &StatusError{Op: op, StatusCode: resp.StatusCode()}
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if !resp.IsSuccess() {
		c.logger.Debug("backend returned failure",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode()),
			zap.String("error", apiErr.Error),
			zap.String("details", apiErr.Details))
		return &StatusError{Op: op, StatusCode: resp.StatusCode(), Message: apiErr.Error}
	}

	return nil
}

func idQuery(id int64) url.Values {
	return url.Values{"id": []string{strconv.FormatInt(id, 10)}}
}

func attachmentName(disposition string) string {
	if disposition == "" {
		return defaultExportName
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil || params["filename"] == "" {
		return defaultExportName
	}
	return params["filename"]
}
