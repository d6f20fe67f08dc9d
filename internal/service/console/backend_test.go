package console

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/mfgconsole/internal/domain/models"
	"github.com/mamadbah2/mfgconsole/internal/session"
	"github.com/mamadbah2/mfgconsole/internal/view"
	"github.com/mamadbah2/mfgconsole/pkg/clients/mfgapi"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   string
}

type failure struct {
	status  int
	message string
}

// fakeBackend is an in-memory stand-in for the manufacturing API.
type fakeBackend struct {
	mu       sync.Mutex
	requests []recordedRequest
	failures map[string]failure

	auth     models.AuthResponse
	products []models.Product
	boms     []models.BillOfMaterials
	orders   []models.ManufacturingOrder
	ledger   []models.StockLedgerEntry
	kpis     models.OrderKPIs

	// onRequest runs before each response, outside the lock.
	onRequest func(r *http.Request)
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	t.Helper()
	b := &fakeBackend{failures: make(map[string]failure)}
	srv := httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(srv.Close)
	return b, srv
}

func (b *fakeBackend) fail(method, path string, status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method+" "+path] = failure{status: status, message: message}
}

func (b *fakeBackend) recorded() []recordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]recordedRequest(nil), b.requests...)
}

func (b *fakeBackend) count(method, path string) int {
	n := 0
	for _, r := range b.recorded() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func (b *fakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	if b.onRequest != nil {
		b.onRequest(r)
	}
	body, _ := io.ReadAll(r.Body)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Auth:   r.Header.Get("Authorization"),
		Body:   string(body),
	})

	if f, ok := b.failures[r.Method+" "+r.URL.Path]; ok {
		writeJSON(w, f.status, map[string]string{"error": f.message})
		return
	}

	switch r.Method + " " + r.URL.Path {
	case "POST /auth/login", "POST /auth/signup":
		writeJSON(w, http.StatusOK, b.auth)
	case "GET /products":
		writeJSON(w, http.StatusOK, b.products)
	case "POST /products":
		var req models.CreateProductRequest
		_ = json.Unmarshal(body, &req)
		p := models.Product{ID: int64(len(b.products) + 100), Name: req.Name, Type: req.Type, StockQty: req.StockQty}
		b.products = append(b.products, p)
		writeJSON(w, http.StatusCreated, p)
	case "DELETE /products", "DELETE /orders":
		writeJSON(w, http.StatusOK, models.DeletedResponse{Deleted: 1})
	case "GET /bom":
		writeJSON(w, http.StatusOK, b.boms)
	case "POST /bom":
		writeJSON(w, http.StatusCreated, models.BillOfMaterials{ID: 1})
	case "GET /orders":
		writeJSON(w, http.StatusOK, b.orders)
	case "POST /orders":
		writeJSON(w, http.StatusCreated, models.ManufacturingOrder{ID: 1})
	case "PUT /orders":
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	case "GET /stock":
		writeJSON(w, http.StatusOK, b.ledger)
	case "GET /reports/orders":
		writeJSON(w, http.StatusOK, b.kpis)
	default:
		if r.Method == http.MethodPut {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
			return
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// newTestController wires a page controller to the fake backend with an in-memory session.
func newTestController(t *testing.T, page string, baseURL string) (*Controller, *session.Manager) {
	t.Helper()
	layout, err := view.LayoutFor(page)
	require.NoError(t, err)
	sess := session.NewManager(session.NewMemoryStore(), nil)
	api := mfgapi.NewClient(baseURL, sess, nil)
	return NewController(layout, sess, api, nil), sess
}

func int64Ptr(v int64) *int64 { return &v }
