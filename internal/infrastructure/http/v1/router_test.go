package v1

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/core/apperror"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/domain/currency"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/domain/documents/delivery_note"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/domain/documents/purchase_order"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/infrastructure/http/v1/handlers"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/infrastructure/storage/postgres"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/pkg/logger"
)

type fakeOrders struct {
	created  *purchase_order.PurchaseOrder
	language string
	err      error
	stored   map[int64]*purchase_order.PurchaseOrder
}

func (f *fakeOrders) Create(_ context.Context, doc *purchase_order.PurchaseOrder, language string) error {
	if f.err != nil {
		return f.err
	}
	doc.ID = 42
	doc.ExternalNumber = "0000000001"
	doc.CompanyCode = "1000"
	doc.Currency = "EUR"
	for i := range doc.Items {
		doc.Items[i].LineNumber = "01"
		doc.Items[i].Currency = "EUR"
	}
	f.created = doc
	f.language = language
	return nil
}

func (f *fakeOrders) GetByID(_ context.Context, id int64) (*purchase_order.PurchaseOrder, error) {
	if doc, ok := f.stored[id]; ok {
		return doc, nil
	}
	return nil, apperror.NewNotFound("purchase order", id)
}

type fakeNotes struct {
	created *delivery_note.DeliveryNote
	err     error
}

func (f *fakeNotes) Create(_ context.Context, note *delivery_note.DeliveryNote) error {
	if f.err != nil {
		return f.err
	}
	note.ID = 7
	note.ExternalNumber = "LS-0001"
	for i := range note.Items {
		note.Items[i].PurchaseOrderItemID = 99
		note.Items[i].LinkStrategy = delivery_note.LinkMaterialNumber
	}
	f.created = note
	return nil
}

func (f *fakeNotes) GetByID(_ context.Context, id int64) (*delivery_note.DeliveryNote, error) {
	return nil, apperror.NewNotFound("delivery note", id)
}

type fakeRates struct {
	rates     currency.Rates
	refreshes int
}

func (f *fakeRates) Get(context.Context) currency.Rates { return f.rates }
func (f *fakeRates) Refresh(context.Context)            { f.refreshes++ }
func (f *fakeRates) Snapshot() currency.Snapshot {
	return currency.Snapshot{Rates: f.rates, RefreshedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)}
}

type fakeHistory struct {
	entityType string
	limit      int
	entries    map[int64][]postgres.AuditEntry
}

func (f *fakeHistory) History(_ context.Context, entityType string, entityID int64, limit int) ([]postgres.AuditEntry, error) {
	f.entityType = entityType
	f.limit = limit
	return f.entries[entityID], nil
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("no route to host") }

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

type testEnv struct {
	orders  *fakeOrders
	notes   *fakeNotes
	rates   *fakeRates
	history *fakeHistory
	server  http.Handler
}

func newTestEnv(t *testing.T, checks map[string]handlers.Pinger) *testEnv {
	t.Helper()
	env := &testEnv{
		orders:  &fakeOrders{stored: map[int64]*purchase_order.PurchaseOrder{}},
		notes:   &fakeNotes{},
		rates:   &fakeRates{rates: currency.FallbackRates()},
		history: &fakeHistory{entries: map[int64][]postgres.AuditEntry{
			5: {{
				ID:        uuid.MustParse("01938f2e-7c4a-7d2e-9a1b-3c4d5e6f7a8b"),
				Action:    postgres.AuditActionCreate,
				RequestID: "req-9",
				Changes:   json.RawMessage(`{"externalNumber":"0000000005"}`),
				CreatedAt: time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC),
			}},
		}},
	}
	r, err := NewRouter(RouterConfig{
		Logger:         logger.NewNop(),
		PurchaseOrders: env.orders,
		DeliveryNotes:  env.notes,
		Rates:          env.rates,
		Currencies:     currency.NewResolver(currency.DefaultCompanyCurrencies()),
		History:        env.history,
		HealthChecks:   checks,
	})
	require.NoError(t, err)
	env.server = r
	return env
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

const orderBody = `{
	"order": {"recipientId": 1, "vendorId": 2, "orderDate": "2025-03-01", "language": "de"},
	"items": [{"unit": "PCE", "quantity": 2, "netAmount": "10.50", "currency": "USD"}]
}`

func TestCreatePurchaseOrder(t *testing.T) {
	env := newTestEnv(t, nil)

	w := do(env.server, http.MethodPost, "/api/v1/purchase-orders", orderBody)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, float64(42), body["id"])
	assert.Equal(t, "0000000001", body["externalNumber"])
	assert.Equal(t, "2025-03-01", body["orderDate"])

	require.NotNil(t, env.orders.created)
	assert.Equal(t, "de", env.orders.language)
	assert.True(t, env.orders.created.Items[0].NetAmount.Equal(decimal.RequireFromString("10.5")))
	assert.Equal(t, "USD", env.orders.created.Items[0].Currency)
}

func TestCreatePurchaseOrder_InvalidBody(t *testing.T) {
	env := newTestEnv(t, nil)

	w := do(env.server, http.MethodPost, "/api/v1/purchase-orders", `{"order": {"recipientId": 1}, "items": []}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperror.CodeValidation, decode(t, w)["code"])
	assert.Nil(t, env.orders.created)
}

func TestCreatePurchaseOrder_InvalidDate(t *testing.T) {
	env := newTestEnv(t, nil)

	body := strings.Replace(orderBody, "2025-03-01", "01.03.2025", 1)
	w := do(env.server, http.MethodPost, "/api/v1/purchase-orders", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperror.CodeValidation, decode(t, w)["code"])
}

func TestCreatePurchaseOrder_ServiceError(t *testing.T) {
	env := newTestEnv(t, nil)
	env.orders.err = apperror.NewReferenceData("unit", "XXX", "01")

	w := do(env.server, http.MethodPost, "/api/v1/purchase-orders", orderBody)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decode(t, w)
	assert.Equal(t, apperror.CodeReferenceData, body["code"])
}

func TestGetPurchaseOrder(t *testing.T) {
	env := newTestEnv(t, nil)
	env.orders.stored[5] = &purchase_order.PurchaseOrder{
		ExternalNumber: "0000000005",
		OrderDate:      time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	env.orders.stored[5].ID = 5

	w := do(env.server, http.MethodGet, "/api/v1/purchase-orders/5", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0000000005", decode(t, w)["externalNumber"])

	w = do(env.server, http.MethodGet, "/api/v1/purchase-orders/6", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(env.server, http.MethodGet, "/api/v1/purchase-orders/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDocumentHistory(t *testing.T) {
	env := newTestEnv(t, nil)

	w := do(env.server, http.MethodGet, "/api/v1/purchase-orders/5/history", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "purchase_order", body["entityType"])
	entries := body["entries"].([]any)
	require.Len(t, entries, 1)
	entry := entries[0].(map[string]any)
	assert.Equal(t, "create", entry["action"])
	assert.Equal(t, "req-9", entry["requestId"])
	assert.Equal(t, "0000000005", entry["changes"].(map[string]any)["externalNumber"])
	assert.Equal(t, 20, env.history.limit)

	w = do(env.server, http.MethodGet, "/api/v1/delivery-notes/8/history?limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["entries"])
	assert.Equal(t, "delivery_note", env.history.entityType)
	assert.Equal(t, 5, env.history.limit)

	w = do(env.server, http.MethodGet, "/api/v1/delivery-notes/8/history?limit=500", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateDeliveryNote(t *testing.T) {
	env := newTestEnv(t, nil)

	w := do(env.server, http.MethodPost, "/api/v1/delivery-notes", `{
		"note": {"internalNumber": "DN-1", "deliveryDate": "2025-03-15"},
		"items": [{"purchaseOrderId": 3, "materialId": 4, "quantity": "1", "unit": "PCE", "netAmount": 5, "totalAmount": 5}]
	}`)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "LS-0001", body["externalNumber"])
	items := body["items"].([]any)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.Equal(t, float64(99), item["purchaseOrderItemId"])
	assert.Equal(t, string(delivery_note.LinkMaterialNumber), item["linkStrategy"])
}

func TestCreateDeliveryNote_UnresolvedLink(t *testing.T) {
	env := newTestEnv(t, nil)
	env.notes.err = apperror.NewUnresolvedLink(3, 4, "01")

	w := do(env.server, http.MethodPost, "/api/v1/delivery-notes", `{
		"note": {"internalNumber": "DN-1", "deliveryDate": "2025-03-15"},
		"items": [{"purchaseOrderId": 3, "materialId": 4, "quantity": 1, "unit": "PCE", "netAmount": 5, "totalAmount": 5}]
	}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, apperror.CodeUnresolved, decode(t, w)["code"])
}

func TestCurrencyEndpoints(t *testing.T) {
	env := newTestEnv(t, nil)

	w := do(env.server, http.MethodGet, "/api/v1/currency/convert?amount=108&from=usd&to=EUR", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "100.00", decode(t, w)["converted"])

	w = do(env.server, http.MethodGet, "/api/v1/currency/convert?amount=abc&from=USD&to=EUR", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(env.server, http.MethodGet, "/api/v1/currency/resolve?companyCode=2000", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "GBP", decode(t, w)["currency"])

	w = do(env.server, http.MethodGet, "/api/v1/exchange-rates", "")
	require.Equal(t, http.StatusOK, w.Code)
	rates := decode(t, w)["rates"].(map[string]any)
	assert.Equal(t, "0.85", rates["GBP"])

	w = do(env.server, http.MethodPost, "/api/v1/exchange-rates/refresh", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, env.rates.refreshes)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, map[string]handlers.Pinger{"database": okPinger{}})
	assert.Equal(t, http.StatusOK, do(env.server, http.MethodGet, "/health/live", "").Code)
	assert.Equal(t, http.StatusOK, do(env.server, http.MethodGet, "/health/ready", "").Code)

	env = newTestEnv(t, map[string]handlers.Pinger{"database": okPinger{}, "redis": failingPinger{}})
	w := do(env.server, http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	checks := decode(t, w)["checks"].(map[string]any)
	assert.Equal(t, "healthy", checks["database"])
}

func TestNewRouter_InvalidRateLimit(t *testing.T) {
	_, err := NewRouter(RouterConfig{Logger: logger.NewNop(), RateLimit: "fast"})
	assert.Error(t, err)
}
