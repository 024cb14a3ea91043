package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Benedict-Edwin/expiry-optimist-backend/internal/engine"
	"github.com/Benedict-Edwin/expiry-optimist-backend/internal/inventory/handler"
	"github.com/Benedict-Edwin/expiry-optimist-backend/internal/inventory/repository"
	"github.com/Benedict-Edwin/expiry-optimist-backend/internal/inventory/service"
	"github.com/Benedict-Edwin/expiry-optimist-backend/pkg/errors"
	"github.com/Benedict-Edwin/expiry-optimist-backend/pkg/httputil"
	"github.com/Benedict-Edwin/expiry-optimist-backend/pkg/logger"
)

var handlerNow = time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

type memProductStore struct {
	bySKU map[string]*repository.Product
}

func newMemProductStore() *memProductStore {
	return &memProductStore{bySKU: map[string]*repository.Product{}}
}

func (m *memProductStore) Create(_ context.Context, p *repository.Product) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	m.bySKU[p.SKU] = p
	return nil
}

func (m *memProductStore) Update(_ context.Context, p *repository.Product) error {
	m.bySKU[p.SKU] = p
	return nil
}

func (m *memProductStore) UpsertBySKU(_ context.Context, p *repository.Product) (bool, error) {
	if existing, ok := m.bySKU[p.SKU]; ok {
		p.ID = existing.ID
		m.bySKU[p.SKU] = p
		return false, nil
	}
	p.ID = uuid.New().String()
	m.bySKU[p.SKU] = p
	return true, nil
}

func (m *memProductStore) GetByID(_ context.Context, id string) (*repository.Product, error) {
	for _, p := range m.bySKU {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, errors.NotFound("product")
}

func (m *memProductStore) GetBySKU(_ context.Context, sku string) (*repository.Product, error) {
	p, ok := m.bySKU[sku]
	if !ok {
		return nil, errors.NotFound("product")
	}
	return p, nil
}

type memSaleStore struct{}

func (memSaleStore) Record(context.Context, *repository.Sale) error { return nil }

func (m *memProductStore) List(_ context.Context, category string) ([]*repository.Product, error) {
	out := []*repository.Product{}
	for _, p := range m.bySKU {
		if category == "" || p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProductStore) Delete(_ context.Context, _ string) error { return nil }

type memAlertStore struct {
	open map[string]*repository.Alert
}

func newMemAlertStore() *memAlertStore {
	return &memAlertStore{open: map[string]*repository.Alert{}}
}

func (m *memAlertStore) CreateIfAbsent(_ context.Context, productID string, alertType engine.SyncAlertType) (*repository.Alert, bool, error) {
	key := productID + "/" + string(alertType)
	if _, ok := m.open[key]; ok {
		return nil, false, nil
	}
	alert := &repository.Alert{
		ID:        uuid.New().String(),
		ProductID: productID,
		Type:      string(alertType),
		Status:    repository.AlertStatusUnread,
	}
	m.open[key] = alert
	return alert, true, nil
}

func (m *memAlertStore) ListOpen(_ context.Context, _ int) ([]*repository.Alert, error) {
	out := []*repository.Alert{}
	for _, a := range m.open {
		out = append(out, a)
	}
	return out, nil
}

func (m *memAlertStore) Resolve(_ context.Context, id string) error {
	for key, a := range m.open {
		if a.ID == id {
			delete(m.open, key)
			return nil
		}
	}
	return nil
}

func (m *memAlertStore) CountOpen(_ context.Context) (int64, error) {
	return int64(len(m.open)), nil
}

type noopPublisher struct{}

func (noopPublisher) PublishAlertCreated(context.Context, *repository.Alert, string, string) {}
func (noopPublisher) PublishProductUpserted(context.Context, *repository.Product, bool)      {}
func (noopPublisher) PublishSyncCompleted(context.Context, int, int, int)                    {}

func newRouter() (*chi.Mux, *memProductStore, *memAlertStore) {
	products := newMemProductStore()
	alerts := newMemAlertStore()
	log := logger.New("test", "test")

	inventorySvc := service.NewInventoryService(products, alerts, noopPublisher{}, log).
		WithClock(func() time.Time { return handlerNow })
	syncSvc := service.NewPOSSyncService(products, alerts, memSaleStore{}, noopPublisher{}, log).
		WithClock(func() time.Time { return handlerNow })

	productHandler := handler.NewProductHandler(inventorySvc, log)
	alertHandler := handler.NewAlertHandler(inventorySvc, log)
	syncHandler := handler.NewPOSSyncHandler(syncSvc, log)
	dashboardHandler := handler.NewDashboardHandler(inventorySvc, log)

	r := chi.NewRouter()
	r.Get("/products", productHandler.List)
	r.Post("/products", productHandler.Create)
	r.Get("/products/{id}", productHandler.Get)
	r.Get("/dashboard/summary", dashboardHandler.Summary)
	r.Get("/alerts", alertHandler.List)
	r.Put("/alerts/{id}/acknowledge", alertHandler.Acknowledge)
	r.With(handler.RequirePOSKey("test-key")).Post("/pos/sync", syncHandler.Sync)
	return r, products, alerts
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) httputil.Response {
	t.Helper()
	var resp httputil.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestProductHandler_CreateAndGet(t *testing.T) {
	r, products, _ := newRouter()

	body := `{"sku":"MILK-1L","name":"Whole Milk 1L","category":"dairy","quantity":40,"expiry_date":"2025-01-20","sales_velocity":2,"unit_cost":0.8,"unit_price":1.2}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code)

	p := products.bySKU["MILK-1L"]
	require.NotNil(t, p)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/"+p.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	require.True(t, resp.Success)
	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"status":"critical"`)
	assert.Contains(t, string(data), `"days_to_expiry":5`)
}

func TestProductHandler_CreateRejectsInvalidBody(t *testing.T) {
	r, _, _ := newRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(`{"name":"no sku"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeResponse(t, rec)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
}

func TestPOSSync_RequiresKey(t *testing.T) {
	r, _, _ := newRouter()

	body := `{"data":[{"sku":"A","quantity":5,"expiry_date":"2025-02-01","unit_price":1}]}`

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/pos/sync", strings.NewReader(body)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/pos/sync", strings.NewReader(body))
	req.Header.Set(handler.POSKeyHeader, "wrong-key")
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/pos/sync", strings.NewReader(body))
	req.Header.Set(handler.POSKeyHeader, "test-key")
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPOSSync_RejectsEmptyBatch(t *testing.T) {
	r, _, _ := newRouter()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/pos/sync", strings.NewReader(`{"data":[]}`))
	req.Header.Set(handler.POSKeyHeader, "test-key")
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPOSSync_ReportsPartialFailures(t *testing.T) {
	r, products, _ := newRouter()

	body := `{"data":[
		{"sku":"GOOD-1","quantity":5,"expiry_date":"2025-03-01","unit_price":1},
		{"sku":"BAD-1","quantity":5,"expiry_date":"nope","unit_price":1}
	]}`

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/pos/sync", strings.NewReader(body))
	req.Header.Set(handler.POSKeyHeader, "test-key")
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"processed_count":1`)
	assert.Contains(t, string(data), `"sku":"BAD-1"`)
	assert.NotNil(t, products.bySKU["GOOD-1"])
}

func TestAlertHandler_Acknowledge(t *testing.T) {
	r, products, alerts := newRouter()

	p := &repository.Product{SKU: "YOG", Name: "Yogurt", ExpiryDate: handlerNow.AddDate(0, 0, 3)}
	require.NoError(t, products.Create(context.Background(), p))

	alert, _, err := alerts.CreateIfAbsent(context.Background(), p.ID, engine.SyncAlertNearExpiry)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/alerts/"+alert.ID+"/acknowledge", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/alerts", nil))
	resp := decodeResponse(t, rec)
	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}
