package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"salonsmart-backend/config"
	"salonsmart-backend/models"
	"salonsmart-backend/repository"
	"salonsmart-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Monday 3 March 2025
var testNow = time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

type recordingSender struct {
	mu   sync.Mutex
	sent []services.Message
}

func (s *recordingSender) Send(_ context.Context, msg services.Message) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return "SM-test", nil
}

// unavailableServices fails every list as a dropped database would.
type unavailableServices struct {
	repository.ServiceRepository
}

func (unavailableServices) List(context.Context, repository.ServiceFilter) ([]models.Service, error) {
	return nil, fmt.Errorf("%w: ServiceRepository.List: connection refused", repository.ErrUnavailable)
}

type testServer struct {
	router *gin.Engine
	app    *App
	sender *recordingSender
}

func setupServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.DemoMode = true
	cfg.Auth.BcryptCost = 4

	store := repository.NewMemoryStore()
	require.NoError(t, repository.Seed(context.Background(), store, testNow))
	return newTestServer(t, cfg, store)
}

func newTestServer(t *testing.T, cfg *config.Config, store *repository.Store) *testServer {
	t.Helper()
	reg := prometheus.NewRegistry()
	sender := &recordingSender{}
	app, err := NewApp(cfg, zap.NewNop(), store, nil, AppOptions{
		Registerer: reg,
		Sender:     sender,
		Now:        func() time.Time { return testNow },
	})
	require.NoError(t, err)
	return &testServer{router: app.Router(reg), app: app, sender: sender}
}

func (s *testServer) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(t *testing.T, email string) string {
	t.Helper()
	w := s.do(http.MethodPost, "/auth/login", gin.H{"email": email, "password": "anything"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res services.AuthResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.NotEmpty(t, res.Token)
	return res.Token
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func serviceID(t *testing.T, list []models.Service, name string) string {
	t.Helper()
	for _, s := range list {
		if s.Name == name {
			return s.ID.String()
		}
	}
	t.Fatalf("service %q not listed", name)
	return ""
}

func TestHealthAndMetrics(t *testing.T) {
	s := setupServer(t)

	w := s.do(http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = s.do(http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `salonsmart_http_requests_total{method="GET",route="/healthz",status="200"} 1`)
}

func TestUnavailableStoreReturns503(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := config.Default()
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.DemoMode = true
	cfg.Auth.BcryptCost = 4

	store := repository.NewMemoryStore()
	require.NoError(t, repository.Seed(context.Background(), store, testNow))
	store.Services = unavailableServices{ServiceRepository: store.Services}
	s := newTestServer(t, cfg, store)

	token := s.login(t, "customer@salonsmart.app")
	w := s.do(http.MethodGet, "/api/services", nil, token)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	body := decode[map[string]any](t, w)
	assert.Equal(t, "Data is temporarily unavailable, please try again", body["error"])
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestAPIRequiresToken(t *testing.T) {
	s := setupServer(t)
	w := s.do(http.MethodGet, "/api/services", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/services", nil, "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDemoLoginAndRoleSwitch(t *testing.T) {
	s := setupServer(t)
	token := s.login(t, "")

	w := s.do(http.MethodGet, "/auth/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[struct {
		User     models.User `json:"user"`
		DemoMode bool        `json:"demoMode"`
	}](t, w)
	assert.Equal(t, models.RoleAdmin, me.User.Role)
	assert.True(t, me.DemoMode)

	w = s.do(http.MethodPost, "/auth/role", gin.H{"role": "customer"}, token)
	require.Equal(t, http.StatusOK, w.Code)
	switched := decode[services.AuthResult](t, w)
	assert.Equal(t, models.RoleCustomer, switched.User.Role)

	w = s.do(http.MethodGet, "/api/dashboard", nil, switched.Token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestServiceVisibilityAndPermissions(t *testing.T) {
	s := setupServer(t)
	adminToken := s.login(t, "owner@salonsmart.app")
	customerToken := s.login(t, "customer@salonsmart.app")

	w := s.do(http.MethodGet, "/api/services", nil, customerToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Service](t, w), 5)

	w = s.do(http.MethodGet, "/api/services", nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Service](t, w), 6)

	newService := gin.H{"name": "Beard Trim", "price": 25, "duration": 20, "category": "Hair"}
	w = s.do(http.MethodPost, "/api/services", newService, customerToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/api/services", newService, adminToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.Service](t, w)
	assert.True(t, created.IsActive)

	w = s.do(http.MethodPost, "/api/services", gin.H{"name": "Too long", "price": 10, "duration": 500}, adminToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[map[string]any](t, w)
	assert.Equal(t, "Validation failed", body["error"])
	assert.Contains(t, body["fields"], "duration")

	w = s.do(http.MethodGet, "/api/services/not-a-uuid", nil, adminToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodDelete, "/api/services/"+created.ID.String(), nil, adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(http.MethodGet, "/api/services/"+created.ID.String(), nil, adminToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOperatorOnlyGroups(t *testing.T) {
	s := setupServer(t)
	customerToken := s.login(t, "customer@salonsmart.app")
	for _, path := range []string{"/api/invoices", "/api/expenses", "/api/reports", "/api/reminders/templates"} {
		w := s.do(http.MethodGet, path, nil, customerToken)
		assert.Equal(t, http.StatusForbidden, w.Code, path)
	}
}

func TestBookingWizardOverHTTP(t *testing.T) {
	s := setupServer(t)
	customerToken := s.login(t, "customer@salonsmart.app")

	w := s.do(http.MethodGet, "/api/services", nil, customerToken)
	require.Equal(t, http.StatusOK, w.Code)
	balayage := serviceID(t, decode[[]models.Service](t, w), "Balayage")

	w = s.do(http.MethodGet, "/api/stylists", nil, customerToken)
	require.Equal(t, http.StatusOK, w.Code)
	var emma string
	for _, st := range decode[[]models.Stylist](t, w) {
		if st.Name == "Emma W." {
			emma = st.ID.String()
		}
	}
	require.NotEmpty(t, emma)

	w = s.do(http.MethodPost, "/api/booking/sessions", nil, customerToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	opened := decode[struct {
		ID    string         `json:"id"`
		State map[string]any `json:"state"`
	}](t, w)
	assert.Equal(t, "service", opened.State["step"])
	base := "/api/booking/sessions/" + opened.ID

	// skipping ahead is rejected and the state comes back with the error
	w = s.do(http.MethodPost, base+"/next", nil, customerToken)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, decode[map[string]any](t, w), "state")

	steps := []struct {
		method, path string
		body         any
	}{
		{http.MethodPut, "/service", gin.H{"serviceId": balayage}},
		{http.MethodPost, "/next", nil},
		{http.MethodPut, "/stylist", gin.H{"stylistId": emma}},
		{http.MethodPost, "/next", nil},
		{http.MethodPut, "/datetime", gin.H{"date": "2025-03-10", "time": "10:00"}},
		{http.MethodPost, "/next", nil},
		{http.MethodPut, "/notes", gin.H{"notes": "First visit"}},
	}
	for _, step := range steps {
		w = s.do(step.method, base+step.path, step.body, customerToken)
		require.Equal(t, http.StatusOK, w.Code, "%s %s: %s", step.method, step.path, w.Body.String())
	}

	// another user cannot drive this session
	otherToken := s.login(t, "someone@else.app")
	w = s.do(http.MethodGet, base, nil, otherToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, base+"/submit", nil, customerToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	res := decode[services.SubmitResult](t, w)
	assert.Equal(t, "Appointment Booked!", res.Notification.Title)
	require.NotNil(t, res.Appointment)
	assert.Equal(t, models.StatusPending, res.Appointment.Status)

	w = s.do(http.MethodGet, "/api/my/appointments", nil, customerToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[services.MyAppointments](t, w).Upcoming, 5)

	// a booked session is closed
	w = s.do(http.MethodGet, base, nil, customerToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 0, s.app.Sessions.Len())

	w = s.do(http.MethodGet, "/metrics", nil, "")
	assert.Contains(t, w.Body.String(), `salonsmart_appointments_booked_total{source="customer"} 1`)
}

func TestOpenSessionWithChunkedBody(t *testing.T) {
	s := setupServer(t)
	token := s.login(t, "customer@salonsmart.app")

	w := s.do(http.MethodGet, "/api/services", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	balayage := serviceID(t, decode[[]models.Service](t, w), "Balayage")

	req := httptest.NewRequest(http.MethodPost, "/api/booking/sessions",
		strings.NewReader(`{"serviceId":"`+balayage+`"}`))
	req.ContentLength = -1
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	opened := decode[struct {
		ID    string         `json:"id"`
		State map[string]any `json:"state"`
	}](t, w)
	assert.Equal(t, "stylist", opened.State["step"])

	base := "/api/booking/sessions/" + opened.ID
	w = s.do(http.MethodDelete, base, nil, token)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(http.MethodGet, base, nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/api/booking/sessions", "not an object", token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingSlots(t *testing.T) {
	s := setupServer(t)
	token := s.login(t, "customer@salonsmart.app")
	w := s.do(http.MethodGet, "/api/booking/slots", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	slots := decode[map[string][]string](t, w)["slots"]
	require.NotEmpty(t, slots)
	assert.Equal(t, "09:00", slots[0])
	assert.Equal(t, "17:30", slots[len(slots)-1])
}

func TestReportExport(t *testing.T) {
	s := setupServer(t)
	token := s.login(t, "")

	w := s.do(http.MethodGet, "/api/reports/export?months=3", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment; filename=\"salonsmart-report-")
	// xlsx files are zip archives
	assert.Equal(t, []byte("PK"), w.Body.Bytes()[:2])

	w = s.do(http.MethodGet, "/api/reports?months=zero", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReminderRunOverHTTP(t *testing.T) {
	s := setupServer(t)
	token := s.login(t, "")

	w := s.do(http.MethodPost, "/api/reminders/run", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	run := decode[services.ReminderRun](t, w)
	assert.Equal(t, "2025-03-04", run.Date)
	assert.Equal(t, 1, run.Sent)
	require.Len(t, s.sender.sent, 1)
	assert.Equal(t, "+15550199", s.sender.sent[0].To)

	w = s.do(http.MethodGet, "/api/reminders/logs?limit=5", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.ReminderLog](t, w), 1)
}
