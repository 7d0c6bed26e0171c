package contact

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dealdesk/api-service/internal/events"
	"dealdesk/api-service/internal/model"
	"dealdesk/api-service/internal/notify"
)

const tenant = "00000000-0000-0000-0000-000000000001"

type memRepo struct {
	mu      sync.Mutex
	leads   []model.Lead
	vendors []model.Vendor
	err     error
}

func (m *memRepo) ListLeads(_ context.Context, tenantID, status string) ([]model.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]model.Lead, 0)
	for i := len(m.leads) - 1; i >= 0; i-- {
		l := m.leads[i]
		if l.TenantID == tenantID && (status == "" || l.Status == status) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memRepo) CreateLead(_ context.Context, l *model.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	l.ID = uuid.NewString()
	m.leads = append(m.leads, *l)
	return nil
}

func (m *memRepo) ListVendors(_ context.Context, tenantID, category string) ([]model.Vendor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]model.Vendor, 0)
	for i := len(m.vendors) - 1; i >= 0; i-- {
		v := m.vendors[i]
		if v.TenantID == tenantID && (category == "" || (v.Category != nil && *v.Category == category)) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *memRepo) CreateVendor(_ context.Context, v *model.Vendor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	v.ID = uuid.NewString()
	m.vendors = append(m.vendors, *v)
	return nil
}

func setup() (*memRepo, *notify.MemoryStore, *http.ServeMux) {
	repo := &memRepo{}
	notes := &notify.MemoryStore{}
	mux := http.NewServeMux()
	NewHandler(repo, notify.NewCreator(notes, events.Discard{}, zap.NewNop()), tenant).RegisterRoutes(mux)
	return repo, notes, mux
}

func do(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestCreateLead_NotifiesTenant(t *testing.T) {
	_, notes, mux := setup()

	rec := do(mux, http.MethodPost, "/api/leads", `{"name":" Dana Ortiz ","email":"dana@example.com","source":"driving for dollars"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var l model.Lead
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &l))
	assert.Equal(t, "Dana Ortiz", l.Name)
	assert.Equal(t, "new", l.Status)
	assert.Equal(t, tenant, l.TenantID)

	all := notes.All()
	require.Len(t, all, 1)
	assert.Equal(t, model.NotificationLead, all[0].Type)
	assert.Equal(t, "New lead: Dana Ortiz", all[0].Title)
	require.NotNil(t, all[0].Message)
	assert.Equal(t, "driving for dollars", *all[0].Message)
}

func TestCreateLead_NotificationFailureStillCreates(t *testing.T) {
	repo, notes, mux := setup()
	notes.Err = errors.New("notifications table locked")

	rec := do(mux, http.MethodPost, "/api/leads", `{"name":"Sam"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, repo.leads, 1)
}

func TestCreateLead_Validation(t *testing.T) {
	repo, notes, mux := setup()

	assert.Equal(t, http.StatusBadRequest, do(mux, http.MethodPost, "/api/leads", `{"name":"  "}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(mux, http.MethodPost, "/api/leads", `{"name":"Sam","email":"not-an-email"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(mux, http.MethodPost, "/api/leads", ``).Code)
	assert.Empty(t, repo.leads)
	assert.Empty(t, notes.All())
}

func TestListLeads_StatusFilter(t *testing.T) {
	_, _, mux := setup()
	do(mux, http.MethodPost, "/api/leads", `{"name":"A"}`)
	do(mux, http.MethodPost, "/api/leads", `{"name":"B","status":"contacted"}`)

	rec := do(mux, http.MethodGet, "/api/leads?status=contacted", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var leads []model.Lead
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &leads))
	require.Len(t, leads, 1)
	assert.Equal(t, "B", leads[0].Name)

	rec = do(mux, http.MethodGet, "/api/leads", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &leads))
	require.Len(t, leads, 2)
	assert.Equal(t, "B", leads[0].Name)
}

func TestVendors_CreateAndFilter(t *testing.T) {
	_, notes, mux := setup()

	rec := do(mux, http.MethodPost, "/api/vendors", `{"name":"Ace Roofing","category":"roofing"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	do(mux, http.MethodPost, "/api/vendors", `{"name":"Pipe Pros","category":"plumbing"}`)

	rec = do(mux, http.MethodGet, "/api/vendors?category=roofing", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var vendors []model.Vendor
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &vendors))
	require.Len(t, vendors, 1)
	assert.Equal(t, "Ace Roofing", vendors[0].Name)
	assert.Empty(t, notes.All())
}

func TestHandler_Errors(t *testing.T) {
	repo, _, mux := setup()

	assert.Equal(t, http.StatusMethodNotAllowed, do(mux, http.MethodDelete, "/api/vendors", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(mux, http.MethodPut, "/api/leads", "").Code)

	repo.err = errors.New("relation \"vendors\" does not exist")
	rec := do(mux, http.MethodGet, "/api/vendors", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `relation \"vendors\" does not exist`)
}
