package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/hireo/internal/cache"
	"github.com/jonathan/hireo/internal/db"
	"github.com/jonathan/hireo/internal/document"
	"github.com/jonathan/hireo/internal/generator"
	"github.com/jonathan/hireo/internal/server/ratelimit"
	"github.com/jonathan/hireo/internal/templates"
	"github.com/jonathan/hireo/internal/types"
)

// mockStore is an in-memory Store
type mockStore struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*db.ProfileRecord
	docs     map[uuid.UUID]*db.DocumentRecord
}

func newMockStore() *mockStore {
	return &mockStore{
		profiles: make(map[uuid.UUID]*db.ProfileRecord),
		docs:     make(map[uuid.UUID]*db.DocumentRecord),
	}
}

func (m *mockStore) CreateProfile(_ context.Context, p types.Profile) (*db.ProfileRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := &db.ProfileRecord{ID: uuid.New(), Profile: p, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	m.profiles[rec.ID] = rec
	return rec, nil
}

func (m *mockStore) GetProfile(_ context.Context, id uuid.UUID) (*db.ProfileRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profiles[id], nil
}

func (m *mockStore) UpdateProfile(_ context.Context, id uuid.UUID, p types.Profile) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.profiles[id]
	if !ok {
		return false, nil
	}
	rec.Profile = p
	rec.UpdatedAt = time.Now()
	return true, nil
}

func (m *mockStore) SaveDocument(_ context.Context, rec *db.DocumentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	rec.CreatedAt = time.Now()
	m.docs[rec.ID] = rec
	return nil
}

func (m *mockStore) GetDocument(_ context.Context, id uuid.UUID) (*db.DocumentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.docs[id], nil
}

func (m *mockStore) ListDocuments(_ context.Context, profileID uuid.UUID, limit int) ([]db.DocumentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db.DocumentRecord
	for _, d := range m.docs {
		if d.ProfileID != nil && *d.ProfileID == profileID && len(out) < limit {
			c := *d
			c.PDF = nil
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockStore) Close() {}

type testServer struct {
	*Server
	store  *mockStore
	thumbs *cache.Memory
}

func newTestServer(t *testing.T, withStore bool) *testServer {
	t.Helper()
	registry, err := templates.NewDefaultRegistry()
	require.NoError(t, err)

	ts := &testServer{thumbs: cache.NewMemory(16)}
	var store Store
	if withStore {
		ts.store = newMockStore()
		store = ts.store
	}
	ts.Server = newServer(generator.New(registry, generator.Options{}), store, ts.thumbs,
		ratelimit.NewLimiter(&ratelimit.Config{Enabled: false}))
	return ts
}

func (ts *testServer) do(method, target string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	w := httptest.NewRecorder()
	ts.Handler().ServeHTTP(w, req)
	return w
}

func profileJSON(t *testing.T) json.RawMessage {
	t.Helper()
	data, err := os.ReadFile("../../testdata/valid/profile.json")
	require.NoError(t, err)
	return data
}

func cvBody(t *testing.T, templateID string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"profile":     profileJSON(t),
		"template_id": templateID,
	})
	require.NoError(t, err)
	return body
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, false)

	w := s.do(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "disabled", resp["database"])
}

func TestTemplatesEndpoint(t *testing.T) {
	s := newTestServer(t, false)

	w := s.do(http.MethodGet, "/templates?kind=cover_letter", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp []TemplateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp)
	for _, tmpl := range resp {
		assert.Equal(t, document.KindCoverLetter, tmpl.Kind)
		assert.NotEmpty(t, tmpl.Themes)
	}

	w = s.do(http.MethodGet, "/templates", nil)
	var all []TemplateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Greater(t, len(all), len(resp))

	w = s.do(http.MethodGet, "/templates?kind=poster", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCVEndpoint(t *testing.T) {
	s := newTestServer(t, false)

	w := s.do(http.MethodPost, "/cv", cvBody(t, "modern"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))
	assert.Equal(t, "modern", w.Header().Get("X-Template-ID"))
	assert.NotEmpty(t, w.Header().Get("X-Page-Count"))
	assert.Len(t, w.Header().Get("X-Content-Hash"), 64)
}

func TestCVEndpoint_BadRequests(t *testing.T) {
	s := newTestServer(t, false)

	tests := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{"invalid JSON", `{ nope`, http.StatusBadRequest, "body"},
		{"empty body", ``, http.StatusBadRequest, "empty"},
		{"schema violation", `{"profile": {"work_experience": [{"company": "Acme"}]}}`, http.StatusBadRequest, "position"},
		{"unknown section", `{"profile": {}, "settings": {"included_sections": ["hobbies"]}}`, http.StatusBadRequest, "hobbies"},
		{"invalid email", `{"profile": {"personal": {"email": "not-an-email"}}}`, http.StatusBadRequest, "invalid profile"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(http.MethodPost, "/cv", []byte(tt.body))
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.message)
		})
	}
}

func TestCoverLetterEndpoint(t *testing.T) {
	s := newTestServer(t, false)

	body, err := json.Marshal(map[string]any{
		"profile":     profileJSON(t),
		"template_id": "letter-modern",
		"application": map[string]string{"company": "Babbage & Co", "position": "Analyst"},
		"letter":      map[string]any{"paragraphs": []string{"I am writing to apply."}},
	})
	require.NoError(t, err)

	w := s.do(http.MethodPost, "/cover-letter", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))
	assert.Equal(t, "letter-modern", w.Header().Get("X-Template-ID"))

	w = s.do(http.MethodPost, "/cover-letter", []byte(`{"letter": {"paragraphs": "one"}}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestThumbnailEndpoint(t *testing.T) {
	s := newTestServer(t, false)
	pdf := s.do(http.MethodPost, "/cv", cvBody(t, "classic")).Body.Bytes()

	w := s.do(http.MethodPost, "/thumbnail?width=60&height=80", pdf)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "miss", w.Header().Get("X-Cache"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")))
	first := w.Body.Bytes()

	w = s.do(http.MethodPost, "/thumbnail?width=60&height=80", pdf)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hit", w.Header().Get("X-Cache"))
	assert.Equal(t, first, w.Body.Bytes())
	assert.Equal(t, 1, s.thumbs.Len())
}

func TestThumbnailEndpoint_Errors(t *testing.T) {
	s := newTestServer(t, false)

	w := s.do(http.MethodPost, "/thumbnail?width=0", []byte("%PDF-"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "width")

	w = s.do(http.MethodPost, "/thumbnail?height=99999", []byte("%PDF-"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/thumbnail", []byte("not a pdf"))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestPreviewEndpoint(t *testing.T) {
	s := newTestServer(t, false)

	w := s.do(http.MethodPost, "/preview/editor-1?width=105&height=148", cvBody(t, "minimal"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get("X-Page-Count"))
	assert.Zero(t, s.previews.inFlight())

	w = s.do(http.MethodPost, "/preview/editor-1?width=105&height=148", cvBody(t, "minimal"))
	assert.Equal(t, "hit", w.Header().Get("X-Cache"))
}

func TestPreviewEndpoint_Superseded(t *testing.T) {
	s := newTestServer(t, false)

	parent, cancel := context.WithCancelCause(context.Background())
	cancel(&ErrSuperseded{Target: "editor-1"})

	req := httptest.NewRequest(http.MethodPost, "/preview/editor-1", bytes.NewReader(cvBody(t, "classic"))).WithContext(parent)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "superseded")
}

func TestPreviews_Supersession(t *testing.T) {
	p := newPreviews()

	first, doneFirst := p.begin(context.Background(), "editor")
	other, doneOther := p.begin(context.Background(), "other")
	second, doneSecond := p.begin(context.Background(), "editor")

	require.Error(t, first.Err())
	sup := superseded(first)
	require.NotNil(t, sup)
	assert.Equal(t, "editor", sup.Target)

	assert.NoError(t, second.Err())
	assert.NoError(t, other.Err())
	assert.Nil(t, superseded(second))
	assert.Equal(t, 2, p.inFlight())

	// Releasing the superseded preview leaves the newer one registered.
	doneFirst()
	assert.Equal(t, 2, p.inFlight())

	doneSecond()
	assert.Error(t, second.Err())
	assert.Nil(t, superseded(second))
	assert.Equal(t, 1, p.inFlight())

	p.cancelAll()
	assert.Error(t, other.Err())
	assert.Zero(t, p.inFlight())
	doneOther()
}

func TestProfileEndpoints_NoStore(t *testing.T) {
	s := newTestServer(t, false)

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/profiles"},
		{http.MethodGet, "/profiles/" + uuid.NewString()},
		{http.MethodGet, "/documents/" + uuid.NewString()},
	} {
		w := s.do(tc.method, tc.path, profileJSON(t))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, tc.path)
	}
}

func TestProfileEndpoints(t *testing.T) {
	s := newTestServer(t, true)

	w := s.do(http.MethodPost, "/profiles", profileJSON(t))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created db.ProfileRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Ada", created.Profile.Personal.FirstName)

	w = s.do(http.MethodGet, "/profiles/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPut, "/profiles/"+created.ID.String(), []byte(`{"personal": {"first_name": "Augusta"}}`))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Augusta", s.store.profiles[created.ID].Profile.Personal.FirstName)

	w = s.do(http.MethodGet, "/profiles/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/profiles/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPut, "/profiles/"+uuid.NewString(), profileJSON(t))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/profiles", []byte(`{"personal": {"website": "not a url"}}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProfileCVAndDocuments(t *testing.T) {
	s := newTestServer(t, true)

	w := s.do(http.MethodPost, "/profiles", profileJSON(t))
	require.Equal(t, http.StatusCreated, w.Code)
	var created db.ProfileRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = s.do(http.MethodPost, fmt.Sprintf("/profiles/%s/cv", created.ID), []byte(`{"template_id": "compact"}`))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	docID := w.Header().Get("X-Document-ID")
	require.NotEmpty(t, docID)
	pdf := w.Body.Bytes()

	w = s.do(http.MethodGet, fmt.Sprintf("/profiles/%s/documents", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var docs []db.DocumentRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, "compact", docs[0].TemplateID)
	assert.Equal(t, docID, docs[0].ID.String())

	w = s.do(http.MethodGet, "/documents/"+docID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, pdf, w.Body.Bytes())

	w = s.do(http.MethodGet, "/documents/"+docID+"/thumbnail?width=40&height=56", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	w = s.do(http.MethodPost, fmt.Sprintf("/profiles/%s/cv", uuid.New()), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, fmt.Sprintf("/profiles/%s/documents?limit=-1", created.ID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBatchStream(t *testing.T) {
	s := newTestServer(t, false)

	w := s.do(http.MethodPost, "/batch/stream", cvBody(t, ""))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))

	body := w.Body.String()
	cvTemplates := s.gen.Registry().Templates(document.KindCV)
	assert.Equal(t, len(cvTemplates), strings.Count(body, "event: document\n"))
	for _, tmpl := range cvTemplates {
		assert.Contains(t, body, `"template_id":"`+tmpl.ID+`"`)
	}
	assert.Contains(t, body, "event: complete")
	assert.Contains(t, body, `"status":"completed"`)
	assert.NotContains(t, body, "event: error")
}

func TestCORSMiddleware(t *testing.T) {
	s := newTestServer(t, false)

	w := s.do(http.MethodOptions, "/cv", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "X-Page-Count")
}

func TestRateLimitMiddleware(t *testing.T) {
	s := newTestServer(t, false)
	s.rateLimiter = ratelimit.NewLimiter(&ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Hour,
	})
	defer s.rateLimiter.Stop()

	w := s.do(http.MethodGet, "/templates", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))

	w = s.do(http.MethodGet, "/templates", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "rate_limit_exceeded")

	// Health checks are never limited.
	w = s.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSSEWriter(t *testing.T) {
	w := httptest.NewRecorder()
	sse, err := NewSSEWriter(w)
	require.NoError(t, err)

	require.NoError(t, sse.WriteEvent("document", map[string]int{"page_count": 2}))
	sse.WriteComplete("batch-1", "completed")

	body := w.Body.String()
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Contains(t, body, "event: document\ndata: {\"page_count\":2}\n\n")
	assert.Contains(t, body, `"batch_id":"batch-1"`)
}

func TestJSONResponse(t *testing.T) {
	s := newTestServer(t, false)
	w := httptest.NewRecorder()

	s.errorResponse(w, http.StatusTeapot, "short and stout")

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error": "short and stout"}`, w.Body.String())
}
