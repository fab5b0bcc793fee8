package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/snapcal/backend/internal/service"
	"github.com/pageza/snapcal/backend/internal/testhelpers"
	"github.com/pageza/snapcal/backend/internal/types"
)

const testToken = "device-token"

// MockAnalyzer is a testify mock of service.IAnalyzerService
type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) AnalyzeImage(ctx context.Context, image []byte) (*service.Analysis, error) {
	args := m.Called(ctx, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Analysis), args.Error(1)
}

func (m *MockAnalyzer) OnDeviceAvailable() bool {
	return m.Called().Bool(0)
}

type stubValidator struct{}

func (stubValidator) ValidateToken(token string) (*types.DeviceClaims, error) {
	if token != testToken {
		return nil, errors.New("bad token")
	}
	return &types.DeviceClaims{Device: "phone"}, nil
}

// memoryDrafts keeps drafts in a map
type memoryDrafts struct {
	mu     sync.Mutex
	drafts map[string]types.AnalysisDraft
}

func (m *memoryDrafts) SaveDraft(_ context.Context, draft *types.AnalysisDraft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	draft.ID = uuid.NewString()
	m.drafts[draft.ID] = *draft
	return nil
}

func (m *memoryDrafts) GetDraft(_ context.Context, id string) (*types.AnalysisDraft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drafts[id]
	if !ok {
		return nil, service.ErrDraftNotFound
	}
	return &d, nil
}

func (m *memoryDrafts) DeleteDraft(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.drafts[id]; !ok {
		return service.ErrDraftNotFound
	}
	delete(m.drafts, id)
	return nil
}

func (m *memoryDrafts) TakeDraft(_ context.Context, id string) (*types.AnalysisDraft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drafts[id]
	if !ok {
		return nil, service.ErrDraftNotFound
	}
	delete(m.drafts, id)
	return &d, nil
}

func (m *memoryDrafts) RestoreDraft(_ context.Context, draft *types.AnalysisDraft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drafts[draft.ID] = *draft
	return nil
}

type fakeImages struct {
	err  error
	puts int
}

func (f *fakeImages) Put(_ context.Context, _ []byte) (string, error) {
	f.puts++
	if f.err != nil {
		return "", f.err
	}
	return "https://meals.test/meal-images/1.jpg", nil
}

type testAPI struct {
	router   *gin.Engine
	db       *gorm.DB
	analyzer *MockAnalyzer
	drafts   *memoryDrafts
	images   *fakeImages
}

// fixedNow is the pinned clock of every handler test
var fixedNow = time.Date(2025, 3, 10, 12, 30, 0, 0, time.Local)

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	previous := now
	now = func() time.Time { return fixedNow }
	t.Cleanup(func() { now = previous })

	db := testhelpers.NewTestDB(t)
	calories := service.NewCalorieService(db)
	profiles := service.NewProfileService(db)

	ta := &testAPI{
		router:   gin.New(),
		db:       db,
		analyzer: new(MockAnalyzer),
		drafts:   &memoryDrafts{drafts: map[string]types.AnalysisDraft{}},
		images:   &fakeImages{},
	}
	SetupAPI(ta.router, Deps{
		Analyzer:  ta.analyzer,
		Drafts:    ta.drafts,
		Images:    ta.images,
		Settings:  service.NewSettingsService(db),
		Profiles:  profiles,
		Calories:  calories,
		Dashboard: service.NewDashboardService(calories, profiles),
		Tokens:    stubValidator{},
	})
	return ta
}

func (ta *testAPI) do(t *testing.T, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Authorization", "Bearer "+testToken)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	ta.router.ServeHTTP(w, req)
	return w
}

func (ta *testAPI) doJSON(t *testing.T, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}
	return ta.do(t, method, path, body, "application/json")
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func strPtr(s string) *string { return &s }
