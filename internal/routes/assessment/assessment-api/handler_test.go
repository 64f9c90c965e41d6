// internal/routes/assessment/assessment-api/handler_test.go
package assessmentapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"immigria-site/internal/assessment"
	"immigria-site/internal/common/config"
	apperrors "immigria-site/internal/common/errors"
	"immigria-site/internal/common/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{MaxBodyBytes: 4 << 10}
}

func createTestRouter(t *testing.T, cfg *Config, store assessment.SessionStore) *mux.Router {
	t.Helper()
	log := logger.NewTestLogger(t)
	h := NewHandler(cfg, store, apperrors.NewErrorHandler(log), log)
	r := mux.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// stores runs each test against both session backends.
func stores(t *testing.T) map[string]func() assessment.SessionStore {
	return map[string]func() assessment.SessionStore{
		"memory": func() assessment.SessionStore {
			return assessment.NewMemoryStore(time.Hour)
		},
		"redis": func() assessment.SessionStore {
			mr := miniredis.RunT(t)
			client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
			t.Cleanup(func() { _ = client.Close() })
			return assessment.NewRedisStore(client, time.Hour, logger.NewTestLogger(t))
		},
	}
}

func call(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, &buf))
	return rec
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) assessment.State {
	t.Helper()
	var state assessment.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	return state
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apperrors.StandardError {
	t.Helper()
	var e apperrors.StandardError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	return e
}

func createSession(t *testing.T, r http.Handler) assessment.State {
	t.Helper()
	rec := call(t, r, http.MethodPost, "/api/assessment/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	return decodeState(t, rec)
}

// ==========================
// Session Lifecycle Tests
// ==========================

func TestCreateAndGet(t *testing.T) {
	for name, newStore := range stores(t) {
		t.Run(name, func(t *testing.T) {
			r := createTestRouter(t, createTestConfig(), newStore())

			rec := call(t, r, http.MethodPost, "/api/assessment/sessions", nil)
			require.Equal(t, http.StatusCreated, rec.Code)
			state := decodeState(t, rec)
			assert.NotEmpty(t, state.SessionID)
			assert.Equal(t, 1, state.Step)
			assert.Equal(t, 20, state.ProgressPercent)
			assert.False(t, state.Completed)
			assert.Equal(t, "/api/assessment/sessions/"+state.SessionID, rec.Header().Get("Location"))

			rec = call(t, r, http.MethodGet, "/api/assessment/sessions/"+state.SessionID, nil)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, state.SessionID, decodeState(t, rec).SessionID)

			rec = call(t, r, http.MethodGet, "/api/assessment/sessions/missing", nil)
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Equal(t, apperrors.ErrCodeSessionNotFound, decodeError(t, rec).Code)
		})
	}
}

func TestFullFlow(t *testing.T) {
	for name, newStore := range stores(t) {
		t.Run(name, func(t *testing.T) {
			r := createTestRouter(t, createTestConfig(), newStore())
			id := createSession(t, r).SessionID
			base := "/api/assessment/sessions/" + id

			rec := call(t, r, http.MethodPut, base+"/answers", UpdateAnswerInput{Field: "purpose", Value: "business"})
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "business", decodeState(t, rec).Answers.Purpose)

			for want := 2; want <= 5; want++ {
				rec = call(t, r, http.MethodPost, base+"/advance", nil)
				require.Equal(t, http.StatusOK, rec.Code)
				assert.Equal(t, want, decodeState(t, rec).Step)
			}

			rec = call(t, r, http.MethodPost, base+"/advance", nil)
			require.Equal(t, http.StatusOK, rec.Code)
			state := decodeState(t, rec)
			assert.True(t, state.Completed)
			assert.Equal(t, 100, state.ProgressPercent)
			assert.Equal(t, "Your Assessment Results", state.Title)
			require.Len(t, state.Recommendations, 2)
			assert.Equal(t, "Start-up Visa Program", state.Recommendations[0].Title)
			assert.Equal(t, assessment.MediumMatch, state.Recommendations[0].Match)
			assert.Equal(t, "Provincial Nominee Programs", state.Recommendations[1].Title)

			// completed sessions are discarded
			rec = call(t, r, http.MethodGet, base, nil)
			assert.Equal(t, http.StatusNotFound, rec.Code)
		})
	}
}

func TestRetreat(t *testing.T) {
	r := createTestRouter(t, createTestConfig(), assessment.NewMemoryStore(time.Hour))
	base := "/api/assessment/sessions/" + createSession(t, r).SessionID

	rec := call(t, r, http.MethodPost, base+"/retreat", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decodeState(t, rec).Step)

	call(t, r, http.MethodPost, base+"/advance", nil)
	call(t, r, http.MethodPost, base+"/advance", nil)
	rec = call(t, r, http.MethodPost, base+"/retreat", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decodeState(t, rec).Step)
}

// ==========================
// Answer Tests
// ==========================

func TestUpdateAnswer(t *testing.T) {
	tests := []struct {
		name     string
		body     interface{}
		wantCode int
		wantErr  apperrors.ErrorCode
	}{
		{
			name:     "field of the current step",
			body:     UpdateAnswerInput{Field: "targetCountry", Value: "somewhere"},
			wantCode: http.StatusOK,
		},
		{
			name:     "field of a later step",
			body:     UpdateAnswerInput{Field: "email", Value: "ana@example.com"},
			wantCode: http.StatusConflict,
			wantErr:  apperrors.ErrCodeFieldNotOnStep,
		},
		{
			name:     "unknown field",
			body:     UpdateAnswerInput{Field: "salary", Value: "100k"},
			wantCode: http.StatusBadRequest,
			wantErr:  apperrors.ErrCodeUnknownField,
		},
		{
			name:     "missing field name",
			body:     map[string]string{"value": "x"},
			wantCode: http.StatusBadRequest,
			wantErr:  apperrors.ErrCodeBadRequest,
		},
		{
			name:     "non-string value",
			body:     map[string]interface{}{"field": "age", "value": 30},
			wantCode: http.StatusBadRequest,
			wantErr:  apperrors.ErrCodeBadRequest,
		},
	}

	r := createTestRouter(t, createTestConfig(), assessment.NewMemoryStore(time.Hour))
	base := "/api/assessment/sessions/" + createSession(t, r).SessionID

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := call(t, r, http.MethodPut, base+"/answers", tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, decodeError(t, rec).Code)
			}
		})
	}
}

func TestUpdateAnswer_OnlyNamedFieldChanges(t *testing.T) {
	r := createTestRouter(t, createTestConfig(), assessment.NewMemoryStore(time.Hour))
	base := "/api/assessment/sessions/" + createSession(t, r).SessionID

	call(t, r, http.MethodPut, base+"/answers", UpdateAnswerInput{Field: "targetCountry", Value: "mars"})
	rec := call(t, r, http.MethodPut, base+"/answers", UpdateAnswerInput{Field: "purpose", Value: "work"})
	state := decodeState(t, rec)

	assert.Equal(t, assessment.Answers{TargetCountry: "mars", Purpose: "work"}, state.Answers)
}

func TestUpdateAnswer_FollowsCurrentStep(t *testing.T) {
	r := createTestRouter(t, createTestConfig(), assessment.NewMemoryStore(time.Hour))
	base := "/api/assessment/sessions/" + createSession(t, r).SessionID

	rec := call(t, r, http.MethodPut, base+"/answers", UpdateAnswerInput{Field: "hasJobOffer", Value: "yes"})
	require.Equal(t, http.StatusConflict, rec.Code)
	e := decodeError(t, rec)
	assert.Equal(t, apperrors.ErrCodeFieldNotOnStep, e.Code)
	assert.Equal(t, []interface{}{"targetCountry", "purpose"}, e.Metadata["stepFields"])

	for i := 0; i < 3; i++ {
		call(t, r, http.MethodPost, base+"/advance", nil)
	}
	rec = call(t, r, http.MethodPut, base+"/answers", UpdateAnswerInput{Field: "hasJobOffer", Value: "yes"})
	require.Equal(t, http.StatusOK, rec.Code)
	state := decodeState(t, rec)
	assert.Equal(t, 4, state.Step)
	assert.Equal(t, "yes", state.Answers.HasJobOffer)
}

func TestAdvance_RequireStepFields(t *testing.T) {
	cfg := createTestConfig()
	cfg.RequireStepFields = true
	r := createTestRouter(t, cfg, assessment.NewMemoryStore(time.Hour))
	base := "/api/assessment/sessions/" + createSession(t, r).SessionID

	rec := call(t, r, http.MethodPost, base+"/advance", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	e := decodeError(t, rec)
	assert.Equal(t, apperrors.ErrCodeStepIncomplete, e.Code)
	assert.Equal(t, []interface{}{"targetCountry", "purpose"}, e.Metadata["missingFields"])

	call(t, r, http.MethodPut, base+"/answers", UpdateAnswerInput{Field: "targetCountry", Value: "canada"})
	call(t, r, http.MethodPut, base+"/answers", UpdateAnswerInput{Field: "purpose", Value: "work"})
	rec = call(t, r, http.MethodPost, base+"/advance", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decodeState(t, rec).Step)
}

func TestLoadConfig(t *testing.T) {
	cfg := LoadConfig(&config.Config{Assessment: config.AssessmentConfig{RequireStepFields: true}})
	assert.True(t, cfg.RequireStepFields)
	assert.Positive(t, cfg.MaxBodyBytes)
}
