// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"immigria-site/internal/assessment"
	"immigria-site/internal/common/config"
	"immigria-site/internal/common/database"
	"immigria-site/internal/common/logger"
	"immigria-site/internal/site"
	"immigria-site/internal/submission"
)

var mr *miniredis.Miniredis

func TestMain(m *testing.M) {
	var err error

	// Sessions live in an in-process Redis so the breaker-wrapped store is on the path
	mr, err = miniredis.Run()
	if err != nil {
		panic(fmt.Sprintf("failed to start miniredis: %v", err))
	}

	code := m.Run()

	mr.Close()
	os.Exit(code)
}

func testConfig() *config.Config {
	return &config.Config{
		App:    config.AppConfig{Name: "immigria-site", Environment: "test"},
		Server: config.ServerConfig{Host: "127.0.0.1"},
		Sessions: config.SessionsConfig{
			Backend:    config.SessionBackendRedis,
			TTLSeconds: 3600,
			CookieName: "immigria_assessment",
			Redis:      config.RedisConfig{Address: mr.Addr()},
		},
		Submission: config.SubmissionConfig{DelayMS: 20},
		Logging:    config.LoggingConfig{Level: "debug"},
	}
}

type e2eEnv struct {
	site   *site.Site
	server *httptest.Server
	client *http.Client
}

func startSite(t *testing.T) *e2eEnv {
	t.Helper()
	cfg := testConfig()
	log := logger.NewTestLogger(t)

	rdb := database.NewRedis(cfg.Sessions.Redis)
	t.Cleanup(func() { _ = rdb.Close() })
	store := assessment.NewRedisStore(rdb.Cmdable(), cfg.Sessions.TTL(), log)

	st, err := site.New(cfg, store, nil, log)
	require.NoError(t, err)

	ts := httptest.NewServer(st.Server.Handler())
	t.Cleanup(func() {
		ts.Close()
		st.Submitter.Wait()
	})

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &e2eEnv{
		site:   st,
		server: ts,
		client: &http.Client{Jar: jar, Timeout: 10 * time.Second},
	}
}

func (e *e2eEnv) get(t *testing.T, path string) (int, string) {
	t.Helper()
	resp, err := e.client.Get(e.server.URL + path)
	require.NoError(t, err)
	return readBody(t, resp)
}

func (e *e2eEnv) postForm(t *testing.T, path string, form url.Values) (int, string) {
	t.Helper()
	resp, err := e.client.PostForm(e.server.URL+path, form)
	require.NoError(t, err)
	return readBody(t, resp)
}

func (e *e2eEnv) sendJSON(t *testing.T, method, path string, body interface{}) (int, string) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := e.client.Do(req)
	require.NoError(t, err)
	return readBody(t, resp)
}

func readBody(t *testing.T, resp *http.Response) (int, string) {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

func TestFullE2E(t *testing.T) {
	env := startSite(t)

	t.Log("🚀 Starting full site E2E test...")

	// 1. Content pages
	checkContentPages(t, env)

	// 2. Assessment wizard through the browser flow
	walkAssessmentWizard(t, env)

	// 3. Assessment through the JSON API
	walkAssessmentAPI(t, env)

	// 4. Booking and contact forms
	submitForms(t, env)

	// 5. Ops endpoints reflect the traffic above
	checkOps(t, env)

	t.Log("✅ ALL TESTS PASSED")
}

// ==========================
// 1. Content Pages
// ==========================
func checkContentPages(t *testing.T, env *e2eEnv) {
	tests := []struct {
		path       string
		wantStatus int
		contains   string
	}{
		{"/", http.StatusOK, "Success Stories from Our Clients"},
		{"/about", http.StatusOK, "Meet the Experts Behind Your Success"},
		{"/services", http.StatusOK, "Not Sure Which Service You Need?"},
		{"/services/family-sponsorship", http.StatusOK, "Estimated Timeline"},
		{"/services/asylum", http.StatusNotFound, "View All Services"},
		{"/pricing", http.StatusNotFound, "Page Not Found"},
		{"/api/services", http.StatusOK, `"count":8`},
	}
	for _, tt := range tests {
		status, body := env.get(t, tt.path)
		assert.Equal(t, tt.wantStatus, status, tt.path)
		assert.Contains(t, body, tt.contains, tt.path)
	}
	t.Log("✅ Content pages served")
}

// ==========================
// 2. Assessment Wizard
// ==========================
func walkAssessmentWizard(t *testing.T, env *e2eEnv) {
	status, body := env.get(t, "/assessment")
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, body, "Step 1 of 5")
	require.Len(t, mr.Keys(), 1)

	steps := []url.Values{
		{"targetCountry": {"canada"}, "purpose": {"family"}},
		{"countryOfOrigin": {"philippines"}, "age": {"34"}},
		{"education": {"bachelor's-degree"}, "workExperience": {"8"}},
		{"languageScore": {"clb-7"}, "hasJobOffer": {"no"}, "hasFamilyInCanada": {"yes"}},
	}
	for i, fields := range steps {
		fields.Set("action", "next")
		status, body = env.postForm(t, "/assessment", fields)
		require.Equal(t, http.StatusOK, status)
		assert.Contains(t, body, fmt.Sprintf("Step %d of 5", i+2))
	}

	// one step back and forward again keeps the answers
	status, body = env.postForm(t, "/assessment", url.Values{"action": {"back"}})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `value="clb-7" selected`)
	env.postForm(t, "/assessment", url.Values{"action": {"next"}})

	status, body = env.postForm(t, "/assessment", url.Values{
		"name":   {"Maria Santos"},
		"email":  {"maria@example.com"},
		"action": {"next"},
	})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Your Assessment Results")
	assert.Contains(t, body, "Family Sponsorship")
	assert.Contains(t, body, "Provincial Nominee Programs")
	assert.Empty(t, mr.Keys(), "completed session must be discarded")

	t.Log("✅ Wizard reached results and discarded its session")
}

// ==========================
// 3. Assessment API
// ==========================
func walkAssessmentAPI(t *testing.T, env *e2eEnv) {
	status, body := env.sendJSON(t, http.MethodPost, "/api/assessment/sessions", nil)
	require.Equal(t, http.StatusCreated, status)
	var state assessment.State
	require.NoError(t, json.Unmarshal([]byte(body), &state))
	base := "/api/assessment/sessions/" + state.SessionID

	answers := map[int][2]string{1: {"purpose", "work"}, 4: {"hasJobOffer", "yes"}}
	for step := 1; step <= assessment.TotalSteps; step++ {
		if a, ok := answers[step]; ok {
			status, _ = env.sendJSON(t, http.MethodPut, base+"/answers", map[string]string{"field": a[0], "value": a[1]})
			require.Equal(t, http.StatusOK, status, "answer %s on step %d", a[0], step)
		}
		status, body = env.sendJSON(t, http.MethodPost, base+"/advance", nil)
		require.Equal(t, http.StatusOK, status)
	}
	require.NoError(t, json.Unmarshal([]byte(body), &state))
	assert.True(t, state.Completed)
	require.Len(t, state.Recommendations, 3)
	assert.Equal(t, "Express Entry", state.Recommendations[0].Title)
	assert.Equal(t, "LMIA Work Permit", state.Recommendations[1].Title)

	status, _ = env.sendJSON(t, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, status)

	t.Log("✅ API assessment resolved")
}

// ==========================
// 4. Lead Forms
// ==========================
func submitForms(t *testing.T, env *e2eEnv) {
	status, body := env.postForm(t, "/contact", url.Values{
		"name":    {"David Chen"},
		"email":   {"david@example.com"},
		"subject": {"LMIA for two engineers"},
		"message": {"We are hiring from overseas."},
	})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Message sent successfully!")

	status, body = env.postForm(t, "/booking", url.Values{"name": {"Priya"}})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, body, "This field is required")

	status, body = env.sendJSON(t, http.MethodPost, "/api/booking", map[string]string{
		"name":    "Priya Sharma",
		"email":   "priya@example.com",
		"phone":   "+1 604 555 0199",
		"country": "India",
		"service": "family-sponsorship",
		"date":    "2026-12-01",
		"time":    "2:00-pm",
	})
	require.Equal(t, http.StatusOK, status)
	var res submission.Result
	require.NoError(t, json.Unmarshal([]byte(body), &res))
	assert.Equal(t, submission.StatusSent, res.Status)

	t.Log("✅ Forms submitted")
}

// ==========================
// 5. Ops
// ==========================
func checkOps(t *testing.T, env *e2eEnv) {
	ops := httptest.NewServer(env.site.Ops)
	defer ops.Close()

	resp, err := http.Get(ops.URL + "/ready")
	require.NoError(t, err)
	status, _ := readBody(t, resp)
	assert.Equal(t, http.StatusOK, status)

	resp, err = http.Get(ops.URL + "/metrics")
	require.NoError(t, err)
	status, body := readBody(t, resp)
	require.Equal(t, http.StatusOK, status)
	for _, metric := range []string{
		"site_http_requests_total",
		"assessment_sessions_started_total",
		"assessment_results_total",
		"form_submissions_total",
	} {
		assert.True(t, strings.Contains(body, metric), "missing metric %s", metric)
	}

	// the store's breaker sees Redis go away
	mr.SetError("LOADING")
	defer mr.SetError("")
	resp, err = http.Get(ops.URL + "/ready")
	require.NoError(t, err)
	status, body = readBody(t, resp)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Contains(t, body, "breaker")

	t.Log("✅ Ops endpoints healthy")
}
