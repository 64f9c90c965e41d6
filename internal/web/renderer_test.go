package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"immigria-site/internal/content"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	catalog, err := content.Default()
	require.NoError(t, err)
	r, err := NewRenderer(catalog)
	require.NoError(t, err)
	return r
}

func TestRender_NotFoundPage(t *testing.T) {
	r := newTestRenderer(t)
	rec := httptest.NewRecorder()

	err := r.Render(rec, http.StatusNotFound, PageNotFound, Page{
		Title: "Service Not Found",
		Data:  NotFoundView{RecoveryPath: content.PathServices, RecoveryLabel: "View All Services"},
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "<h1>Service Not Found</h1>")
	assert.Contains(t, body, `href="/services">View All Services</a>`)
	assert.Contains(t, body, "info@immigria.com")
	assert.Contains(t, body, `href="/assessment">Free Assessment</a>`)
}

func TestRender_ToastAndActiveNav(t *testing.T) {
	r := newTestRenderer(t)
	rec := httptest.NewRecorder()

	err := r.Render(rec, http.StatusOK, PageError, Page{
		Title:  "Oops",
		Active: content.PathAbout,
		Toast:  "Saved!",
		Data:   ErrorView{Message: "x"},
	})
	require.NoError(t, err)

	body := rec.Body.String()
	assert.Contains(t, body, `<div class="toast" role="status">Saved!</div>`)
	assert.Contains(t, body, `<a href="/about" aria-current="page">About</a>`)
}

func TestRender_EscapesData(t *testing.T) {
	r := newTestRenderer(t)
	rec := httptest.NewRecorder()

	r.RenderError(rec, http.StatusBadRequest, "<script>alert(1)</script>")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<script>alert(1)</script>")
	assert.Contains(t, rec.Body.String(), "&lt;script&gt;")
}

func TestRender_UnknownPage(t *testing.T) {
	r := newTestRenderer(t)
	err := r.Render(httptest.NewRecorder(), http.StatusOK, "pricing", Page{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown page")
}
