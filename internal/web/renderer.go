// Package web renders the site's HTML pages.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"immigria-site/internal/content"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page template names.
const (
	PageHome       = "home"
	PageAbout      = "about"
	PageServices   = "services"
	PageService    = "service"
	PageNotFound   = "not_found"
	PageAssessment = "assessment"
	PageResults    = "results"
	PageBooking    = "booking"
	PageContact    = "contact"
	PageError      = "error"
)

var pageNames = []string{
	PageHome, PageAbout, PageServices, PageService, PageNotFound,
	PageAssessment, PageResults, PageBooking, PageContact, PageError,
}

// Paths are the navigation targets templates link to.
type Paths struct {
	Home, About, Services, Contact, Assessment, Booking string
}

var sitePaths = Paths{
	Home:       content.PathHome,
	About:      content.PathAbout,
	Services:   content.PathServices,
	Contact:    content.PathContact,
	Assessment: content.PathAssessment,
	Booking:    content.PathBooking,
}

// Page is what a handler hands to Render. Data is the page-specific view.
type Page struct {
	Title  string
	Active string
	Toast  string
	Data   interface{}

	Company    content.Company
	Nav        []content.NavItem
	NavActions []content.NavItem
	Paths      Paths
}

// Renderer executes the layout around one page template.
type Renderer struct {
	company content.Company
	pages   map[string]*template.Template
}

func NewRenderer(catalog *content.Catalog) (*Renderer, error) {
	r := &Renderer{
		company: catalog.Company,
		pages:   make(map[string]*template.Template, len(pageNames)),
	}
	for _, name := range pageNames {
		tmpl, err := template.New("layout").ParseFS(templateFS,
			"templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// Render writes page with status. The page is fully rendered before any
// byte is sent, so a template error never leaves a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, page Page) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}

	page.Company = r.company
	page.Nav = content.Nav
	page.NavActions = content.NavActions
	page.Paths = sitePaths

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// NotFoundView is the data of the not-found page: one recovery link.
type NotFoundView struct {
	RecoveryPath  string
	RecoveryLabel string
}

// ErrorView is the data of the generic error page.
type ErrorView struct {
	Message string
}

// RenderError renders the generic error page; it falls back to plain text
// if rendering itself fails.
func (r *Renderer) RenderError(w http.ResponseWriter, status int, message string) {
	err := r.Render(w, status, PageError, Page{
		Title: http.StatusText(status),
		Data:  ErrorView{Message: message},
	})
	if err != nil {
		http.Error(w, message, status)
	}
}
