// internal/routes/content/static-pages/handler.go
package staticpages

import (
	"net/http"

	"immigria-site/internal/common/logger"
	"immigria-site/internal/content"
	"immigria-site/internal/web"

	"github.com/gorilla/mux"
)

const RouteName = "static-pages"

type Handler struct {
	catalog  *content.Catalog
	renderer *web.Renderer
	logger   logger.Logger
}

func NewHandler(catalog *content.Catalog, renderer *web.Renderer, log logger.Logger) *Handler {
	return &Handler{
		catalog:  catalog,
		renderer: renderer,
		logger:   log.WithFields(map[string]interface{}{"route": RouteName}),
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc(content.PathHome, h.Home).Methods(http.MethodGet)
	r.HandleFunc(content.PathAbout, h.About).Methods(http.MethodGet)
	r.HandleFunc(content.PathServices, h.Services).Methods(http.MethodGet)
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, web.PageHome, web.Page{
		Active: content.PathHome,
		Data:   HomeView{Home: h.catalog.Home},
	})
}

func (h *Handler) About(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, web.PageAbout, web.Page{
		Title:  TitleAbout,
		Active: content.PathAbout,
		Data:   AboutView{About: h.catalog.About},
	})
}

func (h *Handler) Services(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, web.PageServices, web.Page{
		Title:  TitleServices,
		Active: content.PathServices,
		Data:   ServicesView{Services: h.catalog.ListedServices()},
	})
}

// NotFound renders the fallback for unknown paths with a link home.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, web.PageNotFound, web.Page{
		Title: TitlePageNotFound,
		Data: web.NotFoundView{
			RecoveryPath:  content.PathHome,
			RecoveryLabel: "Back to Home",
		},
	})
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name string, page web.Page) {
	if err := h.renderer.Render(w, status, name, page); err != nil {
		logger.FromContext(r.Context(), h.logger).Error("render failed", map[string]interface{}{
			"page":  name,
			"error": err,
		})
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
