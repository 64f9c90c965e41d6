// internal/routes/content/service-detail/handler.go
package servicedetail

import (
	"encoding/json"
	"net/http"

	apperrors "immigria-site/internal/common/errors"
	"immigria-site/internal/common/logger"
	"immigria-site/internal/content"
	"immigria-site/internal/web"

	"github.com/gorilla/mux"
)

const RouteName = "service-detail"

type Handler struct {
	catalog  *content.Catalog
	renderer *web.Renderer
	errs     *apperrors.ErrorHandler
	logger   logger.Logger
}

func NewHandler(catalog *content.Catalog, renderer *web.Renderer, errs *apperrors.ErrorHandler, log logger.Logger) *Handler {
	return &Handler{
		catalog:  catalog,
		renderer: renderer,
		errs:     errs,
		logger:   log.WithFields(map[string]interface{}{"route": RouteName}),
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc(content.PathServices+"/{serviceId}", h.Page).Methods(http.MethodGet)
	r.HandleFunc("/api/services", h.List).Methods(http.MethodGet)
	r.HandleFunc("/api/services/{serviceId}", h.Get).Methods(http.MethodGet)
}

// Page renders one service. Unlisted services still resolve by id.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["serviceId"]
	log := logger.FromContext(r.Context(), h.logger)

	svc, err := h.catalog.Service(id)
	if err != nil {
		log.Info("service not found", map[string]interface{}{"serviceId": id})
		h.render(w, r, http.StatusNotFound, web.PageNotFound, web.Page{
			Title:  TitleServiceNotFound,
			Active: content.PathServices,
			Data: web.NotFoundView{
				RecoveryPath:  content.PathServices,
				RecoveryLabel: "View All Services",
			},
		})
		return
	}

	h.render(w, r, http.StatusOK, web.PageService, web.Page{
		Title:  svc.Title,
		Active: content.PathServices,
		Data:   ServiceView{Service: svc},
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	listed := h.catalog.ListedServices()
	out := ListOutput{Services: make([]ServiceSummary, 0, len(listed))}
	for _, s := range listed {
		out.Services = append(out.Services, ServiceSummary{
			ID:       s.ID,
			Icon:     s.Icon,
			Title:    s.Title,
			Summary:  s.Summary,
			Features: s.Features,
			Path:     s.Path(),
		})
	}
	out.Count = len(out.Services)
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	svc, err := h.catalog.Service(mux.Vars(r)["serviceId"])
	if err != nil {
		h.errs.WriteJSON(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, svc)
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

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
