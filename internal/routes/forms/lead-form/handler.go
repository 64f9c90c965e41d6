// internal/routes/forms/lead-form/handler.go
package leadform

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	apperrors "immigria-site/internal/common/errors"
	sitehttp "immigria-site/internal/common/http"
	"immigria-site/internal/common/logger"
	"immigria-site/internal/common/validation"
	"immigria-site/internal/content"
	"immigria-site/internal/submission"
	"immigria-site/internal/web"

	"github.com/gorilla/mux"
)

const RouteName = "lead-form"

type Handler struct {
	config    *Config
	catalog   *content.Catalog
	renderer  *web.Renderer
	submitter *submission.Submitter
	limiter   *sitehttp.Limiter
	errs      *apperrors.ErrorHandler
	logger    logger.Logger
	now       func() time.Time
}

// NewHandler wires the booking and contact forms. limiter may be nil to
// disable rate limiting.
func NewHandler(config *Config, catalog *content.Catalog, renderer *web.Renderer, submitter *submission.Submitter,
	limiter *sitehttp.Limiter, errs *apperrors.ErrorHandler, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		catalog:   catalog,
		renderer:  renderer,
		submitter: submitter,
		limiter:   limiter,
		errs:      errs,
		logger:    log.WithFields(map[string]interface{}{"route": RouteName}),
		now:       time.Now,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	for _, form := range []string{validation.FormBooking, validation.FormContact} {
		fp := formPages[form]
		r.HandleFunc(fp.path, h.Show(form)).Methods(http.MethodGet)
		r.Handle(fp.path, h.limit(h.Submit(form))).Methods(http.MethodPost)
		r.Handle("/api/"+form, h.limit(h.SubmitJSON(form))).Methods(http.MethodPost)
	}
}

func (h *Handler) limit(next http.HandlerFunc) http.Handler {
	if h.limiter == nil {
		return next
	}
	return h.limiter.Middleware(h.errs)(next)
}

func (h *Handler) Show(form string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.renderForm(w, r, http.StatusOK, form, nil, nil, "")
	}
}

// Submit handles the HTML form post: validate, run the simulated send, then
// show a toast and an empty form.
func (h *Handler) Submit(form string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context(), h.logger)

		r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxBodyBytes)
		if err := r.ParseForm(); err != nil {
			h.renderer.RenderError(w, http.StatusBadRequest, "We could not read your submission. Please try again.")
			return
		}

		values := make(map[string]string, len(formPages[form].fields))
		for _, f := range formPages[form].fields {
			values[f] = r.PostForm.Get(f)
		}

		fieldErrs, err := h.validate(r, form, toInput(values))
		if err != nil {
			log.Error("form validation failed to run", map[string]interface{}{"form": form, "error": err})
			h.renderer.RenderError(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
			return
		}
		if len(fieldErrs) > 0 {
			h.renderForm(w, r, http.StatusUnprocessableEntity, form, values, fieldErrs, ToastInvalid)
			return
		}

		res, err := h.submitter.Submit(r.Context(), form, submitKey(form, r, values["email"]))
		switch {
		case apperrors.HasCode(err, apperrors.ErrCodeSubmissionInProgress):
			h.renderForm(w, r, http.StatusConflict, form, values, nil, ToastInProgress)
			return
		case err != nil:
			// the visitor navigated away; nothing left to render
			log.Debug("form submission abandoned", map[string]interface{}{"form": form, "error": err})
			return
		}

		h.renderForm(w, r, http.StatusOK, form, nil, nil, res.Message)
	}
}

// SubmitJSON accepts the same fields as a JSON object and answers with the
// submission result.
func (h *Handler) SubmitJSON(form string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input map[string]interface{}
		r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxBodyBytes)
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			h.errs.WriteJSON(w, r, apperrors.NewBadRequestError(fmt.Sprintf("invalid %s body: %v", form, err)))
			return
		}
		if input == nil {
			h.errs.WriteJSON(w, r, apperrors.NewBadRequestError("body must be a JSON object"))
			return
		}

		fieldErrs, err := h.validate(r, form, input)
		if err != nil {
			h.errs.WriteJSON(w, r, apperrors.NewInternalError(err))
			return
		}
		if len(fieldErrs) > 0 {
			h.errs.WriteJSON(w, r, apperrors.NewFormValidationFailedError(form, fieldErrs))
			return
		}

		email, _ := input["email"].(string)
		res, err := h.submitter.Submit(r.Context(), form, submitKey(form, r, email))
		if err != nil {
			if errors.Is(err, r.Context().Err()) {
				return
			}
			h.errs.WriteJSON(w, r, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(res)
	}
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, status int, form string,
	values, fieldErrs map[string]string, toast string) {
	fp := formPages[form]
	view := FormView{Values: values, Errors: fieldErrs}
	if form == validation.FormBooking {
		view.Services = h.catalog.BookingServiceOptions()
		view.Times = h.catalog.BookingTimeOptions()
		view.Today = h.now().UTC().Format(dateLayout)
	}

	err := h.renderer.Render(w, status, fp.page, web.Page{
		Title:  fp.title,
		Active: fp.path,
		Toast:  toast,
		Data:   view,
	})
	if err != nil {
		logger.FromContext(r.Context(), h.logger).Error("render failed", map[string]interface{}{
			"page":  fp.page,
			"error": err,
		})
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *Handler) validate(r *http.Request, form string, input map[string]interface{}) (map[string]string, error) {
	result, err := validation.ValidateForm(form, input)
	if err != nil {
		return nil, err
	}
	if result.Valid {
		return nil, nil
	}
	logger.FromContext(r.Context(), h.logger).Debug("form rejected", map[string]interface{}{
		"form":   form,
		"errors": result.GetErrorMessages(),
	})
	return result.FieldErrors(), nil
}

func toInput(values map[string]string) map[string]interface{} {
	out := make(map[string]interface{}, len(values))
	for k, v := range values {
		out[k] = v
	}
	return out
}

// submitKey scopes the one-in-flight guard to a form, a client and an
// address, so two visitors behind one proxy do not block each other.
func submitKey(form string, r *http.Request, email string) string {
	return form + "|" + sitehttp.ClientIP(r) + "|" + strings.ToLower(strings.TrimSpace(email))
}
