// internal/routes/assessment/assessment-wizard/handler.go
package assessmentwizard

import (
	"net/http"

	"immigria-site/internal/assessment"
	apperrors "immigria-site/internal/common/errors"
	"immigria-site/internal/common/logger"
	"immigria-site/internal/content"
	"immigria-site/internal/web"

	"github.com/gorilla/mux"
)

const RouteName = "assessment-wizard"

type Handler struct {
	config   *Config
	store    assessment.SessionStore
	renderer *web.Renderer
	logger   logger.Logger
}

func NewHandler(config *Config, store assessment.SessionStore, renderer *web.Renderer, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		store:    store,
		renderer: renderer,
		logger:   log.WithFields(map[string]interface{}{"route": RouteName}),
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc(content.PathAssessment, h.Show).Methods(http.MethodGet)
	r.HandleFunc(content.PathAssessment, h.Submit).Methods(http.MethodPost)
}

// Show renders the visitor's current step, starting a session if needed.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	sess, _, err := h.loadOrCreate(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.renderStep(w, r, http.StatusOK, sess, nil)
}

// Submit applies the posted answers of the current step, then moves the
// wizard in the direction of the pressed button.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context(), h.logger)

	if err := r.ParseForm(); err != nil {
		h.renderer.RenderError(w, http.StatusBadRequest, "We could not read your answers. Please try again.")
		return
	}

	sess, created, err := h.loadOrCreate(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if created {
		// the previous session expired; its step is unknown, so start over
		log.Info("assessment session expired, restarting", nil)
		h.redirect(w, r)
		return
	}

	for _, field := range assessment.StepFields(sess.Controller.Step) {
		values, ok := r.PostForm[field]
		if !ok || len(values) == 0 {
			continue
		}
		if err := sess.Update(field, values[0]); err != nil {
			h.fail(w, r, err)
			return
		}
	}

	switch r.PostForm.Get("action") {
	case ActionBack:
		h.back(w, r, sess)
	default:
		h.next(w, r, sess)
	}
}

func (h *Handler) back(w http.ResponseWriter, r *http.Request, sess *assessment.Session) {
	from := sess.Controller.Step
	if _, err := sess.Retreat(); err != nil {
		h.fail(w, r, err)
		return
	}
	if sess.Controller.Step != from {
		assessment.RecordTransition(assessment.DirectionBack)
	}
	if err := h.store.Save(r.Context(), sess); err != nil {
		h.fail(w, r, err)
		return
	}
	h.redirect(w, r)
}

func (h *Handler) next(w http.ResponseWriter, r *http.Request, sess *assessment.Session) {
	log := logger.FromContext(r.Context(), h.logger)

	_, err := sess.Advance(h.config.RequireStepFields)
	if apperrors.HasCode(err, apperrors.ErrCodeStepIncomplete) {
		if err := h.store.Save(r.Context(), sess); err != nil {
			h.fail(w, r, err)
			return
		}
		h.renderStep(w, r, http.StatusUnprocessableEntity, sess, sess.MissingFields())
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	assessment.RecordTransition(assessment.DirectionForward)

	if !sess.Controller.Completed() {
		if err := h.store.Save(r.Context(), sess); err != nil {
			h.fail(w, r, err)
			return
		}
		h.redirect(w, r)
		return
	}

	// results are shown once; the session is discarded
	recs := sess.Recommendations()
	assessment.RecordResult(sess.Answers)
	if err := h.store.Delete(r.Context(), sess.ID); err != nil {
		log.Warn("failed to discard completed session", map[string]interface{}{
			"sessionId": sess.ID,
			"error":     err,
		})
	}
	h.clearCookie(w)

	log.Info("assessment completed", map[string]interface{}{
		"sessionId":       sess.ID,
		"purpose":         sess.Answers.Purpose,
		"recommendations": len(recs),
	})

	h.render(w, r, http.StatusOK, web.PageResults, web.Page{
		Title:  assessment.StepResults.Title(),
		Active: content.PathAssessment,
		Data: ResultsView{
			Name:            sess.Answers.Name,
			Recommendations: recs,
		},
	})
}

// loadOrCreate returns the session named by the cookie, or a new one when
// the cookie is missing or its session is gone.
func (h *Handler) loadOrCreate(w http.ResponseWriter, r *http.Request) (*assessment.Session, bool, error) {
	if c, err := r.Cookie(h.config.CookieName); err == nil && c.Value != "" {
		sess, err := h.store.Get(r.Context(), c.Value)
		if err == nil {
			return sess, false, nil
		}
		if !apperrors.HasCode(err, apperrors.ErrCodeSessionNotFound) {
			return nil, false, err
		}
	}

	sess, err := h.store.Create(r.Context())
	if err != nil {
		return nil, false, err
	}
	assessment.RecordStarted()
	h.setCookie(w, sess.ID)

	logger.FromContext(r.Context(), h.logger).Debug("assessment session started", map[string]interface{}{
		"sessionId": sess.ID,
	})
	return sess, true, nil
}

func (h *Handler) setCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.config.CookieName,
		Value:    id,
		Path:     content.PathAssessment,
		MaxAge:   int(h.config.CookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.config.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.config.CookieName,
		Value:    "",
		Path:     content.PathAssessment,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) redirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, content.PathAssessment, http.StatusSeeOther)
}

func (h *Handler) renderStep(w http.ResponseWriter, r *http.Request, status int, sess *assessment.Session, missing []string) {
	c := sess.Controller
	h.render(w, r, status, web.PageAssessment, web.Page{
		Title:  TitleAssessment,
		Active: content.PathAssessment,
		Data: StepView{
			Step:            int(c.Step),
			TotalSteps:      assessment.TotalSteps,
			Title:           c.Step.Title(),
			ProgressPercent: c.ProgressPercent(),
			Missing:         missing,
			Answers:         sess.Answers,
			Options:         wizardOptions,
			IsFirst:         c.Step == assessment.Step1,
			IsLast:          c.Step == assessment.Step5,
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

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	stdErr := apperrors.Normalize(err)
	status := apperrors.HTTPStatus(stdErr.Code)

	fields := map[string]interface{}{"code": stdErr.Code, "error": err}
	log := logger.FromContext(r.Context(), h.logger)
	if status >= http.StatusInternalServerError {
		log.Error("assessment request failed", fields)
	} else {
		log.Warn("assessment request rejected", fields)
	}

	message := "Something went wrong with your assessment. Please try again."
	if stdErr.Code == apperrors.ErrCodeSessionStoreUnavailable {
		message = "Your assessment is temporarily unavailable. Please try again in a moment."
	}
	h.renderer.RenderError(w, status, message)
}
