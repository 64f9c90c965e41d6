// internal/routes/assessment/assessment-api/handler.go
package assessmentapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"immigria-site/internal/assessment"
	apperrors "immigria-site/internal/common/errors"
	"immigria-site/internal/common/logger"

	"github.com/gorilla/mux"
)

const RouteName = "assessment-api"

type Handler struct {
	config *Config
	store  assessment.SessionStore
	errs   *apperrors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, store assessment.SessionStore, errs *apperrors.ErrorHandler, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		store:  store,
		errs:   errs,
		logger: log.WithFields(map[string]interface{}{"route": RouteName}),
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	api := r.PathPrefix(pathPrefix).Subrouter()
	api.HandleFunc("", h.Create).Methods(http.MethodPost)
	api.HandleFunc("/{sessionId}", h.Get).Methods(http.MethodGet)
	api.HandleFunc("/{sessionId}/answers", h.UpdateAnswer).Methods(http.MethodPut)
	api.HandleFunc("/{sessionId}/advance", h.Advance).Methods(http.MethodPost)
	api.HandleFunc("/{sessionId}/retreat", h.Retreat).Methods(http.MethodPost)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	sess, err := h.store.Create(r.Context())
	if err != nil {
		h.errs.WriteJSON(w, r, err)
		return
	}
	assessment.RecordStarted()

	logger.FromContext(r.Context(), h.logger).Info("assessment session created", map[string]interface{}{
		"sessionId": sess.ID,
	})
	w.Header().Set("Location", pathPrefix+"/"+sess.ID)
	writeJSON(w, http.StatusCreated, sess.State())
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	sess, err := h.store.Get(r.Context(), mux.Vars(r)["sessionId"])
	if err != nil {
		h.errs.WriteJSON(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.State())
}

// UpdateAnswer sets one field of the session's current step.
func (h *Handler) UpdateAnswer(w http.ResponseWriter, r *http.Request) {
	var input UpdateAnswerInput
	r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.errs.WriteJSON(w, r, apperrors.NewBadRequestError(fmt.Sprintf("invalid answer body: %v", err)))
		return
	}
	if input.Field == "" {
		h.errs.WriteJSON(w, r, apperrors.NewBadRequestError("field is required"))
		return
	}

	sess, err := h.store.Get(r.Context(), mux.Vars(r)["sessionId"])
	if err != nil {
		h.errs.WriteJSON(w, r, err)
		return
	}
	if err := sess.Update(input.Field, input.Value); err != nil {
		h.errs.WriteJSON(w, r, err)
		return
	}
	if err := h.store.Save(r.Context(), sess); err != nil {
		h.errs.WriteJSON(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.State())
}

// Advance moves forward one step. Reaching results returns the
// recommendations and discards the session.
func (h *Handler) Advance(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context(), h.logger)

	sess, err := h.store.Get(r.Context(), mux.Vars(r)["sessionId"])
	if err != nil {
		h.errs.WriteJSON(w, r, err)
		return
	}
	if _, err := sess.Advance(h.config.RequireStepFields); err != nil {
		h.errs.WriteJSON(w, r, err)
		return
	}
	assessment.RecordTransition(assessment.DirectionForward)

	if !sess.Controller.Completed() {
		if err := h.store.Save(r.Context(), sess); err != nil {
			h.errs.WriteJSON(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, sess.State())
		return
	}

	state := sess.State()
	assessment.RecordResult(sess.Answers)
	if err := h.store.Delete(r.Context(), sess.ID); err != nil {
		log.Warn("failed to discard completed session", map[string]interface{}{
			"sessionId": sess.ID,
			"error":     err,
		})
	}
	log.Info("assessment completed", map[string]interface{}{
		"sessionId":       sess.ID,
		"purpose":         sess.Answers.Purpose,
		"recommendations": len(state.Recommendations),
	})
	writeJSON(w, http.StatusOK, state)
}

func (h *Handler) Retreat(w http.ResponseWriter, r *http.Request) {
	sess, err := h.store.Get(r.Context(), mux.Vars(r)["sessionId"])
	if err != nil {
		h.errs.WriteJSON(w, r, err)
		return
	}
	from := sess.Controller.Step
	if _, err := sess.Retreat(); err != nil {
		h.errs.WriteJSON(w, r, err)
		return
	}
	if sess.Controller.Step != from {
		assessment.RecordTransition(assessment.DirectionBack)
	}
	if err := h.store.Save(r.Context(), sess); err != nil {
		h.errs.WriteJSON(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.State())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
