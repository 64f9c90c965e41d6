package assessment

import (
	"slices"
	"time"

	apperrors "immigria-site/internal/common/errors"
)

// Session owns one visitor's wizard state. Stores hand out copies; changes
// take effect only when the session is saved back.
type Session struct {
	ID         string     `json:"id"`
	Controller Controller `json:"controller"`
	Answers    Answers    `json:"answers"`
	StartedAt  time.Time  `json:"startedAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// NewSession returns an empty session at Step1.
func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:         id,
		Controller: NewController(),
		StartedAt:  now,
		UpdatedAt:  now,
	}
}

// Update writes one answer of the current step. Answers are read-only once
// results are shown.
func (s *Session) Update(field, value string) error {
	if s.Controller.Completed() {
		return apperrors.NewResultsFinalError()
	}
	if !IsField(field) {
		return apperrors.NewUnknownFieldError(field)
	}
	fields := StepFields(s.Controller.Step)
	if !slices.Contains(fields, field) {
		return apperrors.NewFieldNotOnStepError(field, int(s.Controller.Step), fields)
	}
	return s.Answers.Update(field, value)
}

// MissingFields lists fields of the current step that are still empty.
func (s *Session) MissingFields() []string {
	var missing []string
	for _, f := range StepFields(s.Controller.Step) {
		if v, _ := s.Answers.Get(f); v == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

// Advance moves forward. With requireFields set, it refuses to leave a step
// whose fields are not all filled in.
func (s *Session) Advance(requireFields bool) (Step, error) {
	if requireFields && !s.Controller.Completed() {
		if missing := s.MissingFields(); len(missing) > 0 {
			return s.Controller.Step, apperrors.NewStepIncompleteError(int(s.Controller.Step), missing)
		}
	}
	return s.Controller.Advance(), nil
}

// Retreat moves one step back.
func (s *Session) Retreat() (Step, error) {
	return s.Controller.Retreat()
}

// Recommendations resolves the answers once results are reached.
func (s *Session) Recommendations() []Recommendation {
	if !s.Controller.Completed() {
		return nil
	}
	return Resolve(s.Answers)
}

// State is the externally visible snapshot of a session.
type State struct {
	SessionID       string           `json:"sessionId"`
	Step            int              `json:"step"`
	Title           string           `json:"title"`
	ProgressPercent int              `json:"progressPercent"`
	Completed       bool             `json:"completed"`
	Answers         Answers          `json:"answers"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
}

func (s *Session) State() State {
	return State{
		SessionID:       s.ID,
		Step:            int(s.Controller.Step),
		Title:           s.Controller.Step.Title(),
		ProgressPercent: s.Controller.ProgressPercent(),
		Completed:       s.Controller.Completed(),
		Answers:         s.Answers,
		Recommendations: s.Recommendations(),
	}
}
