// Package submission simulates delivery of booking and contact forms.
package submission

import (
	"context"
	"sync"
	"time"

	apperrors "immigria-site/internal/common/errors"
	"immigria-site/internal/common/logger"
	"immigria-site/internal/common/metrics"
	"immigria-site/internal/common/observability"
	"immigria-site/internal/common/validation"

	"github.com/google/uuid"
)

const (
	StatusSent     = "sent"
	StatusRejected = "rejected"
)

var successMessages = map[string]string{
	validation.FormBooking: "Consultation booked successfully! Check your email for confirmation details.",
	validation.FormContact: "Message sent successfully! We'll get back to you within 24 hours.",
}

// SuccessMessage is the toast text shown once a form has been sent.
func SuccessMessage(form string) string {
	if msg, ok := successMessages[form]; ok {
		return msg
	}
	return "Submitted successfully!"
}

// Result describes a completed simulated submission.
type Result struct {
	SubmissionID string    `json:"submissionId"`
	Form         string    `json:"form"`
	Status       string    `json:"status"`
	Message      string    `json:"message"`
	CompletedAt  time.Time `json:"completedAt"`
}

// Submitter runs simulated submissions. A key may have at most one
// submission in flight; the guard is taken before the delay starts and
// released only once it has elapsed.
type Submitter struct {
	delay time.Duration
	log   logger.Logger
	obs   *observability.Observability

	mu       sync.Mutex
	inFlight map[string]struct{}
	wg       sync.WaitGroup
}

func NewSubmitter(delay time.Duration, obs *observability.Observability, log logger.Logger) *Submitter {
	return &Submitter{
		delay:    delay,
		log:      log.WithFields(map[string]interface{}{"component": "submitter"}),
		obs:      obs,
		inFlight: make(map[string]struct{}),
	}
}

// Submit starts the simulated send for form under key and waits for it. If
// ctx ends first Submit returns ctx.Err(); the send still completes in the
// background and releases the key.
func (s *Submitter) Submit(ctx context.Context, form, key string) (*Result, error) {
	if !s.acquire(key) {
		metrics.FormSubmissions.WithLabelValues(form, StatusRejected).Inc()
		s.obs.RecordSubmission(ctx, form, StatusRejected)
		return nil, apperrors.NewSubmissionInProgressError(form)
	}

	done := make(chan *Result, 1)
	s.wg.Add(1)
	go s.run(form, key, done)

	select {
	case res := <-done:
		return res, nil
	case <-ctx.Done():
		s.log.Warn("caller left before submission completed", map[string]interface{}{
			"form":  form,
			"error": ctx.Err(),
		})
		return nil, ctx.Err()
	}
}

func (s *Submitter) run(form, key string, done chan<- *Result) {
	defer s.wg.Done()

	metrics.FormSubmissionsActive.WithLabelValues(form).Inc()
	started := time.Now()

	timer := time.NewTimer(s.delay)
	<-timer.C

	res := &Result{
		SubmissionID: uuid.NewString(),
		Form:         form,
		Status:       StatusSent,
		Message:      SuccessMessage(form),
		CompletedAt:  time.Now().UTC(),
	}

	s.release(key)
	metrics.FormSubmissionsActive.WithLabelValues(form).Dec()
	metrics.FormSubmissions.WithLabelValues(form, StatusSent).Inc()

	bg := context.Background()
	s.obs.RecordSubmission(bg, form, StatusSent)
	s.obs.RecordSubmissionDuration(bg, form, time.Since(started))

	s.log.Info("submission sent", map[string]interface{}{
		"form":         form,
		"submissionId": res.SubmissionID,
		"durationMs":   time.Since(started).Milliseconds(),
	})

	done <- res
}

func (s *Submitter) acquire(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[key]; busy {
		return false
	}
	s.inFlight[key] = struct{}{}
	return true
}

func (s *Submitter) release(key string) {
	s.mu.Lock()
	delete(s.inFlight, key)
	s.mu.Unlock()
}

// InFlight reports whether key has a submission pending.
func (s *Submitter) InFlight(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, busy := s.inFlight[key]
	return busy
}

// Wait blocks until every started submission has completed.
func (s *Submitter) Wait() {
	s.wg.Wait()
}
