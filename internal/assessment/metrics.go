package assessment

import "immigria-site/internal/common/metrics"

// Transition directions recorded by RecordTransition.
const (
	DirectionForward = "forward"
	DirectionBack    = "back"
)

// RecordStarted counts a newly created session.
func RecordStarted() {
	metrics.AssessmentSessionsStarted.Inc()
}

func RecordTransition(direction string) {
	metrics.AssessmentStepTransitions.WithLabelValues(direction).Inc()
}

// RecordResult counts a session reaching results. Purpose is free text, so
// anything outside the known options is folded into "other".
func RecordResult(a Answers) {
	metrics.AssessmentResults.WithLabelValues(purposeLabel(a.Purpose)).Inc()
}

func purposeLabel(purpose string) string {
	switch purpose {
	case PurposeWork, PurposeStudy, PurposeFamily, PurposeBusiness:
		return purpose
	case "":
		return "unset"
	}
	return "other"
}
