// internal/routes/assessment/assessment-api/models.go
package assessmentapi

type UpdateAnswerInput struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

const pathPrefix = "/api/assessment/sessions"
