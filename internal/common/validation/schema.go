package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Form names used as schema keys and metric labels.
const (
	FormBooking = "booking"
	FormContact = "contact"
)

// Field constraints mirror the browser hints on the forms: required fields
// must be non-empty and email fields must look like an address. Nothing else
// is checked.
const bookingSchema = `{
  "type": "object",
  "required": ["name", "email", "phone", "country", "service", "date", "time"],
  "properties": {
    "name":    {"type": "string", "minLength": 1},
    "email":   {"type": "string", "minLength": 1, "format": "email"},
    "phone":   {"type": "string", "minLength": 1},
    "country": {"type": "string", "minLength": 1},
    "service": {"type": "string", "minLength": 1},
    "date":    {"type": "string", "minLength": 1},
    "time":    {"type": "string", "minLength": 1},
    "notes":   {"type": "string"}
  }
}`

const contactSchema = `{
  "type": "object",
  "required": ["name", "email", "subject", "message"],
  "properties": {
    "name":    {"type": "string", "minLength": 1},
    "email":   {"type": "string", "minLength": 1, "format": "email"},
    "phone":   {"type": "string"},
    "subject": {"type": "string", "minLength": 1},
    "message": {"type": "string", "minLength": 1}
  }
}`

var schemas = map[string]*gojsonschema.Schema{
	FormBooking: mustCompile(bookingSchema),
	FormContact: mustCompile(contactSchema),
}

func mustCompile(schema string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		panic(fmt.Sprintf("invalid form schema: %v", err))
	}
	return s
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ValidateForm checks input against the named form's schema.
func ValidateForm(form string, input map[string]interface{}) (*ValidationResult, error) {
	schema, ok := schemas[form]
	if !ok {
		return nil, fmt.Errorf("unknown form %q", form)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(input))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, re := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   fieldOf(re),
			Message: messageOf(re),
			Code:    strings.ToUpper(re.Type()),
		})
	}
	sort.SliceStable(out.Errors, func(i, j int) bool {
		return out.Errors[i].Field < out.Errors[j].Field
	})
	return out, nil
}

// required errors are reported on the root; the missing property is in Details.
func fieldOf(re gojsonschema.ResultError) string {
	if re.Type() == "required" {
		if p, ok := re.Details()["property"].(string); ok {
			return p
		}
	}
	return strings.TrimPrefix(re.Field(), "(root).")
}

func messageOf(re gojsonschema.ResultError) string {
	switch re.Type() {
	case "required", "string_gte":
		return "This field is required"
	case "format":
		return "Please enter a valid email address"
	default:
		return re.Description()
	}
}

// FieldErrors flattens the result to field -> first message.
func (vr *ValidationResult) FieldErrors() map[string]string {
	out := make(map[string]string, len(vr.Errors))
	for _, err := range vr.Errors {
		if _, seen := out[err.Field]; !seen {
			out[err.Field] = err.Message
		}
	}
	return out
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}
