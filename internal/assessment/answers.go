package assessment

import (
	"regexp"
	"strings"

	apperrors "immigria-site/internal/common/errors"
)

// Answer field names, as posted by the wizard form and the JSON API.
const (
	FieldTargetCountry     = "targetCountry"
	FieldPurpose           = "purpose"
	FieldCountryOfOrigin   = "countryOfOrigin"
	FieldAge               = "age"
	FieldEducation         = "education"
	FieldWorkExperience    = "workExperience"
	FieldLanguageScore     = "languageScore"
	FieldHasJobOffer       = "hasJobOffer"
	FieldHasFamilyInCanada = "hasFamilyInCanada"
	FieldName              = "name"
	FieldEmail             = "email"
)

// Enum values the resolver reads.
const (
	PurposeWork     = "work"
	PurposeStudy    = "study"
	PurposeFamily   = "family"
	PurposeBusiness = "business"

	Yes = "yes"
	No  = "no"
)

// Answers is the accumulating record of one wizard session. Every value is
// kept exactly as received; nothing is validated or coerced.
type Answers struct {
	TargetCountry     string `json:"targetCountry"`
	Purpose           string `json:"purpose"`
	CountryOfOrigin   string `json:"countryOfOrigin"`
	Age               string `json:"age"`
	Education         string `json:"education"`
	WorkExperience    string `json:"workExperience"`
	LanguageScore     string `json:"languageScore"`
	HasJobOffer       string `json:"hasJobOffer"`
	HasFamilyInCanada string `json:"hasFamilyInCanada"`
	Name              string `json:"name"`
	Email             string `json:"email"`
}

// fieldOrder is the order fields appear across the five steps.
var fieldOrder = []string{
	FieldTargetCountry, FieldPurpose,
	FieldCountryOfOrigin, FieldAge,
	FieldEducation, FieldWorkExperience,
	FieldLanguageScore, FieldHasJobOffer, FieldHasFamilyInCanada,
	FieldName, FieldEmail,
}

func (a *Answers) ref(field string) *string {
	switch field {
	case FieldTargetCountry:
		return &a.TargetCountry
	case FieldPurpose:
		return &a.Purpose
	case FieldCountryOfOrigin:
		return &a.CountryOfOrigin
	case FieldAge:
		return &a.Age
	case FieldEducation:
		return &a.Education
	case FieldWorkExperience:
		return &a.WorkExperience
	case FieldLanguageScore:
		return &a.LanguageScore
	case FieldHasJobOffer:
		return &a.HasJobOffer
	case FieldHasFamilyInCanada:
		return &a.HasFamilyInCanada
	case FieldName:
		return &a.Name
	case FieldEmail:
		return &a.Email
	}
	return nil
}

// Update sets exactly one field and leaves the rest untouched.
func (a *Answers) Update(field, value string) error {
	p := a.ref(field)
	if p == nil {
		return apperrors.NewUnknownFieldError(field)
	}
	*p = value
	return nil
}

// Get returns the current value of field.
func (a *Answers) Get(field string) (string, error) {
	p := a.ref(field)
	if p == nil {
		return "", apperrors.NewUnknownFieldError(field)
	}
	return *p, nil
}

// Fields returns every answer field name in wizard order.
func Fields() []string {
	out := make([]string, len(fieldOrder))
	copy(out, fieldOrder)
	return out
}

// IsField reports whether name is an answer field.
func IsField(name string) bool {
	return (&Answers{}).ref(name) != nil
}

// Option is one choice of a select or radio control.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

var whitespace = regexp.MustCompile(`\s+`)

// Slug lower-cases label and replaces whitespace runs with '-'.
func Slug(label string) string {
	return whitespace.ReplaceAllString(strings.ToLower(label), "-")
}

func slugOptions(labels ...string) []Option {
	return optionsOf(Slug, labels)
}

// Country values are only lower-cased; spaces survive.
func lowerOptions(labels ...string) []Option {
	return optionsOf(strings.ToLower, labels)
}

func optionsOf(value func(string) string, labels []string) []Option {
	out := make([]Option, len(labels))
	for i, l := range labels {
		out[i] = Option{Value: value(l), Label: l}
	}
	return out
}

var (
	TargetCountryOptions = []Option{
		{Value: "canada", Label: "Canada"},
		{Value: "usa", Label: "United States"},
		{Value: "both", Label: "Both / Not sure"},
	}

	PurposeOptions = []Option{
		{Value: PurposeWork, Label: "Work"},
		{Value: PurposeStudy, Label: "Study"},
		{Value: PurposeFamily, Label: "Family Reunification"},
		{Value: PurposeBusiness, Label: "Business / Investment"},
	}

	CountryOptions = lowerOptions(
		"India", "China", "Philippines", "Nigeria", "Brazil", "Mexico", "Pakistan",
		"Bangladesh", "Iran", "South Korea", "United Kingdom", "United States",
		"France", "Germany", "Other",
	)

	EducationOptions = slugOptions(
		"High School Diploma",
		"One-year diploma/certificate",
		"Two-year diploma/certificate",
		"Bachelor's degree",
		"Two or more Bachelor's degrees",
		"Master's degree",
		"Doctoral degree (PhD)",
	)

	LanguageScoreOptions = slugOptions(
		"CLB 4 or below", "CLB 5", "CLB 6", "CLB 7", "CLB 8", "CLB 9", "CLB 10 or above",
	)

	YesNoOptions = []Option{
		{Value: Yes, Label: "Yes"},
		{Value: No, Label: "No"},
	}

	FamilyInCanadaOptions = []Option{
		{Value: Yes, Label: "Yes (parent, sibling, or child)"},
		{Value: No, Label: "No"},
	}
)
