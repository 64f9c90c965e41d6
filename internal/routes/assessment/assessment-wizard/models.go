// internal/routes/assessment/assessment-wizard/models.go
package assessmentwizard

import "immigria-site/internal/assessment"

const DefaultCookieName = "immigria_assessment"

// Form actions posted by the wizard buttons.
const (
	ActionNext = "next"
	ActionBack = "back"
)

type Options struct {
	TargetCountry  []assessment.Option
	Purpose        []assessment.Option
	Countries      []assessment.Option
	Education      []assessment.Option
	LanguageScores []assessment.Option
	YesNo          []assessment.Option
	FamilyInCanada []assessment.Option
}

var wizardOptions = Options{
	TargetCountry:  assessment.TargetCountryOptions,
	Purpose:        assessment.PurposeOptions,
	Countries:      assessment.CountryOptions,
	Education:      assessment.EducationOptions,
	LanguageScores: assessment.LanguageScoreOptions,
	YesNo:          assessment.YesNoOptions,
	FamilyInCanada: assessment.FamilyInCanadaOptions,
}

// StepView is the data of the wizard page.
type StepView struct {
	Step            int
	TotalSteps      int
	Title           string
	ProgressPercent int
	Missing         []string
	Answers         assessment.Answers
	Options         Options
	IsFirst         bool
	IsLast          bool
}

type ResultsView struct {
	Name            string
	Recommendations []assessment.Recommendation
}

const TitleAssessment = "Free Eligibility Assessment"
