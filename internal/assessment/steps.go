package assessment

import (
	"math"

	apperrors "immigria-site/internal/common/errors"
)

// Step is a wizard state. Steps 1..5 collect answers; StepResults is terminal.
type Step int

const (
	Step1 Step = iota + 1
	Step2
	Step3
	Step4
	Step5
	StepResults
)

// TotalSteps is the number of question steps.
const TotalSteps = 5

var stepTitles = map[Step]string{
	Step1:       "Let's Get Started",
	Step2:       "Your Background",
	Step3:       "Your Qualifications",
	Step4:       "Language & Connections",
	Step5:       "Almost Done!",
	StepResults: "Your Assessment Results",
}

var stepFields = map[Step][]string{
	Step1: {FieldTargetCountry, FieldPurpose},
	Step2: {FieldCountryOfOrigin, FieldAge},
	Step3: {FieldEducation, FieldWorkExperience},
	Step4: {FieldLanguageScore, FieldHasJobOffer, FieldHasFamilyInCanada},
	Step5: {FieldName, FieldEmail},
}

func (s Step) Title() string { return stepTitles[s] }

// StepFields lists the fields a step introduces. Results has none.
func StepFields(s Step) []string {
	fields := stepFields[s]
	out := make([]string, len(fields))
	copy(out, fields)
	return out
}

// Controller is the linear step counter of one wizard session.
type Controller struct {
	Step Step `json:"step"`
}

// NewController starts at Step1.
func NewController() Controller {
	return Controller{Step: Step1}
}

func (c *Controller) normalize() {
	if c.Step < Step1 {
		c.Step = Step1
	}
	if c.Step > StepResults {
		c.Step = StepResults
	}
}

// Advance moves one step forward; from Step5 it enters Results, and at
// Results it stays put.
func (c *Controller) Advance() Step {
	c.normalize()
	if c.Step < StepResults {
		c.Step++
	}
	return c.Step
}

// Retreat moves one step back. It is a no-op at Step1 and unsupported once
// results are shown.
func (c *Controller) Retreat() (Step, error) {
	c.normalize()
	if c.Step == StepResults {
		return c.Step, apperrors.NewResultsFinalError()
	}
	if c.Step > Step1 {
		c.Step--
	}
	return c.Step, nil
}

// ProgressPercent is round(step/5*100); Results reports 100.
func (c Controller) ProgressPercent() int {
	step := c.Step
	if step > Step5 {
		step = Step5
	}
	if step < Step1 {
		step = Step1
	}
	return int(math.Round(float64(step) / TotalSteps * 100))
}

// Completed reports whether results have been reached.
func (c Controller) Completed() bool {
	return c.Step >= StepResults
}
