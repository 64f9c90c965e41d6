// internal/routes/forms/lead-form/models.go
package leadform

import (
	"immigria-site/internal/assessment"
	"immigria-site/internal/common/validation"
	"immigria-site/internal/content"
	"immigria-site/internal/web"
)

// FormView is the data of the booking and contact pages. Values echo the
// visitor's input back after a rejected post; a successful post renders an
// empty form.
type FormView struct {
	Values   map[string]string
	Errors   map[string]string
	Services []assessment.Option
	Times    []assessment.Option

	// Today is the earliest bookable date, YYYY-MM-DD in UTC.
	Today string
}

const dateLayout = "2006-01-02"

type formPage struct {
	page   string
	path   string
	title  string
	fields []string
}

var formPages = map[string]formPage{
	validation.FormBooking: {
		page:   web.PageBooking,
		path:   content.PathBooking,
		title:  "Book a Consultation",
		fields: []string{"name", "email", "phone", "country", "service", "date", "time", "notes"},
	},
	validation.FormContact: {
		page:   web.PageContact,
		path:   content.PathContact,
		title:  "Contact Us",
		fields: []string{"name", "email", "phone", "subject", "message"},
	},
}

const (
	ToastInProgress = "Your request is already being submitted. Please wait a moment."
	ToastInvalid    = "Please correct the highlighted fields."
)
