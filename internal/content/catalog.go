// Package content holds the site's static copy and navigation targets.
package content

import (
	_ "embed"
	"fmt"
	"sync"

	"immigria-site/internal/assessment"
	apperrors "immigria-site/internal/common/errors"

	"gopkg.in/yaml.v3"
)

// Route destinations. Templates and handlers link through these only.
const (
	PathHome       = "/"
	PathAbout      = "/about"
	PathServices   = "/services"
	PathContact    = "/contact"
	PathAssessment = "/assessment"
	PathBooking    = "/booking"
)

// ServicePath is the detail page for a service id.
func ServicePath(id string) string {
	return PathServices + "/" + id
}

type NavItem struct {
	Label string
	Path  string
}

// Nav is the primary navigation, in display order.
var Nav = []NavItem{
	{Label: "Home", Path: PathHome},
	{Label: "About", Path: PathAbout},
	{Label: "Services", Path: PathServices},
	{Label: "Contact", Path: PathContact},
}

// NavActions are the call-to-action buttons beside the navigation.
var NavActions = []NavItem{
	{Label: "Free Assessment", Path: PathAssessment},
	{Label: "Book Consultation", Path: PathBooking},
}

type ProcessStep struct {
	Step        string `yaml:"step" json:"step"`
	Description string `yaml:"description" json:"description"`
}

type Service struct {
	ID          string        `yaml:"id" json:"id"`
	Icon        string        `yaml:"icon" json:"icon"`
	Listed      bool          `yaml:"listed" json:"listed"`
	Title       string        `yaml:"title" json:"title"`
	Subtitle    string        `yaml:"subtitle" json:"subtitle"`
	Summary     string        `yaml:"summary" json:"summary"`
	Features    []string      `yaml:"features" json:"features,omitempty"`
	Description string        `yaml:"description" json:"description"`
	Overview    []string      `yaml:"overview" json:"overview"`
	Eligibility []string      `yaml:"eligibility" json:"eligibility"`
	Process     []ProcessStep `yaml:"process" json:"process"`
	Included    []string      `yaml:"included" json:"included"`
	Timeline    string        `yaml:"timeline" json:"timeline"`
}

// Path is the service's detail page.
func (s Service) Path() string { return ServicePath(s.ID) }

type Office struct {
	Address []string `yaml:"address"`
	Phone   string   `yaml:"phone"`
	Email   string   `yaml:"email"`
	Hours   []string `yaml:"hours"`
}

type Company struct {
	Name    string `yaml:"name"`
	Tagline string `yaml:"tagline"`
	Office  Office `yaml:"office"`
}

type Card struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Service     string `yaml:"service"`
}

// Path links a featured card to its service, if it has one.
func (c Card) Path() string {
	if c.Service == "" {
		return ""
	}
	return ServicePath(c.Service)
}

type Testimonial struct {
	Author   string `yaml:"author"`
	Role     string `yaml:"role"`
	Location string `yaml:"location"`
	Content  string `yaml:"content"`
}

type Home struct {
	Badge        string        `yaml:"badge"`
	Intro        string        `yaml:"intro"`
	Highlights   []string      `yaml:"highlights"`
	Featured     []Card        `yaml:"featured"`
	WhyChooseUs  []Card        `yaml:"why_choose_us"`
	Testimonials []Testimonial `yaml:"testimonials"`
}

type TeamMember struct {
	Name string `yaml:"name"`
	Role string `yaml:"role"`
	Bio  string `yaml:"bio"`
}

type About struct {
	Heading       string       `yaml:"heading"`
	Intro         string       `yaml:"intro"`
	Mission       []string     `yaml:"mission"`
	Values        []Card       `yaml:"values"`
	Team          []TeamMember `yaml:"team"`
	Accreditation string       `yaml:"accreditation"`
}

// Catalog is the parsed site copy.
type Catalog struct {
	Company         Company   `yaml:"company"`
	Home            Home      `yaml:"home"`
	About           About     `yaml:"about"`
	Services        []Service `yaml:"services"`
	BookingServices []string  `yaml:"booking_services"`
	BookingTimes    []string  `yaml:"booking_times"`

	byID map[string]int
}

//go:embed catalog.yaml
var catalogYAML []byte

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the embedded catalog, parsed once.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Parse(catalogYAML)
	})
	return defaultCatalog, defaultErr
}

// Parse decodes a catalog document and indexes its services.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c.byID = make(map[string]int, len(c.Services))
	for i, s := range c.Services {
		if s.ID == "" {
			return nil, fmt.Errorf("parse catalog: service %d has no id", i)
		}
		if _, dup := c.byID[s.ID]; dup {
			return nil, fmt.Errorf("parse catalog: duplicate service id %q", s.ID)
		}
		c.byID[s.ID] = i
	}
	return &c, nil
}

// Service looks up a service by id.
func (c *Catalog) Service(id string) (Service, error) {
	i, ok := c.byID[id]
	if !ok {
		return Service{}, apperrors.NewServiceNotFoundError(id)
	}
	return c.Services[i], nil
}

// ListedServices are the services shown on the services page.
func (c *Catalog) ListedServices() []Service {
	var out []Service
	for _, s := range c.Services {
		if s.Listed {
			out = append(out, s)
		}
	}
	return out
}

// BookingServiceOptions are the choices of the booking form's service select.
func (c *Catalog) BookingServiceOptions() []assessment.Option {
	return slugOptions(c.BookingServices)
}

// BookingTimeOptions are the preferred time slots.
func (c *Catalog) BookingTimeOptions() []assessment.Option {
	return slugOptions(c.BookingTimes)
}

func slugOptions(labels []string) []assessment.Option {
	out := make([]assessment.Option, len(labels))
	for i, l := range labels {
		out[i] = assessment.Option{Value: assessment.Slug(l), Label: l}
	}
	return out
}
