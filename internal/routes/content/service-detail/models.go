// internal/routes/content/service-detail/models.go
package servicedetail

import "immigria-site/internal/content"

type ServiceView struct {
	Service content.Service
}

// ServiceSummary is one entry of the service listing API.
type ServiceSummary struct {
	ID       string   `json:"id"`
	Icon     string   `json:"icon"`
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	Features []string `json:"features,omitempty"`
	Path     string   `json:"path"`
}

type ListOutput struct {
	Services []ServiceSummary `json:"services"`
	Count    int              `json:"count"`
}

const TitleServiceNotFound = "Service Not Found"
