// internal/routes/content/static-pages/models.go
package staticpages

import "immigria-site/internal/content"

type HomeView struct {
	Home content.Home
}

type AboutView struct {
	About content.About
}

type ServicesView struct {
	Services []content.Service
}

// Page titles
const (
	TitleAbout        = "About Us"
	TitleServices     = "Our Services"
	TitlePageNotFound = "Page Not Found"
)
