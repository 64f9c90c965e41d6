package content

import (
	"testing"

	apperrors "immigria-site/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_ParsesEmbeddedCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "Immigria", c.Company.Name)
	assert.Equal(t, "info@immigria.com", c.Company.Office.Email)
	assert.Len(t, c.Services, 9)
	assert.Len(t, c.ListedServices(), 8)
	assert.Len(t, c.Home.Testimonials, 4)
	assert.Len(t, c.About.Team, 4)
}

func TestCatalog_Service(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	ids := []string{
		"express-entry", "work-permits", "study-permits", "pnp", "family-sponsorship",
		"business-immigration", "recruit-foreign-workers", "translation", "citizenship",
	}
	for _, id := range ids {
		t.Run(id, func(t *testing.T) {
			s, err := c.Service(id)
			require.NoError(t, err)
			assert.Equal(t, id, s.ID)
			assert.NotEmpty(t, s.Title)
			assert.NotEmpty(t, s.Subtitle)
			assert.NotEmpty(t, s.Description)
			assert.NotEmpty(t, s.Overview)
			assert.NotEmpty(t, s.Eligibility)
			assert.NotEmpty(t, s.Process)
			assert.NotEmpty(t, s.Included)
			assert.NotEmpty(t, s.Timeline)
			assert.Equal(t, "/services/"+id, s.Path())
		})
	}
}

func TestCatalog_ServiceNotFound(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	_, err = c.Service("asylum")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeServiceNotFound))
}

func TestCatalog_FeaturedCardsPointAtKnownServices(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	for _, card := range c.Home.Featured {
		_, err := c.Service(card.Service)
		assert.NoError(t, err, card.Title)
	}
}

func TestCatalog_BookingOptions(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	services := c.BookingServiceOptions()
	require.Len(t, services, 9)
	assert.Equal(t, "express-entry", services[0].Value)
	assert.Equal(t, "other-/-general-consultation", services[8].Value)

	times := c.BookingTimeOptions()
	require.Len(t, times, 9)
	assert.Equal(t, "9:00-am", times[0].Value)
	assert.Equal(t, "5:00 PM", times[8].Label)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"malformed", "services: [", "parse catalog"},
		{"missing id", "services:\n  - title: X\n", "has no id"},
		{"duplicate id", "services:\n  - id: a\n  - id: a\n", "duplicate service id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
