package vendors

import (
	"golang.org/x/oauth2"

	"github.com/nexcrm/lead-ingestion-service/internal/config"
)

// analyticsScope grants read access to GA4 reporting data.
const analyticsScope = "https://www.googleapis.com/auth/analytics.readonly"

// NewGoogleOAuthConfig builds the oauth2 config for the Google consent
// flow. Offline access so the backend can refresh tokens later.
func NewGoogleOAuthConfig(cfg config.GoogleConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Scopes:       []string{analyticsScope},
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://accounts.google.com/o/oauth2/auth",
			TokenURL: "https://oauth2.googleapis.com/token",
		},
	}
}
