package config

import (
	"errors"
	"os"
	"strings"
)

// Config contains runtime configuration required by the service.
type Config struct {
	DBURL   string
	APIKeys map[string]string // apiKey -> tenantID

	// WhatsAppVerifyToken is the pre-shared secret the messaging vendor
	// presents during the webhook subscription handshake.
	WhatsAppVerifyToken string

	Meta     MetaConfig
	LinkedIn LinkedInConfig
	Google   GoogleConfig
}

// MetaConfig holds Meta Graph API credentials for WhatsApp messaging and
// Facebook/Instagram lead fetching.
type MetaConfig struct {
	AccessToken        string
	PhoneNumberID      string
	InstagramAccountID string
}

// LinkedInConfig holds the token for the lead-gen forms API.
type LinkedInConfig struct {
	AccessToken string
}

// GoogleConfig holds OAuth client credentials and the GA4 property the
// lead report runs against.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	PropertyID   string
	AccessToken  string
}

// Load reads required values from environment variables.
// API_KEYS format: "tenant1:key1,tenant2:key2"
func Load() (Config, error) {
	dbURL := strings.TrimSpace(os.Getenv("DB_URL"))
	if dbURL == "" {
		return Config{}, errors.New("DB_URL required")
	}

	apiKeys, err := parseAPIKeys(os.Getenv("API_KEYS"))
	if err != nil {
		return Config{}, err
	}

	// Local dev fallback so webhook verification works out-of-the-box.
	verifyToken := strings.TrimSpace(os.Getenv("WHATSAPP_VERIFY_TOKEN"))
	if verifyToken == "" {
		verifyToken = "your_verify_token"
	}

	return Config{
		DBURL:               dbURL,
		APIKeys:             apiKeys,
		WhatsAppVerifyToken: verifyToken,
		Meta: MetaConfig{
			AccessToken:        os.Getenv("META_ACCESS_TOKEN"),
			PhoneNumberID:      os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			InstagramAccountID: os.Getenv("INSTAGRAM_BUSINESS_ACCOUNT_ID"),
		},
		LinkedIn: LinkedInConfig{
			AccessToken: os.Getenv("LINKEDIN_ACCESS_TOKEN"),
		},
		Google: GoogleConfig{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			RedirectURI:  os.Getenv("GOOGLE_REDIRECT_URI"),
			PropertyID:   os.Getenv("GA4_PROPERTY_ID"),
			AccessToken:  os.Getenv("GOOGLE_ACCESS_TOKEN"),
		},
	}, nil
}

func parseAPIKeys(raw string) (map[string]string, error) {
	apiKeys := map[string]string{}

	raw = strings.TrimSpace(raw)
	if raw != "" {
		pairs := strings.Split(raw, ",")
		for _, p := range pairs {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			parts := strings.SplitN(p, ":", 2)
			if len(parts) != 2 {
				return nil, errors.New(`API_KEYS must be "tenant:key,tenant:key"`)
			}
			tenant := strings.TrimSpace(parts[0])
			key := strings.TrimSpace(parts[1])
			if tenant == "" || key == "" {
				return nil, errors.New(`API_KEYS must be "tenant:key,tenant:key"`)
			}
			apiKeys[key] = tenant
		}
	}

	// Local dev fallback so the service runs out-of-the-box.
	if len(apiKeys) == 0 {
		apiKeys["tenant-key-123"] = "tenant1"
	}

	return apiKeys, nil
}
