package vendors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/nexcrm/lead-ingestion-service/internal/config"
	"github.com/nexcrm/lead-ingestion-service/internal/models"
)

// graphBaseURL is the Meta Graph API root. Tests point BaseURL at a local
// server instead.
const graphBaseURL = "https://graph.facebook.com/v18.0"

// MetaClient talks to the Meta Graph API: outbound WhatsApp messages and
// Facebook/Instagram lead retrieval.
type MetaClient struct {
	BaseURL            string
	HTTPClient         *http.Client
	AccessToken        string
	PhoneNumberID      string
	InstagramAccountID string
}

// NewMetaClient builds a client from config with a sane request timeout.
func NewMetaClient(cfg config.MetaConfig) *MetaClient {
	return &MetaClient{
		BaseURL:            graphBaseURL,
		HTTPClient:         &http.Client{Timeout: 10 * time.Second},
		AccessToken:        cfg.AccessToken,
		PhoneNumberID:      cfg.PhoneNumberID,
		InstagramAccountID: cfg.InstagramAccountID,
	}
}

func (c *MetaClient) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 10 * time.Second}
}

// SendWhatsAppText delivers a text message to a recipient phone number
// through the WhatsApp Cloud API.
func (c *MetaClient) SendWhatsAppText(ctx context.Context, to, body string) error {
	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "text",
		"text":              map[string]string{"body": body},
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/%s/messages", c.BaseURL, c.PhoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.AccessToken)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("whatsapp send failed: status %d: %s", resp.StatusCode, b)
	}
	return nil
}

// facebookLead is the Graph API lead shape.
type facebookLead struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Company     string `json:"company"`
	CreatedTime string `json:"created_time"`
	FormID      string `json:"form_id"`
	FormName    string `json:"form_name"`
	Status      string `json:"status"`
}

// FetchFacebookLeads retrieves Facebook ad leads and normalizes them.
func (c *MetaClient) FetchFacebookLeads(ctx context.Context) ([]models.Lead, error) {
	var out struct {
		Data []facebookLead `json:"data"`
	}
	params := url.Values{"access_token": {c.AccessToken}}
	if err := c.getJSON(ctx, c.BaseURL+"/me/leads", params, &out); err != nil {
		return nil, err
	}

	leads := make([]models.Lead, 0, len(out.Data))
	for _, l := range out.Data {
		leads = append(leads, models.Lead{
			ID:        "f_" + l.ID,
			Name:      l.Name,
			Email:     l.Email,
			Phone:     l.Phone,
			Company:   l.Company,
			Source:    models.SourceFacebook,
			CreatedAt: l.CreatedTime,
			Metadata: map[string]string{
				"formId":   l.FormID,
				"formName": l.FormName,
				"status":   l.Status,
			},
		})
	}
	return leads, nil
}

// instagramInsight is one insights datapoint from the Graph API.
type instagramInsight struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ProfileViews int64  `json:"profile_views"`
	Reach        int64  `json:"reach"`
	Impressions  int64  `json:"impressions"`
}

// FetchInstagramLeads retrieves Instagram account insights and normalizes
// them into lead records. Instagram exposes engagement, not contact
// details, so most canonical fields stay empty.
func (c *MetaClient) FetchInstagramLeads(ctx context.Context) ([]models.Lead, error) {
	var out struct {
		Data []instagramInsight `json:"data"`
	}
	params := url.Values{
		"access_token": {c.AccessToken},
		"metric":       {"profile_views,reach,impressions"},
		"period":       {"day"},
	}
	endpoint := fmt.Sprintf("%s/%s/insights", c.BaseURL, c.InstagramAccountID)
	if err := c.getJSON(ctx, endpoint, params, &out); err != nil {
		return nil, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	leads := make([]models.Lead, 0, len(out.Data))
	for _, l := range out.Data {
		leads = append(leads, models.Lead{
			ID:        "i_" + l.ID,
			Name:      l.Name,
			Source:    models.SourceInstagram,
			CreatedAt: now,
			Metadata: map[string]string{
				"profileViews": fmt.Sprintf("%d", l.ProfileViews),
				"reach":        fmt.Sprintf("%d", l.Reach),
				"impressions":  fmt.Sprintf("%d", l.Impressions),
			},
		})
	}
	return leads, nil
}

func (c *MetaClient) getJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("graph api: status %d: %s", resp.StatusCode, b)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
