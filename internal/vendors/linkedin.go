package vendors

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/nexcrm/lead-ingestion-service/internal/config"
	"github.com/nexcrm/lead-ingestion-service/internal/models"
)

const linkedinBaseURL = "https://api.linkedin.com/v2"

// LinkedInClient retrieves lead-gen form submissions.
type LinkedInClient struct {
	BaseURL     string
	HTTPClient  *http.Client
	AccessToken string
}

// NewLinkedInClient builds a client from config.
func NewLinkedInClient(cfg config.LinkedInConfig) *LinkedInClient {
	return &LinkedInClient{
		BaseURL:     linkedinBaseURL,
		HTTPClient:  &http.Client{Timeout: 10 * time.Second},
		AccessToken: cfg.AccessToken,
	}
}

type linkedinForm struct {
	ID string `json:"id"`
}

type linkedinLead struct {
	ID           string `json:"id"`
	CreatedTime  string `json:"createdTime"`
	FormID       string `json:"formId"`
	FormName     string `json:"formName"`
	Status       string `json:"status"`
	CampaignID   string `json:"campaignId"`
	CampaignName string `json:"campaignName"`
	FormValue    *struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		Phone     string `json:"phone"`
		Company   string `json:"company"`
	} `json:"formValue"`
}

// FetchLeads lists lead-gen forms, pulls each form's submissions, and
// normalizes them. A single failing form is logged and skipped so one bad
// form cannot empty the whole result.
func (c *LinkedInClient) FetchLeads(ctx context.Context) ([]models.Lead, error) {
	var forms struct {
		Elements []linkedinForm `json:"elements"`
	}
	if err := c.getJSON(ctx, c.BaseURL+"/leadGenForms", &forms); err != nil {
		return nil, err
	}

	var raw []linkedinLead
	for _, form := range forms.Elements {
		var page struct {
			Elements []linkedinLead `json:"elements"`
		}
		endpoint := fmt.Sprintf("%s/leadGenForms/%s/leads", c.BaseURL, form.ID)
		if err := c.getJSON(ctx, endpoint, &page); err != nil {
			log.Printf("linkedin form %s leads fetch failed: %v", form.ID, err)
			continue
		}
		raw = append(raw, page.Elements...)
	}

	leads := make([]models.Lead, 0, len(raw))
	for _, l := range raw {
		leads = append(leads, normalizeLinkedInLead(l))
	}
	return leads, nil
}

func normalizeLinkedInLead(l linkedinLead) models.Lead {
	name := "Unknown"
	var email, phone, company string
	if l.FormValue != nil {
		if l.FormValue.FirstName != "" {
			name = strings.TrimSpace(l.FormValue.FirstName + " " + l.FormValue.LastName)
		}
		email = l.FormValue.Email
		phone = l.FormValue.Phone
		company = l.FormValue.Company
	}

	return models.Lead{
		ID:        "l_" + l.ID,
		Name:      name,
		Email:     email,
		Phone:     phone,
		Company:   company,
		Source:    models.SourceLinkedIn,
		CreatedAt: l.CreatedTime,
		Metadata: map[string]string{
			"formId":       l.FormID,
			"formName":     l.FormName,
			"status":       l.Status,
			"campaignId":   l.CampaignID,
			"campaignName": l.CampaignName,
		},
	}
}

func (c *LinkedInClient) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.AccessToken)

	client := c.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("linkedin api: status %d: %s", resp.StatusCode, b)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
