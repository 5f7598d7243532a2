package vendors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/nexcrm/lead-ingestion-service/internal/config"
	"github.com/nexcrm/lead-ingestion-service/internal/models"
)

const analyticsBaseURL = "https://analyticsdata.googleapis.com/v1beta"

// AnalyticsClient runs GA4 Data API reports for the configured property.
// Authentication rides on an oauth2 token source wired into the HTTP
// client.
type AnalyticsClient struct {
	BaseURL    string
	HTTPClient *http.Client
	PropertyID string
}

// NewAnalyticsClient builds a client whose transport injects the Google
// access token on every request.
func NewAnalyticsClient(cfg config.GoogleConfig) *AnalyticsClient {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken})
	httpClient := oauth2.NewClient(context.Background(), ts)
	httpClient.Timeout = 15 * time.Second

	return &AnalyticsClient{
		BaseURL:    analyticsBaseURL,
		HTTPClient: httpClient,
		PropertyID: cfg.PropertyID,
	}
}

// reportRequest is the runReport body: the six lead dimensions and two
// engagement metrics the aggregator normalizes.
type reportRequest struct {
	DateRanges []dateRange `json:"dateRanges"`
	Dimensions []named     `json:"dimensions"`
	Metrics    []named     `json:"metrics"`
}

type dateRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type named struct {
	Name string `json:"name"`
}

// RunReport requests the lead report over [startDate, endDate], both
// inclusive, formatted YYYY-MM-DD.
func (c *AnalyticsClient) RunReport(ctx context.Context, startDate, endDate string) (*models.AnalyticsReport, error) {
	body := reportRequest{
		DateRanges: []dateRange{{StartDate: startDate, EndDate: endDate}},
		Dimensions: []named{
			{Name: "userEmail"},
			{Name: "userName"},
			{Name: "userPhone"},
			{Name: "userCompany"},
			{Name: "source"},
			{Name: "medium"},
		},
		Metrics: []named{
			{Name: "activeUsers"},
			{Name: "conversions"},
		},
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/properties/%s:runReport", c.BaseURL, c.PropertyID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := c.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("analytics api: status %d: %s", resp.StatusCode, b)
	}

	var report models.AnalyticsReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return nil, err
	}
	return &report, nil
}
