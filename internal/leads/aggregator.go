package leads

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/nexcrm/lead-ingestion-service/internal/models"
)

// ErrInvalidSource rejects a source discriminator outside the recognized
// set. Caller error, mapped to 400.
var ErrInvalidSource = errors.New("invalid lead source")

// SourceFetchError wraps a vendor-side failure so handlers can name the
// source in the response without parsing the underlying error.
type SourceFetchError struct {
	Source string
	Err    error
}

func (e *SourceFetchError) Error() string {
	return fmt.Sprintf("fetching %s leads: %v", e.Source, e.Err)
}

func (e *SourceFetchError) Unwrap() error { return e.Err }

// Fetcher retrieves already-normalized leads from one vendor.
type Fetcher interface {
	FetchLeads(ctx context.Context) ([]models.Lead, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context) ([]models.Lead, error)

// FetchLeads calls the underlying function.
func (f FetcherFunc) FetchLeads(ctx context.Context) ([]models.Lead, error) {
	return f(ctx)
}

// AnalyticsClient runs a GA4 lead report over a date window (YYYY-MM-DD,
// both bounds inclusive).
type AnalyticsClient interface {
	RunReport(ctx context.Context, startDate, endDate string) (*models.AnalyticsReport, error)
}

// Aggregator routes a source discriminator to the matching vendor client
// and returns canonical leads. It holds no state between calls: no cache,
// no sync cursor, no dedup across fetches.
type Aggregator struct {
	Analytics AnalyticsClient
	Facebook  Fetcher
	Instagram Fetcher
	LinkedIn  Fetcher

	// Now is the clock used for the trailing report window and for lead
	// normalization timestamps. Defaults to time.Now.
	Now func() time.Time
}

// windowDays is the trailing report window requested from the analytics
// vendor.
const windowDays = 30

// FetchLeads resolves the source and returns its canonical leads. Unknown
// sources fail with ErrInvalidSource; vendor failures are wrapped in
// *SourceFetchError.
func (a *Aggregator) FetchLeads(ctx context.Context, source string) ([]models.Lead, error) {
	switch source {
	case "google":
		return a.fetchGoogle(ctx)
	case "facebook":
		return a.delegate(ctx, source, a.Facebook)
	case "instagram":
		return a.delegate(ctx, source, a.Instagram)
	case "linkedin":
		return a.delegate(ctx, source, a.LinkedIn)
	default:
		return nil, ErrInvalidSource
	}
}

func (a *Aggregator) delegate(ctx context.Context, source string, f Fetcher) ([]models.Lead, error) {
	if f == nil {
		return nil, &SourceFetchError{Source: source, Err: errors.New("client not configured")}
	}
	leads, err := f.FetchLeads(ctx)
	if err != nil {
		return nil, &SourceFetchError{Source: source, Err: err}
	}
	return leads, nil
}

func (a *Aggregator) fetchGoogle(ctx context.Context) ([]models.Lead, error) {
	if a.Analytics == nil {
		return nil, &SourceFetchError{Source: "google", Err: errors.New("client not configured")}
	}

	now := time.Now()
	if a.Now != nil {
		now = a.Now()
	}
	endDate := now.UTC().Format("2006-01-02")
	startDate := now.UTC().AddDate(0, 0, -windowDays).Format("2006-01-02")

	report, err := a.Analytics.RunReport(ctx, startDate, endDate)
	if err != nil {
		return nil, &SourceFetchError{Source: "google", Err: err}
	}

	return normalizeAnalyticsReport(report, now), nil
}

// normalizeAnalyticsReport maps GA4 report rows onto canonical leads.
// Malformed rows are skipped and logged, never fatal for the batch, and an
// absent row set yields an empty slice rather than an error.
func normalizeAnalyticsReport(report *models.AnalyticsReport, now time.Time) []models.Lead {
	leads := []models.Lead{}
	if report == nil {
		return leads
	}

	for i, row := range report.Rows {
		if len(row.DimensionValues) < 6 || len(row.MetricValues) < 2 {
			log.Printf("analytics row %d malformed: %d dimensions, %d metrics; skipping",
				i, len(row.DimensionValues), len(row.MetricValues))
			continue
		}

		email := row.DimensionValues[0].Value
		leads = append(leads, models.Lead{
			ID:        "g_" + email,
			Name:      row.DimensionValues[1].Value,
			Email:     email,
			Phone:     row.DimensionValues[2].Value,
			Company:   row.DimensionValues[3].Value,
			Source:    models.SourceGoogle,
			CreatedAt: now.UTC().Format(time.RFC3339),
			Metadata: map[string]string{
				"source":      row.DimensionValues[4].Value,
				"medium":      row.DimensionValues[5].Value,
				"activeUsers": row.MetricValues[0].Value,
				"conversions": row.MetricValues[1].Value,
			},
		})
	}

	return leads
}
