package vendors

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nexcrm/lead-ingestion-service/internal/models"
)

func TestFetchLinkedInLeads_NormalizesAcrossForms(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer li-token" {
			t.Errorf("authorization: %q", r.Header.Get("Authorization"))
		}
		switch r.URL.Path {
		case "/leadGenForms":
			_, _ = w.Write([]byte(`{"elements":[{"id":"form-1"},{"id":"form-2"}]}`))
		case "/leadGenForms/form-1/leads":
			_, _ = w.Write([]byte(`{"elements":[{
				"id": "42",
				"createdTime": "2026-07-15T09:30:00Z",
				"formId": "form-1",
				"formName": "Whitepaper",
				"status": "SUBMITTED",
				"campaignId": "c-9",
				"campaignName": "Q3 Push",
				"formValue": {
					"firstName": "Riley",
					"lastName": "Ng",
					"email": "riley@x.com",
					"phone": "777",
					"company": "Acme"
				}
			}]}`))
		case "/leadGenForms/form-2/leads":
			// One bad form must not empty the whole batch.
			http.Error(w, "upstream error", http.StatusBadGateway)
		default:
			t.Errorf("unexpected path: %q", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := &LinkedInClient{BaseURL: srv.URL, HTTPClient: srv.Client(), AccessToken: "li-token"}

	got, err := c.FetchLeads(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 lead, got %d", len(got))
	}

	lead := got[0]
	if lead.ID != "l_42" || lead.Source != models.SourceLinkedIn {
		t.Fatalf("unexpected lead: %+v", lead)
	}
	if lead.Name != "Riley Ng" || lead.Email != "riley@x.com" || lead.Company != "Acme" {
		t.Fatalf("unexpected fields: %+v", lead)
	}
	if lead.Metadata["campaignName"] != "Q3 Push" {
		t.Fatalf("metadata: %+v", lead.Metadata)
	}
}

func TestFetchLinkedInLeads_MissingFormValue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/leadGenForms":
			_, _ = w.Write([]byte(`{"elements":[{"id":"form-1"}]}`))
		case "/leadGenForms/form-1/leads":
			_, _ = w.Write([]byte(`{"elements":[{"id": "43", "formId": "form-1"}]}`))
		}
	}))
	defer srv.Close()

	c := &LinkedInClient{BaseURL: srv.URL, HTTPClient: srv.Client()}

	got, err := c.FetchLeads(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Unknown" {
		t.Fatalf("expected fallback name, got %+v", got)
	}
}

func TestFetchLinkedInLeads_FormListFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	c := &LinkedInClient{BaseURL: srv.URL, HTTPClient: srv.Client()}

	if _, err := c.FetchLeads(context.Background()); err == nil {
		t.Fatal("expected error when the form list itself fails")
	}
}
