package vendors

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nexcrm/lead-ingestion-service/internal/models"
)

func TestSendWhatsAppText_RequestShape(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.out"}]}`))
	}))
	defer srv.Close()

	c := &MetaClient{
		BaseURL:       srv.URL,
		HTTPClient:    srv.Client(),
		AccessToken:   "token-abc",
		PhoneNumberID: "555000",
	}

	if err := c.SendWhatsAppText(context.Background(), "15551234567", "hi there"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/555000/messages" {
		t.Fatalf("path: %q", gotPath)
	}
	if gotAuth != "Bearer token-abc" {
		t.Fatalf("authorization: %q", gotAuth)
	}
	if gotBody["to"] != "15551234567" || gotBody["messaging_product"] != "whatsapp" {
		t.Fatalf("body: %+v", gotBody)
	}
	text, _ := gotBody["text"].(map[string]any)
	if text["body"] != "hi there" {
		t.Fatalf("text body: %+v", gotBody["text"])
	}
}

func TestSendWhatsAppText_VendorError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"bad token"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := &MetaClient{BaseURL: srv.URL, HTTPClient: srv.Client(), PhoneNumberID: "555000"}

	if err := c.SendWhatsAppText(context.Background(), "1555", "x"); err == nil {
		t.Fatal("expected error on non-2xx")
	}
}

func TestFetchFacebookLeads_Normalization(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me/leads" {
			t.Errorf("path: %q", r.URL.Path)
		}
		if r.URL.Query().Get("access_token") != "token-abc" {
			t.Errorf("access_token missing")
		}
		_, _ = w.Write([]byte(`{"data":[{
			"id": "987",
			"name": "Casey",
			"email": "casey@x.com",
			"created_time": "2026-08-01T10:00:00+0000",
			"form_id": "f-1",
			"form_name": "Demo Request",
			"status": "complete"
		}]}`))
	}))
	defer srv.Close()

	c := &MetaClient{BaseURL: srv.URL, HTTPClient: srv.Client(), AccessToken: "token-abc"}

	got, err := c.FetchFacebookLeads(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 lead, got %d", len(got))
	}

	lead := got[0]
	if lead.ID != "f_987" || lead.Source != models.SourceFacebook {
		t.Fatalf("unexpected lead: %+v", lead)
	}
	if lead.CreatedAt != "2026-08-01T10:00:00+0000" {
		t.Fatalf("createdAt must be the vendor capture time, got %q", lead.CreatedAt)
	}
	if lead.Metadata["formName"] != "Demo Request" || lead.Metadata["status"] != "complete" {
		t.Fatalf("metadata: %+v", lead.Metadata)
	}
}

func TestFetchInstagramLeads_Normalization(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ig-123/insights" {
			t.Errorf("path: %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"data":[{
			"id": "ins-1",
			"name": "profile_views",
			"profile_views": 12,
			"reach": 300,
			"impressions": 450
		}]}`))
	}))
	defer srv.Close()

	c := &MetaClient{
		BaseURL:            srv.URL,
		HTTPClient:         srv.Client(),
		InstagramAccountID: "ig-123",
	}

	got, err := c.FetchInstagramLeads(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	if got[0].ID != "i_ins-1" || got[0].Source != models.SourceInstagram {
		t.Fatalf("unexpected lead: %+v", got[0])
	}
	if got[0].Metadata["reach"] != "300" || got[0].Metadata["impressions"] != "450" {
		t.Fatalf("metadata: %+v", got[0].Metadata)
	}
}
