package models

// LeadSource identifies the marketing platform a lead originated from.
type LeadSource string

const (
	SourceGoogle    LeadSource = "google"
	SourceFacebook  LeadSource = "facebook"
	SourceInstagram LeadSource = "instagram"
	SourceLinkedIn  LeadSource = "linkedin"
)

// Lead is the canonical lead record, regardless of originating platform.
// IDs are prefixed by a source tag ("g_", "f_", "i_", "l_") so consumers can
// tell origins apart without inspecting Source. Leads are immutable values:
// they are built in one aggregation call and returned as-is.
type Lead struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Phone     string            `json:"phone"`
	Company   string            `json:"company"`
	Source    LeadSource        `json:"source"`
	CreatedAt string            `json:"createdAt"`
	Metadata  map[string]string `json:"metadata"`
}
