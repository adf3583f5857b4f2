// Package audit records sanctions screening checks in an append-only sink.
// Every check, match or clear, produces exactly one record; the pipeline only
// writes and never reads the trail back.
package audit

import "time"

// Outcome of a sanctions check.
const (
	OutcomeClear    = "CLEAR"
	OutcomeExcluded = "EXCLUDED"
)

// CheckRecord is one append-only entry in the sanctions audit trail.
type CheckRecord struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	NPI           string    `json:"npi"`
	ProviderName  string    `json:"provider_name,omitempty"`
	Outcome       string    `json:"outcome"`
	ExclusionType string    `json:"exclusion_type,omitempty"`
	AuditRef      string    `json:"audit_ref"`
}
