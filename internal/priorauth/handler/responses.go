package handler

import (
	"priorauth/internal/priorauth"
)

// PriorAuthResponse is the HTTP response for POST /prior-auth.
type PriorAuthResponse struct {
	Decision        string                `json:"decision"`
	HardStop        bool                  `json:"hard_stop"`
	Reason          string                `json:"reason"`
	PolicyRefs      []string              `json:"policy_refs"`
	DocRequirements []string              `json:"doc_requirements"`
	CodingIssues    []CodingIssueResponse `json:"coding_issues,omitempty"`
	RegulatoryRefs  []string              `json:"regulatory_refs,omitempty"`
	AuditRef        string                `json:"audit_ref,omitempty"`
}

// CodingIssueResponse is one coding problem in the response.
type CodingIssueResponse struct {
	Code        string `json:"code"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Suggestion  string `json:"suggestion,omitempty"`
	Action      string `json:"action,omitempty"`
}

// FromDetermination converts a pipeline determination to an HTTP response.
// PolicyRefs and DocRequirements always serialize as arrays, never null.
func FromDetermination(d *priorauth.Determination) *PriorAuthResponse {
	resp := &PriorAuthResponse{
		Decision:        string(d.Decision),
		HardStop:        d.HardStop,
		Reason:          d.Reason,
		PolicyRefs:      d.PolicyRefs,
		DocRequirements: d.DocRequirements,
		RegulatoryRefs:  d.RegulatoryRefs,
		AuditRef:        d.AuditRef,
	}
	if resp.PolicyRefs == nil {
		resp.PolicyRefs = []string{}
	}
	if resp.DocRequirements == nil {
		resp.DocRequirements = []string{}
	}
	for _, issue := range d.CodingIssues {
		resp.CodingIssues = append(resp.CodingIssues, CodingIssueResponse{
			Code:        issue.Code,
			Type:        string(issue.Kind),
			Description: issue.Description,
			Suggestion:  issue.Suggestion,
			Action:      string(issue.Action),
		})
	}
	return resp
}
