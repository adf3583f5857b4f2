// Package priorauth implements the prior-authorization determination
// pipeline: a fixed-order sequence of compliance checks with hard-stop
// semantics and a single assembled determination per request.
package priorauth

import (
	"fmt"
	"strings"
)

// LineOfBusiness identifies the benefit plan family a request falls under.
type LineOfBusiness string

const (
	LOBCommercial        LineOfBusiness = "commercial"
	LOBMedicaid          LineOfBusiness = "medicaid"
	LOBMedicareAdvantage LineOfBusiness = "medicare_advantage"
)

// ParseLineOfBusiness validates a raw LOB string.
func ParseLineOfBusiness(raw string) (LineOfBusiness, error) {
	switch LineOfBusiness(strings.ToLower(strings.TrimSpace(raw))) {
	case LOBCommercial:
		return LOBCommercial, nil
	case LOBMedicaid:
		return LOBMedicaid, nil
	case LOBMedicareAdvantage:
		return LOBMedicareAdvantage, nil
	default:
		return "", fmt.Errorf("unknown line of business %q", raw)
	}
}

// PriorAuthRequest is one inbound authorization request. It is immutable once
// accepted and lives only for the duration of a single pipeline run.
type PriorAuthRequest struct {
	MemberID      string
	NPI           string
	ProviderName  string
	ICD10Codes    []string
	CPTCodes      []string
	LOB           LineOfBusiness
	ServiceDate   string // ISO date (YYYY-MM-DD), gates fiscal-year code lookups
	ClinicalNotes string
	State         string // two-letter jurisdiction code, optional
}

// Decision is the final outcome of a pipeline run.
type Decision string

const (
	DecisionApprove               Decision = "APPROVE"
	DecisionDeny                  Decision = "DENY"
	DecisionPend                  Decision = "PEND"
	DecisionDeniedHardStop        Decision = "DENIED_HARD_STOP"
	DecisionReturnedForCorrection Decision = "RETURNED_FOR_CORRECTION"
)

// Determination is the single, auditable decision object returned for a
// request. AuditRef threads the sanctions audit reference unchanged into
// every determination produced after the sanctions step completes.
type Determination struct {
	Decision        Decision
	HardStop        bool
	Reason          string
	PolicyRefs      []string
	DocRequirements []string
	CodingIssues    []CodingIssue // nil on the success path
	RegulatoryRefs  []string      // nil when the regulatory step found nothing
	AuditRef        string
}
