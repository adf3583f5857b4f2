package handler

import (
	"fmt"
	"strings"
	"time"

	"priorauth/internal/priorauth"
	dErrors "priorauth/pkg/domain-errors"
	strutil "priorauth/pkg/platform/strings"
)

// PriorAuthRequest is the HTTP request body for POST /prior-auth.
type PriorAuthRequest struct {
	MemberID      string   `json:"member_id"`
	NPI           string   `json:"npi"`
	ProviderName  string   `json:"provider_name"`
	ICD10Codes    []string `json:"icd10_codes"`
	CPTCodes      []string `json:"cpt_codes"`
	LOB           string   `json:"lob"`
	ServiceDate   string   `json:"service_date"`
	ClinicalNotes string   `json:"clinical_notes"`
	State         string   `json:"state"`

	// Parsed values (populated by Validate)
	parsedLOB priorauth.LineOfBusiness
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *PriorAuthRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	r.MemberID = strings.TrimSpace(r.MemberID)
	if r.MemberID == "" {
		return dErrors.New(dErrors.CodeValidation, "member_id is required")
	}

	r.NPI = strings.TrimSpace(r.NPI)
	if r.NPI == "" {
		return dErrors.New(dErrors.CodeValidation, "npi is required")
	}

	r.ICD10Codes = strutil.DedupeAndTrimUpper(r.ICD10Codes)
	if len(r.ICD10Codes) == 0 {
		return dErrors.New(dErrors.CodeValidation, "icd10_codes must not be empty")
	}
	r.CPTCodes = strutil.DedupeAndTrimUpper(r.CPTCodes)
	if len(r.CPTCodes) == 0 {
		return dErrors.New(dErrors.CodeValidation, "cpt_codes must not be empty")
	}

	lob, err := priorauth.ParseLineOfBusiness(r.LOB)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("lob must be one of commercial, medicaid, medicare_advantage; got %q", r.LOB))
	}
	r.parsedLOB = lob

	r.ServiceDate = strings.TrimSpace(r.ServiceDate)
	if r.ServiceDate == "" {
		return dErrors.New(dErrors.CodeValidation, "service_date is required")
	}
	if _, err := time.Parse("2006-01-02", r.ServiceDate); err != nil {
		return dErrors.New(dErrors.CodeValidation, "service_date must be an ISO date (YYYY-MM-DD)")
	}

	r.State = strings.ToUpper(strings.TrimSpace(r.State))
	if r.State != "" && len(r.State) != 2 {
		return dErrors.New(dErrors.CodeValidation, "state must be a two-letter code")
	}

	return nil
}

// Domain converts the validated body into a pipeline request.
func (r *PriorAuthRequest) Domain() priorauth.PriorAuthRequest {
	return priorauth.PriorAuthRequest{
		MemberID:      r.MemberID,
		NPI:           r.NPI,
		ProviderName:  strings.TrimSpace(r.ProviderName),
		ICD10Codes:    r.ICD10Codes,
		CPTCodes:      r.CPTCodes,
		LOB:           r.parsedLOB,
		ServiceDate:   r.ServiceDate,
		ClinicalNotes: r.ClinicalNotes,
		State:         r.State,
	}
}
