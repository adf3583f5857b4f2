package priorauth

// Typed results for the five capability contracts. Each is produced by
// normalizing the capability's weakly-typed payload (see normalize.go); the
// orchestrator consumes them immediately and persists nothing.

// SanctionsResult reports exclusion screening of the rendering provider.
// Invariant: HardStop implies Excluded.
type SanctionsResult struct {
	HardStop      bool
	Excluded      bool
	ExclusionType string
	ExclusionDate string
	NPIActive     bool
	AuditRef      string
}

// IssueKind classifies a coding problem.
type IssueKind string

const (
	IssueInvalid     IssueKind = "INVALID"
	IssueNonBillable IssueKind = "NON_BILLABLE"
	IssueCCIBundle   IssueKind = "CCI_BUNDLE"
	IssueRedundantDx IssueKind = "REDUNDANT_DX"
)

// IssueAction is the suggested remediation for a coding issue.
type IssueAction string

const (
	ActionRemove  IssueAction = "REMOVE"
	ActionReplace IssueAction = "REPLACE"
	ActionReview  IssueAction = "REVIEW"
)

// CodingIssue describes one problem with a submitted code.
type CodingIssue struct {
	Code        string
	Kind        IssueKind
	Description string
	Suggestion  string
	Action      IssueAction
}

// CorrectedCodes carries the capability's suggested clean code lists.
type CorrectedCodes struct {
	ICD10 []string
	CPT   []string
}

// CodingResult reports ICD-10/CPT validation.
// Invariant: CodesValid=false implies Issues is non-empty.
type CodingResult struct {
	CodesValid     bool
	Issues         []CodingIssue
	CorrectedCodes CorrectedCodes
}

// BenefitDetails summarizes the member's coverage for the requested service.
type BenefitDetails struct {
	CoverageTier   string
	Copay          *float64
	PlanExclusions []string
}

// EligibilityResult reports member and provider eligibility.
type EligibilityResult struct {
	ProviderValid     bool
	ProviderInNetwork bool
	MemberEligible    bool
	BenefitDetails    BenefitDetails
	RequiresReferral  bool
}

// Policy determinations. The working determination is kept as a string so an
// unrecognized value from the capability passes through to the assembler
// instead of crashing the run.
const (
	PolicyApprove = "APPROVE"
	PolicyDeny    = "DENY"
	PolicyPend    = "PEND"
)

// PolicyCriterion is one evaluated coverage criterion.
type PolicyCriterion struct {
	Name      string
	Met       bool
	Evidence  string
	PolicyRef string
}

// PolicyResult reports the coverage-policy evaluation.
type PolicyResult struct {
	Determination     string
	Criteria          []PolicyCriterion
	CMSCoverageStatus string
	DocRequirements   []string
	PolicyRef         string
	Reason            string
}

// RegulatoryItem is one regulation potentially affecting coverage.
type RegulatoryItem struct {
	Title            string
	EffectiveDate    string
	Jurisdiction     string
	Summary          string
	MandatesCoverage bool
}

// RegulatoryResult reports regulations that may override an internal policy
// denial. OverrideFlag only ever widens a DENY to PEND.
type RegulatoryResult struct {
	OverrideFlag bool
	Items        []RegulatoryItem
}
