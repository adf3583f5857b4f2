package priorauth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"priorauth/internal/audit"
	"priorauth/internal/priorauth/metrics"
	dErrors "priorauth/pkg/domain-errors"
)

// AuditPublisher records sanctions checks in the append-only trail.
type AuditPublisher interface {
	Emit(ctx context.Context, record audit.CheckRecord) error
}

// Ports groups the five capability clients the pipeline depends on.
type Ports struct {
	Sanctions   SanctionsPort
	Coding      CodingPort
	Eligibility EligibilityPort
	Policy      PolicyPort
	Regulatory  RegulatoryPort
}

// Service runs the prior-authorization pipeline. Each run is strictly
// sequential: a step begins only after the previous step's result is fully
// normalized, and once a terminal branch fires no later capability is
// invoked. Runs share no mutable state, so the service is safe for
// concurrent use.
type Service struct {
	ports   Ports
	auditor AuditPublisher
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = publisher
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

func New(ports Ports, opts ...Option) (*Service, error) {
	switch {
	case ports.Sanctions == nil:
		return nil, fmt.Errorf("sanctions port is required")
	case ports.Coding == nil:
		return nil, fmt.Errorf("coding port is required")
	case ports.Eligibility == nil:
		return nil, fmt.Errorf("eligibility port is required")
	case ports.Policy == nil:
		return nil, fmt.Errorf("policy port is required")
	case ports.Regulatory == nil:
		return nil, fmt.Errorf("regulatory port is required")
	}

	svc := &Service{
		ports:  ports,
		tracer: otel.Tracer("priorauth"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Process runs the full pipeline for one request.
//
// Compliance ordering (hard rule, never reordered):
//  1. sanctions   — must run first; exclusion match is a hard stop
//  2. coding      — invalid codes return the submission for correction
//  3. eligibility — member or provider failure denies
//  4. policy      — produces the working determination
//  5. regulatory  — only when the working determination is PEND or DENY
//
// A capability failure aborts the run with no partial determination.
func (s *Service) Process(ctx context.Context, req PriorAuthRequest) (*Determination, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "priorauth.pipeline")
	defer span.End()

	result, err := s.run(ctx, req)
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementDetermination(string(result.Decision))
	s.metrics.ObservePipelineLatency(time.Since(start))
	return result, nil
}

func (s *Service) run(ctx context.Context, req PriorAuthRequest) (*Determination, error) {
	// Step 1: sanctions screening. Must be first; nothing else runs until
	// the provider clears.
	s.logInfo(ctx, "step 1: sanctions check", "npi", req.NPI)
	sanctions, err := s.checkSanctions(ctx, req)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "sanctions capability failed")
	}
	s.recordCheck(ctx, req, sanctions)

	if sanctions.HardStop || sanctions.Excluded {
		s.logWarn(ctx, "hard stop: provider excluded", "npi", req.NPI, "exclusion_type", sanctions.ExclusionType)
		return &Determination{
			Decision: DecisionDeniedHardStop,
			HardStop: true,
			Reason: fmt.Sprintf(
				"Provider NPI %s is excluded from federal healthcare programs "+
					"(exclusion type: %s, effective: %s). "+
					"No claims may be submitted or paid for this provider.",
				req.NPI, orUnknown(sanctions.ExclusionType), orUnknown(sanctions.ExclusionDate),
			),
			PolicyRefs:      []string{},
			DocRequirements: []string{},
			AuditRef:        sanctions.AuditRef,
		}, nil
	}

	auditRef := sanctions.AuditRef

	// Step 2: coding validation.
	s.logInfo(ctx, "step 2: coding validation", "icd10", req.ICD10Codes, "cpt", req.CPTCodes)
	coding, err := s.validateCoding(ctx, req)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "coding capability failed")
	}

	if !coding.CodesValid {
		s.logInfo(ctx, "coding issues found, returning for correction", "issues", len(coding.Issues))
		return &Determination{
			Decision: DecisionReturnedForCorrection,
			Reason: fmt.Sprintf(
				"Submission contains %d coding issue(s). "+
					"Correct and resubmit; eligibility and policy review will proceed "+
					"after clean resubmission.",
				len(coding.Issues),
			),
			PolicyRefs:      []string{},
			DocRequirements: []string{},
			CodingIssues:    coding.Issues,
			AuditRef:        auditRef,
		}, nil
	}

	// Step 3: eligibility.
	s.logInfo(ctx, "step 3: eligibility check", "member_id", req.MemberID, "lob", req.LOB)
	eligibility, err := s.verifyEligibility(ctx, req)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "eligibility capability failed")
	}

	if !eligibility.MemberEligible {
		return &Determination{
			Decision:        DecisionDeny,
			Reason:          memberNotEligibleReason,
			PolicyRefs:      []string{},
			DocRequirements: []string{},
			AuditRef:        auditRef,
		}, nil
	}
	if !eligibility.ProviderValid {
		return &Determination{
			Decision:        DecisionDeny,
			Reason:          fmt.Sprintf("Provider NPI %s could not be validated or is not in-network.", req.NPI),
			PolicyRefs:      []string{},
			DocRequirements: []string{},
			AuditRef:        auditRef,
		}, nil
	}

	// Step 4: policy evaluation produces the working determination.
	s.logInfo(ctx, "step 4: policy evaluation", "lob", req.LOB)
	policy, err := s.evaluatePolicy(ctx, req)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "policy capability failed")
	}

	determination := policy.Determination
	var policyRefs []string
	if policy.PolicyRef != "" {
		policyRefs = append(policyRefs, policy.PolicyRef)
	}

	// Step 5: regulatory check, only when the working determination is DENY
	// or PEND. The override branch only widens DENY to PEND; it never widens
	// PEND or demotes APPROVE.
	var regulatoryRefs []string
	if determination == PolicyDeny || determination == PolicyPend {
		s.logInfo(ctx, "step 5: regulatory check", "determination", determination)
		regulatory, err := s.searchRegulatory(ctx, req)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "regulatory capability failed")
		}

		for _, item := range regulatory.Items {
			if item.Title != "" {
				regulatoryRefs = append(regulatoryRefs, regulatoryReference(item))
			}
		}

		if regulatory.OverrideFlag && determination == PolicyDeny {
			// The escalated path returns directly with an override-specific
			// reason instead of falling through to generic assembly. The
			// asymmetry with the normal PEND path is intentional.
			s.logInfo(ctx, "regulatory override found, escalating DENY to PEND")
			references := strings.Join(regulatoryRefs, ", ")
			if references == "" {
				references = "see items"
			}
			return &Determination{
				Decision: DecisionPend,
				Reason: fmt.Sprintf(
					"Policy determination was DENY, but a regulatory mandate overrides "+
						"the internal policy. Escalating to PEND for manual review and policy update. "+
						"Regulatory references: %s.",
					references,
				),
				PolicyRefs:      policyRefs,
				DocRequirements: policy.DocRequirements,
				RegulatoryRefs:  regulatoryRefs,
				AuditRef:        auditRef,
			}, nil
		}
	} else {
		s.logInfo(ctx, "step 5: skipped", "determination", determination)
	}

	return assembleDetermination(determination, policy, policyRefs, regulatoryRefs, auditRef), nil
}

func (s *Service) checkSanctions(ctx context.Context, req PriorAuthRequest) (SanctionsResult, error) {
	ctx, span := s.tracer.Start(ctx, "priorauth.sanctions")
	defer span.End()

	start := time.Now()
	result, err := s.ports.Sanctions.Check(ctx, req.NPI, req.ProviderName)
	s.metrics.ObserveStepLatency("sanctions", time.Since(start))
	return result, err
}

func (s *Service) validateCoding(ctx context.Context, req PriorAuthRequest) (CodingResult, error) {
	ctx, span := s.tracer.Start(ctx, "priorauth.coding")
	defer span.End()

	start := time.Now()
	result, err := s.ports.Coding.Validate(ctx, req.ICD10Codes, req.CPTCodes, req.ServiceDate)
	s.metrics.ObserveStepLatency("coding", time.Since(start))
	return result, err
}

func (s *Service) verifyEligibility(ctx context.Context, req PriorAuthRequest) (EligibilityResult, error) {
	ctx, span := s.tracer.Start(ctx, "priorauth.eligibility")
	defer span.End()

	start := time.Now()
	result, err := s.ports.Eligibility.Verify(ctx, req.MemberID, req.NPI, req.LOB, "")
	s.metrics.ObserveStepLatency("eligibility", time.Since(start))
	return result, err
}

func (s *Service) evaluatePolicy(ctx context.Context, req PriorAuthRequest) (PolicyResult, error) {
	ctx, span := s.tracer.Start(ctx, "priorauth.policy")
	defer span.End()

	start := time.Now()
	result, err := s.ports.Policy.Evaluate(ctx, req.ICD10Codes, req.CPTCodes, req.LOB, req.ClinicalNotes)
	s.metrics.ObserveStepLatency("policy", time.Since(start))
	return result, err
}

func (s *Service) searchRegulatory(ctx context.Context, req PriorAuthRequest) (RegulatoryResult, error) {
	ctx, span := s.tracer.Start(ctx, "priorauth.regulatory")
	defer span.End()

	start := time.Now()
	result, err := s.ports.Regulatory.Search(ctx, RegulatorySearch{
		ICD10Codes:   req.ICD10Codes,
		CPTCodes:     req.CPTCodes,
		LOB:          req.LOB,
		State:        req.State,
		ServiceDate:  req.ServiceDate,
		LookbackDays: DefaultLookbackDays,
	})
	s.metrics.ObserveStepLatency("regulatory", time.Since(start))
	return result, err
}

// recordCheck appends one audit record per completed sanctions check, match
// or clear. Audit failures are logged but never abort the run; the core only
// writes to the trail.
func (s *Service) recordCheck(ctx context.Context, req PriorAuthRequest, result SanctionsResult) {
	if s.auditor == nil {
		return
	}

	outcome := audit.OutcomeClear
	if result.Excluded {
		outcome = audit.OutcomeExcluded
	}
	record := audit.CheckRecord{
		NPI:           req.NPI,
		ProviderName:  req.ProviderName,
		Outcome:       outcome,
		ExclusionType: result.ExclusionType,
		AuditRef:      result.AuditRef,
	}
	if err := s.auditor.Emit(ctx, record); err != nil {
		s.logError(ctx, "audit record append failed", "npi", req.NPI, "error", err)
	}
}

func orUnknown(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}

func (s *Service) logInfo(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, msg, args...)
	}
}

func (s *Service) logWarn(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.WarnContext(ctx, msg, args...)
	}
}

func (s *Service) logError(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.ErrorContext(ctx, msg, args...)
	}
}
