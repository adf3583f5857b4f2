package priorauth

import "fmt"

// Determination assembly is pure: given the working determination and the
// accumulated references, produce the final response object. Reason text
// comes from the policy capability when it supplied one, otherwise from
// determination-specific boilerplate.

const (
	approveReason = "All prior authorization criteria have been met. " +
		"Sanctions check cleared. Coding validated. " +
		"Member eligibility confirmed. Clinical documentation supports medical necessity."

	pendReason = "Service meets some policy criteria but additional documentation is required. " +
		"See doc_requirements for items needed from the submitting provider."

	denyReason = "One or more policy criteria were not met. See criteria details."

	memberNotEligibleReason = "Member is not eligible for the requested service under the current benefit plan."
)

// assembleReason picks the reason text for a working determination.
// Unknown determination values pass through unchanged.
func assembleReason(determination string, policyReason string) string {
	switch determination {
	case PolicyApprove:
		return approveReason
	case PolicyPend:
		if policyReason != "" {
			return policyReason
		}
		return pendReason
	case PolicyDeny:
		if policyReason != "" {
			return policyReason
		}
		return denyReason
	default:
		return fmt.Sprintf("Policy determination: %s", determination)
	}
}

// assembleDetermination builds the final Determination on the path that
// reached policy evaluation (coding issues are always nil here).
func assembleDetermination(determination string, policy PolicyResult, policyRefs, regulatoryRefs []string, auditRef string) *Determination {
	return &Determination{
		Decision:        Decision(determination),
		HardStop:        false,
		Reason:          assembleReason(determination, policy.Reason),
		PolicyRefs:      policyRefs,
		DocRequirements: policy.DocRequirements,
		RegulatoryRefs:  regulatoryRefs,
		AuditRef:        auditRef,
	}
}

// regulatoryReference formats a citation for one regulatory item.
func regulatoryReference(item RegulatoryItem) string {
	if item.EffectiveDate != "" {
		return fmt.Sprintf("%s (eff. %s)", item.Title, item.EffectiveDate)
	}
	return item.Title
}
