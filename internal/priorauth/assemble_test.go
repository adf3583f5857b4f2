package priorauth

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

// =============================================================================
// Determination Assembly Test Suite
// =============================================================================

type AssembleSuite struct {
	suite.Suite
}

func TestAssembleSuite(t *testing.T) {
	suite.Run(t, new(AssembleSuite))
}

func (s *AssembleSuite) TestAssembleReason() {
	s.Run("approve always uses the boilerplate", func() {
		s.Equal(approveReason, assembleReason(PolicyApprove, "capability reason ignored"))
	})

	s.Run("pend prefers the capability reason", func() {
		s.Equal("need imaging", assembleReason(PolicyPend, "need imaging"))
		s.Equal(pendReason, assembleReason(PolicyPend, ""))
	})

	s.Run("deny prefers the capability reason", func() {
		s.Equal("criteria not met", assembleReason(PolicyDeny, "criteria not met"))
		s.Equal(denyReason, assembleReason(PolicyDeny, ""))
	})

	s.Run("unknown determination is echoed", func() {
		s.Equal("Policy determination: ESCALATE", assembleReason("ESCALATE", "ignored"))
	})
}

func (s *AssembleSuite) TestAssembleDetermination() {
	det := assembleDetermination(PolicyPend,
		PolicyResult{Reason: "need imaging", DocRequirements: []string{"MRI report"}},
		[]string{"MCG A-0423"},
		[]string{"State mandate 12-B"},
		"OIG-20260219-101500-2386",
	)

	s.Equal(DecisionPend, det.Decision)
	s.False(det.HardStop)
	s.Equal("need imaging", det.Reason)
	s.Equal([]string{"MCG A-0423"}, det.PolicyRefs)
	s.Equal([]string{"MRI report"}, det.DocRequirements)
	s.Equal([]string{"State mandate 12-B"}, det.RegulatoryRefs)
	s.Equal("OIG-20260219-101500-2386", det.AuditRef)
	s.Nil(det.CodingIssues)
}

func (s *AssembleSuite) TestRegulatoryReference() {
	s.Run("with effective date", func() {
		s.Equal("CMS NCD 280.1 Amendment (eff. 2025-01-01)", regulatoryReference(RegulatoryItem{
			Title:         "CMS NCD 280.1 Amendment",
			EffectiveDate: "2025-01-01",
		}))
	})

	s.Run("without effective date", func() {
		s.Equal("State mandate 12-B", regulatoryReference(RegulatoryItem{Title: "State mandate 12-B"}))
	})
}
