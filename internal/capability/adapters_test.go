package capability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"priorauth/internal/priorauth"
)

// =============================================================================
// Capability Adapter Test Suite
// =============================================================================

type invokerStub struct {
	capability string
	payload    map[string]any
	response   map[string]any
	err        error
}

func (s *invokerStub) Invoke(_ context.Context, capability string, payload any) (map[string]any, error) {
	s.capability = capability
	s.payload, _ = payload.(map[string]any)
	return s.response, s.err
}

type AdaptersSuite struct {
	suite.Suite
	invoker *invokerStub
}

func TestAdaptersSuite(t *testing.T) {
	suite.Run(t, new(AdaptersSuite))
}

func (s *AdaptersSuite) SetupTest() {
	s.invoker = &invokerStub{response: map[string]any{}}
}

func (s *AdaptersSuite) TestSanctionsClient() {
	s.Run("sends the screening contract", func() {
		_, err := NewSanctionsClient(s.invoker).Check(context.Background(), "1033472386", "Dr. Example")
		s.Require().NoError(err)
		s.Equal("sanctions", s.invoker.capability)
		s.Equal("1033472386", s.invoker.payload["npi"])
		s.Equal("Dr. Example", s.invoker.payload["provider_name"])
	})

	s.Run("normalizes the response", func() {
		s.invoker.response = map[string]any{"excluded": true, "exclusion_type": "1128a1"}
		result, err := NewSanctionsClient(s.invoker).Check(context.Background(), "1033472386", "")
		s.Require().NoError(err)
		s.True(result.Excluded)
		s.Equal("1128a1", result.ExclusionType)
	})

	s.Run("propagates invoker failures", func() {
		s.invoker.err = errors.New("outage")
		_, err := NewSanctionsClient(s.invoker).Check(context.Background(), "1033472386", "")
		s.Error(err)
	})
}

func (s *AdaptersSuite) TestCodingClient() {
	s.Run("defaults corrected codes to the submitted codes", func() {
		result, err := NewCodingClient(s.invoker).Validate(context.Background(),
			[]string{"M17.11"}, []string{"27447"}, "2026-02-19")
		s.Require().NoError(err)
		s.Equal("coding", s.invoker.capability)
		s.Equal("2026-02-19", s.invoker.payload["service_date"])
		s.Equal([]string{"M17.11"}, result.CorrectedCodes.ICD10)
		s.Equal([]string{"27447"}, result.CorrectedCodes.CPT)
	})

	s.Run("capability corrections win over the submitted codes", func() {
		s.invoker.response = map[string]any{
			"corrected_codes": map[string]any{"cpt": []any{"27447"}},
		}
		result, err := NewCodingClient(s.invoker).Validate(context.Background(),
			[]string{"M17.11"}, []string{"27447", "27370"}, "2026-02-19")
		s.Require().NoError(err)
		s.Equal([]string{"27447"}, result.CorrectedCodes.CPT)
		s.Equal([]string{"M17.11"}, result.CorrectedCodes.ICD10)
	})
}

func (s *AdaptersSuite) TestEligibilityClient() {
	_, err := NewEligibilityClient(s.invoker).Verify(context.Background(),
		"M1001", "1033472386", priorauth.LOBMedicaid, "imaging")
	s.Require().NoError(err)
	s.Equal("eligibility", s.invoker.capability)
	s.Equal("M1001", s.invoker.payload["member_id"])
	s.Equal("medicaid", s.invoker.payload["line_of_business"])
	s.Equal("imaging", s.invoker.payload["service_category"])
}

func (s *AdaptersSuite) TestPolicyClient() {
	s.invoker.response = map[string]any{"determination": "DENY"}
	result, err := NewPolicyClient(s.invoker).Evaluate(context.Background(),
		[]string{"M17.11"}, []string{"27447"}, priorauth.LOBCommercial, "notes")
	s.Require().NoError(err)
	s.Equal("policy", s.invoker.capability)
	s.Equal("notes", s.invoker.payload["clinical_notes"])
	s.Equal(priorauth.PolicyDeny, result.Determination)
}

func (s *AdaptersSuite) TestRegulatoryClient() {
	_, err := NewRegulatoryClient(s.invoker).Search(context.Background(), priorauth.RegulatorySearch{
		ICD10Codes:   []string{"M17.11"},
		CPTCodes:     []string{"27447"},
		LOB:          priorauth.LOBMedicareAdvantage,
		State:        "CA",
		ServiceDate:  "2026-02-19",
		LookbackDays: priorauth.DefaultLookbackDays,
	})
	s.Require().NoError(err)
	s.Equal("regulatory", s.invoker.capability)
	s.Equal("CA", s.invoker.payload["state"])
	s.Equal(priorauth.DefaultLookbackDays, s.invoker.payload["lookback_days"])
}

func (s *AdaptersSuite) TestNewPorts() {
	ports := NewPorts(s.invoker)
	s.NotNil(ports.Sanctions)
	s.NotNil(ports.Coding)
	s.NotNil(ports.Eligibility)
	s.NotNil(ports.Policy)
	s.NotNil(ports.Regulatory)
}
