package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerceResultKYCShape(t *testing.T) {
	raw := `Here is the assessment:
{
  "risk_level": "HIGH",
  "risk_score": 85,
  "risk_factors": ["PEP status", "Sanctions proximity"],
  "recommendations": ["Enhanced due diligence"],
  "compliance_notes": ["FATF guidance applies"],
  "analysis_summary": "High risk customer profile"
}
Let me know if you need more detail.`

	got := CoerceResult(raw)
	assert.Equal(t, RiskHigh, got.RiskLevel)
	assert.Equal(t, 85, got.RiskScore)
	assert.Equal(t, []string{"PEP status", "Sanctions proximity"}, got.RiskFactors)
	assert.Equal(t, []string{"Enhanced due diligence"}, got.Recommendations)
	assert.Equal(t, []string{"FATF guidance applies"}, got.ComplianceNotes)
	assert.Equal(t, "High risk customer profile", got.AnalysisSummary)
	assert.False(t, got.Degraded())
}

func TestCoerceResultTransactionShape(t *testing.T) {
	raw := `{
  "suspicion_level": "MEDIUM",
  "suspicion_score": 40,
  "red_flags": ["Round amount"],
  "aml_concerns": ["Structuring pattern"],
  "recommendations": ["Monitor account"],
  "analysis_summary": "Moderately suspicious transfer"
}`

	got := CoerceResult(raw)
	assert.Equal(t, RiskMedium, got.RiskLevel)
	assert.Equal(t, 40, got.RiskScore)
	assert.Equal(t, []string{"Round amount"}, got.RiskFactors)
	assert.Equal(t, []string{"Structuring pattern"}, got.ComplianceNotes)
}

func TestCoerceResultSuspicionFieldsWin(t *testing.T) {
	// when both shapes are present the suspicion fields take precedence
	raw := `{
  "risk_level": "LOW",
  "risk_score": 10,
  "suspicion_level": "HIGH",
  "suspicion_score": 90,
  "red_flags": ["Layering"]
}`

	got := CoerceResult(raw)
	assert.Equal(t, RiskHigh, got.RiskLevel)
	assert.Equal(t, 90, got.RiskScore)
	assert.Equal(t, []string{"Layering"}, got.RiskFactors)
}

func TestCoerceResultDefaults(t *testing.T) {
	got := CoerceResult(`{"analysis_summary": "nothing conclusive"}`)
	assert.Equal(t, RiskMedium, got.RiskLevel)
	assert.Equal(t, 50, got.RiskScore)
	assert.NotNil(t, got.RiskFactors)
	assert.NotNil(t, got.Recommendations)
	assert.NotNil(t, got.ComplianceNotes)
	assert.False(t, got.Degraded())
}

func TestCoerceResultDegrades(t *testing.T) {
	cases := map[string]string{
		"no json object":     "the model refused to answer",
		"malformed json":     `{"risk_level": "HIGH", "risk_score": }`,
		"invalid level":      `{"risk_level": "SEVERE", "risk_score": 70}`,
		"score above range":  `{"risk_level": "LOW", "risk_score": 101}`,
		"score below range":  `{"risk_level": "LOW", "risk_score": -1}`,
		"score wrong type":   `{"risk_level": "LOW", "risk_score": "high"}`,
		"empty input":        "",
		"reversed delimiter": "} nothing here {",
	}
	want := DegradedResult()
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			got := CoerceResult(raw)
			require.Equal(t, want, got)
			assert.True(t, got.Degraded())
		})
	}
}

func TestDegradedResultContract(t *testing.T) {
	got := DegradedResult()
	assert.Equal(t, RiskMedium, got.RiskLevel)
	assert.Equal(t, 50, got.RiskScore)
	assert.Equal(t, []string{"Unable to parse analysis"}, got.RiskFactors)
	assert.Equal(t, []string{"Manual review required"}, got.Recommendations)
	assert.Equal(t, []string{"Analysis parsing failed"}, got.ComplianceNotes)
	assert.Equal(t, "Error in analysis processing", got.AnalysisSummary)
}

func TestCoerceSAR(t *testing.T) {
	raw := `{
  "sar_id": "ignored-at-this-stage",
  "executive_summary": "Funds moved through shell entities",
  "subject_information": {"name": "J. Doe"},
  "suspicious_activity": {"description": "Layered transfers", "timeframe": "Q1", "amount": "250000 USD"},
  "supporting_evidence": ["txn history"],
  "risk_assessment": "High",
  "recommendations": ["File within 30 days"],
  "filing_instructions": "Submit via FinCEN"
}`

	got := CoerceSAR(raw)
	assert.Equal(t, "Funds moved through shell entities", got.ExecutiveSummary)
	assert.Equal(t, "Layered transfers", got.SuspiciousActivity.Description)
	assert.Equal(t, []string{"txn history"}, got.SupportingEvidence)
}

func TestCoerceSARDegrades(t *testing.T) {
	got := CoerceSAR("not a report")
	want := DegradedSAR()
	require.Equal(t, want, got)
	assert.Equal(t, "SAR-ERROR-001", got.SARID)
	assert.Equal(t, "Error generating SAR", got.ExecutiveSummary)
	assert.Equal(t, "Contact compliance team", got.FilingInstructions)
}

func TestComprehensiveReportDegraded(t *testing.T) {
	clean := ComprehensiveReport{
		KYCAnalysis:         CoerceResult(`{"risk_level": "LOW", "risk_score": 5}`),
		TransactionAnalyses: []Result{CoerceResult(`{"suspicion_level": "LOW", "suspicion_score": 5}`)},
	}
	assert.False(t, clean.Degraded())

	clean.TransactionAnalyses = append(clean.TransactionAnalyses, DegradedResult())
	assert.True(t, clean.Degraded())
}
