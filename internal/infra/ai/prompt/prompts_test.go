package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fintrustai/compliance-copilot/internal/domain/analysis"
)

func TestKYCAnalysisEmbedsAllFields(t *testing.T) {
	p := analysis.KYCProfile{
		CustomerID:     "CUST-001",
		Name:           "Jane Roe",
		DateOfBirth:    "1980-05-01",
		Address:        "1 Main St",
		Occupation:     "Engineer",
		AnnualIncome:   120000,
		SourceOfFunds:  "Salary",
		PEPStatus:      "No",
		SanctionsCheck: "Clear",
	}

	got := KYCAnalysis(p)
	for _, want := range []string{
		"CUST-001", "Jane Roe", "1980-05-01", "1 Main St", "Engineer",
		"120000", "Salary",
	} {
		assert.Contains(t, got, want)
	}
	assert.Contains(t, got, `"risk_level": "LOW|MEDIUM|HIGH"`)
	assert.Contains(t, got, `"compliance_notes"`)
	assert.NotContains(t, got, "N/A")
}

func TestKYCAnalysisBlankFieldsRenderNA(t *testing.T) {
	got := KYCAnalysis(analysis.KYCProfile{CustomerID: "CUST-001"})
	// every blank field, including the zero income, renders as N/A
	assert.Equal(t, 8, strings.Count(got, "N/A"))
}

func TestTransactionAnalysisEmbedsAllFields(t *testing.T) {
	txn := analysis.Transaction{
		TransactionID: "TXN-9",
		Amount:        9999.5,
		Currency:      "EUR",
		Type:          "wire",
		Date:          "2025-01-14",
		Origin:        "DE",
		Destination:   "KY",
		CustomerID:    "CUST-001",
		Purpose:       "invoice",
	}

	got := TransactionAnalysis(txn)
	for _, want := range []string{
		"TXN-9", "9999.5", "EUR", "wire", "2025-01-14", "DE", "KY", "CUST-001", "invoice",
	} {
		assert.Contains(t, got, want)
	}
	assert.Contains(t, got, `"suspicion_level": "LOW|MEDIUM|HIGH"`)
	assert.Contains(t, got, `"aml_concerns"`)
}

func TestSARGenerationEmbedsBundle(t *testing.T) {
	bundle := analysis.SARBundle{
		KYCAnalysis: analysis.Result{
			RiskLevel:       analysis.RiskHigh,
			RiskScore:       90,
			AnalysisSummary: "shell company exposure",
		},
		TransactionAnalyses: []analysis.Result{
			{RiskLevel: analysis.RiskMedium, RiskScore: 40},
		},
		CustomerID: "CUST-001",
	}

	got := SARGeneration(bundle)
	assert.Contains(t, got, `"customer_id": "CUST-001"`)
	assert.Contains(t, got, "shell company exposure")
	assert.Contains(t, got, `"sar_id"`)
	assert.Contains(t, got, "filing_instructions")
}
