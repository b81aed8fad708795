package prompt

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/fintrustai/compliance-copilot/internal/domain/analysis"
)

// Prompt builders are pure functions of the input record. Every field is
// embedded, blank fields as the literal "N/A", and each prompt states
// verbatim the JSON schema the model must return.

// KYCAnalysis renders the risk-assessment prompt for a KYC profile.
func KYCAnalysis(p analysis.KYCProfile) string {
	return fmt.Sprintf(`You are a financial compliance expert analyzing a KYC (Know Your Customer) profile for risk assessment.

Customer Data:
- Customer ID: %s
- Name: %s
- Date of Birth: %s
- Address: %s
- Occupation: %s
- Annual Income: %s
- Source of Funds: %s
- PEP Status: %s
- Sanctions Check: %s

Please analyze this KYC profile and provide:
1. Risk Level: LOW, MEDIUM, or HIGH
2. Risk Factors: List specific factors contributing to the risk assessment
3. Recommendations: Specific actions to mitigate identified risks
4. Compliance Notes: Any regulatory considerations

Format your response as JSON with the following structure:
{
    "risk_level": "LOW|MEDIUM|HIGH",
    "risk_score": 0-100,
    "risk_factors": ["factor1", "factor2", ...],
    "recommendations": ["recommendation1", "recommendation2", ...],
    "compliance_notes": ["note1", "note2", ...],
    "analysis_summary": "Brief summary of the analysis"
}`,
		orNA(p.CustomerID),
		orNA(p.Name),
		orNA(p.DateOfBirth),
		orNA(p.Address),
		orNA(p.Occupation),
		amountOrNA(p.AnnualIncome),
		orNA(p.SourceOfFunds),
		orNA(p.PEPStatus),
		orNA(p.SanctionsCheck),
	)
}

// TransactionAnalysis renders the suspicious-activity prompt for a
// transaction.
func TransactionAnalysis(t analysis.Transaction) string {
	return fmt.Sprintf(`You are a financial compliance expert analyzing a transaction for suspicious activity.

Transaction Data:
- Transaction ID: %s
- Amount: %s
- Currency: %s
- Transaction Type: %s
- Date: %s
- Origin: %s
- Destination: %s
- Customer ID: %s
- Purpose: %s

Please analyze this transaction and provide:
1. Suspicion Level: LOW, MEDIUM, or HIGH
2. Red Flags: List specific indicators of suspicious activity
3. AML Concerns: Anti-Money Laundering considerations
4. Recommendations: Next steps for investigation

Format your response as JSON with the following structure:
{
    "suspicion_level": "LOW|MEDIUM|HIGH",
    "suspicion_score": 0-100,
    "red_flags": ["flag1", "flag2", ...],
    "aml_concerns": ["concern1", "concern2", ...],
    "recommendations": ["recommendation1", "recommendation2", ...],
    "analysis_summary": "Brief summary of the analysis"
}`,
		orNA(t.TransactionID),
		amountOrNA(t.Amount),
		orNA(t.Currency),
		orNA(t.Type),
		orNA(t.Date),
		orNA(t.Origin),
		orNA(t.Destination),
		orNA(t.CustomerID),
		orNA(t.Purpose),
	)
}

// SARGeneration renders the SAR prompt around the full analysis bundle,
// pretty-printed as JSON.
func SARGeneration(b analysis.SARBundle) string {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		data = []byte("{}")
	}
	return fmt.Sprintf(`You are a financial compliance expert generating a Suspicious Activity Report (SAR).

Analysis Data:
%s

Please generate a comprehensive SAR that includes:
1. Executive Summary
2. Subject Information
3. Suspicious Activity Description
4. Supporting Evidence
5. Risk Assessment
6. Recommendations

Format your response as JSON with the following structure:
{
    "sar_id": "SAR-YYYY-MM-DD-XXXX",
    "executive_summary": "Brief summary of the suspicious activity",
    "subject_information": {
        "customer_id": "customer_id",
        "name": "customer_name",
        "other_details": "..."
    },
    "suspicious_activity": {
        "description": "Detailed description of suspicious activity",
        "timeframe": "When the activity occurred",
        "amount": "Total amount involved"
    },
    "supporting_evidence": ["evidence1", "evidence2", ...],
    "risk_assessment": "Overall risk assessment",
    "recommendations": ["recommendation1", "recommendation2", ...],
    "filing_instructions": "Instructions for filing with FinCEN"
}`, data)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func amountOrNA(v float64) string {
	if v == 0 {
		return "N/A"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
