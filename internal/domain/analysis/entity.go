package analysis

// RiskLevel enum
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// Valid reports whether the level is one of the three allowed values.
func (l RiskLevel) Valid() bool {
	return l == RiskLow || l == RiskMedium || l == RiskHigh
}

// KYCProfile is the customer-due-diligence input record. Immutable once
// created by the caller.
type KYCProfile struct {
	CustomerID     string  `json:"customer_id"`
	Name           string  `json:"name"`
	DateOfBirth    string  `json:"date_of_birth"`
	Address        string  `json:"address"`
	Occupation     string  `json:"occupation"`
	AnnualIncome   float64 `json:"annual_income"`
	SourceOfFunds  string  `json:"source_of_funds"`
	PEPStatus      string  `json:"pep_status"`
	SanctionsCheck string  `json:"sanctions_check"`
}

// Transaction is the transaction-monitoring input record.
type Transaction struct {
	TransactionID string  `json:"transaction_id"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Type          string  `json:"transaction_type"`
	Date          string  `json:"date"`
	Origin        string  `json:"origin"`
	Destination   string  `json:"destination"`
	CustomerID    string  `json:"customer_id"`
	Purpose       string  `json:"purpose"`
}

// Result is the typed risk assessment produced exactly once per request by
// the response coercer, either genuinely parsed from model output or the
// fixed degraded placeholder.
type Result struct {
	RiskLevel       RiskLevel `json:"risk_level"`
	RiskScore       int       `json:"risk_score"`
	RiskFactors     []string  `json:"risk_factors"`
	Recommendations []string  `json:"recommendations"`
	ComplianceNotes []string  `json:"compliance_notes"`
	AnalysisSummary string    `json:"analysis_summary"`
}

// SuspiciousActivity describes the flagged activity inside a SAR.
type SuspiciousActivity struct {
	Description string `json:"description"`
	Timeframe   string `json:"timeframe"`
	Amount      string `json:"amount"`
}

// SARDocument is a generated Suspicious Activity Report. The sar_id is
// assigned at persistence time; the document is never mutated afterwards.
type SARDocument struct {
	SARID              string             `json:"sar_id"`
	ExecutiveSummary   string             `json:"executive_summary"`
	SubjectInformation map[string]any     `json:"subject_information"`
	SuspiciousActivity SuspiciousActivity `json:"suspicious_activity"`
	SupportingEvidence []string           `json:"supporting_evidence"`
	RiskAssessment     string             `json:"risk_assessment"`
	Recommendations    []string           `json:"recommendations"`
	FilingInstructions string             `json:"filing_instructions"`
	CreatedAt          string             `json:"created_at,omitempty"`
	CustomerID         string             `json:"customer_id,omitempty"`
}

// SARBundle is the upstream analysis bundle a SAR is generated from. It is
// embedded pretty-printed into the SAR generation prompt.
type SARBundle struct {
	KYCAnalysis         Result   `json:"kyc_analysis"`
	TransactionAnalyses []Result `json:"transaction_analyses"`
	CustomerID          string   `json:"customer_id"`
}

// Report is the caller-facing result of a single KYC or transaction
// analysis.
type Report struct {
	AnalysisID       string    `json:"analysis_id"`
	RiskLevel        RiskLevel `json:"risk_level"`
	RiskScore        int       `json:"risk_score"`
	RiskFactors      []string  `json:"risk_factors"`
	Recommendations  []string  `json:"recommendations"`
	ComplianceNotes  []string  `json:"compliance_notes"`
	AnalysisSummary  string    `json:"analysis_summary"`
	Timestamp        string    `json:"timestamp"`
	ComplianceStatus string    `json:"compliance_status"`
	AuditStatus      string    `json:"audit_status,omitempty"`
}

// ComprehensiveReport combines one KYC analysis with N transaction analyses
// and the optional SAR escalation outcome.
type ComprehensiveReport struct {
	AnalysisID          string       `json:"analysis_id"`
	CustomerID          string       `json:"customer_id"`
	KYCAnalysis         Result       `json:"kyc_analysis"`
	TransactionAnalyses []Result     `json:"transaction_analyses"`
	SARGenerated        bool         `json:"sar_generated"`
	SARData             *SARDocument `json:"sar_data,omitempty"`
	ComplianceStatus    string       `json:"compliance_status"`
	OverallRiskLevel    RiskLevel    `json:"overall_risk_level"`
	Timestamp           string       `json:"timestamp"`
	AuditStatus         string       `json:"audit_status,omitempty"`
}
