package analysis

import (
	"encoding/json"
	"strings"
)

// Model replies arrive as free-form text with a JSON object somewhere inside.
// Coercion extracts the substring between the first '{' and the last '}' and
// parses it. Any failure (no delimiters, bad JSON, bad types, out-of-range
// values) yields the fixed degraded result instead of an error: a malformed
// model reply must never crash the pipeline, only flag it for manual review.

// CoerceResult turns raw model text into a Result. It accepts both the KYC
// shape (risk_level/risk_score/risk_factors/compliance_notes) and the
// transaction shape (suspicion_level/suspicion_score/red_flags/aml_concerns);
// the suspicion fields win when present. Never fails.
func CoerceResult(text string) Result {
	obj, ok := extractObject(text)
	if !ok {
		return DegradedResult()
	}

	var raw struct {
		RiskLevel       string   `json:"risk_level"`
		RiskScore       *int     `json:"risk_score"`
		RiskFactors     []string `json:"risk_factors"`
		SuspicionLevel  string   `json:"suspicion_level"`
		SuspicionScore  *int     `json:"suspicion_score"`
		RedFlags        []string `json:"red_flags"`
		AMLConcerns     []string `json:"aml_concerns"`
		Recommendations []string `json:"recommendations"`
		ComplianceNotes []string `json:"compliance_notes"`
		AnalysisSummary string   `json:"analysis_summary"`
	}
	if err := json.Unmarshal(obj, &raw); err != nil {
		return DegradedResult()
	}

	out := Result{
		RiskLevel:       RiskLevel(raw.RiskLevel),
		RiskFactors:     raw.RiskFactors,
		Recommendations: raw.Recommendations,
		ComplianceNotes: raw.ComplianceNotes,
		AnalysisSummary: raw.AnalysisSummary,
	}
	score := raw.RiskScore
	if raw.SuspicionLevel != "" {
		out.RiskLevel = RiskLevel(raw.SuspicionLevel)
		out.RiskFactors = raw.RedFlags
		out.ComplianceNotes = raw.AMLConcerns
		score = raw.SuspicionScore
	}

	if out.RiskLevel == "" {
		out.RiskLevel = RiskMedium
	}
	if score == nil {
		out.RiskScore = 50
	} else {
		out.RiskScore = *score
	}

	if !out.RiskLevel.Valid() || out.RiskScore < 0 || out.RiskScore > 100 {
		return DegradedResult()
	}
	if out.RiskFactors == nil {
		out.RiskFactors = []string{}
	}
	if out.Recommendations == nil {
		out.Recommendations = []string{}
	}
	if out.ComplianceNotes == nil {
		out.ComplianceNotes = []string{}
	}
	return out
}

// CoerceSAR turns raw model text into a SARDocument. Never fails.
func CoerceSAR(text string) SARDocument {
	obj, ok := extractObject(text)
	if !ok {
		return DegradedSAR()
	}
	var doc SARDocument
	if err := json.Unmarshal(obj, &doc); err != nil {
		return DegradedSAR()
	}
	if doc.SubjectInformation == nil {
		doc.SubjectInformation = map[string]any{}
	}
	if doc.SupportingEvidence == nil {
		doc.SupportingEvidence = []string{}
	}
	if doc.Recommendations == nil {
		doc.Recommendations = []string{}
	}
	return doc
}

// DegradedResult is the fixed low-confidence placeholder returned whenever
// analysis coercion fails. Field values are part of the contract; auditors
// match on them to re-trigger manual review.
func DegradedResult() Result {
	return Result{
		RiskLevel:       RiskMedium,
		RiskScore:       50,
		RiskFactors:     []string{"Unable to parse analysis"},
		Recommendations: []string{"Manual review required"},
		ComplianceNotes: []string{"Analysis parsing failed"},
		AnalysisSummary: "Error in analysis processing",
	}
}

// DegradedSAR is the fixed placeholder returned whenever SAR coercion fails.
func DegradedSAR() SARDocument {
	return SARDocument{
		SARID:              "SAR-ERROR-001",
		ExecutiveSummary:   "Error generating SAR",
		SubjectInformation: map[string]any{},
		SupportingEvidence: []string{},
		RiskAssessment:     "Unable to assess",
		Recommendations:    []string{"Manual review required"},
		FilingInstructions: "Contact compliance team",
	}
}

// Degraded reports whether the result is the parse-failure placeholder.
func (r Result) Degraded() bool {
	return r.AnalysisSummary == DegradedResult().AnalysisSummary
}

// Degraded reports whether the report carries the parse-failure placeholder.
func (r *Report) Degraded() bool {
	return r.AnalysisSummary == DegradedResult().AnalysisSummary
}

// Degraded reports whether any stage of the comprehensive run fell back to
// the parse-failure placeholder.
func (r *ComprehensiveReport) Degraded() bool {
	if r.KYCAnalysis.Degraded() {
		return true
	}
	for _, t := range r.TransactionAnalyses {
		if t.Degraded() {
			return true
		}
	}
	return false
}

func extractObject(text string) ([]byte, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return nil, false
	}
	return []byte(text[start : end+1]), true
}
