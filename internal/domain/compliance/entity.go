package compliance

// Verdict status values
const (
	StatusCompliant      = "compliant"
	StatusNeedsAttention = "needs_attention"
	StatusBypassed       = "bypassed_in_debug"
)

// ControlStatusPassed is the literal status the provider reports for a
// passing control.
const ControlStatusPassed = "passed"

// Control is a single compliance control as returned by the provider.
type Control struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Status string `json:"status"`
}

// RiskFinding is a single open risk finding.
type RiskFinding struct {
	ID          string `json:"id"`
	Severity    string `json:"severity,omitempty"`
	Description string `json:"description,omitempty"`
}

// ControlsPage wraps the provider's controls list response.
type ControlsPage struct {
	Data []Control `json:"data"`
}

// FindingsPage wraps the provider's risk-findings list response.
type FindingsPage struct {
	Data []RiskFinding `json:"data"`
}

// Verdict is the read-only compliance posture consumed per analysis request.
// Not persisted by the pipeline.
type Verdict struct {
	ComplianceScore    int            `json:"compliance_score"`
	Status             string         `json:"status"`
	Controls           ControlsPage   `json:"controls"`
	RiskFindings       FindingsPage   `json:"risk_findings"`
	OrganizationStatus map[string]any `json:"organization_status,omitempty"`
	Timestamp          string         `json:"timestamp,omitempty"`
}
