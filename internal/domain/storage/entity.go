package storage

import (
	"path"
	"strings"
	"time"
)

// Kind selects the content-path family an artifact is stored under. The path
// scheme is deterministic: {kind}/{subjectId}/{artifactId}.json.
type Kind string

const (
	KindKYCAnalysis           Kind = "reports/kyc_analysis"
	KindTransactionAnalysis   Kind = "reports/transaction_analysis"
	KindComprehensiveAnalysis Kind = "reports/comprehensive_analysis"
	KindSAR                   Kind = "sars"
)

// IDPrefix is the artifact-id prefix used for this kind, e.g.
// KYC_ANALYSIS-20250114-ABCD1234.
func (k Kind) IDPrefix() string {
	if k == KindSAR {
		return "SAR"
	}
	return strings.ToUpper(path.Base(string(k)))
}

// IDField is the top-level JSON field the artifact id is injected under.
func (k Kind) IDField() string {
	if k == KindSAR {
		return "sar_id"
	}
	return "report_id"
}

// ReportType is the report_type tag carried by analysis reports; empty for
// SARs.
func (k Kind) ReportType() string {
	if k == KindSAR {
		return ""
	}
	return path.Base(string(k))
}

// StoredArtifact is the opaque write confirmation returned by the store.
// Encrypted reflects whether the encrypt-at-rest flag was set on the write,
// not whether server-side encryption succeeded.
type StoredArtifact struct {
	ArtifactID  string `json:"artifact_id"`
	StoragePath string `json:"storage_path"`
	Encrypted   bool   `json:"encrypted"`
	CreatedAt   string `json:"created_at"`
}

// ObjectSummary describes one stored artifact when listing by prefix.
type ObjectSummary struct {
	ArtifactID   string    `json:"artifact_id"`
	StoragePath  string    `json:"storage_path"`
	SubjectID    string    `json:"subject_id,omitempty"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}
