package analysis

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domain "github.com/fintrustai/compliance-copilot/internal/domain/analysis"
	"github.com/fintrustai/compliance-copilot/internal/domain/audit"
	"github.com/fintrustai/compliance-copilot/internal/domain/compliance"
	storagedomain "github.com/fintrustai/compliance-copilot/internal/domain/storage"
	storageinfra "github.com/fintrustai/compliance-copilot/internal/infra/storage"
)

type fakeGate struct {
	verdict *compliance.Verdict
	err     error
}

func (g *fakeGate) CheckPosture(ctx context.Context) (*compliance.Verdict, error) {
	return g.verdict, g.err
}

type fakeModel struct {
	kycText  string
	kycErr   error
	txnTexts []string
	txnErr   error
	sarText  string
	sarErr   error

	txnCalls int
	sarCalls int
}

func (m *fakeModel) AnalyzeKYC(ctx context.Context, profile domain.KYCProfile) (string, error) {
	return m.kycText, m.kycErr
}

func (m *fakeModel) AnalyzeTransaction(ctx context.Context, txn domain.Transaction) (string, error) {
	if m.txnErr != nil {
		return "", m.txnErr
	}
	text := m.txnTexts[m.txnCalls]
	m.txnCalls++
	return text, nil
}

func (m *fakeModel) GenerateSAR(ctx context.Context, bundle domain.SARBundle) (string, error) {
	m.sarCalls++
	return m.sarText, m.sarErr
}

type fakeTrail struct {
	entries []string
	err     error
}

func (t *fakeTrail) Append(ctx context.Context, action string, details map[string]any, userID string) (*audit.Entry, error) {
	if t.err != nil {
		return nil, t.err
	}
	t.entries = append(t.entries, action)
	return &audit.Entry{LogID: "AUDIT-1", Action: action}, nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func levelText(level string, score int) string {
	return fmt.Sprintf(`{"risk_level": %q, "risk_score": %d}`, level, score)
}

func suspicionText(level string, score int) string {
	return fmt.Sprintf(`{"suspicion_level": %q, "suspicion_score": %d}`, level, score)
}

func newService(gate *fakeGate, model *fakeModel, trail *fakeTrail) (*Service, *storageinfra.MemoryStore) {
	store := storageinfra.NewMemory(false)
	return &Service{
		Gate:      gate,
		Model:     model,
		Artifacts: store,
		Audit:     trail,
		Clock:     fixedClock{t: time.Date(2025, 1, 14, 10, 0, 0, 0, time.UTC)},
		Log:       zap.NewNop(),
	}, store
}

func compliantGate() *fakeGate {
	return &fakeGate{verdict: &compliance.Verdict{ComplianceScore: 90, Status: compliance.StatusCompliant}}
}

func TestAnalyzeKYC(t *testing.T) {
	gate := compliantGate()
	model := &fakeModel{kycText: levelText("LOW", 12)}
	trail := &fakeTrail{}
	svc, store := newService(gate, model, trail)

	report, err := svc.AnalyzeKYC(context.Background(), domain.KYCProfile{CustomerID: "CUST-001", Name: "Jane Roe"})
	require.NoError(t, err)

	assert.Equal(t, "KYC-20250114-CUST-001", report.AnalysisID)
	assert.Equal(t, domain.RiskLow, report.RiskLevel)
	assert.Equal(t, 12, report.RiskScore)
	assert.Equal(t, compliance.StatusCompliant, report.ComplianceStatus)
	assert.Equal(t, AuditRecorded, report.AuditStatus)
	assert.Equal(t, []string{"kyc_analysis"}, trail.entries)

	listed, err := store.List(context.Background(), storagedomain.KindKYCAnalysis, "CUST-001")
	require.NoError(t, err)
	require.Len(t, listed, 1)
}

func TestAnalyzeKYCGateFailure(t *testing.T) {
	gate := &fakeGate{err: compliance.ErrProviderUnavailable}
	model := &fakeModel{kycText: levelText("LOW", 12)}
	trail := &fakeTrail{}
	svc, store := newService(gate, model, trail)

	report, err := svc.AnalyzeKYC(context.Background(), domain.KYCProfile{CustomerID: "CUST-001"})
	assert.Nil(t, report)

	var stageErr *domain.StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageComplianceCheck, stageErr.Stage)
	assert.ErrorIs(t, err, compliance.ErrProviderUnavailable)
	assert.Zero(t, store.Len())
	assert.Empty(t, trail.entries)
}

func TestAnalyzeKYCModelFailure(t *testing.T) {
	gate := compliantGate()
	model := &fakeModel{kycErr: errors.New("timeout")}
	trail := &fakeTrail{}
	svc, store := newService(gate, model, trail)

	report, err := svc.AnalyzeKYC(context.Background(), domain.KYCProfile{CustomerID: "CUST-001"})
	assert.Nil(t, report)

	var stageErr *domain.StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageModelInvocation, stageErr.Stage)
	// nothing persisted, nothing audited
	assert.Zero(t, store.Len())
	assert.Empty(t, trail.entries)
}

func TestAnalyzeKYCAuditFailureKeepsReport(t *testing.T) {
	gate := compliantGate()
	model := &fakeModel{kycText: levelText("LOW", 12)}
	trail := &fakeTrail{err: errors.New("trail down")}
	svc, store := newService(gate, model, trail)

	report, err := svc.AnalyzeKYC(context.Background(), domain.KYCProfile{CustomerID: "CUST-001"})

	var auditErr *domain.AuditWriteError
	require.ErrorAs(t, err, &auditErr)
	require.NotNil(t, report)
	assert.Equal(t, AuditFailed, report.AuditStatus)
	assert.Equal(t, domain.RiskLow, report.RiskLevel)
	// the artifact write happened before the audit attempt
	assert.Equal(t, 1, store.Len())
}

func TestAnalyzeKYCDegradedReply(t *testing.T) {
	gate := compliantGate()
	model := &fakeModel{kycText: "the model apologised instead of answering"}
	trail := &fakeTrail{}
	svc, _ := newService(gate, model, trail)

	report, err := svc.AnalyzeKYC(context.Background(), domain.KYCProfile{CustomerID: "CUST-001"})
	require.NoError(t, err)
	assert.Equal(t, domain.RiskMedium, report.RiskLevel)
	assert.Equal(t, 50, report.RiskScore)
	assert.True(t, report.Degraded())
}

func TestAnalyzeTransaction(t *testing.T) {
	gate := compliantGate()
	model := &fakeModel{txnTexts: []string{suspicionText("MEDIUM", 45)}}
	trail := &fakeTrail{}
	svc, store := newService(gate, model, trail)

	txn := domain.Transaction{TransactionID: "TXN-9", CustomerID: "CUST-001", Amount: 12000, Currency: "USD"}
	report, err := svc.AnalyzeTransaction(context.Background(), txn)
	require.NoError(t, err)

	assert.Equal(t, "TXN-20250114-TXN-9", report.AnalysisID)
	assert.Equal(t, domain.RiskMedium, report.RiskLevel)
	assert.Equal(t, 45, report.RiskScore)
	assert.Equal(t, []string{"transaction_analysis"}, trail.entries)

	// stored under the customer, not the transaction
	listed, err := store.List(context.Background(), storagedomain.KindTransactionAnalysis, "CUST-001")
	require.NoError(t, err)
	require.Len(t, listed, 1)
}

func TestAnalyzeComprehensiveEscalation(t *testing.T) {
	cases := []struct {
		name         string
		kyc          string
		txns         []string
		wantSAR      bool
		wantOverall  domain.RiskLevel
	}{
		{"all low", levelText("LOW", 10), []string{suspicionText("LOW", 5), suspicionText("LOW", 8)}, false, domain.RiskLow},
		{"kyc high escalates", levelText("HIGH", 90), []string{suspicionText("LOW", 5)}, true, domain.RiskHigh},
		{"txn high escalates", levelText("LOW", 10), []string{suspicionText("HIGH", 85)}, true, domain.RiskHigh},
		{"medium txn no sar", levelText("LOW", 10), []string{suspicionText("MEDIUM", 40), suspicionText("LOW", 5)}, false, domain.RiskMedium},
		{"medium kyc alone stays low", levelText("MEDIUM", 40), []string{suspicionText("LOW", 5)}, false, domain.RiskLow},
		{"no transactions", levelText("LOW", 10), nil, false, domain.RiskLow},
	}

	sarText := `{"executive_summary": "generated", "risk_assessment": "High"}`

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gate := compliantGate()
			model := &fakeModel{kycText: tc.kyc, txnTexts: tc.txns, sarText: sarText}
			trail := &fakeTrail{}
			svc, store := newService(gate, model, trail)

			txns := make([]domain.Transaction, len(tc.txns))
			for i := range txns {
				txns[i] = domain.Transaction{TransactionID: fmt.Sprintf("TXN-%d", i), CustomerID: "CUST-001"}
			}

			report, err := svc.AnalyzeComprehensive(context.Background(), domain.KYCProfile{CustomerID: "CUST-001"}, txns)
			require.NoError(t, err)

			assert.Equal(t, "COMP-20250114-CUST-001", report.AnalysisID)
			assert.Equal(t, tc.wantSAR, report.SARGenerated)
			assert.Equal(t, tc.wantOverall, report.OverallRiskLevel)
			assert.Len(t, report.TransactionAnalyses, len(tc.txns))
			assert.Equal(t, AuditRecorded, report.AuditStatus)

			if tc.wantSAR {
				require.NotNil(t, report.SARData)
				assert.Regexp(t, `^SAR-\d{8}-[A-F0-9]{8}$`, report.SARData.SARID)
				assert.Equal(t, "CUST-001", report.SARData.CustomerID)
				assert.NotEmpty(t, report.SARData.CreatedAt)

				sars, err := store.List(context.Background(), storagedomain.KindSAR, "CUST-001")
				require.NoError(t, err)
				assert.Len(t, sars, 1)
			} else {
				assert.Nil(t, report.SARData)
				assert.Zero(t, model.sarCalls)
			}

			comps, err := store.List(context.Background(), storagedomain.KindComprehensiveAnalysis, "CUST-001")
			require.NoError(t, err)
			assert.Len(t, comps, 1)
		})
	}
}

func TestAnalyzeComprehensiveAbortsOnTransactionFailure(t *testing.T) {
	gate := compliantGate()
	model := &fakeModel{kycText: levelText("LOW", 10), txnErr: errors.New("model down")}
	trail := &fakeTrail{}
	svc, store := newService(gate, model, trail)

	txns := []domain.Transaction{{TransactionID: "TXN-1", CustomerID: "CUST-001"}}
	report, err := svc.AnalyzeComprehensive(context.Background(), domain.KYCProfile{CustomerID: "CUST-001"}, txns)
	assert.Nil(t, report)

	var stageErr *domain.StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageModelInvocation, stageErr.Stage)
	assert.Zero(t, store.Len())
	assert.Empty(t, trail.entries)
}

func TestAnalyzeComprehensiveSARFailure(t *testing.T) {
	gate := compliantGate()
	model := &fakeModel{
		kycText:  levelText("HIGH", 90),
		txnTexts: []string{suspicionText("LOW", 5)},
		sarErr:   errors.New("model down"),
	}
	trail := &fakeTrail{}
	svc, _ := newService(gate, model, trail)

	txns := []domain.Transaction{{TransactionID: "TXN-1", CustomerID: "CUST-001"}}
	report, err := svc.AnalyzeComprehensive(context.Background(), domain.KYCProfile{CustomerID: "CUST-001"}, txns)
	assert.Nil(t, report)

	var stageErr *domain.StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageSARGeneration, stageErr.Stage)
}

func TestAnalyzeComprehensiveDegradedSARStillEscalates(t *testing.T) {
	gate := compliantGate()
	model := &fakeModel{
		kycText:  levelText("HIGH", 90),
		txnTexts: []string{suspicionText("LOW", 5)},
		sarText:  "unparseable",
	}
	trail := &fakeTrail{}
	svc, _ := newService(gate, model, trail)

	txns := []domain.Transaction{{TransactionID: "TXN-1", CustomerID: "CUST-001"}}
	report, err := svc.AnalyzeComprehensive(context.Background(), domain.KYCProfile{CustomerID: "CUST-001"}, txns)
	require.NoError(t, err)

	require.True(t, report.SARGenerated)
	require.NotNil(t, report.SARData)
	// the placeholder document is stored and gets a real id on write
	assert.Regexp(t, `^SAR-\d{8}-[A-F0-9]{8}$`, report.SARData.SARID)
	assert.Equal(t, "Error generating SAR", report.SARData.ExecutiveSummary)
}

func TestAnalyzeComprehensiveAuditFailureKeepsReport(t *testing.T) {
	gate := compliantGate()
	model := &fakeModel{kycText: levelText("LOW", 10), txnTexts: []string{suspicionText("LOW", 5)}}
	trail := &fakeTrail{err: errors.New("trail down")}
	svc, _ := newService(gate, model, trail)

	txns := []domain.Transaction{{TransactionID: "TXN-1", CustomerID: "CUST-001"}}
	report, err := svc.AnalyzeComprehensive(context.Background(), domain.KYCProfile{CustomerID: "CUST-001"}, txns)

	var auditErr *domain.AuditWriteError
	require.ErrorAs(t, err, &auditErr)
	require.NotNil(t, report)
	assert.Equal(t, AuditFailed, report.AuditStatus)
}
