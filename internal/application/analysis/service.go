package analysis

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fintrustai/compliance-copilot/internal/application"
	"github.com/fintrustai/compliance-copilot/internal/domain/ai"
	domain "github.com/fintrustai/compliance-copilot/internal/domain/analysis"
	"github.com/fintrustai/compliance-copilot/internal/domain/audit"
	"github.com/fintrustai/compliance-copilot/internal/domain/compliance"
	"github.com/fintrustai/compliance-copilot/internal/domain/storage"
)

// Pipeline stage names carried by StageError.
const (
	StageComplianceCheck = "compliance_check"
	StageModelInvocation = "model_invocation"
	StageSARGeneration   = "sar_generation"
	StageArtifactWrite   = "artifact_write"
)

// Audit outcome values reported on completed results.
const (
	AuditRecorded = "recorded"
	AuditFailed   = "failed"
)

// Service orchestrates one analysis request: gate, prompt, invoke, coerce,
// conditional SAR escalation, persistence, audit. Steps run strictly
// sequentially; each later step depends on the prior step's output. Safe for
// concurrent use, no shared mutable state.
type Service struct {
	Gate      compliance.Gate
	Model     ai.Client
	Artifacts storage.ArtifactStore
	Audit     audit.Trail
	Clock     application.Clock
	Log       *zap.Logger
}

// AnalyzeKYC runs the full pipeline for one KYC profile.
func (s *Service) AnalyzeKYC(ctx context.Context, req domain.KYCProfile) (*domain.Report, error) {
	verdict, err := s.Gate.CheckPosture(ctx)
	if err != nil {
		return nil, &domain.StageError{Stage: StageComplianceCheck, Err: err}
	}

	raw, err := s.Model.AnalyzeKYC(ctx, req)
	if err != nil {
		return nil, &domain.StageError{Stage: StageModelInvocation, Err: err}
	}
	result := domain.CoerceResult(raw)

	now := s.Clock.Now()
	report := assembleReport(fmt.Sprintf("KYC-%s-%s", now.Format("20060102"), req.CustomerID), result, now, verdict.Status)

	if _, err := s.Artifacts.Put(ctx, storage.KindKYCAnalysis, req.CustomerID, result); err != nil {
		return nil, &domain.StageError{Stage: StageArtifactWrite, Err: err}
	}

	s.Log.Info("kyc analysis completed",
		zap.String("customer_id", req.CustomerID),
		zap.String("risk_level", string(result.RiskLevel)),
		zap.Int("risk_score", result.RiskScore),
	)

	return s.withAudit(ctx, report, "kyc_analysis", map[string]any{
		"customer_id": req.CustomerID,
		"risk_level":  string(result.RiskLevel),
		"risk_score":  result.RiskScore,
	})
}

// AnalyzeTransaction runs the full pipeline for one transaction.
func (s *Service) AnalyzeTransaction(ctx context.Context, req domain.Transaction) (*domain.Report, error) {
	verdict, err := s.Gate.CheckPosture(ctx)
	if err != nil {
		return nil, &domain.StageError{Stage: StageComplianceCheck, Err: err}
	}

	raw, err := s.Model.AnalyzeTransaction(ctx, req)
	if err != nil {
		return nil, &domain.StageError{Stage: StageModelInvocation, Err: err}
	}
	result := domain.CoerceResult(raw)

	now := s.Clock.Now()
	report := assembleReport(fmt.Sprintf("TXN-%s-%s", now.Format("20060102"), req.TransactionID), result, now, verdict.Status)

	if _, err := s.Artifacts.Put(ctx, storage.KindTransactionAnalysis, req.CustomerID, result); err != nil {
		return nil, &domain.StageError{Stage: StageArtifactWrite, Err: err}
	}

	s.Log.Info("transaction analysis completed",
		zap.String("transaction_id", req.TransactionID),
		zap.String("customer_id", req.CustomerID),
		zap.String("suspicion_level", string(result.RiskLevel)),
		zap.Int("suspicion_score", result.RiskScore),
	)

	return s.withAudit(ctx, report, "transaction_analysis", map[string]any{
		"transaction_id":  req.TransactionID,
		"customer_id":     req.CustomerID,
		"suspicion_level": string(result.RiskLevel),
		"suspicion_score": result.RiskScore,
	})
}

// AnalyzeComprehensive runs one KYC analysis and N transaction analyses in
// input order, escalates to a SAR when the KYC result or any transaction
// result is HIGH, and reports the precedence-ordered overall level.
func (s *Service) AnalyzeComprehensive(ctx context.Context, kyc domain.KYCProfile, txns []domain.Transaction) (*domain.ComprehensiveReport, error) {
	verdict, err := s.Gate.CheckPosture(ctx)
	if err != nil {
		return nil, &domain.StageError{Stage: StageComplianceCheck, Err: err}
	}

	kycRaw, err := s.Model.AnalyzeKYC(ctx, kyc)
	if err != nil {
		return nil, &domain.StageError{Stage: StageModelInvocation, Err: err}
	}
	kycResult := domain.CoerceResult(kycRaw)

	txnResults := make([]domain.Result, 0, len(txns))
	for _, txn := range txns {
		raw, err := s.Model.AnalyzeTransaction(ctx, txn)
		if err != nil {
			return nil, &domain.StageError{Stage: StageModelInvocation, Err: err}
		}
		txnResults = append(txnResults, domain.CoerceResult(raw))
	}

	var sarDoc *domain.SARDocument
	if shouldEscalate(kycResult, txnResults) {
		bundle := domain.SARBundle{
			KYCAnalysis:         kycResult,
			TransactionAnalyses: txnResults,
			CustomerID:          kyc.CustomerID,
		}
		sarRaw, err := s.Model.GenerateSAR(ctx, bundle)
		if err != nil {
			return nil, &domain.StageError{Stage: StageSARGeneration, Err: err}
		}
		doc := domain.CoerceSAR(sarRaw)

		stored, err := s.Artifacts.Put(ctx, storage.KindSAR, kyc.CustomerID, doc)
		if err != nil {
			return nil, &domain.StageError{Stage: StageArtifactWrite, Err: err}
		}
		// the durable identifier is assigned at persistence time
		doc.SARID = stored.ArtifactID
		doc.CreatedAt = stored.CreatedAt
		doc.CustomerID = kyc.CustomerID
		sarDoc = &doc

		s.Log.Info("sar generated",
			zap.String("customer_id", kyc.CustomerID),
			zap.String("sar_id", stored.ArtifactID),
		)
	}

	now := s.Clock.Now()
	report := &domain.ComprehensiveReport{
		AnalysisID:          fmt.Sprintf("COMP-%s-%s", now.Format("20060102"), kyc.CustomerID),
		CustomerID:          kyc.CustomerID,
		KYCAnalysis:         kycResult,
		TransactionAnalyses: txnResults,
		SARGenerated:        sarDoc != nil,
		SARData:             sarDoc,
		ComplianceStatus:    verdict.Status,
		OverallRiskLevel:    overallLevel(sarDoc != nil, txnResults),
		Timestamp:           now.Format(time.RFC3339),
	}

	if _, err := s.Artifacts.Put(ctx, storage.KindComprehensiveAnalysis, kyc.CustomerID, report); err != nil {
		return nil, &domain.StageError{Stage: StageArtifactWrite, Err: err}
	}

	s.Log.Info("comprehensive analysis completed",
		zap.String("customer_id", kyc.CustomerID),
		zap.Bool("sar_generated", report.SARGenerated),
		zap.String("overall_risk_level", string(report.OverallRiskLevel)),
	)

	report.AuditStatus = AuditRecorded
	if _, err := s.Audit.Append(ctx, "comprehensive_analysis", map[string]any{
		"customer_id":        kyc.CustomerID,
		"sar_generated":      report.SARGenerated,
		"overall_risk_level": string(report.OverallRiskLevel),
	}, "system"); err != nil {
		report.AuditStatus = AuditFailed
		return report, &domain.AuditWriteError{Err: err}
	}
	return report, nil
}

// withAudit appends the audit entry after the result is returned-ready. A
// failed audit write never masks the completed analysis; it is reported
// alongside it.
func (s *Service) withAudit(ctx context.Context, report *domain.Report, action string, details map[string]any) (*domain.Report, error) {
	report.AuditStatus = AuditRecorded
	if _, err := s.Audit.Append(ctx, action, details, "system"); err != nil {
		s.Log.Error("audit write failed", zap.String("action", action), zap.Error(err))
		report.AuditStatus = AuditFailed
		return report, &domain.AuditWriteError{Err: err}
	}
	return report, nil
}

func assembleReport(id string, result domain.Result, now time.Time, complianceStatus string) *domain.Report {
	return &domain.Report{
		AnalysisID:       id,
		RiskLevel:        result.RiskLevel,
		RiskScore:        result.RiskScore,
		RiskFactors:      result.RiskFactors,
		Recommendations:  result.Recommendations,
		ComplianceNotes:  result.ComplianceNotes,
		AnalysisSummary:  result.AnalysisSummary,
		Timestamp:        now.Format(time.RFC3339),
		ComplianceStatus: complianceStatus,
	}
}

// shouldEscalate: SAR iff the KYC result is HIGH or any transaction result
// is HIGH.
func shouldEscalate(kyc domain.Result, txns []domain.Result) bool {
	if kyc.RiskLevel == domain.RiskHigh {
		return true
	}
	for _, t := range txns {
		if t.RiskLevel == domain.RiskHigh {
			return true
		}
	}
	return false
}

// overallLevel: HIGH if a SAR was generated, else MEDIUM if any transaction
// result is MEDIUM, else LOW. The evaluation order is contractual.
func overallLevel(sarGenerated bool, txns []domain.Result) domain.RiskLevel {
	if sarGenerated {
		return domain.RiskHigh
	}
	for _, t := range txns {
		if t.RiskLevel == domain.RiskMedium {
			return domain.RiskMedium
		}
	}
	return domain.RiskLow
}
