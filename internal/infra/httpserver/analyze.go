package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/fintrustai/compliance-copilot/internal/domain/analysis"
	"github.com/fintrustai/compliance-copilot/internal/middleware"
)

type comprehensiveRequest struct {
	KYCProfile   analysis.KYCProfile    `json:"kyc_profile"`
	Transactions []analysis.Transaction `json:"transactions"`
}

func (r *Router) handleAnalyzeKYC(w http.ResponseWriter, req *http.Request) error {
	var profile analysis.KYCProfile
	if err := json.NewDecoder(req.Body).Decode(&profile); err != nil {
		return badRequest(err)
	}
	if err := middleware.ValidateCustomerID(profile.CustomerID); err != nil {
		return badRequest(err)
	}
	if profile.PEPStatus == "" {
		profile.PEPStatus = "No"
	}
	if profile.SanctionsCheck == "" {
		profile.SanctionsCheck = "Clear"
	}

	report, err := r.deps.Analysis.AnalyzeKYC(req.Context(), profile)
	if err != nil {
		var auditErr *analysis.AuditWriteError
		if errors.As(err, &auditErr) && report != nil {
			r.deps.Log.Warn("audit trail write failed", zap.Error(auditErr))
			r.recordReportMetrics(report)
			return writeJSON(w, http.StatusOK, report)
		}
		return err
	}
	r.recordReportMetrics(report)
	return writeJSON(w, http.StatusOK, report)
}

func (r *Router) handleAnalyzeTransaction(w http.ResponseWriter, req *http.Request) error {
	var txn analysis.Transaction
	if err := json.NewDecoder(req.Body).Decode(&txn); err != nil {
		return badRequest(err)
	}
	if err := middleware.ValidateTransactionID(txn.TransactionID); err != nil {
		return badRequest(err)
	}
	if err := middleware.ValidateCustomerID(txn.CustomerID); err != nil {
		return badRequest(err)
	}
	if err := middleware.ValidateAmount(txn.Amount); err != nil {
		return badRequest(err)
	}
	if txn.Currency == "" {
		txn.Currency = "USD"
	}
	if err := middleware.ValidateCurrency(txn.Currency); err != nil {
		return badRequest(err)
	}

	report, err := r.deps.Analysis.AnalyzeTransaction(req.Context(), txn)
	if err != nil {
		var auditErr *analysis.AuditWriteError
		if errors.As(err, &auditErr) && report != nil {
			r.deps.Log.Warn("audit trail write failed", zap.Error(auditErr))
			r.recordReportMetrics(report)
			return writeJSON(w, http.StatusOK, report)
		}
		return err
	}
	r.recordReportMetrics(report)
	return writeJSON(w, http.StatusOK, report)
}

func (r *Router) handleAnalyzeComprehensive(w http.ResponseWriter, req *http.Request) error {
	var body comprehensiveRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest(err)
	}
	if err := middleware.ValidateCustomerID(body.KYCProfile.CustomerID); err != nil {
		return badRequest(err)
	}
	for _, txn := range body.Transactions {
		if err := middleware.ValidateTransactionID(txn.TransactionID); err != nil {
			return badRequest(err)
		}
	}
	if body.KYCProfile.PEPStatus == "" {
		body.KYCProfile.PEPStatus = "No"
	}
	if body.KYCProfile.SanctionsCheck == "" {
		body.KYCProfile.SanctionsCheck = "Clear"
	}

	report, err := r.deps.Analysis.AnalyzeComprehensive(req.Context(), body.KYCProfile, body.Transactions)
	if err != nil {
		var auditErr *analysis.AuditWriteError
		if errors.As(err, &auditErr) && report != nil {
			r.deps.Log.Warn("audit trail write failed", zap.Error(auditErr))
			r.recordComprehensiveMetrics(report)
			return writeJSON(w, http.StatusOK, report)
		}
		return err
	}
	r.recordComprehensiveMetrics(report)
	return writeJSON(w, http.StatusOK, report)
}

func (r *Router) recordReportMetrics(report *analysis.Report) {
	middleware.IncrementAnalyses()
	if report.Degraded() {
		middleware.IncrementDegraded()
	}
}

func (r *Router) recordComprehensiveMetrics(report *analysis.ComprehensiveReport) {
	middleware.IncrementAnalyses()
	if report.Degraded() {
		middleware.IncrementDegraded()
	}
	if report.SARGenerated {
		middleware.IncrementSARs()
	}
}

func (r *Router) handleAnalyzeStatus(w http.ResponseWriter, req *http.Request) error {
	return writeJSON(w, http.StatusOK, map[string]any{
		"service":   r.deps.ServiceName,
		"status":    "operational",
		"model":     r.deps.ModelName,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
