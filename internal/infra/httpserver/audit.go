package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	storagedomain "github.com/fintrustai/compliance-copilot/internal/domain/storage"
	"github.com/fintrustai/compliance-copilot/internal/middleware"
)

func queryLimit(req *http.Request) int {
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	return middleware.ValidateLimit(limit)
}

func truncate(items []storagedomain.ObjectSummary, limit int) []storagedomain.ObjectSummary {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}

var reportKinds = map[string]storagedomain.Kind{
	"kyc_analysis":           storagedomain.KindKYCAnalysis,
	"transaction_analysis":   storagedomain.KindTransactionAnalysis,
	"comprehensive_analysis": storagedomain.KindComprehensiveAnalysis,
}

func (r *Router) handleListSARs(w http.ResponseWriter, req *http.Request) error {
	customerID := req.URL.Query().Get("customer_id")
	if customerID != "" {
		if err := middleware.ValidateCustomerID(customerID); err != nil {
			return badRequest(err)
		}
	}

	sars, err := r.deps.Artifacts.List(req.Context(), storagedomain.KindSAR, customerID)
	if err != nil {
		return err
	}
	sars = truncate(sars, queryLimit(req))
	return writeJSON(w, http.StatusOK, envelope(map[string]any{
		"sars":        sars,
		"count":       len(sars),
		"customer_id": customerID,
	}))
}

func (r *Router) handleGetSAR(w http.ResponseWriter, req *http.Request) error {
	sarID := chi.URLParam(req, "sarID")
	if err := middleware.ValidateArtifactID(sarID); err != nil {
		return badRequest(err)
	}
	customerID := req.URL.Query().Get("customer_id")
	if customerID == "" {
		http.Error(w, "customer_id query parameter is required", http.StatusBadRequest)
		return nil
	}
	if err := middleware.ValidateCustomerID(customerID); err != nil {
		return badRequest(err)
	}

	sar, err := r.deps.Artifacts.Get(req.Context(), storagedomain.KindSAR, customerID, sarID)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, envelope(sar))
}

func (r *Router) handleCreateAuditLog(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Action  string         `json:"action"`
		Details map[string]any `json:"details"`
		UserID  string         `json:"user_id"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest(err)
	}
	body.Action = middleware.SanitizeString(body.Action)
	if body.Action == "" {
		http.Error(w, "action is required", http.StatusBadRequest)
		return nil
	}
	if body.Details == nil {
		body.Details = map[string]any{}
	}
	if body.UserID == "" {
		body.UserID = middleware.GetUserFromContext(req.Context())
	}
	if body.UserID == "" {
		body.UserID = "system"
	}

	entry, err := r.deps.Trail.Append(req.Context(), body.Action, body.Details, body.UserID)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, envelope(entry))
}

func (r *Router) handleListReports(w http.ResponseWriter, req *http.Request) error {
	customerID := req.URL.Query().Get("customer_id")
	if customerID != "" {
		if err := middleware.ValidateCustomerID(customerID); err != nil {
			return badRequest(err)
		}
	}

	reportType := req.URL.Query().Get("report_type")
	kinds := reportKinds
	if reportType != "" {
		kind, ok := reportKinds[reportType]
		if !ok {
			http.Error(w, "unknown report_type", http.StatusBadRequest)
			return nil
		}
		kinds = map[string]storagedomain.Kind{reportType: kind}
	}

	limit := queryLimit(req)
	reports := map[string][]storagedomain.ObjectSummary{}
	total := 0
	for name, kind := range kinds {
		listed, err := r.deps.Artifacts.List(req.Context(), kind, customerID)
		if err != nil {
			return err
		}
		listed = truncate(listed, limit)
		reports[name] = listed
		total += len(listed)
	}
	return writeJSON(w, http.StatusOK, envelope(map[string]any{
		"reports":     reports,
		"count":       total,
		"customer_id": customerID,
	}))
}
