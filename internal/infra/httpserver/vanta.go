package httpserver

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fintrustai/compliance-copilot/internal/domain/compliance"
	"github.com/fintrustai/compliance-copilot/internal/infra/vanta"
)

func newState() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func (r *Router) handleVantaAuthorize(w http.ResponseWriter, req *http.Request) error {
	state, err := newState()
	if err != nil {
		return err
	}
	if err := r.deps.States.Put(req.Context(), state); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"authorization_url": r.deps.Vanta.AuthorizationURL(state),
		"state":             state,
		"message":           "Visit the authorization URL to grant access",
	})
}

func (r *Router) handleVantaCallback(w http.ResponseWriter, req *http.Request) error {
	code := req.URL.Query().Get("code")
	state := req.URL.Query().Get("state")
	if code == "" || state == "" {
		http.Error(w, "missing code or state parameter", http.StatusBadRequest)
		return nil
	}

	ok, err := r.deps.States.Consume(req.Context(), state)
	if err != nil {
		return err
	}
	if !ok {
		http.Error(w, "invalid or expired state parameter", http.StatusBadRequest)
		return nil
	}

	token, err := r.deps.Vanta.ExchangeCode(req.Context(), code)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"message":    "Authorization successful",
		"token_type": token.TokenType,
		"expires_in": token.ExpiresIn,
		"scope":      token.Scope,
	})
}

func (r *Router) handleVantaSetToken(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest(err)
	}
	if body.AccessToken == "" {
		http.Error(w, "access_token is required", http.StatusBadRequest)
		return nil
	}
	if body.TokenType == "" {
		body.TokenType = "Bearer"
	}
	r.deps.Vanta.SetAccessToken(body.AccessToken, body.TokenType)
	return writeJSON(w, http.StatusOK, map[string]any{"message": "Access token configured"})
}

func (r *Router) handleVantaControls(w http.ResponseWriter, req *http.Request) error {
	page, err := r.deps.Vanta.GetControls(req.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, envelope(page))
}

func (r *Router) handleVantaRisks(w http.ResponseWriter, req *http.Request) error {
	page, err := r.deps.Vanta.GetRiskFindings(req.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, envelope(page))
}

func (r *Router) handleVantaEvidence(w http.ResponseWriter, req *http.Request) error {
	controlID := chi.URLParam(req, "controlID")
	if controlID == "" {
		http.Error(w, "control id is required", http.StatusBadRequest)
		return nil
	}
	evidence, err := r.deps.Vanta.GetEvidence(req.Context(), controlID)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, envelope(evidence))
}

func (r *Router) handleVantaOrgStatus(w http.ResponseWriter, req *http.Request) error {
	status, err := r.deps.Vanta.GetOrganizationStatus(req.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, envelope(status))
}

func (r *Router) handleVantaPosture(w http.ResponseWriter, req *http.Request) error {
	verdict, err := vanta.NewLiveGate(r.deps.Vanta).CheckPosture(req.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, envelope(verdict))
}

func (r *Router) handleVantaSummary(w http.ResponseWriter, req *http.Request) error {
	verdict, err := vanta.NewLiveGate(r.deps.Vanta).CheckPosture(req.Context())
	if err != nil {
		return err
	}

	passed := 0
	for _, c := range verdict.Controls.Data {
		if c.Status == compliance.ControlStatusPassed {
			passed++
		}
	}
	return writeJSON(w, http.StatusOK, envelope(map[string]any{
		"compliance_score":    verdict.ComplianceScore,
		"status":              verdict.Status,
		"total_controls":      len(verdict.Controls.Data),
		"passed_controls":     passed,
		"risk_findings_count": len(verdict.RiskFindings.Data),
		"organization_status": verdict.OrganizationStatus,
		"last_updated":        time.Now().Format(time.RFC3339),
	}))
}
