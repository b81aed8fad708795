package vanta

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrustai/compliance-copilot/internal/domain/compliance"
)

func newProvider(t *testing.T, controlsBody, findingsBody, statusBody string, failPath string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Path == failPath {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/controls":
			w.Write([]byte(controlsBody))
		case "/risk-findings":
			w.Write([]byte(findingsBody))
		case "/organization/status":
			w.Write([]byte(statusBody))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestLiveGateCheckPosture(t *testing.T) {
	srv := newProvider(t,
		`{"data": [
			{"id": "c1", "status": "passed"}, {"id": "c2", "status": "passed"},
			{"id": "c3", "status": "passed"}, {"id": "c4", "status": "passed"},
			{"id": "c5", "status": "passed"}, {"id": "c6", "status": "passed"},
			{"id": "c7", "status": "passed"}, {"id": "c8", "status": "passed"},
			{"id": "c9", "status": "failed"}, {"id": "c10", "status": "failed"}
		]}`,
		`{"data": [{"id": "f1"}, {"id": "f2"}, {"id": "f3"}]}`,
		`{"overall": "good"}`,
		"",
	)
	defer srv.Close()

	client := NewClient(srv.URL, "id", "secret", "https://cb.example", 0)
	client.SetAccessToken("test-token", "Bearer")

	verdict, err := NewLiveGate(client).CheckPosture(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 65, verdict.ComplianceScore)
	assert.Equal(t, compliance.StatusNeedsAttention, verdict.Status)
	assert.Len(t, verdict.Controls.Data, 10)
	assert.Len(t, verdict.RiskFindings.Data, 3)
	assert.Equal(t, "good", verdict.OrganizationStatus["overall"])
	assert.NotEmpty(t, verdict.Timestamp)
}

func TestLiveGateFailsWhenAnyReadFails(t *testing.T) {
	for _, failPath := range []string{"/controls", "/risk-findings", "/organization/status"} {
		t.Run(failPath, func(t *testing.T) {
			srv := newProvider(t, `{"data": []}`, `{"data": []}`, `{}`, failPath)
			defer srv.Close()

			client := NewClient(srv.URL, "id", "secret", "https://cb.example", 0)
			client.SetAccessToken("test-token", "Bearer")

			verdict, err := NewLiveGate(client).CheckPosture(context.Background())
			assert.Nil(t, verdict)
			assert.ErrorIs(t, err, compliance.ErrProviderUnavailable)
		})
	}
}

func TestClientRequiresToken(t *testing.T) {
	client := NewClient("https://api.vanta.example/v1", "id", "secret", "https://cb.example", 0)
	_, err := client.GetControls(context.Background())
	assert.ErrorIs(t, err, compliance.ErrProviderUnavailable)
}

func TestAuthorizationURL(t *testing.T) {
	client := NewClient("https://api.vanta.example/v1", "client-123", "secret", "https://cb.example/callback", 0)
	url := client.AuthorizationURL("state-abc")
	assert.Contains(t, url, "client_id=client-123")
	assert.Contains(t, url, "state=state-abc")
	assert.Contains(t, url, "redirect_uri=https%3A%2F%2Fcb.example%2Fcallback")
	assert.Contains(t, url, "response_type=code")
}
