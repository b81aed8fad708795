package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fintrustai/compliance-copilot/internal/middleware"
)

// Demo credential table. Replace with a real identity provider before any
// production deployment.
var demoUsers = map[string]struct {
	Password string
	Role     string
	FullName string
}{
	"compliance_officer": {Password: "secure_password_123", Role: "analyst", FullName: "Compliance Officer"},
	"admin":              {Password: "admin_password_456", Role: "admin", FullName: "System Administrator"},
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Role        string `json:"role"`
}

func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) error {
	var body loginRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest(err)
	}

	user, ok := demoUsers[body.Username]
	if !ok || user.Password != body.Password {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return nil
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  body.Username,
		"role": user.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(r.deps.TokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(r.deps.AuthSecret)
	if err != nil {
		return errors.New("failed to sign token")
	}

	return writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: signed,
		TokenType:   "bearer",
		ExpiresIn:   int(r.deps.TokenTTL.Seconds()),
		Role:        user.Role,
	})
}

func (r *Router) handleMe(w http.ResponseWriter, req *http.Request) error {
	username := middleware.GetUserFromContext(req.Context())
	role := middleware.GetRoleFromContext(req.Context())

	fullName := username
	if u, ok := demoUsers[username]; ok {
		fullName = u.FullName
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"username":  username,
		"role":      role,
		"full_name": fullName,
	})
}

func (r *Router) handleLogout(w http.ResponseWriter, req *http.Request) error {
	// Tokens are stateless; the client discards its copy.
	return writeJSON(w, http.StatusOK, map[string]any{
		"message": "Successfully logged out",
	})
}
