package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/jaehwan-AI/coloring-web/internal/config"
)

type adminLoginIn struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenOut struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// handleAdminLogin verifies the admin credentials and issues a signed
// access token.
func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var in adminLoginIn
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if in.Username != s.cfg.AdminUsername {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if s.cfg.AdminPasswordHash == "" {
		writeError(w, http.StatusInternalServerError, "Admin password not configured")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(in.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := s.signToken(in.Username)
	if err != nil {
		s.serverError(w, "sign token", err)
		return
	}
	writeJSON(w, http.StatusOK, tokenOut{AccessToken: token, TokenType: "bearer"})
}

// signToken creates an HS256 access token carrying the admin role.
func (s *Server) signToken(subject string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": "admin",
		"exp":  jwt.NewNumericDate(time.Now().Add(config.TokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// requireAdmin guards admin routes with a bearer token check.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			writeError(w, http.StatusUnauthorized, "Missing token")
			return
		}

		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(s.cfg.JWTSecret), nil
		}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		if role, _ := claims["role"].(string); role != "admin" {
			writeError(w, http.StatusForbidden, "Not an admin")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleAdminPing lets the frontend validate a stored token.
func (s *Server) handleAdminPing(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
