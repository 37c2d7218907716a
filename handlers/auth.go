package handlers

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/rizopoulos/portfoliobackend/config"
	"github.com/rizopoulos/portfoliobackend/models"
	"github.com/rizopoulos/portfoliobackend/repository"
)

// AuthHandler implements the admin login/logout/status endpoints. There is a
// single shared-secret credential; the configured password is bcrypt-hashed
// once at startup so plaintext never sits in memory longer than load time.
type AuthHandler struct {
	Sessions     repository.SessionRepositoryInterface
	Cfg          config.Config
	passwordHash []byte
}

func NewAuthHandler(sessions repository.SessionRepositoryInterface, cfg config.Config) (*AuthHandler, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}
	return &AuthHandler{Sessions: sessions, Cfg: cfg, passwordHash: hash}, nil
}

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func generateSessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func (h *AuthHandler) checkCredentials(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(h.Cfg.AdminUsername)) == 1
	passOK := bcrypt.CompareHashAndPassword(h.passwordHash, []byte(password)) == nil
	return userOK && passOK
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload loginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	if !h.checkCredentials(payload.Username, payload.Password) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid username or password"})
		return
	}

	token, err := generateSessionToken()
	if err != nil {
		log.Printf("Error generating session token: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to create session"})
		return
	}

	ttl := time.Duration(h.Cfg.SessionTTLHours) * time.Hour
	session := &models.Session{
		Token:     token,
		Username:  payload.Username,
		ExpiresAt: time.Now().Add(ttl).Unix(),
	}
	if err := h.Sessions.Create(session); err != nil {
		log.Printf("Error persisting session: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to create session"})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": "Login successful", "username": payload.Username})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.Sessions.Delete(cookie.Value); err != nil {
			log.Printf("Error deleting session: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to log out"})
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		writeJSON(w, http.StatusOK, map[string]interface{}{"isAuthenticated": false})
		return
	}

	session, err := h.Sessions.GetValid(cookie.Value, time.Now().Unix())
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"isAuthenticated": false})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"isAuthenticated": true,
		"username":        session.Username,
	})
}
