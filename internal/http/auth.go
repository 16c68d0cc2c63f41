package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	httpmiddleware "github.com/impactclub/platform/internal/http/middleware"
	"github.com/impactclub/platform/internal/service"
)

const refreshCookieName = "refresh_token"

// SignUp creates a public account and opens its first session.
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		FullName string `json:"full_name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	result, err := h.authService.SignUp(r.Context(), service.SignUpInput{
		FullName: payload.FullName,
		Email:    payload.Email,
		Phone:    payload.Phone,
		Password: payload.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			WriteError(w, http.StatusBadRequest, "Email already registered")
			return
		}
		presentError(w, err)
		return
	}

	h.setRefreshCookie(w, result.RefreshToken, result.RefreshExpiry)
	WriteJSON(w, http.StatusCreated, map[string]any{
		"access_token": result.AccessToken,
		"user":         result.Profile,
	})
}

// Login authenticates by email and password.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if strings.TrimSpace(payload.Email) == "" || payload.Password == "" {
		WriteError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	result, err := h.authService.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		h.handleAuthError(w, err)
		return
	}

	h.writeLoginSuccess(w, result)
}

// Refresh rotates the session from the refresh cookie.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	token, err := refreshFromRequest(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	result, err := h.authService.Refresh(r.Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrRefreshInvalid) || errors.Is(err, service.ErrAccountDisabled) {
			h.clearRefreshCookie(w)
			WriteError(w, http.StatusUnauthorized, "Not authorized")
			return
		}
		presentError(w, err)
		return
	}

	h.writeLoginSuccess(w, result)
}

// Logout revokes the current session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token, _ := refreshFromRequest(r)
	jti := h.accessJTI(r)

	if token != "" || jti != "" {
		if err := h.authService.Logout(r.Context(), token, jti); err != nil {
			presentError(w, err)
			return
		}
	}

	h.clearRefreshCookie(w)
	WriteJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// Me returns the authenticated profile.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	scope := httpmiddleware.GetScope(r.Context())
	if !scope.Authenticated {
		WriteError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	WriteJSON(w, http.StatusOK, h.authService.Me(r.Context(), scope))
}

func (h *Handler) handleAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		WriteError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, service.ErrAccountDisabled):
		WriteError(w, http.StatusForbidden, "Account disabled")
	default:
		presentError(w, err)
	}
}

func (h *Handler) writeLoginSuccess(w http.ResponseWriter, result *service.LoginResult) {
	h.setRefreshCookie(w, result.RefreshToken, result.RefreshExpiry)

	WriteJSON(w, http.StatusOK, map[string]any{
		"access_token": result.AccessToken,
		"user":         result.Profile,
	})
}

func refreshFromRequest(r *http.Request) (string, error) {
	if c, err := r.Cookie(refreshCookieName); err == nil && c.Value != "" {
		return c.Value, nil
	}
	return "", errors.New("refresh token missing")
}

// accessJTI extracts the token id for denylisting on logout. An invalid token
// simply has nothing to revoke.
func (h *Handler) accessJTI(r *http.Request) string {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	claims, err := h.authService.JWT().ParseAndValidate(strings.TrimSpace(parts[1]))
	if err != nil {
		return ""
	}
	return claims.ID
}

func (h *Handler) setRefreshCookie(w http.ResponseWriter, token string, expires time.Time) {
	secure := !h.devCookies
	sameSite := http.SameSiteNoneMode
	if h.devCookies {
		sameSite = http.SameSiteLaxMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
	})
}

func (h *Handler) clearRefreshCookie(w http.ResponseWriter) {
	secure := !h.devCookies
	sameSite := http.SameSiteNoneMode
	if h.devCookies {
		sameSite = http.SameSiteLaxMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
	})
}
