package httputil

import (
	"errors"
	"net/http"
	"time"
)

const GuestCookieName = "guest_token"

func SetGuestCookie(w http.ResponseWriter, token string, ttl time.Duration, production bool) {
	cookie := &http.Cookie{
		Name:     GuestCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   production, // Only require HTTPS in production
	}

	// SameSite=None requires Secure=true, so use Lax for development
	if production {
		cookie.SameSite = http.SameSiteNoneMode
	} else {
		cookie.SameSite = http.SameSiteLaxMode
	}

	http.SetCookie(w, cookie)
}

func ClearGuestCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     GuestCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// GetTokenFromCookie extracts the guest token from its cookie
func GetTokenFromCookie(r *http.Request) (string, error) {
	cookie, err := r.Cookie(GuestCookieName)
	if err != nil {
		return "", errors.New("guest cookie not found")
	}

	if cookie.Value == "" {
		return "", errors.New("guest cookie is empty")
	}

	return cookie.Value, nil
}

func GetTokenFromRequest(r *http.Request) (string, error) {
	token, err := GetTokenFromCookie(r)
	if err == nil && token != "" {
		return token, nil
	}

	// Fallback to Authorization header (for WebSocket upgrade compatibility)
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			return authHeader[7:], nil
		}
		return authHeader, nil
	}

	return "", errors.New("no guest token found in cookie or header")
}
