package v1

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/zeroverload/SmartLib/internal/api/auth"
	"github.com/zeroverload/SmartLib/internal/http/request"
	"github.com/zeroverload/SmartLib/internal/http/response"
	"github.com/zeroverload/SmartLib/internal/log"
	"github.com/zeroverload/SmartLib/internal/model"
	"github.com/zeroverload/SmartLib/internal/validator"
)

type signInResponse struct {
	AccessToken string      `json:"access_token"`
	ExpiresAt   *time.Time  `json:"expires_at,omitempty"`
	User        *model.User `json:"user"`
}

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request) {
	var signin model.UserSigninRequest
	if err := decodeBody(r, &signin); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	if err := validator.ValidateSigninRequest(&signin); err != nil {
		response.BadRequest(w, r, err)
		return
	}

	user, err := h.svc.Authenticate(r.Context(), signin.Username, signin.Password, signin.Role)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var expireTime time.Time
	if !signin.NeverExpire {
		expireTime = time.Now().Add(h.tokenDuration)
	}
	accessToken, err := auth.GenerateAccessToken(user.Username, user.ID, expireTime, []byte(h.secret))
	if err != nil {
		log.Error("Failed to generate access token", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	w.Header().Add("Set-Cookie", buildAccessTokenCookie(accessToken, expireTime, r.Header.Get("Origin")))
	log.Info("User signed in", zap.Int32("user_id", user.ID), zap.String("client_ip", request.FindClientIP(r)))

	resp := &signInResponse{AccessToken: accessToken, User: response.UserResponse(user)}
	if !expireTime.IsZero() {
		resp.ExpiresAt = &expireTime
	}
	response.OK(w, r, resp)
}

func (h *Handler) signOut(w http.ResponseWriter, r *http.Request) {
	// Expire the cookie right away.
	w.Header().Add("Set-Cookie", buildAccessTokenCookie("", time.Unix(0, 0), r.Header.Get("Origin")))
	response.NoContent(w, r)
}

// buildAccessTokenCookie returns a Set-Cookie value. A zero expireTime makes a
// cookie for the browser session.
func buildAccessTokenCookie(accessToken string, expireTime time.Time, origin string) string {
	attrs := []string{
		fmt.Sprintf("%s=%s", auth.AccessTokenCookieName, accessToken),
		"Path=/",
		"HttpOnly",
	}
	if !expireTime.IsZero() {
		attrs = append(attrs, "Expires="+expireTime.UTC().Format(http.TimeFormat))
	}

	if strings.HasPrefix(origin, "https://") {
		attrs = append(attrs, "Secure")
		attrs = append(attrs, "SameSite=None")
	} else {
		attrs = append(attrs, "SameSite=Lax")
	}
	return strings.Join(attrs, "; ")
}
