package v1

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/zeroverload/SmartLib/internal/api/auth"
	"github.com/zeroverload/SmartLib/internal/http/request"
	"github.com/zeroverload/SmartLib/internal/http/response"
	"github.com/zeroverload/SmartLib/internal/library"
	"github.com/zeroverload/SmartLib/internal/log"
)

type AuthInterceptor struct {
	svc    *library.Service
	secret string
}

func NewAuthInterceptor(svc *library.Service, secret string) *AuthInterceptor {
	return &AuthInterceptor{svc: svc, secret: secret}
}

func (m *AuthInterceptor) AuthenticationInterceptor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isUnauthorizeAllowed(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		clientIP := request.FindClientIP(r)

		userID, err := auth.ParseAccessToken(getAccessToken(r), []byte(m.secret))
		if err != nil {
			log.Debug("Failed to authenticate user",
				zap.String("client_ip", clientIP),
				zap.String("user_agent", r.UserAgent()),
				zap.Error(err),
			)
			response.Unauthorized(w, r, nil)
			return
		}

		user, err := m.svc.ActiveUser(r.Context(), userID)
		if err != nil {
			if errors.Is(err, library.ErrUserIneligible) {
				log.Debug("Token user is not active",
					zap.String("client_ip", clientIP),
					zap.Int32("user_id", userID),
					zap.Error(err),
				)
				response.Unauthorized(w, r, nil)
				return
			}
			response.ServerError(w, r, err)
			return
		}
		if isOnlyForAdminAllowedPath(r.Method, r.URL.Path) && !user.IsAdmin() {
			response.Forbidden(w, r, errors.New("only admins may access this resource"))
			return
		}

		ctx := r.Context()
		ctx = context.WithValue(ctx, request.UserIDContextKey, user.ID)
		ctx = context.WithValue(ctx, request.UserNameContextKey, user.Username)
		ctx = context.WithValue(ctx, request.UserRolesContextKey, user.Role.String())
		ctx = context.WithValue(ctx, request.IsAuthenticatedContextKey, true)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func getAccessToken(r *http.Request) string {
	// Check the HTTP Authorization header first
	authorizationHeaders := r.Header.Get("Authorization")
	// Check bearer token
	if authorizationHeaders != "" {
		splitToken := strings.Split(authorizationHeaders, "Bearer ")
		if len(splitToken) == 2 {
			return splitToken[1]
		}
	}

	// Check the cookie header
	if cookie, err := r.Cookie(auth.AccessTokenCookieName); err == nil {
		return cookie.Value
	}
	return ""
}
