package request // import "github.com/zeroverload/SmartLib/internal/http/request"

import (
	"net/http"

	"github.com/zeroverload/SmartLib/internal/model"
)

type ContextKey int

const (
	ClientIPContextKey ContextKey = iota
	UserIDContextKey
	UserNameContextKey
	UserRolesContextKey
	IsAuthenticatedContextKey
)

func getContextStringValue(r *http.Request, key ContextKey) string {
	if v := r.Context().Value(key); v != nil {
		if value, valid := v.(string); valid {
			return value
		}
	}
	return ""
}

func getContextInt32Value(r *http.Request, key ContextKey) int32 {
	if v := r.Context().Value(key); v != nil {
		if value, valid := v.(int32); valid {
			return value
		}
	}
	return 0
}

func getContextBoolValue(r *http.Request, key ContextKey) bool {
	if v := r.Context().Value(key); v != nil {
		if value, valid := v.(bool); valid {
			return value
		}
	}
	return false
}

// ClientIP returns the client IP address stored in the context.
func ClientIP(r *http.Request) string {
	return getContextStringValue(r, ClientIPContextKey)
}

// GetUserID returns the signed-in user, zero when the request is anonymous.
func GetUserID(r *http.Request) int32 {
	return getContextInt32Value(r, UserIDContextKey)
}

func GetUsername(r *http.Request) string {
	return getContextStringValue(r, UserNameContextKey)
}

func GetUserRole(r *http.Request) model.Role {
	return model.Role(getContextStringValue(r, UserRolesContextKey))
}

func IsAdmin(r *http.Request) bool {
	return GetUserRole(r) == model.RoleAdmin
}

func IsAuthenticated(r *http.Request) bool {
	return getContextBoolValue(r, IsAuthenticatedContextKey)
}
