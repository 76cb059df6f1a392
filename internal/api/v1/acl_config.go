package v1

import "strings"

var authenticationAllowlist = map[string]bool{
	"/api/v1/signin":       true,
	"/api/v1/signout":      true,
	"/api/v1/announcement": true,
}

// isUnauthorizeAllowed returns whether the method is exempted from authentication.
// Support the wildcard character *.
func isUnauthorizeAllowed(fullMethodName string) bool {
	return matchPattern(authenticationAllowlist, fullMethodName)
}

var allowedPathOnlyForAdmin = map[string]bool{
	"/api/v1/settings":  true,
	"/api/v1/users":     true,
	"/api/v1/users/*":   true,
	"/api/v1/dashboard": true,
}

// Catalog writes are admin only, reads are open to every reader.
var allowedMethodOnlyForAdmin = map[string]bool{
	"POST /api/v1/books":  true,
	"PUT /api/v1/books/*": true,
}

// isOnlyForAdminAllowedPath returns true if the method is allowed to be called only by admin.
func isOnlyForAdminAllowedPath(method, path string) bool {
	return matchPattern(allowedPathOnlyForAdmin, path) ||
		matchPattern(allowedMethodOnlyForAdmin, method+" "+path)
}

func matchPattern(patterns map[string]bool, name string) bool {
	for k := range patterns {
		if strings.HasSuffix(k, "*") {
			if strings.HasPrefix(name, strings.TrimSuffix(k, "*")) {
				return true
			}
		}
	}

	return patterns[name]
}
