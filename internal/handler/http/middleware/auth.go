package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/cmlabs-hris/hris-workflow/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workflow/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-workflow/internal/pkg/jwt"
)

// AuthRequired rejects requests without a verified access token carrying an
// employee id and a known role. It must run after jwtauth.Verifier.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.Unauthorized(w, "Invalid token")
				return
			}

			tokenType, ok := claims[jwt.ClaimType].(string)
			if tokenType != jwt.TokenTypeAccess || !ok {
				response.Unauthorized(w, "Invalid token")
				return
			}

			employeeID, ok := claims[jwt.ClaimEmployeeID].(string)
			if !ok || employeeID == "" {
				response.Unauthorized(w, "Employee ID not found in token")
				return
			}

			role, ok := claims[jwt.ClaimRole].(string)
			if !ok || !employee.Role(role).IsValid() {
				response.Unauthorized(w, "Role not found in token")
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}

// EmployeeID returns the caller's employee id from verified claims.
func EmployeeID(r *http.Request) string {
	_, claims, _ := jwtauth.FromContext(r.Context())
	if id, ok := claims[jwt.ClaimEmployeeID].(string); ok {
		return id
	}
	return ""
}

// Role returns the caller's role from verified claims.
func Role(r *http.Request) employee.Role {
	_, claims, _ := jwtauth.FromContext(r.Context())
	if role, ok := claims[jwt.ClaimRole].(string); ok {
		return employee.Role(role)
	}
	return ""
}

// IsHRAdmin reports whether the caller holds the hr_admin role.
func IsHRAdmin(r *http.Request) bool {
	return Role(r) == employee.RoleHRAdmin
}
