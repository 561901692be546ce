package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/hris-workflow/internal/handler/http/response"
)

// RequireHRAdmin requires the hr_admin role
func RequireHRAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsHRAdmin(r) {
			response.Forbidden(w, "HR admin access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
