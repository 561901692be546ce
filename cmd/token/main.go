// Command token mints an access token for local development, since sign-in
// is handled outside this service.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cmlabs-hris/hris-workflow/internal/config"
	"github.com/cmlabs-hris/hris-workflow/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workflow/internal/pkg/jwt"
)

func main() {
	employeeID := flag.String("employee", "", "employee id to put in the token")
	role := flag.String("role", string(employee.RoleEmployee), "employee or hr_admin")
	flag.Parse()

	if *employeeID == "" || !employee.Role(*role).IsValid() {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	token, expiresAt, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration).
		GenerateAccessToken(*employeeID, employee.Role(*role))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error generating token:", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires at %d (unix)\n", expiresAt)
}
