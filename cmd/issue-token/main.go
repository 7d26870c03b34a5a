// Command issue-token prints a signed access token for operators and box-office staff.
//
//	issue-token -user 6ba7b810-9dad-41d1-80b4-00c04fd430c8 -roles staff -ttl 12h
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"ticketinventory/config"
	"ticketinventory/internal/adapters/auth"
	"ticketinventory/internal/domain"
)

func main() {
	userID := flag.String("user", "", "subject user id")
	roles := flag.String("roles", string(domain.RoleAttendee), "comma-separated roles (admin, organizer, staff, attendee)")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}

	var parsed []domain.Role
	for _, r := range strings.Split(*roles, ",") {
		if r = strings.TrimSpace(r); r != "" {
			parsed = append(parsed, domain.ParseRole(r))
		}
	}

	token, err := auth.NewJWTIssuer(cfg.JWTSecret).Issue(*userID, parsed, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, "issue token:", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
