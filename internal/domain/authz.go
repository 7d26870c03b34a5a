package domain

import (
	"context"
	"strings"
	"time"
)

// Role is an application role carried in the access token.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleOrganizer Role = "organizer"
	RoleStaff     Role = "staff"
	RoleAttendee  Role = "attendee"
)

// ParseRole normalises s; unknown roles are returned as-is and grant nothing.
func ParseRole(s string) Role {
	return Role(strings.ToLower(strings.TrimSpace(s)))
}

// Feature is a gated capability.
type Feature string

const (
	FeatureManageTickets   Feature = "manage_tickets"
	FeatureViewTickets     Feature = "view_tickets"
	FeatureManageTemplates Feature = "manage_templates"
)

// IsFeatureAllowed reports whether role may use feature.
func IsFeatureAllowed(role Role, feature Feature) bool {
	switch role {
	case RoleAdmin:
		return true
	case RoleOrganizer:
		return feature == FeatureManageTickets || feature == FeatureViewTickets || feature == FeatureManageTemplates
	case RoleStaff:
		return feature == FeatureManageTickets || feature == FeatureViewTickets
	case RoleAttendee:
		return feature == FeatureViewTickets
	}
	return false
}

// Principal is the authenticated caller.
type Principal struct {
	UserID string
	Roles  []Role
}

// Can reports whether any of the principal's roles allows feature.
func (p Principal) Can(feature Feature) bool {
	for _, r := range p.Roles {
		if IsFeatureAllowed(r, feature) {
			return true
		}
	}
	return false
}

type principalKey struct{}

// WithPrincipal returns a context carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal stored by WithPrincipal, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// TokenIssuer issues tokens (e.g. JWT) for a principal.
type TokenIssuer interface {
	Issue(userID string, roles []Role, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated principal.
type TokenVerifier interface {
	Verify(token string) (Principal, error)
}
