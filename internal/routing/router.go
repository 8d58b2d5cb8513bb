// Package routing decides dashboard redirects from a resolved identity.
//
// These checks are navigation convenience, not a security boundary: a decode
// failure produces the zero identity and the router then does nothing. Real
// authorization happens server-side on every API request.
package routing

import (
	"strings"

	"wisatara.id/internal/session"
)

const (
	// AuthPrefix covers login/register/verify pages, which are exempt from
	// every check.
	AuthPrefix = "/auth"

	// DashboardPrefix is the admin-facing route root; PartnerPrefix is the
	// parallel partner-facing root.
	DashboardPrefix = "/dashboard"
	PartnerPrefix   = "/dashboard/partner"

	// OnboardingChoicePath is where partners without an organization are
	// sent to create or join one.
	OnboardingChoicePath = "/dashboard/partner/organization/choice"
)

// Decide evaluates the redirect rules for the current path. It returns the
// target path and true when a redirect must happen, or "" and false otherwise.
//
// Decide runs on every path change and is safe to re-evaluate: each rule's
// condition no longer holds once its own redirect has been followed, so no
// rule can loop.
func Decide(path string, id session.Identity) (string, bool) {
	if strings.HasPrefix(path, AuthPrefix) {
		return "", false
	}

	// Fail open: a missing or undecodable token yields the zero identity,
	// and the router must not trap those sessions in a redirect.
	if id.IsZero() {
		return "", false
	}

	// Partners without an organization land on onboarding instead of the
	// partner home. Only the exact home path triggers this; the onboarding
	// pages themselves must stay reachable.
	if !id.IsAdmin && !id.HasOrganization() && isPartnerHome(path) {
		return OnboardingChoicePath, true
	}

	// Non-admins visiting an admin-prefixed dashboard path are moved to the
	// partner-prefixed equivalent.
	if !id.IsAdmin && isAdminPath(path) {
		return PartnerPrefix + strings.TrimPrefix(path, DashboardPrefix), true
	}

	return "", false
}

// BasePrefix returns the dashboard root for the identity, letting one route
// table serve both consoles instead of duplicating every page twice.
func BasePrefix(id session.Identity) string {
	if id.IsAdmin {
		return DashboardPrefix
	}
	return PartnerPrefix
}

// isPartnerHome matches the partner dashboard home, with or without a
// trailing slash.
func isPartnerHome(path string) bool {
	return path == PartnerPrefix || path == PartnerPrefix+"/"
}

// isAdminPath reports whether path sits under the dashboard root but outside
// the partner subtree.
func isAdminPath(path string) bool {
	if !strings.HasPrefix(path, DashboardPrefix) {
		return false
	}
	if path == PartnerPrefix || strings.HasPrefix(path, PartnerPrefix+"/") {
		return false
	}
	return true
}
