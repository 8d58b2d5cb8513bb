package session

import (
	"encoding/base64"
	"encoding/json"
	"strings"
)

// Identity is the canonical shape every consumer reads. Token payloads in the
// wild carry several aliases per field; DecodeIdentity normalizes them once so
// callers never re-derive aliases themselves.
type Identity struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Role             string `json:"role"`
	IsAdmin          bool   `json:"is_admin"`
	OrganizationID   string `json:"organization_id"`
	OrganizationName string `json:"organization_name"`
}

// IsZero reports whether the identity carries no claims at all.
func (id Identity) IsZero() bool {
	return id == Identity{}
}

// HasOrganization reports whether the user belongs to an organization.
// Whitespace-only identifiers count as absent.
func (id Identity) HasOrganization() bool {
	return strings.TrimSpace(id.OrganizationID) != ""
}

// DecodeIdentity derives an Identity from a raw bearer token without verifying
// its signature. The token is only trusted for display and navigation hints;
// the API re-checks authorization on every request.
//
// Any failure (missing payload segment, bad base64, bad JSON) yields the zero
// Identity. This function never returns an error: an exception escaping here
// would break navigation on every page, so decode failures are swallowed.
func DecodeIdentity(token string) Identity {
	payload, ok := decodePayload(token)
	if !ok {
		return Identity{}
	}

	var id Identity
	id.Name = firstString(payload, "name", "username", "fullname")
	id.Email = firstString(payload, "email")
	id.Role = firstString(payload, "role", "user_role")
	if id.Role == "" {
		id.Role = "user"
	}
	id.IsAdmin = firstBool(payload, "is_admin", "isAdmin")
	id.OrganizationID = firstString(payload, "organization_id", "org_id", "organizationId")
	id.OrganizationName = firstString(payload, "organization_name", "org_name", "organizationName", "orgName")
	return id
}

// decodePayload extracts and parses the middle segment of a compact token.
func decodePayload(token string) (map[string]any, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, false
	}
	segments := strings.Split(token, ".")
	if len(segments) < 2 || segments[1] == "" {
		return nil, false
	}

	// Tokens use the URL-safe alphabet without padding; standard decoders
	// want the classic alphabet padded to a multiple of four.
	seg := strings.ReplaceAll(segments[1], "-", "+")
	seg = strings.ReplaceAll(seg, "_", "/")
	if rem := len(seg) % 4; rem != 0 {
		seg += strings.Repeat("=", 4-rem)
	}

	raw, err := base64.StdEncoding.DecodeString(seg)
	if err != nil {
		return nil, false
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, false
	}
	return payload, true
}

// firstString returns the first key whose value is a non-empty string.
// First-non-nullish-wins: a key that is present but null or empty does not
// stop the scan.
func firstString(payload map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := payload[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// firstBool returns the first key holding a usable boolean. JSON decoders may
// surface booleans as bool or as the strings "true"/"false" depending on the
// issuer; both are accepted.
func firstBool(payload map[string]any, keys ...string) bool {
	for _, key := range keys {
		switch v := payload[key].(type) {
		case bool:
			return v
		case string:
			if v == "true" {
				return true
			}
			if v == "false" {
				return false
			}
		}
	}
	return false
}
