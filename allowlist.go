package authgate

import "strings"

// NormalizeIdentity lower-cases and trims an identity string. Identity
// equality everywhere in the gateway is equality of normalized strings.
func NormalizeIdentity(identity string) string {
	return strings.ToLower(strings.TrimSpace(identity))
}

// Allowlist is the static permitted-identity set. Membership checks are
// deterministic and side-effect free; an identity that was never configured
// simply yields false.
type Allowlist struct {
	identities map[string]struct{}
}

// NewAllowlist builds an [Allowlist] from the configured identities,
// normalizing each entry. Empty entries are dropped.
func NewAllowlist(identities []string) *Allowlist {
	set := make(map[string]struct{}, len(identities))
	for _, id := range identities {
		id = NormalizeIdentity(id)
		if id == "" {
			continue
		}
		set[id] = struct{}{}
	}
	return &Allowlist{identities: set}
}

// Contains reports whether the normalized identity is permitted.
func (a *Allowlist) Contains(identity string) bool {
	if a == nil {
		return false
	}
	_, ok := a.identities[NormalizeIdentity(identity)]
	return ok
}

// Size returns the number of permitted identities.
func (a *Allowlist) Size() int {
	if a == nil {
		return 0
	}
	return len(a.identities)
}
