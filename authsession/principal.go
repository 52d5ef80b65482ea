package authsession

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// Standard claim names used when building a Principal from token claims.
const (
	SubjectClaim = "sub"
	NameClaim    = "name"
)

// Principal is the identity attached to an authenticated session.
// Claims carries whatever the authenticating party asserted about the user;
// Subject and Name are lifted out of the claims for convenience.
type Principal struct {
	Subject string
	Name    string
	Claims  jwt.MapClaims
}

// NewPrincipalFromClaims builds a Principal from a set of token claims,
// lifting the "sub" and "name" claims when present.
func NewPrincipalFromClaims(claims jwt.MapClaims) *Principal {
	p := &Principal{Claims: claims}
	if sub, ok := claims[SubjectClaim].(string); ok {
		p.Subject = sub
	}
	if name, ok := claims[NameClaim].(string); ok {
		p.Name = name
	}
	return p
}

// Clone returns a deep copy of the principal.
func (p *Principal) Clone() *Principal {
	if p == nil {
		return nil
	}
	clone := &Principal{Subject: p.Subject, Name: p.Name}
	if p.Claims != nil {
		clone.Claims = make(jwt.MapClaims, len(p.Claims))
		for k, v := range p.Claims {
			clone.Claims[k] = v
		}
	}
	return clone
}

// PrincipalTransformer is invoked on the authenticated principal before a
// session is re-issued. It replaces inheritance-style override points: pass
// a transformer to customise the principal that gets persisted.
type PrincipalTransformer func(ctx context.Context, principal *Principal) (*Principal, error)

// IdentityTransformer returns the principal unchanged.
func IdentityTransformer(_ context.Context, principal *Principal) (*Principal, error) {
	return principal, nil
}
