package tokenstore

// Parameters scope a token lookup or store operation. The zero value selects
// the session manager's default scheme with unscoped token keys.
type Parameters struct {
	// SignInScheme names the authentication scheme whose session holds the
	// tokens. Empty means the session manager's default scheme.
	SignInScheme string

	// Resource scopes the access token and its expiry to a downstream
	// API/audience. Empty means the unscoped entries.
	Resource string

	// ChallengeScheme scopes the refresh token when multiple authentication
	// flows share one session. Independent of Resource: a lookup can be
	// resource-scoped for its access token and unscoped for its refresh
	// token, and vice versa.
	ChallengeScheme string
}

func (p *Parameters) orDefaults() *Parameters {
	if p == nil {
		return &Parameters{}
	}
	return p
}
