package tokenstore

import "strings"

// TokenPrefix is prepended to every key the store owns inside a session's
// property bag. Entries outside this prefix are never read or touched.
const TokenPrefix = ".Token."

// Logical token kinds persisted in the bag.
const (
	AccessTokenKind  = "access_token"
	RefreshTokenKind = "refresh_token"
	ExpiresAtKind    = "expires_at"
)

// qualifierSeparator joins a kind with its scoping qualifier, e.g.
// "access_token::my-api".
const qualifierSeparator = "::"

// TokenKey returns the bare key suffix for a kind, scoped by qualifier when
// the qualifier is non-empty. The write path stores values under
// TokenPrefix+TokenKey(...); the read path must compute the identical key via
// StorageKey or round trips break.
func TokenKey(kind, qualifier string) string {
	if qualifier == "" {
		return kind
	}
	return kind + qualifierSeparator + qualifier
}

// StorageKey returns the full property-bag key for a kind and qualifier.
func StorageKey(kind, qualifier string) string {
	return TokenPrefix + TokenKey(kind, qualifier)
}

// IsTokenKey reports whether a property-bag key belongs to the store.
func IsTokenKey(key string) bool {
	return strings.HasPrefix(key, TokenPrefix)
}
