package tokenstore

import (
	"time"

	"golang.org/x/oauth2"
)

// TokenRecord holds the token values read from a session's property bag. It
// is assembled fresh on every read and never cached; zero values mean the
// corresponding bag entry was absent.
type TokenRecord struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// HasAccessToken reports whether an access token was present in the bag.
func (r *TokenRecord) HasAccessToken() bool {
	return r.AccessToken != ""
}

// HasRefreshToken reports whether a refresh token was present in the bag.
func (r *TokenRecord) HasRefreshToken() bool {
	return r.RefreshToken != ""
}

// OAuth2Token converts the record into an *oauth2.Token for use with the
// golang.org/x/oauth2 client machinery.
func (r *TokenRecord) OAuth2Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		Expiry:       r.ExpiresAt,
		TokenType:    "Bearer",
	}
}
