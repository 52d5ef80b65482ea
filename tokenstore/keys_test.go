package tokenstore_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-session-tokens/tokenstore"
)

func TestTokenKey(t *testing.T) {
	tests := []struct {
		name      string
		kind      string
		qualifier string
		want      string
	}{
		{"access token unscoped", tokenstore.AccessTokenKind, "", "access_token"},
		{"access token scoped", tokenstore.AccessTokenKind, "api1", "access_token::api1"},
		{"refresh token unscoped", tokenstore.RefreshTokenKind, "", "refresh_token"},
		{"refresh token scoped", tokenstore.RefreshTokenKind, "oidc", "refresh_token::oidc"},
		{"expiry unscoped", tokenstore.ExpiresAtKind, "", "expires_at"},
		{"expiry scoped", tokenstore.ExpiresAtKind, "api1", "expires_at::api1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tokenstore.TokenKey(tt.kind, tt.qualifier))
		})
	}
}

func TestStorageKey(t *testing.T) {
	t.Run("adds the stored-token prefix", func(t *testing.T) {
		require.Equal(t, ".Token.access_token", tokenstore.StorageKey(tokenstore.AccessTokenKind, ""))
		require.Equal(t, ".Token.refresh_token::oidc", tokenstore.StorageKey(tokenstore.RefreshTokenKind, "oidc"))
		require.Equal(t, ".Token.expires_at::api1", tokenstore.StorageKey(tokenstore.ExpiresAtKind, "api1"))
	})

	t.Run("read and write paths agree", func(t *testing.T) {
		for _, kind := range []string{tokenstore.AccessTokenKind, tokenstore.RefreshTokenKind, tokenstore.ExpiresAtKind} {
			for _, qualifier := range []string{"", "api1", "scheme::with::separators"} {
				require.Equal(t,
					tokenstore.TokenPrefix+tokenstore.TokenKey(kind, qualifier),
					tokenstore.StorageKey(kind, qualifier))
			}
		}
	})
}

func TestIsTokenKey(t *testing.T) {
	require.True(t, tokenstore.IsTokenKey(".Token.access_token"))
	require.True(t, tokenstore.IsTokenKey(".Token.anything"))
	require.False(t, tokenstore.IsTokenKey(".TokenWithoutDot"))
	require.False(t, tokenstore.IsTokenKey("access_token"))
	require.False(t, tokenstore.IsTokenKey(""))
}
