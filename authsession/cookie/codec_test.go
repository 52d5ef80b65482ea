package cookie_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-session-tokens/authsession"
	"github.com/jrsteele09/go-session-tokens/authsession/cookie"
)

func newTestTicket() *cookie.Ticket {
	properties := authsession.NewProperties()
	properties.Set(".Token.access_token", "at1")

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	return &cookie.Ticket{
		ID:         "ticket-1",
		Scheme:     "cookie",
		Principal:  &authsession.Principal{Subject: "user-1", Name: "John Doe"},
		Properties: properties,
		IssuedAt:   now,
		ExpiresAt:  now.Add(time.Hour),
	}
}

func TestNewCodec(t *testing.T) {
	t.Run("requires a secret", func(t *testing.T) {
		_, err := cookie.NewCodec(nil)
		require.Error(t, err)
	})

	t.Run("accepts any non-empty secret", func(t *testing.T) {
		_, err := cookie.NewCodec([]byte("short"))
		require.NoError(t, err)
	})
}

func TestCodec_SealOpenRoundTrip(t *testing.T) {
	codec, err := cookie.NewCodec([]byte("test-secret"))
	require.NoError(t, err)

	ticket := newTestTicket()
	value, err := codec.Seal(ticket)
	require.NoError(t, err)

	opened, err := codec.Open(value)
	require.NoError(t, err)
	require.Equal(t, ticket.ID, opened.ID)
	require.Equal(t, ticket.Scheme, opened.Scheme)
	require.Equal(t, "user-1", opened.Principal.Subject)
	require.True(t, ticket.ExpiresAt.Equal(opened.ExpiresAt))

	accessToken, ok := opened.Properties.Get(".Token.access_token")
	require.True(t, ok)
	require.Equal(t, "at1", accessToken)
}

func TestCodec_Open_Rejects(t *testing.T) {
	codec, err := cookie.NewCodec([]byte("test-secret"))
	require.NoError(t, err)

	value, err := codec.Seal(newTestTicket())
	require.NoError(t, err)

	t.Run("tampered value", func(t *testing.T) {
		tampered := []byte(value)
		tampered[len(tampered)-1] ^= 'x'
		_, err := codec.Open(string(tampered))
		require.ErrorIs(t, err, cookie.ErrInvalidTicket)
	})

	t.Run("wrong key", func(t *testing.T) {
		other, err := cookie.NewCodec([]byte("other-secret"))
		require.NoError(t, err)
		_, err = other.Open(value)
		require.ErrorIs(t, err, cookie.ErrInvalidTicket)
	})

	t.Run("not base64", func(t *testing.T) {
		_, err := codec.Open("!!!not-base64!!!")
		require.ErrorIs(t, err, cookie.ErrInvalidTicket)
	})

	t.Run("truncated", func(t *testing.T) {
		_, err := codec.Open("c2hvcnQ")
		require.ErrorIs(t, err, cookie.ErrInvalidTicket)
	})
}
