package cookie_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-session-tokens/authsession"
	"github.com/jrsteele09/go-session-tokens/authsession/cookie"
	"github.com/jrsteele09/go-session-tokens/tokenstore"
)

func newTestCodec(t *testing.T) *cookie.Codec {
	t.Helper()
	codec, err := cookie.NewCodec([]byte("test-secret"))
	require.NoError(t, err)
	return codec
}

// signInAndCapture signs a principal in on a throwaway response and returns
// the issued cookies.
func signInAndCapture(t *testing.T, codec *cookie.Codec, options cookie.Options, scheme string, principal *authsession.Principal, properties *authsession.Properties) []*http.Cookie {
	t.Helper()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/login", nil)
	session := cookie.NewRequestSession(w, r, codec, options)

	require.NoError(t, session.SignIn(context.Background(), scheme, principal, properties))
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func TestSession_SignInAuthenticateRoundTrip(t *testing.T) {
	codec := newTestCodec(t)
	principal := &authsession.Principal{Subject: "user-1"}
	properties := authsession.NewProperties()
	properties.Set(".Token.access_token", "at1")

	cookies := signInAndCapture(t, codec, cookie.Options{}, "", principal, properties)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	session := cookie.NewRequestSession(httptest.NewRecorder(), r, codec, cookie.Options{})

	result, err := session.Authenticate(context.Background(), "")
	require.NoError(t, err)
	require.True(t, result.Succeeded)
	require.Equal(t, "user-1", result.Principal.Subject)

	accessToken, ok := result.Properties.Get(".Token.access_token")
	require.True(t, ok)
	require.Equal(t, "at1", accessToken)
}

func TestSession_Authenticate_Failures(t *testing.T) {
	codec := newTestCodec(t)

	t.Run("no cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		session := cookie.NewRequestSession(httptest.NewRecorder(), r, codec, cookie.Options{})

		result, err := session.Authenticate(context.Background(), "")
		require.NoError(t, err)
		require.False(t, result.Succeeded)
		require.Nil(t, result.Properties)
	})

	t.Run("garbage cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "__session", Value: "garbage"})
		session := cookie.NewRequestSession(httptest.NewRecorder(), r, codec, cookie.Options{})

		result, err := session.Authenticate(context.Background(), "")
		require.NoError(t, err)
		require.False(t, result.Succeeded)
	})

	t.Run("expired ticket", func(t *testing.T) {
		cookies := signInAndCapture(t, codec, cookie.Options{Lifetime: time.Minute}, "",
			&authsession.Principal{Subject: "user-1"}, authsession.NewProperties())

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		for _, c := range cookies {
			r.AddCookie(c)
		}
		session := cookie.NewRequestSession(httptest.NewRecorder(), r, codec, cookie.Options{},
			cookie.WithNowTime(func() time.Time { return time.Now().Add(2 * time.Minute) }))

		result, err := session.Authenticate(context.Background(), "")
		require.NoError(t, err)
		require.False(t, result.Succeeded)
	})

	t.Run("wrong scheme cookie", func(t *testing.T) {
		cookies := signInAndCapture(t, codec, cookie.Options{}, "oidc",
			&authsession.Principal{Subject: "user-1"}, authsession.NewProperties())

		// The oidc ticket lives under "__session.oidc"; the default scheme
		// sees nothing.
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		for _, c := range cookies {
			r.AddCookie(c)
		}
		session := cookie.NewRequestSession(httptest.NewRecorder(), r, codec, cookie.Options{})

		result, err := session.Authenticate(context.Background(), "")
		require.NoError(t, err)
		require.False(t, result.Succeeded)

		result, err = session.Authenticate(context.Background(), "oidc")
		require.NoError(t, err)
		require.True(t, result.Succeeded)
	})
}

func TestSession_SignIn_RequiresPrincipal(t *testing.T) {
	codec := newTestCodec(t)
	session := cookie.NewRequestSession(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil), codec, cookie.Options{})

	require.Error(t, session.SignIn(context.Background(), "", nil, authsession.NewProperties()))
}

// The cookie session manager drives the token store the same way the fake
// does: store on one request, read back on the next.
func TestSession_TokenStoreIntegration(t *testing.T) {
	codec := newTestCodec(t)
	user := &authsession.Principal{Subject: "user-1"}

	// Request 1: establish the session.
	loginCookies := signInAndCapture(t, codec, cookie.Options{}, "", user, authsession.NewProperties())

	// Request 2: store tokens; the re-issued ticket lands on this response.
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/tokens", nil)
	for _, c := range loginCookies {
		r.AddCookie(c)
	}
	store, err := tokenstore.New(cookie.NewRequestSession(w, r, codec, cookie.Options{}))
	require.NoError(t, err)

	expiresAt := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.StoreToken(context.Background(), user, "at1", expiresAt, "rt1",
		&tokenstore.Parameters{Resource: "api1"}))

	// Request 3: read them back from the re-issued cookie.
	r = httptest.NewRequest(http.MethodGet, "/tokens", nil)
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}
	store, err = tokenstore.New(cookie.NewRequestSession(httptest.NewRecorder(), r, codec, cookie.Options{}))
	require.NoError(t, err)

	record, err := store.GetToken(context.Background(), user, &tokenstore.Parameters{Resource: "api1"})
	require.NoError(t, err)
	require.NotNil(t, record)
	require.Equal(t, "at1", record.AccessToken)
	require.Equal(t, "rt1", record.RefreshToken)
	require.True(t, expiresAt.Equal(record.ExpiresAt))

	record, err = store.GetToken(context.Background(), user, &tokenstore.Parameters{Resource: "api2"})
	require.NoError(t, err)
	require.NotNil(t, record)
	require.False(t, record.HasAccessToken())
}
