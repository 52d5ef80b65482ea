package cookie

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/jrsteele09/go-session-tokens/authsession"
)

const (
	defaultCookieName = "__session"
	defaultScheme     = "cookie"
	defaultLifetime   = 8 * time.Hour
)

var _ authsession.Manager = (*Session)(nil)

// Options configure the cookie session manager.
type Options struct {
	// CookieName is the cookie holding the default scheme's ticket. Other
	// schemes use "<CookieName>.<scheme>".
	CookieName string
	// DefaultScheme is the scheme selected by an empty scheme name.
	DefaultScheme string
	// Lifetime bounds how long an issued ticket stays valid.
	Lifetime time.Duration
	// Path and Secure are applied to issued cookies.
	Path   string
	Secure bool
}

func (o Options) withDefaults() Options {
	if o.CookieName == "" {
		o.CookieName = defaultCookieName
	}
	if o.DefaultScheme == "" {
		o.DefaultScheme = defaultScheme
	}
	if o.Lifetime <= 0 {
		o.Lifetime = defaultLifetime
	}
	if o.Path == "" {
		o.Path = "/"
	}
	return o
}

// Session is a per-request authsession.Manager backed by an encrypted cookie.
// Authenticate opens the request's ticket cookie; SignIn seals a fresh ticket
// and sets it on the response. One Session serves exactly one request.
type Session struct {
	w       http.ResponseWriter
	r       *http.Request
	codec   *Codec
	options Options
	nowFunc func() time.Time
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) SessionOption {
	return func(s *Session) {
		s.nowFunc = nowFunc
	}
}

// NewRequestSession creates the session manager for a single request.
func NewRequestSession(w http.ResponseWriter, r *http.Request, codec *Codec, options Options, sessionOptions ...SessionOption) *Session {
	s := &Session{
		w:       w,
		r:       r,
		codec:   codec,
		options: options.withDefaults(),
		nowFunc: time.Now,
	}
	for _, opt := range sessionOptions {
		opt(s)
	}
	return s
}

// Authenticate opens the ticket cookie for a scheme. A missing, invalid, or
// expired ticket yields a failed result, not an error.
func (s *Session) Authenticate(_ context.Context, scheme string) (*authsession.Result, error) {
	scheme = s.resolveScheme(scheme)

	c, err := s.r.Cookie(s.cookieName(scheme))
	if err != nil {
		return authsession.Failed(scheme), nil
	}

	ticket, err := s.codec.Open(c.Value)
	if err != nil {
		return authsession.Failed(scheme), nil
	}

	if ticket.Scheme != scheme || s.nowFunc().After(ticket.ExpiresAt) {
		return authsession.Failed(scheme), nil
	}

	properties := ticket.Properties
	if properties == nil {
		properties = authsession.NewProperties()
	}

	return &authsession.Result{
		Succeeded:  true,
		Scheme:     scheme,
		Principal:  ticket.Principal,
		Properties: properties,
	}, nil
}

// SignIn seals a fresh ticket for the principal and property bag and sets it
// on the response, replacing any previous session for the scheme.
func (s *Session) SignIn(_ context.Context, scheme string, principal *authsession.Principal, properties *authsession.Properties) error {
	if principal == nil {
		return errors.New("[Session.SignIn] principal is required")
	}
	scheme = s.resolveScheme(scheme)

	now := s.nowFunc()
	ticket := &Ticket{
		ID:         uuid.New().String(),
		Scheme:     scheme,
		Principal:  principal,
		Properties: properties,
		IssuedAt:   now,
		ExpiresAt:  now.Add(s.options.Lifetime),
	}

	value, err := s.codec.Seal(ticket)
	if err != nil {
		return errors.Wrap(err, "[Session.SignIn] seal ticket")
	}

	http.SetCookie(s.w, &http.Cookie{
		Name:     s.cookieName(scheme),
		Value:    value,
		Path:     s.options.Path,
		Expires:  ticket.ExpiresAt,
		Secure:   s.options.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (s *Session) resolveScheme(scheme string) string {
	if scheme == "" {
		return s.options.DefaultScheme
	}
	return scheme
}

func (s *Session) cookieName(scheme string) string {
	if scheme == s.options.DefaultScheme {
		return s.options.CookieName
	}
	return s.options.CookieName + "." + scheme
}
