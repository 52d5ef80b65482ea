package tokenstore

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-session-tokens/authsession"
)

// expiresAtLayout is the round-trip encoding used for the expiry entry. It is
// locale-independent and preserves whatever sub-second precision the caller
// supplies.
const expiresAtLayout = time.RFC3339Nano

var (
	// ErrAnonymousSession is returned when tokens are stored or the bag
	// mutated for a request that did not authenticate. Writing tokens
	// without a valid session is a usage error, never recovered silently.
	ErrAnonymousSession = errors.New("session token store: anonymous session")
)

// Store persists OAuth access/refresh tokens and their expiry inside an
// authenticated session's property bag. Each operation is a single
// authenticate, read/mutate, re-issue transaction against the session
// manager; the store itself keeps no state and performs no locking.
type Store struct {
	sessions  authsession.Manager
	transform authsession.PrincipalTransformer
	logger    zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithPrincipalTransformer sets the hook run on the authenticated principal
// before the session is re-issued.
func WithPrincipalTransformer(transform authsession.PrincipalTransformer) Option {
	return func(s *Store) {
		s.transform = transform
	}
}

// WithLogger sets the store's logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a session token store over the given session manager.
func New(sessions authsession.Manager, options ...Option) (*Store, error) {
	if sessions == nil {
		return nil, errors.New("[tokenstore.New] session manager is required")
	}

	store := &Store{
		sessions:  sessions,
		transform: authsession.IdentityTransformer,
		logger:    log.Logger,
	}

	for _, opt := range options {
		opt(store)
	}

	return store, nil
}

// GetToken reads the token record scoped by parameters from the current
// session. A failed authentication, a session without a property bag, or a
// bag with no token entries all return (nil, nil): the session simply has no
// tokens to offer. An expiry entry that does not parse is an error.
func (s *Store) GetToken(ctx context.Context, user *authsession.Principal, parameters *Parameters) (*TokenRecord, error) {
	parameters = parameters.orDefaults()

	result, err := s.sessions.Authenticate(ctx, parameters.SignInScheme)
	if err != nil {
		return nil, errors.Wrap(err, "[Store.GetToken] authenticate")
	}

	if !result.Succeeded || result.Properties == nil {
		s.logger.Info().
			Str("scheme", parameters.SignInScheme).
			Str("sub", subject(user)).
			Msg("cannot read tokens: no authenticated session")
		return nil, nil
	}

	entries := tokenEntries(result.Properties)
	if len(entries) == 0 {
		s.logger.Info().
			Str("scheme", parameters.SignInScheme).
			Str("sub", subject(user)).
			Msg("no token entries in session: token persistence not enabled")
		return nil, nil
	}

	record := &TokenRecord{}

	if value, ok := entries[StorageKey(AccessTokenKind, parameters.Resource)]; ok {
		record.AccessToken = value
	}
	if value, ok := entries[StorageKey(RefreshTokenKind, parameters.ChallengeScheme)]; ok {
		record.RefreshToken = value
	}
	if value, ok := entries[StorageKey(ExpiresAtKind, parameters.Resource)]; ok {
		expiresAt, err := time.Parse(expiresAtLayout, value)
		if err != nil {
			return nil, errors.Wrapf(err, "[Store.GetToken] parse %q", StorageKey(ExpiresAtKind, parameters.Resource))
		}
		record.ExpiresAt = expiresAt
	}

	return record, nil
}

// StoreToken writes an access token, its expiry, and optionally a refresh
// token into the current session's property bag and re-issues the session.
// The principal transformer runs on the authenticated principal before
// re-issue. An unauthenticated session is an error: the bag is left
// untouched and ErrAnonymousSession is returned.
func (s *Store) StoreToken(ctx context.Context, user *authsession.Principal, accessToken string, expiresAt time.Time, refreshToken string, parameters *Parameters) error {
	parameters = parameters.orDefaults()

	result, err := s.sessions.Authenticate(ctx, parameters.SignInScheme)
	if err != nil {
		return errors.Wrap(err, "[Store.StoreToken] authenticate")
	}
	if !result.Succeeded || result.Properties == nil {
		return errors.Wrapf(ErrAnonymousSession, "[Store.StoreToken] scheme %q", parameters.SignInScheme)
	}

	principal, err := s.transform(ctx, result.Principal)
	if err != nil {
		return errors.Wrap(err, "[Store.StoreToken] transform principal")
	}

	properties := result.Properties

	// The write path computes bare key suffixes; setTokenValue re-adds the
	// TokenPrefix so stored keys match what GetToken computes.
	setTokenValue(properties, TokenKey(AccessTokenKind, parameters.Resource), accessToken)
	setTokenValue(properties, TokenKey(ExpiresAtKind, parameters.Resource), expiresAt.Format(expiresAtLayout))

	if refreshToken != "" {
		if !updateTokenValue(properties, TokenKey(RefreshTokenKind, parameters.ChallengeScheme), refreshToken) {
			setTokenValue(properties, TokenKey(RefreshTokenKind, parameters.ChallengeScheme), refreshToken)
		}
	}

	if err := s.sessions.SignIn(ctx, parameters.SignInScheme, principal, properties); err != nil {
		return errors.Wrap(err, "[Store.StoreToken] sign in")
	}
	return nil
}

// ClearToken removes the token entries scoped by parameters from the current
// session and re-issues it. Clearing an unauthenticated session is a no-op:
// there is nothing to clear.
func (s *Store) ClearToken(ctx context.Context, user *authsession.Principal, parameters *Parameters) error {
	parameters = parameters.orDefaults()

	result, err := s.sessions.Authenticate(ctx, parameters.SignInScheme)
	if err != nil {
		return errors.Wrap(err, "[Store.ClearToken] authenticate")
	}
	if !result.Succeeded || result.Properties == nil {
		s.logger.Info().
			Str("scheme", parameters.SignInScheme).
			Str("sub", subject(user)).
			Msg("cannot clear tokens: no authenticated session")
		return nil
	}

	properties := result.Properties
	removed := false
	removed = properties.Delete(StorageKey(AccessTokenKind, parameters.Resource)) || removed
	removed = properties.Delete(StorageKey(ExpiresAtKind, parameters.Resource)) || removed
	removed = properties.Delete(StorageKey(RefreshTokenKind, parameters.ChallengeScheme)) || removed
	if !removed {
		return nil
	}

	principal, err := s.transform(ctx, result.Principal)
	if err != nil {
		return errors.Wrap(err, "[Store.ClearToken] transform principal")
	}

	if err := s.sessions.SignIn(ctx, parameters.SignInScheme, principal, properties); err != nil {
		return errors.Wrap(err, "[Store.ClearToken] sign in")
	}
	return nil
}

// tokenEntries returns the bag entries owned by the store, keyed by their
// full storage key. Duplicate keys are a bag invariant violation; the first
// occurrence wins.
func tokenEntries(properties *authsession.Properties) map[string]string {
	entries := make(map[string]string)
	for _, entry := range properties.Entries() {
		if !IsTokenKey(entry.Key) {
			continue
		}
		if _, ok := entries[entry.Key]; ok {
			continue
		}
		entries[entry.Key] = entry.Value
	}
	return entries
}

// subject names the caller's principal in log lines. The authenticate result,
// not this value, decides whose session gets read or written.
func subject(user *authsession.Principal) string {
	if user == nil {
		return ""
	}
	return user.Subject
}

func setTokenValue(properties *authsession.Properties, suffix, value string) {
	properties.Set(TokenPrefix+suffix, value)
}

func updateTokenValue(properties *authsession.Properties, suffix, value string) bool {
	return properties.Update(TokenPrefix+suffix, value)
}
