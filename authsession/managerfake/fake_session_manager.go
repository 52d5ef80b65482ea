package managerfake

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-session-tokens/authsession"
)

var _ authsession.Manager = (*FakeSessionManager)(nil)

// SignInCall records a single SignIn invocation.
type SignInCall struct {
	Scheme     string
	Principal  *authsession.Principal
	Properties *authsession.Properties
}

// FakeSessionManager is an in-memory authsession.Manager for tests. Each
// scheme holds at most one session; SignIn replaces it and records the call.
type FakeSessionManager struct {
	defaultScheme string
	sessions      map[string]*authsession.Result
	signIns       []SignInCall
	lock          sync.RWMutex
}

func NewFakeSessionManager(defaultScheme string) *FakeSessionManager {
	return &FakeSessionManager{
		defaultScheme: defaultScheme,
		sessions:      make(map[string]*authsession.Result),
	}
}

// SetSession seeds an authenticated session for a scheme.
func (m *FakeSessionManager) SetSession(scheme string, principal *authsession.Principal, properties *authsession.Properties) {
	m.lock.Lock()
	defer m.lock.Unlock()

	scheme = m.resolve(scheme)
	m.sessions[scheme] = &authsession.Result{
		Succeeded:  true,
		Scheme:     scheme,
		Principal:  principal,
		Properties: properties,
	}
}

// SetFailed seeds a failed authentication for a scheme.
func (m *FakeSessionManager) SetFailed(scheme string) {
	m.lock.Lock()
	defer m.lock.Unlock()

	scheme = m.resolve(scheme)
	m.sessions[scheme] = authsession.Failed(scheme)
}

func (m *FakeSessionManager) Authenticate(_ context.Context, scheme string) (*authsession.Result, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	scheme = m.resolve(scheme)
	if result, ok := m.sessions[scheme]; ok {
		return result, nil
	}
	return authsession.Failed(scheme), nil
}

func (m *FakeSessionManager) SignIn(_ context.Context, scheme string, principal *authsession.Principal, properties *authsession.Properties) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	scheme = m.resolve(scheme)
	m.signIns = append(m.signIns, SignInCall{Scheme: scheme, Principal: principal, Properties: properties})
	m.sessions[scheme] = &authsession.Result{
		Succeeded:  true,
		Scheme:     scheme,
		Principal:  principal,
		Properties: properties,
	}
	return nil
}

// SignIns returns the recorded SignIn calls in order.
func (m *FakeSessionManager) SignIns() []SignInCall {
	m.lock.RLock()
	defer m.lock.RUnlock()

	calls := make([]SignInCall, len(m.signIns))
	copy(calls, m.signIns)
	return calls
}

func (m *FakeSessionManager) resolve(scheme string) string {
	if scheme == "" {
		return m.defaultScheme
	}
	return scheme
}
