package authsession

import "context"

// Result is the outcome of authenticating the current request against a
// scheme. A failed authentication carries no principal and no properties.
type Result struct {
	Succeeded  bool
	Scheme     string
	Principal  *Principal
	Properties *Properties
}

// Failed returns a Result for an authentication that did not succeed.
func Failed(scheme string) *Result {
	return &Result{Scheme: scheme}
}

// Manager is the session collaborator the token store works against: it
// authenticates the current request and re-issues the session with updated
// state. An empty scheme selects the implementation's default scheme.
//
// Authenticate returns a failed Result (not an error) when no valid session
// exists for the scheme; errors are reserved for the mechanism itself
// breaking. SignIn replaces the session's persisted principal and property
// bag; atomicity of authenticate-then-sign-in across concurrent requests is
// the implementation's concern, not the caller's.
type Manager interface {
	Authenticate(ctx context.Context, scheme string) (*Result, error)
	SignIn(ctx context.Context, scheme string, principal *Principal, properties *Properties) error
}
