// internal/auth/auth.go
package auth

import (
	"errors"
	"sync"
)

var (
	ErrNotOwner       = errors.New("caller is not the owner")
	ErrAlreadyGranted = errors.New("principal is already granted")
	ErrNotGranted     = errors.New("principal is not granted")
)

// Authorizer is the capability predicate the club consumes. It decides
// nothing about identity; callers arrive as opaque principal strings.
type Authorizer interface {
	IsPermitted(principal string) bool
}

// AllowList authorizes an owner plus a grantable set of principals, with a
// togglable enforcement policy: while enforcement is off, every caller is
// permitted. Owner-only mutations return typed errors instead of failing
// silently.
type AllowList struct {
	mu      sync.RWMutex
	owner   string
	granted map[string]struct{}
	enforce bool
}

// NewAllowList creates an allow-list owned by owner with enforcement on.
func NewAllowList(owner string) *AllowList {
	return &AllowList{
		owner:   owner,
		granted: make(map[string]struct{}),
		enforce: true,
	}
}

func (a *AllowList) IsPermitted(principal string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if !a.enforce {
		return true
	}
	if principal == a.owner {
		return true
	}
	_, ok := a.granted[principal]
	return ok
}

// SetOwner transfers ownership. Only the current owner may call it.
func (a *AllowList) SetOwner(caller, newOwner string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if caller != a.owner {
		return ErrNotOwner
	}
	a.owner = newOwner
	return nil
}

// Grant adds a principal to the allow-list.
func (a *AllowList) Grant(caller, principal string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if caller != a.owner {
		return ErrNotOwner
	}
	if _, ok := a.granted[principal]; ok {
		return ErrAlreadyGranted
	}
	a.granted[principal] = struct{}{}
	return nil
}

// Revoke removes a principal from the allow-list.
func (a *AllowList) Revoke(caller, principal string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if caller != a.owner {
		return ErrNotOwner
	}
	if _, ok := a.granted[principal]; !ok {
		return ErrNotGranted
	}
	delete(a.granted, principal)
	return nil
}

// TogglePolicy flips enforcement on or off and reports the new state.
func (a *AllowList) TogglePolicy(caller string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if caller != a.owner {
		return false, ErrNotOwner
	}
	a.enforce = !a.enforce
	return a.enforce, nil
}

// Enforced reports whether the policy is currently enforced.
func (a *AllowList) Enforced() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enforce
}

// PermitAll authorizes every principal; useful for tests and trusted
// single-tenant deployments.
type PermitAll struct{}

func (PermitAll) IsPermitted(string) bool { return true }
