package chatgateway

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// TokenProvider supplies the bearer token for gateway calls.
//
// The provider may be shared across concurrent logical calls; the
// gateway session only guarantees the single-retry-per-call contract.
// Use CoalescingTokenProvider when two calls hitting 401 at the same
// time must not trigger two parallel refreshes.
type TokenProvider interface {
	// CurrentToken returns the current bearer token, or false if no
	// usable credential is available.
	CurrentToken() (string, bool)

	// Refresh obtains a new token (e.g., by exchanging a refresh token).
	// Blocking; bounded by ctx.
	Refresh(ctx context.Context) (string, error)
}

// StaticTokenProvider supplies a fixed token and cannot refresh.
// Useful for development and tests.
type StaticTokenProvider struct {
	Token string
}

// CurrentToken returns the fixed token.
func (p *StaticTokenProvider) CurrentToken() (string, bool) {
	if p.Token == "" {
		return "", false
	}
	return p.Token, true
}

// Refresh always fails: a static token cannot be renewed.
func (p *StaticTokenProvider) Refresh(ctx context.Context) (string, error) {
	return "", ErrAuthentication
}

// CoalescingTokenProvider wraps a TokenProvider and collapses
// concurrent Refresh calls: while one refresh is in flight, additional
// callers share its result instead of starting their own.
type CoalescingTokenProvider struct {
	inner TokenProvider
	group singleflight.Group
}

// NewCoalescingTokenProvider wraps inner with refresh deduplication.
func NewCoalescingTokenProvider(inner TokenProvider) *CoalescingTokenProvider {
	return &CoalescingTokenProvider{inner: inner}
}

// CurrentToken delegates to the wrapped provider.
func (p *CoalescingTokenProvider) CurrentToken() (string, bool) {
	return p.inner.CurrentToken()
}

// Refresh performs or joins the single in-flight refresh.
// The shared refresh runs detached from any single caller's context so
// one caller cancelling does not fail the others; each waiter still
// honors its own ctx.
func (p *CoalescingTokenProvider) Refresh(ctx context.Context) (string, error) {
	ch := p.group.DoChan("refresh", func() (any, error) {
		return p.inner.Refresh(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
