package identity

import "context"

// Profile is a verified identity produced by an external provider.
type Profile struct {
	Email string
	Name  string
}

// Source verifies a provider-specific assertion and yields a profile. Any
// source that can do this may hand off to the same lookup-or-create login
// path used for local credentials.
type Source interface {
	Verify(ctx context.Context, assertion string) (*Profile, error)
}
