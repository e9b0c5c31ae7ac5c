package google

import (
	"context"
	"errors"

	"google.golang.org/api/idtoken"

	"github.com/bamiogunfemi/amy-sub000/internal/identity"
)

// Verifier validates Google ID tokens against the configured OAuth client.
type Verifier struct {
	clientID string
}

// NewVerifier builds an identity source for Google sign-in.
func NewVerifier(clientID string) identity.Source {
	return &Verifier{clientID: clientID}
}

// Verify validates the ID token and extracts the profile claims.
func (v *Verifier) Verify(ctx context.Context, assertion string) (*identity.Profile, error) {
	payload, err := idtoken.Validate(ctx, assertion, v.clientID)
	if err != nil {
		return nil, err
	}

	email, ok := payload.Claims["email"].(string)
	if !ok || email == "" {
		return nil, errors.New("email not found in claims")
	}
	name, ok := payload.Claims["name"].(string)
	if !ok {
		name = email
	}
	return &identity.Profile{Email: email, Name: name}, nil
}
