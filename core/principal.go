package core

import (
	"context"
	"errors"
)

// Principal is the identity established by sign-in. UID is the stable user id.
type Principal struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL"`
}

func (p *Principal) IsZero() bool {
	return p == nil || p.UID == ""
}

// ErrInvalidIDToken is returned by an IdentityVerifier for a token it does not accept.
var ErrInvalidIDToken = errors.New("invalid ID token")

// IdentityVerifier turns an identity provider's ID token into a Principal.
type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) (Principal, error)
}
