// Package identitysvc verifies sign-in tokens issued by identity providers.
package identitysvc

import (
	"context"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/osisproject0-hub/smaktal/core"
)

// GoogleVerifier accepts Google ID tokens issued for the configured OAuth client.
type GoogleVerifier struct {
	clientID string
	verifier googleAuthIDTokenVerifier.Verifier
}

var _ core.IdentityVerifier = (*GoogleVerifier)(nil)

func NewGoogleVerifier(conf *core.Config) *GoogleVerifier {
	return &GoogleVerifier{clientID: conf.GoogleClientID}
}

func (v *GoogleVerifier) Verify(_ context.Context, idToken string) (core.Principal, error) {
	if idToken == "" {
		return core.Principal{}, core.ErrInvalidIDToken
	}
	if err := v.verifier.VerifyIDToken(idToken, []string{v.clientID}); err != nil {
		return core.Principal{}, errors.Wrap(core.ErrInvalidIDToken, err.Error())
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(idToken)
	if err != nil {
		return core.Principal{}, errors.Wrap(err, "decoding ID token")
	}
	if claimSet.Sub == "" {
		return core.Principal{}, core.ErrInvalidIDToken
	}

	return core.Principal{
		UID:         claimSet.Sub,
		Email:       claimSet.Email,
		DisplayName: claimSet.Name,
		PhotoURL:    picture(idToken),
	}, nil
}

// picture reads the profile picture claim of an already verified token.
func picture(idToken string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, claims); err != nil {
		return ""
	}
	pic, _ := claims["picture"].(string)
	return pic
}
