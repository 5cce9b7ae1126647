package oauth

import (
	"errors"
	"fmt"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
)

var ErrInvalidIDToken = errors.New("invalid Google ID token")

// GoogleIDTokenVerifier accepts ID tokens minted by Google Sign-In on the client.
type GoogleIDTokenVerifier struct {
	ClientID string
}

func (g GoogleIDTokenVerifier) Verify(idToken string) (*Profile, error) {
	if g.ClientID == "" {
		return nil, ErrUnknownProvider
	}

	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(idToken, []string{g.ClientID}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIDToken, err)
	}

	claims, err := googleAuthIDTokenVerifier.Decode(idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIDToken, err)
	}
	if claims.Email == "" {
		return nil, ErrNoEmail
	}
	return &Profile{Provider: "google", ID: claims.Sub, Name: claims.Name, Email: claims.Email}, nil
}
