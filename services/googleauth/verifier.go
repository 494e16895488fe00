// Package googleauth verifies Google ID tokens against a single OAuth
// client id.
package googleauth

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/idtoken"
)

var ErrNotConfigured = errors.New("google login is not configured")

// Profile holds the identity claims extracted from a verified ID token.
type Profile struct {
	Email      string
	GivenName  string
	FamilyName string
	Picture    string
}

type Verifier struct {
	clientID string
}

func NewVerifier(clientID string) Verifier {
	return Verifier{clientID: clientID}
}

// Verify validates the raw ID token against Google's public keys, restricted
// to the configured audience, and returns the profile claims.
func (v Verifier) Verify(ctx context.Context, rawToken string) (Profile, error) {
	if v.clientID == "" {
		return Profile{}, ErrNotConfigured
	}

	payload, err := idtoken.Validate(ctx, rawToken, v.clientID)
	if err != nil {
		return Profile{}, fmt.Errorf("verifying google id token: %w", err)
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return Profile{}, errors.New("google id token has no email claim")
	}

	profile := Profile{Email: email}
	profile.GivenName, _ = payload.Claims["given_name"].(string)
	profile.FamilyName, _ = payload.Claims["family_name"].(string)
	profile.Picture, _ = payload.Claims["picture"].(string)
	return profile, nil
}
