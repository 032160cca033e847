// Package firebase adapts Firebase Auth to the middleware.TokenVerifier
// interface used by the provider login flow.
package firebase

import (
	"context"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"github.com/kyledinardi/odin-book-backend/internal/middleware"
)

// Verifier verifies Firebase ID tokens
type Verifier struct {
	authClient *auth.Client
}

// NewVerifier initializes the Firebase app and auth client from a service
// account credentials file.
func NewVerifier(ctx context.Context, credentialsPath string) (*Verifier, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("firebase credentials path not provided")
	}
	if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("firebase credentials file not found at %s", credentialsPath)
	}

	opt := option.WithCredentialsFile(credentialsPath)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase auth client: %w", err)
	}

	logrus.Info("firebase auth client initialized")
	return &Verifier{authClient: authClient}, nil
}

// Verify checks the ID token and maps the Firebase user onto a provider
// identity.
func (v *Verifier) Verify(ctx context.Context, idToken string) (*middleware.ProviderIdentity, error) {
	token, err := v.authClient.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("invalid or expired ID token: %w", err)
	}

	identity := &middleware.ProviderIdentity{
		Provider:  "firebase",
		SubjectID: token.UID,
	}
	if name, ok := token.Claims["name"].(string); ok {
		identity.Name = name
	}
	if picture, ok := token.Claims["picture"].(string); ok {
		identity.PfpURL = picture
	}
	return identity, nil
}
