package middleware

import "context"

// ProviderIdentity is what an external identity provider asserts about a
// user after its token checks out.
type ProviderIdentity struct {
	Provider  string
	SubjectID string
	Name      string
	PfpURL    string
}

// TokenVerifier verifies an external provider's ID token. The core never
// talks to a provider SDK directly; adapters live under pkg/.
type TokenVerifier interface {
	Verify(ctx context.Context, idToken string) (*ProviderIdentity, error)
}
