package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
)

// Claims is the best-effort profile the identity provider attaches to a
// verified token. Every field except Subject may be empty.
type Claims struct {
	Subject    string `json:"sub"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
}

// DisplayName derives the best available human name from the claims.
func (c *Claims) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	full := strings.TrimSpace(c.GivenName + " " + c.FamilyName)
	return full
}

// Verifier checks a raw provider token and extracts its claims.
// Production uses the OIDC implementation below; tests substitute fakes.
type Verifier interface {
	Verify(ctx context.Context, rawToken string) (*Claims, error)
}

// OIDCVerifier validates ID tokens against the configured issuer's
// published keys.
type OIDCVerifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewOIDCVerifier discovers the issuer configuration. The discovery call
// happens once at startup; a misconfigured issuer fails fast.
func NewOIDCVerifier(ctx context.Context, issuer, clientID string) (*OIDCVerifier, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("identity: discovering OIDC provider: %w", err)
	}
	return &OIDCVerifier{
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

func (v *OIDCVerifier) Verify(ctx context.Context, rawToken string) (*Claims, error) {
	idToken, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, fmt.Errorf("identity: verifying token: %w", err)
	}

	var claims Claims
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("identity: extracting claims: %w", err)
	}
	claims.Subject = idToken.Subject
	return &claims, nil
}
