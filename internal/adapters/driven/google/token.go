// Package google implements the Google collaborators: OAuth token refresh
// and calendar event creation.
package google

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/voicecal/internal/core/domain"
	"github.com/custodia-labs/voicecal/internal/core/ports/driven"
)

// defaultTokenURL is Google's OAuth2 token endpoint.
const defaultTokenURL = "https://oauth2.googleapis.com/token" //nolint:gosec // OAuth endpoint URL, not a credential

// Ensure TokenProvider implements the interface.
var _ driven.TokenProvider = (*TokenProvider)(nil)

// TokenProvider exchanges a long-lived refresh token for short-lived access
// tokens. Every call performs a fresh exchange; the pipeline acquires exactly
// one token per request and nothing is cached across requests.
type TokenProvider struct {
	cfg          *oauth2.Config
	refreshToken string
}

// NewTokenProvider creates a token provider for the given OAuth client.
// tokenURL overrides the Google endpoint and is meant for tests; pass ""
// for the real one.
func NewTokenProvider(clientID, clientSecret, refreshToken, tokenURL string) *TokenProvider {
	if tokenURL == "" {
		tokenURL = defaultTokenURL
	}
	return &TokenProvider{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     oauth2.Endpoint{TokenURL: tokenURL},
		},
		refreshToken: refreshToken,
	}
}

// AccessToken performs the refresh-token grant and returns the access token.
func (p *TokenProvider) AccessToken(ctx context.Context) (string, error) {
	src := p.cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: p.refreshToken})
	tok, err := src.Token()
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrTokenExchange, err)
	}
	return tok.AccessToken, nil
}
