package google

import (
	"context"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/voicecal/internal/core/ports/driven"
)

// NewTokenSource adapts a TokenProvider to the oauth2.TokenSource interface
// so Google API clients can authenticate through it.
func NewTokenSource(ctx context.Context, tokens driven.TokenProvider) oauth2.TokenSource {
	return &tokenSource{ctx: ctx, tokens: tokens}
}

type tokenSource struct {
	ctx    context.Context
	tokens driven.TokenProvider
}

// Token fetches a fresh access token from the provider.
func (s *tokenSource) Token() (*oauth2.Token, error) {
	access, err := s.tokens.AccessToken(s.ctx)
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{AccessToken: access}, nil
}
