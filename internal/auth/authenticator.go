package auth

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// CredentialStore is the subset of the user store the authenticator
// needs: a liveness check for token subjects.
type CredentialStore interface {
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// Authenticator resolves a bearer credential to a Principal. It never
// fails a request: anything short of a valid token for a live account
// degrades to anonymous, so public routes keep working.
type Authenticator struct {
	tokens *TokenManager
	store  CredentialStore
	logger *zap.Logger
}

// NewAuthenticator constructs the authenticator.
func NewAuthenticator(tokens *TokenManager, store CredentialStore, logger *zap.Logger) *Authenticator {
	return &Authenticator{tokens: tokens, store: store, logger: logger}
}

// Authenticate extracts and verifies the Authorization header. A nil
// result means anonymous. The subject must still exist in the credential
// store; tokens for deleted accounts do not authenticate even when their
// signature is valid.
func (a *Authenticator) Authenticate(ctx context.Context, authHeader string) *Principal {
	if authHeader == "" {
		return nil
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		a.logger.Debug("authentication failed", zap.String("cause", "malformed header"))
		return nil
	}

	claims, err := a.tokens.Verify(parts[1])
	if err != nil {
		a.logger.Debug("authentication failed", zap.Error(err))
		return nil
	}

	exists, err := a.store.ExistsByUsername(ctx, claims.Subject)
	if err != nil {
		a.logger.Warn("credential store lookup failed", zap.Error(err))
		return nil
	}
	if !exists {
		a.logger.Debug("authentication failed",
			zap.String("cause", "subject no longer exists"),
			zap.String("subject", claims.Subject))
		return nil
	}

	return &Principal{Subject: claims.Subject, Role: claims.Role}
}
