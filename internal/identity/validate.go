package identity

import (
	"context"
	"log/slog"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
)

// ValidateScope attempts to mint a token for the given scope and logs
// the outcome. Validation is diagnostic only: the credential is
// returned unchanged whether or not the token request succeeds.
func ValidateScope(ctx context.Context, credential azcore.TokenCredential, scope string, logger *slog.Logger) azcore.TokenCredential {
	if logger == nil {
		logger = slog.Default()
	}
	if scope == "" {
		return credential
	}
	_, err := credential.GetToken(ctx, policy.TokenRequestOptions{
		Scopes: []string{scope},
	})
	if err != nil {
		logger.Error("credential failed scope validation", "scope", scope, "error", err)
		return credential
	}
	logger.Info("credential validated for scope", "scope", scope)
	return credential
}
